package view

import (
	"fmt"

	"github.com/cuckooblock/vendor-portal/internal/app/model"
	"github.com/cuckooblock/vendor-portal/internal/app/workflow"
)

const (
	MsgSaved             = "Saved ✅"
	MsgSubmitted         = "Submitted for review ✅"
	MsgLegalNameRequired = "Legal name is required to submit."
)

// VendorState is the vendor workflow page.
type VendorState struct {
	UserID   string           `json:"user_id"`
	Email    string           `json:"email"`
	Loading  bool             `json:"loading"`
	Saving   bool             `json:"saving"`
	Form     model.VendorForm `json:"form"`
	Status   workflow.Status  `json:"status"`
	Badge    workflow.Badge   `json:"badge"`
	Message  string           `json:"message,omitempty"`
	Redirect string           `json:"redirect,omitempty"`
}

func NewVendorState() VendorState {
	return VendorState{
		Loading: true,
		Status:  workflow.StatusDraft,
		Badge:   workflow.BadgeFor(""),
	}
}

// CanSubmit is false while a save is in flight or the legal name is blank.
func (s VendorState) CanSubmit() bool {
	return !s.Saving && workflow.CanSubmit(s.Form.LegalName)
}

// SubmitHint explains a disabled submit button.
func (s VendorState) SubmitHint() string {
	if workflow.CanSubmit(s.Form.LegalName) {
		return ""
	}
	return MsgLegalNameRequired
}

type VendorEvent interface {
	vendorEvent()
}

type (
	SessionMissing struct{}
	SignedOut      struct{}

	ProfileLoaded struct {
		UserID  string
		Email   string
		Profile *model.VendorProfile // nil when nothing has been saved yet
	}

	LoadFailed struct {
		Err string
	}

	FieldChanged struct {
		Field string // form field name, e.g. "legal_name"
		Value string
	}

	SaveRequested struct {
		Target workflow.Status
	}

	SaveSucceeded struct {
		Profile *model.VendorProfile
	}

	SaveFailed struct {
		Err string
	}
)

func (SessionMissing) vendorEvent() {}
func (SignedOut) vendorEvent()      {}
func (ProfileLoaded) vendorEvent()  {}
func (LoadFailed) vendorEvent()     {}
func (FieldChanged) vendorEvent()   {}
func (SaveRequested) vendorEvent()  {}
func (SaveSucceeded) vendorEvent()  {}
func (SaveFailed) vendorEvent()     {}

// ReduceVendor returns the state after e. s is not modified.
func ReduceVendor(s VendorState, e VendorEvent) VendorState {
	switch e := e.(type) {
	case SessionMissing, SignedOut:
		s.Loading = false
		s.Saving = false
		s.Redirect = "/login"

	case ProfileLoaded:
		s.Loading = false
		s.UserID = e.UserID
		s.Email = e.Email
		s.Form = model.FormFromProfile(e.Profile)
		raw := ""
		if e.Profile != nil {
			raw = e.Profile.Status
		}
		s.Status = workflow.Normalize(raw)
		s.Badge = workflow.BadgeFor(raw)

	case LoadFailed:
		s.Loading = false
		s.Message = fmt.Sprintf("Load error: %s", e.Err)

	case FieldChanged:
		s.Form = setField(s.Form, e.Field, e.Value)

	case SaveRequested:
		if s.Saving {
			return s
		}
		if e.Target == workflow.StatusSubmitted && !workflow.CanSubmit(s.Form.LegalName) {
			s.Message = MsgLegalNameRequired
			return s
		}
		s.Saving = true
		s.Message = ""

	case SaveSucceeded:
		if !s.Saving {
			return s
		}
		s.Saving = false
		if e.Profile != nil {
			s.Form = model.FormFromProfile(e.Profile)
			s.Status = workflow.Normalize(e.Profile.Status)
			s.Badge = workflow.BadgeFor(e.Profile.Status)
		}
		if s.Status == workflow.StatusSubmitted {
			s.Message = MsgSubmitted
		} else {
			s.Message = MsgSaved
		}

	case SaveFailed:
		s.Saving = false
		s.Message = fmt.Sprintf("Save error: %s", e.Err)
	}
	return s
}

func setField(f model.VendorForm, field, value string) model.VendorForm {
	switch field {
	case "legal_name":
		f.LegalName = value
	case "dba_name":
		f.DBAName = value
	case "website":
		f.Website = value
	case "primary_contact_name":
		f.PrimaryContactName = value
	case "primary_contact_email":
		f.PrimaryContactEmail = value
	case "primary_contact_phone":
		f.PrimaryContactPhone = value
	case "address_line1":
		f.AddressLine1 = value
	case "address_line2":
		f.AddressLine2 = value
	case "city":
		f.City = value
	case "state":
		f.State = value
	case "zip":
		f.Zip = value
	case "ap_email":
		f.APEmail = value
	case "notes":
		f.Notes = value
	}
	return f
}
