package view

import (
	"fmt"
	"time"

	"github.com/cuckooblock/vendor-portal/internal/app/model"
	"github.com/cuckooblock/vendor-portal/internal/app/workflow"
)

const (
	MsgAccessDenied      = "Access denied: you are not an admin."
	MsgNoVendors         = "No vendors found yet."
	placeholderLegalName = "(No legal name yet)"
)

type AdminAction struct {
	Status workflow.Status `json:"status"`
	Label  string          `json:"label"`
}

type AdminRow struct {
	ID        string         `json:"id"`
	LegalName string         `json:"legal_name"`
	Status    string         `json:"status"` // as stored
	Badge     workflow.Badge `json:"badge"`
	CreatedAt time.Time      `json:"created_at"`
	Actions   []AdminAction  `json:"actions"`
}

// DisplayName is the legal name or a placeholder for blank drafts.
func (r AdminRow) DisplayName() string {
	if r.LegalName == "" {
		return placeholderLegalName
	}
	return r.LegalName
}

// AdminState is the admin review page. Rows stay empty unless the caller
// resolved to the admin role.
type AdminState struct {
	Email      string        `json:"email"`
	Role       workflow.Role `json:"role,omitempty"`
	Authorized bool          `json:"authorized"`
	Loading    bool          `json:"loading"`
	Rows       []AdminRow    `json:"rows"`
	Message    string        `json:"message,omitempty"`
	Redirect   string        `json:"redirect,omitempty"`
}

func NewAdminState() AdminState {
	return AdminState{Loading: true, Rows: []AdminRow{}}
}

// EmptyText is shown when an admin has nothing to review.
func (s AdminState) EmptyText() string {
	if s.Authorized && !s.Loading && len(s.Rows) == 0 {
		return MsgNoVendors
	}
	return ""
}

type AdminEvent interface {
	adminEvent()
}

type (
	AdminSessionMissing struct{}

	RoleResolved struct {
		Email string
		Role  workflow.Role
	}

	RoleLookupFailed struct {
		Email string
		Err   string
	}

	VendorsLoaded struct {
		Vendors []model.VendorProfile
	}

	VendorsLoadFailed struct {
		Err string
	}

	StatusUpdated struct {
		VendorID string
		Status   workflow.Status
	}

	StatusUpdateFailed struct {
		Err string
	}
)

func (AdminSessionMissing) adminEvent() {}
func (RoleResolved) adminEvent()        {}
func (RoleLookupFailed) adminEvent()    {}
func (VendorsLoaded) adminEvent()       {}
func (VendorsLoadFailed) adminEvent()   {}
func (StatusUpdated) adminEvent()       {}
func (StatusUpdateFailed) adminEvent()  {}

// ReduceAdmin returns the state after e. s is not modified.
func ReduceAdmin(s AdminState, e AdminEvent) AdminState {
	switch e := e.(type) {
	case AdminSessionMissing:
		s.Loading = false
		s.Redirect = "/login"

	case RoleResolved:
		s.Email = e.Email
		s.Role = e.Role
		if err := workflow.Authorize(e.Role, workflow.RoleAdmin); err != nil {
			s.Authorized = false
			s.Loading = false
			s.Rows = []AdminRow{}
			s.Message = MsgAccessDenied
			return s
		}
		s.Authorized = true

	case RoleLookupFailed:
		s.Email = e.Email
		s.Authorized = false
		s.Loading = false
		s.Message = fmt.Sprintf("Profile error: %s", e.Err)

	case VendorsLoaded:
		if !s.Authorized {
			return s
		}
		s.Loading = false
		s.Rows = buildRows(e.Vendors)

	case VendorsLoadFailed:
		s.Loading = false
		s.Message = fmt.Sprintf("Vendors load error: %s", e.Err)

	case StatusUpdated:
		s.Message = fmt.Sprintf("Updated vendor %s → %s", e.VendorID, e.Status)

	case StatusUpdateFailed:
		s.Message = fmt.Sprintf("Update error: %s", e.Err)
	}
	return s
}

func buildRows(vendors []model.VendorProfile) []AdminRow {
	outcomes := workflow.ReviewOutcomes()
	rows := make([]AdminRow, 0, len(vendors))
	for _, v := range vendors {
		actions := make([]AdminAction, 0, len(outcomes))
		for _, o := range outcomes {
			actions = append(actions, AdminAction{Status: o, Label: workflow.ActionLabel(o)})
		}
		rows = append(rows, AdminRow{
			ID:        v.ID,
			LegalName: v.LegalName,
			Status:    v.Status,
			Badge:     workflow.BadgeFor(v.Status),
			CreatedAt: v.CreatedAt,
			Actions:   actions,
		})
	}
	return rows
}
