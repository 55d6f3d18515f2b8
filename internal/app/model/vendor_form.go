package model

// VendorForm holds the vendor-editable fields as typed by the user. Every
// field is a plain string; an absent profile yields the zero value.
type VendorForm struct {
	LegalName           string `json:"legal_name" form:"legal_name"`
	DBAName             string `json:"dba_name" form:"dba_name"`
	Website             string `json:"website" form:"website"`
	PrimaryContactName  string `json:"primary_contact_name" form:"primary_contact_name"`
	PrimaryContactEmail string `json:"primary_contact_email" form:"primary_contact_email"`
	PrimaryContactPhone string `json:"primary_contact_phone" form:"primary_contact_phone"`
	AddressLine1        string `json:"address_line1" form:"address_line1"`
	AddressLine2        string `json:"address_line2" form:"address_line2"`
	City                string `json:"city" form:"city"`
	State               string `json:"state" form:"state"`
	Zip                 string `json:"zip" form:"zip"`
	APEmail             string `json:"ap_email" form:"ap_email"`
	Notes               string `json:"notes" form:"notes"`
}

// FormFromProfile copies the content columns of p. A nil profile gives an
// empty form.
func FormFromProfile(p *VendorProfile) VendorForm {
	if p == nil {
		return VendorForm{}
	}
	return VendorForm{
		LegalName:           p.LegalName,
		DBAName:             p.DBAName,
		Website:             p.Website,
		PrimaryContactName:  p.PrimaryContactName,
		PrimaryContactEmail: p.PrimaryContactEmail,
		PrimaryContactPhone: p.PrimaryContactPhone,
		AddressLine1:        p.AddressLine1,
		AddressLine2:        p.AddressLine2,
		City:                p.City,
		State:               p.State,
		Zip:                 p.Zip,
		APEmail:             p.APEmail,
		Notes:               p.Notes,
	}
}

// ToProfile builds the row written for ownerID with the given status.
func (f VendorForm) ToProfile(ownerID, status string) *VendorProfile {
	return &VendorProfile{
		ID:                  ownerID,
		OwnerUserID:         ownerID,
		LegalName:           f.LegalName,
		DBAName:             f.DBAName,
		Website:             f.Website,
		PrimaryContactName:  f.PrimaryContactName,
		PrimaryContactEmail: f.PrimaryContactEmail,
		PrimaryContactPhone: f.PrimaryContactPhone,
		AddressLine1:        f.AddressLine1,
		AddressLine2:        f.AddressLine2,
		City:                f.City,
		State:               f.State,
		Zip:                 f.Zip,
		APEmail:             f.APEmail,
		Notes:               f.Notes,
		Status:              status,
	}
}
