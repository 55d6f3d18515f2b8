package model

import "time"

// VendorProfile is the onboarding record of one vendor. The primary key is the
// owning account's identity id, so every account has at most one profile.
type VendorProfile struct {
	ID                  string    `gorm:"primaryKey;type:varchar(36)" json:"id"` // same as the owning account id
	OwnerUserID         string    `gorm:"type:varchar(36);not null;index" json:"owner_user_id"`
	LegalName           string    `gorm:"type:text" json:"legal_name"` // required before submission
	DBAName             string    `gorm:"column:dba_name;type:text" json:"dba_name"`
	Website             string    `gorm:"type:text" json:"website"`
	PrimaryContactName  string    `gorm:"type:text" json:"primary_contact_name"`
	PrimaryContactEmail string    `gorm:"type:text" json:"primary_contact_email"`
	PrimaryContactPhone string    `gorm:"type:text" json:"primary_contact_phone"`
	AddressLine1        string    `gorm:"column:address_line1;type:text" json:"address_line1"`
	AddressLine2        string    `gorm:"column:address_line2;type:text" json:"address_line2"`
	City                string    `gorm:"type:text" json:"city"`
	State               string    `gorm:"type:text" json:"state"`
	Zip                 string    `gorm:"type:text" json:"zip"`
	APEmail             string    `gorm:"column:ap_email;type:text" json:"ap_email"` // AP / billing
	Notes               string    `gorm:"type:text" json:"notes"`
	Status              string    `gorm:"type:varchar(32);default:'draft';index" json:"status"` // stored verbatim; see workflow.Normalize
	CreatedAt           time.Time `gorm:"index" json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func (VendorProfile) TableName() string {
	return "vendors"
}

// VendorContentColumns lists the vendor-editable columns written by every save.
var VendorContentColumns = []string{
	"legal_name",
	"dba_name",
	"website",
	"primary_contact_name",
	"primary_contact_email",
	"primary_contact_phone",
	"address_line1",
	"address_line2",
	"city",
	"state",
	"zip",
	"ap_email",
	"notes",
}
