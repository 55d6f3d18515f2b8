package model

import "time"

// IntakeLead is a lead captured by the public intake form. It has no status
// and no relation to VendorProfile.
type IntakeLead struct {
	ID           uint      `gorm:"primarykey" json:"-"`
	CompanyName  string    `gorm:"type:text" json:"companyName"`
	Website      string    `gorm:"type:text" json:"website"`
	ContactName  string    `gorm:"type:text" json:"contactName"`
	ContactEmail string    `gorm:"type:text" json:"contactEmail"`
	Capabilities string    `gorm:"type:text" json:"capabilities"`
	SubmittedAt  time.Time `gorm:"index" json:"createdAt"`
}

func (IntakeLead) TableName() string {
	return "intake_leads"
}
