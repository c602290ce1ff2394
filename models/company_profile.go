package models

import "time"

// CompanyProfileID is the id of the single company_profile row.
const CompanyProfileID = 1

type CompanyProfile struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	Name         string    `gorm:"not null" json:"name"`
	AddressLine1 string    `json:"addressLine1"`
	AddressLine2 string    `json:"addressLine2"`
	Postcode     string    `gorm:"type:varchar(16)" json:"postcode"`
	City         string    `json:"city"`
	Phone        string    `gorm:"type:varchar(32)" json:"phone"`
	Email        string    `json:"email"`
	LogoPath     string    `json:"logoPath"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (CompanyProfile) TableName() string { return "company_profile" }

// DefaultCompanyProfile is served while the company_profile row has not been saved yet.
func DefaultCompanyProfile() CompanyProfile {
	return CompanyProfile{
		ID:           CompanyProfileID,
		Name:         "L'atelier vélo",
		AddressLine1: "10 avenue Willy Brandt",
		Postcode:     "59000",
		City:         "Lille",
		Phone:        "03 20 78 80 63",
	}
}
