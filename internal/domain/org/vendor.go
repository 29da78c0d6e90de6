package org

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/itam/backend/internal/domain/shared"
)

// Vendor is a supplier assets are purchased from. Codes are sequenced
// V001, V002, ... when not supplied explicitly.
type Vendor struct {
	shared.BaseAggregateRoot
	Code         string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name         string `gorm:"type:varchar(150);not null;uniqueIndex"`
	ContactEmail string `gorm:"type:varchar(150)"`
	ContactPhone string `gorm:"type:varchar(50)"`
	Website      string `gorm:"type:varchar(200)"`
	Address      string `gorm:"type:text"`
	Active       bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Vendor) TableName() string {
	return "vendors"
}

// FormatVendorCode renders a sequence number as a vendor code (V001, V002, ...)
func FormatVendorCode(seq int) string {
	return fmt.Sprintf("V%03d", seq)
}

// NewVendor creates a new vendor with an already-resolved code
func NewVendor(code, name string) (*Vendor, error) {
	if err := validateCode(code, "Vendor"); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Vendor name cannot be empty")
	}
	if len(name) > 150 {
		return nil, shared.NewDomainError("INVALID_NAME", "Vendor name cannot exceed 150 characters")
	}
	return &Vendor{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(strings.TrimSpace(code)),
		Name:              name,
		Active:            true,
	}, nil
}

// SetContact sets the vendor's contact details
func (v *Vendor) SetContact(email, phone, website, address string) error {
	email = strings.TrimSpace(email)
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return shared.NewDomainError("INVALID_EMAIL", "Invalid contact email address")
		}
	}
	v.ContactEmail = email
	v.ContactPhone = strings.TrimSpace(phone)
	v.Website = strings.TrimSpace(website)
	v.Address = strings.TrimSpace(address)
	v.UpdatedAt = time.Now()
	v.IncrementVersion()
	return nil
}

// Rename updates the vendor's name
func (v *Vendor) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Vendor name cannot be empty")
	}
	if len(name) > 150 {
		return shared.NewDomainError("INVALID_NAME", "Vendor name cannot exceed 150 characters")
	}
	v.Name = name
	v.UpdatedAt = time.Now()
	v.IncrementVersion()
	return nil
}
