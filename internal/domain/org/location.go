package org

import (
	"strings"
	"time"

	"github.com/itam/backend/internal/domain/shared"
)

// Location is a physical site assets live at (e.g. M for the main office).
type Location struct {
	shared.BaseAggregateRoot
	Code        string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name        string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Description string `gorm:"type:text"`
	Active      bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Location) TableName() string {
	return "locations"
}

// NewLocation creates a new location
func NewLocation(code, name string) (*Location, error) {
	if err := validateCode(code, "Location"); err != nil {
		return nil, err
	}
	if err := validateName(name, "Location"); err != nil {
		return nil, err
	}
	return &Location{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(strings.TrimSpace(code)),
		Name:              strings.TrimSpace(name),
		Active:            true,
	}, nil
}

// Update updates the location's name and description
func (l *Location) Update(name, description string) error {
	if err := validateName(name, "Location"); err != nil {
		return err
	}
	l.Name = strings.TrimSpace(name)
	l.Description = description
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
	return nil
}

// Deactivate hides the location from selection without deleting it
func (l *Location) Deactivate() {
	l.Active = false
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
}
