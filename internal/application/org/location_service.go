package org

import (
	"context"

	"github.com/google/uuid"

	"github.com/itam/backend/internal/domain/org"
	"github.com/itam/backend/internal/domain/shared"
)

// LocationService handles location operations
type LocationService struct {
	locations org.LocationRepository
}

// NewLocationService creates a new LocationService
func NewLocationService(locations org.LocationRepository) *LocationService {
	return &LocationService{locations: locations}
}

// CreateLocationRequest carries input for location creation
type CreateLocationRequest struct {
	Code        string
	Name        string
	Description string
}

// Create creates a new location
func (s *LocationService) Create(ctx context.Context, req CreateLocationRequest) (*org.Location, error) {
	if _, err := s.locations.FindByCode(ctx, req.Code); err == nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Location with this code already exists")
	}

	l, err := org.NewLocation(req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	l.Description = req.Description

	if err := s.locations.Save(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// Get returns a location by ID
func (s *LocationService) Get(ctx context.Context, id uuid.UUID) (*org.Location, error) {
	return s.locations.FindByID(ctx, id)
}

// List returns all locations
func (s *LocationService) List(ctx context.Context) ([]org.Location, error) {
	return s.locations.FindAll(ctx)
}

// Update updates a location's name and description
func (s *LocationService) Update(ctx context.Context, id uuid.UUID, name, description string) (*org.Location, error) {
	l, err := s.locations.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := l.Update(name, description); err != nil {
		return nil, err
	}
	if err := s.locations.Save(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// Delete removes a location
func (s *LocationService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.locations.Delete(ctx, id)
}
