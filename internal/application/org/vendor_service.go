package org

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/itam/backend/internal/domain/org"
	"github.com/itam/backend/internal/domain/shared"
)

// VendorService handles vendor operations
type VendorService struct {
	vendors org.VendorRepository
}

// NewVendorService creates a new VendorService
func NewVendorService(vendors org.VendorRepository) *VendorService {
	return &VendorService{vendors: vendors}
}

// CreateVendorRequest carries input for vendor creation. Code may be
// empty, in which case the next sequenced code (V001, V002, ...) is used.
type CreateVendorRequest struct {
	Code         string
	Name         string
	ContactEmail string
	ContactPhone string
	Website      string
	Address      string
}

// Create creates a new vendor
func (s *VendorService) Create(ctx context.Context, req CreateVendorRequest) (*org.Vendor, error) {
	if _, err := s.vendors.FindByName(ctx, req.Name); err == nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Vendor with this name already exists")
	}

	code := req.Code
	if code == "" {
		seq, err := s.vendors.MaxCodeSequence(ctx)
		if err != nil {
			return nil, err
		}
		code = org.FormatVendorCode(seq + 1)
	} else if _, err := s.vendors.FindByCode(ctx, code); err == nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Vendor with this code already exists")
	}

	v, err := org.NewVendor(code, req.Name)
	if err != nil {
		return nil, err
	}
	if err := v.SetContact(req.ContactEmail, req.ContactPhone, req.Website, req.Address); err != nil {
		return nil, err
	}

	if err := s.vendors.Save(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// FindOrCreateByName returns the vendor with the given name, creating it
// with the next sequenced code when it does not exist. CSV imports rely
// on this to resolve vendor_name columns.
func (s *VendorService) FindOrCreateByName(ctx context.Context, name string) (*org.Vendor, error) {
	v, err := s.vendors.FindByName(ctx, name)
	if err == nil {
		return v, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	return s.Create(ctx, CreateVendorRequest{Name: name})
}

// Get returns a vendor by ID
func (s *VendorService) Get(ctx context.Context, id uuid.UUID) (*org.Vendor, error) {
	return s.vendors.FindByID(ctx, id)
}

// List returns all vendors
func (s *VendorService) List(ctx context.Context) ([]org.Vendor, error) {
	return s.vendors.FindAll(ctx)
}

// UpdateVendorRequest carries input for vendor updates
type UpdateVendorRequest struct {
	Name         string
	ContactEmail string
	ContactPhone string
	Website      string
	Address      string
}

// Update updates a vendor's name and contact details
func (s *VendorService) Update(ctx context.Context, id uuid.UUID, req UpdateVendorRequest) (*org.Vendor, error) {
	v, err := s.vendors.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != "" && req.Name != v.Name {
		if err := v.Rename(req.Name); err != nil {
			return nil, err
		}
	}
	if err := v.SetContact(req.ContactEmail, req.ContactPhone, req.Website, req.Address); err != nil {
		return nil, err
	}
	if err := s.vendors.Save(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// Delete removes a vendor
func (s *VendorService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.vendors.Delete(ctx, id)
}
