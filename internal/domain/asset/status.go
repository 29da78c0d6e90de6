package asset

import (
	"fmt"

	"github.com/itam/backend/internal/domain/shared"
)

// Status represents the lifecycle state of an asset
type Status string

const (
	StatusInStock  Status = "InStock"
	StatusAssigned Status = "Assigned"
	StatusRepair   Status = "Repair"
	StatusDamaged  Status = "Damaged"
	StatusMissing  Status = "Missing"
	StatusDisposed Status = "Disposed"
)

// legacyStatusInUse is the status token written by the previous system.
// The mapping to Assigned is a compatibility shim; remove once no data
// carrying the old token remains.
const legacyStatusInUse = "in_use"

// DefaultStatus is assigned to new assets created without an explicit status.
const DefaultStatus = StatusAssigned

// ActiveStatuses returns the set of statuses an asset may hold after normalization
func ActiveStatuses() []Status {
	return []Status{
		StatusInStock,
		StatusAssigned,
		StatusRepair,
		StatusDamaged,
		StatusMissing,
		StatusDisposed,
	}
}

// ParseStatus normalizes a raw status string to a canonical Status.
// Members of the active set map to themselves, the legacy token "in_use"
// (case-sensitive) maps to Assigned, and anything else is rejected.
func ParseStatus(raw string) (Status, error) {
	if raw == legacyStatusInUse {
		return StatusAssigned, nil
	}
	for _, s := range ActiveStatuses() {
		if string(s) == raw {
			return s, nil
		}
	}
	return "", shared.NewDomainError("INVALID_STATUS",
		fmt.Sprintf("unrecognized status '%s'", raw))
}

// IsValidStatus reports whether raw is a member of the active set
func IsValidStatus(raw string) bool {
	for _, s := range ActiveStatuses() {
		if string(s) == raw {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status permits no further transitions
func (s Status) IsTerminal() bool {
	return s == StatusDisposed
}
