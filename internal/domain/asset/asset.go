package asset

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/itam/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Asset represents a tracked IT asset.
// It is the aggregate root for asset lifecycle operations; every status
// transition appends an Event to the asset's movement history.
type Asset struct {
	shared.BaseAggregateRoot
	AssetTag     string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Name         string `gorm:"type:varchar(150);not null"`
	Description  string `gorm:"type:text"`
	SerialNumber string `gorm:"type:varchar(150)"`
	Status       Status `gorm:"type:varchar(20);not null"`

	PurchaseDate       *time.Time      `gorm:"type:date"`
	WarrantyExpiryDate *time.Time      `gorm:"type:date"`
	Cost               decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	CategoryID    *uuid.UUID `gorm:"type:uuid;index"`
	SubcategoryID *uuid.UUID `gorm:"type:uuid;index"`
	LocationID    *uuid.UUID `gorm:"type:uuid;index"`
	VendorID      *uuid.UUID `gorm:"type:uuid;index"`

	Notes string `gorm:"type:text"`

	AssignedTo         string     `gorm:"type:varchar(150)"`
	AssignedDepartment string     `gorm:"type:varchar(150)"`
	AssignedEmail      string     `gorm:"type:varchar(150)"`
	AssignedAt         *time.Time `gorm:"type:date"`

	RepairVendor    string          `gorm:"type:varchar(150)"`
	RepairReference string          `gorm:"type:varchar(100)"`
	RepairNotes     string          `gorm:"type:text"`
	RepairOpenedAt  *time.Time      `gorm:"type:date"`
	RepairClosedAt  *time.Time      `gorm:"type:date"`
	RepairCost      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	pendingEvents []*Event `gorm:"-"`
}

// TableName returns the table name for GORM
func (Asset) TableName() string {
	return "assets"
}

// NewAsset creates a new asset. An empty rawStatus falls back to the
// default status for new assets; any other value is normalized through
// ParseStatus.
func NewAsset(tag, name, rawStatus string) (*Asset, error) {
	tag = strings.TrimSpace(tag)
	name = strings.TrimSpace(name)
	if tag == "" {
		return nil, shared.NewDomainError("INVALID_TAG", "Asset tag cannot be empty")
	}
	if len(tag) > 100 {
		return nil, shared.NewDomainError("INVALID_TAG", "Asset tag cannot exceed 100 characters")
	}
	if err := validateAssetName(name); err != nil {
		return nil, err
	}

	status := DefaultStatus
	if rawStatus != "" {
		parsed, err := ParseStatus(rawStatus)
		if err != nil {
			return nil, err
		}
		status = parsed
	}

	a := &Asset{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		AssetTag:          tag,
		Name:              name,
		Status:            status,
		Cost:              decimal.Zero,
	}

	ev := newEvent(a.ID, EventCreated, fmt.Sprintf("Asset created (%s)", tag))
	ev.ToStatus = status
	a.pendingEvents = append(a.pendingEvents, ev)

	return a, nil
}

// Rename updates the asset's display name
func (a *Asset) Rename(name string) error {
	if err := validateAssetName(name); err != nil {
		return err
	}
	a.Name = name
	a.touch()
	return nil
}

// SetCost sets the purchase cost. Negative values are rejected.
func (a *Asset) SetCost(cost decimal.Decimal) error {
	if cost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Cost cannot be negative")
	}
	a.Cost = cost
	a.touch()
	return nil
}

// Assign assigns the asset to a person. Assets in stock or under repair
// move to Assigned; disposed assets cannot be assigned.
func (a *Asset) Assign(assignee, department, email string, actorID *uuid.UUID) error {
	assignee = strings.TrimSpace(assignee)
	if assignee == "" {
		return shared.NewDomainError("INVALID_ASSIGNEE", "Assignee name is required")
	}
	if a.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot assign a disposed asset")
	}

	from := a.Status
	now := time.Now()
	a.AssignedTo = assignee
	a.AssignedDepartment = strings.TrimSpace(department)
	a.AssignedEmail = strings.TrimSpace(email)
	a.AssignedAt = &now
	a.Status = StatusAssigned
	a.touch()

	note := "Assigned to " + assignee
	if a.AssignedDepartment != "" {
		note += " (" + a.AssignedDepartment + ")"
	}
	a.recordTransition(EventAssigned, note, from, actorID)
	return nil
}

// Unassign clears the assignment and returns the asset to stock
func (a *Asset) Unassign(actorID *uuid.UUID) error {
	if a.AssignedTo == "" && a.AssignedAt == nil {
		return shared.NewDomainError("INVALID_STATE", "Asset is not currently assigned")
	}

	from := a.Status
	previous := a.AssignedTo
	a.clearAssignment()
	if a.Status == StatusAssigned {
		a.Status = StatusInStock
	}
	a.touch()

	note := "Unassigned"
	if previous != "" {
		note = "Unassigned from " + previous
	}
	a.recordTransition(EventUnassigned, note, from, actorID)
	return nil
}

// StartRepair sends the asset to repair, clearing any assignment
func (a *Asset) StartRepair(vendor, reference, notes string, actorID *uuid.UUID) error {
	if a.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot repair a disposed asset")
	}
	if a.Status == StatusRepair {
		return shared.NewDomainError("INVALID_STATE", "Asset is already under repair")
	}

	from := a.Status
	now := time.Now()
	a.RepairVendor = strings.TrimSpace(vendor)
	a.RepairReference = strings.TrimSpace(reference)
	a.RepairNotes = strings.TrimSpace(notes)
	a.RepairOpenedAt = &now
	a.RepairClosedAt = nil
	a.Status = StatusRepair
	a.clearAssignment()
	a.touch()

	note := "Sent to repair"
	if a.RepairVendor != "" {
		note += " | Vendor: " + a.RepairVendor
	}
	if a.RepairReference != "" {
		note += " | Ref: " + a.RepairReference
	}
	a.recordTransition(EventRepairStarted, note, from, actorID)
	return nil
}

// CompleteRepair closes an open repair. When disposed is true the asset
// is disposed of, otherwise it returns to stock.
func (a *Asset) CompleteRepair(disposed bool, cost decimal.Decimal, notes string, actorID *uuid.UUID) error {
	if a.Status != StatusRepair {
		return shared.NewDomainError("INVALID_STATE", "Asset is not currently under repair")
	}
	if cost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Repair cost cannot be negative")
	}

	from := a.Status
	now := time.Now()
	a.RepairClosedAt = &now
	a.RepairCost = cost
	if notes != "" {
		a.RepairNotes = notes
	}
	if disposed {
		a.Status = StatusDisposed
	} else {
		a.Status = StatusInStock
	}
	a.touch()

	note := "Repair completed | Outcome: returned to stock"
	if disposed {
		note = "Repair completed | Outcome: disposed after repair"
	}
	a.recordTransition(EventRepairComplete, note, from, actorID)
	return nil
}

// MarkDamaged flags the asset as damaged
func (a *Asset) MarkDamaged(note string, actorID *uuid.UUID) error {
	return a.transition(StatusDamaged, EventDamaged, orDefault(note, "Asset marked as damaged"), actorID)
}

// MarkMissing flags the asset as missing
func (a *Asset) MarkMissing(note string, actorID *uuid.UUID) error {
	return a.transition(StatusMissing, EventMissing, orDefault(note, "Asset marked as missing"), actorID)
}

// Dispose retires the asset permanently
func (a *Asset) Dispose(note string, actorID *uuid.UUID) error {
	if a.Status == StatusDisposed {
		return shared.NewDomainError("INVALID_STATE", "Asset is already disposed")
	}
	from := a.Status
	a.Status = StatusDisposed
	a.clearAssignment()
	a.touch()
	a.recordTransition(EventDisposed, orDefault(note, "Asset marked as disposed"), from, actorID)
	return nil
}

// Move relocates the asset to a different location. Status is unchanged;
// the move is still recorded in the movement history.
func (a *Asset) Move(toLocationID uuid.UUID, reason string, actorID *uuid.UUID) error {
	if a.LocationID != nil && *a.LocationID == toLocationID {
		return shared.NewDomainError("INVALID_STATE", "Asset is already in this location")
	}

	fromLocation := a.LocationID
	a.LocationID = &toLocationID
	a.touch()

	note := "Moved to new location"
	if reason != "" {
		note += " | Reason: " + reason
	}
	ev := newEvent(a.ID, EventMoved, note)
	ev.FromStatus = a.Status
	ev.ToStatus = a.Status
	ev.FromLocationID = fromLocation
	ev.ToLocationID = &toLocationID
	ev.ActorID = actorID
	a.pendingEvents = append(a.pendingEvents, ev)
	return nil
}

// ChangeStatus applies an arbitrary normalized status change, recording
// the transition in the movement history
func (a *Asset) ChangeStatus(to Status, note string, actorID *uuid.UUID) error {
	if a.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot change status of a disposed asset")
	}
	if a.Status == to {
		return shared.NewDomainError("INVALID_STATE", "Asset already has this status")
	}
	from := a.Status
	a.Status = to
	a.touch()
	a.recordTransition(EventUpdated, orDefault(note, fmt.Sprintf("Status changed to %s", to)), from, actorID)
	return nil
}

// SetImportedStatus applies a status supplied by an import row. It does
// not append its own event; the import entry records the transition.
// Disposed assets keep their terminal status.
func (a *Asset) SetImportedStatus(to Status) error {
	if a.Status == to {
		return nil
	}
	if a.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot change status of a disposed asset")
	}
	a.Status = to
	a.touch()
	return nil
}

// RecordImport appends an import event to the movement history. from is
// the status the asset held before the row was applied; a freshly
// created asset has none.
func (a *Asset) RecordImport(note string, from Status, actorID *uuid.UUID) {
	ev := newEvent(a.ID, EventImported, note)
	ev.FromStatus = from
	ev.ToStatus = a.Status
	ev.ToLocationID = a.LocationID
	ev.ActorID = actorID
	a.pendingEvents = append(a.pendingEvents, ev)
}

// PendingEvents returns history entries recorded since the asset was
// loaded; the repository persists and clears them on save
func (a *Asset) PendingEvents() []*Event {
	return a.pendingEvents
}

// ClearPendingEvents drops the pending history entries after persistence
func (a *Asset) ClearPendingEvents() {
	a.pendingEvents = nil
}

// IsAssigned reports whether the asset is currently assigned to someone
func (a *Asset) IsAssigned() bool {
	return a.AssignedTo != ""
}

func (a *Asset) transition(to Status, eventType EventType, note string, actorID *uuid.UUID) error {
	if a.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot change status of a disposed asset")
	}
	if a.Status == to {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Asset is already %s", to))
	}
	from := a.Status
	a.Status = to
	a.touch()
	a.recordTransition(eventType, note, from, actorID)
	return nil
}

func (a *Asset) recordTransition(eventType EventType, note string, from Status, actorID *uuid.UUID) {
	ev := newEvent(a.ID, eventType, note)
	ev.FromStatus = from
	ev.ToStatus = a.Status
	ev.FromLocationID = a.LocationID
	ev.ToLocationID = a.LocationID
	ev.ActorID = actorID
	a.pendingEvents = append(a.pendingEvents, ev)
}

func (a *Asset) clearAssignment() {
	a.AssignedTo = ""
	a.AssignedDepartment = ""
	a.AssignedEmail = ""
	a.AssignedAt = nil
}

func (a *Asset) touch() {
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
}

func validateAssetName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Asset name cannot be empty")
	}
	if len(name) > 150 {
		return shared.NewDomainError("INVALID_NAME", "Asset name cannot exceed 150 characters")
	}
	return nil
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
