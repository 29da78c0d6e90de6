package asset

import (
	"time"

	"github.com/google/uuid"
)

// EventType classifies an entry in an asset's movement history
type EventType string

const (
	EventCreated        EventType = "created"
	EventUpdated        EventType = "updated"
	EventAssigned       EventType = "assign"
	EventUnassigned     EventType = "unassign"
	EventRepairStarted  EventType = "repair_start"
	EventRepairComplete EventType = "repair_end"
	EventDamaged        EventType = "damaged"
	EventMissing        EventType = "missing"
	EventDisposed       EventType = "dispose"
	EventMoved          EventType = "move"
	EventImported       EventType = "import"
)

// Event is an immutable entry in an asset's movement history.
// History is append-only: events are never edited or deleted.
type Event struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	AssetID        uuid.UUID  `gorm:"type:uuid;not null;index"`
	Type           EventType  `gorm:"type:varchar(50);not null"`
	Note           string     `gorm:"type:text"`
	FromStatus     Status     `gorm:"type:varchar(20)"`
	ToStatus       Status     `gorm:"type:varchar(20)"`
	FromLocationID *uuid.UUID `gorm:"type:uuid"`
	ToLocationID   *uuid.UUID `gorm:"type:uuid"`
	ActorID        *uuid.UUID `gorm:"type:uuid"`
	CreatedAt      time.Time  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Event) TableName() string {
	return "asset_events"
}

func newEvent(assetID uuid.UUID, eventType EventType, note string) *Event {
	return &Event{
		ID:        uuid.New(),
		AssetID:   assetID,
		Type:      eventType,
		Note:      note,
		CreatedAt: time.Now(),
	}
}
