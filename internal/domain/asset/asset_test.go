package asset

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAsset(t *testing.T) {
	t.Run("creates asset with explicit status", func(t *testing.T) {
		a, err := NewAsset("ESS-HQ-COMP-2026-0001", "Dell Latitude 5440", "InStock")
		require.NoError(t, err)
		assert.Equal(t, "ESS-HQ-COMP-2026-0001", a.AssetTag)
		assert.Equal(t, StatusInStock, a.Status)
		assert.True(t, a.Cost.IsZero())

		require.Len(t, a.PendingEvents(), 1)
		assert.Equal(t, EventCreated, a.PendingEvents()[0].Type)
		assert.Equal(t, StatusInStock, a.PendingEvents()[0].ToStatus)
	})

	t.Run("empty status falls back to default", func(t *testing.T) {
		a, err := NewAsset("TAG-1", "Monitor", "")
		require.NoError(t, err)
		assert.Equal(t, DefaultStatus, a.Status)
	})

	t.Run("legacy in_use normalizes to Assigned", func(t *testing.T) {
		a, err := NewAsset("TAG-2", "Keyboard", "in_use")
		require.NoError(t, err)
		assert.Equal(t, StatusAssigned, a.Status)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		_, err := NewAsset("TAG-3", "Mouse", "Broken")
		require.Error(t, err)
	})

	t.Run("rejects empty tag or name", func(t *testing.T) {
		_, err := NewAsset("", "Mouse", "")
		require.Error(t, err)

		_, err = NewAsset("TAG-4", "   ", "")
		require.Error(t, err)
	})
}

func TestAssetSetCost(t *testing.T) {
	a, err := NewAsset("TAG-5", "Laptop", "InStock")
	require.NoError(t, err)

	require.NoError(t, a.SetCost(decimal.NewFromFloat(1299.99)))
	assert.True(t, a.Cost.Equal(decimal.NewFromFloat(1299.99)))

	err = a.SetCost(decimal.NewFromInt(-1))
	require.Error(t, err)
}

func TestAssetAssignment(t *testing.T) {
	t.Run("assign moves asset to Assigned and records event", func(t *testing.T) {
		a, _ := NewAsset("TAG-6", "Laptop", "InStock")
		a.ClearPendingEvents()

		require.NoError(t, a.Assign("Jane Smith", "Finance", "jane@example.com", nil))
		assert.Equal(t, StatusAssigned, a.Status)
		assert.Equal(t, "Jane Smith", a.AssignedTo)
		assert.NotNil(t, a.AssignedAt)

		require.Len(t, a.PendingEvents(), 1)
		ev := a.PendingEvents()[0]
		assert.Equal(t, EventAssigned, ev.Type)
		assert.Equal(t, StatusInStock, ev.FromStatus)
		assert.Equal(t, StatusAssigned, ev.ToStatus)
	})

	t.Run("assign requires an assignee", func(t *testing.T) {
		a, _ := NewAsset("TAG-7", "Laptop", "InStock")
		require.Error(t, a.Assign("  ", "", "", nil))
	})

	t.Run("cannot assign a disposed asset", func(t *testing.T) {
		a, _ := NewAsset("TAG-8", "Laptop", "Disposed")
		require.Error(t, a.Assign("Jane", "", "", nil))
	})

	t.Run("unassign returns asset to stock", func(t *testing.T) {
		a, _ := NewAsset("TAG-9", "Laptop", "InStock")
		require.NoError(t, a.Assign("Jane", "", "", nil))
		a.ClearPendingEvents()

		require.NoError(t, a.Unassign(nil))
		assert.Equal(t, StatusInStock, a.Status)
		assert.Empty(t, a.AssignedTo)
		assert.Nil(t, a.AssignedAt)

		require.Len(t, a.PendingEvents(), 1)
		assert.Equal(t, EventUnassigned, a.PendingEvents()[0].Type)
	})

	t.Run("unassign fails when not assigned", func(t *testing.T) {
		a, _ := NewAsset("TAG-10", "Laptop", "InStock")
		require.Error(t, a.Unassign(nil))
	})
}

func TestAssetRepairFlow(t *testing.T) {
	t.Run("start repair clears assignment", func(t *testing.T) {
		a, _ := NewAsset("TAG-11", "Laptop", "InStock")
		require.NoError(t, a.Assign("Jane", "Finance", "", nil))

		require.NoError(t, a.StartRepair("FixIt Ltd", "RMA-42", "screen cracked", nil))
		assert.Equal(t, StatusRepair, a.Status)
		assert.Empty(t, a.AssignedTo)
		assert.NotNil(t, a.RepairOpenedAt)
		assert.Nil(t, a.RepairClosedAt)
	})

	t.Run("cannot start repair twice", func(t *testing.T) {
		a, _ := NewAsset("TAG-12", "Laptop", "Repair")
		require.Error(t, a.StartRepair("", "", "", nil))
	})

	t.Run("complete repair returns to stock", func(t *testing.T) {
		a, _ := NewAsset("TAG-13", "Laptop", "InStock")
		require.NoError(t, a.StartRepair("FixIt Ltd", "", "", nil))
		a.ClearPendingEvents()

		require.NoError(t, a.CompleteRepair(false, decimal.NewFromInt(120), "replaced screen", nil))
		assert.Equal(t, StatusInStock, a.Status)
		assert.NotNil(t, a.RepairClosedAt)
		assert.True(t, a.RepairCost.Equal(decimal.NewFromInt(120)))

		require.Len(t, a.PendingEvents(), 1)
		assert.Equal(t, EventRepairComplete, a.PendingEvents()[0].Type)
	})

	t.Run("complete repair can dispose", func(t *testing.T) {
		a, _ := NewAsset("TAG-14", "Laptop", "InStock")
		require.NoError(t, a.StartRepair("", "", "", nil))
		require.NoError(t, a.CompleteRepair(true, decimal.Zero, "", nil))
		assert.Equal(t, StatusDisposed, a.Status)
	})

	t.Run("complete repair requires open repair", func(t *testing.T) {
		a, _ := NewAsset("TAG-15", "Laptop", "InStock")
		require.Error(t, a.CompleteRepair(false, decimal.Zero, "", nil))
	})

	t.Run("negative repair cost rejected", func(t *testing.T) {
		a, _ := NewAsset("TAG-16", "Laptop", "Repair")
		require.Error(t, a.CompleteRepair(false, decimal.NewFromInt(-5), "", nil))
	})
}

func TestAssetTerminalTransitions(t *testing.T) {
	t.Run("dispose is permanent", func(t *testing.T) {
		a, _ := NewAsset("TAG-17", "Laptop", "InStock")
		require.NoError(t, a.Dispose("end of life", nil))
		assert.Equal(t, StatusDisposed, a.Status)

		require.Error(t, a.Dispose("again", nil))
		require.Error(t, a.MarkDamaged("", nil))
		require.Error(t, a.MarkMissing("", nil))
		require.Error(t, a.ChangeStatus(StatusInStock, "", nil))
	})

	t.Run("dispose clears assignment", func(t *testing.T) {
		a, _ := NewAsset("TAG-18", "Laptop", "InStock")
		require.NoError(t, a.Assign("Jane", "", "", nil))
		require.NoError(t, a.Dispose("", nil))
		assert.Empty(t, a.AssignedTo)
	})

	t.Run("mark damaged and missing", func(t *testing.T) {
		a, _ := NewAsset("TAG-19", "Laptop", "InStock")
		require.NoError(t, a.MarkDamaged("dropped", nil))
		assert.Equal(t, StatusDamaged, a.Status)

		require.NoError(t, a.MarkMissing("", nil))
		assert.Equal(t, StatusMissing, a.Status)
	})

	t.Run("no-op transition rejected", func(t *testing.T) {
		a, _ := NewAsset("TAG-20", "Laptop", "Damaged")
		require.Error(t, a.MarkDamaged("", nil))
	})
}

func TestAssetMove(t *testing.T) {
	a, _ := NewAsset("TAG-21", "Laptop", "InStock")
	a.ClearPendingEvents()

	warehouse := uuid.New()
	require.NoError(t, a.Move(warehouse, "stock rotation", nil))
	require.NotNil(t, a.LocationID)
	assert.Equal(t, warehouse, *a.LocationID)
	assert.Equal(t, StatusInStock, a.Status, "move does not change status")

	require.Len(t, a.PendingEvents(), 1)
	ev := a.PendingEvents()[0]
	assert.Equal(t, EventMoved, ev.Type)
	assert.Nil(t, ev.FromLocationID)
	require.NotNil(t, ev.ToLocationID)
	assert.Equal(t, warehouse, *ev.ToLocationID)

	err := a.Move(warehouse, "", nil)
	require.Error(t, err, "moving to the current location is rejected")
}

func TestAssetEventHistoryIsAppendOnly(t *testing.T) {
	a, _ := NewAsset("TAG-22", "Laptop", "InStock")
	require.NoError(t, a.Assign("Jane", "", "", nil))
	require.NoError(t, a.Unassign(nil))
	require.NoError(t, a.MarkDamaged("", nil))

	// created + assign + unassign + damaged
	assert.Len(t, a.PendingEvents(), 4)

	a.ClearPendingEvents()
	assert.Empty(t, a.PendingEvents())
}
