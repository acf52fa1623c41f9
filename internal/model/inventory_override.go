package model

import (
    "time"

    "github.com/shopspring/decimal"
)

// InventoryOverride is an owner-issued exception for one room type on one
// calendar date.  A nil Price or AvailableRooms means "not overridden".
// An override that is not deleted but has IsActive=false blacks out the
// date.  Updating a date supersedes earlier rows by marking them DELETED.
type InventoryOverride struct {
    ID             uint64           // inventory_overrides.id
    RoomTypeID     uint64           // inventory_overrides.room_type_id
    Date           time.Time        // inventory_overrides.date (UTC midnight)
    Price          *decimal.Decimal // inventory_overrides.price (nullable)
    MinPrice       *decimal.Decimal // inventory_overrides.min_price (nullable)
    MaxPrice       *decimal.Decimal // inventory_overrides.max_price (nullable)
    AvailableRooms *int             // inventory_overrides.available_rooms (nullable)
    IsActive       bool             // inventory_overrides.is_active
    Status         RecordStatus     // inventory_overrides.status
    CreatedAt      time.Time        // inventory_overrides.created_at
}

// Live reports whether the override is active and not deleted.
func (o InventoryOverride) Live() bool { return o.Status.IsActive() && o.IsActive }

// Blackout reports whether the override explicitly closes the date.
func (o InventoryOverride) Blackout() bool { return o.Status.IsActive() && !o.IsActive }
