package model

import (
    "time"

    "github.com/shopspring/decimal"
)

// RoomType is a bookable category of rooms within one property.  All units
// of a room type share capacity and pricing.  NumOfRooms is the base
// inventory before bookings, overrides and holds are applied.
//
// Fields:
//  ID               – primary key identifier.
//  PropertyID       – owning property.
//  Name             – display name (e.g. "Deluxe King").
//  AdultCapacity    – adults per unit.
//  ChildrenCapacity – children per unit.
//  DefaultPrice     – nightly price when no override applies.
//  MinPrice         – lowest price the owner is willing to accept.
//  MaxPrice         – rack rate.
//  NumOfRooms       – total units of this type.
//  IsVerified       – platform verification gate.
//  IsAvailable      – owner-controlled on/off switch.
//  Status           – ACTIVE or DELETED.
type RoomType struct {
    ID               uint64          // room_types.id
    PropertyID       uint64          // room_types.property_id
    Name             string          // room_types.name
    AdultCapacity    int             // room_types.adult_capacity
    ChildrenCapacity int             // room_types.children_capacity
    DefaultPrice     decimal.Decimal // room_types.default_price
    MinPrice         decimal.Decimal // room_types.min_price
    MaxPrice         decimal.Decimal // room_types.max_price
    NumOfRooms       int             // room_types.num_of_rooms
    IsVerified       bool            // room_types.is_verified
    IsAvailable      bool            // room_types.is_available
    Status           RecordStatus    // room_types.status
    CreatedAt        time.Time       // room_types.created_at
    UpdatedAt        time.Time       // room_types.updated_at
}

// Bookable reports whether the room type passes the verified/active gates.
func (r RoomType) Bookable() bool {
    return r.Status.IsActive() && r.IsVerified && r.IsAvailable
}
