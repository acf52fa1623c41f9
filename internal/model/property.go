package model

import "time"

// Property is a hotel or homestay listed by an owner.  It groups one or
// more room types and carries the posted check-in time used by the
// cancellation cutoff rule.
//
// Fields:
//  ID          – primary key identifier.
//  OwnerID     – user ID of the property owner.
//  Name        – display name.
//  City        – free-text city used by search.
//  Address     – street address (optional).
//  CheckInTime – posted check-in time, e.g. "12:00 PM" or "14:00".
//  IsVerified  – set by the platform once the listing is reviewed.
//  Status      – ACTIVE or DELETED.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Property struct {
    ID          uint64       // properties.id
    OwnerID     uint64       // properties.owner_id
    Name        string       // properties.name
    City        string       // properties.city
    Address     *string      // properties.address (nullable)
    CheckInTime string       // properties.check_in_time
    IsVerified  bool         // properties.is_verified
    Status      RecordStatus // properties.status
    CreatedAt   time.Time    // properties.created_at
    UpdatedAt   time.Time    // properties.updated_at
}
