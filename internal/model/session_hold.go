package model

import "time"

// SessionHold is a short-lived reservation of room units made by a shopper
// session during checkout.  It is keyed by (SessionID, RoomTypeID) and is
// treated as absent once ExpiresAt has passed, whether or not the backing
// store has purged it yet.
type SessionHold struct {
    SessionID  string    `json:"session_id"`
    RoomTypeID uint64    `json:"room_type_id"`
    Units      int       `json:"units"`
    ExpiresAt  time.Time `json:"expires_at"`
}

// Live reports whether the hold is still in force at now.
func (h SessionHold) Live(now time.Time) bool { return now.Before(h.ExpiresAt) }
