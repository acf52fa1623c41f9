package hold

import (
    "context"
    "sort"
    "sync"
    "time"

    "github.com/iliyamo/hotel-booking/internal/model"
)

// MemoryStore keeps holds in process memory.  It is used when Redis is not
// configured and in tests; holds are not shared between server instances.
type MemoryStore struct {
    mu       sync.Mutex
    sessions map[string]map[uint64]model.SessionHold
}

func NewMemoryStore() *MemoryStore {
    return &MemoryStore{sessions: make(map[string]map[uint64]model.SessionHold)}
}

func (m *MemoryStore) Place(_ context.Context, sessionID string, roomTypeIDs []uint64, units int, expiresAt, now time.Time) error {
    m.mu.Lock()
    defer m.mu.Unlock()
    held := m.live(sessionID, now)
    var conflicts []uint64
    for _, id := range roomTypeIDs {
        if _, ok := held[id]; ok {
            conflicts = append(conflicts, id)
        }
    }
    if len(conflicts) > 0 {
        sort.Slice(conflicts, func(i, j int) bool { return conflicts[i] < conflicts[j] })
        return &AlreadyHeldError{RoomTypeIDs: conflicts}
    }
    if held == nil {
        held = make(map[uint64]model.SessionHold, len(roomTypeIDs))
        m.sessions[sessionID] = held
    }
    for _, id := range roomTypeIDs {
        held[id] = model.SessionHold{SessionID: sessionID, RoomTypeID: id, Units: units, ExpiresAt: expiresAt}
    }
    return nil
}

func (m *MemoryStore) Active(_ context.Context, sessionID string, now time.Time) ([]model.SessionHold, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    held := m.live(sessionID, now)
    out := make([]model.SessionHold, 0, len(held))
    for _, h := range held {
        out = append(out, h)
    }
    sort.Slice(out, func(i, j int) bool { return out[i].RoomTypeID < out[j].RoomTypeID })
    return out, nil
}

func (m *MemoryStore) UnitsHeldByOthers(_ context.Context, sessionID string, roomTypeID uint64, now time.Time) (int, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    total := 0
    for sid := range m.sessions {
        if sid == sessionID {
            continue
        }
        if h, ok := m.live(sid, now)[roomTypeID]; ok {
            total += h.Units
        }
    }
    return total, nil
}

func (m *MemoryStore) Release(_ context.Context, sessionID string, roomTypeIDs ...uint64) error {
    m.mu.Lock()
    defer m.mu.Unlock()
    if len(roomTypeIDs) == 0 {
        delete(m.sessions, sessionID)
        return nil
    }
    held := m.sessions[sessionID]
    for _, id := range roomTypeIDs {
        delete(held, id)
    }
    if len(held) == 0 {
        delete(m.sessions, sessionID)
    }
    return nil
}

// live purges expired holds of the session and returns what remains.
// Callers must hold m.mu.
func (m *MemoryStore) live(sessionID string, now time.Time) map[uint64]model.SessionHold {
    held, ok := m.sessions[sessionID]
    if !ok {
        return nil
    }
    for id, h := range held {
        if !h.Live(now) {
            delete(held, id)
        }
    }
    if len(held) == 0 {
        delete(m.sessions, sessionID)
        return nil
    }
    return held
}
