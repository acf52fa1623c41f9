package config

import "time"

// HoldConfig controls session holds.  Backend "redis" shares holds between
// instances and falls back to "memory" when no Redis client is available.
type HoldConfig struct {
    TTL     time.Duration
    Backend string
    Prefix  string
    // MaxUnits caps num_of_rooms on a single hold or booking request.
    MaxUnits int
}

func LoadHoldConfig() HoldConfig {
    cfg := HoldConfig{
        TTL:      envDur("HOLD_TTL", 60*time.Second),
        Backend:  envStr("HOLD_BACKEND", "redis"),
        Prefix:   envStr("HOLD_PREFIX", "holds"),
        MaxUnits: envInt("HOLD_MAX_UNITS", 20),
    }
    if cfg.TTL <= 0 {
        cfg.TTL = 60 * time.Second
    }
    if cfg.MaxUnits < 1 {
        cfg.MaxUnits = 1
    }
    return cfg
}
