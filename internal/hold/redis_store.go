package hold

import (
    "context"
    "fmt"
    "sort"
    "strconv"
    "strings"
    "time"

    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/hotel-booking/internal/model"
)

// RedisStore shares holds between server instances.  Two hashes are kept
// per hold:
//
//   {prefix}:session:{sid}  field room type id -> "units|expires_ms"
//   {prefix}:room:{rtid}    field session id   -> "units|expires_ms"
//
// The session hash answers "what does this shopper hold", the room hash
// answers "how much of this room type do the others hold".  Both get a
// PEXPIREAT so abandoned sessions disappear without a sweeper.
type RedisStore struct {
    rdb    redis.Cmdable
    prefix string
}

// NewRedisStore returns a RedisStore writing keys under prefix.
func NewRedisStore(rdb redis.Cmdable, prefix string) *RedisStore {
    if prefix == "" {
        prefix = "holds"
    }
    return &RedisStore{rdb: rdb, prefix: prefix}
}

// placeScript checks every requested room type in the session hash and
// only writes when none of them is live.
//
// KEYS[1] = session hash, KEYS[2..] = room hashes (same order as ARGV[5..])
// ARGV = now_ms, expires_ms, units, session id, room type ids...
var placeScript = redis.NewScript(`
    local now_ms = tonumber(ARGV[1])
    local expires_ms = tonumber(ARGV[2])
    local units = ARGV[3]
    local sid = ARGV[4]

    local held = {}
    for i = 5, #ARGV do
        local v = redis.call('HGET', KEYS[1], ARGV[i])
        if v then
            local sep = string.find(v, '|', 1, true)
            local exp = sep and tonumber(string.sub(v, sep + 1)) or 0
            if exp > now_ms then
                table.insert(held, ARGV[i])
            end
        end
    end
    if #held > 0 then
        return held
    end

    local value = units .. '|' .. ARGV[2]
    for i = 5, #ARGV do
        local room_key = KEYS[i - 3]
        redis.call('HSET', KEYS[1], ARGV[i], value)
        redis.call('HSET', room_key, sid, value)
        local pttl = redis.call('PTTL', room_key)
        if pttl < 0 or now_ms + pttl < expires_ms then
            redis.call('PEXPIREAT', room_key, expires_ms)
        end
    end
    redis.call('PEXPIREAT', KEYS[1], expires_ms)
    return {}
`)

func (s *RedisStore) sessionKey(sessionID string) string {
    return s.prefix + ":session:" + sessionID
}

func (s *RedisStore) roomKey(roomTypeID uint64) string {
    return s.prefix + ":room:" + strconv.FormatUint(roomTypeID, 10)
}

func (s *RedisStore) Place(ctx context.Context, sessionID string, roomTypeIDs []uint64, units int, expiresAt, now time.Time) error {
    keys := make([]string, 0, len(roomTypeIDs)+1)
    keys = append(keys, s.sessionKey(sessionID))
    args := []interface{}{now.UnixMilli(), expiresAt.UnixMilli(), units, sessionID}
    for _, id := range roomTypeIDs {
        keys = append(keys, s.roomKey(id))
        args = append(args, strconv.FormatUint(id, 10))
    }
    vals, err := placeScript.Run(ctx, s.rdb, keys, args...).StringSlice()
    if err != nil {
        return fmt.Errorf("place hold: %w", err)
    }
    if len(vals) == 0 {
        return nil
    }
    ids := make([]uint64, 0, len(vals))
    for _, v := range vals {
        id, err := strconv.ParseUint(v, 10, 64)
        if err != nil {
            return fmt.Errorf("place hold: bad room id %q: %w", v, err)
        }
        ids = append(ids, id)
    }
    sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
    return &AlreadyHeldError{RoomTypeIDs: ids}
}

func (s *RedisStore) Active(ctx context.Context, sessionID string, now time.Time) ([]model.SessionHold, error) {
    key := s.sessionKey(sessionID)
    entries, err := s.rdb.HGetAll(ctx, key).Result()
    if err != nil {
        return nil, err
    }
    var (
        out     []model.SessionHold
        expired []string
    )
    for field, v := range entries {
        id, idErr := strconv.ParseUint(field, 10, 64)
        units, exp, ok := decodeEntry(v)
        if idErr != nil || !ok || !now.Before(exp) {
            expired = append(expired, field)
            continue
        }
        out = append(out, model.SessionHold{SessionID: sessionID, RoomTypeID: id, Units: units, ExpiresAt: exp})
    }
    if len(expired) > 0 {
        _ = s.rdb.HDel(ctx, key, expired...).Err()
    }
    sort.Slice(out, func(i, j int) bool { return out[i].RoomTypeID < out[j].RoomTypeID })
    return out, nil
}

func (s *RedisStore) UnitsHeldByOthers(ctx context.Context, sessionID string, roomTypeID uint64, now time.Time) (int, error) {
    key := s.roomKey(roomTypeID)
    entries, err := s.rdb.HGetAll(ctx, key).Result()
    if err != nil {
        return 0, err
    }
    total := 0
    var expired []string
    for sid, v := range entries {
        units, exp, ok := decodeEntry(v)
        if !ok || !now.Before(exp) {
            expired = append(expired, sid)
            continue
        }
        if sid != sessionID {
            total += units
        }
    }
    if len(expired) > 0 {
        _ = s.rdb.HDel(ctx, key, expired...).Err()
    }
    return total, nil
}

func (s *RedisStore) Release(ctx context.Context, sessionID string, roomTypeIDs ...uint64) error {
    key := s.sessionKey(sessionID)
    fields := make([]string, 0, len(roomTypeIDs))
    for _, id := range roomTypeIDs {
        fields = append(fields, strconv.FormatUint(id, 10))
    }
    if len(fields) == 0 {
        all, err := s.rdb.HKeys(ctx, key).Result()
        if err != nil {
            return err
        }
        fields = all
    }
    if len(fields) == 0 {
        return nil
    }
    _, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
        for _, f := range fields {
            id, err := strconv.ParseUint(f, 10, 64)
            if err != nil {
                continue
            }
            pipe.HDel(ctx, s.roomKey(id), sessionID)
        }
        pipe.HDel(ctx, key, fields...)
        return nil
    })
    return err
}

func decodeEntry(v string) (units int, expiresAt time.Time, ok bool) {
    u, e, found := strings.Cut(v, "|")
    if !found {
        return 0, time.Time{}, false
    }
    n, err := strconv.Atoi(u)
    if err != nil {
        return 0, time.Time{}, false
    }
    ms, err := strconv.ParseInt(e, 10, 64)
    if err != nil {
        return 0, time.Time{}, false
    }
    return n, time.UnixMilli(ms).UTC(), true
}
