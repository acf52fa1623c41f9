package availability

import (
    "time"

    "github.com/shopspring/decimal"

    "github.com/iliyamo/hotel-booking/internal/model"
)

// EffectivePrice averages the nightly price of room over every calendar
// date in [start, end].  A date with one or more live priced overrides
// takes the mean of those override prices; a date without one takes
// room.DefaultPrice.  The result is rounded half-up to two decimals.
//
// ErrInvalidRange is returned when start is after end and
// ErrUnresolvablePrice when some date resolves to a non-positive price.
func EffectivePrice(room model.RoomType, overrides []model.InventoryOverride, start, end time.Time) (decimal.Decimal, error) {
    days := Days(start, end)
    if len(days) == 0 {
        return decimal.Zero, ErrInvalidRange
    }
    byDay := make(map[time.Time][]decimal.Decimal)
    for _, o := range inRange(overrides, room.ID, start, end) {
        if !o.Live() || o.Price == nil {
            continue
        }
        d := DateOf(o.Date)
        byDay[d] = append(byDay[d], *o.Price)
    }
    sum := decimal.Zero
    for _, d := range days {
        p := room.DefaultPrice
        if prices := byDay[d]; len(prices) > 0 {
            p = mean(prices)
        }
        if !p.IsPositive() {
            return decimal.Zero, ErrUnresolvablePrice
        }
        sum = sum.Add(p)
    }
    return sum.Div(decimal.NewFromInt(int64(len(days)))).Round(2), nil
}

// DisplayPrice rounds a resolved price to the nearest whole unit for list
// views.
func DisplayPrice(p decimal.Decimal) int64 {
    return p.Round(0).IntPart()
}

func mean(values []decimal.Decimal) decimal.Decimal {
    if len(values) == 1 {
        return values[0]
    }
    return decimal.Sum(values[0], values[1:]...).Div(decimal.NewFromInt(int64(len(values))))
}
