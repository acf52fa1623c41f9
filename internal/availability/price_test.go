package availability

import (
    "context"
    "errors"
    "testing"

    "github.com/iliyamo/hotel-booking/internal/model"
)

func TestEffectivePrice_AveragesOverridesAndDefault(t *testing.T) {
    d1 := override(1, "2025-03-10")
    d1.Price = moneyPtr("90")
    d3 := override(1, "2025-03-12")
    d3.Price = moneyPtr("110")

    got, err := EffectivePrice(room(1, 10, "100"), []model.InventoryOverride{d1, d3}, day("2025-03-10"), day("2025-03-12"))
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    if !got.Equal(money("100.00")) {
        t.Fatalf("expected 100.00, got %s", got)
    }
}

func TestEffectivePrice_MultipleOverridesOnOneDayAverage(t *testing.T) {
    a := override(1, "2025-03-10")
    a.Price = moneyPtr("80")
    b := override(1, "2025-03-10")
    b.Price = moneyPtr("120")
    inactive := override(1, "2025-03-10")
    inactive.Price = moneyPtr("1000")
    inactive.IsActive = false

    got, err := EffectivePrice(room(1, 10, "50"), []model.InventoryOverride{a, b, inactive}, day("2025-03-10"), day("2025-03-10"))
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    if !got.Equal(money("100")) {
        t.Fatalf("expected 100, got %s", got)
    }
}

func TestEffectivePrice_RoundsHalfUp(t *testing.T) {
    d1 := override(1, "2025-03-10")
    d1.Price = moneyPtr("100.01")
    // (100.01 + 100 + 100) / 3 = 100.00333..
    got, err := EffectivePrice(room(1, 1, "100"), []model.InventoryOverride{d1}, day("2025-03-10"), day("2025-03-12"))
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    if !got.Equal(money("100.00")) {
        t.Fatalf("expected 100.00, got %s", got)
    }
    d1.Price = moneyPtr("100.015")
    // (100.015 + 100) / 2 = 100.0075
    got, _ = EffectivePrice(room(1, 1, "100"), []model.InventoryOverride{d1}, day("2025-03-10"), day("2025-03-11"))
    if !got.Equal(money("100.01")) {
        t.Fatalf("expected 100.01, got %s", got)
    }
}

func TestEffectivePrice_Errors(t *testing.T) {
    if _, err := EffectivePrice(room(1, 1, "100"), nil, day("2025-03-12"), day("2025-03-10")); !errors.Is(err, ErrInvalidRange) {
        t.Fatalf("expected ErrInvalidRange, got %v", err)
    }
    if _, err := EffectivePrice(room(1, 1, "0"), nil, day("2025-03-10"), day("2025-03-10")); !errors.Is(err, ErrUnresolvablePrice) {
        t.Fatalf("expected ErrUnresolvablePrice, got %v", err)
    }
}

func TestLedger_EffectivePrice(t *testing.T) {
    o := override(1, "2025-03-10")
    o.Price = moneyPtr("150")
    l := NewLedger(&memStore{overrides: []model.InventoryOverride{o}})
    got, err := l.EffectivePrice(context.Background(), room(1, 1, "50"), day("2025-03-10"), day("2025-03-11"))
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    if !got.Equal(money("100")) {
        t.Fatalf("expected 100, got %s", got)
    }
}

func TestDisplayPrice(t *testing.T) {
    if got := DisplayPrice(money("99.50")); got != 100 {
        t.Fatalf("expected 100, got %d", got)
    }
    if got := DisplayPrice(money("99.49")); got != 99 {
        t.Fatalf("expected 99, got %d", got)
    }
}
