package handler

import (
    "time"

    "github.com/iliyamo/hotel-booking/internal/availability"
    "github.com/iliyamo/hotel-booking/internal/model"
)

// JSON shapes returned by the API.  Money is rendered as a fixed
// two-decimal string, except effective_price in availability results which
// is rounded to a whole number for display.

type propertyView struct {
    ID          uint64  `json:"id"`
    Name        string  `json:"name"`
    City        string  `json:"city"`
    Address     *string `json:"address,omitempty"`
    CheckInTime string  `json:"check_in_time"`
    IsVerified  bool    `json:"is_verified"`
}

func toPropertyView(p model.Property) propertyView {
    return propertyView{ID: p.ID, Name: p.Name, City: p.City, Address: p.Address, CheckInTime: p.CheckInTime, IsVerified: p.IsVerified}
}

type roomTypeView struct {
    ID               uint64 `json:"id"`
    PropertyID       uint64 `json:"property_id"`
    Name             string `json:"name"`
    AdultCapacity    int    `json:"adult_capacity"`
    ChildrenCapacity int    `json:"children_capacity"`
    DefaultPrice     string `json:"default_price"`
    MinPrice         string `json:"min_price"`
    MaxPrice         string `json:"max_price"`
    NumOfRooms       int    `json:"num_of_rooms"`
    IsVerified       bool   `json:"is_verified"`
    IsAvailable      bool   `json:"is_available"`
}

func toRoomTypeView(rt model.RoomType) roomTypeView {
    return roomTypeView{
        ID: rt.ID, PropertyID: rt.PropertyID, Name: rt.Name,
        AdultCapacity: rt.AdultCapacity, ChildrenCapacity: rt.ChildrenCapacity,
        DefaultPrice: rt.DefaultPrice.StringFixed(2), MinPrice: rt.MinPrice.StringFixed(2), MaxPrice: rt.MaxPrice.StringFixed(2),
        NumOfRooms: rt.NumOfRooms, IsVerified: rt.IsVerified, IsAvailable: rt.IsAvailable,
    }
}

type candidateView struct {
    RoomTypeID       uint64 `json:"room_type_id"`
    RoomName         string `json:"room_name"`
    AvailableRooms   int    `json:"available_rooms"`
    EffectivePrice   int64  `json:"effective_price"`
    AdultCapacity    int    `json:"adult_capacity"`
    ChildrenCapacity int    `json:"children_capacity"`
    DefaultPrice     string `json:"default_price"`
    NumOfRooms       int    `json:"num_of_rooms"`
}

func toCandidateView(c availability.RoomCandidate) candidateView {
    return candidateView{
        RoomTypeID:       c.RoomType.ID,
        RoomName:         c.RoomType.Name,
        AvailableRooms:   c.BookableUnits(),
        EffectivePrice:   availability.DisplayPrice(c.EffectivePrice),
        AdultCapacity:    c.RoomType.AdultCapacity,
        ChildrenCapacity: c.RoomType.ChildrenCapacity,
        DefaultPrice:     c.RoomType.DefaultPrice.StringFixed(2),
        NumOfRooms:       c.RoomType.NumOfRooms,
    }
}

type bookingView struct {
    ID                 uint64     `json:"id"`
    UserID             uint64     `json:"user_id"`
    PropertyID         uint64     `json:"property_id"`
    RoomTypeID         uint64     `json:"room_type_id"`
    CheckIn            string     `json:"check_in_date"`
    CheckOut           string     `json:"check_out_date"`
    NumOfRooms         int        `json:"num_of_rooms"`
    NumOfAdults        int        `json:"num_of_adults"`
    NumOfChildren      int        `json:"num_of_children"`
    Amount             string     `json:"amount"`
    BookStatus         bool       `json:"book_status"`
    IsCancel           bool       `json:"is_cancel"`
    CancellationCharge *int       `json:"cancellation_charge,omitempty"`
    RefundAmount       *string    `json:"refund_amount,omitempty"`
    CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
    CreatedAt          time.Time  `json:"created_at"`
}

func toBookingView(b model.Booking) bookingView {
    return bookingView{
        ID: b.ID, UserID: b.UserID, PropertyID: b.PropertyID, RoomTypeID: b.RoomTypeID,
        CheckIn: b.CheckIn.Format(availability.DateLayout), CheckOut: b.CheckOut.Format(availability.DateLayout),
        NumOfRooms: b.NumOfRooms, NumOfAdults: b.NumOfAdults, NumOfChildren: b.NumOfChildren,
        Amount: b.Amount.StringFixed(2), BookStatus: b.BookStatus, IsCancel: b.IsCancel,
        CancellationCharge: b.CancellationCharge, RefundAmount: money(b.RefundAmount),
        CancelledAt: b.CancelledAt, CreatedAt: b.CreatedAt,
    }
}

func toBookingViews(bs []model.Booking) []bookingView {
    out := make([]bookingView, 0, len(bs))
    for _, b := range bs {
        out = append(out, toBookingView(b))
    }
    return out
}

type overrideView struct {
    ID             uint64  `json:"id"`
    Date           string  `json:"date"`
    Price          *string `json:"price"`
    MinPrice       *string `json:"min_price"`
    MaxPrice       *string `json:"max_price"`
    AvailableRooms *int    `json:"available_rooms"`
    IsActive       bool    `json:"is_active"`
}

func toOverrideView(o model.InventoryOverride) overrideView {
    return overrideView{
        ID: o.ID, Date: o.Date.Format(availability.DateLayout),
        Price: money(o.Price), MinPrice: money(o.MinPrice), MaxPrice: money(o.MaxPrice),
        AvailableRooms: o.AvailableRooms, IsActive: o.IsActive,
    }
}
