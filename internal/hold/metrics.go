package hold

import (
    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promauto"
)

var (
    HoldsPlaced = promauto.NewCounter(
        prometheus.CounterOpts{
            Name: "session_holds_placed_total",
            Help: "Session holds placed, counted per room type",
        },
    )
    HoldsRejected = promauto.NewCounter(
        prometheus.CounterOpts{
            Name: "session_holds_rejected_total",
            Help: "Hold requests rejected because a room type was already held in the session",
        },
    )
)
