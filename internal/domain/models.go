package domain

import "errors"

// ErrNotFound is returned when a mutation targets an id that is absent
var ErrNotFound = errors.New("record not found")

// AlertDirection says which side of the threshold triggers a rate alert
type AlertDirection string

const (
	AlertAbove AlertDirection = "above"
	AlertBelow AlertDirection = "below"
)

// Position is a single investment record, open or closed. JSON field names
// match the persisted cache format and the remote record columns, so a cached
// collection written by an earlier install round-trips unchanged.
type Position struct {
	ID           string  `json:"id"`
	Pair         string  `json:"pair"` // e.g. "USD/PKR"
	Amount       float64 `json:"amount"`
	InvestedRate float64 `json:"investedRate"`
	Date         string  `json:"date"` // ISO timestamp, set at creation
	Closed       bool    `json:"closed"`
	ClosedRate   float64 `json:"closedRate,omitempty"`
	ClosedDate   string  `json:"closedDate,omitempty"`
}

// Profit returns the realized profit of a closed position. Open positions
// have no realized profit.
func (p Position) Profit() float64 {
	if !p.Closed {
		return 0
	}
	return (p.ClosedRate - p.InvestedRate) * p.Amount
}

// RateAlert is a user-defined threshold condition on a currency pair. The id
// is a generated identifier so removal survives concurrent list mutation.
type RateAlert struct {
	ID        string         `json:"id"`
	Pair      string         `json:"pair"`
	Threshold float64        `json:"threshold"`
	Direction AlertDirection `json:"direction"`
}

// RatePoint is one entry of a historical rate series
type RatePoint struct {
	Date string  `json:"date"` // YYYY-MM-DD
	Rate float64 `json:"rate"`
}
