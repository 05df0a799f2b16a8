package models

import (
	"sort"
	"time"
)

// InteractionType distinguishes the two kinds of event records.
type InteractionType string

const (
	// Registration is the first event of a user; it establishes the starting
	// balance and carries no amount or commission.
	Registration InteractionType = "registration"

	// Transaction is a balance-affecting event with an amount and a commission.
	Transaction InteractionType = "transaction"
)

// Columns is the canonical column order used by every output surface.
var Columns = []string{
	"user_id",
	"user_balance",
	"interaction_sum",
	"interaction_type",
	"transaction_commission",
	"country",
	"device",
	"date",
}

// Record is one event belonging to a synthetic user.
type Record struct {
	// UserID is the unique identifier of the user (UUID format).
	UserID string

	// Balance is the user's balance after this event.
	Balance float64

	// Amount is the transaction amount. Nil for registration records.
	Amount *float64

	// Type is the kind of event.
	Type InteractionType

	// Commission is 0.003 × |Amount| for transactions, nil for registrations.
	Commission *float64

	// Country is the user's country. Fixed across all of a user's records.
	Country string

	// Device is the user's device. Fixed across all of a user's records.
	Device string

	// Date is the instant the event occurred. Never a Saturday or Sunday.
	Date time.Time
}

// Dataset is an ordered sequence of event records.
type Dataset []Record

// SortByDate orders the dataset by timestamp ascending. The sort is stable, so
// records with equal timestamps keep their generation order.
func (d Dataset) SortByDate() {
	sort.SliceStable(d, func(i, j int) bool {
		return d[i].Date.Before(d[j].Date)
	})
}

// MaxDate returns the latest timestamp in the dataset.
// The second return value is false for an empty dataset.
func (d Dataset) MaxDate() (time.Time, bool) {
	if len(d) == 0 {
		return time.Time{}, false
	}
	max := d[0].Date
	for _, r := range d[1:] {
		if r.Date.After(max) {
			max = r.Date
		}
	}
	return max, true
}

// Clone returns a copy of the dataset that shares no backing array with the
// original.
func (d Dataset) Clone() Dataset {
	out := make(Dataset, len(d))
	copy(out, d)
	return out
}

// UserIDs returns every user identifier in the dataset, one entry per record.
func (d Dataset) UserIDs() []string {
	ids := make([]string, len(d))
	for i, r := range d {
		ids[i] = r.UserID
	}
	return ids
}
