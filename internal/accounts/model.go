package accounts

import "time"

// MasterAccount is an individual ledger account within a group. ClosingAmount
// is the authoritative running balance; it is mutated only by the posting
// engine's balance delta path, never recomputed lazily from line history.
type MasterAccount struct {
	ID            int64
	Name          string
	OpeningAmount float64
	ClosingAmount float64
	GroupID       int64
	OwnerID       int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
