package posting

import (
	"time"

	"github.com/google/uuid"
)

// Transaction is the header grouping the two mirrored lines of one balanced
// money movement. Committed transactions are never edited or deleted;
// reversal means posting a new offsetting transaction.
type Transaction struct {
	ID          int64
	Ref         uuid.UUID
	Date        time.Time
	Description string
	OwnerID     int64
	CreatedAt   time.Time
	Lines       []TransactionLine
}

// TransactionLine records one side of a transfer. DebitAccountID is the
// account the line belongs to, CreditAccountID points at the counterparty
// account of the pair, so both directions stay traceable without a separate
// transfer entity.
type TransactionLine struct {
	ID              int64
	TransactionID   int64
	DebitAccountID  int64
	CreditAccountID int64
	DebitedAmount   float64
	CreditedAmount  float64
	Comment         string
}

// AccountState is the per-account line aggregation used by the
// reconciliation audit.
type AccountState struct {
	AccountID     int64
	Name          string
	OpeningAmount float64
	ClosingAmount float64
	DebitedTotal  float64
	CreditedTotal float64
}

// ReconcileResult compares the materialized closing amount against the value
// recomputed from line history.
type ReconcileResult struct {
	AccountID       int64   `json:"account_id"`
	Name            string  `json:"name"`
	ClosingAmount   float64 `json:"closing_amount"`
	ExpectedClosing float64 `json:"expected_closing"`
	Drift           float64 `json:"drift"`
}

// Balanced reports whether the materialized balance matches history.
func (r ReconcileResult) Balanced() bool {
	return r.Drift > -0.005 && r.Drift < 0.005
}
