package reports

import "time"

// AccountActivity is one account's aggregated activity row as fetched by the
// repository: category classification, the materialized closing amount, and
// debit/credit sums over the requested date range.
type AccountActivity struct {
	AccountID   int64
	AccountName string
	Category    string
	Type        string
	Closing     float64
	DebitSum    float64
	CreditSum   float64
}

// Line is a single report row.
type Line struct {
	AccountName string  `json:"account_name"`
	Category    string  `json:"category,omitempty"`
	Debit       float64 `json:"debit"`
	Credit      float64 `json:"credit"`
}

// Report is the shared output shape of trial balance, balance sheet, and
// profit & loss. TotalDebit and TotalCredit are derived sums over the lines,
// recomputed on every build and never stored.
type Report struct {
	From        time.Time `json:"from"`
	To          time.Time `json:"to"`
	Lines       []Line    `json:"lines"`
	TotalDebit  float64   `json:"total_debit"`
	TotalCredit float64   `json:"total_credit"`
}

func (r *Report) add(line Line) {
	r.Lines = append(r.Lines, line)
	r.TotalDebit += line.Debit
	r.TotalCredit += line.Credit
}
