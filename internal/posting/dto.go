package posting

import "time"

// TransferRequest groups the fields required to post a transfer between two
// ledger accounts.
type TransferRequest struct {
	Date            time.Time `json:"date"`
	Description     string    `json:"description" validate:"max=200"`
	DebitAccountID  int64     `json:"debit_account_id"`
	CreditAccountID int64     `json:"credit_account_id"`
	Amount          float64   `json:"amount"`
	Comment         string    `json:"comment" validate:"max=200"`
}

// TransactionSummary is a history row: the header plus the transfer amount
// derived from the debited side of its line pair.
type TransactionSummary struct {
	ID          int64     `json:"id"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
}
