package accounts

// CreateAccountRequest carries the fields needed to open a ledger account.
// The closing amount is initialized to the opening amount.
type CreateAccountRequest struct {
	Name          string  `json:"name" validate:"required,max=100"`
	GroupID       int64   `json:"group_id" validate:"required,gt=0"`
	OpeningAmount float64 `json:"opening_amount" validate:"gte=0"`
}
