package users

import "time"

// Administrator manages regular users. Administrators hold no ledger data of
// their own.
type Administrator struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	DateHired    time.Time  `json:"date_hired"`
	DateFinished *time.Time `json:"date_finished,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// User is a regular ledger user. Every group, account, and transaction in the
// system is owned by exactly one user.
type User struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	Address         string    `json:"address,omitempty"`
	PasswordHash    string    `json:"-"`
	AdministratorID int64     `json:"administrator_id"`
	CreatedAt       time.Time `json:"created_at"`
}
