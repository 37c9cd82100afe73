package users

import "time"

type CreateAdministratorRequest struct {
	Name      string     `json:"name" validate:"required,min=1,max=120"`
	Username  string     `json:"username" validate:"required,min=3,max=64"`
	Password  string     `json:"password" validate:"required,min=8,max=72"`
	DateHired *time.Time `json:"date_hired"`
}

// CreateUserRequest provisions a user, and optionally a starting group plus
// an "Opening Balance" account when both InitialCategoryID and OpeningAmount
// are present.
type CreateUserRequest struct {
	Name              string   `json:"name" validate:"required,min=1,max=120"`
	Username          string   `json:"username" validate:"required,min=3,max=64"`
	Password          string   `json:"password" validate:"required,min=8,max=72"`
	Email             string   `json:"email" validate:"required,email"`
	Address           string   `json:"address" validate:"max=255"`
	InitialCategoryID *int64   `json:"initial_category_id" validate:"omitempty,gt=0"`
	OpeningAmount     *float64 `json:"opening_amount" validate:"omitempty,gte=0"`
}
