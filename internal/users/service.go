package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/ifinance-app/ifinance/internal/shared"
)

// Service handles provisioning of administrators and regular users.
type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) CreateAdministrator(ctx context.Context, in CreateAdministratorRequest) (Administrator, error) {
	if err := shared.ValidateStruct(in); err != nil {
		return Administrator{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return Administrator{}, fmt.Errorf("hash password: %w", err)
	}
	admin := Administrator{
		Name:         in.Name,
		Username:     in.Username,
		PasswordHash: string(hash),
		DateHired:    s.now(),
	}
	if in.DateHired != nil {
		admin.DateHired = *in.DateHired
	}
	if err := s.repo.InsertAdministrator(ctx, &admin); err != nil {
		return Administrator{}, err
	}
	return admin, nil
}

func (s *Service) ListAdministrators(ctx context.Context) ([]Administrator, error) {
	return s.repo.ListAdministrators(ctx)
}

// DeleteAdministrator refuses to remove an administrator who still has
// assigned users.
func (s *Service) DeleteAdministrator(ctx context.Context, id int64) error {
	assigned, err := s.repo.HasAssignedUsers(ctx, id)
	if err != nil {
		return err
	}
	if assigned {
		return shared.ErrConflict
	}
	return s.repo.DeleteAdministrator(ctx, id)
}

// CreateUser provisions a user under the calling administrator. When the
// request carries both an initial category and an opening amount, a starting
// group and an "Opening Balance" account are created in the same transaction
// as the user row.
func (s *Service) CreateUser(ctx context.Context, adminID int64, in CreateUserRequest) (User, error) {
	if err := shared.ValidateStruct(in); err != nil {
		return User{}, err
	}
	ve := shared.NewValidationError()
	if (in.InitialCategoryID == nil) != (in.OpeningAmount == nil) {
		ve.Add("initial_category_id", "initial category and opening amount must be supplied together")
	}
	var categoryName string
	if in.InitialCategoryID != nil && in.OpeningAmount != nil {
		name, err := s.repo.CategoryName(ctx, *in.InitialCategoryID)
		switch {
		case errors.Is(err, shared.ErrNotFound):
			ve.Add("initial_category_id", "unknown account category")
		case err != nil:
			return User{}, err
		default:
			categoryName = name
		}
	}
	if err := ve.ErrOrNil(); err != nil {
		return User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}
	user := User{
		Name:            in.Name,
		Username:        in.Username,
		Email:           in.Email,
		Address:         in.Address,
		PasswordHash:    string(hash),
		AdministratorID: adminID,
	}
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if err := tx.InsertUser(ctx, &user); err != nil {
			return err
		}
		if categoryName == "" {
			return nil
		}
		groupID, err := tx.InsertGroup(ctx, fmt.Sprintf("%s's %s Group", user.Name, categoryName), *in.InitialCategoryID, user.ID)
		if err != nil {
			return err
		}
		_, err = tx.InsertAccount(ctx, "Opening Balance", groupID, user.ID, *in.OpeningAmount)
		return err
	})
	if err != nil {
		return User{}, err
	}
	return user, nil
}

func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.repo.ListUsers(ctx)
}
