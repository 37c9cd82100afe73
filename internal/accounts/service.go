package accounts

import (
	"context"
	"errors"

	"github.com/ifinance-app/ifinance/internal/shared"
)

// Service implements the ledger account store operations. Balance mutation is
// deliberately absent: the posting engine owns the only write path for
// closing amounts, which keeps the running balance in lock-step with line
// insertion.
type Service struct {
	repo Repository

	// allowCrossOwnerGroups permits creating an account under a group owned
	// by a different user, matching the looser coupling of legacy data sets.
	allowCrossOwnerGroups bool
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// WithCrossOwnerGroups relaxes the account-owner == group-owner invariant.
func (s *Service) WithCrossOwnerGroups(allow bool) *Service {
	s.allowCrossOwnerGroups = allow
	return s
}

// Create opens a ledger account in the given group with closing initialized
// to the opening amount.
func (s *Service) Create(ctx context.Context, ownerID int64, req CreateAccountRequest) (MasterAccount, error) {
	if err := shared.ValidateStruct(req); err != nil {
		return MasterAccount{}, err
	}
	groupOwner, err := s.repo.GetGroupOwner(ctx, req.GroupID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			ve := shared.NewValidationError()
			ve.Add("group_id", "group does not exist")
			return MasterAccount{}, ve
		}
		return MasterAccount{}, err
	}
	if groupOwner != ownerID && !s.allowCrossOwnerGroups {
		ve := shared.NewValidationError()
		ve.Add("group_id", "group belongs to another user")
		return MasterAccount{}, ve
	}
	return s.repo.Insert(ctx, MasterAccount{
		Name:          req.Name,
		OpeningAmount: req.OpeningAmount,
		ClosingAmount: req.OpeningAmount,
		GroupID:       req.GroupID,
		OwnerID:       ownerID,
	})
}

func (s *Service) List(ctx context.Context, ownerID int64) ([]MasterAccount, error) {
	return s.repo.List(ctx, ownerID)
}

func (s *Service) Get(ctx context.Context, ownerID, id int64) (MasterAccount, error) {
	return s.getOwned(ctx, ownerID, id)
}

// GetBalance returns the account's current closing amount.
func (s *Service) GetBalance(ctx context.Context, ownerID, id int64) (float64, error) {
	account, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		return 0, err
	}
	return account.ClosingAmount, nil
}

// Delete removes an owned account unless transaction lines still reference it.
func (s *Service) Delete(ctx context.Context, ownerID, id int64) error {
	if _, err := s.getOwned(ctx, ownerID, id); err != nil {
		return err
	}
	hasLines, err := s.repo.HasTransactionLines(ctx, id)
	if err != nil {
		return err
	}
	if hasLines {
		return shared.ErrConflict
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) getOwned(ctx context.Context, ownerID, id int64) (MasterAccount, error) {
	account, err := s.repo.Get(ctx, id)
	if err != nil {
		return MasterAccount{}, err
	}
	if account.OwnerID != ownerID {
		return MasterAccount{}, shared.ErrForbidden
	}
	return account, nil
}
