package posting

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ifinance-app/ifinance/internal/shared"
)

// ReportCacheBuster invalidates cached reports for an owner after a posting
// changes the underlying data.
type ReportCacheBuster interface {
	Bust(ctx context.Context, ownerID int64)
}

// Service is the posting engine: it turns a transfer request into a balanced
// transaction atomically, and exposes the reconciliation audit.
type Service struct {
	repo  Repository
	cache ReportCacheBuster
	now   func() time.Time
}

func NewService(repo Repository, cache ReportCacheBuster) *Service {
	return &Service{repo: repo, cache: cache, now: time.Now}
}

func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Post validates and commits a transfer. Validation failures are collected
// into one error so a form can redisplay every offending field; on success
// the header, the mirrored line pair, and both balance deltas land as a
// single atomic unit, or not at all.
func (s *Service) Post(ctx context.Context, ownerID int64, req TransferRequest) (Transaction, error) {
	if err := shared.ValidateStruct(req); err != nil {
		return Transaction{}, err
	}
	ve := shared.NewValidationError()
	if req.Date.IsZero() {
		req.Date = s.now()
	}
	if req.DebitAccountID <= 0 {
		ve.Add("debit_account_id", "invalid source account")
	}
	if req.CreditAccountID <= 0 {
		ve.Add("credit_account_id", "invalid destination account")
	}
	if req.DebitAccountID == req.CreditAccountID && req.DebitAccountID > 0 {
		ve.Add("credit_account_id", "cannot transfer to the same account")
	}
	if req.Amount <= 0 {
		ve.Add("amount", "amount must be positive")
	}
	if err := ve.ErrOrNil(); err != nil {
		return Transaction{}, err
	}

	var txn Transaction
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		from, to, err := s.lockPair(ctx, tx, ownerID, req.DebitAccountID, req.CreditAccountID, ve)
		if err != nil {
			return err
		}
		if err := ve.ErrOrNil(); err != nil {
			return err
		}
		if from.ClosingAmount < req.Amount {
			return shared.ErrInsufficientFunds
		}

		inserted, err := tx.InsertTransaction(ctx, ownerID, uuid.New(), req)
		if err != nil {
			return err
		}
		lines := mirroredLines(inserted.ID, from.ID, to.ID, req.Amount, req.Comment)
		if err := tx.InsertLines(ctx, inserted.ID, lines); err != nil {
			return err
		}
		if err := tx.ApplyBalanceDelta(ctx, from.ID, -req.Amount); err != nil {
			return err
		}
		if err := tx.ApplyBalanceDelta(ctx, to.ID, req.Amount); err != nil {
			return err
		}
		inserted.Lines = lines
		txn = inserted
		return nil
	})
	if err != nil {
		return Transaction{}, err
	}
	if s.cache != nil {
		s.cache.Bust(ctx, ownerID)
	}
	return txn, nil
}

// lockPair locks both accounts in ascending id order to avoid deadlocks
// between concurrent transfers, and records missing/foreign sides on ve.
func (s *Service) lockPair(ctx context.Context, tx TxRepository, ownerID, debitID, creditID int64, ve *shared.ValidationError) (from, to LockedAccount, err error) {
	first, second := debitID, creditID
	if second < first {
		first, second = second, first
	}
	locked := make(map[int64]LockedAccount, 2)
	for _, id := range []int64{first, second} {
		account, lockErr := tx.GetAccountForUpdate(ctx, id)
		switch {
		case errors.Is(lockErr, shared.ErrNotFound):
			ve.Add(fieldForAccount(id, debitID), accountMessage(id, debitID, "account does not exist"))
		case lockErr != nil:
			return LockedAccount{}, LockedAccount{}, lockErr
		case account.OwnerID != ownerID:
			ve.Add(fieldForAccount(id, debitID), accountMessage(id, debitID, "account belongs to another user"))
		default:
			locked[id] = account
		}
	}
	return locked[debitID], locked[creditID], nil
}

func fieldForAccount(id, debitID int64) string {
	if id == debitID {
		return "debit_account_id"
	}
	return "credit_account_id"
}

func accountMessage(id, debitID int64, msg string) string {
	if id == debitID {
		return "source " + msg
	}
	return "destination " + msg
}

// mirroredLines builds the two-line pair: the debit line belongs to the
// source account and points at the destination, the credit line mirrors it.
func mirroredLines(transactionID, fromID, toID int64, amount float64, comment string) []TransactionLine {
	return []TransactionLine{
		{
			TransactionID:   transactionID,
			DebitAccountID:  fromID,
			CreditAccountID: toID,
			DebitedAmount:   amount,
			CreditedAmount:  0,
			Comment:         comment,
		},
		{
			TransactionID:   transactionID,
			DebitAccountID:  toID,
			CreditAccountID: fromID,
			DebitedAmount:   0,
			CreditedAmount:  amount,
			Comment:         comment,
		},
	}
}

// List returns the owner's transaction history newest-first, each header
// carrying the transfer amount summed from its debited lines.
func (s *Service) List(ctx context.Context, ownerID int64) ([]TransactionSummary, error) {
	return s.repo.List(ctx, ownerID)
}

// Owners lists every user id with ledger data, for callers that reconcile
// across the whole system.
func (s *Service) Owners(ctx context.Context) ([]int64, error) {
	return s.repo.Owners(ctx)
}

// Reconcile recomputes each account's closing amount from its line history
// (opening + credits received - debits sent) and reports any drift from the
// materialized balance. It is a read-only audit and never repairs.
func (s *Service) Reconcile(ctx context.Context, ownerID int64) ([]ReconcileResult, error) {
	states, err := s.repo.AccountStates(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	results := make([]ReconcileResult, 0, len(states))
	for _, st := range states {
		expected := st.OpeningAmount + st.CreditedTotal - st.DebitedTotal
		results = append(results, ReconcileResult{
			AccountID:       st.AccountID,
			Name:            st.Name,
			ClosingAmount:   st.ClosingAmount,
			ExpectedClosing: expected,
			Drift:           st.ClosingAmount - expected,
		})
	}
	return results, nil
}
