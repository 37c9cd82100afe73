package posting

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ifinance-app/ifinance/internal/shared"
)

// LockedAccount is the minimal account view the posting engine locks and
// mutates inside its transaction.
type LockedAccount struct {
	ID            int64
	OwnerID       int64
	ClosingAmount float64
}

// Repository encapsulates DB operations for transactions.
type Repository interface {
	List(ctx context.Context, ownerID int64) ([]TransactionSummary, error)
	AccountStates(ctx context.Context, ownerID int64) ([]AccountState, error)
	Owners(ctx context.Context) ([]int64, error)
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository exposes the writes available within a posting transaction.
// ApplyBalanceDelta is the single mutation path for closing amounts; it
// exists only here so every balance change stays in lock-step with line
// insertion.
type TxRepository interface {
	GetAccountForUpdate(ctx context.Context, accountID int64) (LockedAccount, error)
	InsertTransaction(ctx context.Context, ownerID int64, ref uuid.UUID, in TransferRequest) (Transaction, error)
	InsertLines(ctx context.Context, transactionID int64, lines []TransactionLine) error
	ApplyBalanceDelta(ctx context.Context, accountID int64, delta float64) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context, ownerID int64) ([]TransactionSummary, error) {
	rows, err := r.db.Query(ctx, `SELECT t.id, t.date, t.description, COALESCE(SUM(l.debited_amount),0)
FROM transactions t
LEFT JOIN transaction_lines l ON l.transaction_id = t.id
WHERE t.owner_id=$1
GROUP BY t.id, t.date, t.description
ORDER BY t.date DESC, t.id DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []TransactionSummary
	for rows.Next() {
		var s TransactionSummary
		if err := rows.Scan(&s.ID, &s.Date, &s.Description, &s.Amount); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *repository) AccountStates(ctx context.Context, ownerID int64) ([]AccountState, error) {
	rows, err := r.db.Query(ctx, `SELECT a.id, a.name, a.opening_amount, a.closing_amount,
       COALESCE(SUM(l.debited_amount),0), COALESCE(SUM(l.credited_amount),0)
FROM master_accounts a
LEFT JOIN transaction_lines l ON l.debit_account_id = a.id
WHERE a.owner_id=$1
GROUP BY a.id, a.name, a.opening_amount, a.closing_amount
ORDER BY a.id ASC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []AccountState
	for rows.Next() {
		var s AccountState
		if err := rows.Scan(&s.AccountID, &s.Name, &s.OpeningAmount, &s.ClosingAmount, &s.DebitedTotal, &s.CreditedTotal); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Owners lists every user id holding at least one account, for the periodic
// integrity sweep.
func (r *repository) Owners(ctx context.Context) ([]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT DISTINCT owner_id FROM master_accounts ORDER BY owner_id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return err
	}
	if err := fn(ctx, &txRepository{tx: tx}); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

type txRepository struct {
	tx pgx.Tx
}

// GetAccountForUpdate locks the account row so concurrent postings touching
// the same account serialize their balance updates.
func (r *txRepository) GetAccountForUpdate(ctx context.Context, accountID int64) (LockedAccount, error) {
	var a LockedAccount
	err := r.tx.QueryRow(ctx, `SELECT id, owner_id, closing_amount FROM master_accounts WHERE id=$1 FOR UPDATE`, accountID).
		Scan(&a.ID, &a.OwnerID, &a.ClosingAmount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return LockedAccount{}, shared.ErrNotFound
		}
		return LockedAccount{}, err
	}
	return a, nil
}

func (r *txRepository) InsertTransaction(ctx context.Context, ownerID int64, ref uuid.UUID, in TransferRequest) (Transaction, error) {
	txn := Transaction{
		Ref:         ref,
		Date:        in.Date,
		Description: in.Description,
		OwnerID:     ownerID,
	}
	err := r.tx.QueryRow(ctx, `INSERT INTO transactions (ref, date, description, owner_id)
VALUES ($1,$2,$3,$4) RETURNING id, created_at`, ref, in.Date, in.Description, ownerID).
		Scan(&txn.ID, &txn.CreatedAt)
	if err != nil {
		return Transaction{}, err
	}
	return txn, nil
}

func (r *txRepository) InsertLines(ctx context.Context, transactionID int64, lines []TransactionLine) error {
	for _, line := range lines {
		if _, err := r.tx.Exec(ctx, `INSERT INTO transaction_lines
(transaction_id, debit_account_id, credit_account_id, debited_amount, credited_amount, comment)
VALUES ($1,$2,$3,$4,$5,$6)`,
			transactionID, line.DebitAccountID, line.CreditAccountID,
			toNumeric(line.DebitedAmount), toNumeric(line.CreditedAmount), line.Comment); err != nil {
			return err
		}
	}
	return nil
}

func (r *txRepository) ApplyBalanceDelta(ctx context.Context, accountID int64, delta float64) error {
	cmd, err := r.tx.Exec(ctx, `UPDATE master_accounts SET closing_amount = closing_amount + $2, updated_at=NOW()
WHERE id=$1`, accountID, toNumeric(delta))
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func toNumeric(v float64) any {
	return fmt.Sprintf("%.2f", v)
}
