package accounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ifinance-app/ifinance/internal/shared"
)

// Repository encapsulates DB operations for master accounts. There is no
// balance mutation here: closing_amount changes only inside the posting
// engine's transaction scope.
type Repository interface {
	Get(ctx context.Context, id int64) (MasterAccount, error)
	List(ctx context.Context, ownerID int64) ([]MasterAccount, error)
	Insert(ctx context.Context, a MasterAccount) (MasterAccount, error)
	Delete(ctx context.Context, id int64) error
	HasTransactionLines(ctx context.Context, accountID int64) (bool, error)
	GetGroupOwner(ctx context.Context, groupID int64) (int64, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) Get(ctx context.Context, id int64) (MasterAccount, error) {
	var a MasterAccount
	err := r.db.QueryRow(ctx, `SELECT id, name, opening_amount, closing_amount, group_id, owner_id, created_at, updated_at
FROM master_accounts WHERE id=$1`, id).
		Scan(&a.ID, &a.Name, &a.OpeningAmount, &a.ClosingAmount, &a.GroupID, &a.OwnerID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return MasterAccount{}, shared.ErrNotFound
		}
		return MasterAccount{}, err
	}
	return a, nil
}

func (r *repository) List(ctx context.Context, ownerID int64) ([]MasterAccount, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, opening_amount, closing_amount, group_id, owner_id, created_at, updated_at
FROM master_accounts WHERE owner_id=$1 ORDER BY id ASC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []MasterAccount
	for rows.Next() {
		var a MasterAccount
		if err := rows.Scan(&a.ID, &a.Name, &a.OpeningAmount, &a.ClosingAmount, &a.GroupID, &a.OwnerID, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *repository) Insert(ctx context.Context, a MasterAccount) (MasterAccount, error) {
	err := r.db.QueryRow(ctx, `INSERT INTO master_accounts (name, opening_amount, closing_amount, group_id, owner_id)
VALUES ($1,$2,$3,$4,$5) RETURNING id, created_at, updated_at`,
		a.Name, toNumeric(a.OpeningAmount), toNumeric(a.ClosingAmount), a.GroupID, a.OwnerID).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return MasterAccount{}, err
	}
	return a, nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM master_accounts WHERE id=$1`, id)
	if err != nil {
		// transaction_lines restrict FKs back the delete guard.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return shared.ErrConflict
		}
		return err
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) HasTransactionLines(ctx context.Context, accountID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM transaction_lines WHERE debit_account_id=$1 OR credit_account_id=$1)`,
		accountID).Scan(&exists)
	return exists, err
}

func (r *repository) GetGroupOwner(ctx context.Context, groupID int64) (int64, error) {
	var ownerID int64
	err := r.db.QueryRow(ctx, `SELECT owner_id FROM groups WHERE id=$1`, groupID).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, shared.ErrNotFound
		}
		return 0, err
	}
	return ownerID, nil
}

func toNumeric(v float64) any {
	return fmt.Sprintf("%.2f", v)
}
