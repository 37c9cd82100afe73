package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ifinance-app/ifinance/internal/shared"
)

// Repository encapsulates DB operations for administrators and users.
type Repository interface {
	ListAdministrators(ctx context.Context) ([]Administrator, error)
	InsertAdministrator(ctx context.Context, admin *Administrator) error
	DeleteAdministrator(ctx context.Context, id int64) error
	HasAssignedUsers(ctx context.Context, adminID int64) (bool, error)
	ListUsers(ctx context.Context) ([]User, error)
	CategoryName(ctx context.Context, id int64) (string, error)
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository exposes the writes of the provisioning transaction so a new
// user, their starting group, and their opening balance account commit or
// roll back together.
type TxRepository interface {
	InsertUser(ctx context.Context, user *User) error
	InsertGroup(ctx context.Context, name string, categoryID, ownerID int64) (int64, error)
	InsertAccount(ctx context.Context, name string, groupID, ownerID int64, opening float64) (int64, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) ListAdministrators(ctx context.Context) ([]Administrator, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, username, password_hash, date_hired, date_finished, created_at
FROM administrators ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Administrator
	for rows.Next() {
		var a Administrator
		if err := rows.Scan(&a.ID, &a.Name, &a.Username, &a.PasswordHash, &a.DateHired, &a.DateFinished, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *repository) InsertAdministrator(ctx context.Context, admin *Administrator) error {
	err := r.db.QueryRow(ctx, `INSERT INTO administrators (name, username, password_hash, date_hired)
VALUES ($1,$2,$3,$4) RETURNING id, created_at`,
		admin.Name, admin.Username, admin.PasswordHash, admin.DateHired).
		Scan(&admin.ID, &admin.CreatedAt)
	if isUniqueViolation(err) {
		return shared.ErrConflict
	}
	return err
}

func (r *repository) DeleteAdministrator(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM administrators WHERE id=$1`, id)
	if err != nil {
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

func (r *repository) HasAssignedUsers(ctx context.Context, adminID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE administrator_id=$1)`, adminID).Scan(&exists)
	return exists, err
}

func (r *repository) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, username, email, address, password_hash, administrator_id, created_at
FROM users ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Username, &u.Email, &u.Address, &u.PasswordHash, &u.AdministratorID, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *repository) CategoryName(ctx context.Context, id int64) (string, error) {
	var name string
	err := r.db.QueryRow(ctx, `SELECT name FROM account_categories WHERE id=$1`, id).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", shared.ErrNotFound
	}
	return name, err
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
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

func (r *txRepository) InsertUser(ctx context.Context, user *User) error {
	err := r.tx.QueryRow(ctx, `INSERT INTO users (name, username, email, address, password_hash, administrator_id)
VALUES ($1,$2,$3,$4,$5,$6) RETURNING id, created_at`,
		user.Name, user.Username, user.Email, user.Address, user.PasswordHash, user.AdministratorID).
		Scan(&user.ID, &user.CreatedAt)
	if isUniqueViolation(err) {
		return shared.ErrConflict
	}
	return err
}

func (r *txRepository) InsertGroup(ctx context.Context, name string, categoryID, ownerID int64) (int64, error) {
	var id int64
	err := r.tx.QueryRow(ctx, `INSERT INTO groups (name, category_id, parent_id, owner_id)
VALUES ($1,$2,NULL,$3) RETURNING id`, name, categoryID, ownerID).Scan(&id)
	return id, err
}

func (r *txRepository) InsertAccount(ctx context.Context, name string, groupID, ownerID int64, opening float64) (int64, error) {
	var id int64
	err := r.tx.QueryRow(ctx, `INSERT INTO master_accounts (name, opening_amount, closing_amount, group_id, owner_id)
VALUES ($1,$2,$2,$3,$4) RETURNING id`, name, fmt.Sprintf("%.2f", opening), groupID, ownerID).Scan(&id)
	return id, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
