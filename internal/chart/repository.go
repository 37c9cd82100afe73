package chart

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ifinance-app/ifinance/internal/shared"
)

// Repository encapsulates DB operations for categories and groups.
type Repository interface {
	ListCategories(ctx context.Context) ([]AccountCategory, error)
	GetCategory(ctx context.Context, id int64) (AccountCategory, error)

	GetGroup(ctx context.Context, id int64) (Group, error)
	ListGroups(ctx context.Context, ownerID int64) ([]Group, error)
	InsertGroup(ctx context.Context, g Group) (Group, error)
	UpdateGroup(ctx context.Context, g Group) error
	DeleteGroup(ctx context.Context, id int64) error
	HasChildGroups(ctx context.Context, groupID int64) (bool, error)
	HasAccounts(ctx context.Context, groupID int64) (bool, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) ListCategories(ctx context.Context) ([]AccountCategory, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, type FROM account_categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var cats []AccountCategory
	for rows.Next() {
		var c AccountCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Type); err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

func (r *repository) GetCategory(ctx context.Context, id int64) (AccountCategory, error) {
	var c AccountCategory
	err := r.db.QueryRow(ctx, `SELECT id, name, type FROM account_categories WHERE id=$1`, id).
		Scan(&c.ID, &c.Name, &c.Type)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return AccountCategory{}, shared.ErrNotFound
		}
		return AccountCategory{}, err
	}
	return c, nil
}

func (r *repository) GetGroup(ctx context.Context, id int64) (Group, error) {
	var g Group
	err := r.db.QueryRow(ctx, `SELECT id, name, category_id, parent_id, owner_id, created_at, updated_at
FROM groups WHERE id=$1`, id).
		Scan(&g.ID, &g.Name, &g.CategoryID, &g.ParentID, &g.OwnerID, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Group{}, shared.ErrNotFound
		}
		return Group{}, err
	}
	return g, nil
}

func (r *repository) ListGroups(ctx context.Context, ownerID int64) ([]Group, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, category_id, parent_id, owner_id, created_at, updated_at
FROM groups WHERE owner_id=$1 ORDER BY id ASC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var groups []Group
	for rows.Next() {
		var g Group
		if err := rows.Scan(&g.ID, &g.Name, &g.CategoryID, &g.ParentID, &g.OwnerID, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func (r *repository) InsertGroup(ctx context.Context, g Group) (Group, error) {
	err := r.db.QueryRow(ctx, `INSERT INTO groups (name, category_id, parent_id, owner_id)
VALUES ($1,$2,$3,$4) RETURNING id, created_at, updated_at`, g.Name, g.CategoryID, g.ParentID, g.OwnerID).
		Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return Group{}, err
	}
	return g, nil
}

func (r *repository) UpdateGroup(ctx context.Context, g Group) error {
	cmd, err := r.db.Exec(ctx, `UPDATE groups SET name=$2, category_id=$3, parent_id=$4, updated_at=NOW()
WHERE id=$1`, g.ID, g.Name, g.CategoryID, g.ParentID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) DeleteGroup(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM groups WHERE id=$1`, id)
	if err != nil {
		// Restrict FKs from child groups and master_accounts back this guard
		// at the schema level.
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

func (r *repository) HasChildGroups(ctx context.Context, groupID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM groups WHERE parent_id=$1)`, groupID).Scan(&exists)
	return exists, err
}

func (r *repository) HasAccounts(ctx context.Context, groupID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM master_accounts WHERE group_id=$1)`, groupID).Scan(&exists)
	return exists, err
}
