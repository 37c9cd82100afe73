package reports

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository fetches read-only aggregation rows. Reports use plain snapshot
// reads; no locking is required.
type Repository interface {
	ActivityRows(ctx context.Context, ownerID int64, from, to time.Time) ([]AccountActivity, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

// ActivityRows returns every account the owner holds, classified by its
// group's category, with debit/credit sums over lines whose parent
// transaction date falls inside [from, to]. Accounts without activity still
// produce a row with zero sums.
func (r *repository) ActivityRows(ctx context.Context, ownerID int64, from, to time.Time) ([]AccountActivity, error) {
	rows, err := r.db.Query(ctx, `SELECT a.id, a.name, c.name, c.type, a.closing_amount,
       COALESCE(SUM(CASE WHEN t.date >= $2 AND t.date <= $3 THEN l.debited_amount END), 0),
       COALESCE(SUM(CASE WHEN t.date >= $2 AND t.date <= $3 THEN l.credited_amount END), 0)
FROM master_accounts a
JOIN groups g ON g.id = a.group_id
JOIN account_categories c ON c.id = g.category_id
LEFT JOIN transaction_lines l ON l.debit_account_id = a.id
LEFT JOIN transactions t ON t.id = l.transaction_id
WHERE a.owner_id = $1
GROUP BY a.id, a.name, c.name, c.type, a.closing_amount
ORDER BY a.id ASC`, ownerID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []AccountActivity
	for rows.Next() {
		var row AccountActivity
		if err := rows.Scan(&row.AccountID, &row.AccountName, &row.Category, &row.Type, &row.Closing, &row.DebitSum, &row.CreditSum); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
