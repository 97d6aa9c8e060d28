package sqlite

import (
	"context"
	"time"

	"github.com/Dev-JBA/JBAAI-WEB-VIEW/internal/miniapp/domain"
)

type transactionsRepo struct {
	db  dbtx
	now func() time.Time
}

func (r *transactionsRepo) SetLastTransaction(ctx context.Context, t domain.LastTransaction) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO last_transactions (tab_id, transaction_id, expires_at, created_at)
VALUES (?, ?, ?, ?)
ON CONFLICT (tab_id) DO UPDATE SET
    transaction_id = excluded.transaction_id,
    expires_at     = excluded.expires_at,
    created_at     = excluded.created_at`,
		t.TabID,
		t.TransactionID,
		toMillis(t.ExpiresAt),
		toMillis(r.now()),
	)
	return err
}

func (r *transactionsRepo) GetLastTransaction(ctx context.Context, tabID string) (domain.LastTransaction, error) {
	var (
		t                domain.LastTransaction
		expires, created int64
	)

	err := r.db.QueryRowContext(ctx, `
SELECT tab_id, transaction_id, expires_at, created_at
FROM last_transactions
WHERE tab_id = ? AND expires_at > ?`,
		tabID, toMillis(r.now()),
	).Scan(&t.TabID, &t.TransactionID, &expires, &created)
	if err != nil {
		return domain.LastTransaction{}, mapNotFound(err)
	}

	t.ExpiresAt = fromMillis(expires)
	t.CreatedAt = fromMillis(created)
	return t, nil
}

func (r *transactionsRepo) DeleteLastTransaction(ctx context.Context, tabID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM last_transactions WHERE tab_id = ?`, tabID)
	return err
}

func (r *transactionsRepo) DeleteExpiredTransactions(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM last_transactions WHERE expires_at <= ?`, toMillis(r.now()))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
