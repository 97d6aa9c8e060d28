package sqlite

import (
	"context"
	"time"

	"github.com/Dev-JBA/JBAAI-WEB-VIEW/internal/miniapp/domain"
)

type consumedTokensRepo struct {
	db  dbtx
	now func() time.Time
}

func (r *consumedTokensRepo) MarkConsumed(ctx context.Context, t domain.ConsumedToken) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
INSERT OR IGNORE INTO consumed_tokens (tab_id, fingerprint, expires_at, created_at)
VALUES (?, ?, ?, ?)`,
		t.TabID,
		t.Fingerprint,
		toMillis(t.ExpiresAt),
		toMillis(r.now()),
	)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *consumedTokensRepo) IsConsumed(ctx context.Context, tabID, fingerprint string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(1) FROM consumed_tokens
WHERE tab_id = ? AND fingerprint = ? AND expires_at > ?`,
		tabID, fingerprint, toMillis(r.now()),
	).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *consumedTokensRepo) DeleteExpiredConsumedTokens(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM consumed_tokens WHERE expires_at <= ?`, toMillis(r.now()))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
