package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Dev-JBA/JBAAI-WEB-VIEW/internal/miniapp/domain"
)

type tabSessionsRepo struct {
	db  dbtx
	now func() time.Time
}

const upsertTabSession = `
INSERT INTO tab_sessions (
    tab_id, session_id_encrypted, cif, fullname, extra,
    verified_at, expires_at, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (tab_id) DO UPDATE SET
    session_id_encrypted = excluded.session_id_encrypted,
    cif                  = excluded.cif,
    fullname             = excluded.fullname,
    extra                = excluded.extra,
    verified_at          = excluded.verified_at,
    expires_at           = excluded.expires_at,
    updated_at           = excluded.updated_at`

func (r *tabSessionsRepo) UpsertTabSession(ctx context.Context, s domain.TabSession) error {
	extra := []byte("{}")
	if len(s.Extra) > 0 {
		var err error
		if extra, err = json.Marshal(s.Extra); err != nil {
			return fmt.Errorf("encode extra: %w", err)
		}
	}

	now := r.now()
	_, err := r.db.ExecContext(ctx, upsertTabSession,
		s.TabID,
		s.SessionIDEncrypted,
		s.CIF,
		s.Fullname,
		string(extra),
		toMillis(s.VerifiedAt),
		toMillis(s.ExpiresAt),
		toMillis(now),
		toMillis(now),
	)
	return err
}

const getTabSession = `
SELECT tab_id, session_id_encrypted, cif, fullname, extra,
       verified_at, expires_at, created_at, updated_at
FROM tab_sessions
WHERE tab_id = ? AND expires_at > ?`

func (r *tabSessionsRepo) GetTabSession(ctx context.Context, tabID string) (domain.TabSession, error) {
	var s domain.TabSession
	var extra string
	var verified, expires, created, updated int64

	err := r.db.QueryRowContext(ctx, getTabSession, tabID, toMillis(r.now())).Scan(
		&s.TabID,
		&s.SessionIDEncrypted,
		&s.CIF,
		&s.Fullname,
		&extra,
		&verified,
		&expires,
		&created,
		&updated,
	)
	if err != nil {
		return domain.TabSession{}, mapNotFound(err)
	}

	if extra != "" && extra != "{}" {
		if err := json.Unmarshal([]byte(extra), &s.Extra); err != nil {
			return domain.TabSession{}, fmt.Errorf("decode extra: %w", err)
		}
	}

	s.VerifiedAt = fromMillis(verified)
	s.ExpiresAt = fromMillis(expires)
	s.CreatedAt = fromMillis(created)
	s.UpdatedAt = fromMillis(updated)
	return s, nil
}

func (r *tabSessionsRepo) DeleteTabSession(ctx context.Context, tabID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tab_sessions WHERE tab_id = ?`, tabID)
	return err
}

func (r *tabSessionsRepo) DeleteExpiredTabSessions(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tab_sessions WHERE expires_at <= ?`, toMillis(r.now()))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
