package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/access-control/internal/model"
)

// TokenRepo is the MySQL-backed TokenStore over the 'session_tokens'
// table. Rows are never deleted; revocation flips is_active.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// Insert stores a freshly issued token row. Returns ErrDuplicate on
// a token value collision so the issuer can regenerate.
func (r *TokenRepo) Insert(ctx context.Context, t *model.SessionToken) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO session_tokens (user_id, token, expires_at, is_active) VALUES (?,?,?,?)",
		t.UserID, t.Token, t.ExpiresAt.UTC(), t.IsActive)
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// GetByValue fetches a token row by its exact value. The active and
// expiry checks are left to the caller so it can treat every invalid
// state uniformly.
func (r *TokenRepo) GetByValue(ctx context.Context, token string) (model.SessionToken, error) {
	var t model.SessionToken
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,user_id,token,expires_at,created_at,is_active FROM session_tokens WHERE token=? LIMIT 1",
		token).Scan(&t.ID, &t.UserID, &t.Token, &t.ExpiresAt, &t.CreatedAt, &t.IsActive)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.SessionToken{}, ErrNotFound
		}
		return model.SessionToken{}, err
	}
	return t, nil
}

// Deactivate marks one token inactive iff it belongs to userID.
// Absent or foreign tokens are a silent no-op.
func (r *TokenRepo) Deactivate(ctx context.Context, token string, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE session_tokens SET is_active=0 WHERE token=? AND user_id=?",
		token, userID)
	return err
}

// DeactivateAllForUser marks every token of a user inactive. Used on
// account deactivation.
func (r *TokenRepo) DeactivateAllForUser(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE session_tokens SET is_active=0 WHERE user_id=? AND is_active=1",
		userID)
	return err
}
