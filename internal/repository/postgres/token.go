package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

func (r *tokenRepository) StoreRefreshToken(ctx context.Context, userID uuid.UUID, token string, expiry time.Time) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO user_tokens (user_id, token, type, expires_at, created_at)
			VALUES ($1, $2, 'refresh', $3, NOW())
		`
		_, err := tx.ExecContext(ctx, query, userID, token, expiry)
		return err
	})
}

func (r *tokenRepository) ValidateRefreshToken(ctx context.Context, token string) (uuid.UUID, error) {
	query := `
		SELECT user_id
		FROM user_tokens
		WHERE token = $1
		AND type = 'refresh'
		AND expires_at > NOW()
		AND revoked_at IS NULL
	`
	var userID uuid.UUID
	err := r.db.GetContext(ctx, &userID, query, token)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid or expired refresh token")
	}

	return userID, nil
}

func (r *tokenRepository) RevokeRefreshTokens(ctx context.Context, userID uuid.UUID) error {
	query := `
		UPDATE user_tokens
		SET revoked_at = NOW()
		WHERE user_id = $1
		AND type = 'refresh'
		AND revoked_at IS NULL
	`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to revoke refresh tokens: %w", err)
	}
	return nil
}
