package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Juniorkpabitey/virtra/internal/model"
	"github.com/Juniorkpabitey/virtra/internal/repository"
)

func (r *profileRepository) Get(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	query := `
		SELECT id, firstname, lastname, email, age, gender, contact,
			   avatar_url, updated_at
		FROM profiles
		WHERE id = $1
	`
	var profile model.Profile
	err := r.db.GetContext(ctx, &profile, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

// Upsert inserts the profile row or updates it in place, matching the
// write semantics of the profile page.
func (r *profileRepository) Upsert(ctx context.Context, profile *model.Profile) error {
	query := `
		INSERT INTO profiles (
			id, firstname, lastname, email, age, gender, contact,
			avatar_url, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE
		SET firstname = $2, lastname = $3, email = $4, age = $5,
			gender = $6, contact = $7, avatar_url = $8, updated_at = $9
	`
	profile.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		profile.ID,
		profile.FirstName,
		profile.LastName,
		profile.Email,
		profile.Age,
		profile.Gender,
		profile.Contact,
		profile.AvatarURL,
		profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

// GetByIDs bulk-fetches profiles for the distinct id set appearing in a
// doctor's appointment rows.
func (r *profileRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`
		SELECT id, firstname, lastname, email, age, gender, contact,
			   avatar_url, updated_at
		FROM profiles
		WHERE id IN (?)
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build profile query: %w", err)
	}
	query = r.db.Rebind(query)

	var profiles []*model.Profile
	if err := r.db.SelectContext(ctx, &profiles, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	return profiles, nil
}
