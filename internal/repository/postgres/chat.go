package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Juniorkpabitey/virtra/internal/model"
)

// Patient and doctor transcripts live in separate tables.
func chatTable(audience model.ChatAudience) string {
	if audience == model.ChatAudienceDoctor {
		return "doctor_chats"
	}
	return "chats"
}

func (r *chatRepository) Create(ctx context.Context, audience model.ChatAudience, record *model.ChatRecord) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, owner_id, prompt, response, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, chatTable(audience))

	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.OwnerID,
		record.Prompt,
		record.Response,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create chat record: %w", err)
	}
	return nil
}

func (r *chatRepository) ListForOwner(ctx context.Context, audience model.ChatAudience, ownerID uuid.UUID) ([]*model.ChatRecord, error) {
	query := fmt.Sprintf(`
		SELECT id, owner_id, prompt, response, created_at
		FROM %s
		WHERE owner_id = $1
		ORDER BY created_at ASC
	`, chatTable(audience))

	var records []*model.ChatRecord
	if err := r.db.SelectContext(ctx, &records, query, ownerID); err != nil {
		return nil, fmt.Errorf("failed to list chat records: %w", err)
	}
	return records, nil
}
