package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Juniorkpabitey/virtra/internal/assistant"
	"github.com/Juniorkpabitey/virtra/internal/model"
	"github.com/Juniorkpabitey/virtra/internal/repository"
	"github.com/Juniorkpabitey/virtra/pkg/metrics"
)

// FallbackReply is shown when the completion backend fails. It is never
// persisted to history.
const FallbackReply = "⚠️ Sorry, Virtra could not respond. Please try again."

type Service struct {
	repo                repository.ChatRepository
	completer           assistant.Completer
	patientSystemPrompt string
	doctorSystemPrompt  string
	metrics             *metrics.Metrics
}

// NewService wires the transcript store and the completion backend. A nil
// metrics disables instrumentation.
func NewService(repo repository.ChatRepository, completer assistant.Completer, patientPrompt, doctorPrompt string, m *metrics.Metrics) *Service {
	return &Service{
		repo:                repo,
		completer:           completer,
		patientSystemPrompt: patientPrompt,
		doctorSystemPrompt:  doctorPrompt,
		metrics:             m,
	}
}

// History returns the owner's conversation, oldest first.
func (s *Service) History(ctx context.Context, audience model.ChatAudience, ownerID uuid.UUID) ([]*model.ChatRecord, error) {
	records, err := s.repo.ListForOwner(ctx, audience, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat history: %w", err)
	}
	return records, nil
}

// SendMessage forwards the prompt to the completion backend and persists
// the exchange. On backend failure the fallback reply is returned but the
// exchange is not saved, so reloading the history never shows it.
func (s *Service) SendMessage(ctx context.Context, audience model.ChatAudience, ownerID uuid.UUID, message string) (*model.ChatRecord, error) {
	prompt := strings.TrimSpace(message)

	start := time.Now()
	reply, err := s.completer.Complete(ctx, s.systemPrompt(audience), prompt)
	s.observe(err, time.Since(start))
	if err != nil {
		log.Warn().Err(err).Str("owner_id", ownerID.String()).Msg("completion request failed")
		return &model.ChatRecord{
			OwnerID:   ownerID,
			Prompt:    prompt,
			Response:  FallbackReply,
			CreatedAt: time.Now(),
		}, nil
	}

	record := &model.ChatRecord{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Prompt:    prompt,
		Response:  reply,
		CreatedAt: time.Now(),
	}
	if err := s.repo.Create(ctx, audience, record); err != nil {
		return nil, fmt.Errorf("failed to save chat record: %w", err)
	}
	return record, nil
}

func (s *Service) observe(err error, elapsed time.Duration) {
	if s.metrics == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	s.metrics.CompletionRequests.WithLabelValues(status).Inc()
	s.metrics.CompletionLatency.Observe(elapsed.Seconds())
}

func (s *Service) systemPrompt(audience model.ChatAudience) string {
	if audience == model.ChatAudienceDoctor {
		return s.doctorSystemPrompt
	}
	return s.patientSystemPrompt
}
