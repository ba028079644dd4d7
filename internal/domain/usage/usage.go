// Package usage is the token accounting ledger. Every authenticated
// completion writes one row; guests are never accounted.
package usage

import (
	"context"
	"time"

	"github.com/relaybase/chat-api/internal/utils/platformerrors"
)

// Record is one completion's token spend.
type Record struct {
	ID               uint
	UserID           uint
	SessionID        *uint
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	CreatedAt        time.Time
}

// Summary aggregates a user's spend per model over a window.
type Summary struct {
	Model            string `json:"model"`
	PromptTokens     int64  `json:"prompt_tokens"`
	CompletionTokens int64  `json:"completion_tokens"`
	TotalTokens      int64  `json:"total_tokens"`
	Requests         int64  `json:"requests"`
}

// Repository defines storage operations for token usage.
type Repository interface {
	Record(ctx context.Context, record *Record) error
	SummarizeByUser(ctx context.Context, userID uint, from, to time.Time) ([]Summary, error)
}

// Service records and reports token usage.
type Service struct {
	repo Repository
}

// NewService constructs a Service with required dependencies.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Record persists one completion's spend.
func (s *Service) Record(ctx context.Context, record *Record) error {
	if record.TotalTokens == 0 {
		record.TotalTokens = record.PromptTokens + record.CompletionTokens
	}
	if err := s.repo.Record(ctx, record); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to record token usage")
	}
	return nil
}

// SummarizeByUser aggregates a user's spend per model over the trailing
// window.
func (s *Service) SummarizeByUser(ctx context.Context, userID uint, from, to time.Time) ([]Summary, error) {
	summaries, err := s.repo.SummarizeByUser(ctx, userID, from, to)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to summarize token usage")
	}
	return summaries, nil
}
