package feedback

import (
	"context"

	"canteen-ordering/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, f domain.Feedback) (*domain.Feedback, error)
	// List returns entries newest first. An empty status matches all.
	List(ctx context.Context, status domain.FeedbackStatus) ([]domain.Feedback, error)
	SetStatus(ctx context.Context, id string, status domain.FeedbackStatus) (*domain.Feedback, error)
}
