package menu

import (
	"context"
	"strings"
	"unicode/utf8"

	"canteen-ordering/internal/domain"
	menurepo "canteen-ordering/internal/repository/menu"
	reviewrepo "canteen-ordering/internal/repository/review"
	"go.uber.org/zap"
)

const maxCommentLength = 1000

type Service struct {
	items   itemRepo
	reviews reviewRepo
	logger  *zap.Logger
}

type itemRepo interface {
	List(ctx context.Context, filter menurepo.ListFilter) ([]domain.MenuItem, error)
	Get(ctx context.Context, id string) (*domain.MenuItem, error)
	Categories(ctx context.Context) ([]string, error)
}

type reviewRepo interface {
	Create(ctx context.Context, r domain.Review) (*domain.Review, error)
	ListByItem(ctx context.Context, itemID string) ([]domain.Review, error)
	Stats(ctx context.Context, itemID string) (reviewrepo.Stats, error)
}

func New(items menurepo.Repository, reviews reviewrepo.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{items: items, reviews: reviews, logger: logger}
}

// ReviewInput is a customer-submitted review.
type ReviewInput struct {
	UserName string `json:"userName"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment"`
}

// List returns items in category whose name or description contains query. Both are optional.
func (s *Service) List(ctx context.Context, category, query string) ([]domain.MenuItem, error) {
	if strings.EqualFold(strings.TrimSpace(category), "all") {
		category = ""
	}
	return s.items.List(ctx, menurepo.ListFilter{Category: category, Query: query})
}

func (s *Service) Categories(ctx context.Context) ([]string, error) {
	return s.items.Categories(ctx)
}

// Get returns the item with its rating replaced by the review average when reviews exist.
func (s *Service) Get(ctx context.Context, id string) (*domain.MenuItem, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrNotFound
	}
	item, err := s.items.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	stats, err := s.reviews.Stats(ctx, id)
	if err != nil {
		s.logger.Warn("menu: review stats unavailable", zap.String("item_id", id), zap.Error(err))
		return item, nil
	}
	if stats.Count > 0 {
		avg := stats.Average.Round(1)
		item.Rating = &avg
		item.ReviewCount = stats.Count
	}
	return item, nil
}

func (s *Service) Reviews(ctx context.Context, itemID string) ([]domain.Review, error) {
	if _, err := s.items.Get(ctx, itemID); err != nil {
		return nil, err
	}
	return s.reviews.ListByItem(ctx, itemID)
}

func (s *Service) SubmitReview(ctx context.Context, itemID string, in ReviewInput) (*domain.Review, error) {
	verr := domain.NewValidationError()
	name := strings.TrimSpace(in.UserName)
	comment := strings.TrimSpace(in.Comment)
	if name == "" {
		verr.Add("userName", "required")
	}
	if in.Rating < 1 || in.Rating > 5 {
		verr.Add("rating", "must be between 1 and 5")
	}
	switch {
	case comment == "":
		verr.Add("comment", "required")
	case utf8.RuneCountInString(comment) > maxCommentLength:
		verr.Add("comment", "too long")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	if _, err := s.items.Get(ctx, itemID); err != nil {
		return nil, err
	}
	created, err := s.reviews.Create(ctx, domain.Review{ItemID: itemID, UserName: name, Rating: in.Rating, Comment: comment})
	if err != nil {
		return nil, err
	}
	s.logger.Info("menu: review submitted", zap.String("item_id", itemID), zap.Int("rating", in.Rating))
	return created, nil
}
