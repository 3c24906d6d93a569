package menu

import (
	"context"
	"errors"
	"strings"
	"testing"

	"canteen-ordering/internal/domain"
	menurepo "canteen-ordering/internal/repository/menu"
	reviewrepo "canteen-ordering/internal/repository/review"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type stubItems struct {
	items      map[string]domain.MenuItem
	lastFilter menurepo.ListFilter
}

func (s *stubItems) List(_ context.Context, f menurepo.ListFilter) ([]domain.MenuItem, error) {
	s.lastFilter = f
	var out []domain.MenuItem
	for _, it := range s.items {
		out = append(out, it)
	}
	return out, nil
}

func (s *stubItems) Get(_ context.Context, id string) (*domain.MenuItem, error) {
	it, ok := s.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &it, nil
}

func (s *stubItems) Categories(context.Context) ([]string, error) {
	return []string{"Snacks"}, nil
}

type stubReviews struct {
	stats    reviewrepo.Stats
	statsErr error
	created  []domain.Review
}

func (s *stubReviews) Create(_ context.Context, r domain.Review) (*domain.Review, error) {
	r.ID = "r1"
	s.created = append(s.created, r)
	return &r, nil
}

func (s *stubReviews) ListByItem(context.Context, string) ([]domain.Review, error) {
	return s.created, nil
}

func (s *stubReviews) Stats(context.Context, string) (reviewrepo.Stats, error) {
	return s.stats, s.statsErr
}

func newService(reviews *stubReviews) (*Service, *stubItems) {
	rating := decimal.RequireFromString("4.2")
	items := &stubItems{items: map[string]domain.MenuItem{
		"samosa": {ID: "samosa", Category: "Snacks", Name: "Samosa", Price: decimal.NewFromInt(15), Available: true, Rating: &rating},
	}}
	return &Service{items: items, reviews: reviews, logger: zap.NewNop()}, items
}

func TestList_AllCategoryMeansNoFilter(t *testing.T) {
	svc, items := newService(&stubReviews{})
	if _, err := svc.List(context.Background(), "All", "sam"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if items.lastFilter.Category != "" || items.lastFilter.Query != "sam" {
		t.Fatalf("unexpected filter %+v", items.lastFilter)
	}
}

func TestGet_UsesReviewAverage(t *testing.T) {
	s, _ := newService(&stubReviews{stats: reviewrepo.Stats{Average: decimal.RequireFromString("3.67"), Count: 3}})

	item, err := s.Get(context.Background(), "samosa")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.ReviewCount != 3 || !item.Rating.Equal(decimal.RequireFromString("3.7")) {
		t.Fatalf("expected review-derived rating, got %s (%d)", item.Rating, item.ReviewCount)
	}
}

func TestGet_KeepsCatalogRatingWithoutReviews(t *testing.T) {
	s, _ := newService(&stubReviews{})

	item, err := s.Get(context.Background(), "samosa")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !item.Rating.Equal(decimal.RequireFromString("4.2")) {
		t.Fatalf("expected catalog rating, got %s", item.Rating)
	}
	if _, err := s.Get(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSubmitReview_Validation(t *testing.T) {
	s, _ := newService(&stubReviews{})

	_, err := s.SubmitReview(context.Background(), "samosa", ReviewInput{Rating: 6, Comment: strings.Repeat("a", maxCommentLength+1)})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, f := range []string{"userName", "rating", "comment"} {
		if _, ok := verr.Fields[f]; !ok {
			t.Fatalf("missing field %s in %v", f, verr.Fields)
		}
	}
}

func TestSubmitReview_UnknownItem(t *testing.T) {
	reviews := &stubReviews{}
	s, _ := newService(reviews)

	_, err := s.SubmitReview(context.Background(), "ghost", ReviewInput{UserName: "A", Rating: 4, Comment: "ok"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(reviews.created) != 0 {
		t.Fatalf("review stored for unknown item")
	}
}

func TestSubmitReview_HappyPath(t *testing.T) {
	reviews := &stubReviews{}
	s, _ := newService(reviews)

	got, err := s.SubmitReview(context.Background(), "samosa", ReviewInput{UserName: "  Anu ", Rating: 5, Comment: " crisp "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.UserName != "Anu" || got.Comment != "crisp" || got.ItemID != "samosa" {
		t.Fatalf("unexpected review %+v", got)
	}
}
