// Package feedback accepts contact-form messages and lets admins triage them.
package feedback

import (
	"context"
	"strings"
	"unicode/utf8"

	"canteen-ordering/internal/domain"
	feedbackrepo "canteen-ordering/internal/repository/feedback"
	"go.uber.org/zap"
)

const (
	minMessageLength = 10
	maxMessageLength = 2000
)

type Service struct {
	repo   feedbackrepo.Repository
	logger *zap.Logger
}

func New(repo feedbackrepo.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger}
}

// Input is a submitted contact form. An empty Type means general feedback.
type Input struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Submit validates in and stores it with status new.
func (s *Service) Submit(ctx context.Context, in Input) (*domain.Feedback, error) {
	verr := domain.NewValidationError()
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	message := strings.TrimSpace(in.Message)

	if name == "" {
		verr.Add("name", "required")
	}
	switch {
	case email == "":
		verr.Add("email", "required")
	case !domain.ValidEmail(email):
		verr.Add("email", "invalid format")
	}
	kind := domain.FeedbackGeneral
	if strings.TrimSpace(in.Type) != "" {
		k, err := domain.ParseFeedbackKind(in.Type)
		if err != nil {
			verr.Add("type", "must be feedback, complaint or suggestion")
		}
		kind = k
	}
	switch n := utf8.RuneCountInString(message); {
	case n == 0:
		verr.Add("message", "required")
	case n < minMessageLength:
		verr.Add("message", "must be at least 10 characters")
	case n > maxMessageLength:
		verr.Add("message", "too long")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, domain.Feedback{
		Name:    name,
		Email:   email,
		Kind:    kind,
		Message: message,
		Status:  domain.FeedbackNew,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("feedback: submitted", zap.String("id", created.ID), zap.String("type", string(kind)))
	return created, nil
}

// List returns entries newest first, limited to status when it is set.
func (s *Service) List(ctx context.Context, actor domain.Actor, status domain.FeedbackStatus) ([]domain.Feedback, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	return s.repo.List(ctx, status)
}

func (s *Service) SetStatus(ctx context.Context, actor domain.Actor, id string, status domain.FeedbackStatus) (*domain.Feedback, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrNotFound
	}
	f, err := s.repo.SetStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.logger.Info("feedback: status changed", zap.String("id", id), zap.String("status", string(status)))
	return f, nil
}
