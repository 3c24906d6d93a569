package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether s looks like local@domain.tld.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// FeedbackKind classifies a customer message.
type FeedbackKind string

const (
	FeedbackGeneral    FeedbackKind = "feedback"
	FeedbackComplaint  FeedbackKind = "complaint"
	FeedbackSuggestion FeedbackKind = "suggestion"
)

// ParseFeedbackKind accepts the kind names case-insensitively.
func ParseFeedbackKind(s string) (FeedbackKind, error) {
	for _, k := range []FeedbackKind{FeedbackGeneral, FeedbackComplaint, FeedbackSuggestion} {
		if strings.EqualFold(strings.TrimSpace(s), string(k)) {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown feedback type %q", s)
}

// FeedbackStatus tracks admin triage. Any status may move to any other.
type FeedbackStatus string

const (
	FeedbackNew       FeedbackStatus = "new"
	FeedbackReviewing FeedbackStatus = "reviewing"
	FeedbackResolved  FeedbackStatus = "resolved"
)

// ParseFeedbackStatus accepts the status names case-insensitively.
func ParseFeedbackStatus(s string) (FeedbackStatus, error) {
	for _, st := range []FeedbackStatus{FeedbackNew, FeedbackReviewing, FeedbackResolved} {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown feedback status %q", s)
}

// Feedback is a message left through the contact form.
type Feedback struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Kind      FeedbackKind   `json:"type"`
	Message   string         `json:"message"`
	Status    FeedbackStatus `json:"status"`
	CreatedAt time.Time      `json:"date"`
}
