package services

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-sentiment-backend/internal/quota"
)

// Registration is the outcome of SessionService.Register.
type Registration struct {
	Message   string
	Remaining int
	Returning bool
}

// SessionService exposes nickname registration and token balance lookups.
type SessionService struct {
	Quota *quota.Tracker
}

// Register creates a quota entry for nickname, or greets a returning one
// with its balance.
func (s *SessionService) Register(ctx context.Context, nickname string) (*Registration, error) {
	_, span := otel.Tracer("services/SessionService").Start(ctx, "Register",
		trace.WithAttributes(attribute.String("nickname", nickname)),
	)
	defer span.End()

	if strings.TrimSpace(nickname) == "" {
		return nil, ErrEmptyNickname
	}
	existed, left := s.Quota.Register(nickname)
	if existed {
		return &Registration{
			Message:   fmt.Sprintf("Welcome back %s! You have %d tokens remaining.", nickname, left),
			Remaining: left,
			Returning: true,
		}, nil
	}
	return &Registration{
		Message:   fmt.Sprintf("Welcome %s! You have %d tokens to use.", nickname, s.Quota.Max()),
		Remaining: left,
	}, nil
}

// Remaining returns the balance for nickname, creating the entry if needed.
func (s *SessionService) Remaining(ctx context.Context, nickname string) int {
	_, span := otel.Tracer("services/SessionService").Start(ctx, "Remaining",
		trace.WithAttributes(attribute.String("nickname", nickname)),
	)
	defer span.End()
	return s.Quota.Remaining(nickname)
}
