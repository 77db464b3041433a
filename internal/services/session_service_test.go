package services

import (
	"context"
	"errors"
	"testing"

	"github.com/tbourn/go-sentiment-backend/internal/quota"
)

func TestSessionService_Register(t *testing.T) {
	s := &SessionService{Quota: quota.NewTracker(10)}
	ctx := context.Background()

	reg, err := s.Register(ctx, "alice")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if reg.Message != "Welcome alice! You have 10 tokens to use." || reg.Remaining != 10 || reg.Returning {
		t.Fatalf("new user: %+v", reg)
	}

	s.Quota.UseToken("alice")
	s.Quota.UseToken("alice")

	reg, err = s.Register(ctx, "alice")
	if err != nil {
		t.Fatalf("Register again: %v", err)
	}
	if reg.Message != "Welcome back alice! You have 8 tokens remaining." || !reg.Returning {
		t.Fatalf("returning user: %+v", reg)
	}
}

func TestSessionService_RegisterBlank(t *testing.T) {
	s := &SessionService{Quota: quota.NewTracker(10)}
	if _, err := s.Register(context.Background(), "  \t"); !errors.Is(err, ErrEmptyNickname) {
		t.Fatalf("err=%v want ErrEmptyNickname", err)
	}
}

func TestSessionService_Remaining(t *testing.T) {
	s := &SessionService{Quota: quota.NewTracker(4)}
	if got := s.Remaining(context.Background(), "nobody"); got != 4 {
		t.Fatalf("Remaining=%d want 4", got)
	}
}
