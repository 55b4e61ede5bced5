package repository

import (
	"context"
	"time"

	"github.com/Ajaya-Rajbhandari/Growth-Companion-SDLC-sub000/internal/types"
)

// SessionRepository is the persistence gateway for work sessions. The
// state machine calls it synchronously and only applies local state after
// the gateway call succeeds; every failure surfaces as a classified
// tracker error with in-memory state untouched.
type SessionRepository interface {
	// Session lifecycle
	CreateSession(ctx context.Context, session *types.WorkSession) error
	UpdateSession(ctx context.Context, session *types.WorkSession) error
	DeleteSession(ctx context.Context, id string) error

	// Lookups
	GetSession(ctx context.Context, id string) (*types.WorkSession, error)
	GetOpenSession(ctx context.Context, userID string) (*types.WorkSession, error)
	ListSessionsForUser(ctx context.Context, userID string, from, to time.Time) ([]types.WorkSession, error)
	CountSessionsForDay(ctx context.Context, userID string, day time.Time) (int, error)

	// Transaction support
	WithTransaction(ctx context.Context, fn func(repo SessionRepository) error) error
}
