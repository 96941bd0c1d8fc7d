package ports

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/Apurer/breedmatch-api/internal/domains/breeds/search"
)

// ErrSessionNotFound signals an unknown or expired search session.
var ErrSessionNotFound = errors.New("search session not found")

// Session is one live search pipeline owned by a client.
type Session struct {
	ID       string
	Pipeline *search.Pipeline
	OpenedAt time.Time

	lastActive atomic.Int64
}

// NewSession wraps a pipeline opened at now.
func NewSession(id string, pipeline *search.Pipeline, now time.Time) *Session {
	s := &Session{ID: id, Pipeline: pipeline, OpenedAt: now}
	s.Touch(now)
	return s
}

// Touch records client activity.
func (s *Session) Touch(at time.Time) {
	s.lastActive.Store(at.UnixNano())
}

// LastActive returns the time of the latest Touch.
func (s *Session) LastActive() time.Time {
	return time.Unix(0, s.lastActive.Load())
}

// SessionStore keeps live sessions. Stores never close pipelines; the owner of a
// removed session does.
type SessionStore interface {
	Save(ctx context.Context, session *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	// Delete removes and returns the session.
	Delete(ctx context.Context, id string) (*Session, error)
	// PurgeIdle removes and returns every session inactive since before cutoff.
	PurgeIdle(ctx context.Context, cutoff time.Time) ([]*Session, error)
	// DeleteAll removes and returns every session.
	DeleteAll(ctx context.Context) ([]*Session, error)
	Len(ctx context.Context) (int, error)
}
