package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Apurer/breedmatch-api/internal/domains/breeds/ports"
)

var _ ports.SessionStore = (*SessionStore)(nil)

// SessionStore is an in-memory SessionStore implementation.
type SessionStore struct {
	sessions sync.Map
}

func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

func (s *SessionStore) Save(_ context.Context, session *ports.Session) error {
	s.sessions.Store(session.ID, session)
	return nil
}

func (s *SessionStore) Get(_ context.Context, id string) (*ports.Session, error) {
	value, ok := s.sessions.Load(id)
	if !ok {
		return nil, ports.ErrSessionNotFound
	}
	return value.(*ports.Session), nil
}

func (s *SessionStore) Delete(_ context.Context, id string) (*ports.Session, error) {
	value, ok := s.sessions.LoadAndDelete(id)
	if !ok {
		return nil, ports.ErrSessionNotFound
	}
	return value.(*ports.Session), nil
}

// PurgeIdle removes sessions whose last activity is before cutoff.
func (s *SessionStore) PurgeIdle(_ context.Context, cutoff time.Time) ([]*ports.Session, error) {
	var purged []*ports.Session
	s.sessions.Range(func(key, value any) bool {
		session := value.(*ports.Session)
		if session.LastActive().Before(cutoff) {
			if _, loaded := s.sessions.LoadAndDelete(key); loaded {
				purged = append(purged, session)
			}
		}
		return true
	})
	return purged, nil
}

func (s *SessionStore) DeleteAll(_ context.Context) ([]*ports.Session, error) {
	var drained []*ports.Session
	s.sessions.Range(func(key, _ any) bool {
		if value, loaded := s.sessions.LoadAndDelete(key); loaded {
			drained = append(drained, value.(*ports.Session))
		}
		return true
	})
	return drained, nil
}

func (s *SessionStore) Len(_ context.Context) (int, error) {
	n := 0
	s.sessions.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n, nil
}
