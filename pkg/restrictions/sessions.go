package restrictions

import (
	"context"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/google/uuid"
)

// Sessions keeps open settings forms, each identified by a random id.
// Sessions not touched for longer than ttl are removed by Sweep.
type Sessions struct {
	ttl time.Duration
	now func() time.Time

	mu    sync.Mutex
	items map[string]*session
}

type session struct {
	form    *Form
	profile string
	touched time.Time
}

// NewSessions makes an empty session registry
func NewSessions(ttl time.Duration) *Sessions {
	return &Sessions{ttl: ttl, now: time.Now, items: map[string]*session{}}
}

// Open registers the form for profile and returns the session id
func (s *Sessions) Open(profile string, form *Form) string {
	id := uuid.NewString()
	s.mu.Lock()
	s.items[id] = &session{form: form, profile: profile, touched: s.now()}
	s.mu.Unlock()
	return id
}

// Get returns the form and profile of an open session and extends its lifetime
func (s *Sessions) Get(id string) (form *Form, profile string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.items[id]
	if !ok {
		return nil, "", false
	}
	sess.touched = s.now()
	return sess.form, sess.profile, true
}

// Close removes the session
func (s *Sessions) Close(id string) {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
}

// Len returns number of open sessions
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Sweep removes expired sessions and returns how many were removed
func (s *Sessions) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, sess := range s.items {
		if s.now().Sub(sess.touched) > s.ttl {
			delete(s.items, id)
			removed++
		}
	}
	return removed
}

// Run sweeps expired sessions every interval until ctx is done
func (s *Sessions) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				lgr.Printf("[DEBUG] removed %d expired settings sessions", n)
			}
		}
	}
}
