package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/avstrong/canchalibre/internal/booking"
	"github.com/avstrong/canchalibre/internal/logger"
)

type Config struct {
	L *logger.Logger
	// TTL is how long an untouched session lives. Zero keeps sessions forever.
	TTL time.Duration
	Now func() time.Time
}

type entry struct {
	session booking.Session
	expires time.Time
}

// DB keeps sessions in process memory. Every read returns a copy, so callers
// must Save to publish changes.
type DB struct {
	mu       sync.Mutex
	l        *logger.Logger
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]*entry
}

func New(conf Config) *DB {
	now := conf.Now
	if now == nil {
		now = time.Now
	}

	//nolint:exhaustruct
	return &DB{
		l:        conf.L,
		ttl:      conf.TTL,
		now:      now,
		sessions: make(map[string]*entry),
	}
}

func (db *DB) expired(e *entry, at time.Time) bool {
	return db.ttl > 0 && !at.Before(e.expires)
}

func (db *DB) Get(_ context.Context, id string) (*booking.Session, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	e, ok := db.sessions[id]
	if !ok {
		return nil, booking.ErrSessionNotFound
	}

	if db.expired(e, db.now()) {
		delete(db.sessions, id)

		return nil, booking.ErrSessionNotFound
	}

	s := clone(e.session)

	return &s, nil
}

func (db *DB) Save(_ context.Context, s *booking.Session) error {
	if s == nil || s.ID == "" {
		return ErrEmptySessionID
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	db.sessions[s.ID] = &entry{session: clone(*s), expires: db.now().Add(db.ttl)}

	return nil
}

func (db *DB) Delete(_ context.Context, id string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	delete(db.sessions, id)

	return nil
}

// Sweep drops expired sessions and reports how many were removed.
func (db *DB) Sweep() int {
	db.mu.Lock()
	defer db.mu.Unlock()

	at := db.now()
	removed := 0

	for id, e := range db.sessions {
		if db.expired(e, at) {
			delete(db.sessions, id)
			removed++
		}
	}

	return removed
}

// Run sweeps every interval until ctx is done.
func (db *DB) Run(ctx context.Context, every time.Duration) {
	if db.ttl <= 0 || every <= 0 {
		return
	}

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := db.Sweep(); n > 0 {
				db.l.LogDebugf("Swept %d expired sessions", n)
			}
		}
	}
}

func (db *DB) String() string {
	db.mu.Lock()
	defer db.mu.Unlock()

	return fmt.Sprintf("memory session store (%d sessions, ttl %s)", len(db.sessions), db.ttl)
}

// clone copies the pointer fields so stored sessions never alias caller state.
func clone(s booking.Session) booking.Session {
	if s.Selected != nil {
		sel := *s.Selected
		s.Selected = &sel
	}

	if s.Club != nil {
		cs := *s.Club
		s.Club = &cs
	}

	if s.LastSearch != nil {
		t := *s.LastSearch
		s.LastSearch = &t
	}

	if s.Warnings != nil {
		s.Warnings = append([]string(nil), s.Warnings...)
	}

	return s
}
