package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/torrejon/vecinored/internal/repository"
)

// Store owns the single process-wide user session. It is read once from
// storage by Init and cleared only by a confirmed logout.
type Store struct {
	storage Storage
	auth    Authenticator
	clock   Clock
	window  time.Duration
	logger  *slog.Logger

	mu      sync.Mutex
	current *UserSession
	armedAt time.Time
	isArmed bool
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source.
func WithClock(c Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithLogoutWindow overrides the logout confirmation window.
func WithLogoutWindow(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.window = d
		}
	}
}

// NewStore creates a session store.
func NewStore(storage Storage, auth Authenticator, logger *slog.Logger, opts ...Option) *Store {
	s := &Store{
		storage: storage,
		auth:    auth,
		clock:   systemClock{},
		window:  DefaultLogoutWindow,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init loads the persisted session, if any.
func (s *Store) Init(ctx context.Context) error {
	data, err := s.storage.Get(ctx, StorageKey)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("reading session: %w", err)
	}

	var us UserSession
	if err := json.Unmarshal(data, &us); err != nil {
		// A corrupt entry is treated as logged out.
		if s.logger != nil {
			s.logger.Warn("discarding unreadable session", "error", err)
		}
		return nil
	}

	s.mu.Lock()
	s.current = &us
	s.mu.Unlock()
	return nil
}

// Login authenticates and persists the session verbatim.
func (s *Store) Login(ctx context.Context, creds Credentials) (*UserSession, error) {
	us, err := s.auth.Login(ctx, creds)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(us)
	if err != nil {
		return nil, fmt.Errorf("encoding session: %w", err)
	}
	if err := s.storage.Put(ctx, StorageKey, data); err != nil {
		return nil, fmt.Errorf("writing session: %w", err)
	}

	s.mu.Lock()
	s.current = us
	s.isArmed = false
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Info("user logged in", "name", us.Name)
	}
	copied := *us
	return &copied, nil
}

// Current returns the logged-in user.
func (s *Store) Current() (UserSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return UserSession{}, false
	}
	return *s.current, true
}

// RequestLogout implements the two-step confirmation. The first call arms
// the window; a second call before it elapses clears the session.
func (s *Store) RequestLogout(ctx context.Context) (LogoutState, error) {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return "", ErrNoSession
	}
	if !s.armedLocked() {
		s.isArmed = true
		s.armedAt = s.clock.Now()
		s.mu.Unlock()
		return LogoutArmed, nil
	}
	ending := s.current
	s.isArmed = false
	s.mu.Unlock()

	if err := s.storage.Delete(ctx, StorageKey); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return "", fmt.Errorf("clearing session: %w", err)
	}

	// A login that landed during Delete owns the session now.
	s.mu.Lock()
	if s.current == ending {
		s.current = nil
		s.isArmed = false
	}
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Info("user logged out", "name", ending.Name)
	}
	return LoggedOut, nil
}

// LogoutPending reports whether a logout is armed and awaiting confirmation.
func (s *Store) LogoutPending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.armedLocked()
}

func (s *Store) armedLocked() bool {
	if !s.isArmed {
		return false
	}
	if s.clock.Now().Sub(s.armedAt) >= s.window {
		s.isArmed = false
	}
	return s.isArmed
}
