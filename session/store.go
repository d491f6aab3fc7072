// Package session holds the client-side authentication state machine:
// ANONYMOUS -> AUTHENTICATING -> AUTHENTICATED, and back to ANONYMOUS on
// logout or auth failure. Tokens live in durable storage; only the minimal
// snapshot (authenticated flag and user profile) survives a restart.
package session

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/andeanfly/flightdesk/domain"
	"github.com/andeanfly/flightdesk/log"
	"github.com/andeanfly/flightdesk/storage"
)

// State is the session lifecycle state.
type State int

const (
	StateAnonymous State = iota
	StateAuthenticating
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAuthenticating:
		return "AUTHENTICATING"
	case StateAuthenticated:
		return "AUTHENTICATED"
	default:
		return "ANONYMOUS"
	}
}

// ExpiredNotice is the single message shown when a 401 clears the session.
const ExpiredNotice = "Your session has expired. Please sign in again."

// ProfileFetcher loads the current user's profile from the backend. The
// implementation reads the token from durable storage via the HTTP
// wrapper, which is why SetTokens must durably persist before LoadProfile
// is called.
type ProfileFetcher interface {
	Profile(ctx context.Context) (*domain.UserProfile, error)
}

// Notifier surfaces a transient, dismissible user notification.
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(message string)

func (f NotifierFunc) Notify(message string) { f(message) }

// Store is the session state container. Instances are dependency-injected
// rather than ambient singletons so tests can run isolated sessions.
type Store struct {
	mu      sync.Mutex
	state   State
	user    *domain.UserProfile
	storage *storage.Store
	fetcher ProfileFetcher
	notify  Notifier
	logger  log.Logger
	now     func() time.Time

	// expiredNotified latches the session-expired notice: many concurrent
	// requests may all receive 401, the user sees exactly one message.
	expiredNotified atomic.Bool
}

// New creates a session store over the given durable storage. The profile
// fetcher is injected later via SetProfileFetcher because the API client
// that implements it is itself built on top of this store's 401 hook.
func New(st *storage.Store, notify Notifier, logger log.Logger) *Store {
	if notify == nil {
		notify = NotifierFunc(func(string) {})
	}
	if logger == nil {
		logger = log.Nop()
	}
	return &Store{
		state:   StateAnonymous,
		storage: st,
		notify:  notify,
		logger:  logger,
		now:     time.Now,
	}
}

// SetProfileFetcher wires in the API client used by LoadProfile.
func (s *Store) SetProfileFetcher(f ProfileFetcher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetcher = f
}

// State returns the current lifecycle state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// IsAuthenticated reports whether a profile fetch has succeeded for the
// current tokens.
func (s *Store) IsAuthenticated() bool {
	return s.State() == StateAuthenticated
}

// User returns the loaded profile, or nil outside AUTHENTICATED.
func (s *Store) User() *domain.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// SetTokens persists the credentials extracted from a redirect callback.
// The durable write completes before this returns, so the dependent
// profile fetch always finds the token in storage.
func (s *Store) SetTokens(ctx context.Context, accessToken, idToken string) error {
	if err := s.storage.SetTokens(accessToken, idToken); err != nil {
		return fmt.Errorf("failed to persist tokens: %w", err)
	}
	s.mu.Lock()
	s.state = StateAuthenticating
	s.mu.Unlock()
	s.expiredNotified.Store(false)
	s.logger.Debug(ctx, "tokens persisted, session authenticating")
	return nil
}

// LoadProfile fetches the user profile and completes the transition to
// AUTHENTICATED. Any failure resets the whole session atomically: no
// half-authenticated state persists.
func (s *Store) LoadProfile(ctx context.Context) (*domain.UserProfile, error) {
	s.mu.Lock()
	fetcher := s.fetcher
	s.mu.Unlock()
	if fetcher == nil {
		return nil, fmt.Errorf("no profile fetcher configured")
	}

	user, err := fetcher.Profile(ctx)
	if err != nil {
		s.reset()
		s.logger.Error(ctx, "profile load failed, session cleared", err)
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	s.mu.Lock()
	s.user = user
	s.state = StateAuthenticated
	s.mu.Unlock()

	if err := s.storage.SaveSnapshot(storage.Snapshot{IsAuthenticated: true, User: user}); err != nil {
		s.logger.Warn(ctx, "failed to persist session snapshot", map[string]interface{}{"error": err.Error()})
	}
	s.logger.Info(ctx, "session authenticated", map[string]interface{}{"user": user.Email})
	return user, nil
}

// Logout destroys the session in memory and in durable storage. It does
// not touch any other store: booking drafts and session lifecycles are
// independent.
func (s *Store) Logout(ctx context.Context) error {
	s.reset()
	s.logger.Info(ctx, "session logged out")
	return nil
}

// HandleUnauthorized is the 401 recovery hook installed on the HTTP
// wrapper. It is idempotent: concurrent requests that each receive 401
// clear the session once and show the expiry notice once.
func (s *Store) HandleUnauthorized() {
	if !s.expiredNotified.CompareAndSwap(false, true) {
		return
	}
	s.reset()
	s.notify.Notify(ExpiredNotice)
}

// Restore loads the persisted snapshot at startup. A stored token whose
// exp claim has passed is dead weight: the session is cleared instead of
// restored, so the user sees ANONYMOUS rather than a doomed authenticated
// state. The restored state is still provisional: the next profile-load
// failure resets it.
func (s *Store) Restore() error {
	snap, err := s.storage.LoadSnapshot()
	if err != nil {
		return err
	}
	token, err := s.storage.AccessToken()
	if err != nil {
		return err
	}
	if !snap.IsAuthenticated || token == "" {
		return nil
	}
	if TokenExpired(token, s.now()) {
		s.reset()
		return nil
	}
	s.mu.Lock()
	s.user = snap.User
	s.state = StateAuthenticated
	s.mu.Unlock()
	return nil
}

// reset clears memory and durable storage together. isAuthenticated, the
// user, and the tokens always change as one unit.
func (s *Store) reset() {
	s.mu.Lock()
	s.user = nil
	s.state = StateAnonymous
	s.mu.Unlock()
	if err := s.storage.Clear(); err != nil {
		s.logger.Warn(context.Background(), "failed to clear session storage", map[string]interface{}{"error": err.Error()})
	}
}
