package session

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andeanfly/flightdesk/booking"
	"github.com/andeanfly/flightdesk/domain"
	"github.com/andeanfly/flightdesk/storage"
)

type fetcherFunc func(ctx context.Context) (*domain.UserProfile, error)

func (f fetcherFunc) Profile(ctx context.Context) (*domain.UserProfile, error) { return f(ctx) }

func newTestSession(t *testing.T) (*Store, *storage.Store, *[]string) {
	t.Helper()
	st, err := storage.Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	var notices []string
	var mu sync.Mutex
	notify := NotifierFunc(func(message string) {
		mu.Lock()
		defer mu.Unlock()
		notices = append(notices, message)
	})
	return New(st, notify, nil), st, &notices
}

func TestSession_LoginLifecycle(t *testing.T) {
	sess, st, _ := newTestSession(t)
	assert.Equal(t, StateAnonymous, sess.State())

	sess.SetProfileFetcher(fetcherFunc(func(ctx context.Context) (*domain.UserProfile, error) {
		return &domain.UserProfile{ID: "u1", Email: "ana@example.com"}, nil
	}))

	require.NoError(t, sess.SetTokens(context.Background(), "access", "id"))
	assert.Equal(t, StateAuthenticating, sess.State())

	// Token must already be durable before the profile fetch runs.
	token, err := st.AccessToken()
	require.NoError(t, err)
	assert.Equal(t, "access", token)

	user, err := sess.LoadProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, StateAuthenticated, sess.State())
	assert.True(t, sess.IsAuthenticated())

	snap, err := st.LoadSnapshot()
	require.NoError(t, err)
	assert.True(t, snap.IsAuthenticated)
	require.NotNil(t, snap.User)
	assert.Equal(t, "u1", snap.User.ID)
}

func TestSession_ProfileFailureResetsAtomically(t *testing.T) {
	sess, st, _ := newTestSession(t)
	sess.SetProfileFetcher(fetcherFunc(func(ctx context.Context) (*domain.UserProfile, error) {
		return nil, errors.New("backend down")
	}))

	require.NoError(t, sess.SetTokens(context.Background(), "access", ""))

	_, err := sess.LoadProfile(context.Background())
	require.Error(t, err)

	assert.Equal(t, StateAnonymous, sess.State())
	assert.Nil(t, sess.User())
	token, err := st.AccessToken()
	require.NoError(t, err)
	assert.Empty(t, token, "failed auth must not leave tokens behind")
}

func TestSession_LogoutClearsEverything(t *testing.T) {
	sess, st, _ := newTestSession(t)
	sess.SetProfileFetcher(fetcherFunc(func(ctx context.Context) (*domain.UserProfile, error) {
		return &domain.UserProfile{ID: "u1"}, nil
	}))
	require.NoError(t, sess.SetTokens(context.Background(), "access", ""))
	_, err := sess.LoadProfile(context.Background())
	require.NoError(t, err)

	require.NoError(t, sess.Logout(context.Background()))

	assert.Equal(t, StateAnonymous, sess.State())
	assert.Nil(t, sess.User())
	token, err := st.AccessToken()
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestSession_ConcurrentUnauthorizedSingleNotice(t *testing.T) {
	sess, _, notices := newTestSession(t)
	sess.SetProfileFetcher(fetcherFunc(func(ctx context.Context) (*domain.UserProfile, error) {
		return &domain.UserProfile{ID: "u1"}, nil
	}))
	require.NoError(t, sess.SetTokens(context.Background(), "access", ""))
	_, err := sess.LoadProfile(context.Background())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sess.HandleUnauthorized()
		}()
	}
	wg.Wait()

	require.Len(t, *notices, 1, "many concurrent 401s, exactly one notice")
	assert.Equal(t, ExpiredNotice, (*notices)[0])
	assert.Equal(t, StateAnonymous, sess.State())
}

func TestSession_NoticeLatchResetsOnNextLogin(t *testing.T) {
	sess, _, notices := newTestSession(t)
	sess.SetProfileFetcher(fetcherFunc(func(ctx context.Context) (*domain.UserProfile, error) {
		return &domain.UserProfile{ID: "u1"}, nil
	}))

	sess.HandleUnauthorized()
	require.Len(t, *notices, 1)

	require.NoError(t, sess.SetTokens(context.Background(), "fresh", ""))
	sess.HandleUnauthorized()
	assert.Len(t, *notices, 2, "a new login re-arms the expiry notice")
}

func TestSession_LogoutLeavesBookingDraftIntact(t *testing.T) {
	sess, _, _ := newTestSession(t)
	sess.SetProfileFetcher(fetcherFunc(func(ctx context.Context) (*domain.UserProfile, error) {
		return &domain.UserProfile{ID: "u1"}, nil
	}))
	require.NoError(t, sess.SetTokens(context.Background(), "access", ""))
	_, err := sess.LoadProfile(context.Background())
	require.NoError(t, err)

	draft := booking.NewDraft()
	draft.SelectFlight(domain.Flight{ID: "f1", CurrentPrice: 100})
	require.NoError(t, draft.ToggleSeat(domain.Seat{SeatNumber: "12A", Status: domain.SeatAvailable}))

	require.NoError(t, sess.Logout(context.Background()))

	assert.Equal(t, StateAnonymous, sess.State())
	require.NotNil(t, draft.Flight(), "logout clears the session, never the draft")
	assert.Equal(t, "f1", draft.Flight().ID)
	require.Len(t, draft.Seats(), 1)
	assert.Equal(t, "12A", draft.Seats()[0].SeatNumber)
}

func TestSession_RestoreFromSnapshot(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "state.db")

	liveToken := signToken(t, jwt.MapClaims{"sub": "u1", "exp": time.Now().Add(time.Hour).Unix()})
	st, err := storage.Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, st.SetTokens(liveToken, ""))
	require.NoError(t, st.SaveSnapshot(storage.Snapshot{
		IsAuthenticated: true,
		User:            &domain.UserProfile{ID: "u1"},
	}))
	require.NoError(t, st.Close())

	st, err = storage.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	sess := New(st, nil, nil)
	require.NoError(t, sess.Restore())
	assert.True(t, sess.IsAuthenticated())
	require.NotNil(t, sess.User())
	assert.Equal(t, "u1", sess.User().ID)
}

func TestSession_RestoreExpiredTokenClearsSession(t *testing.T) {
	sess, st, _ := newTestSession(t)
	staleToken := signToken(t, jwt.MapClaims{"sub": "u1", "exp": time.Now().Add(-time.Minute).Unix()})
	require.NoError(t, st.SetTokens(staleToken, ""))
	require.NoError(t, st.SaveSnapshot(storage.Snapshot{
		IsAuthenticated: true,
		User:            &domain.UserProfile{ID: "u1"},
	}))

	require.NoError(t, sess.Restore())
	assert.Equal(t, StateAnonymous, sess.State(),
		"a stored token past its exp claim must not restore")
	assert.Nil(t, sess.User())
	token, err := st.AccessToken()
	require.NoError(t, err)
	assert.Empty(t, token, "the dead token is cleared, not kept")
}

func TestSession_RestoreWithoutTokenStaysAnonymous(t *testing.T) {
	sess, st, _ := newTestSession(t)
	require.NoError(t, st.SaveSnapshot(storage.Snapshot{IsAuthenticated: true}))

	require.NoError(t, sess.Restore())
	assert.Equal(t, StateAnonymous, sess.State(),
		"a snapshot without stored tokens must not restore")
}
