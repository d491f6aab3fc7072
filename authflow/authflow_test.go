package authflow

import (
	"context"
	"errors"
	"net/url"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andeanfly/flightdesk/domain"
	"github.com/andeanfly/flightdesk/session"
	"github.com/andeanfly/flightdesk/storage"
)

func TestAuthorizeURL(t *testing.T) {
	cfg := Config{
		Domain:      "tenant.auth0.com",
		ClientID:    "client-1",
		RedirectURI: "http://127.0.0.1:4242/callback",
		Audience:    "https://api.example.com",
	}
	raw := cfg.AuthorizeURL("state-1", "nonce-1")

	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "tenant.auth0.com", parsed.Host)
	assert.Equal(t, "/authorize", parsed.Path)

	q := parsed.Query()
	assert.Equal(t, "token id_token", q.Get("response_type"))
	assert.Equal(t, "client-1", q.Get("client_id"))
	assert.Equal(t, "http://127.0.0.1:4242/callback", q.Get("redirect_uri"))
	assert.Equal(t, "openid profile email", q.Get("scope"))
	assert.Equal(t, "state-1", q.Get("state"))
	assert.Equal(t, "nonce-1", q.Get("nonce"))
	assert.Equal(t, "https://api.example.com", q.Get("audience"))
	assert.Empty(t, q.Get("screen_hint"))
}

func TestSignupURLAddsScreenHint(t *testing.T) {
	cfg := Config{Domain: "tenant.auth0.com", ClientID: "client-1"}
	parsed, err := url.Parse(cfg.SignupURL("s", "n"))
	require.NoError(t, err)
	assert.Equal(t, "signup", parsed.Query().Get("screen_hint"))
}

func TestLogoutURL(t *testing.T) {
	cfg := Config{Domain: "tenant.auth0.com", ClientID: "client-1"}
	assert.Equal(t,
		"https://tenant.auth0.com/v2/logout?client_id=client-1&returnTo=http://localhost",
		cfg.LogoutURL("http://localhost"))
}

func TestParseFragment(t *testing.T) {
	cb, err := ParseFragment("#access_token=at&id_token=it&token_type=Bearer&expires_in=7200&state=s1")
	require.NoError(t, err)
	assert.Equal(t, "at", cb.AccessToken)
	assert.Equal(t, "it", cb.IDToken)
	assert.Equal(t, "Bearer", cb.TokenType)
	assert.Equal(t, 7200, cb.ExpiresIn)
	assert.Equal(t, "s1", cb.State)
}

func TestParseFragment_ProviderError(t *testing.T) {
	cb, err := ParseFragment("error=access_denied&error_description=User%20cancelled")
	require.NoError(t, err)
	assert.Equal(t, "access_denied", cb.Error)
	assert.Equal(t, "User cancelled", cb.ErrorDescription)
}

type fetcherFunc func(ctx context.Context) (*domain.UserProfile, error)

func (f fetcherFunc) Profile(ctx context.Context) (*domain.UserProfile, error) { return f(ctx) }

func newTestSession(t *testing.T, fetcher session.ProfileFetcher) (*session.Store, *storage.Store) {
	t.Helper()
	st, err := storage.Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	sess := session.New(st, nil, nil)
	sess.SetProfileFetcher(fetcher)
	return sess, st
}

func TestExchange_Succeeds(t *testing.T) {
	sess, st := newTestSession(t, fetcherFunc(func(ctx context.Context) (*domain.UserProfile, error) {
		return &domain.UserProfile{ID: "u1", Email: "ana@example.com"}, nil
	}))

	ex := NewExchanger(sess, "state-1")
	user, err := ex.Exchange(context.Background(), "#access_token=at&id_token=it&state=state-1")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.True(t, sess.IsAuthenticated())

	token, err := st.AccessToken()
	require.NoError(t, err)
	assert.Equal(t, "at", token)
}

func TestExchange_SecondDeliveryRejected(t *testing.T) {
	sess, _ := newTestSession(t, fetcherFunc(func(ctx context.Context) (*domain.UserProfile, error) {
		return &domain.UserProfile{ID: "u1"}, nil
	}))

	ex := NewExchanger(sess, "state-1")
	fragment := "#access_token=at&state=state-1"
	_, err := ex.Exchange(context.Background(), fragment)
	require.NoError(t, err)

	_, err = ex.Exchange(context.Background(), fragment)
	assert.ErrorIs(t, err, ErrAlreadyProcessed)
}

func TestExchange_ConcurrentDeliveriesOneWins(t *testing.T) {
	sess, _ := newTestSession(t, fetcherFunc(func(ctx context.Context) (*domain.UserProfile, error) {
		return &domain.UserProfile{ID: "u1"}, nil
	}))

	ex := NewExchanger(sess, "")
	fragment := "#access_token=at"

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = ex.Exchange(context.Background(), fragment)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrAlreadyProcessed)
		}
	}
	assert.Equal(t, 1, succeeded)
}

func TestExchange_ProviderErrorAbortsBeforeStorage(t *testing.T) {
	called := false
	sess, st := newTestSession(t, fetcherFunc(func(ctx context.Context) (*domain.UserProfile, error) {
		called = true
		return &domain.UserProfile{ID: "u1"}, nil
	}))

	ex := NewExchanger(sess, "state-1")
	_, err := ex.Exchange(context.Background(), "error=access_denied&error_description=User%20cancelled")

	var idpErr *IdPError
	require.ErrorAs(t, err, &idpErr)
	assert.Equal(t, "User cancelled", idpErr.Error())
	assert.False(t, called, "no profile fetch after a provider error")

	token, tokenErr := st.AccessToken()
	require.NoError(t, tokenErr)
	assert.Empty(t, token, "nothing stored after a provider error")
	assert.False(t, sess.IsAuthenticated())
}

func TestExchange_StateMismatch(t *testing.T) {
	sess, _ := newTestSession(t, fetcherFunc(func(ctx context.Context) (*domain.UserProfile, error) {
		return &domain.UserProfile{ID: "u1"}, nil
	}))

	ex := NewExchanger(sess, "expected")
	_, err := ex.Exchange(context.Background(), "#access_token=at&state=forged")
	assert.ErrorIs(t, err, ErrStateMismatch)
}

func TestExchange_ProfileFailureUnwindsSession(t *testing.T) {
	sess, st := newTestSession(t, fetcherFunc(func(ctx context.Context) (*domain.UserProfile, error) {
		return nil, errors.New("introspection failed")
	}))

	ex := NewExchanger(sess, "")
	_, err := ex.Exchange(context.Background(), "#access_token=at")
	require.Error(t, err)

	assert.False(t, sess.IsAuthenticated())
	token, tokenErr := st.AccessToken()
	require.NoError(t, tokenErr)
	assert.Empty(t, token, "failed exchange leaves no tokens behind")
}
