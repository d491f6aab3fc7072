package authflow

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/andeanfly/flightdesk/domain"
	"github.com/andeanfly/flightdesk/session"
)

// ErrAlreadyProcessed is returned when the same redirect fragment is
// handed to an Exchanger a second time. The one-shot latch exists because
// the stale fragment can outlive the first exchange.
var ErrAlreadyProcessed = errors.New("redirect callback already processed")

// ErrStateMismatch is returned when the state echoed by the provider does
// not match the one generated for this login attempt.
var ErrStateMismatch = errors.New("authorization state mismatch")

// IdPError is a failure reported by the identity provider through the
// redirect parameters. It is shown verbatim and aborts the login: no
// profile fetch, no partial session.
type IdPError struct {
	Code        string
	Description string
}

func (e *IdPError) Error() string {
	if e.Description != "" {
		return e.Description
	}
	return e.Code
}

// Callback is the parsed redirect fragment.
type Callback struct {
	AccessToken      string
	IDToken          string
	TokenType        string
	ExpiresIn        int
	State            string
	Error            string
	ErrorDescription string
}

// ParseFragment parses the fragment portion of the redirect URI. The
// provider encodes it as query parameters after the '#'.
func ParseFragment(fragment string) (Callback, error) {
	values, err := url.ParseQuery(strings.TrimPrefix(fragment, "#"))
	if err != nil {
		return Callback{}, fmt.Errorf("malformed redirect fragment: %w", err)
	}
	cb := Callback{
		AccessToken:      values.Get("access_token"),
		IDToken:          values.Get("id_token"),
		TokenType:        values.Get("token_type"),
		State:            values.Get("state"),
		Error:            values.Get("error"),
		ErrorDescription: values.Get("error_description"),
	}
	if raw := values.Get("expires_in"); raw != "" {
		cb.ExpiresIn, _ = strconv.Atoi(raw)
	}
	return cb, nil
}

// Exchanger turns one redirect callback into an application session. Each
// login attempt gets its own Exchanger carrying that attempt's expected
// state value.
type Exchanger struct {
	session       *session.Store
	expectedState string
	processed     atomic.Bool
}

// NewExchanger creates an exchanger bound to the session store and the
// state value issued for this login attempt.
func NewExchanger(sess *session.Store, expectedState string) *Exchanger {
	return &Exchanger{session: sess, expectedState: expectedState}
}

// Exchange processes the redirect fragment: persist the token durably,
// then fetch the profile. Re-entry with the same fragment is a no-op
// error, provider errors abort before anything is stored, and a failed
// profile fetch fully unwinds the session.
func (e *Exchanger) Exchange(ctx context.Context, fragment string) (*domain.UserProfile, error) {
	if !e.processed.CompareAndSwap(false, true) {
		return nil, ErrAlreadyProcessed
	}

	cb, err := ParseFragment(fragment)
	if err != nil {
		return nil, err
	}
	if cb.Error != "" {
		return nil, &IdPError{Code: cb.Error, Description: cb.ErrorDescription}
	}
	if e.expectedState != "" && cb.State != e.expectedState {
		return nil, ErrStateMismatch
	}
	if cb.AccessToken == "" {
		return nil, errors.New("redirect fragment carries no access token")
	}

	// Token persistence is durable before the profile fetch goes out: the
	// fetch reads the token from storage, not from memory.
	if err := e.session.SetTokens(ctx, cb.AccessToken, cb.IDToken); err != nil {
		return nil, err
	}
	return e.session.LoadProfile(ctx)
}
