// Package authflow implements the client's side of the redirect-based
// login: building the identity provider's authorization URL, receiving the
// redirect on a loopback listener, and exchanging the returned fragment
// for an application session.
package authflow

import (
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// DefaultScopes are requested when the config does not override them.
var DefaultScopes = []string{"openid", "profile", "email"}

// Config describes the external identity provider. The flow is implicit:
// tokens come back directly in the redirect URI fragment.
type Config struct {
	Domain      string
	ClientID    string
	RedirectURI string
	Audience    string
	Scopes      []string
}

func (c Config) oauth2Config() *oauth2.Config {
	scopes := c.Scopes
	if len(scopes) == 0 {
		scopes = DefaultScopes
	}
	return &oauth2.Config{
		ClientID:    c.ClientID,
		RedirectURL: c.RedirectURI,
		Scopes:      scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL: "https://" + c.Domain + "/authorize",
		},
	}
}

// AuthorizeURL builds the authorization URL for the implicit flow. state
// and nonce are generated client-side and checked against what the
// provider echoes back.
func (c Config) AuthorizeURL(state, nonce string) string {
	return c.authorizeURL(state, nonce, false)
}

// SignupURL is AuthorizeURL with the provider's signup screen hint, used
// by the registration flow.
func (c Config) SignupURL(state, nonce string) string {
	return c.authorizeURL(state, nonce, true)
}

func (c Config) authorizeURL(state, nonce string, signup bool) string {
	opts := []oauth2.AuthCodeOption{
		oauth2.SetAuthURLParam("response_type", "token id_token"),
		oauth2.SetAuthURLParam("nonce", nonce),
	}
	if c.Audience != "" {
		opts = append(opts, oauth2.SetAuthURLParam("audience", c.Audience))
	}
	if signup {
		opts = append(opts, oauth2.SetAuthURLParam("screen_hint", "signup"))
	}
	return c.oauth2Config().AuthCodeURL(state, opts...)
}

// LogoutURL is the provider endpoint that terminates the IdP session and
// returns the user to returnTo.
func (c Config) LogoutURL(returnTo string) string {
	return "https://" + c.Domain + "/v2/logout?client_id=" + c.ClientID + "&returnTo=" + returnTo
}

// NewState returns a fresh anti-replay state value.
func NewState() string {
	return uuid.NewString()
}

// NewNonce returns a fresh nonce for the ID token.
func NewNonce() string {
	return uuid.NewString()
}
