package authflow

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"

	"github.com/labstack/echo/v4"
)

// callbackPage forwards the URI fragment to the listener and clears it
// from the visible URL immediately, before the exchange completes, so a
// refresh mid-exchange cannot replay the login.
const callbackPage = `<!DOCTYPE html>
<html>
<head><title>Signing in…</title></head>
<body>
<p>Completing sign in…</p>
<script>
(function () {
  var fragment = window.location.hash;
  window.history.replaceState(null, "", window.location.pathname);
  fetch("/callback/complete", { method: "POST", body: fragment })
    .then(function () { document.body.innerHTML = "<p>Signed in. You can close this window.</p>"; })
    .catch(function () { document.body.innerHTML = "<p>Sign in failed. Return to the terminal.</p>"; });
})();
</script>
</body>
</html>`

// Listener is the loopback HTTP server that receives the identity
// provider's redirect during login. The provider redirects the browser to
// /callback; the served page forwards the fragment here.
type Listener struct {
	echo      *echo.Echo
	fragments chan string
	addr      string
}

// NewListener creates a listener bound to addr, typically 127.0.0.1:0.
func NewListener(addr string) *Listener {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	l := &Listener{echo: e, fragments: make(chan string, 1), addr: addr}
	e.GET("/callback", l.handleCallback)
	e.POST("/callback/complete", l.handleComplete)
	return l
}

// Start begins serving and returns the redirect URI to register with the
// identity provider for this login attempt.
func (l *Listener) Start() (string, error) {
	ln, err := net.Listen("tcp", l.addr)
	if err != nil {
		return "", err
	}
	l.echo.Listener = ln
	go func() {
		if err := l.echo.Start(""); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.echo.Logger.Error(err)
		}
	}()
	return "http://" + ln.Addr().String() + "/callback", nil
}

// Wait blocks until the browser delivers the redirect fragment or the
// context is cancelled.
func (l *Listener) Wait(ctx context.Context) (string, error) {
	select {
	case fragment := <-l.fragments:
		return fragment, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Shutdown stops the loopback server.
func (l *Listener) Shutdown(ctx context.Context) error {
	return l.echo.Shutdown(ctx)
}

func (l *Listener) handleCallback(c echo.Context) error {
	// Provider errors can arrive as query parameters instead of a
	// fragment; forward them in fragment form so one parser handles both.
	if c.QueryParam("error") != "" {
		select {
		case l.fragments <- c.QueryString():
		default:
		}
		return c.HTML(http.StatusOK, "<p>Sign in failed. Return to the terminal.</p>")
	}
	return c.HTML(http.StatusOK, callbackPage)
}

func (l *Listener) handleComplete(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable fragment")
	}
	select {
	case l.fragments <- string(body):
	default:
		// A second delivery of the same redirect; the exchanger's latch
		// would reject it anyway.
	}
	return c.NoContent(http.StatusNoContent)
}
