package authflow

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListener_DeliversFragment(t *testing.T) {
	l := NewListener("127.0.0.1:0")
	redirectURI, err := l.Start()
	require.NoError(t, err)
	defer l.Shutdown(context.Background())

	require.True(t, strings.HasSuffix(redirectURI, "/callback"))

	// The browser first lands on /callback and is served the forwarding
	// page, then the page posts the fragment back.
	resp, err := http.Get(redirectURI)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	complete := strings.TrimSuffix(redirectURI, "/callback") + "/callback/complete"
	resp2, err := http.Post(complete, "text/plain", strings.NewReader("#access_token=at&state=s1"))
	require.NoError(t, err)
	resp2.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp2.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	fragment, err := l.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, "#access_token=at&state=s1", fragment)
}

func TestListener_ForwardsQueryError(t *testing.T) {
	l := NewListener("127.0.0.1:0")
	redirectURI, err := l.Start()
	require.NoError(t, err)
	defer l.Shutdown(context.Background())

	resp, err := http.Get(redirectURI + "?error=access_denied&error_description=User+cancelled")
	require.NoError(t, err)
	resp.Body.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	fragment, err := l.Wait(ctx)
	require.NoError(t, err)

	cb, err := ParseFragment(fragment)
	require.NoError(t, err)
	assert.Equal(t, "access_denied", cb.Error)
	assert.Equal(t, "User cancelled", cb.ErrorDescription)
}

func TestListener_WaitHonorsContext(t *testing.T) {
	l := NewListener("127.0.0.1:0")
	_, err := l.Start()
	require.NoError(t, err)
	defer l.Shutdown(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = l.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
