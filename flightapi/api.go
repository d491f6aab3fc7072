// Package flightapi is the typed client of the flight-booking platform's
// REST gateway: auth, flights, bookings, payments, and search resources.
package flightapi

import (
	"context"
	"net/url"
	"strconv"

	"github.com/andeanfly/flightdesk/client"
	"github.com/andeanfly/flightdesk/domain"
)

// API bundles the resource clients behind one HTTP wrapper.
type API struct {
	c *client.Client
}

// New creates the API client over the shared HTTP wrapper.
func New(c *client.Client) *API {
	return &API{c: c}
}

// Page is a paginated response, in the gateway's Spring-style shape.
type Page[T any] struct {
	Content       []T  `json:"content"`
	Number        int  `json:"number"`
	Size          int  `json:"size"`
	TotalElements int  `json:"totalElements"`
	TotalPages    int  `json:"totalPages"`
	Last          bool `json:"last"`
}

func pageQuery(page, size int) url.Values {
	return url.Values{
		"page": []string{strconv.Itoa(page)},
		"size": []string{strconv.Itoa(size)},
	}
}

// Profile fetches the authenticated user's profile. The gateway nests the
// profile under a "user" key.
func (a *API) Profile(ctx context.Context) (*domain.UserProfile, error) {
	var resp struct {
		User domain.UserProfile `json:"user"`
	}
	if err := a.c.Get(ctx, "/api/auth/me", &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// IntrospectionResult is the token introspection response.
type IntrospectionResult struct {
	Active bool   `json:"active"`
	Sub    string `json:"sub,omitempty"`
	Exp    int64  `json:"exp,omitempty"`
}

// Introspect asks the auth service whether a token is still valid.
func (a *API) Introspect(ctx context.Context, token string) (*IntrospectionResult, error) {
	body := map[string]string{"token": token}
	var out IntrospectionResult
	if err := a.c.Post(ctx, "/api/auth/introspect", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UserByID fetches a user record by ID.
func (a *API) UserByID(ctx context.Context, userID string) (*domain.UserProfile, error) {
	var out domain.UserProfile
	if err := a.c.Get(ctx, "/api/users/"+userID, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
