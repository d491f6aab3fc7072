// Package inventoryapi is the typed client of the inventory platform:
// auth, products (with direct-to-object-storage image upload), stock
// movements, and notifications.
package inventoryapi

import (
	"context"
	"io"

	"github.com/andeanfly/flightdesk/client"
	"github.com/andeanfly/flightdesk/domain"
	"github.com/andeanfly/flightdesk/session"
)

// API bundles the inventory resource clients behind one HTTP wrapper.
type API struct {
	c *client.Client
}

// New creates the API client over the shared HTTP wrapper.
func New(c *client.Client) *API {
	return &API{c: c}
}

// Page is the inventory gateway's paginated response shape.
type Page[T any] struct {
	Content       []T `json:"content"`
	Number        int `json:"number"`
	Size          int `json:"size"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
}

// LoginResult carries the bearer token issued on login.
type LoginResult struct {
	Token string `json:"token"`
}

// Login exchanges credentials for a bearer token. The caller persists it;
// the user record is decoded locally from the token.
func (a *API) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	body := map[string]string{"username": username, "password": password}
	var out LoginResult
	if err := a.c.Post(ctx, "/api/auth/login", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Profile implements session.ProfileFetcher by decoding the stored token
// locally: the inventory backend has no profile endpoint.
type Profile struct {
	Tokens client.TokenSource
}

func (p Profile) Profile(_ context.Context) (*domain.UserProfile, error) {
	token, err := p.Tokens.AccessToken()
	if err != nil {
		return nil, err
	}
	id, err := session.UserIDFromToken(token)
	if err != nil {
		return nil, err
	}
	return &domain.UserProfile{ID: id, Enabled: true}, nil
}

// RegisterRequest carries the multipart registration form. Avatar may be
// nil.
type RegisterRequest struct {
	Username string
	Password string
	Email    string
	Avatar   io.Reader
	// AvatarName and AvatarType describe the uploaded file.
	AvatarName string
	AvatarType string
}

// Register creates an account. Because the form can include a file, this
// is one of the two multipart flows the client has.
func (a *API) Register(ctx context.Context, req RegisterRequest) error {
	fields := map[string]string{
		"username": req.Username,
		"password": req.Password,
		"email":    req.Email,
	}
	var files []client.FilePart
	if req.Avatar != nil {
		files = append(files, client.FilePart{
			FieldName:   "avatar",
			FileName:    req.AvatarName,
			ContentType: req.AvatarType,
			Content:     req.Avatar,
		})
	}
	return a.c.PostMultipart(ctx, "/api/auth/register", fields, files, nil)
}
