package domain

import "time"

// UserProfile is the profile record returned by the auth service for the
// currently authenticated user. The client only displays it and forwards
// the ID on server-trust headers.
type UserProfile struct {
	ID        string    `json:"id"`
	Username  string    `json:"username,omitempty"`
	FirstName string    `json:"firstName,omitempty"`
	LastName  string    `json:"lastName,omitempty"`
	Email     string    `json:"email"`
	Roles     []string  `json:"roles,omitempty"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// FullName is what the UI shows in headers and booking summaries.
func (u UserProfile) FullName() string {
	switch {
	case u.FirstName == "" && u.LastName == "":
		return u.Username
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}
