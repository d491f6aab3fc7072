package client

import "errors"

// ErrSessionExpired is returned when a 401 response cleared the session.
// Callers must not surface it as a generic error toast: the session store
// already shows the single session-expired notice.
var ErrSessionExpired = errors.New("session expired")

// genericMessage is the last-resort user-facing error text.
const genericMessage = "something went wrong, please try again"

// connectivityMessage is shown when no response was received at all.
const connectivityMessage = "connection error, please check your network"

// APIError is a non-2xx response from the backend. Message and Reason map
// to the server's `message` and `error` fields.
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
	Reason     string `json:"error"`
}

func (e *APIError) Error() string {
	return e.UserMessage()
}

// UserMessage applies the display precedence: server message, then server
// error field, then the generic fallback.
func (e *APIError) UserMessage() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Reason != "":
		return e.Reason
	default:
		return genericMessage
	}
}

// TransportError wraps a network-level failure: no response was received.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "request failed: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// UserMessage converts any error from the client into the text to show the
// user, following the precedence from the response interceptor: server
// message, server error field, transport error message, generic fallback.
// ErrSessionExpired yields an empty string: the session-expired notice has
// already been shown and must not be duplicated.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrSessionExpired) {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.UserMessage()
	}
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return connectivityMessage
	}
	return genericMessage
}
