package cmd

import (
	"errors"
	"fmt"

	"github.com/andeanfly/flightdesk/client"
)

// describeError turns API failures into the message a user should see.
// Session expiry is already announced by the session notifier, so it maps
// to a bare instruction instead of a second alert.
func describeError(err error) error {
	if errors.Is(err, client.ErrSessionExpired) {
		return fmt.Errorf("session expired, run '%s auth login'", appName)
	}
	if msg := client.UserMessage(err); msg != "" {
		return errors.New(msg)
	}
	return err
}
