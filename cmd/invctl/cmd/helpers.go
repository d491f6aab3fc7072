package cmd

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/andeanfly/flightdesk/client"
)

// describeError turns API failures into the message a user should see.
// Session expiry is already announced by the session notifier.
func describeError(err error) error {
	if errors.Is(err, client.ErrSessionExpired) {
		return fmt.Errorf("session expired, run '%s auth login'", appName)
	}
	if msg := client.UserMessage(err); msg != "" {
		return errors.New(msg)
	}
	return err
}

func printYAML(v any) error {
	out, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	fmt.Print(string(out))
	return nil
}
