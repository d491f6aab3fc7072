package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/andeanfly/flightdesk/authflow"
)

// loginTimeout bounds how long we wait for the browser redirect.
const loginTimeout = 5 * time.Minute

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage authentication for flightctl",
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in via the identity provider and save the session",
	RunE: func(cmd *cobra.Command, args []string) error {
		signup, _ := cmd.Flags().GetBool("signup")
		return runLogin(cmd, signup)
	},
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account via the identity provider's signup screen",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLogin(cmd, true)
	},
}

func runLogin(cmd *cobra.Command, signup bool) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if a.ctx.Auth.Domain == "" || a.ctx.Auth.ClientID == "" {
		return fmt.Errorf("context '%s' has no identity provider configured. Set --auth-domain and --client-id via '%s config set-context'",
			a.ctx.Name, appName)
	}

	if a.session.IsAuthenticated() {
		fmt.Printf("Already logged in to context '%s'.\n", a.ctx.Name)
		fmt.Print("Do you want to re-login? (yes/no): ")
		reader := bufio.NewReader(os.Stdin)
		confirm, _ := reader.ReadString('\n')
		if strings.TrimSpace(strings.ToLower(confirm)) != "yes" {
			fmt.Println("Login cancelled.")
			return nil
		}
	}

	listener := authflow.NewListener("127.0.0.1:0")
	redirectURI, err := listener.Start()
	if err != nil {
		return fmt.Errorf("failed to start callback listener: %w", err)
	}
	defer listener.Shutdown(cmd.Context())

	idp := authflow.Config{
		Domain:      a.ctx.Auth.Domain,
		ClientID:    a.ctx.Auth.ClientID,
		RedirectURI: redirectURI,
		Audience:    a.ctx.Auth.Audience,
	}
	state := authflow.NewState()
	nonce := authflow.NewNonce()

	authorizeURL := idp.AuthorizeURL(state, nonce)
	if signup {
		authorizeURL = idp.SignupURL(state, nonce)
	}

	fmt.Println("Open this URL in your browser to sign in:")
	fmt.Println()
	fmt.Println("  " + authorizeURL)
	fmt.Println()
	fmt.Println("Waiting for the browser redirect...")

	waitCtx, cancel := context.WithTimeout(cmd.Context(), loginTimeout)
	defer cancel()

	fragment, err := listener.Wait(waitCtx)
	if err != nil {
		return fmt.Errorf("login did not complete: %w", err)
	}

	exchanger := authflow.NewExchanger(a.session, state)
	user, err := exchanger.Exchange(cmd.Context(), fragment)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	fmt.Printf("Login successful for context '%s'.\n", a.ctx.Name)
	fmt.Printf("Logged in as: %s (ID: %s)\n", user.Email, user.ID)
	return nil
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the local session and tokens",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if !a.session.IsAuthenticated() {
			fmt.Println("Not logged in (no session found for current context).")
			return nil
		}
		if err := a.session.Logout(cmd.Context()); err != nil {
			return fmt.Errorf("failed to clear session: %w", err)
		}

		fmt.Printf("Logged out from context '%s'. Local session cleared.\n", a.ctx.Name)
		if a.ctx.Auth.Domain != "" {
			idp := authflow.Config{Domain: a.ctx.Auth.Domain, ClientID: a.ctx.Auth.ClientID}
			fmt.Println("To also end the identity provider session, open:")
			fmt.Println("  " + idp.LogoutURL("http://localhost"))
		}
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current user profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if !a.session.IsAuthenticated() {
			fmt.Println("Not logged in.")
			return nil
		}
		user, err := a.session.LoadProfile(cmd.Context())
		if err != nil {
			return describeError(err)
		}
		fmt.Printf("%s\n", user.FullName())
		fmt.Printf("  ID:    %s\n", user.ID)
		fmt.Printf("  Email: %s\n", user.Email)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(signupCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(whoamiCmd)

	loginCmd.Flags().Bool("signup", false, "use the provider's signup screen instead of login")
}
