package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/andeanfly/flightdesk/inventoryapi"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage authentication for invctl",
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the inventory platform and save the session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

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

		fmt.Print("Enter username: ")
		reader := bufio.NewReader(os.Stdin)
		username, _ := reader.ReadString('\n')
		username = strings.TrimSpace(username)

		fmt.Print("Enter password: ")
		bytePassword, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		password := string(bytePassword)

		result, err := a.api.Login(cmd.Context(), username, password)
		if err != nil {
			return describeError(err)
		}
		if result.Token == "" {
			return fmt.Errorf("login response did not contain a token")
		}

		if err := a.session.SetTokens(cmd.Context(), result.Token, ""); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
		user, err := a.session.LoadProfile(cmd.Context())
		if err != nil {
			return fmt.Errorf("login succeeded but the token is unusable: %w", err)
		}

		fmt.Printf("Login successful. Session saved for context '%s'.\n", a.ctx.Name)
		fmt.Printf("Logged in as user %s\n", user.ID)
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an inventory platform account",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		username, _ := cmd.Flags().GetString("username")
		email, _ := cmd.Flags().GetString("email")
		avatarPath, _ := cmd.Flags().GetString("avatar")
		if username == "" || email == "" {
			return fmt.Errorf("--username and --email are required")
		}

		fmt.Print("Choose a password: ")
		bytePassword, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}

		req := inventoryapi.RegisterRequest{
			Username: username,
			Password: string(bytePassword),
			Email:    email,
		}
		if avatarPath != "" {
			f, err := os.Open(avatarPath)
			if err != nil {
				return fmt.Errorf("failed to open avatar file: %w", err)
			}
			defer f.Close()
			req.Avatar = f
			req.AvatarName = filepath.Base(avatarPath)
			req.AvatarType = avatarContentType(avatarPath)
		}

		if err := a.api.Register(cmd.Context(), req); err != nil {
			return describeError(err)
		}
		fmt.Printf("Account '%s' created. Run '%s auth login' to sign in.\n", username, appName)
		return nil
	},
}

func avatarContentType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	default:
		return "image/jpeg"
	}
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the local session and token",
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
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current user",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		userID, err := a.session.UserID()
		if err != nil {
			fmt.Println("Not logged in.")
			return nil
		}
		fmt.Printf("User ID: %s\n", userID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(registerCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(whoamiCmd)

	registerCmd.Flags().String("username", "", "account username")
	registerCmd.Flags().String("email", "", "account email")
	registerCmd.Flags().String("avatar", "", "path to an avatar image to upload")
}
