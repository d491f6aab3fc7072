package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/andeanfly/flightdesk/config"
)

var configCmd = &cobra.Command{
	Use:     "config",
	Short:   "Manage flightctl configuration and contexts",
	Aliases: []string{"cfg"},
}

var getContextsCmd = &cobra.Command{
	Use:     "get-contexts",
	Short:   "Display one or many contexts",
	Aliases: []string{"get"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if config.GlobalConfig == nil || len(config.GlobalConfig.Contexts) == 0 {
			fmt.Println("No contexts defined.")
			return nil
		}
		out, err := yaml.Marshal(config.GlobalConfig.Contexts)
		if err != nil {
			return fmt.Errorf("failed to marshal contexts to YAML: %w", err)
		}
		fmt.Println(string(out))
		if config.GlobalConfig.CurrentContext != "" {
			fmt.Printf("Current context: %s\n", config.GlobalConfig.CurrentContext)
		} else {
			fmt.Println("No current context set.")
		}
		return nil
	},
}

var useContextCmd = &cobra.Command{
	Use:     "use-context [CONTEXT_NAME]",
	Short:   "Sets the current-context in the config file",
	Aliases: []string{"use"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		contextName := args[0]
		if config.GlobalConfig == nil {
			return errors.New("config not initialized")
		}
		if _, exists := config.GlobalConfig.Contexts[contextName]; !exists {
			return fmt.Errorf("context '%s' not found", contextName)
		}
		config.GlobalConfig.CurrentContext = contextName
		if err := config.SaveConfig(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		fmt.Printf("Switched to context \"%s\".\n", contextName)
		return nil
	},
}

var setContextCmd = &cobra.Command{
	Use:     "set-context [CONTEXT_NAME]",
	Short:   "Sets a context entry in the config",
	Aliases: []string{"set"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		contextName := args[0]
		server, _ := cmd.Flags().GetString("server")
		authDomain, _ := cmd.Flags().GetString("auth-domain")
		clientID, _ := cmd.Flags().GetString("client-id")
		audience, _ := cmd.Flags().GetString("audience")

		if server == "" {
			return errors.New("--server flag is required")
		}
		if config.GlobalConfig == nil {
			return errors.New("config not initialized")
		}
		if config.GlobalConfig.Contexts == nil {
			config.GlobalConfig.Contexts = make(map[string]*config.Context)
		}

		ctxEntry, exists := config.GlobalConfig.Contexts[contextName]
		if !exists {
			ctxEntry = &config.Context{Name: contextName}
			config.GlobalConfig.Contexts[contextName] = ctxEntry
		}
		ctxEntry.APIEndpoint = server
		if authDomain != "" {
			ctxEntry.Auth.Domain = authDomain
		}
		if clientID != "" {
			ctxEntry.Auth.ClientID = clientID
		}
		if audience != "" {
			ctxEntry.Auth.Audience = audience
		}

		// If this is the only context, or no current context is set, make it current.
		if len(config.GlobalConfig.Contexts) == 1 || config.GlobalConfig.CurrentContext == "" {
			config.GlobalConfig.CurrentContext = contextName
		}

		if err := config.SaveConfig(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		fmt.Printf("Context \"%s\" created/modified.\n", contextName)
		return nil
	},
}

var currentContextCmd = &cobra.Command{
	Use:   "current-context",
	Short: "Displays the current-context",
	RunE: func(cmd *cobra.Command, args []string) error {
		if config.GlobalConfig == nil || config.GlobalConfig.CurrentContext == "" {
			fmt.Println("No current context is set.")
			return nil
		}
		fmt.Println(config.GlobalConfig.CurrentContext)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(getContextsCmd)
	configCmd.AddCommand(useContextCmd)
	configCmd.AddCommand(setContextCmd)
	configCmd.AddCommand(currentContextCmd)

	setContextCmd.Flags().String("server", "", "Base URL of the booking API")
	setContextCmd.Flags().String("auth-domain", "", "Identity provider domain (e.g. tenant.auth0.com)")
	setContextCmd.Flags().String("client-id", "", "OAuth client ID for the storefront")
	setContextCmd.Flags().String("audience", "", "OAuth audience for API access tokens")
}
