package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/andeanfly/flightdesk/client"
	"github.com/andeanfly/flightdesk/config"
	"github.com/andeanfly/flightdesk/inventoryapi"
	"github.com/andeanfly/flightdesk/log"
	"github.com/andeanfly/flightdesk/session"
	"github.com/andeanfly/flightdesk/storage"
)

const appName = "invctl"

var appLogger log.Logger

var verbose bool

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "invctl is the AndeanFly inventory console in your terminal",
	Long: `A command-line interface for managing products, stock movements,
and notifications against the AndeanFly inventory platform.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := zerolog.WarnLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		appLogger = log.NewZerologAdapter(level, true)

		if err := config.InitConfig(appName); err != nil {
			appLogger.Error(cmd.Context(), "Failed to initialize configuration", err)
			return err
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if appLogger != nil {
			appLogger.Error(context.Background(), "CLI execution failed", err)
		} else {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&config.CfgFile, "config", "",
		fmt.Sprintf("config file (default is $HOME/.%s/config.yaml)", appName))
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// app bundles the wired session, storage and API client for one command
// invocation.
type app struct {
	ctx     *config.Context
	storage *storage.Store
	session *session.Store
	api     *inventoryapi.API
}

func (a *app) Close() {
	if a.storage != nil {
		_ = a.storage.Close()
	}
}

// newApp wires the inventory stack for the current context. The inventory
// backend has no profile endpoint, so the profile fetcher decodes the
// stored token locally.
func newApp() (*app, error) {
	currentCtx, err := config.GetCurrentContext()
	if err != nil {
		return nil, fmt.Errorf("no active context. Use '%s config set-context <name> --server <endpoint>' first: %w", appName, err)
	}

	store, err := storage.Open(currentCtx.DefaultStatePath())
	if err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}

	notify := session.NotifierFunc(func(message string) {
		fmt.Fprintln(os.Stderr, message)
	})
	sess := session.New(store, notify, appLogger)

	httpc, err := client.New(currentCtx.APIEndpoint, store,
		client.WithLogger(appLogger),
		client.WithUnauthorizedHandler(sess.HandleUnauthorized),
	)
	if err != nil {
		store.Close()
		return nil, err
	}

	api := inventoryapi.New(httpc)
	sess.SetProfileFetcher(inventoryapi.Profile{Tokens: store})
	if err := sess.Restore(); err != nil {
		appLogger.Debug(context.Background(), "no session to restore", map[string]interface{}{"reason": err.Error()})
	}

	return &app{ctx: currentCtx, storage: store, session: sess, api: api}, nil
}
