package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	ConfigFileName = "config"
	ConfigFileType = "yaml"
)

// AuthConfig holds the identity-provider settings for a context.
type AuthConfig struct {
	Domain   string `mapstructure:"domain"`
	ClientID string `mapstructure:"client_id"`
	Audience string `mapstructure:"audience"`
}

// Context represents a single CLI context (backend endpoints and the
// identity provider to log in against).
type Context struct {
	Name        string     `mapstructure:"name"`
	APIEndpoint string     `mapstructure:"api_endpoint"`
	WSEndpoint  string     `mapstructure:"ws_endpoint,omitempty"`
	Auth        AuthConfig `mapstructure:"auth"`
	// StatePath is where session state and tokens are kept. Defaults
	// to state.db next to the config file.
	StatePath string `mapstructure:"state_path,omitempty"`
}

// CLIConfig holds the overall CLI configuration.
type CLIConfig struct {
	CurrentContext string              `mapstructure:"current_context"`
	Contexts       map[string]*Context `mapstructure:"contexts"`
}

var GlobalConfig *CLIConfig
var CfgFile string // Path to the config file used

var appName string

// InitConfig initializes Viper to read configuration for the named CLI.
// It's called by the root command's PersistentPreRunE.
func InitConfig(app string) error {
	appName = app
	if CfgFile != "" {
		viper.SetConfigFile(CfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get user home directory: %w", err)
		}
		configPath := filepath.Join(home, "."+appName) // $HOME/.<app>

		viper.AddConfigPath(configPath)
		viper.SetConfigName(ConfigFileName)
		viper.SetConfigType(ConfigFileType)

		if err := os.MkdirAll(configPath, os.ModePerm); err != nil {
			return fmt.Errorf("failed to create config directory %s: %w", configPath, err)
		}
		CfgFile = filepath.Join(configPath, ConfigFileName+"."+ConfigFileType)
	}

	viper.AutomaticEnv()

	GlobalConfig = &CLIConfig{Contexts: make(map[string]*Context)}

	if err := viper.ReadInConfig(); err == nil {
		CfgFile = viper.ConfigFileUsed()
	} else {
		// A missing config file is fine; it gets created on the first
		// 'config set-context' or 'auth login'.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("error reading config file %s: %w", viper.ConfigFileUsed(), err)
		}
	}

	if err := viper.Unmarshal(GlobalConfig); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if GlobalConfig.Contexts == nil {
		GlobalConfig.Contexts = make(map[string]*Context)
	}

	return nil
}

// SaveConfig saves the current GlobalConfig to the config file.
func SaveConfig() error {
	if CfgFile == "" { // Should have been set by InitConfig
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		CfgFile = filepath.Join(home, "."+appName, ConfigFileName+"."+ConfigFileType)
	}

	configDir := filepath.Dir(CfgFile)
	if err := os.MkdirAll(configDir, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create config directory %s: %w", configDir, err)
	}

	settings := map[string]interface{}{
		"current_context": GlobalConfig.CurrentContext,
		"contexts":        GlobalConfig.Contexts,
	}
	if err := viper.MergeConfigMap(settings); err != nil {
		return fmt.Errorf("failed to merge config map for saving: %w", err)
	}

	if err := viper.WriteConfigAs(CfgFile); err != nil {
		return fmt.Errorf("failed to save config to %s: %w", CfgFile, err)
	}
	return nil
}

// GetCurrentContext returns the currently active context configuration.
func GetCurrentContext() (*Context, error) {
	if GlobalConfig == nil || GlobalConfig.Contexts == nil {
		return nil, errors.New("config not initialized properly")
	}
	if GlobalConfig.CurrentContext == "" && len(GlobalConfig.Contexts) > 0 {
		for name := range GlobalConfig.Contexts {
			GlobalConfig.CurrentContext = name
			fmt.Fprintf(os.Stderr, "Warning: current_context not set, using context '%s'.\n", name)
			if err := SaveConfig(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to save current context update: %v\n", err)
			}
			break
		}
	}
	if GlobalConfig.CurrentContext == "" {
		return nil, fmt.Errorf("no current context set. Use '%s config use-context <name>' or '%s config set-context ...'", appName, appName)
	}
	ctx, exists := GlobalConfig.Contexts[GlobalConfig.CurrentContext]
	if !exists {
		return nil, fmt.Errorf("current context '%s' not found in configuration", GlobalConfig.CurrentContext)
	}
	return ctx, nil
}

// DefaultStatePath returns the context's state database path,
// defaulting to state.db in the CLI's config directory.
func (c *Context) DefaultStatePath() string {
	if c.StatePath != "" {
		return c.StatePath
	}
	return filepath.Join(filepath.Dir(CfgFile), "state.db")
}
