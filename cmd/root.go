/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sikshasathi/sathi/internal/auth"
	"github.com/sikshasathi/sathi/internal/log"
	"github.com/sikshasathi/sathi/internal/sathi/config"
)

var (
	cfgFile string
	verbose bool
	debug   bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sathi",
	Short: "A CLI client for the Siksha Sathi AI learning assistant",
	Long: `sathi is a command-line client for the Siksha Sathi AI learning assistant.
It talks to the Siksha Sathi backend over HTTP: create an account or login,
ask questions in a conversation, save transcripts on the server, and browse
previously saved conversations.

You can configure the tool using a TOML configuration file.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		logPath := cfg.LogFile
		if logPath == "" {
			dir, err := auth.StateDir()
			if err != nil {
				return err
			}
			logPath = filepath.Join(dir, "sathi.log")
		}
		log.Init(debug || cfg.Debug, logPath)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/sathi/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "write debug logs to the state directory")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	viper.SetEnvPrefix("SATHI")
	viper.AutomaticEnv()

	home, err := os.UserHomeDir()
	cobra.CheckErr(err)
	userConfigDir := filepath.Join(home, ".config", "sathi")

	// Set default values
	defaultConfig := config.NewDefaultConfig()
	viper.SetDefault("base_url", defaultConfig.BaseURL)
	viper.SetDefault("timeout_seconds", defaultConfig.TimeoutSeconds)
	viper.SetDefault("debug", defaultConfig.Debug)
	viper.SetDefault("log_file", defaultConfig.LogFile)

	// Bind environment variables
	viper.BindEnv("base_url", "SATHI_BASE_URL")
	viper.BindEnv("timeout_seconds", "SATHI_TIMEOUT_SECONDS")

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
		}
	} else {
		viper.AddConfigPath(userConfigDir)
		viper.SetConfigType("toml")
		viper.SetConfigName("config")

		if err := viper.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
			}
		}
	}

	if verbose {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		fmt.Fprintln(os.Stderr, "  SATHI_BASE_URL:", viper.GetString("base_url"))
		fmt.Fprintln(os.Stderr, "  SATHI_TIMEOUT_SECONDS:", viper.GetInt("timeout_seconds"))
	}
}

// newClient builds an API client from the loaded configuration. When a
// token is stored it is attached; callers that require authentication
// check HasToken or let the client report the missing token.
func newClient() (*apiClientBundle, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	store, err := auth.NewStore()
	if err != nil {
		return nil, fmt.Errorf("opening credential store: %w", err)
	}

	client := newAPIClient(cfg)
	if token, err := store.Token(); err == nil {
		client.SetToken(token)
	}
	return &apiClientBundle{Client: client, Store: store, Config: cfg}, nil
}
