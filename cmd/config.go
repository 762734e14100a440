package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sikshasathi/sathi/internal/sathi/config"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config [field]",
	Short: "Display current configuration",
	Long: `Display the current configuration values.
This command shows all configuration values loaded from the config file and environment variables.

If a field name is specified, only that field's value is displayed.
Available fields: configfile, base_url, timeout_seconds, debug, log_file

Examples:
  sathi config                  # Show all configuration
  sathi config base_url         # Show only the backend base URL
  sathi config timeout_seconds  # Show only the request timeout`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		// If a field is specified, show only that field
		if len(args) > 0 {
			field := strings.ToLower(args[0])
			switch field {
			case "configfile":
				fmt.Println(viper.ConfigFileUsed())
			case "base_url", "baseurl":
				fmt.Println(cfg.BaseURL)
			case "timeout_seconds", "timeout":
				fmt.Println(cfg.TimeoutSeconds)
			case "debug":
				fmt.Println(cfg.Debug)
			case "log_file", "logfile":
				fmt.Println(cfg.LogFile)
			default:
				fmt.Fprintf(os.Stderr, "Unknown field: %s\n", args[0])
				fmt.Fprintf(os.Stderr, "Available fields: configfile, base_url, timeout_seconds, debug, log_file\n")
				os.Exit(1)
			}
			return
		}

		// Display all configuration values
		fmt.Printf("ConfigFile: %s\n", viper.ConfigFileUsed())
		fmt.Printf("BaseURL: %s\n", cfg.BaseURL)
		fmt.Printf("TimeoutSeconds: %d\n", cfg.TimeoutSeconds)
		fmt.Printf("Debug: %v\n", cfg.Debug)
		fmt.Printf("LogFile: %s\n", cfg.LogFile)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
