package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sikshasathi/sathi/internal/auth"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Inspect and manage stored credentials",
}

// authStatusCmd represents the auth status command
var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a token is stored",
	Long: `Show whether an access token is stored locally.

If the token is a JWT its claims are displayed for reference. Expiry is
never enforced locally; the backend decides whether a token is still
valid.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := auth.NewStore()
		if err != nil {
			return err
		}

		token, err := store.Token()
		if err != nil {
			if errors.Is(err, auth.ErrNoToken) {
				fmt.Println("Not logged in.")
				fmt.Println("\nLogin with:\n  sathi login")
				return nil
			}
			return err
		}

		fmt.Println("Logged in.")

		if profile, err := store.Profile(); err == nil && profile != nil {
			fmt.Printf("Account: %s <%s>\n", profile.FullName, profile.Email)
		}

		claims, err := auth.InspectToken(token)
		if err == nil {
			if claims.Subject != "" {
				fmt.Printf("Token subject: %s\n", claims.Subject)
			}
			if !claims.IssuedAt.IsZero() {
				fmt.Printf("Token issued: %s\n", claims.IssuedAt.Format("2006-01-02 15:04:05"))
			}
			if !claims.ExpiresAt.IsZero() {
				fmt.Printf("Token expires: %s\n", claims.ExpiresAt.Format("2006-01-02 15:04:05"))
			}
		}
		return nil
	},
}

// logoutCmd represents the logout command
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear stored credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := auth.NewStore()
		if err != nil {
			return err
		}
		if err := store.Clear(); err != nil {
			return fmt.Errorf("clearing credentials: %w", err)
		}
		fmt.Println("Logged out.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authStatusCmd)
	rootCmd.AddCommand(logoutCmd)
}
