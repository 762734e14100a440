package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// whoamiCmd represents the whoami command
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the authenticated user's profile",
	Long: `Fetch the authenticated user's profile from the backend.

The profile is cached locally next to the token so other commands can
display it without a network call.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		bundle, err := newClient()
		if err != nil {
			return err
		}

		profile, err := bundle.Client.FetchProfile(cmd.Context())
		if err != nil {
			return fmt.Errorf("fetching profile: %w", err)
		}

		// Cache failure is not fatal; the profile was still fetched.
		if err := bundle.Store.SaveProfile(profile); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to cache profile: %v\n", err)
		}

		fmt.Printf("Name:  %s\n", profile.FullName)
		fmt.Printf("Email: %s\n", profile.Email)
		if profile.Phone != "" {
			fmt.Printf("Phone: %s\n", profile.Phone)
		}
		if verbose {
			fmt.Printf("User ID: %s\n", profile.UserID)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
