package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sikshasathi/sathi/internal/api"
	"github.com/sikshasathi/sathi/internal/auth"
)

var (
	loginEmail    string
	loginPassword string
)

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Login and store an access token",
	Long: `Login to the Siksha Sathi backend with your email and password.

On success the access token is stored locally and used by all
authenticated commands. Credentials can be passed via flags or entered
interactively.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		bundle, err := newClient()
		if err != nil {
			return err
		}

		email := loginEmail
		password := loginPassword
		if email == "" {
			email = promptLine("Email: ")
		}
		if password == "" {
			password = promptLine("Password: ")
		}

		err = auth.Login(cmd.Context(), bundle.Client, bundle.Store, email, password)
		if err != nil {
			var validationErr *api.ValidationError
			switch {
			case errors.As(err, &validationErr):
				return fmt.Errorf("email or password is missing")
			case errors.Is(err, api.ErrCredentialMismatch):
				// Domain failure: no token stored, re-run the command to retry.
				return fmt.Errorf("email and password does not match, please try again")
			default:
				return fmt.Errorf("login failed: %w", err)
			}
		}

		fmt.Println("Logged in successfully.")
		fmt.Println("Start chatting with: sathi chat \"your question\"")
		return nil
	},
}

// promptLine reads one line from stdin after printing prompt.
func promptLine(prompt string) string {
	fmt.Fprint(os.Stderr, prompt)
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(scanner.Text())
}

func init() {
	rootCmd.AddCommand(loginCmd)

	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "account email")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "account password")
}
