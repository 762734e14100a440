package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sikshasathi/sathi/internal/api"
	"github.com/sikshasathi/sathi/internal/auth"
)

var signupForm auth.SignupForm

// signupCmd represents the signup command
var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create a new account",
	Long: `Create a new Siksha Sathi account.

Full name, email and password are required; phone is optional. After
the account is created a login is performed with the same credentials,
so chat commands work immediately.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		bundle, err := newClient()
		if err != nil {
			return err
		}

		form := signupForm
		if form.FullName == "" {
			form.FullName = promptLine("Full name: ")
		}
		if form.Email == "" {
			form.Email = promptLine("Email: ")
		}
		if form.Phone == "" {
			form.Phone = promptLine("Phone (optional): ")
		}
		if form.Password == "" {
			form.Password = promptLine("Password: ")
		}
		if form.ConfirmPassword == "" {
			form.ConfirmPassword = promptLine("Confirm password: ")
		}

		err = auth.Signup(cmd.Context(), bundle.Client, bundle.Store, form)
		if err != nil {
			var validationErr *api.ValidationError
			switch {
			case errors.As(err, &validationErr):
				return fmt.Errorf("%s", validationErr.Error())
			case errors.Is(err, api.ErrEmailExists):
				return fmt.Errorf("email already exists, try logging in instead")
			default:
				return fmt.Errorf("signup failed: %w", err)
			}
		}

		fmt.Println("Account created and logged in.")
		fmt.Println("Start chatting with: sathi chat \"your question\"")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(signupCmd)

	signupCmd.Flags().StringVar(&signupForm.FullName, "name", "", "full name")
	signupCmd.Flags().StringVarP(&signupForm.Email, "email", "e", "", "account email")
	signupCmd.Flags().StringVar(&signupForm.Phone, "phone", "", "phone number (optional)")
	signupCmd.Flags().StringVarP(&signupForm.Password, "password", "p", "", "account password")
	signupCmd.Flags().StringVar(&signupForm.ConfirmPassword, "confirm-password", "", "password confirmation")
}
