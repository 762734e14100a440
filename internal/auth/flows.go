package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/sikshasathi/sathi/internal/api"
)

// Login exchanges credentials for a token and stores it. Empty fields
// fail client-side before any network call. A backend-reported mismatch
// (api.ErrCredentialMismatch) leaves no token stored; the caller returns
// to a resubmittable state.
func Login(ctx context.Context, client *api.Client, store *Store, email, password string) error {
	if email == "" || password == "" {
		return &api.ValidationError{Reason: "email and password are required"}
	}

	token, err := client.ObtainToken(ctx, email, password)
	if err != nil {
		return err
	}

	if err := store.SaveToken(token); err != nil {
		return fmt.Errorf("storing token: %w", err)
	}
	client.SetToken(token)
	return nil
}

// SignupForm carries the signup fields. Ephemeral: nothing here is
// persisted beyond submission.
type SignupForm struct {
	FullName        string
	Email           string
	Phone           string
	Password        string
	ConfirmPassword string
}

// Signup creates the account and then logs in with the same credentials
// so the chat commands have a token to work with. Validation failures
// make zero network calls.
func Signup(ctx context.Context, client *api.Client, store *Store, form SignupForm) error {
	if form.FullName == "" || form.Email == "" || form.Password == "" {
		return &api.ValidationError{Reason: "full name, email and password are required"}
	}
	if form.Password != form.ConfirmPassword {
		return &api.ValidationError{Field: "password", Reason: "passwords don't match"}
	}

	err := client.CreateUser(ctx, api.SignupRequest{
		FullName: form.FullName,
		Email:    form.Email,
		Password: form.Password,
		Phone:    form.Phone,
	})
	if err != nil {
		return err
	}

	// Obtain a token right away; without this step every chat call would
	// fail for a freshly created account.
	if err := Login(ctx, client, store, form.Email, form.Password); err != nil {
		if errors.Is(err, api.ErrCredentialMismatch) {
			return fmt.Errorf("account created but login failed: %w", err)
		}
		return err
	}
	return nil
}
