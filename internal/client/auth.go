package client

import (
	"context"

	"github.com/mdouchement/medvault/internal/gate"
	"github.com/mdouchement/medvault/internal/vault"
)

// Login prompts the credentials and signs in.
func (a *App) Login(ctx context.Context) error {
	if _, err := a.gate.Enter(gate.Login); err != nil {
		return a.fail(err, "could not enter login")
	}

	username, err := a.prompter.Line("Email: ")
	if err != nil {
		return err
	}
	password, err := a.prompter.Password("Password: ")
	if err != nil {
		return err
	}

	identity, err := a.auth.Login(ctx, username, password)
	if err != nil {
		return a.fail(err, "could not login")
	}

	a.printf("Welcome %s\n", displayName(identity.Profile, identity.UserID))
	a.gate.Start()
	return nil
}

// Register prompts the registration form and creates an account.
func (a *App) Register(ctx context.Context) error {
	if _, err := a.gate.Enter(gate.Register); err != nil {
		return a.fail(err, "could not enter registration")
	}

	var (
		registration vault.Registration
		err          error
	)
	if registration.FullName, err = a.prompter.Line("Full name: "); err != nil {
		return err
	}
	if registration.Email, err = a.prompter.Line("Email: "); err != nil {
		return err
	}
	if registration.Password, err = a.prompter.Password("Password: "); err != nil {
		return err
	}
	if registration.ConfirmPassword, err = a.prompter.Password("Confirm password: "); err != nil {
		return err
	}

	if err = a.auth.Register(ctx, registration); err != nil {
		return a.fail(err, "could not register")
	}

	a.printf("Account created, you can now login.\n")
	return nil
}

// Logout signs out.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return a.fail(err, "could not logout")
	}

	a.printf("Signed out.\n")
	return nil
}

// Status prints the session state and the reachable screens.
func (a *App) Status() error {
	root := a.gate.Resolve()

	a.printf("Status: %s\n", root)
	if identity, ok := a.sessions.Load(); ok {
		a.printf("User: %s (%s)\n", displayName(identity.Profile, identity.UserID), identity.UserID)
	}
	for _, screen := range gate.Reachable(root) {
		a.printf("  - %s\n", screen)
	}
	return nil
}

func displayName(profile map[string]any, fallback string) string {
	for _, key := range []string{"full_name", "name", "email"} {
		if s, ok := profile[key].(string); ok && s != "" {
			return s
		}
	}
	return fallback
}
