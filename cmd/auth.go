package main

import (
	"context"
	"fmt"
	"time"

	"github.com/manisai28/vseo/internal/session"
	"github.com/manisai28/vseo/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup writes a starter configuration file.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}
	return r.writePlain("✓ Wrote %s\n", path)
}

// AuthSignup creates an account. The session stays anonymous afterwards;
// logging in is a separate step.
func (r *Runner) AuthSignup(ctx context.Context, cmd *cli.Command) error {
	password := cmd.String("password")
	if confirm := cmd.String("confirm"); confirm != "" && confirm != password {
		return fmt.Errorf("%w: passwords do not match", shared.ErrInvalidInput)
	}

	if !r.session.Signup(ctx, cmd.String("username"), cmd.String("email"), password) {
		return fmt.Errorf("%w: signup failed", shared.ErrAuthFailed)
	}

	return r.writePlain("✓ Account created, run 'vseo auth login' to sign in\n")
}

// AuthLogin signs in and persists the session token.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if !r.session.Login(ctx, cmd.String("email"), cmd.String("password")) {
		return fmt.Errorf("%w: login failed", shared.ErrAuthFailed)
	}

	user := r.session.User()
	return r.writePlain("✓ Signed in as %s\n", user.Username)
}

// AuthLogout clears the persisted session.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	r.session.Logout()
	return r.writePlain("✓ Signed out\n")
}

// AuthStatus shows the current session state without any network call.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	r.session.Init()

	user := r.session.User()
	if user == nil {
		return r.writePlain("✗ Not signed in\n")
	}

	r.writePlain("✓ Signed in as %s\n", user.Username)

	token := r.store.Token()
	if claims, err := session.DecodeClaims(token); err == nil {
		r.writePlain("Session expires: %s\n", claims.ExpiresAt().Format(time.RFC1123))
	}
	return nil
}

// AuthProfile updates the account's profile fields.
func (r *Runner) AuthProfile(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	partial := map[string]any{}
	if username := cmd.String("username"); username != "" {
		partial["username"] = username
	}
	if email := cmd.String("email"); email != "" {
		partial["email"] = email
	}
	if len(partial) == 0 {
		return fmt.Errorf("%w: nothing to update", shared.ErrMissingArgument)
	}

	user, err := r.session.UpdateProfile(ctx, partial)
	if err != nil {
		return err
	}

	return r.writePlain("✓ Profile updated: %s <%s>\n", user.Username, user.Email)
}
