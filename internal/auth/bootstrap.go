package auth

import (
	"context"
	"fmt"
	"strings"

	"bookhub/internal/logging"
)

// EnsureAdmin creates the admin account when no admin exists yet. It does
// nothing when username or password is empty.
func EnsureAdmin(ctx context.Context, repo *Repo, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil
	}
	n, err := repo.CountByRole(ctx, RoleAdmin)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	if msg := checkPassword(password); msg != "" {
		return fmt.Errorf("bootstrap admin: %s", msg)
	}

	u, err := newUser(username, password, RoleAdmin)
	if err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	if err := repo.CreateUser(ctx, *u); err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	logging.Info().Str("username", username).Msg("admin account created")
	return nil
}
