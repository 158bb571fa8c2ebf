package seed

import (
	"context"
	"errors"
	"fmt"

	"handraise/internal/store"
	"handraise/pkg/types"

	"github.com/k0kubun/pp/v3"
	"golang.org/x/crypto/bcrypt"
)

type demoUser struct {
	Username string
	Email    string
	Password string
	Role     types.UserRole
}

// SeedUsers creates the demo accounts when they don't already exist. The
// passwords here are for local development only.
func SeedUsers(ctx context.Context, repo *store.UserRepository) error {
	demo := []demoUser{
		{Username: "admin", Email: "admin@handraise.local", Password: "admin-dev-password", Role: types.UserRoleAdmin},
		{Username: "coordinator", Email: "coordinator@handraise.local", Password: "coordinator-dev-password", Role: types.UserRoleUser},
		{Username: "observer", Email: "observer@handraise.local", Password: "observer-dev-password", Role: types.UserRoleViewer},
	}

	for _, d := range demo {
		existing, err := repo.UserByUsername(ctx, d.Username)
		if err != nil && !errors.Is(err, types.ErrUserNotFound) {
			return fmt.Errorf("look up user %s: %w", d.Username, err)
		}
		if existing != nil {
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(d.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", d.Username, err)
		}

		user := &types.User{
			Username:     d.Username,
			Email:        d.Email,
			PasswordHash: string(hash),
			Role:         d.Role,
			IsActive:     true,
		}

		if err := repo.CreateUser(ctx, user); err != nil {
			return fmt.Errorf("create user %s: %w", d.Username, err)
		}

		pp.Println(map[string]string{
			"username": user.Username,
			"email":    user.Email,
			"role":     string(user.Role),
			"id":       user.ID,
		})
	}

	return nil
}
