// Package users provides access to the users relation.
package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/messagely/internal/server/models"
)

// Repository is the user store. Implementations report a missing user as
// common.ErrorNotFound and a taken username as common.ErrorDuplicateKey.
type Repository interface {
	// Create inserts user, whose Password must already be hashed, stamping
	// join_at and last_login_at with the current time.
	Create(ctx context.Context, user *models.User) (*models.UserProfile, error)
	// GetPasswordHash returns the stored hash for authentication.
	GetPasswordHash(ctx context.Context, username string) (string, error)
	// UpdateLastLogin sets last_login_at to now and returns it.
	UpdateLastLogin(ctx context.Context, username string) (time.Time, error)
	// All lists every user ordered by username.
	All(ctx context.Context) ([]models.UserSummary, error)
	// Get returns the profile of username.
	Get(ctx context.Context, username string) (*models.UserProfile, error)
}
