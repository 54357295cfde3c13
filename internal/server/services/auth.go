// Package services contains server-side business logic. AuthService
// implements login and registration on top of the user repository, the
// credential store and the token issuer; UserService and MessageService
// serve the read and send paths.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/messagely/internal/common"
	"github.com/dmitrijs2005/messagely/internal/cryptox"
	"github.com/dmitrijs2005/messagely/internal/server/models"
	"github.com/dmitrijs2005/messagely/internal/server/repositories/repomanager"
)

// PasswordHasher is the credential store used by AuthService.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) (bool, error)
}

// TokenIssuer signs a token bound to a username.
type TokenIssuer interface {
	Issue(username string) (string, error)
}

// AuthService verifies credentials and issues tokens.
//
// Unknown usernames and wrong passwords are indistinguishable to callers:
// both yield common.ErrorUnauthorized, and an unknown username still pays
// for one bcrypt comparison.
type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      PasswordHasher
	tokens      TokenIssuer

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService constructs an AuthService.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, hasher PasswordHasher, tokens TokenIssuer) *AuthService {
	return &AuthService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		tokens:      tokens,
	}
}

// Login checks username/password, stamps last_login_at and returns a token.
// A failed last-login update fails the whole login.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", fmt.Errorf("%w: username and password required", common.ErrorBadRequest)
	}

	repo := s.repomanager.Users(s.db)

	hash, err := repo.GetPasswordHash(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_, _ = s.hasher.Verify(password, s.placeholderHash())
			return "", common.ErrorUnauthorized
		}
		return "", internalError("look up credentials", err)
	}

	ok, err := s.hasher.Verify(password, hash)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorUnauthorized, err)
	}
	if !ok {
		return "", common.ErrorUnauthorized
	}

	if _, err := repo.UpdateLastLogin(ctx, username); err != nil {
		return "", internalError("update last login", err)
	}

	return s.issue(username)
}

// Register creates the user described by reg and returns a token for it.
// The user row and the token are not coupled: if issuing fails after the
// insert, the user exists and can log in.
func (s *AuthService) Register(ctx context.Context, reg models.Registration) (string, error) {
	if missing := missingFields(reg); len(missing) > 0 {
		return "", fmt.Errorf("%w: missing %s", common.ErrorBadRequest, strings.Join(missing, ", "))
	}

	hash, err := s.hasher.Hash(reg.Password)
	if err != nil {
		if errors.Is(err, cryptox.ErrPasswordTooLong) {
			return "", fmt.Errorf("%w: %v", common.ErrorBadRequest, err)
		}
		return "", internalError("hash password", err)
	}

	user := &models.User{
		Username:  reg.Username,
		Password:  hash,
		FirstName: reg.FirstName,
		LastName:  reg.LastName,
		Phone:     reg.Phone,
	}

	if _, err := s.repomanager.Users(s.db).Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrorDuplicateKey) {
			return "", fmt.Errorf("%w: username %q already taken", common.ErrorConflict, reg.Username)
		}
		return "", internalError("create user", err)
	}

	return s.issue(reg.Username)
}

// --- helpers below ---

func (s *AuthService) issue(username string) (string, error) {
	token, err := s.tokens.Issue(username)
	if err != nil {
		return "", internalError("issue token", err)
	}
	return token, nil
}

// placeholderHash is compared against when the username is unknown. If it
// cannot be produced, Verify fails fast on the empty hash, which is still
// a rejection.
func (s *AuthService) placeholderHash() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash("messagely-placeholder")
	})
	return s.dummyHash
}

func missingFields(reg models.Registration) []string {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"username", reg.Username},
		{"password", reg.Password},
		{"first_name", reg.FirstName},
		{"last_name", reg.LastName},
		{"phone", reg.Phone},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

func internalError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", common.ErrorInternal, op, err)
}
