package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/messagely/internal/common"
	"github.com/dmitrijs2005/messagely/internal/server/models"
	"github.com/dmitrijs2005/messagely/internal/server/repositories/repomanager"
)

// UserService exposes user profiles and their message boxes.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewUserService constructs a UserService.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager) *UserService {
	return &UserService{db: db, repomanager: m}
}

// List returns a summary of every user, ordered by username.
func (s *UserService) List(ctx context.Context) ([]models.UserSummary, error) {
	users, err := s.repomanager.Users(s.db).All(ctx)
	if err != nil {
		return nil, internalError("list users", err)
	}
	return users, nil
}

// Get returns the profile of username.
func (s *UserService) Get(ctx context.Context, username string) (*models.UserProfile, error) {
	u, err := s.repomanager.Users(s.db).Get(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: no such user: %s", common.ErrorNotFound, username)
		}
		return nil, internalError("get user", err)
	}
	return u, nil
}

// MessagesFrom lists the messages username has sent. An unknown username
// yields an empty list.
func (s *UserService) MessagesFrom(ctx context.Context, username string) ([]models.SentMessage, error) {
	msgs, err := s.repomanager.Messages(s.db).From(ctx, username)
	if err != nil {
		return nil, internalError("list sent messages", err)
	}
	return msgs, nil
}

// MessagesTo lists the messages username has received.
func (s *UserService) MessagesTo(ctx context.Context, username string) ([]models.ReceivedMessage, error) {
	msgs, err := s.repomanager.Messages(s.db).To(ctx, username)
	if err != nil {
		return nil, internalError("list received messages", err)
	}
	return msgs, nil
}
