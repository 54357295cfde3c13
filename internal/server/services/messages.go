package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/messagely/internal/common"
	"github.com/dmitrijs2005/messagely/internal/dbx"
	"github.com/dmitrijs2005/messagely/internal/server/models"
	"github.com/dmitrijs2005/messagely/internal/server/repositories/repomanager"
)

// MessageService sends and fetches individual messages.
type MessageService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewMessageService constructs a MessageService.
func NewMessageService(db *sql.DB, m repomanager.RepositoryManager) *MessageService {
	return &MessageService{db: db, repomanager: m}
}

// Send stores a message from one user to another. The recipient lookup and
// the insert share a transaction.
func (s *MessageService) Send(ctx context.Context, from, to, body string) (*models.Message, error) {
	if to == "" || body == "" {
		return nil, fmt.Errorf("%w: to_username and body required", common.ErrorBadRequest)
	}

	var msg *models.Message
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Users(tx).Get(ctx, to); err != nil {
			return err
		}
		var err error
		msg, err = s.repomanager.Messages(tx).Create(ctx, from, to, body)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: no such user: %s", common.ErrorNotFound, to)
		}
		return nil, internalError("send message", err)
	}
	return msg, nil
}

// Get returns a message with sender and recipient inlined.
func (s *MessageService) Get(ctx context.Context, id int64) (*models.MessageDetail, error) {
	m, err := s.repomanager.Messages(s.db).Get(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: no such message: %d", common.ErrorNotFound, id)
		}
		return nil, internalError("get message", err)
	}
	return m, nil
}
