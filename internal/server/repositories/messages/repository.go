// Package messages provides access to the messages relation joined with
// the profiles of the users on either end.
package messages

import (
	"context"

	"github.com/dmitrijs2005/messagely/internal/server/models"
)

// Repository is the message store. List methods return messages in
// insertion order (ascending id) and an empty, non-nil slice when there are
// none; they do not check that the user exists.
type Repository interface {
	// Create stores a message with sent_at set to now. An unknown sender or
	// recipient yields common.ErrorNotFound.
	Create(ctx context.Context, from, to, body string) (*models.Message, error)
	// Get returns a message with both profiles inlined.
	Get(ctx context.Context, id int64) (*models.MessageDetail, error)
	// From lists messages sent by username with the recipient inlined.
	From(ctx context.Context, username string) ([]models.SentMessage, error)
	// To lists messages received by username with the sender inlined.
	To(ctx context.Context, username string) ([]models.ReceivedMessage, error)
}
