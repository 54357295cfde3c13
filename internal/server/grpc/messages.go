package grpc

import "github.com/dmitrijs2005/messagely/internal/server/models"

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest = models.Registration

type TokenResponse struct {
	Token string `json:"token"`
}

type ListUsersRequest struct{}

type ListUsersResponse struct {
	Users []models.UserSummary `json:"users"`
}

type GetUserRequest struct {
	Username string `json:"username"`
}

type GetUserResponse struct {
	User *models.UserProfile `json:"user"`
}

type UserMessagesRequest struct {
	Username string `json:"username"`
}

type SentMessagesResponse struct {
	Messages []models.SentMessage `json:"messages"`
}

type ReceivedMessagesResponse struct {
	Messages []models.ReceivedMessage `json:"messages"`
}

// SendMessageRequest is sent on behalf of the token's user.
type SendMessageRequest struct {
	ToUsername string `json:"to_username"`
	Body       string `json:"body"`
}

type SendMessageResponse struct {
	Message *models.Message `json:"message"`
}

type GetMessageRequest struct {
	ID int64 `json:"id"`
}

type GetMessageResponse struct {
	Message *models.MessageDetail `json:"message"`
}
