package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/messagely/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus converts a service error into a gRPC status. Internal causes are
// logged, not returned.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrorBadRequest):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrorUnauthorized):
		s.logger.Warn(ctx, "authentication failed", "error", err)
		return status.Error(codes.Unauthenticated, "invalid username/password")
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, common.ErrorConflict):
		return status.Error(codes.AlreadyExists, err.Error())
	default:
		s.logger.Error(ctx, err.Error())
		return status.Error(codes.Internal, "internal error")
	}
}

func (s *GRPCServer) Login(ctx context.Context, req *LoginRequest) (*TokenResponse, error) {

	token, err := s.auth.Login(ctx, req.Username, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Logged in", "username", req.Username)
	return &TokenResponse{Token: token}, nil
}

func (s *GRPCServer) Register(ctx context.Context, req *RegisterRequest) (*TokenResponse, error) {

	s.logger.Info(ctx, "Registration request")

	token, err := s.auth.Register(ctx, *req)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Registered", "username", req.Username)
	return &TokenResponse{Token: token}, nil
}

func (s *GRPCServer) ListUsers(ctx context.Context, _ *ListUsersRequest) (*ListUsersResponse, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &ListUsersResponse{Users: users}, nil
}

func (s *GRPCServer) GetUser(ctx context.Context, req *GetUserRequest) (*GetUserResponse, error) {
	user, err := s.users.Get(ctx, req.Username)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &GetUserResponse{User: user}, nil
}

func (s *GRPCServer) MessagesFrom(ctx context.Context, req *UserMessagesRequest) (*SentMessagesResponse, error) {
	msgs, err := s.users.MessagesFrom(ctx, req.Username)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &SentMessagesResponse{Messages: msgs}, nil
}

func (s *GRPCServer) MessagesTo(ctx context.Context, req *UserMessagesRequest) (*ReceivedMessagesResponse, error) {
	msgs, err := s.users.MessagesTo(ctx, req.Username)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &ReceivedMessagesResponse{Messages: msgs}, nil
}

func (s *GRPCServer) SendMessage(ctx context.Context, req *SendMessageRequest) (*SendMessageResponse, error) {
	msg, err := s.messages.Send(ctx, usernameFrom(ctx), req.ToUsername, req.Body)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &SendMessageResponse{Message: msg}, nil
}

func (s *GRPCServer) GetMessage(ctx context.Context, req *GetMessageRequest) (*GetMessageResponse, error) {
	msg, err := s.messages.Get(ctx, req.ID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &GetMessageResponse{Message: msg}, nil
}
