// Package grpc serves the Messagely API over gRPC. Messages are plain Go
// structs carried by a JSON codec; the standard health service is
// registered alongside.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/messagely/internal/logging"
	"github.com/dmitrijs2005/messagely/internal/server/models"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type AuthService interface {
	Login(ctx context.Context, username, password string) (string, error)
	Register(ctx context.Context, reg models.Registration) (string, error)
}

type UserService interface {
	List(ctx context.Context) ([]models.UserSummary, error)
	Get(ctx context.Context, username string) (*models.UserProfile, error)
	MessagesFrom(ctx context.Context, username string) ([]models.SentMessage, error)
	MessagesTo(ctx context.Context, username string) ([]models.ReceivedMessage, error)
}

type MessageService interface {
	Send(ctx context.Context, from, to, body string) (*models.Message, error)
	Get(ctx context.Context, id int64) (*models.MessageDetail, error)
}

type TokenParser interface {
	Parse(token string) (string, error)
}

type GRPCServer struct {
	address  string
	auth     AuthService
	users    UserService
	messages MessageService
	tokens   TokenParser
	logger   logging.Logger
	health   *health.Server
}

var _ MessagelyServer = (*GRPCServer)(nil)

func NewGRPCServer(a string, l logging.Logger, as AuthService, us UserService, ms MessageService, tp TokenParser) *GRPCServer {
	return &GRPCServer{
		address:  a,
		logger:   l.With("module", "grpc_server"),
		auth:     as,
		users:    us,
		messages: ms,
		tokens:   tp,
		health:   health.NewServer(),
	}
}

// newServer builds a grpc.Server with the Messagely and health services
// registered.
func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.accessTokenInterceptor))

	RegisterMessagelyServer(srv, s)
	healthpb.RegisterHealthServer(srv, s.health)
	s.health.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)

	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.serve(ctx, listen)
}

// serve blocks until listen fails or ctx is done. The stop goroutine exits
// in both cases.
func (s *GRPCServer) serve(ctx context.Context, listen net.Listener) error {
	srv := s.newServer()

	served := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		select {
		case <-ctx.Done():
			s.logger.Info(ctx, "Stopping gRPC server...")
			s.health.Shutdown()
			srv.GracefulStop()
		case <-served:
		}
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	err := srv.Serve(listen)
	close(served)
	<-stopped

	return err
}
