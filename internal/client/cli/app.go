package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/messagely/internal/client/config"
	gs "github.com/dmitrijs2005/messagely/internal/server/grpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type Mode string

const defaultOnlineCheckInterval = 3 * time.Second

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// apiClient is the part of gs.Client the CLI uses.
type apiClient interface {
	Login(ctx context.Context, in *gs.LoginRequest, opts ...grpc.CallOption) (*gs.TokenResponse, error)
	Register(ctx context.Context, in *gs.RegisterRequest, opts ...grpc.CallOption) (*gs.TokenResponse, error)
	ListUsers(ctx context.Context, in *gs.ListUsersRequest, opts ...grpc.CallOption) (*gs.ListUsersResponse, error)
	GetUser(ctx context.Context, in *gs.GetUserRequest, opts ...grpc.CallOption) (*gs.GetUserResponse, error)
	MessagesFrom(ctx context.Context, in *gs.UserMessagesRequest, opts ...grpc.CallOption) (*gs.SentMessagesResponse, error)
	MessagesTo(ctx context.Context, in *gs.UserMessagesRequest, opts ...grpc.CallOption) (*gs.ReceivedMessagesResponse, error)
	SendMessage(ctx context.Context, in *gs.SendMessageRequest, opts ...grpc.CallOption) (*gs.SendMessageResponse, error)
	GetMessage(ctx context.Context, in *gs.GetMessageRequest, opts ...grpc.CallOption) (*gs.GetMessageResponse, error)
}

type App struct {
	config   *config.Config
	api      apiClient
	health   healthpb.HealthClient
	conn     io.Closer
	token    string
	userName string
	reader   *bufio.Reader
	out      io.Writer

	mu   sync.Mutex
	mode Mode
}

func NewApp(c *config.Config) (*App, error) {

	conn, err := grpc.NewClient(c.ServerEndpointAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("grpc client: %w", err)
	}

	return &App{
		config: c,
		api:    gs.NewClient(conn),
		health: healthpb.NewHealthClient(conn),
		conn:   conn,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.conn.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.token != ""
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.mode = mode
}

// checkOnline asks the server's health service whether Messagely is serving.
func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	resp, err := a.health.Check(ctx, &healthpb.HealthCheckRequest{Service: gs.ServiceName})
	if err != nil || resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {

	a.checkOnline(ctx)

	if interval <= 0 {
		interval = defaultOnlineCheckInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// callCtx bounds a request by the configured timeout and attaches the
// session token, if any.
func (a *App) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.token != "" {
		ctx = gs.WithToken(ctx, a.token)
	}
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}
