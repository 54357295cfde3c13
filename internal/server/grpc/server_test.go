package grpc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/dmitrijs2005/messagely/internal/common"
	"github.com/dmitrijs2005/messagely/internal/logging"
	"github.com/dmitrijs2005/messagely/internal/server/auth"
	"github.com/dmitrijs2005/messagely/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

type stubAuth struct{}

func (stubAuth) Login(_ context.Context, u, p string) (string, error) {
	switch {
	case u == "" || p == "":
		return "", fmt.Errorf("%w: username and password required", common.ErrorBadRequest)
	case u == "alice" && p == "secret1":
		return "tok-alice", nil
	case u == "broken":
		return "", fmt.Errorf("%w: update last login: %v", common.ErrorInternal, errors.New("conn reset"))
	}
	return "", common.ErrorUnauthorized
}

func (stubAuth) Register(_ context.Context, reg models.Registration) (string, error) {
	if reg.Username == "taken" {
		return "", fmt.Errorf("%w: username taken", common.ErrorConflict)
	}
	return "tok-" + reg.Username, nil
}

type stubUsers struct{}

func (stubUsers) List(context.Context) ([]models.UserSummary, error) {
	return []models.UserSummary{{Username: "alice"}, {Username: "bob"}}, nil
}

func (stubUsers) Get(_ context.Context, u string) (*models.UserProfile, error) {
	if u != "bob" {
		return nil, fmt.Errorf("%w: no such user: %s", common.ErrorNotFound, u)
	}
	return &models.UserProfile{Username: "bob", Phone: "555"}, nil
}

func (stubUsers) MessagesFrom(_ context.Context, u string) ([]models.SentMessage, error) {
	return []models.SentMessage{{ID: 1, ToUser: models.Contact{Username: "bob"}, Body: "from " + u}}, nil
}

func (stubUsers) MessagesTo(context.Context, string) ([]models.ReceivedMessage, error) {
	return []models.ReceivedMessage{}, nil
}

type stubMessages struct{}

func (stubMessages) Send(_ context.Context, from, to, body string) (*models.Message, error) {
	return &models.Message{ID: 3, FromUsername: from, ToUsername: to, Body: body}, nil
}

func (stubMessages) Get(_ context.Context, id int64) (*models.MessageDetail, error) {
	if id != 3 {
		return nil, common.ErrorNotFound
	}
	return &models.MessageDetail{ID: 3, FromUser: models.Contact{Username: "alice"}, Body: "hi"}, nil
}

func startBufServer(t *testing.T) (*Client, *grpc.ClientConn, *auth.TokenIssuer) {
	t.Helper()

	issuer, err := auth.NewTokenIssuer("test-secret", 0)
	require.NoError(t, err)

	s := NewGRPCServer("bufnet", logging.Nop(), stubAuth{}, stubUsers{}, stubMessages{}, issuer)
	srv := s.newServer()

	lis := bufconn.Listen(1 << 20)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return NewClient(conn), conn, issuer
}

func TestLoginAndRegister(t *testing.T) {
	c, _, _ := startBufServer(t)
	ctx := context.Background()

	resp, err := c.Login(ctx, &LoginRequest{Username: "alice", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "tok-alice", resp.Token)

	_, err = c.Login(ctx, &LoginRequest{Username: "alice", Password: "nope"})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	_, err = c.Login(ctx, &LoginRequest{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = c.Login(ctx, &LoginRequest{Username: "broken", Password: "x"})
	assert.Equal(t, codes.Internal, status.Code(err))
	assert.NotContains(t, status.Convert(err).Message(), "conn reset")

	reg, err := c.Register(ctx, &RegisterRequest{Username: "carol", Password: "p", FirstName: "C", LastName: "D", Phone: "1"})
	require.NoError(t, err)
	assert.Equal(t, "tok-carol", reg.Token)

	_, err = c.Register(ctx, &RegisterRequest{Username: "taken"})
	assert.Equal(t, codes.AlreadyExists, status.Code(err))
}

func TestProtectedMethodsRequireToken(t *testing.T) {
	c, _, issuer := startBufServer(t)
	ctx := context.Background()

	_, err := c.ListUsers(ctx, &ListUsersRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
	assert.Equal(t, "missing token", status.Convert(err).Message())

	_, err = c.ListUsers(WithToken(ctx, "garbage"), &ListUsersRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
	assert.Equal(t, "invalid token", status.Convert(err).Message())

	tok, err := issuer.Issue("alice")
	require.NoError(t, err)
	users, err := c.ListUsers(WithToken(ctx, tok), &ListUsersRequest{})
	require.NoError(t, err)
	require.Len(t, users.Users, 2)
	assert.Equal(t, "alice", users.Users[0].Username)
}

func TestAuthenticatedCalls(t *testing.T) {
	c, _, issuer := startBufServer(t)
	tok, err := issuer.Issue("alice")
	require.NoError(t, err)
	ctx := WithToken(context.Background(), tok)

	u, err := c.GetUser(ctx, &GetUserRequest{Username: "bob"})
	require.NoError(t, err)
	assert.Equal(t, "555", u.User.Phone)

	_, err = c.GetUser(ctx, &GetUserRequest{Username: "ghost"})
	assert.Equal(t, codes.NotFound, status.Code(err))

	from, err := c.MessagesFrom(ctx, &UserMessagesRequest{Username: "alice"})
	require.NoError(t, err)
	require.Len(t, from.Messages, 1)
	assert.Equal(t, "bob", from.Messages[0].ToUser.Username)

	to, err := c.MessagesTo(ctx, &UserMessagesRequest{Username: "alice"})
	require.NoError(t, err)
	assert.Empty(t, to.Messages)

	sent, err := c.SendMessage(ctx, &SendMessageRequest{ToUsername: "bob", Body: "hey"})
	require.NoError(t, err)
	assert.Equal(t, "alice", sent.Message.FromUsername)
	assert.Equal(t, "bob", sent.Message.ToUsername)

	got, err := c.GetMessage(ctx, &GetMessageRequest{ID: 3})
	require.NoError(t, err)
	assert.Equal(t, "hi", got.Message.Body)

	_, err = c.GetMessage(ctx, &GetMessageRequest{ID: 4})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestHealthService(t *testing.T) {
	_, conn, _ := startBufServer(t)

	resp, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.Status)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	srv := NewGRPCServer("127.0.0.1:0", logging.Nop(), stubAuth{}, stubUsers{}, stubMessages{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error on graceful stop: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	t.Parallel()

	srv := NewGRPCServer("127.0.0.1:99999", logging.Nop(), stubAuth{}, stubUsers{}, stubMessages{}, nil)

	if err := srv.Run(context.Background()); err == nil {
		t.Fatal("expected error from Run on bad address, got nil")
	}
}

// brokenListener fails every Accept so Serve returns while ctx is still live.
type brokenListener struct {
	net.Listener
}

func (brokenListener) Accept() (net.Conn, error) {
	return nil, errors.New("accept failed")
}

func TestServe_ReturnsWhenListenerFails(t *testing.T) {
	t.Parallel()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := NewGRPCServer("", logging.Nop(), stubAuth{}, stubUsers{}, stubMessages{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.serve(ctx, brokenListener{lis})
	}()

	select {
	case err := <-done:
		assert.ErrorContains(t, err, "accept failed")
	case <-time.After(2 * time.Second):
		t.Fatal("serve did not return after listener failure")
	}
}
