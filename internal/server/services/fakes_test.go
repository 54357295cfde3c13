package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/messagely/internal/common"
	"github.com/dmitrijs2005/messagely/internal/cryptox"
	"github.com/dmitrijs2005/messagely/internal/dbx"
	"github.com/dmitrijs2005/messagely/internal/server/auth"
	"github.com/dmitrijs2005/messagely/internal/server/models"
	"github.com/dmitrijs2005/messagely/internal/server/repositories/messages"
	"github.com/dmitrijs2005/messagely/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/messagely/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
)

// memStore backs both fake repositories. failures[method] makes that
// method return the given error.
type memStore struct {
	mu       sync.Mutex
	users    map[string]models.User
	messages []models.Message
	nextID   int64
	failures map[string]error
	clock    time.Time
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[string]models.User{},
		failures: map[string]error{},
		clock:    time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *memStore) contact(username string) models.Contact {
	u := s.users[username]
	return models.Contact{Username: u.Username, FirstName: u.FirstName, LastName: u.LastName, Phone: u.Phone}
}

func profile(u models.User) *models.UserProfile {
	return &models.UserProfile{
		Username:    u.Username,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Phone:       u.Phone,
		JoinAt:      u.JoinAt,
		LastLoginAt: u.LastLoginAt,
	}
}

type memUsers struct{ s *memStore }

func (r memUsers) Create(_ context.Context, user *models.User) (*models.UserProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failures["Users.Create"]; err != nil {
		return nil, err
	}
	if _, ok := r.s.users[user.Username]; ok {
		return nil, common.ErrorDuplicateKey
	}
	u := *user
	u.JoinAt = r.s.tick()
	u.LastLoginAt = u.JoinAt
	r.s.users[u.Username] = u
	return profile(u), nil
}

func (r memUsers) GetPasswordHash(_ context.Context, username string) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failures["Users.GetPasswordHash"]; err != nil {
		return "", err
	}
	u, ok := r.s.users[username]
	if !ok {
		return "", common.ErrorNotFound
	}
	return u.Password, nil
}

func (r memUsers) UpdateLastLogin(_ context.Context, username string) (time.Time, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failures["Users.UpdateLastLogin"]; err != nil {
		return time.Time{}, err
	}
	u, ok := r.s.users[username]
	if !ok {
		return time.Time{}, common.ErrorNotFound
	}
	u.LastLoginAt = r.s.tick()
	r.s.users[username] = u
	return u.LastLoginAt, nil
}

func (r memUsers) All(_ context.Context) ([]models.UserSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failures["Users.All"]; err != nil {
		return nil, err
	}
	out := make([]models.UserSummary, 0, len(r.s.users))
	for _, u := range r.s.users {
		out = append(out, models.UserSummary{Username: u.Username, FirstName: u.FirstName, LastName: u.LastName})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r memUsers) Get(_ context.Context, username string) (*models.UserProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failures["Users.Get"]; err != nil {
		return nil, err
	}
	u, ok := r.s.users[username]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return profile(u), nil
}

type memMessages struct{ s *memStore }

func (r memMessages) Create(_ context.Context, from, to, body string) (*models.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failures["Messages.Create"]; err != nil {
		return nil, err
	}
	_, okFrom := r.s.users[from]
	_, okTo := r.s.users[to]
	if !okFrom || !okTo {
		return nil, common.ErrorNotFound
	}
	r.s.nextID++
	m := models.Message{ID: r.s.nextID, FromUsername: from, ToUsername: to, Body: body, SentAt: r.s.tick()}
	r.s.messages = append(r.s.messages, m)
	return &m, nil
}

func (r memMessages) Get(_ context.Context, id int64) (*models.MessageDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failures["Messages.Get"]; err != nil {
		return nil, err
	}
	for _, m := range r.s.messages {
		if m.ID == id {
			return &models.MessageDetail{
				ID:       m.ID,
				FromUser: r.s.contact(m.FromUsername),
				ToUser:   r.s.contact(m.ToUsername),
				Body:     m.Body,
				SentAt:   m.SentAt,
				ReadAt:   m.ReadAt,
			}, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r memMessages) From(_ context.Context, username string) ([]models.SentMessage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failures["Messages.From"]; err != nil {
		return nil, err
	}
	out := []models.SentMessage{}
	for _, m := range r.s.messages {
		if m.FromUsername == username {
			out = append(out, models.SentMessage{ID: m.ID, ToUser: r.s.contact(m.ToUsername), Body: m.Body, SentAt: m.SentAt, ReadAt: m.ReadAt})
		}
	}
	return out, nil
}

func (r memMessages) To(_ context.Context, username string) ([]models.ReceivedMessage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failures["Messages.To"]; err != nil {
		return nil, err
	}
	out := []models.ReceivedMessage{}
	for _, m := range r.s.messages {
		if m.ToUsername == username {
			out = append(out, models.ReceivedMessage{ID: m.ID, FromUser: r.s.contact(m.FromUsername), Body: m.Body, SentAt: m.SentAt, ReadAt: m.ReadAt})
		}
	}
	return out, nil
}

type fakeManager struct {
	store *memStore
}

var _ repomanager.RepositoryManager = (*fakeManager)(nil)

func (m *fakeManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeManager) Users(dbx.DBTX) users.Repository              { return memUsers{m.store} }
func (m *fakeManager) Messages(dbx.DBTX) messages.Repository        { return memMessages{m.store} }

// countingHasher records how many comparisons were made.
type countingHasher struct {
	*cryptox.PasswordHasher
	verifies int
}

func (h *countingHasher) Verify(plaintext, hash string) (bool, error) {
	h.verifies++
	return h.PasswordHasher.Verify(plaintext, hash)
}

type env struct {
	store    *memStore
	mock     sqlmock.Sqlmock
	hasher   *countingHasher
	issuer   *auth.TokenIssuer
	auth     *AuthService
	users    *UserService
	messages *MessageService
}

func newEnv(t *testing.T) *env {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})

	h, err := cryptox.NewPasswordHasher(4)
	require.NoError(t, err)
	issuer, err := auth.NewTokenIssuer("test-secret", 0)
	require.NoError(t, err)

	store := newMemStore()
	m := &fakeManager{store: store}
	hasher := &countingHasher{PasswordHasher: h}

	return &env{
		store:    store,
		mock:     mock,
		hasher:   hasher,
		issuer:   issuer,
		auth:     NewAuthService(db, m, hasher, issuer),
		users:    NewUserService(db, m),
		messages: NewMessageService(db, m),
	}
}

func (e *env) register(t *testing.T, username, password string) {
	t.Helper()
	_, err := e.auth.Register(context.Background(), models.Registration{
		Username:  username,
		Password:  password,
		FirstName: "First " + username,
		LastName:  "Last " + username,
		Phone:     "555",
	})
	require.NoError(t, err)
}
