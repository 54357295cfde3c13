package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/messagely/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_ListAndGet(t *testing.T) {
	e := newEnv(t)
	e.register(t, "bob", "pw")
	e.register(t, "alice", "pw")
	ctx := context.Background()

	list, err := e.users.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "alice", list[0].Username)
	assert.Equal(t, "bob", list[1].Username)

	p, err := e.users.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "First alice", p.FirstName)
	assert.Equal(t, "555", p.Phone)

	_, err = e.users.Get(ctx, "nobody")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestUserService_List_Empty(t *testing.T) {
	e := newEnv(t)

	list, err := e.users.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestUserService_MessagesBetweenAliceAndBob(t *testing.T) {
	e := newEnv(t)
	e.register(t, "alice", "pw")
	e.register(t, "bob", "pw")
	ctx := context.Background()

	e.mock.ExpectBegin()
	e.mock.ExpectCommit()
	_, err := e.messages.Send(ctx, "alice", "bob", "hi bob")
	require.NoError(t, err)

	e.mock.ExpectBegin()
	e.mock.ExpectCommit()
	_, err = e.messages.Send(ctx, "bob", "alice", "hi alice")
	require.NoError(t, err)

	sent, err := e.users.MessagesFrom(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, "bob", sent[0].ToUser.Username)
	assert.Equal(t, "hi bob", sent[0].Body)
	assert.Nil(t, sent[0].ReadAt)

	received, err := e.users.MessagesTo(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, "bob", received[0].FromUser.Username)
	assert.Equal(t, "hi alice", received[0].Body)
}

func TestUserService_Messages_EmptyAndUnknown(t *testing.T) {
	e := newEnv(t)
	e.register(t, "alice", "pw")
	ctx := context.Background()

	sent, err := e.users.MessagesFrom(ctx, "alice")
	require.NoError(t, err)
	assert.NotNil(t, sent)
	assert.Empty(t, sent)

	received, err := e.users.MessagesTo(ctx, "ghost")
	require.NoError(t, err)
	assert.Empty(t, received)
}

func TestUserService_StoreFailuresAreInternal(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	boom := errors.New("boom")
	e.store.failures["Users.All"] = boom
	e.store.failures["Users.Get"] = boom
	e.store.failures["Messages.From"] = boom
	e.store.failures["Messages.To"] = boom

	_, err := e.users.List(ctx)
	assert.ErrorIs(t, err, common.ErrorInternal)
	_, err = e.users.Get(ctx, "alice")
	assert.ErrorIs(t, err, common.ErrorInternal)
	_, err = e.users.MessagesFrom(ctx, "alice")
	assert.ErrorIs(t, err, common.ErrorInternal)
	_, err = e.users.MessagesTo(ctx, "alice")
	assert.ErrorIs(t, err, common.ErrorInternal)
}
