package services

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billpap123/artepovera-backend-sub000/internal/models"
	"github.com/billpap123/artepovera-backend-sub000/internal/models/chat"
	"github.com/billpap123/artepovera-backend-sub000/internal/services/dto"
	"github.com/billpap123/artepovera-backend-sub000/internal/testutil"
)

func TestChatService_StartChat(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()

	a := testutil.CreateArtist(t, e.db, "alice")
	b := testutil.CreateEmployer(t, e.db, "bob")

	first, err := e.chats.StartChat(ctx, e.db, a.ID, b.ID)
	require.NoError(t, err)
	second, err := e.chats.StartChat(ctx, e.db, b.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	_, err = e.chats.StartChat(ctx, e.db, a.ID, a.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))

	_, err = e.chats.StartChat(ctx, e.db, a.ID, 4242)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, httpStatus(t, err))
}

func TestChatService_FindOrCreateChatConcurrent(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	testutil.CreateUserWithID(t, e.db, 5, "employer", models.UserRoleEmployer)
	testutil.CreateUserWithID(t, e.db, 9, "artist", models.UserRoleArtist)

	const callers = 10
	chats := make([]*chat.Chat, callers)
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		a, b := uint(5), uint(9)
		if i%2 == 1 {
			a, b = b, a
		}
		wg.Add(1)
		go func(i int, a, b uint) {
			defer wg.Done()
			chats[i], errs[i] = e.chats.FindOrCreateChat(context.Background(), e.db, a, b)
		}(i, a, b)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, chats[0].ID, chats[i].ID)
	}
	assert.Equal(t, int64(1), testutil.Count(t, e.db, &chat.Chat{}, ""))
}

func TestChatService_SendMessage(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()

	a := testutil.CreateArtist(t, e.db, "alice")
	b := testutil.CreateEmployer(t, e.db, "bob")
	outsider := testutil.CreateArtist(t, e.db, "carol")

	c, err := e.chats.FindOrCreateChat(ctx, e.db, a.ID, b.ID)
	require.NoError(t, err)

	msg, err := e.chats.SendMessage(ctx, e.db, a.ID, &dto.SendMessageRequest{ChatID: c.ID, Message: "  hello bob  "})
	require.NoError(t, err)
	assert.Equal(t, "hello bob", msg.Message)
	assert.Equal(t, b.ID, msg.ReceiverID)

	pushes := e.pusher.all()
	require.Len(t, pushes, 1)
	assert.Equal(t, EventNewMessage, pushes[0].Event)
	assert.Equal(t, c.ID, pushes[0].ChatID)
	assert.Equal(t, b.ID, pushes[0].RecipientID)
	event, ok := pushes[0].Data.(*dto.ChatMessageEvent)
	require.True(t, ok)
	assert.Equal(t, a.DisplayName(), event.SenderName)

	_, err = e.chats.SendMessage(ctx, e.db, outsider.ID, &dto.SendMessageRequest{ChatID: c.ID, Message: "hi"})
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, httpStatus(t, err))

	_, err = e.chats.SendMessage(ctx, e.db, a.ID, &dto.SendMessageRequest{ChatID: 4242, Message: "hi"})
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, httpStatus(t, err))

	_, err = e.chats.SendMessage(ctx, e.db, a.ID, &dto.SendMessageRequest{ChatID: c.ID, Message: "   "})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))

	list, err := e.chats.GetMessages(ctx, e.db, b.ID, c.ID, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.Total)

	summaries, err := e.chats.GetUserChats(ctx, e.db, b.ID)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, a.ID, summaries[0].OtherUserID)
	assert.Equal(t, a.DisplayName(), summaries[0].OtherUserName)
	assert.Equal(t, 1, summaries[0].MessageCount)
}

func TestChatService_IsParticipant(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()

	a := testutil.CreateArtist(t, e.db, "alice")
	b := testutil.CreateEmployer(t, e.db, "bob")
	c, err := e.chats.FindOrCreateChat(ctx, e.db, a.ID, b.ID)
	require.NoError(t, err)

	ok, err := e.chats.IsParticipant(ctx, e.db, c.ID, a.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = e.chats.IsParticipant(ctx, e.db, c.ID, 4242)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = e.chats.IsParticipant(ctx, e.db, 4242, a.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
