package repositories

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billpap123/artepovera-backend-sub000/internal/models"
	"github.com/billpap123/artepovera-backend-sub000/internal/models/chat"
	"github.com/billpap123/artepovera-backend-sub000/internal/testutil"
)

func TestChatRepository_FindOrCreateByPair(t *testing.T) {
	t.Parallel()
	db := testutil.NewTestDB(t)
	repo := NewChatRepository()

	artist := testutil.CreateUserWithID(t, db, 9, "artist", models.UserRoleArtist)
	employer := testutil.CreateUserWithID(t, db, 5, "employer", models.UserRoleEmployer)

	c, created, err := repo.FindOrCreateByPair(db, artist.ID, employer.ID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, uint(5), c.User1ID, "smaller id goes first")
	assert.Equal(t, uint(9), c.User2ID)
	assert.Equal(t, models.RatingStatusPending, c.ArtistRatingStatus)
	assert.Equal(t, models.RatingStatusPending, c.EmployerRatingStatus)

	again, created, err := repo.FindOrCreateByPair(db, employer.ID, artist.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, c.ID, again.ID, "argument order must not matter")

	assert.Equal(t, int64(1), testutil.Count(t, db, &chat.Chat{}, ""))
}

func TestChatRepository_FindOrCreateByPairConcurrent(t *testing.T) {
	t.Parallel()
	db := testutil.NewTestDB(t)
	repo := NewChatRepository()

	testutil.CreateUserWithID(t, db, 5, "employer", models.UserRoleEmployer)
	testutil.CreateUserWithID(t, db, 9, "artist", models.UserRoleArtist)

	const callers = 16
	ids := make([]uint, callers)
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
			c, _, err := repo.FindOrCreateByPair(db, a, b)
			errs[i] = err
			if err == nil {
				ids[i] = c.ID
			}
		}(i, a, b)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i], "caller %d", i)
		assert.Equal(t, ids[0], ids[i], "caller %d got another chat", i)
	}
	assert.NotZero(t, ids[0])
	assert.Equal(t, int64(1), testutil.Count(t, db, &chat.Chat{}, ""))
}

func TestChatRepository_CreateMessage(t *testing.T) {
	t.Parallel()
	db := testutil.NewTestDB(t)
	repo := NewChatRepository()

	a := testutil.CreateArtist(t, db, "alice")
	b := testutil.CreateEmployer(t, db, "bob")
	c, _, err := repo.FindOrCreateByPair(db, a.ID, b.ID)
	require.NoError(t, err)

	for _, text := range []string{"hello", "hi there"} {
		require.NoError(t, repo.CreateMessage(db, &chat.Message{
			ChatID:     c.ID,
			SenderID:   a.ID,
			ReceiverID: b.ID,
			Message:    text,
		}))
	}

	stored, err := repo.FindByID(db, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.MessageCount)

	messages, total, err := repo.FindMessages(db, c.ID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, messages, 2)
	assert.Equal(t, "hello", messages[0].Message)

	err = repo.CreateMessage(db, &chat.Message{ChatID: 9999, SenderID: a.ID, ReceiverID: b.ID, Message: "lost"})
	assert.ErrorIs(t, err, ErrChatNotFound)
	assert.Equal(t, int64(2), testutil.Count(t, db, &chat.Message{}, ""), "failed send must roll back")
}

func TestChatRepository_SetRatingStatus(t *testing.T) {
	t.Parallel()
	db := testutil.NewTestDB(t)
	repo := NewChatRepository()

	a := testutil.CreateArtist(t, db, "alice")
	b := testutil.CreateEmployer(t, db, "bob")
	c, _, err := repo.FindOrCreateByPair(db, a.ID, b.ID)
	require.NoError(t, err)

	require.NoError(t, repo.SetRatingStatus(db, c.ID, "artist_rating_status", models.RatingStatusCompleted))

	stored, err := repo.FindByID(db, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RatingStatusCompleted, stored.ArtistRatingStatus)
	assert.Equal(t, models.RatingStatusPending, stored.EmployerRatingStatus)

	assert.ErrorIs(t, repo.SetRatingStatus(db, 9999, "artist_rating_status", models.RatingStatusCompleted), ErrChatNotFound)
}
