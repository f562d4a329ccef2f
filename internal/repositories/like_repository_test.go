package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billpap123/artepovera-backend-sub000/internal/models"
	"github.com/billpap123/artepovera-backend-sub000/internal/testutil"
)

func TestLikeRepository_CreateIfAbsent(t *testing.T) {
	t.Parallel()
	db := testutil.NewTestDB(t)
	repo := NewLikeRepository()

	a := testutil.CreateArtist(t, db, "alice")
	b := testutil.CreateEmployer(t, db, "bob")

	first := &models.Like{UserID: a.ID, LikedUserID: b.ID}
	created, err := repo.CreateIfAbsent(db, first)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotZero(t, first.ID)

	second := &models.Like{UserID: a.ID, LikedUserID: b.ID}
	created, err = repo.CreateIfAbsent(db, second)
	require.NoError(t, err)
	assert.False(t, created, "duplicate like must not be inserted")

	assert.Equal(t, int64(1), testutil.Count(t, db, &models.Like{}, ""))

	// the reverse direction is a different edge
	created, err = repo.CreateIfAbsent(db, &models.Like{UserID: b.ID, LikedUserID: a.ID})
	require.NoError(t, err)
	assert.True(t, created)
}

func TestLikeRepository_FindExistsDelete(t *testing.T) {
	t.Parallel()
	db := testutil.NewTestDB(t)
	repo := NewLikeRepository()

	a := testutil.CreateArtist(t, db, "alice")
	b := testutil.CreateArtist(t, db, "bob")

	_, err := repo.Find(db, a.ID, b.ID)
	assert.ErrorIs(t, err, ErrLikeNotFound)

	like := &models.Like{UserID: a.ID, LikedUserID: b.ID}
	_, err = repo.CreateIfAbsent(db, like)
	require.NoError(t, err)

	found, err := repo.Find(db, a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, like.ID, found.ID)

	exists, err := repo.Exists(db, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = repo.Exists(db, b.ID, a.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	count, err := repo.CountReceived(db, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	deleted, err := repo.Delete(db, like.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(db, like.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}
