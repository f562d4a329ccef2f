package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billpap123/artepovera-backend-sub000/internal/models"
	"github.com/billpap123/artepovera-backend-sub000/internal/repositories"
	"github.com/billpap123/artepovera-backend-sub000/internal/services/dto"
	"github.com/billpap123/artepovera-backend-sub000/internal/testutil"
)

func TestReviewService_CreateReview(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()
	reviews := NewReviewService(repositories.NewReviewRepository(), e.chatRepo, e.userRepo)

	artist := testutil.CreateArtist(t, e.db, "alice")
	employer := testutil.CreateEmployer(t, e.db, "bob")
	outsider := testutil.CreateArtist(t, e.db, "carol")

	c, err := e.chats.FindOrCreateChat(ctx, e.db, artist.ID, employer.ID)
	require.NoError(t, err)

	// an empty chat cannot be reviewed
	_, err = reviews.CreateReview(ctx, e.db, employer.ID, &dto.CreateReviewRequest{ChatID: c.ID, Rating: 5})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))

	_, err = e.chats.SendMessage(ctx, e.db, employer.ID, &dto.SendMessageRequest{ChatID: c.ID, Message: "great work"})
	require.NoError(t, err)

	_, err = reviews.CreateReview(ctx, e.db, outsider.ID, &dto.CreateReviewRequest{ChatID: c.ID, Rating: 1})
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, httpStatus(t, err))

	review, err := reviews.CreateReview(ctx, e.db, employer.ID, &dto.CreateReviewRequest{ChatID: c.ID, Rating: 4, Comment: " solid "})
	require.NoError(t, err)
	assert.Equal(t, artist.ID, review.ReviewedUserID)
	assert.Equal(t, "solid", review.Comment)
	assert.Equal(t, employer.DisplayName(), review.ReviewerName)

	stored, err := e.chatRepo.FindByID(e.db, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RatingStatusCompleted, stored.EmployerRatingStatus)
	assert.Equal(t, models.RatingStatusPending, stored.ArtistRatingStatus)

	_, err = reviews.CreateReview(ctx, e.db, employer.ID, &dto.CreateReviewRequest{ChatID: c.ID, Rating: 2})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, httpStatus(t, err))

	_, err = reviews.CreateReview(ctx, e.db, artist.ID, &dto.CreateReviewRequest{ChatID: 4242, Rating: 3})
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, httpStatus(t, err))

	summary, err := reviews.GetUserReviews(ctx, e.db, artist.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.Count)
	assert.InDelta(t, 4.0, summary.AverageRating, 0.001)
	require.Len(t, summary.Reviews, 1)
	assert.Equal(t, employer.DisplayName(), summary.Reviews[0].ReviewerName)
}
