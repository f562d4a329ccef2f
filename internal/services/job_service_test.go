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

func TestJobService_ApplyNotifiesEmployer(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()
	jobs := NewJobService(repositories.NewJobRepository(), e.userRepo, e.notifications)

	employer := testutil.CreateEmployer(t, e.db, "studio")
	artist := testutil.CreateArtist(t, e.db, "painter")
	rival := testutil.CreateEmployer(t, e.db, "rival")

	job, err := jobs.CreateJob(ctx, e.db, employer.ID, &dto.CreateJobRequest{
		Title:       " Mural ",
		Description: "Paint a wall",
		Category:    "painting",
		Location:    "Athens",
	})
	require.NoError(t, err)
	assert.Equal(t, "Mural", job.Title)

	app, err := jobs.Apply(ctx, e.db, artist.ID, job.ID)
	require.NoError(t, err)
	assert.Equal(t, artist.DisplayName(), app.ArtistName)

	_, err = jobs.Apply(ctx, e.db, artist.ID, job.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, httpStatus(t, err))

	notes := notificationsFor(t, e, employer.ID, models.NotificationKeyNewApplication)
	require.Len(t, notes, 1)
	assert.Equal(t, "Mural", notes[0].MessageParams["jobTitle"])
	assert.Equal(t, artist.DisplayName(), notes[0].MessageParams["artistName"])

	apps, err := jobs.GetApplications(ctx, e.db, employer.ID, job.ID)
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, artist.ID, apps[0].ArtistID)

	_, err = jobs.GetApplications(ctx, e.db, rival.ID, job.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, httpStatus(t, err))

	list, err := jobs.SearchJobs(ctx, e.db, &dto.JobSearchRequest{Category: "painting"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.Total)

	err = jobs.DeleteJob(ctx, e.db, rival.ID, false, job.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, httpStatus(t, err))

	require.NoError(t, jobs.DeleteJob(ctx, e.db, rival.ID, true, job.ID), "admins may delete any posting")

	_, err = jobs.GetJob(ctx, e.db, job.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, httpStatus(t, err))
}

func TestCommentService_AddComment(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()
	comments := NewCommentService(repositories.NewCommentRepository(), e.userRepo, e.notifications)

	artist := testutil.CreateArtist(t, e.db, "painter")
	employer := testutil.CreateEmployer(t, e.db, "studio")

	resp, err := comments.AddComment(ctx, e.db, employer.ID, artist.ID, &dto.CreateCommentRequest{Comment: " lovely portfolio "})
	require.NoError(t, err)
	assert.Equal(t, "lovely portfolio", resp.Comment)
	assert.Equal(t, employer.DisplayName(), resp.CommenterName)

	notes := notificationsFor(t, e, artist.ID, models.NotificationKeyNewComment)
	require.Len(t, notes, 1)
	assert.Equal(t, employer.DisplayName(), notes[0].MessageParams["commenterName"])

	_, err = comments.AddComment(ctx, e.db, artist.ID, artist.ID, &dto.CreateCommentRequest{Comment: "me"})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))

	_, err = comments.AddComment(ctx, e.db, artist.ID, employer.ID, &dto.CreateCommentRequest{Comment: "hi"})
	require.Error(t, err, "only artist profiles take comments")

	list, err := comments.GetComments(ctx, e.db, artist.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, comments.DeleteComment(ctx, e.db, list[0].ID))
	err = comments.DeleteComment(ctx, e.db, list[0].ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, httpStatus(t, err))
}
