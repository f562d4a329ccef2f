package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billpap123/artepovera-backend-sub000/internal/auth"
	"github.com/billpap123/artepovera-backend-sub000/internal/models"
	"github.com/billpap123/artepovera-backend-sub000/internal/repositories"
	"github.com/billpap123/artepovera-backend-sub000/internal/services/dto"
	"github.com/billpap123/artepovera-backend-sub000/internal/testutil"
)

func newAuthService() (AuthService, *auth.TokenManager) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	return NewAuthService(repositories.NewUserRepository(), repositories.NewProfileRepository(), tokens), tokens
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	t.Parallel()
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	svc, tokens := newAuthService()

	user, err := svc.Register(ctx, db, &dto.RegisterRequest{
		Username:  "painter",
		Email:     "Painter@Example.com",
		Password:  "longenough",
		Fullname:  "Maria Painter",
		Role:      models.UserRoleArtist,
		IsStudent: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "painter@example.com", user.Email)
	require.NotNil(t, user.ArtistProfile)
	assert.True(t, user.ArtistProfile.IsStudent)

	_, err = svc.Register(ctx, db, &dto.RegisterRequest{
		Username: "painter",
		Email:    "other@example.com",
		Password: "longenough",
		Fullname: "Copy",
		Role:     models.UserRoleArtist,
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, httpStatus(t, err))

	_, err = svc.Register(ctx, db, &dto.RegisterRequest{
		Username: "sneaky",
		Email:    "sneaky@example.com",
		Password: "longenough",
		Fullname: "Sneaky",
		Role:     models.UserRoleAdmin,
	})
	require.Error(t, err, "admins cannot self-register")

	resp, err := svc.Login(ctx, db, &dto.LoginRequest{Email: "painter@example.com", Password: "longenough"})
	require.NoError(t, err)
	claims, err := tokens.Parse(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, string(models.UserRoleArtist), claims.Role)

	_, err = svc.Login(ctx, db, &dto.LoginRequest{Email: "painter@example.com", Password: "wrong-password"})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, httpStatus(t, err))

	_, err = svc.Login(ctx, db, &dto.LoginRequest{Email: "nobody@example.com", Password: "longenough"})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, httpStatus(t, err))
}

func TestAuthService_SeedAdmin(t *testing.T) {
	t.Parallel()
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	svc, _ := newAuthService()

	require.NoError(t, svc.SeedAdmin(ctx, db, "", ""))
	assert.Equal(t, int64(0), testutil.Count(t, db, &models.User{}, "role = ?", models.UserRoleAdmin))

	require.NoError(t, svc.SeedAdmin(ctx, db, "Root@Example.com", "supersecret"))
	require.NoError(t, svc.SeedAdmin(ctx, db, "second@example.com", "supersecret"))
	assert.Equal(t, int64(1), testutil.Count(t, db, &models.User{}, "role = ?", models.UserRoleAdmin))

	_, err := svc.Login(ctx, db, &dto.LoginRequest{Email: "root@example.com", Password: "supersecret"})
	require.NoError(t, err)
}
