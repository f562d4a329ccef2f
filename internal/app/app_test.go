package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/billpap123/artepovera-backend-sub000/internal/app"
	"github.com/billpap123/artepovera-backend-sub000/internal/config"
	"github.com/billpap123/artepovera-backend-sub000/internal/models"
	"github.com/billpap123/artepovera-backend-sub000/internal/models/chat"
	"github.com/billpap123/artepovera-backend-sub000/internal/tasks"
	"github.com/billpap123/artepovera-backend-sub000/internal/testutil"
)

type TestServer struct {
	Server *httptest.Server
	DB     *gorm.DB
	App    *app.App
}

func NewTestServer(t *testing.T) *TestServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.Server.Env = "test"
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.TTL = 60
	cfg.Storage.Type = "local"
	cfg.Storage.BasePath = t.TempDir()
	cfg.Storage.BaseURL = "/uploads"
	cfg.Upload.MaxSize = 1 << 20
	cfg.Upload.AllowedTypes = []string{"image/png"}
	cfg.Queue.Concurrency = 4
	cfg.Queue.MaxRetry = 2

	db := testutil.NewTestDB(t)
	application, err := app.New(context.Background(), cfg, db)
	require.NoError(t, err)
	if q, ok := application.Worker.(*tasks.LocalQueue); ok {
		q.RetryDelay = nil
	}

	ts := &TestServer{Server: httptest.NewServer(application.Router), DB: db, App: application}
	t.Cleanup(ts.Close)
	return ts
}

func (ts *TestServer) Close() {
	ts.Server.Close()
	ts.App.Manager.Close()
	ts.drain()
}

// drain waits for background fan-out started by earlier requests.
func (ts *TestServer) drain() {
	if q, ok := ts.App.Worker.(*tasks.LocalQueue); ok {
		q.Drain()
	}
}

func (ts *TestServer) SendRequest(t *testing.T, method, path, token string, body interface{}) (*http.Response, string) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, reqBody)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return ts.do(t, req)
}

func (ts *TestServer) do(t *testing.T, req *http.Request) (*http.Response, string) {
	t.Helper()
	res, err := ts.Server.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, string(raw)
}

// Login creates a user through the fixtures and returns its bearer token.
func (ts *TestServer) Login(t *testing.T, user *models.User) string {
	t.Helper()
	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    user.Email,
		"password": testutil.DefaultPassword,
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

func TestHealth(t *testing.T) {
	t.Parallel()
	ts := NewTestServer(t)

	res, body := ts.SendRequest(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.JSONEq(t, `{"status":"ok","database":"up"}`, body)
}

func TestAuth_RegisterLoginMe(t *testing.T) {
	t.Parallel()
	ts := NewTestServer(t)

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"username":     "studio",
		"email":        "studio@example.com",
		"password":     "password123",
		"fullname":     "Studio Ltd",
		"role":         "employer",
		"company_name": "Studio",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)

	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"username": "studio",
		"email":    "studio@example.com",
		"password": "password123",
		"fullname": "Studio Ltd",
		"role":     "employer",
	})
	assert.Equal(t, http.StatusConflict, res.StatusCode, body)

	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"username": "x",
		"email":    "not-an-email",
		"password": "short",
		"role":     "admin",
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode, body)

	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "studio@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &login))

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/users/me", login.Token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.Contains(t, body, `"company_name":"Studio"`)

	res, _ = ts.SendRequest(t, http.MethodGet, "/api/v1/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestLike_MutualMatchOverHTTP(t *testing.T) {
	t.Parallel()
	ts := NewTestServer(t)

	employer := testutil.CreateUserWithID(t, ts.DB, 5, "employer", models.UserRoleEmployer)
	artist := testutil.CreateUserWithID(t, ts.DB, 9, "artist", models.UserRoleArtist)
	employerToken := ts.Login(t, employer)
	artistToken := ts.Login(t, artist)

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/users/9/like", employerToken, nil)
	require.Equal(t, http.StatusCreated, res.StatusCode, body)
	assert.JSONEq(t, `{"message":"Like added","liked":true}`, body)
	ts.drain()

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/notifications/9", artistToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.Contains(t, body, models.NotificationKeyNewLike)

	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/users/5/like", artistToken, nil)
	require.Equal(t, http.StatusCreated, res.StatusCode, body)
	ts.drain()

	var chats []chat.Chat
	require.NoError(t, ts.DB.Find(&chats).Error)
	require.Len(t, chats, 1)
	link := fmt.Sprintf("/chats/%d", chats[0].ID)

	for _, token := range []string{employerToken, artistToken} {
		res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/chats", token, nil)
		require.Equal(t, http.StatusOK, res.StatusCode, body)
		assert.Contains(t, body, fmt.Sprintf(`"chat_id":%d`, chats[0].ID))
	}

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/notifications/5", employerToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.Contains(t, body, models.NotificationKeyNewMatch)
	assert.Contains(t, body, link)

	// someone else's notifications are off limits
	res, _ = ts.SendRequest(t, http.MethodGet, "/api/v1/notifications/9", employerToken, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	// unliking answers 200 and leaves the chat alone
	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/users/9/like", employerToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.JSONEq(t, `{"message":"Like removed","liked":false}`, body)
	assert.Equal(t, int64(1), testutil.Count(t, ts.DB, &chat.Chat{}, ""))

	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/users/5/like", employerToken, nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode, "self like")
	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/users/777/like", employerToken, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/users/abc/like", employerToken, nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestChat_SendAndReview(t *testing.T) {
	t.Parallel()
	ts := NewTestServer(t)

	artist := testutil.CreateArtist(t, ts.DB, "painter")
	employer := testutil.CreateEmployer(t, ts.DB, "studio")
	artistToken := ts.Login(t, artist)
	employerToken := ts.Login(t, employer)

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/chats", employerToken, map[string]uint{"receiverId": artist.ID})
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	var created struct {
		Chat chat.Chat `json:"chat"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &created))
	require.NotZero(t, created.Chat.ID)

	review := map[string]interface{}{"chat_id": created.Chat.ID, "rating": 5}
	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/reviews", employerToken, review)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode, "no messages yet")

	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/chats/send", employerToken, map[string]interface{}{
		"chat_id": created.Chat.ID,
		"message": "Are you available next week?",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)

	res, body = ts.SendRequest(t, http.MethodGet, fmt.Sprintf("/api/v1/chats/%d/messages", created.Chat.ID), artistToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.Contains(t, body, "Are you available next week?")

	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/reviews", employerToken, review)
	require.Equal(t, http.StatusCreated, res.StatusCode, body)
	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/reviews", employerToken, review)
	assert.Equal(t, http.StatusConflict, res.StatusCode)

	res, body = ts.SendRequest(t, http.MethodGet, fmt.Sprintf("/api/v1/users/%d/reviews", artist.ID), "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.Contains(t, body, `"count":1`)
}

func TestJobs_PostApplyNotify(t *testing.T) {
	t.Parallel()
	ts := NewTestServer(t)

	artist := testutil.CreateArtist(t, ts.DB, "painter")
	employer := testutil.CreateEmployer(t, ts.DB, "studio")
	artistToken := ts.Login(t, artist)
	employerToken := ts.Login(t, employer)

	job := map[string]interface{}{"title": "Mural", "description": "Paint a wall", "category": "painting"}
	res, _ := ts.SendRequest(t, http.MethodPost, "/api/v1/jobs", artistToken, job)
	assert.Equal(t, http.StatusForbidden, res.StatusCode, "artists cannot post jobs")

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/jobs", employerToken, job)
	require.Equal(t, http.StatusCreated, res.StatusCode, body)
	var posted struct {
		ID uint `json:"job_id"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &posted))

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/jobs?category=painting", "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.Contains(t, body, `"total":1`)

	res, body = ts.SendRequest(t, http.MethodPost, fmt.Sprintf("/api/v1/jobs/%d/apply", posted.ID), artistToken, nil)
	require.Equal(t, http.StatusCreated, res.StatusCode, body)

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/notifications/unread-count", employerToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.JSONEq(t, `{"unread_count":1}`, body)
}

func TestUploadProfilePicture(t *testing.T) {
	t.Parallel()
	ts := NewTestServer(t)

	artist := testutil.CreateArtist(t, ts.DB, "painter")
	token := ts.Login(t, artist)

	upload := func(name string, content []byte) (*http.Response, string) {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		part, err := w.CreateFormFile("image", name)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
		require.NoError(t, w.Close())

		req, err := http.NewRequest(http.MethodPost, ts.Server.URL+"/api/v1/users/me/profile-picture", &buf)
		require.NoError(t, err)
		req.Header.Set("Content-Type", w.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+token)
		return ts.do(t, req)
	}

	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)
	res, body := upload("me.png", png)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.Contains(t, body, `"profile_picture":"/uploads/profile-pictures/`)

	res, body = upload("notes.txt", []byte("just some text"))
	assert.Equal(t, http.StatusUnsupportedMediaType, res.StatusCode, body)
}
