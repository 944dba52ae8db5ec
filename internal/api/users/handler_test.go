package users

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"nontonin-api/internal/app/http/middleware"
	"nontonin-api/internal/domain/users"
	"nontonin-api/internal/infra/logging"
	"nontonin-api/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logging.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func asUser(p users.Profile, h gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.SetProfile(c, p)
		h(c)
	}
}

func TestBuildMeResponse(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := now.Add(10*24*time.Hour + time.Hour)
	pw := "hash"

	resp := BuildMeResponse(now, users.Profile{ID: "u1", Password: &pw, SubscriptionEndDate: &end})
	assert.Equal(t, "premium", resp.Subscription.Status)
	assert.True(t, resp.Subscription.Active)
	assert.Equal(t, 10, resp.Subscription.DaysLeft)
	assert.Equal(t, "premium", resp.Access.State)
	assert.Contains(t, resp.Access.Capabilities, "watch_premium")
	assert.True(t, resp.User.HasPassword)

	past := now.Add(-time.Hour)
	resp = BuildMeResponse(now, users.Profile{ID: "u1", SubscriptionEndDate: &past})
	assert.Equal(t, "free", resp.Subscription.Status)
	assert.Equal(t, 0, resp.Subscription.DaysLeft)
	assert.NotContains(t, resp.Access.Capabilities, "watch_premium")
}

func TestUpdateCurrentUser(t *testing.T) {
	_, mock := testutil.SetupTestDB(t)
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "profiles" SET "full_name"=\$1`).
		WithArgs("Sari Dewi", sqlmock.AnyArg(), "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	r := testutil.SetupTestRouter()
	r.PUT("/me", asUser(users.Profile{ID: "u1", FullName: "Sari"}, UpdateCurrentUser))

	req, _ := http.NewRequest(http.MethodPut, "/me", strings.NewReader(`{"full_name":"  Sari Dewi "}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp MeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Sari Dewi", resp.User.FullName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateCurrentUser_EmptyName(t *testing.T) {
	r := testutil.SetupTestRouter()
	r.PUT("/me", asUser(users.Profile{ID: "u1"}, UpdateCurrentUser))

	req, _ := http.NewRequest(http.MethodPut, "/me", strings.NewReader(`{"full_name":"  "}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type fakeUploader struct {
	uploaded []string
	deleted  []string
}

func (f *fakeUploader) Upload(_ context.Context, key string, _ io.ReadSeeker, _ string) (string, error) {
	f.uploaded = append(f.uploaded, key)
	return "https://cdn.test/" + key, nil
}

func (f *fakeUploader) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeUploader) KeyFromURL(u string) (string, bool) {
	if !strings.HasPrefix(u, "https://cdn.test/") {
		return "", false
	}
	return strings.TrimPrefix(u, "https://cdn.test/"), true
}

func avatarRequest(t *testing.T, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("avatar", "me.png")
	require.NoError(t, err)
	part.Write(content)
	w.Close()

	req, _ := http.NewRequest(http.MethodPost, "/me/avatar", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestAvatarUpload_ReplacesOldObject(t *testing.T) {
	_, mock := testutil.SetupTestDB(t)
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "profiles" SET "avatar_url"=\$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	store := &fakeUploader{}
	old := "https://cdn.test/avatars/u1/old.png"
	r := testutil.SetupTestRouter()
	r.POST("/me/avatar", asUser(users.Profile{ID: "u1", AvatarURL: &old}, NewAvatarHandler(store).Upload))

	png := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, avatarRequest(t, png))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Len(t, store.uploaded, 1)
	assert.True(t, strings.HasPrefix(store.uploaded[0], "avatars/u1/"))
	assert.Equal(t, []string{"avatars/u1/old.png"}, store.deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvatarUpload_RejectsNonImage(t *testing.T) {
	store := &fakeUploader{}
	r := testutil.SetupTestRouter()
	r.POST("/me/avatar", asUser(users.Profile{ID: "u1"}, NewAvatarHandler(store).Upload))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, avatarRequest(t, []byte("just text")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, store.uploaded)
}

func TestAvatarUpload_NoStorage(t *testing.T) {
	r := testutil.SetupTestRouter()
	r.POST("/me/avatar", asUser(users.Profile{ID: "u1"}, NewAvatarHandler(nil).Upload))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, avatarRequest(t, []byte("x")))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
