package admin

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"nontonin-api/internal/app/http/middleware"
	"nontonin-api/internal/domain/movies"
	"nontonin-api/internal/domain/users"
	"nontonin-api/internal/infra/logging"
	"nontonin-api/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	adminID  = "a0000000-0000-4000-8000-000000000001"
	targetID = "b0000000-0000-4000-8000-000000000002"
)

var (
	admin      = users.Profile{ID: adminID, Role: users.RoleAdmin, Email: "admin@nontonin.id"}
	superAdmin = users.Profile{ID: adminID, Role: users.RoleSuperAdmin, Email: "root@nontonin.id"}
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logging.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func serve(actor users.Profile, method, route, target, body string, h gin.HandlerFunc) *httptest.ResponseRecorder {
	r := testutil.SetupTestRouter()
	r.Handle(method, route, func(c *gin.Context) {
		middleware.SetProfile(c, actor)
		h(c)
	})
	req, _ := http.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func expectTarget(mock sqlmock.Sqlmock, role string) {
	mock.ExpectQuery(`SELECT \* FROM "profiles" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "role"}).AddRow(targetID, "u@nontonin.id", role))
}

func TestUpdateUserStatus(t *testing.T) {
	_, mock := testutil.SetupTestDB(t)
	expectTarget(mock, users.RoleUser)
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "profiles" SET "status"=\$1,"updated_at"=\$2 WHERE id = \$3`).
		WithArgs("blocked", sqlmock.AnyArg(), targetID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	w := serve(admin, http.MethodPatch, "/users/:id/status", "/users/"+targetID+"/status", `{"status":"blocked"}`, UpdateUserStatus)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateUserStatus_UnknownUser(t *testing.T) {
	_, mock := testutil.SetupTestDB(t)
	mock.ExpectQuery(`SELECT \* FROM "profiles" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	w := serve(admin, http.MethodPatch, "/users/:id/status", "/users/"+targetID+"/status", `{"status":"active"}`, UpdateUserStatus)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSuperAdminAccountsNeedSuperAdmin(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		route   string
		body    string
		handler gin.HandlerFunc
	}{
		{"block", http.MethodPatch, "/users/:id/status", `{"status":"blocked"}`, UpdateUserStatus},
		{"reset password", http.MethodPut, "/users/:id/password", `{"password":"baru12345"}`, UpdateUserPassword},
		{"demote", http.MethodPatch, "/users/:id/role", `{"role":"user"}`, UpdateUserRole},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, mock := testutil.SetupTestDB(t)
			expectTarget(mock, users.RoleSuperAdmin)

			target := strings.Replace(tt.route, ":id", targetID, 1)
			w := serve(admin, tt.method, tt.route, target, tt.body, tt.handler)

			assert.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUpdateUserStatus_SuperAdminActor(t *testing.T) {
	_, mock := testutil.SetupTestDB(t)
	expectTarget(mock, users.RoleSuperAdmin)
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "profiles" SET "status"=\$1`).
		WithArgs("blocked", sqlmock.AnyArg(), targetID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	w := serve(superAdmin, http.MethodPatch, "/users/:id/status", "/users/"+targetID+"/status", `{"status":"blocked"}`, UpdateUserStatus)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateUserStatus_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		target string
		body   string
	}{
		{"self", adminID, `{"status":"blocked"}`},
		{"unknown status", targetID, `{"status":"banned"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(admin, http.MethodPatch, "/users/:id/status", "/users/"+tt.target+"/status", tt.body, UpdateUserStatus)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestUpdateUserRole_SuperAdminOnly(t *testing.T) {
	_, mock := testutil.SetupTestDB(t)

	w := serve(admin, http.MethodPatch, "/users/:id/role", "/users/"+targetID+"/role", `{"role":"super_admin"}`, UpdateUserRole)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateUserRole_PromoteToAdmin(t *testing.T) {
	_, mock := testutil.SetupTestDB(t)
	expectTarget(mock, users.RoleUser)
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "profiles" SET "role"=\$1`).
		WithArgs("admin", sqlmock.AnyArg(), targetID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	w := serve(superAdmin, http.MethodPatch, "/users/:id/role", "/users/"+targetID+"/role", `{"role":"admin"}`, UpdateUserRole)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser(t *testing.T) {
	_, mock := testutil.SetupTestDB(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "profiles"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(targetID))
	mock.ExpectCommit()

	w := serve(admin, http.MethodPost, "/users", "/users",
		`{"email":" Staff@Nontonin.ID ","password":"rahasia123","full_name":"Staf Baru","role":"admin"}`, CreateUser)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"email":"staff@nontonin.id"`)
	assert.NotContains(t, w.Body.String(), "rahasia123")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		actor  users.Profile
		body   string
		status int
	}{
		{"missing fields", admin, `{"email":"a@b.co"}`, http.StatusBadRequest},
		{"weak password", admin, `{"email":"a@b.co","password":"short","full_name":"A","role":"user"}`, http.StatusBadRequest},
		{"bad role", admin, `{"email":"a@b.co","password":"rahasia123","full_name":"A","role":"owner"}`, http.StatusBadRequest},
		{"super admin by admin", admin, `{"email":"a@b.co","password":"rahasia123","full_name":"A","role":"super_admin"}`, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(tt.actor, http.MethodPost, "/users", "/users", tt.body, CreateUser)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestUpdateUserPassword(t *testing.T) {
	_, mock := testutil.SetupTestDB(t)
	expectTarget(mock, users.RoleUser)
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "profiles" SET "password"=\$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	w := serve(admin, http.MethodPut, "/users/:id/password", "/users/"+targetID+"/password", `{"password":"baru12345"}`, UpdateUserPassword)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateSettings(t *testing.T) {
	_, mock := testutil.SetupTestDB(t)
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "app_settings" .* ON CONFLICT \("key"\) DO UPDATE SET "value"="excluded"."value","updated_at"="excluded"."updated_at"`).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	w := serve(admin, http.MethodPut, "/settings", "/settings",
		`{"monthly_price":55000,"annual_price":550000,"default_movie_price":20000}`, UpdateSettings)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateSettings_RejectsZero(t *testing.T) {
	w := serve(admin, http.MethodPut, "/settings", "/settings",
		`{"monthly_price":0,"annual_price":550000,"default_movie_price":20000}`, UpdateSettings)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListAllTransactions_InvalidFilter(t *testing.T) {
	w := serve(admin, http.MethodGet, "/transactions", "/transactions?status=refunded", "", ListAllTransactions)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateMovie(t *testing.T) {
	_, mock := testutil.SetupTestDB(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "movies"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("m1"))
	mock.ExpectCommit()

	w := serve(admin, http.MethodPost, "/movies", "/movies",
		`{"title":"Dilan 1990","genre":"Romantis","access_type":"premium","price":25000,"release_date":"2018-01-25"}`, CreateMovie)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"access_type":"premium"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMovieInput_Apply(t *testing.T) {
	str := func(s string) *string { return &s }

	m := movies.Movie{Title: "Old", AccessType: movies.AccessFree, Status: movies.StatusActive}
	require.NoError(t, MovieInput{AccessType: str("premium"), VideoURL: str("  ")}.apply(&m))
	assert.Equal(t, "Old", m.Title)
	assert.Equal(t, movies.AccessPremium, m.AccessType)
	assert.Nil(t, m.VideoURL)

	tests := []struct {
		name string
		in   MovieInput
		msg  string
	}{
		{"empty title", MovieInput{Title: str(" ")}, "title is required"},
		{"bad access", MovieInput{AccessType: str("vip")}, "access_type must be free or premium"},
		{"bad date", MovieInput{ReleaseDate: str("25/01/2018")}, "release_date must be YYYY-MM-DD"},
		{"bad status", MovieInput{Status: str("draft")}, "status must be active or inactive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := movies.Movie{Title: "Old"}
			err := tt.in.apply(&m)
			require.ErrorIs(t, err, errInvalidMovie)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestUploadPoster_NoStorage(t *testing.T) {
	w := serve(admin, http.MethodPost, "/movies/:id/poster", "/movies/m1/poster", "", NewMovieHandler(nil).UploadPoster)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAdminDashboard(t *testing.T) {
	_, mock := testutil.SetupTestDB(t)
	mock.ExpectQuery(`SELECT count\(\*\) FROM "profiles"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(10))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "movies" WHERE status = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))
	mock.ExpectQuery(`SELECT COUNT\(\*\) AS count, COALESCE\(SUM\(amount\), 0\) AS revenue FROM "transactions"`).
		WillReturnRows(sqlmock.NewRows([]string{"count", "revenue"}).AddRow(2, 64000))
	mock.ExpectQuery(`SELECT \* FROM "transactions" ORDER BY transactions.created_at DESC LIMIT \$1`).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "kind", "amount", "status"}).
			AddRow("tx-1", targetID, "subscription", 49000, "successful"))
	mock.ExpectQuery(`SELECT \* FROM "profiles" WHERE "profiles"."id" = \$1`).
		WithArgs(targetID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "full_name"}).AddRow(targetID, "u@nontonin.id", "Budi"))
	mock.ExpectQuery(`SELECT \* FROM "movies" ORDER BY created_at DESC LIMIT \$1`).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "genre"}).AddRow("m1", "Pengabdi Setan", "Horor"))

	w := serve(admin, http.MethodGet, "/dashboard", "/dashboard", "", AdminDashboard)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"total_revenue":64000`)
	assert.Contains(t, w.Body.String(), `"email":"u@nontonin.id"`)
	assert.Contains(t, w.Body.String(), `"title":"Pengabdi Setan"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserDetails(t *testing.T) {
	_, mock := testutil.SetupTestDB(t)
	expectTarget(mock, users.RoleUser)
	mock.ExpectQuery(`SELECT \* FROM "transactions" WHERE transactions.user_id = \$1 ORDER BY transactions.created_at DESC`).
		WithArgs(targetID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "kind", "amount", "status"}).
			AddRow("tx-2", targetID, "purchase", 15000, "successful"))

	w := serve(admin, http.MethodGet, "/users/:id", "/users/"+targetID, "", GetUserDetails)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"id":"tx-2"`)
	assert.Contains(t, w.Body.String(), `"email":"u@nontonin.id"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}
