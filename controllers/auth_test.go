package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/gin-gonic/gin"

	"layanan-publik-api/middleware"
)

func adminRow(t *testing.T, password string) *sqlmock.Rows {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	now := time.Now()
	return sqlmock.NewRows([]string{
		"admin_id", "username", "password_hash", "email", "full_name", "is_active", "created_at", "updated_at",
	}).AddRow(1, "admin", string(hash), "admin@example.com", "Administrator", true, now, now)
}

func postLogin(body string) *httptest.ResponseRecorder {
	router := gin.New()
	router.POST("/api/v1/admin/login", AdminLogin)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAdminLoginIssuesToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	mock := useMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `admins`")).
		WillReturnRows(adminRow(t, "rahasia-123"))

	w := postLogin(`{"username":"admin","password":"rahasia-123"}`)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Login berhasil")
	assert.NotContains(t, body, "password_hash")

	// The issued token must round-trip through the middleware's claims.
	var resp AdminLoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	token, err := jwt.ParseWithClaims(resp.Token, &middleware.Claims{}, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(*middleware.Claims)
	assert.Equal(t, uint(1), claims.AdminID)
	assert.Equal(t, "admin", claims.Username)
	assert.True(t, claims.ExpiresAt.After(time.Now()))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminLoginWrongPassword(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	mock := useMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `admins`")).
		WillReturnRows(adminRow(t, "rahasia-123"))

	w := postLogin(`{"username":"admin","password":"salah"}`)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Username atau password salah")
}

func TestAdminLoginUnknownUsername(t *testing.T) {
	mock := useMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `admins`")).
		WillReturnRows(sqlmock.NewRows([]string{"admin_id"}))

	w := postLogin(`{"username":"nobody","password":"apapun"}`)

	// Same message as a wrong password, so usernames cannot be probed.
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Username atau password salah")
}

func TestAdminLoginMissingFields(t *testing.T) {
	useMockDB(t)

	w := postLogin(`{"username":"admin"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "wajib diisi")
}
