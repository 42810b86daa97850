package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/resource-planner-api/internal/middleware"
	"github.com/noah-isme/resource-planner-api/internal/models"
	appErrors "github.com/noah-isme/resource-planner-api/pkg/errors"
)

type fakeAuthSrv struct {
	login     *models.LoginResponse
	err       error
	lastLogin models.LoginRequest
	loggedOut string
}

func (f *fakeAuthSrv) Login(_ context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	f.lastLogin = req
	return f.login, f.err
}

func (f *fakeAuthSrv) Logout(_ context.Context, userID string, _ models.LoginRequest) {
	f.loggedOut = userID
}

func (f *fakeAuthSrv) ChangePassword(context.Context, string, models.ChangePasswordRequest) error {
	return f.err
}

func (f *fakeAuthSrv) TokenTTL() time.Duration { return time.Hour }

func TestAuthHandlerLoginSetsCookie(t *testing.T) {
	srv := &fakeAuthSrv{login: &models.LoginResponse{AccessToken: "tok", ExpiresIn: 3600}}
	handler := NewAuthHandler(srv, CookieConfig{Name: "planner_session", Secure: true})
	body := `{"email":"ana@example.com","password":"secret"}`
	c, rec := newTestContext(http.MethodPost, "/auth/login", &body)
	c.Request.Header.Set("User-Agent", "test-agent")

	handler.Login(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ana@example.com", srv.lastLogin.Email)
	assert.Equal(t, "test-agent", srv.lastLogin.UserAgent)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "planner_session", cookies[0].Name)
	assert.Equal(t, "tok", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, 3600, cookies[0].MaxAge)
}

func TestAuthHandlerLoginFailure(t *testing.T) {
	srv := &fakeAuthSrv{err: appErrors.Clone(appErrors.ErrUnauthorized, "invalid credentials")}
	body := `{"email":"ana@example.com","password":"wrong"}`
	c, rec := newTestContext(http.MethodPost, "/auth/login", &body)

	NewAuthHandler(srv, CookieConfig{}).Login(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
}

func TestAuthHandlerLogoutClearsCookie(t *testing.T) {
	srv := &fakeAuthSrv{}
	c, rec := newTestContext(http.MethodPost, "/auth/logout", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u-1"})

	NewAuthHandler(srv, CookieConfig{}).Logout(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "u-1", srv.loggedOut)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "access_token", cookies[0].Name)
	assert.True(t, cookies[0].MaxAge < 0)
}

func TestAuthHandlerMe(t *testing.T) {
	c, rec := newTestContext(http.MethodGet, "/auth/me", nil)
	NewAuthHandler(&fakeAuthSrv{}, CookieConfig{}).Me(c)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	c, rec = newTestContext(http.MethodGet, "/auth/me", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u-1", PersonID: "p-1", Role: models.RoleEmployee, Email: "ana@example.com"})
	NewAuthHandler(&fakeAuthSrv{}, CookieConfig{}).Me(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"person_id":"p-1"`)
}
