package controllers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sessionRes struct {
	AccessToken string `json:"accessToken"`
	User        struct {
		ID    string `json:"_id"`
		Email string `json:"email"`
		Role  string `json:"role"`
	} `json:"user"`
}

func refreshCookie(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == "refreshToken" && c.Value != "" {
			assert.True(t, c.HttpOnly)
			assert.Equal(t, "/api/auth", c.Path)
			return map[string]string{"Cookie": "refreshToken=" + c.Value}
		}
	}
	t.Fatalf("no refresh cookie in response")
	return nil
}

func bearer(tok string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + tok}
}

func TestRegisterAndLogin(t *testing.T) {
	s := newServer(t)

	w := s.do(t, http.MethodPost, "/api/auth/register", map[string]string{"name": "Ada", "email": " Ada@Dryp.test ", "password": "secret1"}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	res := decode[sessionRes](t, w)
	assert.Equal(t, "ada@dryp.test", res.User.Email)
	assert.Equal(t, "customer", res.User.Role)
	assert.NotContains(t, w.Body.String(), "passwordHash")
	refreshCookie(t, w)

	w = s.do(t, http.MethodPost, "/api/auth/register", map[string]string{"name": "Ada", "email": "ada@dryp.test", "password": "secret1"}, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "ada@dryp.test", "password": "wrong"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid email or password", message(t, w))
	w = s.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "nobody@dryp.test", "password": "secret1"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "ADA@dryp.test", "password": "secret1"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	login := decode[sessionRes](t, w)

	w = s.do(t, http.MethodGet, "/api/users/me", nil, bearer(login.AccessToken))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, res.User.ID, decode[map[string]any](t, w)["_id"])
}

func TestRefreshRotation(t *testing.T) {
	s := newServer(t)
	w := s.do(t, http.MethodPost, "/api/auth/register", map[string]string{"name": "Bo", "email": "bo@dryp.test", "password": "secret1"}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	first := refreshCookie(t, w)

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodPost, "/api/auth/refresh", nil, nil).Code)

	w = s.do(t, http.MethodPost, "/api/auth/refresh", nil, first)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, decode[sessionRes](t, w).AccessToken)
	second := refreshCookie(t, w)
	assert.NotEqual(t, first, second)

	// Replaying the rotated cookie revokes the whole family.
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodPost, "/api/auth/refresh", nil, first).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodPost, "/api/auth/refresh", nil, second).Code)
}

func TestLogoutRevokesToken(t *testing.T) {
	s := newServer(t)
	w := s.do(t, http.MethodPost, "/api/auth/register", map[string]string{"name": "Cy", "email": "cy@dryp.test", "password": "secret1"}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	cookie := refreshCookie(t, w)

	w = s.do(t, http.MethodPost, "/api/auth/logout", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodPost, "/api/auth/refresh", nil, cookie).Code)
}

func TestChangeMyPassword(t *testing.T) {
	s := newServer(t)
	w := s.do(t, http.MethodPost, "/api/auth/register", map[string]string{"name": "Di", "email": "di@dryp.test", "password": "secret1"}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	cookie := refreshCookie(t, w)
	auth := bearer(decode[sessionRes](t, w).AccessToken)

	w = s.do(t, http.MethodPost, "/api/users/me/password", map[string]string{"currentPassword": "nope", "newPassword": "longersecret"}, auth)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = s.do(t, http.MethodPost, "/api/users/me/password", map[string]string{"currentPassword": "secret1", "newPassword": "short"}, auth)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/users/me/password", map[string]string{"currentPassword": "secret1", "newPassword": "longersecret"}, auth)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodPost, "/api/auth/refresh", nil, cookie).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "di@dryp.test", "password": "secret1"}, nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "di@dryp.test", "password": "longersecret"}, nil).Code)
}
