package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fretvault/api/pkg/helpers"
)

func TestAuth_RegisterLoginRefreshLogout(t *testing.T) {
	api := newTestAPI(t, false)

	res := api.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "Ada@Example.com", "password": "correct-horse", "name": "Ada",
	})
	require.Equal(t, http.StatusCreated, res.Code, string(res.Body))
	require.NotNil(t, cookie(res, helpers.AccessCookie))
	refresh := cookie(res, helpers.RefreshCookie)
	require.NotNil(t, refresh)
	assert.True(t, refresh.HttpOnly)
	var reg authDTO
	res.data(t, &reg)
	assert.Equal(t, "ada@example.com", reg.User.Email)

	res = api.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "ada@example.com", "password": "correct-horse", "name": "Ada again",
	})
	assert.Equal(t, http.StatusConflict, res.Code)

	res = api.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "ada@example.com", "password": "wrong-horse"})
	assert.Equal(t, http.StatusUnauthorized, res.Code)
	res = api.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "nobody@example.com", "password": "wrong-horse"})
	assert.Equal(t, http.StatusUnauthorized, res.Code)

	res = api.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "ada@example.com", "password": "correct-horse"})
	require.Equal(t, http.StatusOK, res.Code)
	var login authDTO
	res.data(t, &login)
	refresh = cookie(res, helpers.RefreshCookie)

	// logging in again replaced the registration session
	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/api/auth/me", reg.AccessToken, nil).Code)

	res = api.do(http.MethodGet, "/api/auth/me", login.AccessToken, nil)
	require.Equal(t, http.StatusOK, res.Code)
	var me userDTO
	res.data(t, &me)
	assert.Equal(t, "Ada", me.Name)

	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodPost, "/api/auth/refresh", "", nil).Code)

	res = api.do(http.MethodPost, "/api/auth/refresh", "", nil, refresh)
	require.Equal(t, http.StatusOK, res.Code, string(res.Body))
	var rotated authDTO
	res.data(t, &rotated)
	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/api/auth/me", login.AccessToken, nil).Code)
	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/auth/me", rotated.AccessToken, nil).Code)

	// the old refresh token carries the rotated-out sid
	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodPost, "/api/auth/refresh", "", nil, refresh).Code)

	res = api.do(http.MethodPost, "/api/auth/logout", rotated.AccessToken, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, -1, cookie(res, helpers.AccessCookie).MaxAge)
	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/api/auth/me", rotated.AccessToken, nil).Code)
}

func TestAuth_RegisterValidation(t *testing.T) {
	api := newTestAPI(t, false)

	res := api.do(http.MethodPost, "/api/auth/register", "", map[string]string{"email": "not-an-email", "password": "short"})
	require.Equal(t, http.StatusBadRequest, res.Code)
	d := res.details(t)
	assert.Equal(t, "must be a valid email", d["email"])
	assert.Equal(t, "must be between 8 and 72 characters long", d["password"])
	assert.Equal(t, "is required", d["name"])

	res = api.do(http.MethodPost, "/api/auth/register", "", "{")
	require.Equal(t, http.StatusBadRequest, res.Code)
	assert.NotEmpty(t, res.details(t))
}

func TestAuth_UpdateProfile(t *testing.T) {
	api := newTestAPI(t, false)
	s := api.register("bo@example.com", "Bo")

	res := api.do(http.MethodPatch, "/api/auth/me", s.Token, map[string]string{"avatar_url": "nope"})
	require.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "must be a valid URL", res.details(t)["avatar_url"])

	res = api.do(http.MethodPatch, "/api/auth/me", s.Token, map[string]string{"name": "Bo Diddley", "avatar_url": "https://cdn.test/bo.png"})
	require.Equal(t, http.StatusOK, res.Code)
	var u userDTO
	res.data(t, &u)
	assert.Equal(t, "Bo Diddley", u.Name)
	assert.Equal(t, "https://cdn.test/bo.png", u.AvatarURL)
	assert.Equal(t, "Bo Diddley", api.mr.HGet(helpers.KeySession(s.UserID), "name"))
}

func TestAuth_PasswordReset(t *testing.T) {
	api := newTestAPI(t, false)
	s := api.register("cy@example.com", "Cy")

	res := api.do(http.MethodPost, "/api/auth/password/forgot", "", map[string]string{"email": "ghost@example.com"})
	assert.Equal(t, http.StatusOK, res.Code)
	res = api.do(http.MethodPost, "/api/auth/password/forgot", "", map[string]string{"email": "cy@example.com"})
	require.Equal(t, http.StatusOK, res.Code)

	var token string
	for _, k := range api.mr.Keys() {
		if rest, ok := strings.CutPrefix(k, helpers.KeyResetToken("")); ok {
			token = rest
		}
	}
	require.NotEmpty(t, token)

	res = api.do(http.MethodPost, "/api/auth/password/reset", "", map[string]string{"token": token, "new_password": "short"})
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = api.do(http.MethodPost, "/api/auth/password/reset", "", map[string]string{"token": token, "new_password": "battery-staple"})
	require.Equal(t, http.StatusOK, res.Code, string(res.Body))

	res = api.do(http.MethodPost, "/api/auth/password/reset", "", map[string]string{"token": token, "new_password": "battery-staple"})
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "invalid or expired token", res.Env.Message)

	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/api/auth/me", s.Token, nil).Code)
	res = api.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "cy@example.com", "password": "battery-staple"})
	assert.Equal(t, http.StatusOK, res.Code)
}

func TestHealthz(t *testing.T) {
	api := newTestAPI(t, false)
	res := api.do(http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.JSONEq(t, `{"redis":"ok"}`, string(res.Env.Data))

	api.mr.Close()
	res = api.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, res.Code)
}
