package controllers

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pontualapp/pontual/config"
	"github.com/pontualapp/pontual/session"
	"github.com/pontualapp/pontual/store"
	"github.com/pontualapp/pontual/upstream"
	"github.com/pontualapp/pontual/utils"
)

func newAuthTest(t *testing.T, fake *fakeAPI) (*AuthController, *store.Store, *session.Manager) {
	t.Helper()
	st, err := store.OpenInMemory()
	require.NoError(t, err)
	sess := session.NewManager(st)
	return NewAuthController(fake, sess), st, sess
}

func TestLoginValidationNeverReachesNetwork(t *testing.T) {
	fake := &fakeAPI{}
	a, st, _ := newAuthTest(t, fake)

	bodies := []string{
		`{"username":"","password":"x"}`,
		`{"username":"   ","password":"x"}`,
		`{"username":"admin","password":""}`,
		`not json`,
	}
	for _, body := range bodies {
		w, resp := doRequest(a.Login, http.MethodPost, "/login", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Equal(t, config.MsgFillAllFields, resp.Message, body)
	}

	assert.Zero(t, fake.loginCalls)
	assert.False(t, st.IsLoggedIn())
}

func TestLoginRemoteSuccess(t *testing.T) {
	fake := &fakeAPI{loginResp: &upstream.LoginResponse{
		Token: "tok-123",
		User:  upstream.LoginUser{ID: 7, Name: "Dev", Email: "dev@empresa.com", Username: "dev"},
	}}
	a, st, sess := newAuthTest(t, fake)

	w, resp := doRequest(a.Login, http.MethodPost, "/login", `{"username":"dev","password":"segredo"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, config.MsgLoginSuccess, resp.Message)
	assert.Equal(t, config.RouteCheckin, dataMap(resp)["redirect"])
	assert.Equal(t, false, dataMap(resp)["offline"])

	assert.True(t, st.IsLoggedIn())
	assert.Equal(t, "tok-123", sess.Token())
	assert.Equal(t, "dev@empresa.com", sess.Email())
}

func TestLoginFallbackOpensOfflineSession(t *testing.T) {
	fake := &fakeAPI{loginErr: &upstream.APIError{Message: "down", Operation: "login"}}
	a, st, sess := newAuthTest(t, fake)

	w, resp := doRequest(a.Login, http.MethodPost, "/login", `{"username":"user","password":"password"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, config.MsgLoginOffline, resp.Message)
	assert.Equal(t, true, dataMap(resp)["offline"])

	assert.True(t, st.IsLoggedIn())
	assert.Equal(t, "user@local.com", sess.Email())
	assert.NotEmpty(t, sess.Token())
}

func TestLoginInvalidCredentials(t *testing.T) {
	fake := &fakeAPI{loginErr: &upstream.APIError{Message: "nope", Status: 401, Operation: "login"}}
	a, st, _ := newAuthTest(t, fake)

	w, resp := doRequest(a.Login, http.MethodPost, "/login", `{"username":"user","password":"errada"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, config.MsgInvalidCredentials, resp.Message)
	assert.False(t, st.IsLoggedIn())
	assert.Equal(t, 1, fake.loginCalls)
}

func TestLogoutRevokesToken(t *testing.T) {
	fake := &fakeAPI{}
	a, st, sess := newAuthTest(t, fake)

	token, err := utils.GenerateToken("test", "test@local.com", time.Hour)
	require.NoError(t, err)
	sess.Login(token, "test@local.com")

	w, resp := doRequest(a.Logout, http.MethodPost, "/logout", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, config.RouteLogin, dataMap(resp)["redirect"])

	assert.False(t, st.IsLoggedIn())
	assert.True(t, utils.IsTokenBlacklisted(token))
}

func TestCreateUserValidation(t *testing.T) {
	fake := &fakeAPI{}
	a, _, _ := newAuthTest(t, fake)

	cases := []struct {
		body    string
		message string
	}{
		{`{"username":"","password":"123456","confirmPassword":"123456"}`, config.MsgFillUserAndPassword},
		{`{"username":"novo","password":"123456","confirmPassword":"654321"}`, config.MsgPasswordsMismatch},
		{`{"username":"novo","password":"123","confirmPassword":"123"}`, config.MsgPasswordTooShort},
		{`{"username":"a b","password":"123456","confirmPassword":"123456"}`, "Nome de usuário inválido"},
	}
	for _, tc := range cases {
		w, resp := doRequest(a.CreateUser, http.MethodPost, "/create-user", tc.body)
		assert.Equal(t, http.StatusBadRequest, w.Code, tc.body)
		assert.Equal(t, tc.message, resp.Message, tc.body)
	}
	assert.Zero(t, fake.createCalls)
}

func TestCreateUserSuccess(t *testing.T) {
	fake := &fakeAPI{}
	a, _, _ := newAuthTest(t, fake)

	w, resp := doRequest(a.CreateUser, http.MethodPost, "/create-user",
		`{"username":"novo_user","password":"123456","confirmPassword":"123456"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, config.MsgUserCreated, resp.Message)
	assert.Equal(t, config.RouteLogin, dataMap(resp)["redirect"])
	assert.Equal(t, 1, fake.createCalls)
}

func TestResetPasswordValidation(t *testing.T) {
	fake := &fakeAPI{}
	a, _, _ := newAuthTest(t, fake)

	cases := []struct {
		body    string
		message string
	}{
		{`{"username":"","newPassword":"123456","confirmPassword":"123456"}`, config.MsgFillAllFields},
		{`{"username":"user","newPassword":"123456","confirmPassword":"outra0"}`, config.MsgPasswordsMismatch},
		{`{"username":"user","newPassword":"12345","confirmPassword":"12345"}`, config.MsgPasswordTooShort},
	}
	for _, tc := range cases {
		w, resp := doRequest(a.ResetPassword, http.MethodPost, "/reset-password", tc.body)
		assert.Equal(t, http.StatusBadRequest, w.Code, tc.body)
		assert.Equal(t, tc.message, resp.Message, tc.body)
	}
	assert.Zero(t, fake.resetCalls)
}

func TestResetPasswordSuccess(t *testing.T) {
	fake := &fakeAPI{}
	a, _, _ := newAuthTest(t, fake)

	w, resp := doRequest(a.ResetPassword, http.MethodPost, "/reset-password",
		`{"username":"user","newPassword":"novasenha","confirmPassword":"novasenha"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, config.MsgPasswordChanged, resp.Message)
	assert.Equal(t, 1, fake.resetCalls)
}
