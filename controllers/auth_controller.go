package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pontualapp/pontual/config"
	"github.com/pontualapp/pontual/session"
	"github.com/pontualapp/pontual/upstream"
	"github.com/pontualapp/pontual/utils"
)

// AuthController handles login, logout, user creation and password reset.
// Validation failures never reach the network.
type AuthController struct {
	api  upstream.CheckAPI
	sess *session.Manager
}

func NewAuthController(api upstream.CheckAPI, sess *session.Manager) *AuthController {
	return &AuthController{api: api, sess: sess}
}

type loginForm struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /login. Credentials are tried against the backend first;
// when the backend rejects or is unreachable, the fixed fallback credentials
// still open an offline session so the kiosk keeps working.
func (a *AuthController) Login(ctx *gin.Context) {
	var form loginForm
	if err := ctx.ShouldBindJSON(&form); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, config.MsgFillAllFields)
		return
	}

	username := utils.SanitizeInput(form.Username)
	password := form.Password
	if !utils.IsNotEmpty(username) || !utils.IsNotEmpty(password) {
		utils.Error(ctx, http.StatusBadRequest, 40001, config.MsgFillAllFields)
		return
	}

	resp, err := a.api.Login(ctx.Request.Context(), upstream.LoginRequest{
		Username: username,
		Password: password,
	})
	if err == nil {
		a.sess.Login(resp.Token, resp.User.Email)
		utils.SuccessMessage(ctx, config.MsgLoginSuccess, gin.H{
			"user":     resp.User,
			"offline":  false,
			"redirect": config.RouteCheckin,
		})
		return
	}

	if upstream.VerifyFallbackCredentials(username, password) {
		token, tokenErr := utils.GenerateToken(username, username+"@local.com", 24*time.Hour)
		if tokenErr != nil {
			utils.Sugar.Errorf("fallback token generation failed: %v", tokenErr)
			utils.Error(ctx, http.StatusInternalServerError, 50001, config.MsgLoginError)
			return
		}
		a.sess.Login(token, username+"@local.com")
		utils.SuccessMessage(ctx, config.MsgLoginOffline, gin.H{
			"user": upstream.LoginUser{
				ID:       1,
				Name:     username,
				Email:    username + "@local.com",
				Username: username,
			},
			"offline":  true,
			"redirect": config.RouteCheckin,
		})
		return
	}

	utils.Sugar.Infof("login rejected user=%s err=%v", username, err)
	utils.Error(ctx, http.StatusUnauthorized, 40101, config.MsgInvalidCredentials)
}

// Logout handles POST /logout: the bearer token is blacklisted until its own
// expiry and the session cleared.
func (a *AuthController) Logout(ctx *gin.Context) {
	if token := a.sess.Token(); token != "" {
		expiresAt, ok := utils.TokenExpiry(token)
		if !ok {
			expiresAt = time.Now().Add(24 * time.Hour)
		}
		utils.BlacklistToken(token, expiresAt)
	}
	a.sess.Logout()
	utils.SuccessMessage(ctx, "logout realizado", gin.H{"redirect": config.RouteLogin})
}

type createUserForm struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// CreateUser handles POST /create-user.
func (a *AuthController) CreateUser(ctx *gin.Context) {
	var form createUserForm
	if err := ctx.ShouldBindJSON(&form); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40002, config.MsgFillUserAndPassword)
		return
	}

	username := utils.SanitizeInput(form.Username)
	switch {
	case !utils.IsNotEmpty(username) || !utils.IsNotEmpty(form.Password):
		utils.Error(ctx, http.StatusBadRequest, 40002, config.MsgFillUserAndPassword)
		return
	case form.Password != form.ConfirmPassword:
		utils.Error(ctx, http.StatusBadRequest, 40003, config.MsgPasswordsMismatch)
		return
	case !utils.IsValidPassword(form.Password):
		utils.Error(ctx, http.StatusBadRequest, 40004, config.MsgPasswordTooShort)
		return
	case !utils.IsValidUsername(username):
		utils.Error(ctx, http.StatusBadRequest, 40005, "Nome de usuário inválido")
		return
	}

	err := a.api.CreateUser(ctx.Request.Context(), upstream.CreateUserRequest{
		Username: username,
		Password: form.Password,
	})
	if err != nil {
		utils.Sugar.Warnf("create user failed user=%s err=%v", username, err)
		utils.Error(ctx, http.StatusBadGateway, 50201, config.MsgUserCreateError)
		return
	}

	utils.SuccessMessage(ctx, config.MsgUserCreated, gin.H{"redirect": config.RouteLogin})
}

type resetPasswordForm struct {
	Username        string `json:"username"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// ResetPassword handles POST /reset-password.
func (a *AuthController) ResetPassword(ctx *gin.Context) {
	var form resetPasswordForm
	if err := ctx.ShouldBindJSON(&form); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40006, config.MsgFillAllFields)
		return
	}

	username := utils.SanitizeInput(form.Username)
	switch {
	case !utils.IsNotEmpty(username) || !utils.IsNotEmpty(form.NewPassword) || !utils.IsNotEmpty(form.ConfirmPassword):
		utils.Error(ctx, http.StatusBadRequest, 40006, config.MsgFillAllFields)
		return
	case form.NewPassword != form.ConfirmPassword:
		utils.Error(ctx, http.StatusBadRequest, 40007, config.MsgPasswordsMismatch)
		return
	case !utils.IsValidPassword(form.NewPassword):
		utils.Error(ctx, http.StatusBadRequest, 40008, config.MsgPasswordTooShort)
		return
	}

	err := a.api.ResetPassword(ctx.Request.Context(), upstream.ResetPasswordRequest{
		Username:    username,
		NewPassword: form.NewPassword,
	})
	if err != nil {
		utils.Sugar.Warnf("reset password failed user=%s err=%v", username, err)
		utils.Error(ctx, http.StatusBadGateway, 50202, config.MsgPasswordChangeError)
		return
	}

	utils.SuccessMessage(ctx, config.MsgPasswordChanged, gin.H{"redirect": config.RouteLogin})
}
