package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pontualapp/pontual/config"
	"github.com/pontualapp/pontual/models"
	"github.com/pontualapp/pontual/upstream"
	"github.com/pontualapp/pontual/utils"
)

func init() {
	config.SetForTesting(config.AppConfig{JWTSecret: "test-secret"})
	utils.InitTestLogger()
	gin.SetMode(gin.TestMode)
}

// fakeAPI is a programmable CheckAPI double that counts calls.
type fakeAPI struct {
	loginResp  *upstream.LoginResponse
	loginErr   error
	loginCalls int

	createErr   error
	createCalls int

	resetErr   error
	resetCalls int

	checkinResp  *upstream.CheckinResponse
	checkinErr   error
	checkinCalls int

	status    *models.CheckinStatus
	statusErr error

	checkins    []upstream.CheckinResponse
	checkinsErr error

	ranking    []models.RankingEntry
	rankingErr error
}

func (f *fakeAPI) Login(ctx context.Context, req upstream.LoginRequest) (*upstream.LoginResponse, error) {
	f.loginCalls++
	return f.loginResp, f.loginErr
}

func (f *fakeAPI) CreateUser(ctx context.Context, req upstream.CreateUserRequest) error {
	f.createCalls++
	return f.createErr
}

func (f *fakeAPI) ResetPassword(ctx context.Context, req upstream.ResetPasswordRequest) error {
	f.resetCalls++
	return f.resetErr
}

func (f *fakeAPI) DoCheckin(ctx context.Context, req upstream.CheckinRequest) (*upstream.CheckinResponse, error) {
	f.checkinCalls++
	return f.checkinResp, f.checkinErr
}

func (f *fakeAPI) CheckinStatus(ctx context.Context) (*models.CheckinStatus, error) {
	return f.status, f.statusErr
}

func (f *fakeAPI) Checkins(ctx context.Context) ([]upstream.CheckinResponse, error) {
	return f.checkins, f.checkinsErr
}

func (f *fakeAPI) Ranking(ctx context.Context) ([]models.RankingEntry, error) {
	return f.ranking, f.rankingErr
}

func (f *fakeAPI) HealthCheck(ctx context.Context) upstream.HealthResponse {
	return upstream.HealthResponse{Status: "ok"}
}

// doRequest runs a single handler against an in-memory request and decodes the
// uniform response envelope.
func doRequest(handler gin.HandlerFunc, method, path, body string) (*httptest.ResponseRecorder, utils.JSONResponse) {
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)

	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	ctx.Request = httptest.NewRequest(method, path, rdr)
	if body != "" {
		ctx.Request.Header.Set("Content-Type", "application/json")
	}

	handler(ctx)

	var resp utils.JSONResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func dataMap(resp utils.JSONResponse) map[string]interface{} {
	m, _ := resp.Data.(map[string]interface{})
	return m
}
