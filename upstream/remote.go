package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pontualapp/pontual/config"
	"github.com/pontualapp/pontual/models"
	"github.com/pontualapp/pontual/session"
	"github.com/pontualapp/pontual/utils"
)

// Endpoint paths of the backend contract. The original product shipped two
// divergent endpoint tables; this one follows the backend's OpenAPI document.
const (
	pathLogin         = "/login"
	pathCreateUser    = "/users"
	pathResetPassword = "/users/reset-password"
	pathCheckin       = "/checkin/"
	pathCheckinStatus = "/checkin/status"
	pathCheckins      = "/checkins"
	pathRanking       = "/ranking/weekly"
	pathHealth        = "/"
)

// Remote implements CheckAPI over HTTP.
type Remote struct {
	baseURL string
	client  *http.Client
	session *session.Manager
	retries int
}

// NewRemote builds the HTTP implementation from configuration.
func NewRemote(cfg config.AppConfig, sess *session.Manager) *Remote {
	return &Remote{
		baseURL: strings.TrimRight(cfg.UpstreamBaseURL, "/"),
		client:  &http.Client{Timeout: time.Duration(cfg.UpstreamTimeoutSec) * time.Second},
		session: sess,
		retries: cfg.UpstreamRetries,
	}
}

// Login authenticates against the backend.
func (r *Remote) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var resp LoginResponse
	if err := r.doJSON(ctx, "login", http.MethodPost, pathLogin, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateUser registers a new user.
func (r *Remote) CreateUser(ctx context.Context, req CreateUserRequest) error {
	return errOrNil(r.doJSON(ctx, "createUser", http.MethodPost, pathCreateUser, req, nil))
}

// ResetPassword changes a user's password.
func (r *Remote) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	return errOrNil(r.doJSON(ctx, "resetPassword", http.MethodPut, pathResetPassword, req, nil))
}

// DoCheckin records a check-in for the current session.
func (r *Remote) DoCheckin(ctx context.Context, req CheckinRequest) (*CheckinResponse, error) {
	var resp CheckinResponse
	if err := r.doJSON(ctx, "doCheckin", http.MethodPost, pathCheckin, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CheckinStatus asks whether the user can check in today. On failure it
// degrades to a permissive default so the UI keeps working offline.
func (r *Remote) CheckinStatus(ctx context.Context) (*models.CheckinStatus, error) {
	var resp models.CheckinStatus
	if err := r.doJSON(ctx, "getCheckinStatus", http.MethodGet, pathCheckinStatus, nil, &resp); err != nil {
		now := time.Now()
		weekend := utils.IsWeekend(now)
		return &models.CheckinStatus{
			CanCheckin: !weekend,
			IsWeekend:  weekend,
			Today:      utils.FormatDate(now),
		}, nil
	}
	return &resp, nil
}

// Checkins fetches the check-in history.
func (r *Remote) Checkins(ctx context.Context) ([]CheckinResponse, error) {
	var resp []CheckinResponse
	if err := r.doJSON(ctx, "getCheckins", http.MethodGet, pathCheckins, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Ranking fetches the weekly leaderboard.
func (r *Remote) Ranking(ctx context.Context) ([]models.RankingEntry, error) {
	var resp []models.RankingEntry
	if err := r.doJSON(ctx, "getRanking", http.MethodGet, pathRanking, nil, &resp); err != nil {
		return nil, err
	}
	for i := range resp {
		resp[i].Position = i + 1
	}
	return resp, nil
}

// HealthCheck probes the backend root; never fails, reports offline instead.
func (r *Remote) HealthCheck(ctx context.Context) HealthResponse {
	var resp HealthResponse
	if err := r.doJSON(ctx, "healthCheck", http.MethodGet, pathHealth, nil, &resp); err != nil {
		return HealthResponse{Status: "offline"}
	}
	if resp.Status == "" {
		resp.Status = "ok"
	}
	return resp
}

// doJSON issues one logical request with bounded retries. GETs are retried on
// any failure; mutating verbs only on transport errors, since the operation
// may have been applied.
func (r *Remote) doJSON(ctx context.Context, op, method, path string, body, out interface{}) *APIError {
	attempts := r.retries + 1
	idempotent := method == http.MethodGet

	var lastErr *APIError
	for attempt := 0; attempt < attempts; attempt++ {
		apiErr, retryable := r.once(ctx, op, method, path, body, out)
		if apiErr == nil {
			return nil
		}
		lastErr = apiErr
		if apiErr.Status == http.StatusUnauthorized {
			break
		}
		if !retryable || (!idempotent && apiErr.Status != 0) {
			break
		}
		if ctx.Err() != nil {
			break
		}
	}

	if utils.Sugar != nil {
		utils.Sugar.Warnf("upstream %s failed: %v", op, lastErr)
	}
	return lastErr
}

// once performs a single attempt. The second return value reports whether a
// retry could possibly help.
func (r *Remote) once(ctx context.Context, op, method, path string, body, out interface{}) (*APIError, bool) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return &APIError{Message: err.Error(), Operation: op}, false
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, reader)
	if err != nil {
		return &APIError{Message: err.Error(), Operation: op}, false
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token := r.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		// Transport failure: status 0, always worth retrying.
		return &APIError{Message: err.Error(), Operation: op}, true
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		// Session expired: drop local credentials so the next view redirects to login.
		r.session.Logout()
		return &APIError{Message: "sessão expirada", Status: resp.StatusCode, Operation: op}, false
	}

	if resp.StatusCode >= 400 {
		return &APIError{
			Message:   readErrorMessage(resp.Body),
			Status:    resp.StatusCode,
			Operation: op,
		}, resp.StatusCode >= 500
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &APIError{Message: "resposta inválida do servidor", Status: resp.StatusCode, Operation: op}, false
		}
	}
	return nil, false
}

// readErrorMessage extracts a human message from common error body shapes.
func readErrorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(raw) == 0 {
		return "erro no servidor"
	}
	var parsed struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &parsed); err == nil {
		for _, msg := range []string{parsed.Message, parsed.Detail, parsed.Error} {
			if msg != "" {
				return msg
			}
		}
	}
	return "erro no servidor"
}

func errOrNil(err *APIError) error {
	if err == nil {
		return nil
	}
	return err
}
