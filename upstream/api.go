// Package upstream abstracts the remote check-in API behind a single
// capability interface with two implementations: Remote talks HTTP to the
// configured backend, Synthetic answers deterministically from local data.
// The implementation is selected once at startup.
package upstream

import (
	"context"
	"errors"
	"fmt"

	"github.com/pontualapp/pontual/models"
)

// APIError is the normalized failure of any upstream operation.
type APIError struct {
	Message   string `json:"message"`
	Status    int    `json:"status"`
	Operation string `json:"operation"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s (status %d)", e.Operation, e.Message, e.Status)
}

// IsUnauthorized reports whether err is a 401 session-expired failure.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == 401
}

// LoginRequest carries login credentials.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginUser is the authenticated identity returned on login.
type LoginUser struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// LoginResponse is the result of a successful login.
type LoginResponse struct {
	Token string    `json:"token"`
	User  LoginUser `json:"user"`
}

// CreateUserRequest carries the fields the backend accepts for registration.
type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ResetPasswordRequest carries a password reset.
type ResetPasswordRequest struct {
	Username    string `json:"username"`
	NewPassword string `json:"new_password"`
}

// CheckinRequest is the payload of a check-in attempt.
type CheckinRequest struct {
	UserID    int    `json:"userId"`
	Timestamp string `json:"timestamp"`
}

// CheckinResponse is one check-in as reported by the backend. The timestamp is
// kept as the raw wire string; callers validate it and fall back to local time.
type CheckinResponse struct {
	ID        int    `json:"id"`
	UserID    int    `json:"userId"`
	Timestamp string `json:"timestamp"`
	Points    int    `json:"points"`
	Offline   bool   `json:"offline,omitempty"`
}

// HealthResponse reports backend reachability.
type HealthResponse struct {
	Status string `json:"status"`
}

// CheckAPI is the capability consumed by the controllers.
//
// Every operation is bounded by the caller's context. Failures surface as
// *APIError — with two deliberate degrades so the UI keeps working offline:
// HealthCheck reports {status: "offline"} instead of failing, and
// CheckinStatus falls back to a permissive default.
type CheckAPI interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	CreateUser(ctx context.Context, req CreateUserRequest) error
	ResetPassword(ctx context.Context, req ResetPasswordRequest) error
	DoCheckin(ctx context.Context, req CheckinRequest) (*CheckinResponse, error)
	CheckinStatus(ctx context.Context) (*models.CheckinStatus, error)
	Checkins(ctx context.Context) ([]CheckinResponse, error)
	Ranking(ctx context.Context) ([]models.RankingEntry, error)
	HealthCheck(ctx context.Context) HealthResponse
}
