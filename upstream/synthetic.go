package upstream

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/pontualapp/pontual/config"
	"github.com/pontualapp/pontual/models"
	"github.com/pontualapp/pontual/store"
	"github.com/pontualapp/pontual/utils"
)

// fallbackCredentials is the fixed allow-list shared by the synthetic API and
// the offline login fallback. This is development scaffolding kept on purpose
// so the kiosk stays usable without a backend; it is not a security boundary.
var fallbackCredentials = map[string]string{
	"admin": "123456",
	"user":  "password",
	"test":  "test123",
}

var fallbackHashes = func() map[string]string {
	hashes := make(map[string]string, len(fallbackCredentials))
	for user, pass := range fallbackCredentials {
		h, err := utils.HashPassword(pass)
		if err != nil {
			continue
		}
		hashes[user] = h
	}
	return hashes
}()

// VerifyFallbackCredentials checks a username/password pair against the fixed
// allow-list using bcrypt comparison.
func VerifyFallbackCredentials(username, password string) bool {
	hash, ok := fallbackHashes[username]
	return ok && utils.CheckPassword(hash, password)
}

// Synthetic implements CheckAPI without any network call, answering from the
// local store. Selected at startup when UseSyntheticAPI is set.
type Synthetic struct {
	store  *store.Store
	reward int
}

// NewSynthetic builds the local implementation.
func NewSynthetic(cfg config.AppConfig, st *store.Store) *Synthetic {
	return &Synthetic{store: st, reward: cfg.CheckinRewardPoints}
}

// Login accepts only the fixed allow-list and mints a real signed token.
func (s *Synthetic) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if !VerifyFallbackCredentials(req.Username, req.Password) {
		return nil, &APIError{
			Message:   "Invalid credentials",
			Status:    http.StatusUnauthorized,
			Operation: "login",
		}
	}

	email := req.Username + "@local.com"
	token, err := utils.GenerateToken(req.Username, email, 24*time.Hour)
	if err != nil {
		return nil, &APIError{Message: err.Error(), Operation: "login"}
	}
	return &LoginResponse{
		Token: token,
		User:  LoginUser{ID: 1, Name: req.Username, Email: email, Username: req.Username},
	}, nil
}

// CreateUser succeeds unconditionally; synthetic mode keeps no user registry.
func (s *Synthetic) CreateUser(ctx context.Context, req CreateUserRequest) error {
	return nil
}

// ResetPassword succeeds unconditionally in synthetic mode.
func (s *Synthetic) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	return nil
}

// DoCheckin always succeeds, awards the configured points and persists the
// record through the store wrapper.
func (s *Synthetic) DoCheckin(ctx context.Context, req CheckinRequest) (*CheckinResponse, error) {
	now := time.Now()
	ts := now
	if req.Timestamp != "" {
		if parsed, err := time.Parse(time.RFC3339, req.Timestamp); err == nil {
			ts = parsed
		}
	}

	record := models.CheckinRecord{
		ID:        uuid.NewString(),
		UserID:    1,
		Timestamp: ts,
		Points:    s.reward,
	}
	s.store.SaveCheckinForDate(now, record)

	return &CheckinResponse{
		UserID:    record.UserID,
		Timestamp: record.Timestamp.Format(time.RFC3339),
		Points:    record.Points,
	}, nil
}

// CheckinStatus blocks only when today's record already exists or it is a weekend.
func (s *Synthetic) CheckinStatus(ctx context.Context) (*models.CheckinStatus, error) {
	now := time.Now()
	weekend := utils.IsWeekend(now)
	status := &models.CheckinStatus{
		Today:     utils.FormatDate(now),
		IsWeekend: weekend,
	}

	switch {
	case s.store.HasCheckinForDate(now):
		status.AlreadyCheckedIn = true
		status.Message = config.MsgAlreadyCheckedIn
	case weekend:
		status.Reason = config.MsgWeekendWarning
		status.Message = "Aproveite seu fim de semana!"
	default:
		status.CanCheckin = true
	}
	return status, nil
}

// Checkins returns up to the last 7 days of locally stored records.
func (s *Synthetic) Checkins(ctx context.Context) ([]CheckinResponse, error) {
	now := time.Now()
	var out []CheckinResponse
	for i := 0; i < 7; i++ {
		record := s.store.GetCheckinForDate(now.AddDate(0, 0, -i))
		if record == nil {
			continue
		}
		out = append(out, CheckinResponse{
			UserID:    record.UserID,
			Timestamp: record.Timestamp.Format(time.RFC3339),
			Points:    record.Points,
			Offline:   record.Offline,
		})
	}
	return out, nil
}

// Ranking synthesizes the deterministic leaderboard from the seed list and
// the locally tracked user.
func (s *Synthetic) Ranking(ctx context.Context) ([]models.RankingEntry, error) {
	return BuildLocalRanking(s.store), nil
}

// HealthCheck always reports the synthetic backend as reachable.
func (s *Synthetic) HealthCheck(ctx context.Context) HealthResponse {
	return HealthResponse{Status: "ok"}
}

// seedRanking is the fixed example leaderboard shown when no backend data exists.
var seedRanking = []models.RankingEntry{
	{Name: "Ana Silva", Email: "ana.silva@empresa.com", TotalPoints: 450, TotalCheckins: 45, CurrentStreak: 12},
	{Name: "Carlos Santos", Email: "carlos.santos@empresa.com", TotalPoints: 380, TotalCheckins: 38, CurrentStreak: 8},
	{Name: "Maria Oliveira", Email: "maria.oliveira@empresa.com", TotalPoints: 320, TotalCheckins: 32, CurrentStreak: 15},
	{Name: "João Pereira", Email: "joao.pereira@empresa.com", TotalPoints: 290, TotalCheckins: 29, CurrentStreak: 6},
	{Name: "Fernanda Costa", Email: "fernanda.costa@empresa.com", TotalPoints: 250, TotalCheckins: 25, CurrentStreak: 9},
	{Name: "Ricardo Lima", Email: "ricardo.lima@empresa.com", TotalPoints: 230, TotalCheckins: 23, CurrentStreak: 4},
	{Name: "Juliana Rocha", Email: "juliana.rocha@empresa.com", TotalPoints: 180, TotalCheckins: 18, CurrentStreak: 7},
	{Name: "Pedro Alves", Email: "pedro.alves@empresa.com", TotalPoints: 150, TotalCheckins: 15, CurrentStreak: 3},
}

// BuildLocalRanking merges the seed leaderboard with the current local user
// (matched by email, present exactly once) and assigns positions by a stable
// descending sort on points.
func BuildLocalRanking(st *store.Store) []models.RankingEntry {
	entries := make([]models.RankingEntry, len(seedRanking))
	copy(entries, seedRanking)

	records := st.Checkins()
	current, _ := models.ComputeStreaks(records, time.Now())

	profile := st.Profile()
	name := profile.Name
	if name == "" {
		name = "Você"
	}
	me := models.RankingEntry{
		Name:          name,
		Email:         st.UserEmail(),
		TotalPoints:   st.Points(),
		TotalCheckins: len(records),
		CurrentStreak: current,
	}

	replaced := false
	for i := range entries {
		if entries[i].Email == me.Email {
			entries[i] = me
			replaced = true
			break
		}
	}
	if !replaced {
		entries = append(entries, me)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TotalPoints > entries[j].TotalPoints
	})
	for i := range entries {
		entries[i].ID = i + 1
		entries[i].Position = i + 1
	}
	return entries
}
