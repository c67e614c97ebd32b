package upstream

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pontualapp/pontual/config"
	"github.com/pontualapp/pontual/models"
	"github.com/pontualapp/pontual/store"
	"github.com/pontualapp/pontual/utils"
)

func init() {
	config.SetForTesting(config.AppConfig{JWTSecret: "test-secret"})
	utils.InitTestLogger()
}

func newSyntheticForTest(t *testing.T) (*Synthetic, *store.Store) {
	t.Helper()
	st, err := store.OpenInMemory()
	require.NoError(t, err)
	return NewSynthetic(config.Get(), st), st
}

func TestVerifyFallbackCredentials(t *testing.T) {
	cases := []struct {
		username string
		password string
		want     bool
	}{
		{"admin", "123456", true},
		{"user", "password", true},
		{"test", "test123", true},
		{"admin", "errada", false},
		{"desconhecido", "123456", false},
		{"", "", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, VerifyFallbackCredentials(tc.username, tc.password), tc.username)
	}
}

func TestSyntheticLogin(t *testing.T) {
	s, _ := newSyntheticForTest(t)

	resp, err := s.Login(context.Background(), LoginRequest{Username: "test", Password: "test123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "test@local.com", resp.User.Email)

	claims, err := utils.ParseToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "test", claims.Username)

	_, err = s.Login(context.Background(), LoginRequest{Username: "test", Password: "wrong"})
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
}

func TestSyntheticCheckinFlow(t *testing.T) {
	s, st := newSyntheticForTest(t)
	ctx := context.Background()
	now := time.Now()

	status, err := s.CheckinStatus(ctx)
	require.NoError(t, err)
	if utils.IsWeekend(now) {
		assert.False(t, status.CanCheckin)
		assert.True(t, status.IsWeekend)
	} else {
		assert.True(t, status.CanCheckin)
	}

	resp, err := s.DoCheckin(ctx, CheckinRequest{UserID: 1, Timestamp: now.Format(time.RFC3339)})
	require.NoError(t, err)
	assert.Equal(t, 10, resp.Points)
	assert.True(t, st.HasCheckinForDate(now))

	status, err = s.CheckinStatus(ctx)
	require.NoError(t, err)
	assert.False(t, status.CanCheckin)
	assert.True(t, status.AlreadyCheckedIn)

	history, err := s.Checkins(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, resp.Timestamp, history[0].Timestamp)
}

func TestSyntheticHealthCheck(t *testing.T) {
	s, _ := newSyntheticForTest(t)
	assert.Equal(t, "ok", s.HealthCheck(context.Background()).Status)
}

func TestBuildLocalRankingAppendsLocalUser(t *testing.T) {
	_, st := newSyntheticForTest(t)
	st.SetUserEmail("eu@local.com")
	st.AppendCheckin(models.CheckinRecord{ID: "x", Timestamp: time.Now(), Points: 500})

	entries := BuildLocalRanking(st)
	require.Len(t, entries, 9, "seed list plus the local user")

	assert.Equal(t, "eu@local.com", entries[0].Email, "500 points beat the seed leader")
	assert.Equal(t, 1, entries[0].Position)
	assert.Equal(t, "Ana Silva", entries[1].Name)

	count := 0
	for i, e := range entries {
		assert.Equal(t, i+1, e.Position)
		if e.Email == "eu@local.com" {
			count++
		}
	}
	assert.Equal(t, 1, count, "local user present exactly once")

	for i := 1; i < len(entries); i++ {
		assert.GreaterOrEqual(t, entries[i-1].TotalPoints, entries[i].TotalPoints)
	}
}

func TestBuildLocalRankingReplacesSeedUser(t *testing.T) {
	_, st := newSyntheticForTest(t)
	st.SetUserEmail("ana.silva@empresa.com")

	entries := BuildLocalRanking(st)
	assert.Len(t, entries, 8, "seed entry replaced, not duplicated")

	count := 0
	for _, e := range entries {
		if e.Email == "ana.silva@empresa.com" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}
