package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pontualapp/pontual/config"
	"github.com/pontualapp/pontual/models"
)

var storeToday = time.Date(2026, 3, 2, 9, 30, 0, 0, time.Local) // monday

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenInMemory()
	require.NoError(t, err)
	return s
}

func TestSetGetRemove(t *testing.T) {
	s := newTestStore(t)

	_, ok := s.Get("missing")
	assert.False(t, ok)

	s.Set("k", "v1")
	v, ok := s.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v1", v)

	s.Set("k", "v2")
	v, _ = s.Get("k")
	assert.Equal(t, "v2", v)

	s.Remove("k")
	_, ok = s.Get("k")
	assert.False(t, ok)

	// Removing a missing key is not an error.
	s.Remove("k")
}

func TestSaveCheckinOverwritesSameDate(t *testing.T) {
	s := newTestStore(t)

	first := models.CheckinRecord{ID: "a", UserID: 1, Timestamp: storeToday, Points: 10}
	second := models.CheckinRecord{ID: "b", UserID: 1, Timestamp: storeToday.Add(time.Hour), Points: 10}

	s.SaveCheckinForDate(storeToday, first)
	s.SaveCheckinForDate(storeToday, second)

	assert.Len(t, s.Keys(config.KeyCheckinPrefix), 1)
	record := s.GetCheckinForDate(storeToday)
	require.NotNil(t, record)
	assert.Equal(t, "b", record.ID)
}

func TestCleanOldCheckinsIsIdempotent(t *testing.T) {
	s := newTestStore(t)

	s.SaveCheckinForDate(storeToday, models.CheckinRecord{ID: "today", Timestamp: storeToday})
	s.SaveCheckinForDate(storeToday.AddDate(0, 0, -1), models.CheckinRecord{ID: "old", Timestamp: storeToday.AddDate(0, 0, -1)})
	s.Set(config.KeyCheckinPrefix+"2020-01-01", "{}")

	s.CleanOldCheckins(storeToday)
	assert.Equal(t, []string{CheckinKey(storeToday)}, s.Keys(config.KeyCheckinPrefix))
	assert.True(t, s.HasCheckinForDate(storeToday))

	s.CleanOldCheckins(storeToday)
	assert.Equal(t, []string{CheckinKey(storeToday)}, s.Keys(config.KeyCheckinPrefix))
}

func TestMalformedCheckinEntryIsAbsence(t *testing.T) {
	s := newTestStore(t)

	s.Set(CheckinKey(storeToday), "{definitely not json")
	assert.Nil(t, s.GetCheckinForDate(storeToday))

	s.Set(config.KeyCheckinList, "[broken")
	assert.Nil(t, s.Checkins())

	s.Set(config.KeyUserPoints, "NaN")
	assert.Zero(t, s.Points())
}

func TestLoginFlagLiterals(t *testing.T) {
	s := newTestStore(t)

	assert.False(t, s.IsLoggedIn())

	s.SetLoginStatus(true)
	raw, _ := s.Get(config.KeyIsLoggedIn)
	assert.Equal(t, "true", raw)
	assert.True(t, s.IsLoggedIn())

	s.SetLoginStatus(false)
	raw, _ = s.Get(config.KeyIsLoggedIn)
	assert.Equal(t, "false", raw)
	assert.False(t, s.IsLoggedIn())
}

func TestLogoutClearsSessionKeys(t *testing.T) {
	s := newTestStore(t)

	s.SetAuthToken("tok")
	s.SetUserEmail("user@local.com")
	s.SetLoginStatus(true)

	s.Logout()

	_, ok := s.Get(config.KeyIsLoggedIn)
	assert.False(t, ok)
	_, ok = s.Get(config.KeyAuthToken)
	assert.False(t, ok)
	_, ok = s.Get(config.KeyUserEmail)
	assert.False(t, ok)
}

func TestHistoryAndPoints(t *testing.T) {
	s := newTestStore(t)

	s.AppendCheckin(models.CheckinRecord{ID: "1", Timestamp: storeToday.AddDate(0, 0, -1), Points: 10})
	s.AppendCheckin(models.CheckinRecord{ID: "2", Timestamp: storeToday, Points: 15})

	records := s.Checkins()
	require.Len(t, records, 2)
	assert.Equal(t, "2", records[0].ID, "newest first")
	assert.Equal(t, 25, s.Points())
}

func TestProfileDefaultsAndSave(t *testing.T) {
	s := newTestStore(t)
	s.SetUserEmail("dev@empresa.com")

	profile := s.Profile()
	assert.Equal(t, "Usuário", profile.Name)
	assert.Equal(t, "Tecnologia", profile.Department)
	assert.Equal(t, "Desenvolvedor", profile.Position)
	assert.Equal(t, "dev@empresa.com", profile.Email)

	profile.Name = "Maria"
	profile.Department = "Produto"
	s.SaveProfile(profile)

	saved := s.Profile()
	assert.Equal(t, "Maria", saved.Name)
	assert.Equal(t, "Produto", saved.Department)
	assert.Equal(t, "dev@empresa.com", saved.Email, "email always follows the session")
}
