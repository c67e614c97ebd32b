package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/pontualapp/pontual/config"
	"github.com/pontualapp/pontual/models"
	"github.com/pontualapp/pontual/utils"
)

// Entry is one row of the key-value table backing the store.
type Entry struct {
	Key   string `gorm:"primaryKey;size:255"`
	Value string
}

// TableName keeps the table name stable regardless of struct renames.
func (Entry) TableName() string { return "entries" }

// Store wraps the local key-value table with failure-tolerant accessors.
// Storage errors are logged and swallowed: Get reports absence, Set and
// Remove become no-ops. Callers never see a storage failure.
type Store struct {
	db *gorm.DB
}

// Open opens (or creates) the sqlite file at path and migrates the entries table.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return open(sqlite.Open(path))
}

// OpenInMemory opens a private in-memory store, used by tests.
func OpenInMemory() (*Store, error) {
	return open(sqlite.Open(":memory:"))
}

func open(dialector gorm.Dialector) (*Store, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Get returns the stored value and whether the key exists.
func (s *Store) Get(key string) (string, bool) {
	var e Entry
	err := s.db.First(&e, "key = ?", key).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logf("store get failed key=%s err=%v", key, err)
		}
		return "", false
	}
	return e.Value, true
}

// Set stores value under key, overwriting any previous value.
func (s *Store) Set(key, value string) {
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&Entry{Key: key, Value: value}).Error
	if err != nil {
		logf("store set failed key=%s err=%v", key, err)
	}
}

// Remove deletes a key. Missing keys are not an error.
func (s *Store) Remove(key string) {
	if err := s.db.Delete(&Entry{}, "key = ?", key).Error; err != nil {
		logf("store remove failed key=%s err=%v", key, err)
	}
}

// Keys enumerates all keys with the given prefix.
func (s *Store) Keys(prefix string) []string {
	var keys []string
	err := s.db.Model(&Entry{}).Where("key LIKE ?", prefix+"%").Pluck("key", &keys).Error
	if err != nil {
		logf("store keys failed prefix=%s err=%v", prefix, err)
		return nil
	}
	return keys
}

// CheckinKey derives the per-day storage key for a date.
func CheckinKey(date time.Time) string {
	return config.KeyCheckinPrefix + utils.DateKey(date)
}

// HasCheckinForDate reports whether a record exists for the calendar date.
func (s *Store) HasCheckinForDate(date time.Time) bool {
	_, ok := s.Get(CheckinKey(date))
	return ok
}

// SaveCheckinForDate stores the record under the per-day key. A second save
// for the same date overwrites, so at most one record exists per calendar date.
func (s *Store) SaveCheckinForDate(date time.Time, record models.CheckinRecord) {
	b, err := json.Marshal(record)
	if err != nil {
		logf("marshal checkin failed: %v", err)
		return
	}
	s.Set(CheckinKey(date), string(b))
}

// GetCheckinForDate returns the parsed record for the date, or nil.
// Malformed stored JSON is treated as absence, never surfaced.
func (s *Store) GetCheckinForDate(date time.Time) *models.CheckinRecord {
	raw, ok := s.Get(CheckinKey(date))
	if !ok {
		return nil
	}
	var record models.CheckinRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		logf("corrupt checkin entry for %s: %v", utils.DateKey(date), err)
		return nil
	}
	return &record
}

// CleanOldCheckins removes every per-day check-in entry whose embedded date is
// not the given day. Runs once per session start; calling it again is a no-op.
func (s *Store) CleanOldCheckins(now time.Time) {
	today := utils.DateKey(now)
	for _, key := range s.Keys(config.KeyCheckinPrefix) {
		date := strings.TrimPrefix(key, config.KeyCheckinPrefix)
		if date != today {
			s.Remove(key)
		}
	}
}

// Auth sub-contract.

func (s *Store) SetAuthToken(token string) { s.Set(config.KeyAuthToken, token) }

func (s *Store) AuthToken() string {
	v, _ := s.Get(config.KeyAuthToken)
	return v
}

func (s *Store) SetUserEmail(email string) { s.Set(config.KeyUserEmail, email) }

func (s *Store) UserEmail() string {
	v, _ := s.Get(config.KeyUserEmail)
	return v
}

// SetLoginStatus stores the literal strings "true"/"false".
func (s *Store) SetLoginStatus(loggedIn bool) {
	s.Set(config.KeyIsLoggedIn, strconv.FormatBool(loggedIn))
}

// IsLoggedIn treats any stored value other than "true", including absence, as logged out.
func (s *Store) IsLoggedIn() bool {
	v, _ := s.Get(config.KeyIsLoggedIn)
	return v == "true"
}

// Logout removes the login flag, token and email. Three independent removals;
// there is no cross-process transaction guarantee, which is acceptable for
// single-instance kiosk state.
func (s *Store) Logout() {
	s.Remove(config.KeyIsLoggedIn)
	s.Remove(config.KeyAuthToken)
	s.Remove(config.KeyUserEmail)
}

// Rolling local history, points and profile.

// Checkins returns the locally tracked history, newest first.
func (s *Store) Checkins() []models.CheckinRecord {
	raw, ok := s.Get(config.KeyCheckinList)
	if !ok {
		return nil
	}
	var records []models.CheckinRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		logf("corrupt checkin list: %v", err)
		return nil
	}
	return records
}

// AppendCheckin prepends a record to the local history and adds its points.
func (s *Store) AppendCheckin(record models.CheckinRecord) {
	records := append([]models.CheckinRecord{record}, s.Checkins()...)
	b, err := json.Marshal(records)
	if err != nil {
		logf("marshal checkin list failed: %v", err)
		return
	}
	s.Set(config.KeyCheckinList, string(b))
	s.AddPoints(record.Points)
}

// Points returns the locally tracked points counter.
func (s *Store) Points() int {
	raw, ok := s.Get(config.KeyUserPoints)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		logf("corrupt points counter: %v", err)
		return 0
	}
	return n
}

// AddPoints increments the local points counter.
func (s *Store) AddPoints(n int) {
	s.Set(config.KeyUserPoints, strconv.Itoa(s.Points()+n))
}

// Profile returns the stored profile merged over defaults.
func (s *Store) Profile() models.UserProfile {
	profile := models.UserProfile{
		Name:       "Usuário",
		Department: "Tecnologia",
		Position:   "Desenvolvedor",
		StartDate:  "2024-01-01",
	}
	if raw, ok := s.Get(config.KeyUserProfile); ok {
		if err := json.Unmarshal([]byte(raw), &profile); err != nil {
			logf("corrupt profile entry: %v", err)
		}
	}
	profile.Email = s.UserEmail()
	return profile
}

// SaveProfile persists the editable profile fields.
func (s *Store) SaveProfile(profile models.UserProfile) {
	profile.Email = "" // derived from the session, not stored twice
	b, err := json.Marshal(profile)
	if err != nil {
		logf("marshal profile failed: %v", err)
		return
	}
	s.Set(config.KeyUserProfile, string(b))
}

func logf(format string, args ...interface{}) {
	if utils.Sugar != nil {
		utils.Sugar.Warnf(format, args...)
	}
}
