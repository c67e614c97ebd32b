package models

import "strconv"

// RankingEntry is a read-only leaderboard projection. It is fetched from the
// upstream API or synthesized from local data, never mutated locally.
type RankingEntry struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	TotalPoints   int    `json:"totalPoints"`
	TotalCheckins int    `json:"totalCheckins"`
	CurrentStreak int    `json:"currentStreak"`
	Position      int    `json:"position"`
}

// UserProfile is the locally editable profile, merged over defaults on load.
type UserProfile struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Position   string `json:"position"`
	StartDate  string `json:"startDate"`
}

// ProfileStats are derived numbers shown on the profile view, recomputed on each load.
type ProfileStats struct {
	TotalCheckins int `json:"totalCheckins"`
	TotalPoints   int `json:"totalPoints"`
	CurrentStreak int `json:"currentStreak"`
	LongestStreak int `json:"longestStreak"`
}

// MedalIcon maps a ranking position to its display glyph.
func MedalIcon(position int) string {
	switch position {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	default:
		return strconv.Itoa(position) + "º"
	}
}

// PositionClass maps a ranking position to its styling class.
func PositionClass(position int) string {
	switch position {
	case 1:
		return "gold"
	case 2:
		return "silver"
	case 3:
		return "bronze"
	default:
		return "regular"
	}
}
