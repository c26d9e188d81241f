package leveling

import (
	"sort"

	"github.com/PancyStudios/MultiGameBot/pkg/models"
)

// Standing is one row of a guild leaderboard
type Standing struct {
	UserID string
	Record *models.UserRecord
}

// SortStandings orders rows by XP descending, then earlier join date, then
// user ID ascending
func SortStandings(rows []Standing) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Record.XP != b.Record.XP {
			return a.Record.XP > b.Record.XP
		}
		if !a.Record.JoinDate.Time.Equal(b.Record.JoinDate.Time) {
			return a.Record.JoinDate.Time.Before(b.Record.JoinDate.Time)
		}
		return lessID(a.UserID, b.UserID)
	})
}

// RankOf returns 1 + the number of rows with strictly more XP than xp
func RankOf(rows []Standing, xp int64) int {
	rank := 1
	for _, row := range rows {
		if row.Record.XP > xp {
			rank++
		}
	}
	return rank
}

// lessID compares snowflakes numerically when both are numeric
func lessID(a, b string) bool {
	if len(a) != len(b) && isNumeric(a) && isNumeric(b) {
		return len(a) < len(b)
	}
	return a < b
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
