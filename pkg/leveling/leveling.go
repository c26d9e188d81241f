// Package leveling implements the XP curve, the per-message award rule and
// the ranking helpers used by the profile and leaderboard commands.
package leveling

import (
	"math"
	"time"

	"github.com/PancyStudios/MultiGameBot/pkg/models"
)

const (
	// Cooldown is the minimum time between two XP awards for one user
	Cooldown = 60 * time.Second
	// MinGain and MaxGain bound the XP granted per qualifying message
	MinGain = 15
	MaxGain = 25
	// RewardPerLevel is the coin reward announced per reached level
	RewardPerLevel = 50
	// MaxLevel is the highest level whose threshold fits in an int64
	MaxLevel = 429496729
)

// XPForLevel returns the cumulative XP at which level n is reached:
// sum of i*100 for i in 1..n. Levels above MaxLevel saturate at
// math.MaxInt64.
func XPForLevel(n int) int64 {
	if n <= 0 {
		return 0
	}
	if n > MaxLevel {
		return math.MaxInt64
	}
	l := int64(n)
	return 50 * l * (l + 1)
}

// LevelFromXP returns the largest level L >= 1 with XPForLevel(L) <= xp
func LevelFromXP(xp int64) int {
	if xp < XPForLevel(1) {
		return 1
	}
	// 50*L*(L+1) <= xp  =>  L <= (-1 + sqrt(1 + xp/12.5)) / 2
	l := int((math.Sqrt(1+float64(xp)/12.5) - 1) / 2)
	l = max(1, min(l, MaxLevel))
	for l > 1 && XPForLevel(l) > xp {
		l--
	}
	for l < MaxLevel && XPForLevel(l+1) <= xp {
		l++
	}
	return l
}

// Progress describes how far a user is inside the current level
type Progress struct {
	Level   int     `json:"level"`
	Current int64   `json:"current"` // XP earned inside the level
	Needed  int64   `json:"needed"`  // XP span of the level
	Percent float64 `json:"percent"`
}

// ProgressFor computes the progress of xp toward the next level
func ProgressFor(xp int64) Progress {
	level := LevelFromXP(xp)
	var floor int64
	if level > 1 {
		floor = XPForLevel(level)
	}
	ceil := XPForLevel(level + 1)

	p := Progress{Level: level, Current: xp - floor, Needed: ceil - floor}
	if p.Current < 0 {
		p.Current = 0
	}
	if p.Needed > 0 {
		p.Percent = float64(p.Current) / float64(p.Needed) * 100
	}
	p.Percent = math.Max(0, math.Min(100, p.Percent))
	return p
}

// LevelUp is emitted when an award pushes a user past a level boundary
type LevelUp struct {
	Level   int   `json:"level"`
	TotalXP int64 `json:"total_xp"`
	Reward  int64 `json:"reward"`
}

// Rand is the randomness source used for XP gains. *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// Eligible reports whether rec may receive XP at now
func Eligible(rec *models.UserRecord, now time.Time) bool {
	if rec.LastXPTime == nil {
		return true
	}
	return now.Sub(rec.LastXPTime.Time) >= Cooldown
}

// Award applies the message award rule to rec. ok is false when the user is
// still on cooldown, in which case rec is not modified.
func Award(rec *models.UserRecord, now time.Time, rng Rand) (gained int64, up *LevelUp, ok bool) {
	if !Eligible(rec, now) {
		return 0, nil, false
	}

	oldLevel := LevelFromXP(rec.XP)
	gained = int64(MinGain + rng.Intn(MaxGain-MinGain+1))

	rec.XP = addCapped(rec.XP, gained)
	rec.TotalXPGained = addCapped(rec.TotalXPGained, gained)
	rec.MessagesSent++
	rec.LastXPTime = models.TimestampPtr(now)
	rec.Level = LevelFromXP(rec.XP)

	if rec.Level > oldLevel {
		up = &LevelUp{
			Level:   rec.Level,
			TotalXP: rec.XP,
			Reward:  int64(rec.Level) * RewardPerLevel,
		}
	}
	return gained, up, true
}

func addCapped(a, b int64) int64 {
	if a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}
