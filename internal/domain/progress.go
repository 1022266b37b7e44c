package domain

import "time"

// BadgeID identifies an entry in the badge catalog.
type BadgeID int

// UserProgress is the durable progress record of a single user.
type UserProgress struct {
	Points              int       `json:"points"`
	Badges              []BadgeID `json:"badges"`
	CompletedProblems   []int     `json:"completedProblems"`
	CompletedChallenges []int     `json:"completedChallenges"`
	LastUpdated         time.Time `json:"lastUpdated"`
}

// HasBadge reports whether the badge has already been earned.
func (p UserProgress) HasBadge(id BadgeID) bool {
	for _, b := range p.Badges {
		if b == id {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers cannot alias store internals.
func (p UserProgress) Clone() UserProgress {
	out := p
	out.Badges = append([]BadgeID{}, p.Badges...)
	out.CompletedProblems = append([]int{}, p.CompletedProblems...)
	out.CompletedChallenges = append([]int{}, p.CompletedChallenges...)
	return out
}

// ProgressPatch is a partial progress update; nil fields are left untouched.
type ProgressPatch struct {
	Points              *int
	Badges              []BadgeID
	CompletedProblems   []int
	CompletedChallenges []int
}

// LeaderboardEntry is one row of the derived leaderboard.
type LeaderboardEntry struct {
	UserID      string    `json:"userId"`
	Points      int       `json:"points"`
	BadgeCount  int       `json:"badgeCount"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// Leaderboard is the points-descending ranking of every user with a progress record.
type Leaderboard struct {
	Entries   []LeaderboardEntry `json:"entries"`
	UpdatedAt time.Time          `json:"updatedAt"`
}
