package game

import (
	"time"

	"mathquest/internal/domain"
)

// Award is a fixed completion reward.
type Award struct {
	Points int
	Badge  domain.BadgeID
}

// TimedAward configures the countdown game.
type TimedAward struct {
	Duration   time.Duration
	Multiplier int
	Badge      domain.BadgeID
}

// Rewards configures every variant. Zero fields fall back to DefaultRewards.
type Rewards struct {
	Matching      Award
	TrueFalse     Award
	Adventure     Award
	Timed         TimedAward
	FeedbackDelay time.Duration
}

// DefaultRewards returns the stock point values and badges.
func DefaultRewards() Rewards {
	return Rewards{
		Matching:  Award{Points: 50, Badge: domain.BadgeMatchingMaster},
		TrueFalse: Award{Points: 30, Badge: domain.BadgeQuizWhiz},
		Adventure: Award{Points: 40, Badge: domain.BadgeExplorer},
		Timed: TimedAward{
			Duration:   60 * time.Second,
			Multiplier: 10,
			Badge:      domain.BadgeSpeedster,
		},
		FeedbackDelay: 1500 * time.Millisecond,
	}
}

func (r Rewards) withDefaults() Rewards {
	d := DefaultRewards()
	r.Matching = r.Matching.orDefault(d.Matching)
	r.TrueFalse = r.TrueFalse.orDefault(d.TrueFalse)
	r.Adventure = r.Adventure.orDefault(d.Adventure)
	if r.Timed.Duration <= 0 {
		r.Timed.Duration = d.Timed.Duration
	}
	if r.Timed.Multiplier <= 0 {
		r.Timed.Multiplier = d.Timed.Multiplier
	}
	if r.Timed.Badge == 0 {
		r.Timed.Badge = d.Timed.Badge
	}
	if r.FeedbackDelay <= 0 {
		r.FeedbackDelay = d.FeedbackDelay
	}
	return r
}

func (a Award) orDefault(d Award) Award {
	if a.Points <= 0 {
		a.Points = d.Points
	}
	if a.Badge == 0 {
		a.Badge = d.Badge
	}
	return a
}
