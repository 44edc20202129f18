package fixture

import (
	"strings"
	"time"
)

const (
	StatusScheduled = "SCHEDULED"
	StatusFinished  = "FINISHED"
	StatusPostponed = "POSTPONED"
	StatusCancelled = "CANCELLED"
)

// SubmissionCutoff is how long before kickoff the prediction window closes.
const SubmissionCutoff = time.Hour

// Fixture is one scheduled match between two teams within a league. The core
// treats it as immutable except for the Scheduled -> Finished transition,
// which attaches the final score.
type Fixture struct {
	ID         int64
	LeagueID   int64
	HomeTeamID int64
	AwayTeamID int64
	HomeTeam   string
	AwayTeam   string
	KickoffAt  time.Time
	Status     string
	HomeGoals  *int
	AwayGoals  *int
}

func (f Fixture) IsFinished() bool {
	return IsFinishedStatus(f.Status) && f.HomeGoals != nil && f.AwayGoals != nil
}

// WindowOpen reports whether predictions may still be made or changed at the
// given instant: strictly before kickoff minus the cutoff.
func (f Fixture) WindowOpen(now time.Time) bool {
	return now.Before(f.KickoffAt.Add(-SubmissionCutoff))
}

func NormalizeStatus(value string) string {
	status := strings.ToUpper(strings.TrimSpace(value))
	if status == "" {
		return StatusScheduled
	}
	return status
}

// IsFinishedStatus folds the upstream source's many final-whistle codes into
// one finished state.
func IsFinishedStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusFinished, "FT", "AET", "PEN", "MATCH FINISHED":
		return true
	default:
		return false
	}
}

func IsCancelledLikeStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusCancelled, StatusPostponed, "ABANDONED", "MATCH POSTPONED", "MATCH CANCELLED":
		return true
	default:
		return false
	}
}
