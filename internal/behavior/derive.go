// Package behavior turns raw commit activity into the BehaviorSnapshot the
// rule engine consumes.
package behavior

import (
	"math"
	"time"

	"github.com/xaenox/teampulse/internal/models"
)

const (
	// WindowHours is the observation window activity is averaged over.
	WindowHours = 24
	// mismatchAfterHours is how long an in-progress task may go without a
	// commit before its declared status is treated as contradicted.
	mismatchAfterHours = 4
)

// Derive computes a snapshot of log as of now. A zero LastCommit means the
// user has no recorded commit: staleness is the full window and speed is 0.
func Derive(log models.ActivityLog, now time.Time) models.BehaviorSnapshot {
	hoursInactive := float64(WindowHours)
	if !log.LastCommit.IsZero() {
		hoursInactive = math.Max(0, now.Sub(log.LastCommit).Hours())
	}

	speed := 0.0
	if !log.LastCommit.IsZero() {
		speed = float64(log.Commits) / math.Max(1, hoursInactive)
	}

	return models.BehaviorSnapshot{
		ActivityRate:   float64(log.Commits) / WindowHours,
		StalenessHours: hoursInactive,
		Speed:          speed,
		Consistency:    consistency(log.FileEdits),
		Mismatch:       isInProgress(log.TaskStatus) && hoursInactive > mismatchAfterHours,
	}
}

func consistency(edits models.FileEdits) float64 {
	total := math.Max(1, float64(edits.Total))
	c := 1 - float64(edits.Reverts)/total
	return math.Min(1, math.Max(0, c))
}

// isInProgress accepts the dashed status used by tasks and the underscore
// form some activity collectors send.
func isInProgress(status string) bool {
	return status == models.StatusInProgress || status == "in_progress"
}
