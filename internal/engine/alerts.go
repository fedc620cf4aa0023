package engine

import (
	"fmt"
	"strconv"

	"github.com/xaenox/teampulse/internal/models"
)

// Rule thresholds.
const (
	inactivityHours      = 12
	deadlineWindowHours  = 24
	lowActivityThreshold = 1
)

// EvaluateAlerts applies the inactivity, deadline and mismatch rules in that
// order. Rules are independent; any subset may fire. The result is never nil.
func EvaluateAlerts(user string, behavior models.BehaviorSnapshot, task models.TaskSnapshot) []models.Alert {
	alerts := make([]models.Alert, 0, 3)

	if behavior.StalenessHours > inactivityHours {
		alerts = append(alerts, models.Alert{
			User:     user,
			Type:     models.AlertInactivity,
			Severity: models.SeverityHigh,
			Reason:   fmt.Sprintf("No Git activity in last %s hours", formatHours(behavior.StalenessHours)),
		})
	}

	if task.DeadlineHours < deadlineWindowHours && behavior.ActivityRate < lowActivityThreshold {
		alerts = append(alerts, models.Alert{
			User:     user,
			Type:     models.AlertDeadlineRisk,
			Severity: models.SeverityHigh,
			Reason:   "Deadline approaching with low activity",
		})
	}

	if task.Status == models.StatusInProgress && behavior.Mismatch {
		alerts = append(alerts, models.Alert{
			User:     user,
			Type:     models.AlertProgressMismatch,
			Severity: models.SeverityMedium,
			Reason:   "Task marked in-progress but Git shows inactivity",
		})
	}

	return alerts
}

// formatHours prints the shortest exact form: 14, 12.5.
func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}
