package models

// AlertType identifies which rule produced an alert
type AlertType string

const (
	AlertInactivity       AlertType = "INACTIVITY"
	AlertDeadlineRisk     AlertType = "DEADLINE_RISK"
	AlertProgressMismatch AlertType = "PROGRESS_MISMATCH"
)

// Severity of an alert
type Severity string

const (
	SeverityHigh   Severity = "HIGH"
	SeverityMedium Severity = "MEDIUM"
	SeverityLow    Severity = "LOW"
)

// Alert is a risk flag raised for a single user
type Alert struct {
	User     string    `json:"user" yaml:"user"`
	Type     AlertType `json:"type" yaml:"type"`
	Severity Severity  `json:"severity" yaml:"severity"`
	Reason   string    `json:"reason" yaml:"reason"`
}

// LeaderboardEntry is one ranked row of the leaderboard
type LeaderboardEntry struct {
	User  string  `json:"user" yaml:"user"`
	Score float64 `json:"score" yaml:"score"`
}
