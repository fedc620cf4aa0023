package models

import "time"

// Task statuses known to the rule engine. Other values pass through untouched.
const (
	StatusInProgress = "in-progress"
	StatusDone       = "done"
	StatusBlocked    = "blocked"
)

// BehaviorSnapshot is the observed activity profile of one user
type BehaviorSnapshot struct {
	ActivityRate   float64 `json:"activity" yaml:"activity"`
	StalenessHours float64 `json:"staleness_hours" yaml:"staleness_hours"`
	Speed          float64 `json:"speed" yaml:"speed"`
	Consistency    float64 `json:"consistency" yaml:"consistency"`
	Mismatch       bool    `json:"mismatch" yaml:"mismatch"`
}

// TaskSnapshot is the declared state of the task a user works on.
// DeadlineHours is negative once the task is overdue.
type TaskSnapshot struct {
	TaskID        string  `json:"task_id,omitempty" yaml:"task_id,omitempty"`
	Assignee      string  `json:"assignee,omitempty" yaml:"assignee,omitempty"`
	DeadlineHours float64 `json:"deadline_hours" yaml:"deadline_hours"`
	Status        string  `json:"status" yaml:"status"`
}

// FileEdits counts edits and how many of them were reverted
type FileEdits struct {
	Total   int `json:"total" yaml:"total"`
	Reverts int `json:"reverts" yaml:"reverts"`
}

// ActivityLog is the raw commit data a BehaviorSnapshot is derived from
type ActivityLog struct {
	Commits    int       `json:"commits" yaml:"commits"`
	LastCommit time.Time `json:"last_commit" yaml:"last_commit"`
	FileEdits  FileEdits `json:"file_edits" yaml:"file_edits"`
	TaskStatus string    `json:"task_status,omitempty" yaml:"task_status,omitempty"`
}
