package httpapi

import (
	"fmt"
	"strings"

	"github.com/xaenox/teampulse/internal/models"
)

// Request payloads use pointers so a missing field can be told apart from a
// zero value.

type behaviorPayload struct {
	Activity       *float64 `json:"activity"`
	StalenessHours *float64 `json:"staleness_hours"`
	Speed          *float64 `json:"speed"`
	Consistency    *float64 `json:"consistency"`
	Mismatch       *bool    `json:"mismatch"`
}

func (p *behaviorPayload) snapshot() (models.BehaviorSnapshot, error) {
	var missing []string
	if p.Activity == nil {
		missing = append(missing, "activity")
	}
	if p.StalenessHours == nil {
		missing = append(missing, "staleness_hours")
	}
	if p.Speed == nil {
		missing = append(missing, "speed")
	}
	if p.Consistency == nil {
		missing = append(missing, "consistency")
	}
	if p.Mismatch == nil {
		missing = append(missing, "mismatch")
	}
	if len(missing) > 0 {
		return models.BehaviorSnapshot{}, missingFields("behavior", missing)
	}

	return models.BehaviorSnapshot{
		ActivityRate:   *p.Activity,
		StalenessHours: *p.StalenessHours,
		Speed:          *p.Speed,
		Consistency:    *p.Consistency,
		Mismatch:       *p.Mismatch,
	}, nil
}

// scoringSnapshot is the subset the leaderboard needs; staleness and
// mismatch are optional there.
func (p *behaviorPayload) scoringSnapshot() (models.BehaviorSnapshot, error) {
	var missing []string
	if p.Activity == nil {
		missing = append(missing, "activity")
	}
	if p.Speed == nil {
		missing = append(missing, "speed")
	}
	if p.Consistency == nil {
		missing = append(missing, "consistency")
	}
	if len(missing) > 0 {
		return models.BehaviorSnapshot{}, missingFields("behavior", missing)
	}

	b := models.BehaviorSnapshot{
		ActivityRate: *p.Activity,
		Speed:        *p.Speed,
		Consistency:  *p.Consistency,
	}
	if p.StalenessHours != nil {
		b.StalenessHours = *p.StalenessHours
	}
	if p.Mismatch != nil {
		b.Mismatch = *p.Mismatch
	}
	return b, nil
}

type taskPayload struct {
	TaskID        string   `json:"task_id"`
	Assignee      string   `json:"assignee"`
	DeadlineHours *float64 `json:"deadline_hours"`
	Status        *string  `json:"status"`
}

func (p *taskPayload) snapshot() (models.TaskSnapshot, error) {
	var missing []string
	if p.DeadlineHours == nil {
		missing = append(missing, "deadline_hours")
	}
	if p.Status == nil {
		missing = append(missing, "status")
	}
	if len(missing) > 0 {
		return models.TaskSnapshot{}, missingFields("task", missing)
	}

	return models.TaskSnapshot{
		TaskID:        p.TaskID,
		Assignee:      p.Assignee,
		DeadlineHours: *p.DeadlineHours,
		Status:        *p.Status,
	}, nil
}

type alertsRequest struct {
	User     *string          `json:"user"`
	Behavior *behaviorPayload `json:"behavior"`
	Task     *taskPayload     `json:"task"`
}

type sendRequest struct {
	User *string `json:"user"`
	Text *string `json:"text"`
}

func missingFields(object string, fields []string) error {
	return fmt.Errorf("%s is missing required fields: %s", object, strings.Join(fields, ", "))
}
