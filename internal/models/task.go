package models

import (
	"math"
	"time"
)

// Task lifecycle status values.
const (
	TaskStatusActive = "active"
)

// TaskStats aggregates grading progress for a task. The values are
// derived from the submission list and recomputed on read and write.
type TaskStats struct {
	TotalSubmissions  int     `json:"totalSubmissions"`
	GradedSubmissions int     `json:"gradedSubmissions"`
	AverageScore      float64 `json:"averageScore"`
}

// Task is an assignment embedded in a classroom document.
//
// ID is the canonical identifier assigned at creation. LegacyID mirrors
// the older documents' internal identifier field; both are set to the
// same value for new tasks, but historical documents may carry either
// one, so lookups go through TaskIndexByID.
type Task struct {
	ID           string       `json:"id"`
	LegacyID     string       `json:"_id,omitempty"`
	Title        string       `json:"title"`
	Description  string       `json:"description,omitempty"`
	Instructions string       `json:"instructions,omitempty"`
	DueDate      time.Time    `json:"dueDate"`
	Points       int          `json:"points"`
	Type         string       `json:"type,omitempty"`
	Attachments  []Attachment `json:"attachments,omitempty"`
	CreatedBy    string       `json:"createdBy,omitempty"`
	IsPublished  bool         `json:"isPublished"`
	Status       string       `json:"status"`
	Submissions  []Submission `json:"submissions"`
	Stats        TaskStats    `json:"stats"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// IsPastDue returns true when the task deadline has already passed.
func (t Task) IsPastDue(reference time.Time) bool {
	return !t.DueDate.IsZero() && reference.After(t.DueDate)
}

// MatchesID reports whether the given identifier refers to this task
// under either identifier convention.
func (t Task) MatchesID(id string) bool {
	return id != "" && (t.ID == id || t.LegacyID == id)
}

// TaskIndexByID resolves a task by any known identifier field. This is
// the single lookup path for tasks; callers must not match identifiers
// inline.
func TaskIndexByID(tasks []Task, id string) (int, bool) {
	for i := range tasks {
		if tasks[i].MatchesID(id) {
			return i, true
		}
	}
	return -1, false
}

// SubmissionIndexFor returns the index of the student's submission, if
// any. Each student holds at most one submission per task.
func (t Task) SubmissionIndexFor(email string) (int, bool) {
	for i := range t.Submissions {
		if t.Submissions[i].StudentEmail == email {
			return i, true
		}
	}
	return -1, false
}

// RecalculateStats recomputes the derived stats from the submission
// list. Average score is rounded to two decimals.
func (t *Task) RecalculateStats() {
	graded := 0
	total := 0.0
	for i := range t.Submissions {
		if t.Submissions[i].Grade != nil {
			graded++
			total += *t.Submissions[i].Grade
		}
	}

	average := 0.0
	if graded > 0 {
		average = math.Round(total/float64(graded)*100) / 100
	}

	t.Stats = TaskStats{
		TotalSubmissions:  len(t.Submissions),
		GradedSubmissions: graded,
		AverageScore:      average,
	}
}
