package dto

import (
	"time"

	"github.com/SNbappy/edugrid-smart-learning-platform-server/internal/models"
)

// TaskAnalytics summarizes grading progress for one task.
type TaskAnalytics struct {
	TaskID    string           `json:"taskId"`
	Title     string           `json:"title"`
	DueDate   time.Time        `json:"dueDate"`
	IsOverdue bool             `json:"isOverdue"`
	Stats     models.TaskStats `json:"stats"`
}

// ClassroomAnalytics is the read-only grading overview for a classroom.
type ClassroomAnalytics struct {
	ClassroomID       string          `json:"classroomId"`
	TaskCount         int             `json:"taskCount"`
	TotalSubmissions  int             `json:"totalSubmissions"`
	GradedSubmissions int             `json:"gradedSubmissions"`
	AverageScore      float64         `json:"averageScore"`
	Tasks             []TaskAnalytics `json:"tasks"`
	GeneratedAt       time.Time       `json:"generatedAt"`
}
