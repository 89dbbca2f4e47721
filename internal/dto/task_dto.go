package dto

import (
	"time"

	"github.com/SNbappy/edugrid-smart-learning-platform-server/internal/models"
)

// TaskCreateRequest carries the instructor's new-task payload.
type TaskCreateRequest struct {
	Title        string              `json:"title" validate:"required"`
	Description  string              `json:"description"`
	Instructions string              `json:"instructions"`
	DueDate      time.Time           `json:"dueDate" validate:"required"`
	Points       int                 `json:"points" validate:"omitempty,gte=0"`
	Type         string              `json:"type"`
	Attachments  []AttachmentPayload `json:"attachments"`
	CreatedBy    string              `json:"createdBy" validate:"omitempty,email"`
}

// TaskUpdateRequest carries the mutable task fields. Anything outside
// this allow-list is ignored.
type TaskUpdateRequest struct {
	Title        *string    `json:"title"`
	Description  *string    `json:"description"`
	Instructions *string    `json:"instructions"`
	DueDate      *time.Time `json:"dueDate"`
	Points       *int       `json:"points" validate:"omitempty,gte=0"`
	Type         *string    `json:"type"`
	IsPublished  *bool      `json:"isPublished"`
}

// TaskComputedStats are derived values attached to single-task reads.
type TaskComputedStats struct {
	SubmissionCount int  `json:"submissionCount"`
	IsOverdue       bool `json:"isOverdue"`
	DaysUntilDue    *int `json:"daysUntilDue"`
}

// TaskResponse serializes a task for API clients.
type TaskResponse struct {
	ID            string               `json:"id"`
	LegacyID      string               `json:"_id"`
	Title         string               `json:"title"`
	Description   string               `json:"description"`
	Instructions  string               `json:"instructions"`
	DueDate       time.Time            `json:"dueDate"`
	Points        int                  `json:"points"`
	Type          string               `json:"type"`
	Attachments   []AttachmentResponse `json:"attachments"`
	CreatedBy     string               `json:"createdBy"`
	IsPublished   bool                 `json:"isPublished"`
	Status        string               `json:"status"`
	Stats         models.TaskStats     `json:"stats"`
	ComputedStats *TaskComputedStats   `json:"computedStats,omitempty"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

// TaskListResponse is the payload for listing a classroom's tasks.
type TaskListResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Count int            `json:"count"`
}

// NewTaskResponse converts a task model into a DTO. Submissions are
// deliberately omitted; they are served by the submission endpoints
// with access control applied.
func NewTaskResponse(model models.Task) TaskResponse {
	legacyID := model.LegacyID
	if legacyID == "" {
		legacyID = model.ID
	}

	return TaskResponse{
		ID:           model.ID,
		LegacyID:     legacyID,
		Title:        model.Title,
		Description:  model.Description,
		Instructions: model.Instructions,
		DueDate:      model.DueDate,
		Points:       model.Points,
		Type:         model.Type,
		Attachments:  NewAttachmentResponseSlice(model.Attachments),
		CreatedBy:    model.CreatedBy,
		IsPublished:  model.IsPublished,
		Status:       model.Status,
		Stats:        model.Stats,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}

// NewTaskResponseSlice converts task models into DTOs.
func NewTaskResponseSlice(tasks []models.Task) []TaskResponse {
	responses := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		responses = append(responses, NewTaskResponse(task))
	}
	return responses
}
