package dto

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/SNbappy/edugrid-smart-learning-platform-server/internal/models"
)

// SubmissionRequest carries the submission payload. The front end went
// through several field-naming schemes, so text and URL each have two
// accepted spellings and a single Cloudinary-style file can arrive as
// flat fileUrl/fileName fields instead of an attachments array.
type SubmissionRequest struct {
	StudentEmail   string              `json:"studentEmail" validate:"required,email"`
	StudentName    string              `json:"studentName"`
	SubmissionText string              `json:"submissionText"`
	Text           string              `json:"text"`
	SubmissionURL  string              `json:"submissionUrl" validate:"omitempty,url"`
	FileURL        string              `json:"fileUrl" validate:"omitempty,url"`
	FileName       string              `json:"fileName"`
	FileSize       *int64              `json:"fileSize"`
	FileType       string              `json:"fileType"`
	Attachments    []AttachmentPayload `json:"attachments"`
	// IsResubmission is accepted for older clients but ignored: an
	// existing submission is always replaced.
	IsResubmission bool `json:"isResubmission"`
}

// AttachmentPayload is one element of a client-supplied attachments
// array, with the legacy alternate field names.
type AttachmentPayload struct {
	URL          string `json:"url" validate:"required,url"`
	Name         string `json:"name"`
	OriginalName string `json:"originalName"`
	Type         string `json:"type"`
	MimeType     string `json:"mimeType"`
	Size         *int64 `json:"size"`
}

// Score is a grade value that accepts either a JSON number or a
// numeric string, since older clients sent grades as strings.
type Score float64

// UnmarshalJSON implements json.Unmarshaler.
func (s *Score) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, `"`) {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return fmt.Errorf("invalid grade value %q", raw)
		}
		*s = Score(parsed)
		return nil
	}

	var parsed float64
	if err := json.Unmarshal(data, &parsed); err != nil {
		return err
	}
	*s = Score(parsed)
	return nil
}

// GradeRequest carries the grading payload.
type GradeRequest struct {
	Grade    *Score `json:"grade" validate:"required"`
	Feedback string `json:"feedback"`
}

// SubmissionReceipt is the trimmed acknowledgement returned after a
// submit or resubmit.
type SubmissionReceipt struct {
	ID              string    `json:"id"`
	StudentEmail    string    `json:"studentEmail"`
	SubmittedAt     time.Time `json:"submittedAt"`
	AttachmentCount int       `json:"attachmentCount"`
}

// AttachmentResponse serializes one attachment descriptor.
type AttachmentResponse struct {
	URL          string `json:"url"`
	Name         string `json:"name"`
	OriginalName string `json:"originalName"`
	Type         string `json:"type"`
	Size         *int64 `json:"size"`
	MimeType     string `json:"mimeType"`
}

// SubmissionResponse is the full submission view. Files duplicates
// Attachments because the viewing modal of older clients reads either
// field.
type SubmissionResponse struct {
	ID             string               `json:"id"`
	LegacyID       string               `json:"_id"`
	StudentEmail   string               `json:"studentEmail"`
	StudentName    string               `json:"studentName"`
	SubmissionText string               `json:"submissionText"`
	SubmissionURL  string               `json:"submissionUrl,omitempty"`
	Attachments    []AttachmentResponse `json:"attachments"`
	Files          []AttachmentResponse `json:"files"`
	SubmittedAt    time.Time            `json:"submittedAt"`
	Status         string               `json:"status"`
	Grade          *float64             `json:"grade"`
	Feedback       *string              `json:"feedback"`
	GradedBy       *string              `json:"gradedBy"`
	GradedAt       *time.Time           `json:"gradedAt"`
	Version        int                  `json:"version"`
}

// SubmissionListResponse is the payload for listing a task's
// submissions, including the caller's resolved role.
type SubmissionListResponse struct {
	Submissions []SubmissionResponse `json:"submissions"`
	Count       int                  `json:"count"`
	TaskTitle   string               `json:"taskTitle"`
	UserRole    string               `json:"userRole"`
}

// GradingResult acknowledges a grade update.
type GradingResult struct {
	SubmissionID string    `json:"submissionId"`
	StudentEmail string    `json:"studentEmail"`
	Grade        float64   `json:"grade"`
	Feedback     string    `json:"feedback"`
	GradedBy     string    `json:"gradedBy"`
	GradedAt     time.Time `json:"gradedAt"`
}

// EligibilityResponse reports what the caller can currently do with a
// task.
type EligibilityResponse struct {
	HasSubmitted   bool   `json:"hasSubmitted"`
	CanSubmit      bool   `json:"canSubmit"`
	CanResubmit    bool   `json:"canResubmit"`
	IsOverdue      bool   `json:"isOverdue"`
	IsGraded       bool   `json:"isGraded"`
	SubmitReason   string `json:"submitReason"`
	ResubmitReason string `json:"resubmitReason"`
}

// NewAttachmentResponseSlice converts attachment models into DTOs.
func NewAttachmentResponseSlice(attachments []models.Attachment) []AttachmentResponse {
	responses := make([]AttachmentResponse, 0, len(attachments))
	for _, attachment := range attachments {
		responses = append(responses, AttachmentResponse{
			URL:          attachment.URL,
			Name:         attachment.Name,
			OriginalName: attachment.OriginalName,
			Type:         attachment.Type,
			Size:         attachment.Size,
			MimeType:     attachment.MimeType,
		})
	}
	return responses
}

// NewSubmissionResponse converts a submission model into a DTO. The
// caller is expected to have back-filled attachments and display
// defaults beforehand.
func NewSubmissionResponse(model models.Submission) SubmissionResponse {
	attachments := NewAttachmentResponseSlice(model.Attachments)
	legacyID := model.LegacyID
	if legacyID == "" {
		legacyID = model.ID
	}

	return SubmissionResponse{
		ID:             model.ID,
		LegacyID:       legacyID,
		StudentEmail:   model.StudentEmail,
		StudentName:    model.StudentName,
		SubmissionText: model.SubmissionText,
		SubmissionURL:  model.SubmissionURL,
		Attachments:    attachments,
		Files:          attachments,
		SubmittedAt:    model.SubmittedAt,
		Status:         model.Status,
		Grade:          model.Grade,
		Feedback:       model.Feedback,
		GradedBy:       model.GradedBy,
		GradedAt:       model.GradedAt,
		Version:        model.Version,
	}
}

// NewSubmissionResponseSlice converts submission models into DTOs.
func NewSubmissionResponseSlice(submissions []models.Submission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, NewSubmissionResponse(submission))
	}
	return responses
}
