package models

import "time"

// Submission status values. SubmissionStatusResubmitted existed in an
// older document lineage; it is recognized on read but never written.
const (
	SubmissionStatusSubmitted   = "submitted"
	SubmissionStatusGraded      = "graded"
	SubmissionStatusResubmitted = "resubmitted"
)

// Attachment describes one submitted file. OriginalName and MimeType
// duplicate Name and Type for compatibility with older viewer clients.
type Attachment struct {
	URL          string `json:"url"`
	Name         string `json:"name"`
	OriginalName string `json:"originalName"`
	Type         string `json:"type"`
	Size         *int64 `json:"size"`
	MimeType     string `json:"mimeType"`
}

// Submission is a student's work for a task, embedded in the task's
// submission list. A student has at most one submission per task; a
// later submission replaces the earlier one under the same ID.
//
// LegacyID mirrors the older documents' internal identifier, same as
// on Task. SubmissionIndexByID resolves either convention.
type Submission struct {
	ID             string       `json:"id"`
	LegacyID       string       `json:"_id,omitempty"`
	StudentEmail   string       `json:"studentEmail"`
	StudentName    string       `json:"studentName,omitempty"`
	SubmissionText string       `json:"submissionText,omitempty"`
	SubmissionURL  string       `json:"submissionUrl,omitempty"`
	Attachments    []Attachment `json:"attachments,omitempty"`
	SubmittedAt    time.Time    `json:"submittedAt"`
	Status         string       `json:"status"`
	Grade          *float64     `json:"grade"`
	Feedback       *string      `json:"feedback"`
	GradedBy       *string      `json:"gradedBy"`
	GradedAt       *time.Time   `json:"gradedAt"`
	Version        int          `json:"version"`
}

// IsGraded reports whether the submission carries a final grade.
func (s Submission) IsGraded() bool {
	return s.Status == SubmissionStatusGraded && s.Grade != nil
}

// MatchesID reports whether the given identifier refers to this
// submission under either identifier convention.
func (s Submission) MatchesID(id string) bool {
	return id != "" && (s.ID == id || s.LegacyID == id)
}

// SubmissionIndexByID resolves a submission by any known identifier
// field. As with tasks, this is the single lookup path.
func SubmissionIndexByID(submissions []Submission, id string) (int, bool) {
	for i := range submissions {
		if submissions[i].MatchesID(id) {
			return i, true
		}
	}
	return -1, false
}
