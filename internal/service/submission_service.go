package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/SNbappy/edugrid-smart-learning-platform-server/internal/access"
	"github.com/SNbappy/edugrid-smart-learning-platform-server/internal/dto"
	"github.com/SNbappy/edugrid-smart-learning-platform-server/internal/models"
	"github.com/SNbappy/edugrid-smart-learning-platform-server/internal/repository"
)

const maxSubmissionTextLength = 10000

var (
	// ErrSubmissionNotFound indicates a submission could not be found.
	ErrSubmissionNotFound = errors.New("submission not found")
	// ErrAccessDenied indicates the caller is authenticated but lacks
	// the required role for the operation.
	ErrAccessDenied = errors.New("access denied")
	// ErrIdentityRequired indicates no caller email could be resolved.
	ErrIdentityRequired = errors.New("user authentication required")
	// ErrEmptySubmission indicates the payload carried no content.
	ErrEmptySubmission = errors.New("submission requires text, a URL, or file attachments")
	// ErrSubmissionTooLong indicates the free text exceeded the limit.
	ErrSubmissionTooLong = errors.New("submission text exceeds the maximum length")
	// ErrTaskOverdue indicates the deadline passed and late submissions
	// are disabled.
	ErrTaskOverdue = errors.New("task is overdue")
)

// SubmissionService drives the submit/resubmit/list/grade state
// machine for task submissions.
type SubmissionService interface {
	SubmitOrResubmit(ctx context.Context, classroomID, taskID string, input dto.SubmissionRequest) (dto.SubmissionReceipt, bool, error)
	List(ctx context.Context, classroomID, taskID, requesterEmail string) (dto.SubmissionListResponse, error)
	GetByID(ctx context.Context, classroomID, taskID, submissionID, requesterEmail string) (dto.SubmissionResponse, error)
	Grade(ctx context.Context, classroomID, taskID, submissionID string, payload dto.GradeRequest, graderEmail string) (dto.GradingResult, error)
	MySubmission(ctx context.Context, classroomID, taskID, requesterEmail string) (dto.SubmissionResponse, error)
	Eligibility(ctx context.Context, classroomID, taskID, requesterEmail string) (dto.EligibilityResponse, error)
}

type submissionService struct {
	classrooms repository.ClassroomRepository
	factory    *SubmissionFactory
	validator  *validator.Validate
	events     *nats.Conn
	allowLate  bool
	logger     zerolog.Logger
	now        func() time.Time
}

// NewSubmissionService constructs a SubmissionService. A nil events
// connection disables event publishing.
func NewSubmissionService(classrooms repository.ClassroomRepository, factory *SubmissionFactory, validate *validator.Validate, events *nats.Conn, allowLate bool, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		classrooms: classrooms,
		factory:    factory,
		validator:  validate,
		events:     events,
		allowLate:  allowLate,
		logger:     logger.With().Str("component", "submission_service").Logger(),
		now:        time.Now,
	}
}

func (s *submissionService) loadClassroom(ctx context.Context, classroomID string) (models.Classroom, error) {
	if err := validateClassroomID(classroomID); err != nil {
		return models.Classroom{}, err
	}

	classroom, err := s.classrooms.GetByID(ctx, classroomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Classroom{}, ErrClassroomNotFound
		}
		return models.Classroom{}, err
	}

	return classroom, nil
}

func validateSubmissionContent(input dto.SubmissionRequest) error {
	hasText := input.SubmissionText != "" || input.Text != ""
	hasURL := input.SubmissionURL != "" || input.FileURL != ""
	if !hasText && !hasURL && len(input.Attachments) == 0 {
		return ErrEmptySubmission
	}

	if len(input.SubmissionText) > maxSubmissionTextLength || len(input.Text) > maxSubmissionTextLength {
		return ErrSubmissionTooLong
	}

	return nil
}

func (s *submissionService) SubmitOrResubmit(ctx context.Context, classroomID, taskID string, input dto.SubmissionRequest) (dto.SubmissionReceipt, bool, error) {
	if err := s.validator.Struct(input); err != nil {
		return dto.SubmissionReceipt{}, false, err
	}
	if err := validateSubmissionContent(input); err != nil {
		return dto.SubmissionReceipt{}, false, err
	}

	classroom, err := s.loadClassroom(ctx, classroomID)
	if err != nil {
		return dto.SubmissionReceipt{}, false, err
	}

	tasks := []models.Task(classroom.Tasks)
	taskIdx, ok := models.TaskIndexByID(tasks, taskID)
	if !ok {
		return dto.SubmissionReceipt{}, false, ErrTaskNotFound
	}
	task := &tasks[taskIdx]

	if task.IsPastDue(s.now()) {
		if !s.allowLate {
			return dto.SubmissionReceipt{}, false, ErrTaskOverdue
		}
		s.logger.Warn().
			Str("classroom_id", classroomID).
			Str("task_id", task.ID).
			Str("student_email", input.StudentEmail).
			Msg("task is overdue, accepting late submission")
	}

	submission := s.factory.Build(input)
	replaced := false

	if existingIdx, exists := task.SubmissionIndexFor(input.StudentEmail); exists {
		existing := task.Submissions[existingIdx]
		// Full replacement under the original identifiers; grading
		// starts over for the new content.
		submission.ID = existing.ID
		submission.LegacyID = existing.LegacyID
		if submission.LegacyID == "" {
			submission.LegacyID = existing.ID
		}
		if submission.StudentName == localPart(input.StudentEmail) && existing.StudentName != "" {
			submission.StudentName = existing.StudentName
		}
		task.Submissions[existingIdx] = submission
		replaced = true
	} else {
		task.Submissions = append(task.Submissions, submission)
	}

	task.UpdatedAt = s.now()
	task.RecalculateStats()

	result, err := s.classrooms.ReplaceTasks(ctx, classroomID, tasks)
	if err != nil {
		return dto.SubmissionReceipt{}, false, err
	}
	if result.Matched == 0 {
		return dto.SubmissionReceipt{}, false, ErrClassroomNotFound
	}

	s.logger.Info().
		Str("classroom_id", classroomID).
		Str("task_id", task.ID).
		Str("submission_id", submission.ID).
		Bool("replaced", replaced).
		Msg("submission stored")

	s.publishEvent(classroomID, taskEvent{
		Type:         "task.submission.received",
		ClassroomID:  classroomID,
		TaskID:       task.ID,
		SubmissionID: submission.ID,
		StudentEmail: submission.StudentEmail,
		OccurredAt:   s.now(),
	})

	receipt := dto.SubmissionReceipt{
		ID:              submission.ID,
		StudentEmail:    submission.StudentEmail,
		SubmittedAt:     submission.SubmittedAt,
		AttachmentCount: len(submission.Attachments),
	}

	return receipt, replaced, nil
}

func (s *submissionService) List(ctx context.Context, classroomID, taskID, requesterEmail string) (dto.SubmissionListResponse, error) {
	if requesterEmail == "" {
		return dto.SubmissionListResponse{}, ErrIdentityRequired
	}

	classroom, err := s.loadClassroom(ctx, classroomID)
	if err != nil {
		return dto.SubmissionListResponse{}, err
	}

	taskIdx, ok := models.TaskIndexByID(classroom.Tasks, taskID)
	if !ok {
		return dto.SubmissionListResponse{}, ErrTaskNotFound
	}
	task := classroom.Tasks[taskIdx]

	role := access.ResolveRole(requesterEmail, classroom)
	visible := access.VisibleSubmissions(requesterEmail, classroom, task.Submissions)

	enhanced := make([]models.Submission, 0, len(visible))
	for _, submission := range visible {
		enhanced = append(enhanced, s.backfillForDisplay(submission))
	}

	userRole := "student"
	if role == access.RoleInstructor {
		userRole = "teacher"
	}

	return dto.SubmissionListResponse{
		Submissions: dto.NewSubmissionResponseSlice(enhanced),
		Count:       len(enhanced),
		TaskTitle:   task.Title,
		UserRole:    userRole,
	}, nil
}

func (s *submissionService) GetByID(ctx context.Context, classroomID, taskID, submissionID, requesterEmail string) (dto.SubmissionResponse, error) {
	if requesterEmail == "" {
		return dto.SubmissionResponse{}, ErrIdentityRequired
	}

	classroom, err := s.loadClassroom(ctx, classroomID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	taskIdx, ok := models.TaskIndexByID(classroom.Tasks, taskID)
	if !ok {
		return dto.SubmissionResponse{}, ErrTaskNotFound
	}
	task := classroom.Tasks[taskIdx]

	subIdx, ok := models.SubmissionIndexByID(task.Submissions, submissionID)
	if !ok {
		return dto.SubmissionResponse{}, ErrSubmissionNotFound
	}
	submission := task.Submissions[subIdx]

	if !access.HasSubmissionAccess(requesterEmail, classroom, submission) {
		return dto.SubmissionResponse{}, ErrAccessDenied
	}

	return dto.NewSubmissionResponse(s.backfillForDisplay(submission)), nil
}

func (s *submissionService) Grade(ctx context.Context, classroomID, taskID, submissionID string, payload dto.GradeRequest, graderEmail string) (dto.GradingResult, error) {
	if graderEmail == "" {
		return dto.GradingResult{}, ErrIdentityRequired
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.GradingResult{}, err
	}

	classroom, err := s.loadClassroom(ctx, classroomID)
	if err != nil {
		return dto.GradingResult{}, err
	}

	if !access.CanGrade(graderEmail, classroom) {
		return dto.GradingResult{}, fmt.Errorf("%w: only instructors can grade submissions", ErrAccessDenied)
	}

	tasks := []models.Task(classroom.Tasks)
	taskIdx, ok := models.TaskIndexByID(tasks, taskID)
	if !ok {
		return dto.GradingResult{}, ErrTaskNotFound
	}
	task := &tasks[taskIdx]

	subIdx, ok := models.SubmissionIndexByID(task.Submissions, submissionID)
	if !ok {
		return dto.GradingResult{}, ErrSubmissionNotFound
	}
	studentEmail := task.Submissions[subIdx].StudentEmail

	// Historical documents disagree about which identifier field is
	// populated, so the update tries three increasingly permissive
	// strategies before giving up.
	targetIdx, ok := locateSubmissionForGrading(task.Submissions, submissionID, studentEmail)
	if !ok {
		return dto.GradingResult{}, ErrSubmissionNotFound
	}

	grade := float64(*payload.Grade)
	feedback := s.factory.sanitizer.Sanitize(payload.Feedback)
	gradedAt := s.now()
	target := &task.Submissions[targetIdx]
	target.Grade = &grade
	target.Feedback = &feedback
	target.GradedBy = &graderEmail
	target.GradedAt = &gradedAt
	target.Status = models.SubmissionStatusGraded

	task.UpdatedAt = gradedAt
	task.RecalculateStats()

	result, err := s.classrooms.ReplaceTasks(ctx, classroomID, tasks)
	if err != nil {
		return dto.GradingResult{}, err
	}
	if result.Matched == 0 {
		return dto.GradingResult{}, ErrSubmissionNotFound
	}

	s.logger.Info().
		Str("classroom_id", classroomID).
		Str("task_id", task.ID).
		Str("submission_id", target.ID).
		Float64("grade", grade).
		Msg("submission graded")

	s.publishEvent(classroomID, taskEvent{
		Type:         "task.submission.graded",
		ClassroomID:  classroomID,
		TaskID:       task.ID,
		SubmissionID: target.ID,
		StudentEmail: studentEmail,
		OccurredAt:   gradedAt,
	})

	return dto.GradingResult{
		SubmissionID: submissionID,
		StudentEmail: studentEmail,
		Grade:        grade,
		Feedback:     feedback,
		GradedBy:     graderEmail,
		GradedAt:     gradedAt,
	}, nil
}

func (s *submissionService) MySubmission(ctx context.Context, classroomID, taskID, requesterEmail string) (dto.SubmissionResponse, error) {
	if requesterEmail == "" {
		return dto.SubmissionResponse{}, ErrIdentityRequired
	}

	classroom, err := s.loadClassroom(ctx, classroomID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	taskIdx, ok := models.TaskIndexByID(classroom.Tasks, taskID)
	if !ok {
		return dto.SubmissionResponse{}, ErrTaskNotFound
	}
	task := classroom.Tasks[taskIdx]

	subIdx, ok := task.SubmissionIndexFor(requesterEmail)
	if !ok {
		return dto.SubmissionResponse{}, ErrSubmissionNotFound
	}

	return dto.NewSubmissionResponse(s.backfillForDisplay(task.Submissions[subIdx])), nil
}

func (s *submissionService) Eligibility(ctx context.Context, classroomID, taskID, requesterEmail string) (dto.EligibilityResponse, error) {
	if requesterEmail == "" {
		return dto.EligibilityResponse{}, ErrIdentityRequired
	}

	classroom, err := s.loadClassroom(ctx, classroomID)
	if err != nil {
		return dto.EligibilityResponse{}, err
	}

	taskIdx, ok := models.TaskIndexByID(classroom.Tasks, taskID)
	if !ok {
		return dto.EligibilityResponse{}, ErrTaskNotFound
	}

	status := access.SubmissionStatus(requesterEmail, classroom.Tasks[taskIdx], s.now())

	return dto.EligibilityResponse{
		HasSubmitted:   status.HasSubmitted,
		CanSubmit:      status.CanSubmit,
		CanResubmit:    status.CanResubmit,
		IsOverdue:      status.IsOverdue,
		IsGraded:       status.IsGraded,
		SubmitReason:   status.SubmitReason,
		ResubmitReason: status.ResubmitReason,
	}, nil
}

// backfillForDisplay fills the presentation defaults older documents
// miss: a synthesized attachment from a bare legacy URL, the student
// name from the email local part, and submittedAt/status defaults.
func (s *submissionService) backfillForDisplay(submission models.Submission) models.Submission {
	if len(submission.Attachments) == 0 && submission.SubmissionURL != "" {
		submission.Attachments = []models.Attachment{attachmentFromURL(submission.SubmissionURL)}
	}
	if submission.StudentName == "" {
		submission.StudentName = localPart(submission.StudentEmail)
	}
	if submission.SubmittedAt.IsZero() {
		submission.SubmittedAt = s.now()
	}
	if submission.Status == "" {
		submission.Status = models.SubmissionStatusSubmitted
	}

	return submission
}

// locateSubmissionForGrading applies the progressively looser match
// chain: canonical id, legacy id, then the student's email.
func locateSubmissionForGrading(submissions []models.Submission, submissionID, studentEmail string) (int, bool) {
	for i := range submissions {
		if submissions[i].ID == submissionID {
			return i, true
		}
	}
	for i := range submissions {
		if submissions[i].LegacyID == submissionID {
			return i, true
		}
	}
	if studentEmail != "" {
		for i := range submissions {
			if submissions[i].StudentEmail == studentEmail {
				return i, true
			}
		}
	}

	return -1, false
}

type taskEvent struct {
	Type         string    `json:"type"`
	ClassroomID  string    `json:"classroomId"`
	TaskID       string    `json:"taskId"`
	SubmissionID string    `json:"submissionId"`
	StudentEmail string    `json:"studentEmail"`
	OccurredAt   time.Time `json:"occurredAt"`
}

// publishEvent fans the event out to interested consumers. Delivery is
// fire-and-forget; a missing connection disables publishing entirely.
func (s *submissionService) publishEvent(classroomID string, event taskEvent) {
	if s.events == nil {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to encode task event")
		return
	}

	subject := fmt.Sprintf("edugrid.classroom.%s.tasks", classroomID)
	if err := s.events.Publish(subject, payload); err != nil {
		s.logger.Warn().Err(err).Str("subject", subject).Msg("failed to publish task event")
	}
}
