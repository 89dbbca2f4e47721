package service

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/SNbappy/edugrid-smart-learning-platform-server/internal/dto"
	"github.com/SNbappy/edugrid-smart-learning-platform-server/internal/models"
	"github.com/SNbappy/edugrid-smart-learning-platform-server/internal/repository"
)

const defaultTaskPoints = 100

var (
	// ErrInvalidClassroomID indicates a malformed classroom identifier.
	// It is reported before any store access.
	ErrInvalidClassroomID = errors.New("invalid classroom ID format")
	// ErrClassroomNotFound indicates the classroom does not exist.
	ErrClassroomNotFound = errors.New("classroom not found")
	// ErrTaskNotFound indicates the task does not exist in the
	// classroom.
	ErrTaskNotFound = errors.New("task not found")
)

func translateClassroomError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrClassroomNotFound
	}
	return err
}

// validateClassroomID rejects malformed identifiers before any store
// round trip.
func validateClassroomID(classroomID string) error {
	if classroomID == "" {
		return ErrInvalidClassroomID
	}
	if _, err := uuid.Parse(classroomID); err != nil {
		return ErrInvalidClassroomID
	}
	return nil
}

// TaskService manages the task catalog of a classroom.
type TaskService interface {
	Create(ctx context.Context, classroomID string, payload dto.TaskCreateRequest) (dto.TaskResponse, error)
	List(ctx context.Context, classroomID string) (dto.TaskListResponse, error)
	GetByID(ctx context.Context, classroomID, taskID string) (dto.TaskResponse, error)
	Update(ctx context.Context, classroomID, taskID string, payload dto.TaskUpdateRequest) error
	Delete(ctx context.Context, classroomID, taskID string) error
}

type taskService struct {
	classrooms repository.ClassroomRepository
	validator  *validator.Validate
	logger     zerolog.Logger
	now        func() time.Time
}

// NewTaskService constructs a TaskService instance.
func NewTaskService(classrooms repository.ClassroomRepository, validate *validator.Validate, logger zerolog.Logger) TaskService {
	return &taskService{
		classrooms: classrooms,
		validator:  validate,
		logger:     logger.With().Str("component", "task_service").Logger(),
		now:        time.Now,
	}
}

func (s *taskService) loadClassroom(ctx context.Context, classroomID string) (models.Classroom, error) {
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

func (s *taskService) Create(ctx context.Context, classroomID string, payload dto.TaskCreateRequest) (dto.TaskResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TaskResponse{}, err
	}

	classroom, err := s.loadClassroom(ctx, classroomID)
	if err != nil {
		return dto.TaskResponse{}, err
	}

	points := payload.Points
	if points <= 0 {
		points = defaultTaskPoints
	}
	taskType := payload.Type
	if taskType == "" {
		taskType = "assignment"
	}

	now := s.now()
	id := uuid.NewString()
	task := models.Task{
		ID:           id,
		LegacyID:     id,
		Title:        payload.Title,
		Description:  payload.Description,
		Instructions: payload.Instructions,
		DueDate:      payload.DueDate,
		Points:       points,
		Type:         taskType,
		Attachments:  attachmentsFromPayload(payload.Attachments),
		CreatedBy:    payload.CreatedBy,
		IsPublished:  true,
		Status:       models.TaskStatusActive,
		Submissions:  []models.Submission{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	tasks := append([]models.Task(classroom.Tasks), task)

	result, err := s.classrooms.ReplaceTasks(ctx, classroomID, tasks)
	if err != nil {
		return dto.TaskResponse{}, err
	}
	if result.Matched == 0 {
		return dto.TaskResponse{}, ErrClassroomNotFound
	}

	s.logger.Info().
		Str("classroom_id", classroomID).
		Str("task_id", task.ID).
		Str("title", task.Title).
		Msg("task created")

	return dto.NewTaskResponse(task), nil
}

func (s *taskService) List(ctx context.Context, classroomID string) (dto.TaskListResponse, error) {
	classroom, err := s.loadClassroom(ctx, classroomID)
	if err != nil {
		return dto.TaskListResponse{}, err
	}

	tasks := append([]models.Task(nil), classroom.Tasks...)
	for i := range tasks {
		tasks[i].RecalculateStats()
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})

	return dto.TaskListResponse{
		Tasks: dto.NewTaskResponseSlice(tasks),
		Count: len(tasks),
	}, nil
}

func (s *taskService) GetByID(ctx context.Context, classroomID, taskID string) (dto.TaskResponse, error) {
	classroom, err := s.loadClassroom(ctx, classroomID)
	if err != nil {
		return dto.TaskResponse{}, err
	}

	idx, ok := models.TaskIndexByID(classroom.Tasks, taskID)
	if !ok {
		return dto.TaskResponse{}, ErrTaskNotFound
	}

	task := classroom.Tasks[idx]
	task.RecalculateStats()

	response := dto.NewTaskResponse(task)
	response.ComputedStats = &dto.TaskComputedStats{
		SubmissionCount: len(task.Submissions),
		IsOverdue:       task.IsPastDue(s.now()),
	}
	if !task.DueDate.IsZero() {
		days := int(math.Ceil(task.DueDate.Sub(s.now()).Hours() / 24))
		response.ComputedStats.DaysUntilDue = &days
	}

	return response, nil
}

func (s *taskService) Update(ctx context.Context, classroomID, taskID string, payload dto.TaskUpdateRequest) error {
	if err := s.validator.Struct(payload); err != nil {
		return err
	}

	classroom, err := s.loadClassroom(ctx, classroomID)
	if err != nil {
		return err
	}

	tasks := []models.Task(classroom.Tasks)
	idx, ok := models.TaskIndexByID(tasks, taskID)
	if !ok {
		return ErrTaskNotFound
	}
	task := &tasks[idx]

	if payload.Title != nil {
		task.Title = *payload.Title
	}
	if payload.Description != nil {
		task.Description = *payload.Description
	}
	if payload.Instructions != nil {
		task.Instructions = *payload.Instructions
	}
	if payload.DueDate != nil {
		task.DueDate = *payload.DueDate
	}
	if payload.Points != nil && *payload.Points > 0 {
		task.Points = *payload.Points
	}
	if payload.Type != nil {
		task.Type = *payload.Type
	}
	if payload.IsPublished != nil {
		task.IsPublished = *payload.IsPublished
	}
	task.UpdatedAt = s.now()

	result, err := s.classrooms.ReplaceTasks(ctx, classroomID, tasks)
	if err != nil {
		return err
	}
	if result.Matched == 0 {
		return ErrClassroomNotFound
	}

	s.logger.Info().
		Str("classroom_id", classroomID).
		Str("task_id", task.ID).
		Msg("task updated")

	return nil
}

func (s *taskService) Delete(ctx context.Context, classroomID, taskID string) error {
	classroom, err := s.loadClassroom(ctx, classroomID)
	if err != nil {
		return err
	}

	tasks := []models.Task(classroom.Tasks)
	idx, ok := models.TaskIndexByID(tasks, taskID)
	if !ok {
		return ErrTaskNotFound
	}

	remaining := append(append([]models.Task(nil), tasks[:idx]...), tasks[idx+1:]...)

	result, err := s.classrooms.ReplaceTasks(ctx, classroomID, remaining)
	if err != nil {
		return err
	}
	if result.Matched == 0 {
		return ErrClassroomNotFound
	}

	s.logger.Info().
		Str("classroom_id", classroomID).
		Str("task_id", taskID).
		Msg("task deleted")

	return nil
}

func attachmentsFromPayload(payloads []dto.AttachmentPayload) []models.Attachment {
	if len(payloads) == 0 {
		return nil
	}
	return normalizeAttachments(payloads)
}
