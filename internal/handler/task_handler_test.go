package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/SNbappy/edugrid-smart-learning-platform-server/internal/dto"
	"github.com/SNbappy/edugrid-smart-learning-platform-server/internal/service"
)

type fakeTaskService struct {
	createFn func(ctx context.Context, classroomID string, payload dto.TaskCreateRequest) (dto.TaskResponse, error)
	listFn   func(ctx context.Context, classroomID string) (dto.TaskListResponse, error)
	getFn    func(ctx context.Context, classroomID, taskID string) (dto.TaskResponse, error)
	updateFn func(ctx context.Context, classroomID, taskID string, payload dto.TaskUpdateRequest) error
	deleteFn func(ctx context.Context, classroomID, taskID string) error
}

func (f *fakeTaskService) Create(ctx context.Context, classroomID string, payload dto.TaskCreateRequest) (dto.TaskResponse, error) {
	return f.createFn(ctx, classroomID, payload)
}

func (f *fakeTaskService) List(ctx context.Context, classroomID string) (dto.TaskListResponse, error) {
	return f.listFn(ctx, classroomID)
}

func (f *fakeTaskService) GetByID(ctx context.Context, classroomID, taskID string) (dto.TaskResponse, error) {
	return f.getFn(ctx, classroomID, taskID)
}

func (f *fakeTaskService) Update(ctx context.Context, classroomID, taskID string, payload dto.TaskUpdateRequest) error {
	return f.updateFn(ctx, classroomID, taskID, payload)
}

func (f *fakeTaskService) Delete(ctx context.Context, classroomID, taskID string) error {
	return f.deleteFn(ctx, classroomID, taskID)
}

func newTaskTestApp(svc service.TaskService) *fiber.App {
	app := fiber.New()
	group := app.Group("/api/v1/classrooms/:classroomId/tasks")
	NewTaskHandler(svc, zerolog.New(io.Discard), true).Register(group)

	return app
}

func TestCreateTaskReturnsCreated(t *testing.T) {
	svc := &fakeTaskService{
		createFn: func(_ context.Context, classroomID string, payload dto.TaskCreateRequest) (dto.TaskResponse, error) {
			require.Equal(t, "c1", classroomID)
			require.Equal(t, "Scheduler Lab", payload.Title)
			return dto.TaskResponse{ID: "t1", Title: payload.Title}, nil
		},
	}
	app := newTaskTestApp(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/classrooms/c1/tasks",
		strings.NewReader(`{"title":"Scheduler Lab","dueDate":"2026-04-01T00:00:00Z"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	env := decodeEnvelope(t, resp)
	require.True(t, env.Success)
	require.Equal(t, "Task created successfully", env.Message)
}

func TestCreateTaskInvalidBody(t *testing.T) {
	app := newTaskTestApp(&fakeTaskService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/classrooms/c1/tasks", strings.NewReader(`{not json`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListTasks(t *testing.T) {
	svc := &fakeTaskService{
		listFn: func(_ context.Context, classroomID string) (dto.TaskListResponse, error) {
			require.Equal(t, "c1", classroomID)
			return dto.TaskListResponse{
				Tasks: []dto.TaskResponse{{ID: "t1", Title: "Lab"}},
				Count: 1,
			}, nil
		},
	}
	app := newTaskTestApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/classrooms/c1/tasks", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	env := decodeEnvelope(t, resp)
	var list dto.TaskListResponse
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Equal(t, 1, list.Count)
	require.Equal(t, "t1", list.Tasks[0].ID)
}

func TestGetTaskNotFound(t *testing.T) {
	svc := &fakeTaskService{
		getFn: func(_ context.Context, _, taskID string) (dto.TaskResponse, error) {
			require.Equal(t, "missing", taskID)
			return dto.TaskResponse{}, service.ErrTaskNotFound
		},
	}
	app := newTaskTestApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/classrooms/c1/tasks/missing", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateTask(t *testing.T) {
	var received dto.TaskUpdateRequest
	svc := &fakeTaskService{
		updateFn: func(_ context.Context, _, taskID string, payload dto.TaskUpdateRequest) error {
			require.Equal(t, "t1", taskID)
			received = payload
			return nil
		},
	}
	app := newTaskTestApp(svc)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/classrooms/c1/tasks/t1",
		strings.NewReader(`{"title":"Renamed","points":80}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, received.Title)
	require.Equal(t, "Renamed", *received.Title)
	require.NotNil(t, received.Points)
	require.Equal(t, 80, *received.Points)
	require.Nil(t, received.Description)
}

func TestDeleteTask(t *testing.T) {
	svc := &fakeTaskService{
		deleteFn: func(_ context.Context, classroomID, taskID string) error {
			require.Equal(t, "c1", classroomID)
			require.Equal(t, "t1", taskID)
			return nil
		},
	}
	app := newTaskTestApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/v1/classrooms/c1/tasks/t1", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Task deleted successfully", decodeEnvelope(t, resp).Message)
}
