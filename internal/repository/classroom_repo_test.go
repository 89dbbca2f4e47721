package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/SNbappy/edugrid-smart-learning-platform-server/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Classroom{}))

	return db
}

func seedClassroom(t *testing.T, repo ClassroomRepository) models.Classroom {
	t.Helper()

	grade := 75.0
	classroom := models.Classroom{
		ID:      "11111111-2222-3333-4444-555555555555",
		Name:    "Databases",
		Teacher: "teacher@school.edu",
		Students: []models.Student{
			{Email: "jane@school.edu", Name: "Jane Doe"},
		},
		Tasks: []models.Task{
			{
				ID:      "t1",
				Title:   "Normalization Exercise",
				DueDate: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
				Points:  100,
				Status:  models.TaskStatusActive,
				Submissions: []models.Submission{
					{
						ID:           "s1",
						LegacyID:     "s1",
						StudentEmail: "jane@school.edu",
						Status:       models.SubmissionStatusGraded,
						Grade:        &grade,
					},
				},
			},
		},
	}
	require.NoError(t, repo.Create(context.Background(), &classroom))

	return classroom
}

func TestClassroomRoundTrip(t *testing.T) {
	repo := NewClassroomRepository(setupTestDB(t))
	seeded := seedClassroom(t, repo)

	loaded, err := repo.GetByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	require.Equal(t, "Databases", loaded.Name)
	require.Len(t, loaded.Students, 1)
	require.Len(t, loaded.Tasks, 1)

	task := loaded.Tasks[0]
	require.Equal(t, "t1", task.ID)
	require.Len(t, task.Submissions, 1)
	require.Equal(t, "jane@school.edu", task.Submissions[0].StudentEmail)
	require.NotNil(t, task.Submissions[0].Grade)
	require.Equal(t, 75.0, *task.Submissions[0].Grade)
	require.True(t, task.DueDate.Equal(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)))
}

func TestGetByIDNotFound(t *testing.T) {
	repo := NewClassroomRepository(setupTestDB(t))

	_, err := repo.GetByID(context.Background(), "99999999-8888-7777-6666-555555555555")
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestReplaceTasks(t *testing.T) {
	repo := NewClassroomRepository(setupTestDB(t))
	seeded := seedClassroom(t, repo)
	ctx := context.Background()

	tasks := []models.Task(seeded.Tasks)
	tasks[0].Submissions = append(tasks[0].Submissions, models.Submission{
		ID:           "s2",
		LegacyID:     "s2",
		StudentEmail: "omar@school.edu",
		Status:       models.SubmissionStatusSubmitted,
	})

	result, err := repo.ReplaceTasks(ctx, seeded.ID, tasks)
	require.NoError(t, err)
	require.Equal(t, int64(1), result.Matched)

	loaded, err := repo.GetByID(ctx, seeded.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Tasks[0].Submissions, 2)
}

func TestReplaceTasksUnknownClassroom(t *testing.T) {
	repo := NewClassroomRepository(setupTestDB(t))
	seedClassroom(t, repo)

	result, err := repo.ReplaceTasks(context.Background(), "99999999-8888-7777-6666-555555555555", []models.Task{})
	require.NoError(t, err)
	require.Zero(t, result.Matched)
}
