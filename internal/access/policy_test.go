package access

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/SNbappy/edugrid-smart-learning-platform-server/internal/models"
)

func classroomFixture() models.Classroom {
	return models.Classroom{
		ID:           "c1",
		Name:         "Algorithms",
		Owner:        "owner@school.edu",
		Teacher:      "teacher@school.edu",
		TeacherEmail: "teacher-email@school.edu",
		CreatedBy:    "creator@school.edu",
		Teachers:     []string{"cota@school.edu"},
		Instructors:  []string{"instructor@school.edu"},
		Students: []models.Student{
			{Email: "student@school.edu", Name: "Student One"},
		},
	}
}

func TestIsInstructorRecognizesEveryIdentityField(t *testing.T) {
	classroom := classroomFixture()

	for _, email := range []string{
		"owner@school.edu",
		"teacher@school.edu",
		"teacher-email@school.edu",
		"creator@school.edu",
		"cota@school.edu",
		"instructor@school.edu",
	} {
		require.True(t, IsInstructor(email, classroom), "expected %s to be an instructor", email)
	}

	require.False(t, IsInstructor("student@school.edu", classroom))
	require.False(t, IsInstructor("", classroom))
}

func TestResolveRole(t *testing.T) {
	classroom := classroomFixture()

	require.Equal(t, RoleInstructor, ResolveRole("owner@school.edu", classroom))
	require.Equal(t, RoleStudent, ResolveRole("student@school.edu", classroom))
	require.Equal(t, RoleUnauthorized, ResolveRole("stranger@school.edu", classroom))
	require.Equal(t, RoleUnauthorized, ResolveRole("", classroom))
}

func TestResolveRolePrefersInstructorOverEnrollment(t *testing.T) {
	classroom := classroomFixture()
	classroom.Students = append(classroom.Students, models.Student{Email: "teacher@school.edu"})

	require.Equal(t, RoleInstructor, ResolveRole("teacher@school.edu", classroom))
}

func TestCanSubmit(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	task := models.Task{DueDate: now.Add(24 * time.Hour)}
	decision := CanSubmit("student@school.edu", task, now)
	require.True(t, decision.Allowed)
	require.Equal(t, "New submission allowed", decision.Reason)

	task.DueDate = now.Add(-time.Minute)
	decision = CanSubmit("student@school.edu", task, now)
	require.False(t, decision.Allowed)
	require.Equal(t, "Task is overdue", decision.Reason)

	task.DueDate = now.Add(24 * time.Hour)
	task.Submissions = []models.Submission{{StudentEmail: "student@school.edu"}}
	decision = CanSubmit("student@school.edu", task, now)
	require.False(t, decision.Allowed)
	require.Contains(t, decision.Reason, "resubmit")
}

func TestCanResubmit(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	grade := 80.0

	task := models.Task{DueDate: now.Add(24 * time.Hour)}
	decision := CanResubmit("student@school.edu", task, now)
	require.False(t, decision.Allowed)
	require.Contains(t, decision.Reason, "No existing submission")

	task.Submissions = []models.Submission{{StudentEmail: "student@school.edu", Status: models.SubmissionStatusSubmitted}}
	decision = CanResubmit("student@school.edu", task, now)
	require.True(t, decision.Allowed)

	task.Submissions[0].Status = models.SubmissionStatusGraded
	task.Submissions[0].Grade = &grade
	decision = CanResubmit("student@school.edu", task, now)
	require.False(t, decision.Allowed)
	require.Contains(t, decision.Reason, "already been graded")

	task.DueDate = now.Add(-time.Minute)
	decision = CanResubmit("student@school.edu", task, now)
	require.False(t, decision.Allowed)
	require.Equal(t, "Cannot resubmit - task is overdue", decision.Reason)
}

func TestHasSubmissionAccess(t *testing.T) {
	classroom := classroomFixture()
	submission := models.Submission{StudentEmail: "student@school.edu"}

	require.True(t, HasSubmissionAccess("teacher@school.edu", classroom, submission))
	require.True(t, HasSubmissionAccess("student@school.edu", classroom, submission))
	require.False(t, HasSubmissionAccess("other@school.edu", classroom, submission))
	require.False(t, HasSubmissionAccess("", classroom, submission))
}

func TestVisibleSubmissions(t *testing.T) {
	classroom := classroomFixture()
	submissions := []models.Submission{
		{StudentEmail: "student@school.edu"},
		{StudentEmail: "other@school.edu"},
	}

	require.Len(t, VisibleSubmissions("teacher@school.edu", classroom, submissions), 2)

	mine := VisibleSubmissions("student@school.edu", classroom, submissions)
	require.Len(t, mine, 1)
	require.Equal(t, "student@school.edu", mine[0].StudentEmail)

	require.Empty(t, VisibleSubmissions("stranger@school.edu", classroom, submissions))
}

func TestSubmissionStatusReport(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	grade := 95.0

	task := models.Task{
		DueDate: now.Add(24 * time.Hour),
		Submissions: []models.Submission{
			{
				StudentEmail: "student@school.edu",
				Status:       models.SubmissionStatusGraded,
				Grade:        &grade,
			},
		},
	}

	report := SubmissionStatus("student@school.edu", task, now)
	require.True(t, report.HasSubmitted)
	require.True(t, report.IsGraded)
	require.False(t, report.CanSubmit)
	require.False(t, report.CanResubmit)
	require.False(t, report.IsOverdue)

	fresh := SubmissionStatus("new@school.edu", task, now)
	require.False(t, fresh.HasSubmitted)
	require.True(t, fresh.CanSubmit)
	require.False(t, fresh.CanResubmit)
}
