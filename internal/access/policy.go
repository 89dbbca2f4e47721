// Package access contains the pure authorization rules for classrooms,
// tasks and submissions. Nothing here touches storage or errors out;
// every check returns a structured allow/deny result derived from the
// classroom document alone.
package access

import (
	"time"

	"github.com/SNbappy/edugrid-smart-learning-platform-server/internal/models"
)

// Role is a caller's relationship to a classroom.
type Role string

const (
	RoleInstructor   Role = "instructor"
	RoleStudent      Role = "student"
	RoleUnauthorized Role = "unauthorized"
)

// Decision is a structured allow/deny answer with a human-readable
// reason suitable for the API response.
type Decision struct {
	Allowed bool
	Reason  string
}

// IsInstructor reports whether the email is recognized as the
// classroom's teacher under any of the legacy identity fields. The
// redundancy is intentional: older documents populated different
// fields.
func IsInstructor(email string, classroom models.Classroom) bool {
	if email == "" {
		return false
	}

	if classroom.Owner == email ||
		classroom.Teacher == email ||
		classroom.TeacherEmail == email ||
		classroom.CreatedBy == email {
		return true
	}

	for _, teacher := range classroom.Teachers {
		if teacher == email {
			return true
		}
	}
	for _, instructor := range classroom.Instructors {
		if instructor == email {
			return true
		}
	}

	return false
}

// IsStudent reports whether the email belongs to an enrolled student.
func IsStudent(email string, classroom models.Classroom) bool {
	if email == "" {
		return false
	}

	for _, student := range classroom.Students {
		if student.Email == email {
			return true
		}
	}

	return false
}

// ResolveRole derives the caller's role from the stored classroom
// document. Instructor checks run first so a teacher who also appears
// in the student list keeps instructor privileges.
func ResolveRole(email string, classroom models.Classroom) Role {
	switch {
	case IsInstructor(email, classroom):
		return RoleInstructor
	case IsStudent(email, classroom):
		return RoleStudent
	default:
		return RoleUnauthorized
	}
}

// CanSubmit decides whether a first-time submission is acceptable.
// An existing submission routes the caller to resubmission instead.
func CanSubmit(email string, task models.Task, now time.Time) Decision {
	if task.IsPastDue(now) {
		return Decision{Allowed: false, Reason: "Task is overdue"}
	}

	if _, ok := task.SubmissionIndexFor(email); ok {
		return Decision{Allowed: false, Reason: "Already submitted. Use resubmit option to update your submission."}
	}

	return Decision{Allowed: true, Reason: "New submission allowed"}
}

// CanResubmit decides whether an existing submission may be replaced.
// A graded submission locks further resubmission in the eligibility
// report; the submit path itself still replaces, clearing the grade.
func CanResubmit(email string, task models.Task, now time.Time) Decision {
	if task.IsPastDue(now) {
		return Decision{Allowed: false, Reason: "Cannot resubmit - task is overdue"}
	}

	idx, ok := task.SubmissionIndexFor(email)
	if !ok {
		return Decision{Allowed: false, Reason: "No existing submission found. Submit the task first."}
	}

	if task.Submissions[idx].IsGraded() {
		return Decision{Allowed: false, Reason: "Cannot resubmit - assignment has already been graded"}
	}

	return Decision{Allowed: true, Reason: "Resubmission allowed"}
}

// CanGrade reports whether the caller may grade submissions in the
// classroom. Instructors only.
func CanGrade(email string, classroom models.Classroom) bool {
	return IsInstructor(email, classroom)
}

// HasSubmissionAccess reports whether the caller may view a specific
// submission: instructors always, students only their own.
func HasSubmissionAccess(email string, classroom models.Classroom, submission models.Submission) bool {
	if IsInstructor(email, classroom) {
		return true
	}

	return email != "" && submission.StudentEmail == email
}

// VisibleSubmissions filters a submission list down to what the caller
// may see.
func VisibleSubmissions(email string, classroom models.Classroom, submissions []models.Submission) []models.Submission {
	if IsInstructor(email, classroom) {
		return submissions
	}

	visible := make([]models.Submission, 0, 1)
	for _, submission := range submissions {
		if submission.StudentEmail == email {
			visible = append(visible, submission)
		}
	}

	return visible
}

// Eligibility summarizes what the caller can currently do with a task.
type Eligibility struct {
	HasSubmitted   bool
	CanSubmit      bool
	CanResubmit    bool
	IsOverdue      bool
	IsGraded       bool
	SubmitReason   string
	ResubmitReason string
}

// SubmissionStatus builds the eligibility report for a (caller, task)
// pair.
func SubmissionStatus(email string, task models.Task, now time.Time) Eligibility {
	submit := CanSubmit(email, task, now)
	resubmit := CanResubmit(email, task, now)

	idx, hasSubmitted := task.SubmissionIndexFor(email)
	graded := false
	if hasSubmitted {
		graded = task.Submissions[idx].IsGraded()
	}

	return Eligibility{
		HasSubmitted:   hasSubmitted,
		CanSubmit:      submit.Allowed,
		CanResubmit:    resubmit.Allowed,
		IsOverdue:      task.IsPastDue(now),
		IsGraded:       graded,
		SubmitReason:   submit.Reason,
		ResubmitReason: resubmit.Reason,
	}
}
