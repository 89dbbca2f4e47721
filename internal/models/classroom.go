package models

import (
	"time"

	"gorm.io/datatypes"
)

// Student is an enrolled learner embedded in a classroom document.
type Student struct {
	Email    string     `json:"email"`
	Name     string     `json:"name,omitempty"`
	JoinedAt *time.Time `json:"joinedAt,omitempty"`
}

// Classroom is the aggregate root: one row holds the classroom together
// with its enrolled students and tasks (submissions included). All writes
// go through whole-field updates on this single row.
//
// The teacher identity is spread across several legacy fields (Owner,
// Teacher, TeacherEmail, CreatedBy, plus the Teachers/Instructors lists)
// because older documents populated different ones. Role checks must
// consult all of them.
type Classroom struct {
	ID           string                       `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string                       `gorm:"size:255" json:"name"`
	Subject      string                       `gorm:"size:255" json:"subject,omitempty"`
	InviteCode   string                       `gorm:"size:32;index" json:"inviteCode,omitempty"`
	Owner        string                       `gorm:"size:255" json:"owner,omitempty"`
	Teacher      string                       `gorm:"size:255" json:"teacher,omitempty"`
	TeacherEmail string                       `gorm:"size:255" json:"teacherEmail,omitempty"`
	CreatedBy    string                       `gorm:"size:255" json:"createdBy,omitempty"`
	Teachers     datatypes.JSONSlice[string]  `json:"teachers,omitempty"`
	Instructors  datatypes.JSONSlice[string]  `json:"instructors,omitempty"`
	Students     datatypes.JSONSlice[Student] `json:"students"`
	Tasks        datatypes.JSONSlice[Task]    `json:"tasks"`
	CreatedAt    time.Time                    `json:"createdAt"`
	UpdatedAt    time.Time                    `json:"updatedAt"`
}
