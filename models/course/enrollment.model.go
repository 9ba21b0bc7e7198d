package course

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment statuses. PENDING is the only initial state; APPROVED and
// REJECTED are both terminal.
const (
	EnrollmentPending  = "pending"
	EnrollmentApproved = "approved"
	EnrollmentRejected = "rejected"
)

// Enrollment joins a learner to a course. The composite unique index keeps
// at most one enrollment per (learner, course) pair; a concurrent second
// create loses at the database and surfaces as a conflict.
type Enrollment struct {
	gorm.Model
	LearnerID  uint       `json:"learner_id" gorm:"uniqueIndex:idx_learner_course;not null"`
	CourseID   uint       `json:"course_id" gorm:"uniqueIndex:idx_learner_course;not null"`
	Status     string     `json:"status" gorm:"default:'pending'"`
	ApprovedAt *time.Time `json:"approved_at"`

	Course Course `json:"course,omitempty" gorm:"foreignKey:CourseID"`
}
