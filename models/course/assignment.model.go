package course

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Assignment is coursework attached to a course. Attachments holds a JSON
// array of material URLs handed out with the assignment.
type Assignment struct {
	gorm.Model
	CourseID    uint           `json:"course_id" gorm:"index;not null"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	DueDate     *time.Time     `json:"due_date"`
	Attachments datatypes.JSON `json:"attachments,omitempty"`

	Submissions []Submission `json:"submissions,omitempty" gorm:"foreignKey:AssignmentID"`
}

// Submission is a learner's answer to an assignment, one per learner.
// Grade stays nil until the tutor grades it.
type Submission struct {
	gorm.Model
	AssignmentID  uint      `json:"assignment_id" gorm:"uniqueIndex:idx_assignment_learner;not null"`
	LearnerID     uint      `json:"learner_id" gorm:"uniqueIndex:idx_assignment_learner;not null"`
	SubmissionURL string    `json:"submission_url"`
	SubmittedAt   time.Time `json:"submitted_at"`
	Grade         *float64  `json:"grade"`
	Feedback      string    `json:"feedback" gorm:"default:''"`
}
