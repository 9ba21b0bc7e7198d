package course

import "gorm.io/gorm"

// Announcement is a tutor notice scoped to one course. CreatedAt doubles as
// the announcement timestamp.
type Announcement struct {
	gorm.Model
	CourseID uint   `json:"course_id" gorm:"index;not null"`
	Title    string `json:"title"`
	Content  string `json:"content"`
}
