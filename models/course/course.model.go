package course

import "gorm.io/gorm"

// Course is the aggregate root for a tutor's course. Modules, materials,
// assignments and announcements belong to it; the roster lives in
// CourseStudent rows and is written only by enrollment approval.
type Course struct {
	gorm.Model
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Thumbnail   string `json:"thumbnail" gorm:"default:''"`
	TutorID     uint   `json:"tutor_id" gorm:"index;not null"`
	IsPublished bool   `json:"is_published" gorm:"default:false"`
	IsDeleted   bool   `json:"-" gorm:"default:false"`

	Modules       []Module       `json:"modules,omitempty" gorm:"foreignKey:CourseID"`
	Materials     []Material     `json:"materials,omitempty" gorm:"foreignKey:CourseID"`
	Assignments   []Assignment   `json:"assignments,omitempty" gorm:"foreignKey:CourseID"`
	Announcements []Announcement `json:"announcements,omitempty" gorm:"foreignKey:CourseID"`
}

// CourseStudent is one roster membership. The composite unique index makes
// the approval side effect idempotent: a second insert for the same pair
// fails and is ignored.
type CourseStudent struct {
	gorm.Model
	CourseID uint `json:"course_id" gorm:"uniqueIndex:idx_course_student;not null"`
	UserID   uint `json:"user_id" gorm:"uniqueIndex:idx_course_student;not null"`
}
