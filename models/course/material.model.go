package course

import "gorm.io/gorm"

// Material types
const (
	MaterialPDF   = "pdf"
	MaterialImage = "image"
	MaterialVideo = "video"
	MaterialLink  = "link"
)

// Material is a learning resource attached to a course
type Material struct {
	gorm.Model
	CourseID uint   `json:"course_id" gorm:"index;not null"`
	Title    string `json:"title"`
	Type     string `json:"type"` // pdf, image, video, link
	URL      string `json:"url"`
}

// ValidMaterialType reports whether t is one of the allowed material types
func ValidMaterialType(t string) bool {
	switch t {
	case MaterialPDF, MaterialImage, MaterialVideo, MaterialLink:
		return true
	}
	return false
}
