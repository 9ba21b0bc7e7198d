package courseController

import (
	"errors"

	"smartmind/database"
	"smartmind/middleware"
	"smartmind/models"
	courseModels "smartmind/models/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// tutorInfo is the public slice of a tutor record attached to course
// responses
type tutorInfo struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar,omitempty"`
}

func loadTutorInfo(tutorID uint) tutorInfo {
	var tutor models.User
	if err := database.Database.Db.Select("id, name, email, avatar").First(&tutor, tutorID).Error; err != nil {
		return tutorInfo{ID: tutorID}
	}
	return tutorInfo{ID: tutor.ID, Name: tutor.Name, Email: tutor.Email, Avatar: tutor.Avatar}
}

// loadOwnedCourse loads a course and enforces the ownership rule shared by
// every course mutation: admins pass, tutors must own the course. The
// owner reference is re-read from the stored row on every request, never
// taken from token claims.
func loadOwnedCourse(c *fiber.Ctx, courseID uint) (courseModels.Course, bool) {
	var course courseModels.Course

	actor, ok := middleware.CurrentUser(c)
	if !ok {
		middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
		return course, false
	}

	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
		return course, false
	}

	if err := CheckCourseOwnership(actor, course); err != nil {
		middleware.JsonResponse(c, fiber.StatusForbidden, false, "Not authorized!", nil)
		return course, false
	}

	return course, true
}

// GetPublishedCourses lists published courses for anyone, with optional
// category/tutor filters
func GetPublishedCourses(c *fiber.Ctx) error {
	db := database.Database.Db.Where("is_published = ? AND is_deleted = ?", true, false)

	if category := c.Query("category"); category != "" {
		db = db.Where("category = ?", category)
	}
	if tutor := c.Query("tutor"); tutor != "" {
		db = db.Where("tutor_id = ?", tutor)
	}

	var courses []courseModels.Course
	if err := db.Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	type courseWithTutor struct {
		courseModels.Course
		Tutor tutorInfo `json:"tutor"`
	}
	response := make([]courseWithTutor, 0, len(courses))
	for _, course := range courses {
		response = append(response, courseWithTutor{Course: course, Tutor: loadTutorInfo(course.TutorID)})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", response)
}

// GetMyCourses lists the caller's own courses; admins see every course
func GetMyCourses(c *fiber.Ctx) error {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db.Where("is_deleted = ?", false)
	if actor.Role != models.RoleAdmin {
		db = db.Where("tutor_id = ?", actor.ID)
	}

	var courses []courseModels.Course
	if err := db.Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", courses)
}

// GetCourseDetails returns the full aggregate: sub-collections, tutor and
// roster
func GetCourseDetails(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	var course courseModels.Course
	err := database.Database.Db.
		Where("id = ? AND is_deleted = ?", courseID, false).
		Preload("Modules", func(db *gorm.DB) *gorm.DB { return db.Order("order_index asc") }).
		Preload("Materials").
		Preload("Assignments").
		Preload("Assignments.Submissions").
		Preload("Announcements").
		First(&course).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	// Roster, derived from CourseStudent rows
	type rosterEntry struct {
		ID    uint   `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	var roster []rosterEntry
	if err := database.Database.Db.
		Table("course_students").
		Select("users.id, users.name, users.email").
		Joins("JOIN users ON users.id = course_students.user_id").
		Where("course_students.course_id = ? AND users.is_deleted = false", courseID).
		Scan(&roster).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course roster!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", fiber.Map{
		"course":           course,
		"tutor":            loadTutorInfo(course.TutorID),
		"enrolledStudents": roster,
	})
}

// CreateCourse creates an unpublished course owned by the calling tutor
func CreateCourse(c *fiber.Ctx) error {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedCourse").(*struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Category    string `json:"category"`
		Thumbnail   string `json:"thumbnail"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	course := courseModels.Course{
		Title:       reqData.Title,
		Description: reqData.Description,
		Category:    reqData.Category,
		Thumbnail:   reqData.Thumbnail,
		TutorID:     actor.ID,
		IsPublished: false,
	}

	if err := database.Database.Db.Create(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", course)
}

// UpdateCourse applies a partial update, including the publish flag.
// Publishing has no minimum-content requirement; that is left to the tutor.
func UpdateCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	course, ok := loadOwnedCourse(c, courseID)
	if !ok {
		return nil
	}

	reqData, ok := c.Locals("validatedCourseUpdate").(*struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Category    *string `json:"category"`
		Thumbnail   *string `json:"thumbnail"`
		IsPublished *bool   `json:"isPublished"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.Title != nil {
		course.Title = *reqData.Title
	}
	if reqData.Description != nil {
		course.Description = *reqData.Description
	}
	if reqData.Category != nil {
		course.Category = *reqData.Category
	}
	if reqData.Thumbnail != nil {
		course.Thumbnail = *reqData.Thumbnail
	}
	if reqData.IsPublished != nil {
		course.IsPublished = *reqData.IsPublished
	}

	if err := database.Database.Db.Save(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", course)
}

// DeleteCourse soft-deletes a course
func DeleteCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	course, ok := loadOwnedCourse(c, courseID)
	if !ok {
		return nil
	}

	course.IsDeleted = true
	if err := database.Database.Db.Save(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully!", nil)
}

var errNotOwned = errors.New("course not owned by actor")

// CheckCourseOwnership is the single ownership predicate for course-scoped
// mutations: admins pass, tutors must match the stored tutor reference.
// Used by loadOwnedCourse and by the enrollment decision handler.
func CheckCourseOwnership(actor models.User, course courseModels.Course) error {
	if actor.Role == models.RoleAdmin {
		return nil
	}
	if course.TutorID != actor.ID {
		return errNotOwned
	}
	return nil
}
