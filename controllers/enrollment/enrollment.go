package enrollmentController

import (
	"errors"
	"log"
	"time"

	courseController "smartmind/controllers/course"
	"smartmind/database"
	"smartmind/middleware"
	"smartmind/models"
	courseModels "smartmind/models/course"
	"smartmind/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// learnerInfo is the public slice of a learner record attached to
// enrollment responses
type learnerInfo struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func loadLearnerInfo(learnerID uint) learnerInfo {
	var learner models.User
	if err := database.Database.Db.Select("id, name, email").First(&learner, learnerID).Error; err != nil {
		return learnerInfo{ID: learnerID}
	}
	return learnerInfo{ID: learner.ID, Name: learner.Name, Email: learner.Email}
}

type enrollmentWithLearner struct {
	courseModels.Enrollment
	Learner learnerInfo `json:"learner"`
}

func attachLearners(enrollments []courseModels.Enrollment) []enrollmentWithLearner {
	response := make([]enrollmentWithLearner, 0, len(enrollments))
	for _, enrollment := range enrollments {
		response = append(response, enrollmentWithLearner{
			Enrollment: enrollment,
			Learner:    loadLearnerInfo(enrollment.LearnerID),
		})
	}
	return response
}

// CreateEnrollment files a learner's pending enrollment request for a
// published course. At most one enrollment may exist per (learner, course)
// pair, in any status; the composite unique index settles concurrent
// creates and the losing request surfaces a conflict.
func CreateEnrollment(c *fiber.Ctx) error {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedEnrollment").(*struct {
		CourseID uint `json:"courseId"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// Check if course exists and is visible to learners
	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_published = ? AND is_deleted = ?", reqData.CourseID, true, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	// Check if already enrolled, in any status
	var existing courseModels.Enrollment
	if err := database.Database.Db.Where("learner_id = ? AND course_id = ?", actor.ID, course.ID).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Already enrolled in this course!", nil)
	}

	enrollment := courseModels.Enrollment{
		LearnerID: actor.ID,
		CourseID:  course.ID,
		Status:    courseModels.EnrollmentPending,
	}

	if err := database.Database.Db.Create(&enrollment).Error; err != nil {
		// Lost a concurrent race on the unique (learner, course) index
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Already enrolled in this course!", nil)
		}
		log.Printf("Error creating enrollment: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create enrollment!", nil)
	}

	enrollment.Course = course
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Enrollment requested successfully!", enrollment)
}

// GetLearnerEnrollments lists the caller's own enrollments
func GetLearnerEnrollments(c *fiber.Ctx) error {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var enrollments []courseModels.Enrollment
	if err := database.Database.Db.
		Where("learner_id = ?", actor.ID).
		Preload("Course").
		Order("created_at desc").
		Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", enrollments)
}

// GetTutorEnrollments lists enrollments for courses the calling tutor owns
func GetTutorEnrollments(c *fiber.Ctx) error {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var courseIDs []uint
	if err := database.Database.Db.
		Model(&courseModels.Course{}).
		Where("tutor_id = ? AND is_deleted = ?", actor.ID, false).
		Pluck("id", &courseIDs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	var enrollments []courseModels.Enrollment
	if len(courseIDs) > 0 {
		if err := database.Database.Db.
			Where("course_id IN ?", courseIDs).
			Preload("Course").
			Order("created_at desc").
			Find(&enrollments).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", attachLearners(enrollments))
}

// GetAdminEnrollments lists all enrollments, optionally filtered by status
func GetAdminEnrollments(c *fiber.Ctx) error {
	db := database.Database.Db.Preload("Course")

	if status := c.Query("status"); status != "" {
		db = db.Where("status = ?", status)
	}

	var enrollments []courseModels.Enrollment
	if err := db.Order("created_at desc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", attachLearners(enrollments))
}

// GetEnrollment returns one enrollment, visible to the referenced learner,
// the owning tutor or an admin
func GetEnrollment(c *fiber.Ctx) error {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	enrollmentID := c.Locals("enrollmentID").(uint)

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Preload("Course").First(&enrollment, enrollmentID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}

	isLearner := enrollment.LearnerID == actor.ID
	isOwner := enrollment.Course.TutorID == actor.ID
	isAdmin := actor.Role == models.RoleAdmin

	if !isLearner && !isOwner && !isAdmin {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Not authorized!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment fetched successfully!", enrollmentWithLearner{
		Enrollment: enrollment,
		Learner:    loadLearnerInfo(enrollment.LearnerID),
	})
}

// UpdateEnrollmentStatus applies the tutor/admin decision on a pending
// enrollment. Approval stamps ApprovedAt and adds the learner to the course
// roster; both writes run in one transaction so a crash cannot leave the
// enrollment approved with the roster missing the learner. The roster add
// is idempotent: an existing membership row is left alone. Approved and
// rejected are terminal, so a second decision is a conflict.
func UpdateEnrollmentStatus(c *fiber.Ctx) error {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	enrollmentID := c.Locals("enrollmentID").(uint)

	reqData, ok := c.Locals("validatedEnrollmentStatus").(*struct {
		Status string `json:"status"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Preload("Course").First(&enrollment, enrollmentID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}

	// Ownership is re-derived from the stored course row on every request
	if err := courseController.CheckCourseOwnership(actor, enrollment.Course); err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Not authorized!", nil)
	}

	if enrollment.Status != courseModels.EnrollmentPending {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Enrollment already "+enrollment.Status+"!", nil)
	}

	enrollment.Status = reqData.Status
	if reqData.Status == courseModels.EnrollmentApproved {
		now := time.Now()
		enrollment.ApprovedAt = &now
	}

	err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Course").Save(&enrollment).Error; err != nil {
			return err
		}
		if reqData.Status != courseModels.EnrollmentApproved {
			return nil
		}

		// Idempotent roster add
		var membership courseModels.CourseStudent
		err := tx.Where("course_id = ? AND user_id = ?", enrollment.CourseID, enrollment.LearnerID).First(&membership).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(&courseModels.CourseStudent{
				CourseID: enrollment.CourseID,
				UserID:   enrollment.LearnerID,
			}).Error
		}
		return err
	})
	if err != nil {
		log.Printf("Error updating enrollment %d: %v", enrollmentID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update enrollment!", nil)
	}

	// Notify the learner, best-effort
	go func(learnerID uint, courseTitle, status string) {
		var learner models.User
		if err := database.Database.Db.Select("name, email").First(&learner, learnerID).Error; err == nil && learner.Email != "" {
			if err := utils.SendEnrollmentDecisionEmail(learner.Email, learner.Name, courseTitle, status); err != nil {
				log.Printf("Error sending enrollment decision email: %v", err)
			}
		}
	}(enrollment.LearnerID, enrollment.Course.Title, reqData.Status)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment "+reqData.Status+" successfully!", enrollmentWithLearner{
		Enrollment: enrollment,
		Learner:    loadLearnerInfo(enrollment.LearnerID),
	})
}
