package courseController

import (
	"errors"
	"log"
	"time"

	"smartmind/database"
	"smartmind/middleware"
	courseModels "smartmind/models/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SubmitAssignment records a learner's submission. The learner must be on
// the course roster, and only one submission per assignment is kept.
func SubmitAssignment(c *fiber.Ctx) error {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(uint)
	assignmentID := c.Locals("assignmentID").(uint)

	reqData, ok := c.Locals("validatedSubmission").(*struct {
		SubmissionURL string `json:"submissionUrl"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var assignment courseModels.Assignment
	if err := database.Database.Db.Where("id = ? AND course_id = ?", assignmentID, courseID).First(&assignment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assignment not found!", nil)
	}

	// Only enrolled learners may submit
	var membership courseModels.CourseStudent
	if err := database.Database.Db.Where("course_id = ? AND user_id = ?", courseID, actor.ID).First(&membership).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not enrolled in this course!", nil)
	}

	// One submission per learner per assignment
	var existing courseModels.Submission
	if err := database.Database.Db.Where("assignment_id = ? AND learner_id = ?", assignmentID, actor.ID).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Assignment already submitted!", nil)
	}

	submission := courseModels.Submission{
		AssignmentID:  assignmentID,
		LearnerID:     actor.ID,
		SubmissionURL: reqData.SubmissionURL,
		SubmittedAt:   time.Now(),
	}

	if err := database.Database.Db.Create(&submission).Error; err != nil {
		// Lost a concurrent race on the unique (assignment, learner) index
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Assignment already submitted!", nil)
		}
		log.Printf("Error creating submission: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit assignment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Assignment submitted successfully!", submission)
}

// GradeSubmission records a grade and feedback on a submission. Shares the
// course ownership predicate with the other mutations.
func GradeSubmission(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)
	assignmentID := c.Locals("assignmentID").(uint)
	submissionID := c.Locals("submissionID").(uint)

	if _, ok := loadOwnedCourse(c, courseID); !ok {
		return nil
	}

	reqData, ok := c.Locals("validatedGrade").(*struct {
		Grade    *float64 `json:"grade"`
		Feedback string   `json:"feedback"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var assignment courseModels.Assignment
	if err := database.Database.Db.Where("id = ? AND course_id = ?", assignmentID, courseID).First(&assignment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assignment not found!", nil)
	}

	var submission courseModels.Submission
	if err := database.Database.Db.Where("id = ? AND assignment_id = ?", submissionID, assignmentID).First(&submission).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Submission not found!", nil)
	}

	submission.Grade = reqData.Grade
	submission.Feedback = reqData.Feedback

	if err := database.Database.Db.Save(&submission).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to grade submission!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Submission graded successfully!", submission)
}
