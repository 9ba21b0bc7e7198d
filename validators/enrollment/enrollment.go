package enrollmentValidator

import (
	"strconv"
	"strings"

	"smartmind/middleware"
	"smartmind/models"
	courseModels "smartmind/models/course"

	"github.com/gofiber/fiber/v2"
)

// EnrollmentID validates the :id path parameter and stores it in Locals
func EnrollmentID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := strings.TrimSpace(c.Params("id"))
		id, err := strconv.Atoi(idStr)
		if err != nil || id <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Enrollment ID!", nil)
		}

		c.Locals("enrollmentID", uint(id))
		return c.Next()
	}
}

// CreateEnrollment validates an enrollment request payload
func CreateEnrollment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			CourseID uint `json:"courseId"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.CourseID == 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{"courseId": "Course ID is required!"})
		}

		c.Locals("validatedEnrollment", reqData)
		return c.Next()
	}
}

// UpdateStatus validates a tutor/admin enrollment decision. Only approved
// and rejected are acceptable inputs.
func UpdateStatus() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Status string `json:"status"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if !models.ValidDecision(reqData.Status) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid status!", nil)
		}

		c.Locals("validatedEnrollmentStatus", reqData)
		return c.Next()
	}
}

// ListAdmin validates the optional status filter on the admin listing
func ListAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		status := c.Query("status")
		if status != "" &&
			status != courseModels.EnrollmentPending &&
			status != courseModels.EnrollmentApproved &&
			status != courseModels.EnrollmentRejected {
			return middleware.ValidationErrorResponse(c, map[string]string{"status": "Invalid status filter!"})
		}
		return c.Next()
	}
}
