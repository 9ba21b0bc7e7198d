package courseValidator

import (
	"strconv"
	"strings"
	"time"

	"smartmind/middleware"
	courseModels "smartmind/models/course"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// paramID parses a positive integer path parameter
func paramID(c *fiber.Ctx, name string) (uint, bool) {
	idStr := strings.TrimSpace(c.Params(name))
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}

// CourseID validates the :id path parameter and stores it in Locals
func CourseID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}
		c.Locals("courseID", id)
		return c.Next()
	}
}

// CreateCourse validates a course creation payload
func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			Category    string `json:"category"`
			Thumbnail   string `json:"thumbnail"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		}
		if strings.TrimSpace(reqData.Description) == "" {
			errors["description"] = "Description is required!"
		}
		if strings.TrimSpace(reqData.Category) == "" {
			errors["category"] = "Category is required!"
		}
		if reqData.Thumbnail != "" && validate.Var(reqData.Thumbnail, "url") != nil {
			errors["thumbnail"] = "Thumbnail must be a valid URL!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

// UpdateCourse validates a partial course update payload
func UpdateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title       *string `json:"title"`
			Description *string `json:"description"`
			Category    *string `json:"category"`
			Thumbnail   *string `json:"thumbnail"`
			IsPublished *bool   `json:"isPublished"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Title != nil && strings.TrimSpace(*reqData.Title) == "" {
			errors["title"] = "Title cannot be empty!"
		}
		if reqData.Thumbnail != nil && *reqData.Thumbnail != "" && validate.Var(*reqData.Thumbnail, "url") != nil {
			errors["thumbnail"] = "Thumbnail must be a valid URL!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourseUpdate", reqData)
		return c.Next()
	}
}

// AddModule validates a module append payload
func AddModule() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title       string `json:"title"`
			Description string `json:"description"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if strings.TrimSpace(reqData.Title) == "" {
			return middleware.ValidationErrorResponse(c, map[string]string{"title": "Title is required!"})
		}

		c.Locals("validatedModule", reqData)
		return c.Next()
	}
}

// AddMaterial validates a material append payload, including the closed
// type set
func AddMaterial() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title string `json:"title"`
			Type  string `json:"type"`
			URL   string `json:"url"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		}
		if !courseModels.ValidMaterialType(reqData.Type) {
			errors["type"] = "Type must be one of pdf, image, video, link!"
		}
		if reqData.URL == "" || validate.Var(reqData.URL, "url") != nil {
			errors["url"] = "A valid URL is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedMaterial", reqData)
		return c.Next()
	}
}

// AddAnnouncement validates an announcement append payload
func AddAnnouncement() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title   string `json:"title"`
			Content string `json:"content"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		}
		if strings.TrimSpace(reqData.Content) == "" {
			errors["content"] = "Content is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedAnnouncement", reqData)
		return c.Next()
	}
}

// AddAssignment validates an assignment append payload. DueDate, when
// present, must be RFC3339.
func AddAssignment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title       string   `json:"title"`
			Description string   `json:"description"`
			DueDate     string   `json:"dueDate"`
			Attachments []string `json:"attachments"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		}
		if reqData.DueDate != "" {
			if _, err := time.Parse(time.RFC3339, reqData.DueDate); err != nil {
				errors["dueDate"] = "Due date must be an RFC3339 timestamp!"
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedAssignment", reqData)
		return c.Next()
	}
}

// SubmitAssignment validates a learner submission payload and the
// :assignmentId path parameter
func SubmitAssignment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		assignmentID, ok := paramID(c, "assignmentId")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Assignment ID!", nil)
		}

		reqData := new(struct {
			SubmissionURL string `json:"submissionUrl"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.SubmissionURL == "" || validate.Var(reqData.SubmissionURL, "url") != nil {
			return middleware.ValidationErrorResponse(c, map[string]string{"submissionUrl": "A valid submission URL is required!"})
		}

		c.Locals("assignmentID", assignmentID)
		c.Locals("validatedSubmission", reqData)
		return c.Next()
	}
}

// GradeSubmission validates a grading payload and the assignment/submission
// path parameters
func GradeSubmission() fiber.Handler {
	return func(c *fiber.Ctx) error {
		assignmentID, ok := paramID(c, "assignmentId")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Assignment ID!", nil)
		}
		submissionID, ok := paramID(c, "submissionId")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Submission ID!", nil)
		}

		reqData := new(struct {
			Grade    *float64 `json:"grade"`
			Feedback string   `json:"feedback"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.Grade == nil || *reqData.Grade < 0 || *reqData.Grade > 100 {
			return middleware.ValidationErrorResponse(c, map[string]string{"grade": "Grade must be between 0 and 100!"})
		}

		c.Locals("assignmentID", assignmentID)
		c.Locals("submissionID", submissionID)
		c.Locals("validatedGrade", reqData)
		return c.Next()
	}
}
