package userValidator

import (
	"strconv"
	"strings"

	"smartmind/middleware"
	"smartmind/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// UserID validates the :id path parameter and stores it in Locals
func UserID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := strings.TrimSpace(c.Params("id"))
		if idStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "User ID is required!", nil)
		}

		id, err := strconv.Atoi(idStr)
		if err != nil || id <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid User ID!", nil)
		}

		c.Locals("targetUserID", uint(id))
		return c.Next()
	}
}

// ListUsers validates the optional role/status query filters
func ListUsers() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := c.Query("role")
		status := c.Query("status")

		errors := make(map[string]string)

		if role != "" && role != models.RoleAdmin && role != models.RoleTutor && role != models.RoleLearner {
			errors["role"] = "Invalid role filter!"
		}
		if status != "" && status != models.StatusPending && status != models.StatusApproved && status != models.StatusRejected {
			errors["status"] = "Invalid status filter!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		return c.Next()
	}
}

// UpdateStatus validates an admin approval decision for a user
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

		c.Locals("validatedStatus", reqData)
		return c.Next()
	}
}

// UpdateProfile validates a profile update payload; all fields optional
func UpdateProfile() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Name   string `json:"name"`
			Email  string `json:"email"`
			Phone  string `json:"phone"`
			Bio    string `json:"bio"`
			Avatar string `json:"avatar"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Email != "" && validate.Var(reqData.Email, "email") != nil {
			errors["email"] = "Invalid email!"
		}
		if reqData.Avatar != "" && validate.Var(reqData.Avatar, "url") != nil {
			errors["avatar"] = "Avatar must be a valid URL!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedProfile", reqData)
		return c.Next()
	}
}

// ChangePassword validates a password change payload
func ChangePassword() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			CurrentPassword string `json:"currentPassword"`
			NewPassword     string `json:"newPassword"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.CurrentPassword == "" {
			errors["currentPassword"] = "Current password is required!"
		}
		if len(strings.TrimSpace(reqData.NewPassword)) < 6 {
			errors["newPassword"] = "New password must be at least 6 characters long!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedChangePassword", reqData)
		return c.Next()
	}
}
