package userController

import (
	"log"
	"time"

	"smartmind/config"
	"smartmind/database"
	"smartmind/middleware"
	"smartmind/models"
	"smartmind/utils"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// ListUsers returns all users, optionally filtered by role/status. Admin only.
func ListUsers(c *fiber.Ctx) error {
	db := database.Database.Db.Where("is_deleted = ?", false)

	if role := c.Query("role"); role != "" {
		db = db.Where("role = ?", role)
	}
	if status := c.Query("status"); status != "" {
		db = db.Where("status = ?", status)
	}

	var users []models.User
	if err := db.Order("created_at desc").Find(&users).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch users!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Users fetched successfully!", users)
}

// ListPendingUsers returns accounts awaiting an approval decision. Admin only.
func ListPendingUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := database.Database.Db.
		Where("status = ? AND is_deleted = ?", models.StatusPending, false).
		Order("created_at desc").
		Find(&users).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch users!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Pending users fetched successfully!", users)
}

// ListTutors returns approved tutors, for learner browsing
func ListTutors(c *fiber.Ctx) error {
	var tutors []models.User
	if err := database.Database.Db.
		Where("role = ? AND status = ? AND is_deleted = ?", models.RoleTutor, models.StatusApproved, false).
		Find(&tutors).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch tutors!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Tutors fetched successfully!", tutors)
}

// GetUser returns a single user record
func GetUser(c *fiber.Ctx) error {
	targetID := c.Locals("targetUserID").(uint)

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", targetID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User fetched successfully!", user)
}

// UpdateUserStatus applies an admin approval decision to an account
func UpdateUserStatus(c *fiber.Ctx) error {
	targetID := c.Locals("targetUserID").(uint)

	reqData, ok := c.Locals("validatedStatus").(*struct {
		Status string `json:"status"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", targetID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	user.Status = reqData.Status
	if err := database.Database.Db.Save(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update user status!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User "+reqData.Status+" successfully!", user)
}

// UpdateProfile updates profile fields. Users may edit their own record;
// admins may edit anyone.
func UpdateProfile(c *fiber.Ctx) error {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	targetID := c.Locals("targetUserID").(uint)

	if actor.ID != targetID && actor.Role != models.RoleAdmin {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Not authorized!", nil)
	}

	reqData, ok := c.Locals("validatedProfile").(*struct {
		Name   string `json:"name"`
		Email  string `json:"email"`
		Phone  string `json:"phone"`
		Bio    string `json:"bio"`
		Avatar string `json:"avatar"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", targetID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	if reqData.Email != "" && reqData.Email != user.Email {
		// Email must stay unique across other users
		var existing models.User
		if err := database.Database.Db.Where("email = ? AND id <> ?", reqData.Email, targetID).First(&existing).Error; err == nil {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email already in use!", nil)
		}
		user.Email = reqData.Email
	}
	if reqData.Name != "" {
		user.Name = reqData.Name
	}
	if reqData.Phone != "" {
		user.Phone = reqData.Phone
	}
	if reqData.Bio != "" {
		user.Bio = reqData.Bio
	}
	if reqData.Avatar != "" {
		user.Avatar = reqData.Avatar
	}

	if err := database.Database.Db.Save(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update profile!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile updated successfully!", user)
}

// ChangePassword replaces the caller's own password after verifying the
// current one
func ChangePassword(c *fiber.Ctx) error {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	targetID := c.Locals("targetUserID").(uint)

	if actor.ID != targetID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Not authorized!", nil)
	}

	reqData, ok := c.Locals("validatedChangePassword").(*struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(actor.Password), []byte(reqData.CurrentPassword)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Current password is incorrect!", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.NewPassword), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	actor.Password = string(hashedPassword)
	if err := database.Database.Db.Save(&actor).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to change password!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Password changed successfully!", nil)
}

// UploadAvatar stores an uploaded avatar with the media host and saves the
// returned URL on the caller's record
func UploadAvatar(c *fiber.Ctx) error {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "No file uploaded!", nil)
	}

	url, err := utils.UploadMedia(file, "avatars")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to upload avatar!", nil)
	}

	actor.Avatar = url
	if err := database.Database.Db.Save(&actor).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save avatar!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Avatar updated successfully!", fiber.Map{
		"avatar": url,
		"user":   actor,
	})
}

// DeleteUser soft-deletes an account. Admin accounts cannot be deleted,
// not even by another admin.
func DeleteUser(c *fiber.Ctx) error {
	targetID := c.Locals("targetUserID").(uint)

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", targetID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	if user.Role == models.RoleAdmin {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Cannot delete admin users!", nil)
	}

	user.IsDeleted = true
	if err := database.Database.Db.Save(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete user!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User deleted successfully!", nil)
}

// GenerateResetCode lets an admin mint a password reset code for a user
// out-of-band. Same hashing and expiry contract as the self-service flow;
// the plaintext code is returned once in the response.
func GenerateResetCode(c *fiber.Ctx) error {
	targetID := c.Locals("targetUserID").(uint)

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", targetID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	code := utils.GenerateResetCode()
	expiry := time.Now().Add(utils.ResetCodeTTL)

	user.ResetCode = utils.HashResetCode(code)
	user.ResetCodeExpiry = &expiry
	if err := database.Database.Db.Save(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate reset code!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Reset code generated successfully!", fiber.Map{
		"resetCode": code,
		"expiresIn": "30 minutes",
		"userEmail": user.Email,
	})
}

// SendPasswordResetEmail lets an admin push a reset code straight to a
// user's inbox instead of reading it off the response. Same hash/expiry
// contract as the self-service flow; the plaintext code goes only to the
// email.
func SendPasswordResetEmail(c *fiber.Ctx) error {
	targetID := c.Locals("targetUserID").(uint)

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", targetID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	code := utils.GenerateResetCode()
	expiry := time.Now().Add(utils.ResetCodeTTL)

	user.ResetCode = utils.HashResetCode(code)
	user.ResetCodeExpiry = &expiry
	if err := database.Database.Db.Save(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate reset code!", nil)
	}

	go func(email, name, code string) {
		if err := utils.SendResetCodeEmail(email, name, code); err != nil {
			log.Printf("Error sending reset code email: %v", err)
		}
	}(user.Email, user.Name, code)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Password reset instructions sent to "+user.Email, nil)
}
