package authController

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

// Register creates a new pending account. Requested roles outside
// tutor/learner silently downgrade to learner; nobody self-registers as an
// admin or as approved.
func Register(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedRegister").(*struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	// Check if email already exists
	if err := db.Where("email = ?", reqData.Email).First(&models.User{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
	}

	role := reqData.Role
	if !models.ValidRegistrationRole(role) {
		role = models.RoleLearner
	}

	// Hash Password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	newUser := models.User{
		Name:     reqData.Name,
		Email:    reqData.Email,
		Password: string(hashedPassword),
		Role:     role,
		Status:   models.StatusPending,
	}

	if err := db.Create(&newUser).Error; err != nil {
		log.Printf("Error saving user to database: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to register user!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Registration successful. Please wait for admin approval.", newUser)
}

// Login verifies credentials and account approval, then issues a 7-day JWT.
// Unknown email and wrong password return the same response so callers
// cannot probe which addresses are registered.
func Login(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedLogin").(*struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("email = ? AND is_deleted = ?", reqData.Email, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	// Validate password
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	// Approval gate applies after the credential check so the message can
	// name the current status without leaking it for bad credentials.
	if user.Status != models.StatusApproved {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Your account is "+user.Status+". Please wait for admin approval.", nil)
	}

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful.", fiber.Map{
		"user":  user,
		"token": token,
	})
}

// Me returns the caller's own record, freshly loaded
func Me(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Current user.", user)
}

// ForgotPassword starts the reset flow. The response is identical whether
// or not the email exists.
func ForgotPassword(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedForgotPassword").(*struct {
		Email string `json:"email"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	anonymousOK := func() error {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "If an account exists, a reset code will be sent to your email.", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("email = ? AND is_deleted = ?", reqData.Email, false).First(&user).Error; err != nil {
		return anonymousOK()
	}

	code := utils.GenerateResetCode()
	expiry := time.Now().Add(utils.ResetCodeTTL)

	user.ResetCode = utils.HashResetCode(code)
	user.ResetCodeExpiry = &expiry
	if err := database.Database.Db.Save(&user).Error; err != nil {
		log.Printf("Error storing reset code: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	// Delivery is best-effort; the code is already stored.
	go func(email, name, code string) {
		if err := utils.SendResetCodeEmail(email, name, code); err != nil {
			log.Printf("Error sending reset code email: %v", err)
		}
	}(user.Email, user.Name, code)

	return anonymousOK()
}

// checkResetCode validates a stored reset code against the submitted one,
// clearing expired codes on detection. Returns the user when valid.
func checkResetCode(email, code string) (models.User, bool) {
	var user models.User
	if err := database.Database.Db.Where("email = ? AND is_deleted = ?", email, false).First(&user).Error; err != nil {
		return user, false
	}
	if user.ResetCode == "" || user.ResetCodeExpiry == nil {
		return user, false
	}

	if time.Now().After(*user.ResetCodeExpiry) {
		user.ResetCode = ""
		user.ResetCodeExpiry = nil
		database.Database.Db.Save(&user)
		return user, false
	}

	if utils.HashResetCode(code) != user.ResetCode {
		return user, false
	}

	return user, true
}

// VerifyResetCode checks a submitted code without consuming it
func VerifyResetCode(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedVerifyResetCode").(*struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if _, valid := checkResetCode(reqData.Email, reqData.Code); !valid {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid or expired code!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Code verified successfully.", nil)
}

// ResetPassword consumes a valid code and replaces the password
func ResetPassword(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedResetPassword").(*struct {
		Email       string `json:"email"`
		Code        string `json:"code"`
		NewPassword string `json:"newPassword"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	user, valid := checkResetCode(reqData.Email, reqData.Code)
	if !valid {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid or expired code!", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.NewPassword), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	user.Password = string(hashedPassword)
	user.ResetCode = ""
	user.ResetCodeExpiry = nil
	if err := database.Database.Db.Save(&user).Error; err != nil {
		log.Printf("Error resetting password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reset password!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Password reset successfully.", nil)
}
