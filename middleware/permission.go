package middleware

import (
	"errors"

	"smartmind/database"
	"smartmind/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// RequireRoles returns a middleware that reloads the authenticated user and
// checks role membership. The record is fetched fresh on every request so an
// admin flipping a user's status or role takes effect immediately, whatever
// the token still claims. The loaded record is stored in Locals("currentUser").
//
// An empty allow-list means any approved user.
func RequireRoles(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Get user ID from context (set by JWTMiddleware)
		userID, ok := c.Locals("userId").(uint)
		if !ok {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized: User ID not found", nil)
		}

		var user models.User
		err := database.Database.Db.Where("id = ? AND is_deleted = false", userID).First(&user).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
			}
			return JsonResponse(c, fiber.StatusInternalServerError, false, "Server error while checking permissions!", nil)
		}

		if user.Status != models.StatusApproved {
			return JsonResponse(c, fiber.StatusForbidden, false, "Your account is "+user.Status+". Please wait for admin approval.", nil)
		}

		if len(roles) > 0 {
			allowed := false
			for _, role := range roles {
				if user.Role == role {
					allowed = true
					break
				}
			}
			if !allowed {
				return JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to access this resource!", nil)
			}
		}

		c.Locals("currentUser", user)
		return c.Next()
	}
}

// CurrentUser returns the request actor loaded by RequireRoles.
func CurrentUser(c *fiber.Ctx) (models.User, bool) {
	user, ok := c.Locals("currentUser").(models.User)
	return user, ok
}
