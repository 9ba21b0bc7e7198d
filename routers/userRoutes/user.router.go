package userRoutes

import (
	userControllers "smartmind/controllers/user"
	"smartmind/middleware"
	"smartmind/models"
	userValidators "smartmind/validators/user"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/users", middleware.JWTMiddleware)

	userGroup.Get("/", middleware.RequireRoles(models.RoleAdmin), userValidators.ListUsers(), userControllers.ListUsers)
	userGroup.Get("/pending", middleware.RequireRoles(models.RoleAdmin), userControllers.ListPendingUsers)
	userGroup.Get("/tutors", middleware.RequireRoles(), userControllers.ListTutors)
	userGroup.Post("/avatar", middleware.RequireRoles(), userControllers.UploadAvatar)

	userGroup.Get("/:id", middleware.RequireRoles(), userValidators.UserID(), userControllers.GetUser)
	userGroup.Put("/:id", middleware.RequireRoles(), userValidators.UserID(), userValidators.UpdateProfile(), userControllers.UpdateProfile)
	userGroup.Delete("/:id", middleware.RequireRoles(models.RoleAdmin), userValidators.UserID(), userControllers.DeleteUser)
	userGroup.Put("/:id/status", middleware.RequireRoles(models.RoleAdmin), userValidators.UserID(), userValidators.UpdateStatus(), userControllers.UpdateUserStatus)
	userGroup.Put("/:id/password", middleware.RequireRoles(), userValidators.UserID(), userValidators.ChangePassword(), userControllers.ChangePassword)
	userGroup.Post("/:id/generate-reset-code", middleware.RequireRoles(models.RoleAdmin), userValidators.UserID(), userControllers.GenerateResetCode)
	userGroup.Post("/:id/send-password-reset-email", middleware.RequireRoles(models.RoleAdmin), userValidators.UserID(), userControllers.SendPasswordResetEmail)
}
