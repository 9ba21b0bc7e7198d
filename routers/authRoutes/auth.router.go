package authRoutes

import (
	authControllers "smartmind/controllers/auth"
	"smartmind/middleware"
	authValidators "smartmind/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/auth")

	authGroup.Post("/register", authValidators.Register(), authControllers.Register)
	authGroup.Post("/login", authValidators.Login(), authControllers.Login)
	authGroup.Get("/me", middleware.JWTMiddleware, middleware.RequireRoles(), authControllers.Me)
	authGroup.Post("/forgot-password", authValidators.ForgotPassword(), authControllers.ForgotPassword)
	authGroup.Post("/verify-reset-code", authValidators.VerifyResetCode(), authControllers.VerifyResetCode)
	authGroup.Post("/reset-password", authValidators.ResetPassword(), authControllers.ResetPassword)
}
