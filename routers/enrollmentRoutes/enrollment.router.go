package enrollmentRoutes

import (
	enrollmentControllers "smartmind/controllers/enrollment"
	"smartmind/middleware"
	"smartmind/models"
	enrollmentValidators "smartmind/validators/enrollment"

	"github.com/gofiber/fiber/v2"
)

func SetupEnrollmentRoutes(app *fiber.App) {
	enrollmentGroup := app.Group("/enrollments", middleware.JWTMiddleware)

	enrollmentGroup.Post("/", middleware.RequireRoles(models.RoleLearner), enrollmentValidators.CreateEnrollment(), enrollmentControllers.CreateEnrollment)

	// Role-scoped listings
	enrollmentGroup.Get("/learner", middleware.RequireRoles(models.RoleLearner), enrollmentControllers.GetLearnerEnrollments)
	enrollmentGroup.Get("/tutor", middleware.RequireRoles(models.RoleTutor), enrollmentControllers.GetTutorEnrollments)
	enrollmentGroup.Get("/admin", middleware.RequireRoles(models.RoleAdmin), enrollmentValidators.ListAdmin(), enrollmentControllers.GetAdminEnrollments)

	enrollmentGroup.Get("/:id", middleware.RequireRoles(), enrollmentValidators.EnrollmentID(), enrollmentControllers.GetEnrollment)
	enrollmentGroup.Put("/:id/status", middleware.RequireRoles(models.RoleTutor, models.RoleAdmin), enrollmentValidators.EnrollmentID(), enrollmentValidators.UpdateStatus(), enrollmentControllers.UpdateEnrollmentStatus)
}
