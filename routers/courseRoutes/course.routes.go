package courseRoutes

import (
	courseControllers "smartmind/controllers/course"
	"smartmind/middleware"
	"smartmind/models"
	courseValidators "smartmind/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all course routes. Listing and detail are
// public; every mutation goes through the role middleware and the handlers
// enforce ownership against the stored tutor reference.
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/courses")

	// Public browsing
	courseGroup.Get("/", courseControllers.GetPublishedCourses)
	courseGroup.Get("/tutor/my-courses", middleware.JWTMiddleware, middleware.RequireRoles(models.RoleTutor, models.RoleAdmin), courseControllers.GetMyCourses)
	courseGroup.Get("/:id", courseValidators.CourseID(), courseControllers.GetCourseDetails)

	// Course lifecycle
	courseGroup.Post("/", middleware.JWTMiddleware, middleware.RequireRoles(models.RoleTutor), courseValidators.CreateCourse(), courseControllers.CreateCourse)
	courseGroup.Put("/:id", middleware.JWTMiddleware, middleware.RequireRoles(models.RoleTutor, models.RoleAdmin), courseValidators.CourseID(), courseValidators.UpdateCourse(), courseControllers.UpdateCourse)
	courseGroup.Delete("/:id", middleware.JWTMiddleware, middleware.RequireRoles(models.RoleTutor, models.RoleAdmin), courseValidators.CourseID(), courseControllers.DeleteCourse)

	// Sub-collection appends
	courseGroup.Post("/:id/modules", middleware.JWTMiddleware, middleware.RequireRoles(models.RoleTutor, models.RoleAdmin), courseValidators.CourseID(), courseValidators.AddModule(), courseControllers.AddModule)
	courseGroup.Post("/:id/materials", middleware.JWTMiddleware, middleware.RequireRoles(models.RoleTutor, models.RoleAdmin), courseValidators.CourseID(), courseValidators.AddMaterial(), courseControllers.AddMaterial)
	courseGroup.Post("/:id/materials/upload", middleware.JWTMiddleware, middleware.RequireRoles(models.RoleTutor, models.RoleAdmin), courseValidators.CourseID(), courseControllers.UploadMaterial)
	courseGroup.Post("/:id/announcements", middleware.JWTMiddleware, middleware.RequireRoles(models.RoleTutor, models.RoleAdmin), courseValidators.CourseID(), courseValidators.AddAnnouncement(), courseControllers.AddAnnouncement)
	courseGroup.Post("/:id/assignments", middleware.JWTMiddleware, middleware.RequireRoles(models.RoleTutor, models.RoleAdmin), courseValidators.CourseID(), courseValidators.AddAssignment(), courseControllers.AddAssignment)

	// Assignment submissions
	courseGroup.Post("/:id/assignments/:assignmentId/submissions", middleware.JWTMiddleware, middleware.RequireRoles(models.RoleLearner), courseValidators.CourseID(), courseValidators.SubmitAssignment(), courseControllers.SubmitAssignment)
	courseGroup.Put("/:id/assignments/:assignmentId/submissions/:submissionId/grade", middleware.JWTMiddleware, middleware.RequireRoles(models.RoleTutor, models.RoleAdmin), courseValidators.CourseID(), courseValidators.GradeSubmission(), courseControllers.GradeSubmission)
}
