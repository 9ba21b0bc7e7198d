package courseController

import (
	"encoding/json"
	"time"

	"smartmind/database"
	"smartmind/middleware"
	courseModels "smartmind/models/course"
	"smartmind/utils"

	"github.com/gofiber/fiber/v2"
)

// AddModule appends a module to a course. OrderIndex is the current module
// count plus one; deletions are not compacted.
func AddModule(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	course, ok := loadOwnedCourse(c, courseID)
	if !ok {
		return nil
	}

	reqData, ok := c.Locals("validatedModule").(*struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var count int64
	if err := database.Database.Db.Model(&courseModels.Module{}).Where("course_id = ?", course.ID).Count(&count).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add module!", nil)
	}

	module := courseModels.Module{
		CourseID:    course.ID,
		Title:       reqData.Title,
		Description: reqData.Description,
		OrderIndex:  int(count) + 1,
	}

	if err := database.Database.Db.Create(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add module!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Module added successfully!", module)
}

// AddMaterial appends a material to a course
func AddMaterial(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	course, ok := loadOwnedCourse(c, courseID)
	if !ok {
		return nil
	}

	reqData, ok := c.Locals("validatedMaterial").(*struct {
		Title string `json:"title"`
		Type  string `json:"type"`
		URL   string `json:"url"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	material := courseModels.Material{
		CourseID: course.ID,
		Title:    reqData.Title,
		Type:     reqData.Type,
		URL:      reqData.URL,
	}

	if err := database.Database.Db.Create(&material).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add material!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Material added successfully!", material)
}

// UploadMaterial accepts a multipart file, pushes it to the media host and
// appends the resulting URL as a material
func UploadMaterial(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	course, ok := loadOwnedCourse(c, courseID)
	if !ok {
		return nil
	}

	file, err := c.FormFile("file")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "No file uploaded!", nil)
	}

	materialType := c.FormValue("type")
	if !courseModels.ValidMaterialType(materialType) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Type must be one of pdf, image, video, link!", nil)
	}
	title := c.FormValue("title")
	if title == "" {
		title = file.Filename
	}

	url, err := utils.UploadMedia(file, "materials")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to upload material!", nil)
	}

	material := courseModels.Material{
		CourseID: course.ID,
		Title:    title,
		Type:     materialType,
		URL:      url,
	}

	if err := database.Database.Db.Create(&material).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add material!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Material uploaded successfully!", material)
}

// AddAnnouncement appends an announcement to a course
func AddAnnouncement(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	course, ok := loadOwnedCourse(c, courseID)
	if !ok {
		return nil
	}

	reqData, ok := c.Locals("validatedAnnouncement").(*struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	announcement := courseModels.Announcement{
		CourseID: course.ID,
		Title:    reqData.Title,
		Content:  reqData.Content,
	}

	if err := database.Database.Db.Create(&announcement).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add announcement!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Announcement added successfully!", announcement)
}

// AddAssignment appends an assignment to a course
func AddAssignment(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	course, ok := loadOwnedCourse(c, courseID)
	if !ok {
		return nil
	}

	reqData, ok := c.Locals("validatedAssignment").(*struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		DueDate     string   `json:"dueDate"`
		Attachments []string `json:"attachments"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	assignment := courseModels.Assignment{
		CourseID:    course.ID,
		Title:       reqData.Title,
		Description: reqData.Description,
	}

	if reqData.DueDate != "" {
		// Format already checked by the validator
		due, _ := time.Parse(time.RFC3339, reqData.DueDate)
		assignment.DueDate = &due
	}

	if len(reqData.Attachments) > 0 {
		attachments, err := json.Marshal(reqData.Attachments)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid attachments!", nil)
		}
		assignment.Attachments = attachments
	}

	if err := database.Database.Db.Create(&assignment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add assignment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Assignment added successfully!", assignment)
}
