package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"sync"
	"testing"

	"smartmind/config"
	"smartmind/database"
	"smartmind/middleware"
	"smartmind/models"
	courseModels "smartmind/models/course"
	authRoutes "smartmind/routers/authRoutes"
	courseRoutes "smartmind/routers/courseRoutes"
	enrollmentRoutes "smartmind/routers/enrollmentRoutes"
	userRoutes "smartmind/routers/userRoutes"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var loadConfigOnce sync.Once

// PrepareDB opens an isolated in-memory sqlite database for one test,
// migrates the schema and installs it as the global database instance.
func PrepareDB(t *testing.T) *gorm.DB {
	t.Helper()

	loadConfigOnce.Do(config.LoadConfig)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}

	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}
	return db
}

// NewApp builds a fiber app with every route group registered
func NewApp() *fiber.App {
	app := fiber.New()
	authRoutes.SetupAuthRoutes(app)
	userRoutes.SetupUserRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	enrollmentRoutes.SetupEnrollmentRoutes(app)
	return app
}

// CreateUser inserts a user with a bcrypt-hashed password
func CreateUser(t *testing.T, name, email, password, role, status string) models.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}

	user := models.User{
		Name:     name,
		Email:    email,
		Password: string(hashed),
		Role:     role,
		Status:   status,
	}
	if err := database.Database.Db.Create(&user).Error; err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return user
}

// CreateCourse inserts a course owned by the given tutor
func CreateCourse(t *testing.T, tutorID uint, title string, published bool) courseModels.Course {
	t.Helper()

	course := courseModels.Course{
		Title:       title,
		Description: "test course",
		Category:    "testing",
		TutorID:     tutorID,
		IsPublished: published,
	}
	if err := database.Database.Db.Create(&course).Error; err != nil {
		t.Fatalf("CreateCourse() failed: %v", err)
	}
	return course
}

// Token issues a JWT for a user
func Token(t *testing.T, user models.User) string {
	t.Helper()

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	if err != nil {
		t.Fatalf("Token() failed: %v", err)
	}
	return token
}

// Envelope is the uniform response body shape
type Envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// DoJSON sends a JSON request through the app and decodes the envelope
func DoJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, Envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("DoJSON() encode failed: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("DoJSON() request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("DoJSON() read failed: %v", err)
	}

	var envelope Envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &envelope); err != nil {
			t.Fatalf("DoJSON() decode failed: %v (body: %s)", err, raw)
		}
	}
	return resp.StatusCode, envelope
}

// UnmarshalData decodes the envelope data payload into out
func UnmarshalData(t *testing.T, envelope Envelope, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		t.Fatalf("UnmarshalData() failed: %v (data: %s)", err, envelope.Data)
	}
}
