package enrollmentController_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"smartmind/database"
	"smartmind/models"
	courseModels "smartmind/models/course"
	"smartmind/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func rosterCount(t *testing.T, courseID, userID uint) int64 {
	t.Helper()
	var count int64
	err := database.Database.Db.
		Model(&courseModels.CourseStudent{}).
		Where("course_id = ? AND user_id = ?", courseID, userID).
		Count(&count).Error
	require.NoError(t, err)
	return count
}

func TestCreateEnrollment(t *testing.T) {
	testutil.PrepareDB(t)
	app := testutil.NewApp()

	tutor := testutil.CreateUser(t, "Tutor", "tutor@example.com", "secret1", models.RoleTutor, models.StatusApproved)
	learner := testutil.CreateUser(t, "Learner", "learner@example.com", "secret1", models.RoleLearner, models.StatusApproved)
	course := testutil.CreateCourse(t, tutor.ID, "Algebra", true)
	token := testutil.Token(t, learner)

	code, envelope := testutil.DoJSON(t, app, http.MethodPost, "/enrollments", token, map[string]uint{
		"courseId": course.ID,
	})
	require.Equal(t, http.StatusCreated, code, envelope.Message)

	var enrollment courseModels.Enrollment
	testutil.UnmarshalData(t, envelope, &enrollment)
	assert.Equal(t, courseModels.EnrollmentPending, enrollment.Status)
	assert.Equal(t, learner.ID, enrollment.LearnerID)
	assert.Nil(t, enrollment.ApprovedAt)

	// Requesting enrollment never touches the roster
	assert.EqualValues(t, 0, rosterCount(t, course.ID, learner.ID))
}

func TestCreateEnrollmentCourseChecks(t *testing.T) {
	testutil.PrepareDB(t)
	app := testutil.NewApp()

	tutor := testutil.CreateUser(t, "Tutor", "tutor@example.com", "secret1", models.RoleTutor, models.StatusApproved)
	learner := testutil.CreateUser(t, "Learner", "learner@example.com", "secret1", models.RoleLearner, models.StatusApproved)
	unpublished := testutil.CreateCourse(t, tutor.ID, "Draft", false)
	token := testutil.Token(t, learner)

	// Missing course
	code, _ := testutil.DoJSON(t, app, http.MethodPost, "/enrollments", token, map[string]uint{"courseId": 9999})
	assert.Equal(t, http.StatusNotFound, code)

	// Unpublished course is invisible to learners
	code, _ = testutil.DoJSON(t, app, http.MethodPost, "/enrollments", token, map[string]uint{"courseId": unpublished.ID})
	assert.Equal(t, http.StatusNotFound, code)
}

func TestCreateEnrollmentDuplicate(t *testing.T) {
	testutil.PrepareDB(t)
	app := testutil.NewApp()

	tutor := testutil.CreateUser(t, "Tutor", "tutor@example.com", "secret1", models.RoleTutor, models.StatusApproved)
	learner := testutil.CreateUser(t, "Learner", "learner@example.com", "secret1", models.RoleLearner, models.StatusApproved)
	course := testutil.CreateCourse(t, tutor.ID, "Algebra", true)
	token := testutil.Token(t, learner)

	code, _ := testutil.DoJSON(t, app, http.MethodPost, "/enrollments", token, map[string]uint{"courseId": course.ID})
	require.Equal(t, http.StatusCreated, code)

	// A second request for the same pair conflicts, in any state
	code, _ = testutil.DoJSON(t, app, http.MethodPost, "/enrollments", token, map[string]uint{"courseId": course.ID})
	assert.Equal(t, http.StatusConflict, code)

	var count int64
	database.Database.Db.Model(&courseModels.Enrollment{}).
		Where("learner_id = ? AND course_id = ?", learner.ID, course.ID).
		Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestUniqueIndexesSurfaceDuplicatedKey(t *testing.T) {
	testutil.PrepareDB(t)

	tutor := testutil.CreateUser(t, "Tutor", "tutor@example.com", "secret1", models.RoleTutor, models.StatusApproved)
	learner := testutil.CreateUser(t, "Learner", "learner@example.com", "secret1", models.RoleLearner, models.StatusApproved)
	course := testutil.CreateCourse(t, tutor.ID, "Algebra", true)
	db := database.Database.Db

	// The handlers' race backstop relies on unique-violation errors
	// translating to gorm.ErrDuplicatedKey, not on generic failure
	require.NoError(t, db.Create(&courseModels.Enrollment{LearnerID: learner.ID, CourseID: course.ID, Status: courseModels.EnrollmentPending}).Error)
	err := db.Create(&courseModels.Enrollment{LearnerID: learner.ID, CourseID: course.ID, Status: courseModels.EnrollmentPending}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	require.NoError(t, db.Create(&courseModels.Submission{AssignmentID: 1, LearnerID: learner.ID, SubmissionURL: "https://example.com/a.pdf", SubmittedAt: time.Now()}).Error)
	err = db.Create(&courseModels.Submission{AssignmentID: 1, LearnerID: learner.ID, SubmissionURL: "https://example.com/b.pdf", SubmittedAt: time.Now()}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestEnrollmentApprovalWorkflow(t *testing.T) {
	testutil.PrepareDB(t)
	app := testutil.NewApp()

	tutorA := testutil.CreateUser(t, "Tutor A", "a@example.com", "secret1", models.RoleTutor, models.StatusApproved)
	tutorB := testutil.CreateUser(t, "Tutor B", "b@example.com", "secret1", models.RoleTutor, models.StatusApproved)
	learner := testutil.CreateUser(t, "Learner", "l@example.com", "secret1", models.RoleLearner, models.StatusApproved)
	course := testutil.CreateCourse(t, tutorA.ID, "Course C", true)

	code, envelope := testutil.DoJSON(t, app, http.MethodPost, "/enrollments", testutil.Token(t, learner), map[string]uint{
		"courseId": course.ID,
	})
	require.Equal(t, http.StatusCreated, code)

	var enrollment courseModels.Enrollment
	testutil.UnmarshalData(t, envelope, &enrollment)
	statusPath := fmt.Sprintf("/enrollments/%d/status", enrollment.ID)

	// A tutor who does not own the course is rejected
	code, _ = testutil.DoJSON(t, app, http.MethodPut, statusPath, testutil.Token(t, tutorB), map[string]string{
		"status": "approved",
	})
	assert.Equal(t, http.StatusForbidden, code)

	// The learner cannot decide either (role gate)
	code, _ = testutil.DoJSON(t, app, http.MethodPut, statusPath, testutil.Token(t, learner), map[string]string{
		"status": "approved",
	})
	assert.Equal(t, http.StatusForbidden, code)

	// The owning tutor approves
	code, envelope = testutil.DoJSON(t, app, http.MethodPut, statusPath, testutil.Token(t, tutorA), map[string]string{
		"status": "approved",
	})
	require.Equal(t, http.StatusOK, code, envelope.Message)

	var decided courseModels.Enrollment
	require.NoError(t, database.Database.Db.First(&decided, enrollment.ID).Error)
	assert.Equal(t, courseModels.EnrollmentApproved, decided.Status)
	assert.NotNil(t, decided.ApprovedAt)

	// Approval put the learner on the roster exactly once
	assert.EqualValues(t, 1, rosterCount(t, course.ID, learner.ID))

	// Approved is terminal
	code, _ = testutil.DoJSON(t, app, http.MethodPut, statusPath, testutil.Token(t, tutorA), map[string]string{
		"status": "rejected",
	})
	assert.Equal(t, http.StatusConflict, code)
	assert.EqualValues(t, 1, rosterCount(t, course.ID, learner.ID))
}

func TestEnrollmentRejectionHasNoRosterEffect(t *testing.T) {
	testutil.PrepareDB(t)
	app := testutil.NewApp()

	tutor := testutil.CreateUser(t, "Tutor", "tutor@example.com", "secret1", models.RoleTutor, models.StatusApproved)
	learner := testutil.CreateUser(t, "Learner", "learner@example.com", "secret1", models.RoleLearner, models.StatusApproved)
	course := testutil.CreateCourse(t, tutor.ID, "Algebra", true)

	code, envelope := testutil.DoJSON(t, app, http.MethodPost, "/enrollments", testutil.Token(t, learner), map[string]uint{
		"courseId": course.ID,
	})
	require.Equal(t, http.StatusCreated, code)

	var enrollment courseModels.Enrollment
	testutil.UnmarshalData(t, envelope, &enrollment)

	code, _ = testutil.DoJSON(t, app, http.MethodPut, fmt.Sprintf("/enrollments/%d/status", enrollment.ID), testutil.Token(t, tutor), map[string]string{
		"status": "rejected",
	})
	require.Equal(t, http.StatusOK, code)

	var decided courseModels.Enrollment
	require.NoError(t, database.Database.Db.First(&decided, enrollment.ID).Error)
	assert.Equal(t, courseModels.EnrollmentRejected, decided.Status)
	assert.Nil(t, decided.ApprovedAt)
	assert.EqualValues(t, 0, rosterCount(t, course.ID, learner.ID))
}

func TestEnrollmentStatusValidation(t *testing.T) {
	testutil.PrepareDB(t)
	app := testutil.NewApp()

	tutor := testutil.CreateUser(t, "Tutor", "tutor@example.com", "secret1", models.RoleTutor, models.StatusApproved)
	token := testutil.Token(t, tutor)

	// Enum is checked before anything else
	code, _ := testutil.DoJSON(t, app, http.MethodPut, "/enrollments/1/status", token, map[string]string{
		"status": "pending",
	})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = testutil.DoJSON(t, app, http.MethodPut, "/enrollments/1/status", token, map[string]string{
		"status": "banana",
	})
	assert.Equal(t, http.StatusBadRequest, code)

	// Valid status, missing enrollment
	code, _ = testutil.DoJSON(t, app, http.MethodPut, "/enrollments/9999/status", token, map[string]string{
		"status": "approved",
	})
	assert.Equal(t, http.StatusNotFound, code)
}

func TestEnrollmentAdminBypassesOwnership(t *testing.T) {
	testutil.PrepareDB(t)
	app := testutil.NewApp()

	tutor := testutil.CreateUser(t, "Tutor", "tutor@example.com", "secret1", models.RoleTutor, models.StatusApproved)
	admin := testutil.CreateUser(t, "Admin", "admin@example.com", "secret1", models.RoleAdmin, models.StatusApproved)
	learner := testutil.CreateUser(t, "Learner", "learner@example.com", "secret1", models.RoleLearner, models.StatusApproved)
	course := testutil.CreateCourse(t, tutor.ID, "Algebra", true)

	code, envelope := testutil.DoJSON(t, app, http.MethodPost, "/enrollments", testutil.Token(t, learner), map[string]uint{
		"courseId": course.ID,
	})
	require.Equal(t, http.StatusCreated, code)

	var enrollment courseModels.Enrollment
	testutil.UnmarshalData(t, envelope, &enrollment)

	code, _ = testutil.DoJSON(t, app, http.MethodPut, fmt.Sprintf("/enrollments/%d/status", enrollment.ID), testutil.Token(t, admin), map[string]string{
		"status": "approved",
	})
	assert.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, rosterCount(t, course.ID, learner.ID))
}

func TestEnrollmentListingsAreRoleScoped(t *testing.T) {
	testutil.PrepareDB(t)
	app := testutil.NewApp()

	tutorA := testutil.CreateUser(t, "Tutor A", "a@example.com", "secret1", models.RoleTutor, models.StatusApproved)
	tutorB := testutil.CreateUser(t, "Tutor B", "b@example.com", "secret1", models.RoleTutor, models.StatusApproved)
	admin := testutil.CreateUser(t, "Admin", "admin@example.com", "secret1", models.RoleAdmin, models.StatusApproved)
	learner1 := testutil.CreateUser(t, "Learner 1", "l1@example.com", "secret1", models.RoleLearner, models.StatusApproved)
	learner2 := testutil.CreateUser(t, "Learner 2", "l2@example.com", "secret1", models.RoleLearner, models.StatusApproved)

	courseA := testutil.CreateCourse(t, tutorA.ID, "Course A", true)
	courseB := testutil.CreateCourse(t, tutorB.ID, "Course B", true)

	for _, req := range []struct {
		learner models.User
		course  courseModels.Course
	}{
		{learner1, courseA},
		{learner1, courseB},
		{learner2, courseB},
	} {
		code, _ := testutil.DoJSON(t, app, http.MethodPost, "/enrollments", testutil.Token(t, req.learner), map[string]uint{
			"courseId": req.course.ID,
		})
		require.Equal(t, http.StatusCreated, code)
	}

	// Learner sees only their own
	code, envelope := testutil.DoJSON(t, app, http.MethodGet, "/enrollments/learner", testutil.Token(t, learner1), nil)
	require.Equal(t, http.StatusOK, code)
	var mine []courseModels.Enrollment
	testutil.UnmarshalData(t, envelope, &mine)
	assert.Len(t, mine, 2)
	for _, enrollment := range mine {
		assert.Equal(t, learner1.ID, enrollment.LearnerID)
	}

	// Tutor sees only enrollments for their courses
	code, envelope = testutil.DoJSON(t, app, http.MethodGet, "/enrollments/tutor", testutil.Token(t, tutorB), nil)
	require.Equal(t, http.StatusOK, code)
	var theirs []courseModels.Enrollment
	testutil.UnmarshalData(t, envelope, &theirs)
	assert.Len(t, theirs, 2)
	for _, enrollment := range theirs {
		assert.Equal(t, courseB.ID, enrollment.CourseID)
	}

	// Admin sees all, optionally filtered by status
	code, envelope = testutil.DoJSON(t, app, http.MethodGet, "/enrollments/admin", testutil.Token(t, admin), nil)
	require.Equal(t, http.StatusOK, code)
	var all []courseModels.Enrollment
	testutil.UnmarshalData(t, envelope, &all)
	assert.Len(t, all, 3)

	code, envelope = testutil.DoJSON(t, app, http.MethodGet, "/enrollments/admin?status=approved", testutil.Token(t, admin), nil)
	require.Equal(t, http.StatusOK, code)
	var approved []courseModels.Enrollment
	testutil.UnmarshalData(t, envelope, &approved)
	assert.Len(t, approved, 0)
}

func TestGetEnrollmentVisibility(t *testing.T) {
	testutil.PrepareDB(t)
	app := testutil.NewApp()

	tutor := testutil.CreateUser(t, "Tutor", "tutor@example.com", "secret1", models.RoleTutor, models.StatusApproved)
	stranger := testutil.CreateUser(t, "Stranger", "stranger@example.com", "secret1", models.RoleLearner, models.StatusApproved)
	admin := testutil.CreateUser(t, "Admin", "admin@example.com", "secret1", models.RoleAdmin, models.StatusApproved)
	learner := testutil.CreateUser(t, "Learner", "learner@example.com", "secret1", models.RoleLearner, models.StatusApproved)
	course := testutil.CreateCourse(t, tutor.ID, "Algebra", true)

	code, envelope := testutil.DoJSON(t, app, http.MethodPost, "/enrollments", testutil.Token(t, learner), map[string]uint{
		"courseId": course.ID,
	})
	require.Equal(t, http.StatusCreated, code)

	var enrollment courseModels.Enrollment
	testutil.UnmarshalData(t, envelope, &enrollment)
	path := fmt.Sprintf("/enrollments/%d", enrollment.ID)

	for name, tt := range map[string]struct {
		actor    models.User
		wantCode int
	}{
		"learner":      {learner, http.StatusOK},
		"owning tutor": {tutor, http.StatusOK},
		"admin":        {admin, http.StatusOK},
		"stranger":     {stranger, http.StatusForbidden},
	} {
		code, _ := testutil.DoJSON(t, app, http.MethodGet, path, testutil.Token(t, tt.actor), nil)
		assert.Equal(t, tt.wantCode, code, name)
	}
}
