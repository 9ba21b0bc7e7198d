package authController_test

import (
	"net/http"
	"testing"
	"time"

	"smartmind/database"
	"smartmind/models"
	"smartmind/testutil"
	"smartmind/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAlwaysPending(t *testing.T) {
	testutil.PrepareDB(t)
	app := testutil.NewApp()

	tests := []struct {
		name          string
		requestedRole string
		wantRole      string
	}{
		{"learner", "learner", "learner"},
		{"tutor", "tutor", "tutor"},
		{"admin downgrades", "admin", "learner"},
		{"garbage downgrades", "superuser", "learner"},
		{"empty downgrades", "", "learner"},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			email := string(rune('a'+i)) + "@example.com"
			code, envelope := testutil.DoJSON(t, app, http.MethodPost, "/auth/register", "", map[string]string{
				"name":     "Test User",
				"email":    email,
				"password": "secret1",
				"role":     tt.requestedRole,
			})
			require.Equal(t, http.StatusCreated, code, envelope.Message)

			var user models.User
			require.NoError(t, database.Database.Db.Where("email = ?", email).First(&user).Error)
			assert.Equal(t, tt.wantRole, user.Role)
			assert.Equal(t, models.StatusPending, user.Status)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	testutil.PrepareDB(t)
	app := testutil.NewApp()

	testutil.CreateUser(t, "Existing", "dup@example.com", "secret1", models.RoleLearner, models.StatusApproved)

	code, _ := testutil.DoJSON(t, app, http.MethodPost, "/auth/register", "", map[string]string{
		"name":     "Second",
		"email":    "dup@example.com",
		"password": "secret1",
	})
	assert.Equal(t, http.StatusConflict, code)

	var count int64
	database.Database.Db.Model(&models.User{}).Where("email = ?", "dup@example.com").Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestRegisterValidation(t *testing.T) {
	testutil.PrepareDB(t)
	app := testutil.NewApp()

	code, _ := testutil.DoJSON(t, app, http.MethodPost, "/auth/register", "", map[string]string{
		"name":     "X",
		"email":    "not-an-email",
		"password": "short",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
}

func TestLoginCredentialFailuresIndistinguishable(t *testing.T) {
	testutil.PrepareDB(t)
	app := testutil.NewApp()

	testutil.CreateUser(t, "Known", "known@example.com", "correct-pwd", models.RoleLearner, models.StatusApproved)

	unknownCode, unknownEnv := testutil.DoJSON(t, app, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "nobody@example.com",
		"password": "whatever1",
	})
	wrongCode, wrongEnv := testutil.DoJSON(t, app, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "known@example.com",
		"password": "wrong-pwd",
	})

	// Unknown email and wrong password must be observably identical
	assert.Equal(t, http.StatusUnauthorized, unknownCode)
	assert.Equal(t, unknownCode, wrongCode)
	assert.Equal(t, unknownEnv.Message, wrongEnv.Message)
}

func TestLoginNotApproved(t *testing.T) {
	testutil.PrepareDB(t)
	app := testutil.NewApp()

	for _, status := range []string{models.StatusPending, models.StatusRejected} {
		email := status + "@example.com"
		testutil.CreateUser(t, "User", email, "correct-pwd", models.RoleTutor, status)

		code, envelope := testutil.DoJSON(t, app, http.MethodPost, "/auth/login", "", map[string]string{
			"email":    email,
			"password": "correct-pwd",
		})
		assert.Equal(t, http.StatusForbidden, code)
		assert.Contains(t, envelope.Message, status)
	}
}

func TestLoginSuccess(t *testing.T) {
	testutil.PrepareDB(t)
	app := testutil.NewApp()

	testutil.CreateUser(t, "Approved", "ok@example.com", "correct-pwd", models.RoleTutor, models.StatusApproved)

	code, envelope := testutil.DoJSON(t, app, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "ok@example.com",
		"password": "correct-pwd",
	})
	require.Equal(t, http.StatusOK, code)

	var data struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	testutil.UnmarshalData(t, envelope, &data)
	assert.NotEmpty(t, data.Token)
	assert.Equal(t, "ok@example.com", data.User.Email)
}

func TestMe(t *testing.T) {
	testutil.PrepareDB(t)
	app := testutil.NewApp()

	user := testutil.CreateUser(t, "Me", "me@example.com", "secret1", models.RoleLearner, models.StatusApproved)
	token := testutil.Token(t, user)

	code, envelope := testutil.DoJSON(t, app, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, code)

	var got models.User
	testutil.UnmarshalData(t, envelope, &got)
	assert.Equal(t, user.ID, got.ID)
}

func TestForgotPasswordAntiEnumeration(t *testing.T) {
	testutil.PrepareDB(t)
	app := testutil.NewApp()

	testutil.CreateUser(t, "User", "real@example.com", "secret1", models.RoleLearner, models.StatusApproved)

	realCode, realEnv := testutil.DoJSON(t, app, http.MethodPost, "/auth/forgot-password", "", map[string]string{
		"email": "real@example.com",
	})
	fakeCode, fakeEnv := testutil.DoJSON(t, app, http.MethodPost, "/auth/forgot-password", "", map[string]string{
		"email": "fake@example.com",
	})

	assert.Equal(t, http.StatusOK, realCode)
	assert.Equal(t, realCode, fakeCode)
	assert.Equal(t, realEnv.Message, fakeEnv.Message)

	// Only the hash lands on the record
	var user models.User
	require.NoError(t, database.Database.Db.Where("email = ?", "real@example.com").First(&user).Error)
	assert.Len(t, user.ResetCode, 64)
	require.NotNil(t, user.ResetCodeExpiry)
	assert.WithinDuration(t, time.Now().Add(utils.ResetCodeTTL), *user.ResetCodeExpiry, time.Minute)
}

func setResetCode(t *testing.T, email, code string, expiry time.Time) {
	t.Helper()
	err := database.Database.Db.Model(&models.User{}).Where("email = ?", email).Updates(map[string]interface{}{
		"reset_code":        utils.HashResetCode(code),
		"reset_code_expiry": expiry,
	}).Error
	require.NoError(t, err)
}

func TestVerifyResetCode(t *testing.T) {
	testutil.PrepareDB(t)
	app := testutil.NewApp()

	testutil.CreateUser(t, "User", "reset@example.com", "secret1", models.RoleLearner, models.StatusApproved)
	setResetCode(t, "reset@example.com", "123456", time.Now().Add(utils.ResetCodeTTL))

	// Wrong code
	code, _ := testutil.DoJSON(t, app, http.MethodPost, "/auth/verify-reset-code", "", map[string]string{
		"email": "reset@example.com",
		"code":  "654321",
	})
	assert.Equal(t, http.StatusBadRequest, code)

	// Right code
	code, _ = testutil.DoJSON(t, app, http.MethodPost, "/auth/verify-reset-code", "", map[string]string{
		"email": "reset@example.com",
		"code":  "123456",
	})
	assert.Equal(t, http.StatusOK, code)
}

func TestVerifyResetCodeExpiredIsCleared(t *testing.T) {
	testutil.PrepareDB(t)
	app := testutil.NewApp()

	testutil.CreateUser(t, "User", "expired@example.com", "secret1", models.RoleLearner, models.StatusApproved)
	setResetCode(t, "expired@example.com", "123456", time.Now().Add(-time.Minute))

	code, _ := testutil.DoJSON(t, app, http.MethodPost, "/auth/verify-reset-code", "", map[string]string{
		"email": "expired@example.com",
		"code":  "123456",
	})
	assert.Equal(t, http.StatusBadRequest, code)

	// Expired code is cleared on detection
	var user models.User
	require.NoError(t, database.Database.Db.Where("email = ?", "expired@example.com").First(&user).Error)
	assert.Empty(t, user.ResetCode)
	assert.Nil(t, user.ResetCodeExpiry)
}

func TestResetPassword(t *testing.T) {
	testutil.PrepareDB(t)
	app := testutil.NewApp()

	testutil.CreateUser(t, "User", "flow@example.com", "old-password", models.RoleLearner, models.StatusApproved)
	setResetCode(t, "flow@example.com", "123456", time.Now().Add(utils.ResetCodeTTL))

	code, _ := testutil.DoJSON(t, app, http.MethodPost, "/auth/reset-password", "", map[string]string{
		"email":       "flow@example.com",
		"code":        "123456",
		"newPassword": "new-password",
	})
	require.Equal(t, http.StatusOK, code)

	// Reset fields cleared after use
	var user models.User
	require.NoError(t, database.Database.Db.Where("email = ?", "flow@example.com").First(&user).Error)
	assert.Empty(t, user.ResetCode)
	assert.Nil(t, user.ResetCodeExpiry)

	// Old password no longer works, new one does
	code, _ = testutil.DoJSON(t, app, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "flow@example.com",
		"password": "old-password",
	})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = testutil.DoJSON(t, app, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "flow@example.com",
		"password": "new-password",
	})
	assert.Equal(t, http.StatusOK, code)

	// The consumed code cannot be replayed
	code, _ = testutil.DoJSON(t, app, http.MethodPost, "/auth/reset-password", "", map[string]string{
		"email":       "flow@example.com",
		"code":        "123456",
		"newPassword": "another-pwd",
	})
	assert.Equal(t, http.StatusBadRequest, code)
}
