package utils

import (
	"log"
	"time"

	"smartmind/database"
	"smartmind/models"

	"github.com/robfig/cron/v3"
)

// logScheduler logs scheduler events with timestamp
func logScheduler(message string) {
	log.Printf("[CLEANUP-SCHEDULER %s] %s", time.Now().Format(time.RFC3339), message)
}

// ClearExpiredResetCodes nulls out reset codes whose expiry has passed.
// Verification also clears expired codes on detection; this sweep keeps
// stale hashes from lingering on records nobody touches again.
func ClearExpiredResetCodes() {
	result := database.Database.Db.
		Model(&models.User{}).
		Where("reset_code <> '' AND reset_code_expiry IS NOT NULL AND reset_code_expiry <= ?", time.Now()).
		Updates(map[string]interface{}{
			"reset_code":        "",
			"reset_code_expiry": nil,
		})
	if result.Error != nil {
		logScheduler("Error clearing expired reset codes: " + result.Error.Error())
		return
	}
	if result.RowsAffected > 0 {
		logScheduler("Cleared expired reset codes")
	}
}

// StartCleanupScheduler runs the reset-code sweep every 10 minutes
func StartCleanupScheduler() *cron.Cron {
	c := cron.New()
	if _, err := c.AddFunc("*/10 * * * *", ClearExpiredResetCodes); err != nil {
		log.Fatalf("Failed to register cleanup job: %v", err)
	}
	c.Start()
	logScheduler("Cleanup scheduler started")
	return c
}
