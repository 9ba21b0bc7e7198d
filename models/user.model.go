package models

import (
	"time"

	"gorm.io/gorm"
)

// Roles. Fixed at registration; self-registration is limited to TUTOR and LEARNER.
const (
	RoleAdmin   = "admin"
	RoleTutor   = "tutor"
	RoleLearner = "learner"
)

// Account approval statuses. Every account starts PENDING and an admin
// moves it to APPROVED or REJECTED. Login is gated on APPROVED.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

type User struct {
	gorm.Model
	Name     string `json:"name" gorm:"default:''"`
	Email    string `json:"email" gorm:"unique;not null"`
	Password string `json:"-" gorm:"not null"`
	Role     string `json:"role" gorm:"default:'learner'"`
	Status   string `json:"status" gorm:"default:'pending'"`

	Avatar string `json:"avatar" gorm:"default:''"`
	Bio    string `json:"bio" gorm:"default:''"`
	Phone  string `json:"phone" gorm:"default:''"`

	// Password reset: only the sha256 hash of the 6-digit code is stored.
	// Both fields are cleared after use or expiry.
	ResetCode       string     `json:"-" gorm:"default:''"`
	ResetCodeExpiry *time.Time `json:"-"`

	IsDeleted bool `json:"-" gorm:"default:false"`
}

// ValidRegistrationRole reports whether a requested role may be picked at
// signup. Anything else (including "admin") downgrades to learner.
func ValidRegistrationRole(role string) bool {
	return role == RoleTutor || role == RoleLearner
}

// ValidDecision reports whether a status is a valid admin/tutor decision
// for users and enrollments.
func ValidDecision(status string) bool {
	return status == StatusApproved || status == StatusRejected
}
