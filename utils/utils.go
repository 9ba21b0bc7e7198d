package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/rand"
	"time"
)

// ResetCodeTTL is how long a password reset code stays valid.
const ResetCodeTTL = 30 * time.Minute

// GenerateResetCode generates a 6-digit password reset code
func GenerateResetCode() string {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	code := ""
	for i := 0; i < 6; i++ {
		code += fmt.Sprintf("%d", rng.Intn(10))
	}
	return code
}

// HashResetCode returns the hex sha256 of a reset code. Only the hash is
// ever stored on the user record.
func HashResetCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}
