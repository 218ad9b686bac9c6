// internal/domain/otp/entity.go
package otp

import "time"

// Purpose says why a code was requested. It only affects what the
// caller does after a successful verify, never how the code itself is
// issued or checked.
type Purpose string

const (
	PurposeLogin       Purpose = "login"
	PurposeVerifyEmail Purpose = "verify_email"
)

// Validity and cooldown windows for one-time codes.
const (
	CodeTTL      = 5 * time.Minute
	SendCooldown = 5 * time.Minute
	CodeDigits   = 6
)

// OneTimeCode is a stored, hashed one-time passcode. The plaintext
// code is never persisted; only its hash is.
type OneTimeCode struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	CodeHash  string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the code is past its validity window.
func (c *OneTimeCode) Expired(now time.Time) bool {
	return !c.ExpiresAt.After(now)
}
