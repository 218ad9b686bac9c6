// internal/pkg/ratelimit/redis_limiter.go
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter throttles abuse at the HTTP boundary. The 5-minute send
// cooldown per email is enforced from the one_time_codes table by the
// OTP service; these counters only blunt brute force and scripted
// traffic before it reaches the store.
type Limiter struct {
	client *redis.Client
}

func NewLimiter(client *redis.Client) *Limiter {
	return &Limiter{client: client}
}

// CheckSendAttempt checks the per-IP throttle on code requests.
func (r *Limiter) CheckSendAttempt(ctx context.Context, ip string) (bool, error) {
	key := fmt.Sprintf("ratelimit:otp_send:%s", ip)

	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment send attempt: %w", err)
	}

	// Set expiration on first attempt
	if count == 1 {
		r.client.Expire(ctx, key, 15*time.Minute)
	}

	// Allow up to 10 code requests per IP per 15 minutes
	return count <= 10, nil
}

// CheckVerifyAttempt checks the per-email throttle on verification.
func (r *Limiter) CheckVerifyAttempt(ctx context.Context, email string) (bool, error) {
	key := fmt.Sprintf("ratelimit:otp_verify:%s", email)

	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment verify attempt: %w", err)
	}

	// Set expiration on first attempt
	if count == 1 {
		r.client.Expire(ctx, key, 10*time.Minute)
	}

	// Allow up to 5 verification attempts per 10 minutes
	return count <= 5, nil
}

// ResetVerifyAttempts clears the verification counter after success.
func (r *Limiter) ResetVerifyAttempts(ctx context.Context, email string) error {
	key := fmt.Sprintf("ratelimit:otp_verify:%s", email)
	return r.client.Del(ctx, key).Err()
}
