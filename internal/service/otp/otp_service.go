// internal/service/otp/otp_service.go
package otp

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"net/mail"
	"time"

	"resellerpro-service/internal/domain/otp"
	xerrors "resellerpro-service/internal/pkg/errors"

	"go.uber.org/zap"
)

// CodeStore is the persistence port for one-time codes.
type CodeStore interface {
	Create(ctx context.Context, code *otp.OneTimeCode) error
	ExistsCreatedSince(ctx context.Context, email string, cutoff time.Time) (bool, error)
	Consume(ctx context.Context, email, codeHash string, now time.Time) (bool, error)
}

// Notifier delivers a plaintext code to an address. Failure is a
// returned value, never a panic, so the service can apply its
// environment policy.
type Notifier interface {
	SendOneTimeCode(ctx context.Context, email, code string) error
}

// Service issues and verifies short-lived, single-use numeric codes
// per email. Codes are stored hashed; a fast digest is deliberate
// here: the 6-digit space is protected by the 5-minute expiry, the
// single-use flip and the send cooldown, not by hash cost.
type Service struct {
	codes      CodeStore
	notifier   Notifier
	production bool
	logger     *zap.Logger
	now        func() time.Time
}

func NewService(codes CodeStore, notifier Notifier, production bool, logger *zap.Logger) *Service {
	return &Service{
		codes:      codes,
		notifier:   notifier,
		production: production,
		logger:     logger,
		now:        time.Now,
	}
}

// SendOtp generates, stores and delivers a fresh code for the email.
// A hard cooldown applies: any code created for the email within the
// last 5 minutes blocks a new one, regardless of its verified or
// expired state.
func (s *Service) SendOtp(ctx context.Context, email string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("%w: malformed email", xerrors.ErrInvalidInput)
	}

	now := s.now()

	recent, err := s.codes.ExistsCreatedSince(ctx, email, now.Add(-otp.SendCooldown))
	if err != nil {
		return fmt.Errorf("failed to check cooldown: %w", err)
	}
	if recent {
		return xerrors.ErrRateLimited
	}

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}

	record := &otp.OneTimeCode{
		Email:     email,
		CodeHash:  hashCode(code),
		ExpiresAt: now.Add(otp.CodeTTL),
		Verified:  false,
		CreatedAt: now,
	}

	if err := s.codes.Create(ctx, record); err != nil {
		return fmt.Errorf("failed to store code: %w", err)
	}

	if err := s.notifier.SendOneTimeCode(ctx, email, code); err != nil {
		if s.production {
			s.logger.Error("one-time code delivery failed",
				zap.String("email", email),
				zap.Error(err),
			)
			return fmt.Errorf("%w: %s", xerrors.ErrDeliveryFailed, err)
		}
		// Outside production a dead mail transport must not block the
		// flow; the stored code stays usable.
		s.logger.Warn("one-time code delivery failed, continuing (non-production)",
			zap.String("email", email),
			zap.Error(err),
		)
	}

	s.logger.Info("one-time code issued",
		zap.String("email", email),
		zap.Time("expires_at", record.ExpiresAt),
	)

	return nil
}

// VerifyOtp checks a submitted code and consumes it on success. A
// wrong, expired or already-used code all come back as plain false;
// the caller can never tell which it was.
func (s *Service) VerifyOtp(ctx context.Context, email, code string) (bool, error) {
	if !validCodeShape(code) {
		return false, nil
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return false, nil
	}

	ok, err := s.codes.Consume(ctx, email, hashCode(code), s.now())
	if err != nil {
		return false, fmt.Errorf("failed to verify code: %w", err)
	}

	if ok {
		s.logger.Info("one-time code verified", zap.String("email", email))
	}

	return ok, nil
}

// generateCode draws a uniformly random 6-digit code (100000-999999)
// from crypto/rand.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

func hashCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

func validCodeShape(code string) bool {
	if len(code) != otp.CodeDigits {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
