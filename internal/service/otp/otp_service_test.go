// internal/service/otp/otp_service_test.go
package otp

import (
	"context"
	"errors"
	"testing"
	"time"

	"resellerpro-service/internal/domain/otp"
	xerrors "resellerpro-service/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeCodeStore mirrors the SQL semantics of the real repository:
// Consume flips the first live matching row and reports whether one
// was flipped.
type fakeCodeStore struct {
	codes        []*otp.OneTimeCode
	nextID       int64
	consumeCalls int
}

func (f *fakeCodeStore) Create(ctx context.Context, code *otp.OneTimeCode) error {
	f.nextID++
	code.ID = f.nextID
	f.codes = append(f.codes, code)
	return nil
}

func (f *fakeCodeStore) ExistsCreatedSince(ctx context.Context, email string, cutoff time.Time) (bool, error) {
	for _, c := range f.codes {
		if c.Email == email && c.CreatedAt.After(cutoff) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCodeStore) Consume(ctx context.Context, email, codeHash string, now time.Time) (bool, error) {
	f.consumeCalls++
	for _, c := range f.codes {
		if c.Email == email && c.CodeHash == codeHash && !c.Verified && c.ExpiresAt.After(now) {
			c.Verified = true
			return true, nil
		}
	}
	return false, nil
}

// fakeNotifier captures the plaintext code handed to delivery.
type fakeNotifier struct {
	sent []string
	err  error
}

func (f *fakeNotifier) SendOneTimeCode(ctx context.Context, email, code string) error {
	f.sent = append(f.sent, code)
	return f.err
}

func newTestService(t *testing.T, production bool) (*Service, *fakeCodeStore, *fakeNotifier, *time.Time) {
	t.Helper()

	store := &fakeCodeStore{}
	notifier := &fakeNotifier{}
	svc := NewService(store, notifier, production, zap.NewNop())

	current := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return current }

	return svc, store, notifier, &current
}

func TestSendOtpStoresHashedCode(t *testing.T) {
	svc, store, notifier, _ := newTestService(t, false)
	ctx := context.Background()

	require.NoError(t, svc.SendOtp(ctx, "agent@example.com"))

	require.Len(t, notifier.sent, 1)
	require.Len(t, store.codes, 1)

	plaintext := notifier.sent[0]
	record := store.codes[0]

	assert.Len(t, plaintext, otp.CodeDigits)
	assert.NotEqual(t, plaintext, record.CodeHash)
	assert.Equal(t, hashCode(plaintext), record.CodeHash)
	assert.Equal(t, record.CreatedAt.Add(otp.CodeTTL), record.ExpiresAt)
	assert.False(t, record.Verified)
}

func TestSendOtpRejectsMalformedEmail(t *testing.T) {
	svc, store, _, _ := newTestService(t, false)

	err := svc.SendOtp(context.Background(), "not-an-email")

	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
	assert.Empty(t, store.codes)
}

func TestSendOtpCooldown(t *testing.T) {
	svc, _, notifier, clock := newTestService(t, false)
	ctx := context.Background()
	start := *clock

	require.NoError(t, svc.SendOtp(ctx, "agent@example.com"))

	// Within the window the second request is refused, even though the
	// first code is still unverified.
	*clock = start.Add(4 * time.Minute)
	assert.ErrorIs(t, svc.SendOtp(ctx, "agent@example.com"), xerrors.ErrRateLimited)

	// A different address is unaffected.
	require.NoError(t, svc.SendOtp(ctx, "other@example.com"))

	// Past the window the original address can request again.
	*clock = start.Add(5*time.Minute + time.Second)
	require.NoError(t, svc.SendOtp(ctx, "agent@example.com"))

	assert.Len(t, notifier.sent, 3)
}

func TestSendOtpCooldownHoldsAfterVerification(t *testing.T) {
	svc, _, notifier, clock := newTestService(t, false)
	ctx := context.Background()
	start := *clock

	require.NoError(t, svc.SendOtp(ctx, "agent@example.com"))

	ok, err := svc.VerifyOtp(ctx, "agent@example.com", notifier.sent[0])
	require.NoError(t, err)
	require.True(t, ok)

	// Consuming the code does not release the send cooldown.
	*clock = start.Add(time.Minute)
	assert.ErrorIs(t, svc.SendOtp(ctx, "agent@example.com"), xerrors.ErrRateLimited)
}

func TestVerifyOtpSingleUse(t *testing.T) {
	svc, _, notifier, clock := newTestService(t, false)
	ctx := context.Background()
	start := *clock

	require.NoError(t, svc.SendOtp(ctx, "agent@example.com"))
	code := notifier.sent[0]

	// Wrong guess first; does not burn the stored code.
	*clock = start.Add(10 * time.Second)
	ok, err := svc.VerifyOtp(ctx, "agent@example.com", "000000")
	require.NoError(t, err)
	assert.False(t, ok)

	// Correct code succeeds.
	*clock = start.Add(30 * time.Second)
	ok, err = svc.VerifyOtp(ctx, "agent@example.com", code)
	require.NoError(t, err)
	assert.True(t, ok)

	// Replay of the consumed code fails exactly like a wrong code.
	*clock = start.Add(40 * time.Second)
	ok, err = svc.VerifyOtp(ctx, "agent@example.com", code)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyOtpExpiredCode(t *testing.T) {
	svc, _, notifier, clock := newTestService(t, false)
	ctx := context.Background()
	start := *clock

	require.NoError(t, svc.SendOtp(ctx, "agent@example.com"))

	*clock = start.Add(otp.CodeTTL + time.Second)
	ok, err := svc.VerifyOtp(ctx, "agent@example.com", notifier.sent[0])
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyOtpRejectsBadShapeWithoutStoreHit(t *testing.T) {
	svc, store, _, _ := newTestService(t, false)
	ctx := context.Background()

	for _, code := range []string{"", "12345", "1234567", "12a456", "12 456"} {
		ok, err := svc.VerifyOtp(ctx, "agent@example.com", code)
		require.NoError(t, err)
		assert.False(t, ok, code)
	}

	assert.Zero(t, store.consumeCalls)
}

func TestVerifyOtpWrongEmail(t *testing.T) {
	svc, _, notifier, _ := newTestService(t, false)
	ctx := context.Background()

	require.NoError(t, svc.SendOtp(ctx, "agent@example.com"))

	ok, err := svc.VerifyOtp(ctx, "other@example.com", notifier.sent[0])
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSendOtpDeliveryFailureInProduction(t *testing.T) {
	svc, store, notifier, _ := newTestService(t, true)
	notifier.err = errors.New("smtp: connection refused")

	err := svc.SendOtp(context.Background(), "agent@example.com")

	assert.ErrorIs(t, err, xerrors.ErrDeliveryFailed)
	// The code row is written before delivery is attempted.
	assert.Len(t, store.codes, 1)
}

func TestSendOtpDeliveryFailureOutsideProduction(t *testing.T) {
	svc, _, notifier, _ := newTestService(t, false)
	notifier.err = errors.New("smtp: connection refused")
	ctx := context.Background()

	// Soft success: the stored code stays verifiable.
	require.NoError(t, svc.SendOtp(ctx, "agent@example.com"))

	ok, err := svc.VerifyOtp(ctx, "agent@example.com", notifier.sent[0])
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestGenerateCodeShape(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := generateCode()
		require.NoError(t, err)
		assert.True(t, validCodeShape(code), code)
	}
}
