// internal/handlers/otp/otp_handler.go
package otp

import (
	"context"
	"net/http"

	otpdomain "resellerpro-service/internal/domain/otp"
	xerrors "resellerpro-service/internal/pkg/errors"
	"resellerpro-service/internal/pkg/response"
	otpservice "resellerpro-service/internal/service/otp"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserDirectory resolves dashboard users for the post-verification
// steps: token issuance on login and the verified flag on
// email-verification.
type UserDirectory interface {
	FindIDByEmail(ctx context.Context, email string) (int64, error)
	MarkEmailVerified(ctx context.Context, email string) error
}

// AttemptLimiter throttles abusive traffic before it reaches the
// store-backed cooldown.
type AttemptLimiter interface {
	CheckSendAttempt(ctx context.Context, ip string) (bool, error)
	CheckVerifyAttempt(ctx context.Context, email string) (bool, error)
	ResetVerifyAttempts(ctx context.Context, email string) error
}

// TokenIssuer signs an access token for a verified user.
type TokenIssuer interface {
	GenerateAccessToken(userID int64, email string) (string, string, error)
}

type OtpHandler struct {
	otpService *otpservice.Service
	users      UserDirectory
	limiter    AttemptLimiter
	tokens     TokenIssuer
	tokenTTL   int // seconds, echoed in the login response
	logger     *zap.Logger
}

func NewOtpHandler(otpService *otpservice.Service, users UserDirectory, limiter AttemptLimiter, tokens TokenIssuer, tokenTTL int, logger *zap.Logger) *OtpHandler {
	return &OtpHandler{
		otpService: otpService,
		users:      users,
		limiter:    limiter,
		tokens:     tokens,
		tokenTTL:   tokenTTL,
		logger:     logger,
	}
}

// SendOtp handles a code request (public endpoint)
func (h *OtpHandler) SendOtp(c *gin.Context) {
	var req otpdomain.SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	allowed, err := h.limiter.CheckSendAttempt(c.Request.Context(), c.ClientIP())
	if err != nil {
		h.logger.Error("send throttle check failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "could not process request", nil)
		return
	}
	if !allowed {
		response.TooManyRequests(c, "too many code requests, try again later")
		return
	}

	if err := h.otpService.SendOtp(c.Request.Context(), req.Email); err != nil {
		switch {
		case xerrors.Is(err, xerrors.ErrRateLimited):
			response.TooManyRequests(c, "a code was sent recently, wait before requesting another")
		case xerrors.Is(err, xerrors.ErrInvalidInput):
			response.ValidationError(c, "invalid email address", nil)
		case xerrors.Is(err, xerrors.ErrDeliveryFailed):
			h.logger.Error("code delivery failed", zap.String("email", req.Email), zap.Error(err))
			response.Error(c, http.StatusBadGateway, "could not deliver code", nil)
		default:
			h.logger.Error("send otp failed", zap.String("email", req.Email), zap.Error(err))
			response.Error(c, http.StatusInternalServerError, "could not process request", nil)
		}
		return
	}

	response.Success(c, http.StatusOK, "verification code sent", nil)
}

// VerifyOtp handles code verification (public endpoint). For
// login-purpose verifications a successful check also issues an
// access token.
func (h *OtpHandler) VerifyOtp(c *gin.Context) {
	var req otpdomain.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}
	if req.Purpose == "" {
		req.Purpose = otpdomain.PurposeLogin
	}

	allowed, err := h.limiter.CheckVerifyAttempt(c.Request.Context(), req.Email)
	if err != nil {
		h.logger.Error("verify throttle check failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "could not process request", nil)
		return
	}
	if !allowed {
		response.TooManyRequests(c, "too many verification attempts, request a new code later")
		return
	}

	ok, err := h.otpService.VerifyOtp(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		h.logger.Error("verify otp failed", zap.String("email", req.Email), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "could not process request", nil)
		return
	}
	if !ok {
		// Wrong, expired and replayed codes are indistinguishable here
		// on purpose.
		response.Unauthorized(c, "invalid or expired code")
		return
	}

	if err := h.limiter.ResetVerifyAttempts(c.Request.Context(), req.Email); err != nil {
		h.logger.Warn("failed to reset verify attempts", zap.Error(err))
	}

	switch req.Purpose {
	case otpdomain.PurposeVerifyEmail:
		if err := h.users.MarkEmailVerified(c.Request.Context(), req.Email); err != nil {
			h.logger.Error("failed to mark email verified", zap.String("email", req.Email), zap.Error(err))
			response.Error(c, http.StatusInternalServerError, "could not complete verification", nil)
			return
		}
		response.Success(c, http.StatusOK, "email verified", otpdomain.VerifyResponse{Verified: true})

	default: // login
		userID, err := h.users.FindIDByEmail(c.Request.Context(), req.Email)
		if err != nil {
			h.logger.Error("no user for verified email", zap.String("email", req.Email), zap.Error(err))
			response.Unauthorized(c, "invalid credentials")
			return
		}

		token, _, err := h.tokens.GenerateAccessToken(userID, req.Email)
		if err != nil {
			h.logger.Error("failed to issue access token", zap.Error(err))
			response.Error(c, http.StatusInternalServerError, "could not complete login", nil)
			return
		}

		response.Success(c, http.StatusOK, "login successful", otpdomain.VerifyResponse{
			Verified:    true,
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   h.tokenTTL,
		})
	}
}
