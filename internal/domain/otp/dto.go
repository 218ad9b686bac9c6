// internal/domain/otp/dto.go
package otp

type SendRequest struct {
	Email   string  `json:"email" binding:"required,email"`
	Purpose Purpose `json:"purpose" binding:"omitempty,oneof=login verify_email"`
}

type VerifyRequest struct {
	Email   string  `json:"email" binding:"required,email"`
	Code    string  `json:"code" binding:"required,len=6,numeric"`
	Purpose Purpose `json:"purpose" binding:"omitempty,oneof=login verify_email"`
}

// VerifyResponse is returned on a successful verification. AccessToken
// is only set for login-purpose verifications.
type VerifyResponse struct {
	Verified    bool   `json:"verified"`
	AccessToken string `json:"access_token,omitempty"`
	TokenType   string `json:"token_type,omitempty"`
	ExpiresIn   int    `json:"expires_in,omitempty"`
}
