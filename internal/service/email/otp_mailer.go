// internal/service/email/otp_mailer.go
package email

import (
	"context"
	"fmt"
)

// OtpMailer delivers one-time codes over SMTP. It implements the
// notifier port the OTP service depends on; delivery failure comes
// back as a plain error value for the service to apply its
// environment policy.
type OtpMailer struct {
	sender *EmailSender
}

func NewOtpMailer(sender *EmailSender) *OtpMailer {
	return &OtpMailer{sender: sender}
}

// SendOneTimeCode sends the plaintext code to the address. The code
// is only ever in flight here; it is never written anywhere.
func (m *OtpMailer) SendOneTimeCode(ctx context.Context, to, code string) error {
	subject := "Your ResellerPro verification code"
	body := fmt.Sprintf(`
		<p>Hello,</p>
		<p>Use this code to continue signing in to ResellerPro:</p>
		<div class="code">%s</div>
		<p>The code expires in 5 minutes. If you didn't request it, you can ignore this email.</p>
	`, code)

	if err := m.sender.Send(to, subject, body); err != nil {
		return fmt.Errorf("failed to send one-time code: %w", err)
	}

	return nil
}
