package ports

import "context"

// EmailKind discriminates outbound email jobs.
type EmailKind string

const (
	EmailVerification  EmailKind = "verification"
	EmailPasswordReset EmailKind = "password_reset"
	EmailOTP           EmailKind = "otp"
)

// EmailJob is one outbound email. Link carries the verification/reset URL;
// OTP carries the one-time code.
type EmailJob struct {
	Kind      EmailKind
	To        string
	FirstName string
	Link      string
	OTP       string
}

// Mailer delivers emails synchronously. Implementations talk SMTP.
type Mailer interface {
	SendVerificationEmail(ctx context.Context, to, firstName, link string) error
	SendPasswordResetEmail(ctx context.Context, to, link, firstName string) error
	SendOTPEmail(ctx context.Context, to, otp string) error
}

// EmailDispatcher decouples email delivery from request handling. Enqueue
// never blocks the caller on SMTP; delivery failures are logged by the
// dispatcher and never fail the triggering operation.
type EmailDispatcher interface {
	Enqueue(job EmailJob)
}
