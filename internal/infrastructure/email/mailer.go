// Package email delivers transactional mail over SMTP.
package email

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

// Config captures SMTP connection settings.
type Config struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

// Mailer sends verification, password-reset and OTP emails. Callers treat
// delivery as fire-and-forget; the dispatcher owns retry/logging policy.
type Mailer struct {
	cfg    Config
	dialer *gomail.Dialer
	logger zerolog.Logger
}

func NewMailer(cfg Config, logger zerolog.Logger) *Mailer {
	return &Mailer{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass),
		logger: logger,
	}
}

func (m *Mailer) SendVerificationEmail(ctx context.Context, to, firstName, link string) error {
	body := fmt.Sprintf(verificationHTML, firstName, link, link)
	plain := fmt.Sprintf("Hello %s, please verify your email by visiting: %s", firstName, link)
	return m.send(ctx, to, "Verify Your Email Address", body, plain)
}

func (m *Mailer) SendPasswordResetEmail(ctx context.Context, to, link, firstName string) error {
	body := fmt.Sprintf(passwordResetHTML, firstName, link, link)
	plain := fmt.Sprintf("Hello %s, reset your password by visiting: %s", firstName, link)
	return m.send(ctx, to, "Password Reset Request", body, plain)
}

func (m *Mailer) SendOTPEmail(ctx context.Context, to, otp string) error {
	body := fmt.Sprintf(otpHTML, otp)
	plain := fmt.Sprintf("Your OTP code is %s. It expires in 10 minutes.", otp)
	return m.send(ctx, to, "Your OTP Code", body, plain)
}

func (m *Mailer) send(ctx context.Context, to, subject, html, plain string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", plain)
	msg.AddAlternative("text/html", html)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	m.logger.Info().Str("to", to).Str("subject", subject).Msg("email sent")
	return nil
}

const verificationHTML = `<html><body>
<h2>Hello %s!</h2>
<p>Welcome to Natours. Please verify your email address to activate your account:</p>
<p><a href="%s">Verify my email</a></p>
<p>Or paste this link into your browser: %s</p>
<p>If you didn't create an account, you can safely ignore this email.</p>
</body></html>`

const passwordResetHTML = `<html><body>
<h2>Hello %s,</h2>
<p>We received a request to reset your password. The link below is valid for one hour and works once:</p>
<p><a href="%s">Reset my password</a></p>
<p>Or paste this link into your browser: %s</p>
<p>If you didn't request this, no action is needed.</p>
</body></html>`

const otpHTML = `<html><body>
<h2>Hello!</h2>
<p>You have been designated as an admin. Here is your OTP:</p>
<p><strong>%s</strong></p>
<p><strong>This OTP will expire in 10 minutes.</strong></p>
<p>If you didn't expect this email, you can safely ignore it.</p>
</body></html>`
