package service

import (
	"fmt"

	"marketplace-backend/internal/config"
	"marketplace-backend/internal/models"

	"gopkg.in/gomail.v2"
)

// MailerService sends account emails over SMTP. It mints the signed
// single-purpose tokens embedded in the links it sends.
type MailerService struct {
	cfg       config.MailConfig
	clientURL string
	issuer    *TokenService
	dialer    *gomail.Dialer
}

func NewMailerService(cfg config.MailConfig, clientURL string, issuer *TokenService) *MailerService {
	return &MailerService{
		cfg:       cfg,
		clientURL: clientURL,
		issuer:    issuer,
		dialer:    gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

// SendVerificationEmail sends an email verification link to a user
func (m *MailerService) SendVerificationEmail(user *models.User) error {
	token, err := m.issuer.IssueEmailVerificationToken(user)
	if err != nil {
		return fmt.Errorf("failed to generate verification token: %w", err)
	}

	link := fmt.Sprintf("%s/auth/verify-email?token=%s", m.clientURL, token)
	body := emailTemplate(
		"Verify Your Account",
		fmt.Sprintf("Hi %s, thanks for signing up. Use the button below to verify your email address. The link expires in 24 hours and can only be used once.", user.Name),
		link,
		"Verify your e-mail",
	)

	return m.send(user.Email, "Verify Your Account", body)
}

// SendPasswordResetEmail sends a password reset link to a user
func (m *MailerService) SendPasswordResetEmail(user *models.User) error {
	token, err := m.issuer.IssuePasswordResetToken(user)
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	link := fmt.Sprintf("%s/auth/reset-password?token=%s", m.clientURL, token)
	body := emailTemplate(
		"Reset Your Password",
		fmt.Sprintf("Hi %s, a password reset was requested for your account. Use the button below to choose a new password. If this wasn't you, ignore this email.", user.Name),
		link,
		"Reset password",
	)

	return m.send(user.Email, "Reset Your Password", body)
}

func (m *MailerService) send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func emailTemplate(title, body, link, linkText string) string {
	return fmt.Sprintf(`<html><body style="font-family:sans-serif;max-width:600px;margin:0 auto">
<h2>%s</h2>
<p>%s</p>
<p><a href="%s" style="display:inline-block;padding:10px 20px;background:#2d6cdf;color:#fff;text-decoration:none;border-radius:4px">%s</a></p>
<p style="color:#888;font-size:12px">If the button doesn't work, copy this link into your browser:<br>%s</p>
</body></html>`, title, body, link, linkText, link)
}
