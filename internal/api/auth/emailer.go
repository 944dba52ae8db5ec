package auth

import (
	"fmt"
	"net/smtp"

	"nontonin-api/config"
	"nontonin-api/internal/infra/logging"
)

// SendPasswordResetEmail mails the reset link. Without SMTP settings the
// link is only logged, which is what local development relies on.
func SendPasswordResetEmail(to string, token string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", config.APP_URL, token)

	if config.SMTP_HOST == "" {
		logging.LogInfo("SMTP not configured, reset link for " + to + ": " + link)
		return nil
	}

	auth := smtp.PlainAuth("", config.SMTP_FROM, config.SMTP_PASSWORD, config.SMTP_HOST)

	subject := "Reset kata sandi Nontonin"
	body := fmt.Sprintf("Klik tautan berikut untuk mengatur ulang kata sandi Anda:\n\n%s\n\nTautan berlaku selama 1 jam.", link)

	message := []byte("Subject: " + subject + "\r\n" +
		"From: " + config.SMTP_FROM + "\r\n" +
		"To: " + to + "\r\n" +
		"Content-Type: text/plain; charset=UTF-8\r\n" +
		"\r\n" +
		body + "\r\n")

	err := smtp.SendMail(config.SMTP_HOST+":"+config.SMTP_PORT, auth, config.SMTP_FROM, []string{to}, message)
	if err != nil {
		logging.LogError(err, "SMTP error")
	}
	return err
}
