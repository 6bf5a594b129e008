// Package mailer delivers verification and password-reset links over SMTP.
// Delivery is best-effort: Firebase can also send these mails itself, so a
// missing SMTP configuration simply disables this package.
package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/joyeria-diana-laura/backend/internal/config"
)

// Mailer sends transactional mail for the auth flows.
type Mailer struct {
	from   string
	dialer *gomail.Dialer
}

// New creates a Mailer from a complete SMTP configuration.
func New(cfg config.SMTPConfig) (*Mailer, error) {
	if !cfg.Configured() {
		return nil, fmt.Errorf("incomplete SMTP configuration")
	}

	return &Mailer{
		from:   cfg.From,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}, nil
}

// SendVerificationLink mails the email-verification link to a new user.
func (m *Mailer) SendVerificationLink(to, nombre, link string) error {
	htmlBody := fmt.Sprintf(`
		<p>Hola %s,</p>
		<p>Gracias por registrarte en Joyería Diana Laura.</p>
		<p>Haz clic en el siguiente enlace para verificar tu cuenta:</p>

		<p><a href="%s">%s</a></p>

		<p>Si no creaste esta cuenta, puedes ignorar este correo.</p>

		<p>Joyería Diana Laura</p>
	`, nombre, link, link)

	return m.sendHTML(to, "Verifica tu cuenta", htmlBody)
}

// SendResetLink mails a password-reset link.
func (m *Mailer) SendResetLink(to, link string) error {
	htmlBody := fmt.Sprintf(`
		<p>Hola,</p>
		<p>Recibimos una solicitud para restablecer la contraseña de tu cuenta.</p>
		<p>Si hiciste esta solicitud, haz clic en el siguiente enlace:</p>

		<p><a href="%s">%s</a></p>

		<p>Si no solicitaste el cambio, puedes ignorar este correo y tu cuenta seguirá segura.</p>

		<p>Joyería Diana Laura</p>
	`, link, link)

	return m.sendHTML(to, "Recuperación de contraseña", htmlBody)
}

func (m *Mailer) sendHTML(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	return m.dialer.DialAndSend(msg)
}
