package site

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// ContactForm is a message posted from the contact page
type ContactForm struct {
	Name    string `json:"name" form:"name" validate:"required,max=100"`
	Email   string `json:"email" form:"email" validate:"required,email"`
	Company string `json:"company" form:"company" validate:"max=100"`
	Phone   string `json:"phone" form:"phone" validate:"max=40"`
	Message string `json:"message" form:"message" validate:"required,max=5000"`
}

var contactValidator = validator.New()

// Validate returns one message per invalid field, or nil
func (f ContactForm) Validate() []string {
	err := contactValidator.Struct(f)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{err.Error()}
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch {
		case fe.Tag() == "required":
			msgs = append(msgs, fmt.Sprintf("%s is required.", fe.Field()))
		case fe.Tag() == "email":
			msgs = append(msgs, "Please enter a valid email address.")
		default:
			msgs = append(msgs, fmt.Sprintf("%s is too long.", fe.Field()))
		}
	}
	return msgs
}

// MailConfig holds the SMTP settings for contact form delivery
type MailConfig struct {
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string
	SalesEmail   string
}

// Configured reports whether SMTP credentials are present
func (c MailConfig) Configured() bool {
	return c.SMTPUsername != "" && c.SMTPPassword != ""
}

// SendFunc delivers a message; it matches smtp.SendMail
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Mailer delivers contact form messages to sales
type Mailer struct {
	cfg    MailConfig
	send   SendFunc
	logger *zap.Logger
}

// NewMailer creates a Mailer that sends over SMTP
func NewMailer(cfg MailConfig, logger *zap.Logger) *Mailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mailer{cfg: cfg, send: smtp.SendMail, logger: logger}
}

var contactEmail = template.Must(template.New("contact").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
	<h2>New contact request</h2>
	<p><strong>Name:</strong> {{.Name}}</p>
	<p><strong>Email:</strong> {{.Email}}</p>
	{{if .Company}}<p><strong>Company:</strong> {{.Company}}</p>{{end}}
	{{if .Phone}}<p><strong>Phone:</strong> {{.Phone}}</p>{{end}}
	<hr>
	<p>{{.Message}}</p>
	<hr>
	<p style="color: #666; font-size: 12px;">EffiMapPro contact form</p>
</body>
</html>
`))

// Send emails the form to sales. Without SMTP credentials the message is
// logged instead.
func (m *Mailer) Send(form ContactForm) error {
	if !m.cfg.Configured() {
		m.logger.Info("SMTP not configured, contact request logged only",
			zap.String("name", form.Name),
			zap.String("email", form.Email),
			zap.String("company", form.Company),
			zap.String("message", form.Message))
		return nil
	}

	var body bytes.Buffer
	if err := contactEmail.Execute(&body, form); err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	subject := "EffiMapPro contact request from " + oneLine(form.Name)
	msg := []byte(fmt.Sprintf(
		"From: %s <%s>\r\n"+
			"To: %s\r\n"+
			"Reply-To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		m.cfg.FromName, m.cfg.FromEmail, m.cfg.SalesEmail, oneLine(form.Email), subject, body.String(),
	))

	auth := smtp.PlainAuth("", m.cfg.SMTPUsername, m.cfg.SMTPPassword, m.cfg.SMTPHost)
	addr := fmt.Sprintf("%s:%s", m.cfg.SMTPHost, m.cfg.SMTPPort)
	if err := m.send(addr, auth, m.cfg.FromEmail, []string{m.cfg.SalesEmail}, msg); err != nil {
		return fmt.Errorf("failed to send contact email: %w", err)
	}
	return nil
}

// oneLine strips line breaks so user input cannot inject headers
func oneLine(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}
