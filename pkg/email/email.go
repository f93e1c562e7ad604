package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
)

// EmailConfig holds SMTP configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
}

// Enabled reports whether enough SMTP settings are present to send mail.
func (c EmailConfig) Enabled() bool {
	return c.SMTPHost != "" && c.FromEmail != ""
}

// ClosingLine is one labelled amount in a closing summary.
type ClosingLine struct {
	Label  string
	Amount string
}

// ClosingSummary is the payload of a closing notification.
type ClosingSummary struct {
	BusinessName string
	Kind         string // "daily" or "weekly"
	BusinessDate string
	PerformedBy  string
	Lines        []ClosingLine
	ReportRef    string
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailService handles email sending
type EmailService struct {
	config EmailConfig
	send   sendFunc
}

// NewEmailService creates a new email service
func NewEmailService(config EmailConfig) *EmailService {
	return &EmailService{config: config, send: smtp.SendMail}
}

// SendClosingSummary mails the totals of a daily or weekly closing.
func (s *EmailService) SendClosingSummary(toEmail string, summary ClosingSummary) error {
	htmlContent, err := renderClosingSummary(summary)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	kind := "Cierre diario"
	if summary.Kind == "weekly" {
		kind = "Cierre semanal"
	}
	subject := fmt.Sprintf("%s %s - %s", kind, summary.BusinessDate, summary.BusinessName)
	message := s.buildHTMLEmail(toEmail, subject, htmlContent)

	return s.sendEmail(toEmail, message)
}

// sendEmail sends an email using SMTP
func (s *EmailService) sendEmail(to string, message []byte) error {
	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)

	var auth smtp.Auth
	if s.config.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)
	}

	if err := s.send(addr, auth, s.config.FromEmail, []string{to}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// buildHTMLEmail builds an HTML email message
func (s *EmailService) buildHTMLEmail(to, subject, htmlBody string) []byte {
	headers := fmt.Sprintf(
		"From: %s <%s>\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=\"UTF-8\"\r\n"+
			"\r\n",
		s.config.FromName,
		s.config.FromEmail,
		to,
		subject,
	)

	return []byte(headers + htmlBody)
}

var closingTmpl = template.Must(template.New("closing").Parse(closingSummaryTemplate))

func renderClosingSummary(summary ClosingSummary) (string, error) {
	var buf bytes.Buffer
	if err := closingTmpl.Execute(&buf, summary); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const closingSummaryTemplate = `
<!DOCTYPE html>
<html lang="es">
<head><meta charset="UTF-8"><title>{{.BusinessName}}</title></head>
<body style="margin: 0; padding: 24px; font-family: 'Segoe UI', Tahoma, sans-serif; background-color: #f4f1ec;">
    <table role="presentation" style="max-width: 560px; margin: 0 auto; background: #ffffff; border-radius: 10px; border-collapse: collapse;">
        <tr>
            <td style="background: #4c2e00; padding: 24px; text-align: center;">
                <h1 style="color: #ffffff; margin: 0; font-size: 22px;">{{.BusinessName}}</h1>
                <p style="color: #e8dccb; margin: 6px 0 0 0;">{{if eq .Kind "weekly"}}Cierre semanal{{else}}Cierre diario{{end}} &middot; {{.BusinessDate}}</p>
            </td>
        </tr>
        <tr>
            <td style="padding: 24px;">
                <table role="presentation" style="width: 100%; border-collapse: collapse;">
                    {{range .Lines}}
                    <tr>
                        <td style="padding: 8px 0; color: #4a4a4a; border-bottom: 1px solid #eee;">{{.Label}}</td>
                        <td style="padding: 8px 0; color: #1a1a1a; text-align: right; border-bottom: 1px solid #eee;"><strong>{{.Amount}}</strong></td>
                    </tr>
                    {{end}}
                </table>
                <p style="color: #777; font-size: 13px; margin: 20px 0 0 0;">Realizado por {{.PerformedBy}}.</p>
                {{if .ReportRef}}<p style="color: #777; font-size: 13px; margin: 6px 0 0 0;">Reporte: {{.ReportRef}}</p>{{end}}
            </td>
        </tr>
    </table>
</body>
</html>
`
