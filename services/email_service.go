package services

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/url"

	"github.com/Dosada05/clubhub/mail"
)

//go:embed templates/emails/*.html
var emailTemplatesFS embed.FS

type EmailService struct {
	sender    mail.Sender
	publicURL string
	templates *template.Template
}

func NewEmailService(sender mail.Sender, publicURL string) (*EmailService, error) {
	t, err := template.ParseFS(emailTemplatesFS, "templates/emails/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}
	return &EmailService{sender: sender, publicURL: publicURL, templates: t}, nil
}

func (s *EmailService) GenerateEmailBody(templateName string, data interface{}) (string, error) {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, templateName, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", templateName, err)
	}
	return body.String(), nil
}

func (s *EmailService) PasswordResetLink(token string) string {
	return fmt.Sprintf("%s/reset-password?token=%s", s.publicURL, url.QueryEscape(token))
}

func (s *EmailService) SendPasswordResetEmail(ctx context.Context, userEmail, username, resetToken string) error {
	data := struct {
		Username         string
		ResetLink        string
		ExpiresInMinutes int
	}{
		Username:         username,
		ResetLink:        s.PasswordResetLink(resetToken),
		ExpiresInMinutes: int(PasswordResetTTL.Minutes()),
	}

	htmlBody, err := s.GenerateEmailBody("password_reset_email.html", data)
	if err != nil {
		return fmt.Errorf("failed to render password reset email: %w", err)
	}

	return s.sender.Send(ctx, mail.Message{
		To:      userEmail,
		Subject: "Redefinição de Senha - Hub Comunitário",
		HTML:    htmlBody,
	})
}
