package service

import (
	"context"
	"fmt"

	"sharewardrobe-backend/internal/logger"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type emailService struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &emailService{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *emailService) SendNotificationEmail(ctx context.Context, toEmail, toName, subject, body string) error {
	logger.ExternalServiceCall("sendgrid", "send", "to", toEmail, "subject", subject)

	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(toName, toEmail)
	text := fmt.Sprintf("Hello %s,\n\n%s\n\nShareWardrobe", toName, body)
	message := mail.NewSingleEmail(from, subject, to, text, "")

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		err = fmt.Errorf("failed to send email: %w", err)
		logger.ExternalServiceResult("sendgrid", "send", err)
		return err
	}
	if resp.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", resp.StatusCode, resp.Body)
		logger.ExternalServiceResult("sendgrid", "send", err)
		return err
	}

	logger.ExternalServiceResult("sendgrid", "send", nil, "status", resp.StatusCode)
	return nil
}
