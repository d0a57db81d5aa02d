package notify

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"
)

// EmailSender delivers events over plain SMTP to a single address.
type EmailSender struct {
	To     string
	Config SMTPConfig
}

func (s *EmailSender) Send(_ context.Context, event Event) error {
	if s.Config.Host == "" {
		return errors.New("smtp host not configured")
	}

	subject := fmt.Sprintf("[%s] %s", event.Name, event.ProjectName)
	var body strings.Builder
	body.WriteString(fmt.Sprintf("Event: %s\r\n", event.Name))
	if event.ProjectName != "" {
		body.WriteString(fmt.Sprintf("Project: %s\r\n", event.ProjectName))
	}
	if event.Status != "" {
		body.WriteString(fmt.Sprintf("Status: %s\r\n", event.Status))
	}
	if event.Message != "" {
		body.WriteString(fmt.Sprintf("\r\n%s\r\n", event.Message))
	}
	body.WriteString(fmt.Sprintf("\r\nOccurred at: %s\r\n", event.OccurredAt.Format("2006-01-02 15:04:05 MST")))

	message := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s",
		s.Config.From, s.To, subject, body.String())

	addr := fmt.Sprintf("%s:%s", s.Config.Host, s.Config.Port)
	var auth smtp.Auth
	if s.Config.Username != "" {
		auth = smtp.PlainAuth("", s.Config.Username, s.Config.Password, s.Config.Host)
	}
	if err := smtp.SendMail(addr, auth, s.Config.From, []string{s.To}, []byte(message)); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
