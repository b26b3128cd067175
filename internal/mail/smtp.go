package mail

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/shivarya/splitcash/internal/config"
)

// SMTPSender delivers rendered mail jobs over SMTP with implicit TLS.
type SMTPSender struct {
	cfg config.SMTPConfig
}

// NewSMTPSender creates a sender from the worker's SMTP configuration.
func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

// Send renders and delivers a single mail job.
func (s *SMTPSender) Send(job *Job) error {
	subject, body, err := render(job)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: s.cfg.Host})
	if err != nil {
		return fmt.Errorf("dial SMTP: %w", err)
	}

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("SMTP handshake: %w", err)
	}
	defer client.Close()

	if s.cfg.User != "" {
		auth := smtp.PlainAuth("", s.cfg.User, s.cfg.Password, s.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP auth: %w", err)
		}
	}

	if err := client.Mail(envelopeAddress(s.cfg.From)); err != nil {
		return fmt.Errorf("MAIL FROM: %w", err)
	}
	if err := client.Rcpt(job.To); err != nil {
		return fmt.Errorf("RCPT TO: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("DATA: %w", err)
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		s.cfg.From, job.To, subject, body)
	if _, err := w.Write([]byte(msg)); err != nil {
		w.Close()
		return fmt.Errorf("write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close body: %w", err)
	}

	return client.Quit()
}

func render(job *Job) (subject, body string, err error) {
	switch job.Kind {
	case JobInvitation:
		subject = fmt.Sprintf("%s invited you to %q on Split Cash", job.InviterName, job.GroupName)
		body = fmt.Sprintf(
			"Hi,\n\n%s invited you to join the group %q to track shared expenses.\n\nAccept the invitation here:\n%s\n\nIf you were not expecting this invitation you can ignore this email.\n",
			job.InviterName, job.GroupName, job.AcceptURL)
	case JobWelcome:
		subject = "Welcome to Split Cash"
		body = fmt.Sprintf(
			"Hi %s,\n\nYour account is ready. Create a group, invite your friends and start splitting expenses.\n",
			job.UserName)
	default:
		return "", "", fmt.Errorf("unknown mail job kind %q", job.Kind)
	}
	return subject, body, nil
}

// envelopeAddress strips a display name from "Name <addr>" forms.
func envelopeAddress(from string) string {
	if i := strings.IndexByte(from, '<'); i >= 0 {
		if j := strings.IndexByte(from[i:], '>'); j > 0 {
			return from[i+1 : i+j]
		}
	}
	return from
}
