package services

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"log"
	"net"
	"net/smtp"
	"strings"
	"time"
)

// MailService delivers OTP emails over SMTP with STARTTLS. It lives in the
// mail worker process, not the API server.
type MailService struct {
	smtpHost     string
	smtpPort     string
	smtpUser     string
	smtpPass     string
	mailFrom     string
	mailFromName string
}

func NewMailService(smtpHost, smtpPort, smtpUser, smtpPass, mailFrom, mailFromName string) *MailService {
	return &MailService{
		smtpHost:     smtpHost,
		smtpPort:     smtpPort,
		smtpUser:     smtpUser,
		smtpPass:     smtpPass,
		mailFrom:     mailFrom,
		mailFromName: mailFromName,
	}
}

func (s *MailService) SendVerifyCode(to, code, expiresAt string) error {
	return s.sendCodeMail(to, code, expiresAt,
		"Verify your FaceofMind account",
		"internal/templates/verify-email.html",
	)
}

func (s *MailService) SendResetCode(to, code, expiresAt string) error {
	return s.sendCodeMail(to, code, expiresAt,
		"Reset your FaceofMind password",
		"internal/templates/reset-password.html",
	)
}

func (s *MailService) sendCodeMail(to, code, expiresAt, subject, templatePath string) error {
	htmlBody, err := renderCodeTemplate(templatePath, code, expiresAt)
	if err != nil {
		return err
	}

	fromHeader := fmt.Sprintf("%s <%s>", s.mailFromName, s.mailFrom)

	msg := strings.Join([]string{
		fmt.Sprintf("From: %s", fromHeader),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
		"",
		htmlBody,
	}, "\r\n")

	log.Printf("[MAIL] smtp sending to=%s via=%s:%s", to, s.smtpHost, s.smtpPort)

	if err := s.sendSMTPWithTimeout(to, []byte(msg)); err != nil {
		return err
	}

	log.Printf("[MAIL] sent to=%s", to)
	return nil
}

func renderCodeTemplate(path, code, expiresAt string) (string, error) {
	tmpl, err := template.ParseFiles(path)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, map[string]string{
		"Code":      code,
		"ExpiresAt": expiresAt,
	})
	if err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (s *MailService) sendSMTPWithTimeout(to string, msg []byte) error {
	addr := net.JoinHostPort(s.smtpHost, s.smtpPort)

	conn, err := net.DialTimeout("tcp", addr, 8*time.Second)
	if err != nil {
		return err
	}
	// One deadline covers the whole exchange.
	_ = conn.SetDeadline(time.Now().Add(15 * time.Second))

	c, err := smtp.NewClient(conn, s.smtpHost)
	if err != nil {
		return err
	}
	defer func() { _ = c.Quit() }()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: s.smtpHost}); err != nil {
			return err
		}
	}

	auth := smtp.PlainAuth("", s.smtpUser, s.smtpPass, s.smtpHost)
	if err := c.Auth(auth); err != nil {
		return err
	}

	if err := c.Mail(s.mailFrom); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}

	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
