package mailer

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

// MailService renders HTML templates and delivers them over SMTP with
// STARTTLS. The SMTP host is derived from the configured address so the same
// code works against Gmail or a local Mailhog.
type MailService struct {
	smtpAddr     string
	smtpUser     string
	smtpPassword string
	mailFrom     string
	mailFromName string
	templateDir  string
}

func NewMailService(smtpAddr, smtpUser, smtpPassword, mailFrom, mailFromName, templateDir string) *MailService {
	if templateDir == "" {
		templateDir = "internal/mailer/templates"
	}
	return &MailService{
		smtpAddr:     smtpAddr,
		smtpUser:     smtpUser,
		smtpPassword: smtpPassword,
		mailFrom:     mailFrom,
		mailFromName: mailFromName,
		templateDir:  templateDir,
	}
}

func (s *MailService) SendWelcome(to, name, accountURL string) error {
	body, err := s.render("welcome.html", map[string]string{
		"FirstName": name,
		"URL":       accountURL,
	})
	if err != nil {
		return err
	}
	return s.send(to, "Welcome to the Natours Family!", body)
}

func (s *MailService) SendPasswordReset(to, name, resetURL string) error {
	body, err := s.render("password-reset.html", map[string]string{
		"FirstName": name,
		"URL":       resetURL,
	})
	if err != nil {
		return err
	}
	return s.send(to, "Your password reset token (valid for only 10 minutes)", body)
}

func (s *MailService) render(file string, data map[string]string) (string, error) {
	tmpl, err := template.ParseFiles(s.templateDir + "/" + file)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (s *MailService) send(to, subject, htmlBody string) error {
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

	log.Printf("[MAIL] sending to=%s via=%s", to, s.smtpAddr)
	if err := s.sendSMTPWithTimeout(to, []byte(msg)); err != nil {
		return err
	}
	log.Printf("[MAIL] sent to=%s", to)
	return nil
}

func (s *MailService) sendSMTPWithTimeout(to string, msg []byte) error {
	host, _, err := net.SplitHostPort(s.smtpAddr)
	if err != nil {
		return fmt.Errorf("invalid smtp address %q: %w", s.smtpAddr, err)
	}

	conn, err := net.DialTimeout("tcp", s.smtpAddr, 8*time.Second)
	if err != nil {
		return err
	}
	// Deadline covers the whole session, not just the dial.
	_ = conn.SetDeadline(time.Now().Add(15 * time.Second))

	c, err := smtp.NewClient(conn, host)
	if err != nil {
		return err
	}
	defer func() { _ = c.Quit() }()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: host}); err != nil {
			return err
		}
	}

	if s.smtpUser != "" {
		auth := smtp.PlainAuth("", s.smtpUser, s.smtpPassword, host)
		if err := c.Auth(auth); err != nil {
			return err
		}
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
