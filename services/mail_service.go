package services

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/gomail.v2"
)

// MailService sends plain-text email through the configured SMTP relay
type MailService struct {
	host string
	port int
	user string
	pass string
}

func NewMailService() *MailService {
	port := 2525
	if portStr := os.Getenv("SMTP_PORT"); portStr != "" {
		fmt.Sscanf(portStr, "%d", &port)
	}

	return &MailService{
		host: os.Getenv("SMTP_HOST"),
		port: port,
		user: os.Getenv("SMTP_USER"),
		pass: os.Getenv("SMTP_PASS"),
	}
}

// Send delivers one email. A missing SMTP configuration is a silent no-op.
func (s *MailService) Send(to, subject, body string) error {
	if s.host == "" {
		log.Println("SMTP not configured, skipping email")
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.user)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.host, s.port, s.user, s.pass)
	return d.DialAndSend(m)
}
