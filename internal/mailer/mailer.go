package mailer

import (
	"fmt"
	"net/smtp"
)

// Sender delivers confirmation codes out-of-band. The auth service only
// depends on this interface, so tests can swap in a fake.
type Sender interface {
	SendConfirmationCode(to, code string) error
}

// SMTPSender sends plain-text mail through a single SMTP account.
type SMTPSender struct {
	host     string
	port     string
	from     string
	password string
}

func NewSMTPSender(host, port, from, password string) *SMTPSender {
	return &SMTPSender{host: host, port: port, from: from, password: password}
}

func (s *SMTPSender) SendConfirmationCode(to, code string) error {
	auth := smtp.PlainAuth("", s.from, s.password, s.host)

	subject := "Your confirmation code"
	body := fmt.Sprintf("Use this code to obtain an access token:\n\n%s", code)

	message := []byte("Subject: " + subject + "\r\n" +
		"From: " + s.from + "\r\n" +
		"To: " + to + "\r\n" +
		"Content-Type: text/plain; charset=UTF-8\r\n" +
		"\r\n" +
		body + "\r\n")

	if err := smtp.SendMail(s.host+":"+s.port, auth, s.from, []string{to}, message); err != nil {
		return fmt.Errorf("send confirmation mail: %w", err)
	}
	return nil
}
