package notification

import (
	"fmt"
	"log"
	"net"
	"net/smtp"
	"time"

	"simple-invoice/internal/config"
)

// Mailer sends mail over SMTP. A timed-out dial is a delivery failure;
// callers decide whether that is fatal (it never is for the reminder job).
type Mailer struct {
	cfg config.SMTPConfig
}

// NewMailer creates a new SMTP mailer
func NewMailer(cfg config.SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

// Send delivers one message. Failures are returned to the caller and
// logged here so they stay observable even on fire-and-forget paths.
func (m *Mailer) Send(to, subject, body string) error {
	addr := net.JoinHostPort(m.cfg.Host, m.cfg.Port)

	conn, err := net.DialTimeout("tcp", addr, time.Duration(m.cfg.TimeoutSecs)*time.Second)
	if err != nil {
		log.Printf("❌ Mail dial failed for %s: %v", to, err)
		return fmt.Errorf("dial smtp %s: %w", addr, err)
	}

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		conn.Close()
		log.Printf("❌ Mail handshake failed for %s: %v", to, err)
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	if m.cfg.User != "" {
		auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
		if err := client.Auth(auth); err != nil {
			log.Printf("❌ Mail auth failed for %s: %v", to, err)
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := client.Mail(m.cfg.From); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("smtp rcpt to: %w", err)
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		m.cfg.From, to, subject, body)
	if _, err := writer.Write([]byte(msg)); err != nil {
		writer.Close()
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("smtp close data: %w", err)
	}

	if err := client.Quit(); err != nil {
		return fmt.Errorf("smtp quit: %w", err)
	}

	return nil
}
