// Package mail sends transactional email over SMTP via gomail.
package mail

import (
	"fmt"
	"io"

	"gopkg.in/gomail.v2"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string

	// FromAddress is the sender address; From is its display name.
	// FromAddress falls back to Username, which is usually the account
	// address.
	FromAddress string
	From        string
	Enabled     bool
}

// Attachment is an in-memory file to attach to a message.
type Attachment struct {
	Filename string
	Data     []byte
}

type Mailer struct {
	cfg Config
}

func New(cfg Config) *Mailer {
	return &Mailer{cfg: cfg}
}

// Enabled reports whether SMTP delivery is configured.
func (m *Mailer) Enabled() bool {
	return m.cfg.Enabled
}

// Send delivers one HTML message with optional attachments.
func (m *Mailer) Send(to, subject, htmlBody string, attachments ...Attachment) error {
	if !m.cfg.Enabled {
		return fmt.Errorf("mail delivery disabled")
	}

	msg := m.message(to, subject, htmlBody, attachments...)

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

func (m *Mailer) message(to, subject, htmlBody string, attachments ...Attachment) *gomail.Message {
	fromAddr := m.cfg.FromAddress
	if fromAddr == "" {
		fromAddr = m.cfg.Username
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", msg.FormatAddress(fromAddr, m.cfg.From))
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	for _, att := range attachments {
		data := att.Data
		msg.Attach(att.Filename, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(data)
			return err
		}))
	}
	return msg
}
