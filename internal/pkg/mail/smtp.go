package mail

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"mime"
	"net/smtp"
	"strings"
)

// SMTP delivers mail over a plain SMTP relay with optional AUTH.
type SMTP struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewSMTP builds an SMTP mailer. Auth is skipped when username is empty,
// which is what local relays like mailpit expect.
func NewSMTP(host string, port int, username, password, from string) (*SMTP, error) {
	if host == "" || port <= 0 || from == "" {
		return nil, errors.New("mail: host, port, and from are required")
	}

	return &SMTP{host: host, port: port, username: username, password: password, from: from}, nil
}

func (s *SMTP) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(msg.To) == 0 {
		return errors.New("mail: no recipients")
	}
	if msg.HTML == "" && msg.Text == "" {
		return errors.New("mail: empty body")
	}

	body, err := s.build(msg)
	if err != nil {
		return err
	}

	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}

	addr := fmt.Sprintf("%s:%d", s.host, s.port)

	return smtp.SendMail(addr, auth, s.from, msg.To, body)
}

func (s *SMTP) build(msg Message) ([]byte, error) {
	var b strings.Builder

	b.WriteString("From: " + s.from + "\r\n")
	b.WriteString("To: " + strings.Join(msg.To, ", ") + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", msg.Subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")

	switch {
	case msg.HTML != "" && msg.Text != "":
		boundary, err := s.boundary()
		if err != nil {
			return nil, err
		}

		b.WriteString("Content-Type: multipart/alternative; boundary=" + boundary + "\r\n\r\n")

		b.WriteString("--" + boundary + "\r\n")
		b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
		b.WriteString(msg.Text + "\r\n\r\n")

		b.WriteString("--" + boundary + "\r\n")
		b.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
		b.WriteString(msg.HTML + "\r\n\r\n")

		b.WriteString("--" + boundary + "--\r\n")
	case msg.HTML != "":
		b.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
		b.WriteString(msg.HTML + "\r\n")
	default:
		b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
		b.WriteString(msg.Text + "\r\n")
	}

	return []byte(b.String()), nil
}

func (s *SMTP) boundary() (string, error) {
	var raw [12]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", err
	}

	return "ikiraro-" + hex.EncodeToString(raw[:]), nil
}
