package notify

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/bus-complaint-service/internal/config"
)

// SMTPSink delivers HTML mail over SMTP with STARTTLS-capable plain auth.
// Sends run on the caller's goroutine; the dial timeout bounds how long a
// dead mail server can hold up a request.
type SMTPSink struct {
	cfg    config.MailConfig
	logger *zap.Logger
}

// NewSMTPSink constructs the sink.
func NewSMTPSink(cfg config.MailConfig, logger *zap.Logger) *SMTPSink {
	return &SMTPSink{cfg: cfg, logger: logger}
}

// Send delivers one message. Failures are logged and reported as false.
func (s *SMTPSink) Send(ctx context.Context, subject, recipient, htmlBody string) bool {
	if err := s.send(ctx, subject, recipient, htmlBody); err != nil {
		s.logger.Warn("email delivery failed",
			zap.String("subject", subject),
			zap.String("recipient", recipient),
			zap.Error(err))
		return false
	}
	s.logger.Info("email sent",
		zap.String("subject", subject),
		zap.String("recipient", recipient))
	return true
}

func (s *SMTPSink) send(ctx context.Context, subject, recipient, htmlBody string) error {
	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))

	dialer := net.Dialer{Timeout: s.cfg.DialTimeout()}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial smtp: %w", err)
	}

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(nil); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}

	if s.cfg.Username != "" {
		auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := client.Mail(s.cfg.From); err != nil {
		return err
	}
	if err := client.Rcpt(recipient); err != nil {
		return err
	}

	writer, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := writer.Write(buildMessage(s.cfg.From, recipient, subject, htmlBody)); err != nil {
		writer.Close()
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}
	return client.Quit()
}

func buildMessage(from, to, subject, htmlBody string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	return []byte(b.String())
}
