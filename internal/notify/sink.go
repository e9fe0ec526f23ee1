// Package notify delivers best-effort email notifications. Delivery is never
// allowed to fail the operation that triggered it: implementations report a
// boolean outcome and the caller only uses it to shape its confirmation.
package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/bus-complaint-service/internal/config"
)

// Sink accepts a notification request and reports whether delivery was
// handed off successfully. It never returns an error to the caller.
type Sink interface {
	Send(ctx context.Context, subject, recipient, htmlBody string) bool
}

// NewSink picks the SMTP sink when mail is configured and a logging no-op
// otherwise, so callers never need to care.
func NewSink(cfg config.MailConfig, logger *zap.Logger) Sink {
	if !cfg.Enabled() {
		logger.Warn("mail not configured; notifications disabled")
		return &disabledSink{logger: logger}
	}
	return NewSMTPSink(cfg, logger)
}

type disabledSink struct {
	logger *zap.Logger
}

func (s *disabledSink) Send(_ context.Context, subject, recipient, _ string) bool {
	s.logger.Debug("notification skipped, mail disabled",
		zap.String("subject", subject),
		zap.String("recipient", recipient))
	return false
}
