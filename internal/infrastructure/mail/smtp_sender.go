package mail

import (
	"context"
	"fmt"

	"go-care-scheduling/config"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// SMTPSender delivers messages through an SMTP relay.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   from,
	}
}

// Send dials the relay for every message. gomail has no context support, so a
// cancelled ctx only stops the wait; the dial itself finishes in the background.
func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	done := make(chan error, 1)
	go func() {
		done <- s.dialer.DialAndSend(m)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send mail to %s: %w", to, err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LogSender writes messages to the log instead of sending them. Used when SMTP is
// disabled.
type LogSender struct {
	log *logrus.Logger
}

func NewLogSender(log *logrus.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(_ context.Context, to, subject, _ string) error {
	s.log.WithFields(logrus.Fields{
		"to":      to,
		"subject": subject,
	}).Info("Notification email (smtp disabled)")
	return nil
}
