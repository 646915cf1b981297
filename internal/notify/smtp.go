package notify

import (
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/genglo/coop-kiosk/internal/config"
	"github.com/genglo/coop-kiosk/internal/logger"
)

const (
	maxAttempts  = 3
	retryBackoff = 2 * time.Second
)

// SMTPNotifier delivers messages over plain SMTP in a background goroutine
// per message, retrying transient failures a fixed number of times.
type SMTPNotifier struct {
	cfg     config.SMTPConfig
	send    func(addr string, auth smtp.Auth, from string, to []string, body []byte) error
	backoff time.Duration
}

func NewSMTPNotifier(cfg config.SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg, send: smtp.SendMail, backoff: retryBackoff}
}

func (n *SMTPNotifier) Dispatch(msg Message) {
	if strings.TrimSpace(n.cfg.Host) == "" || strings.TrimSpace(msg.To) == "" {
		logger.Warn("notification dropped, no smtp host or recipient", logger.Fields{
			"subject": msg.Subject,
		})
		return
	}

	go n.deliver(msg)
}

func (n *SMTPNotifier) deliver(msg Message) {
	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	}

	payload := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"utf-8\"\r\n\r\n%s",
		n.cfg.From, msg.To, msg.Subject, msg.Body,
	))

	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = n.send(n.cfg.Addr(), auth, n.cfg.From, []string{msg.To}, payload)
		if err == nil {
			logger.Info("notification delivered", logger.Fields{
				"to":      msg.To,
				"subject": msg.Subject,
				"attempt": attempt,
			})
			return
		}

		logger.Warn("notification delivery failed", logger.Fields{
			"to":      msg.To,
			"subject": msg.Subject,
			"attempt": attempt,
			"error":   err.Error(),
		})
		if attempt < maxAttempts {
			time.Sleep(time.Duration(attempt) * n.backoff)
		}
	}

	logger.Error("notification dropped after retries", err, logger.Fields{
		"to":      msg.To,
		"subject": msg.Subject,
	})
}
