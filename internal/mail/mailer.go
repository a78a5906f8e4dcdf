// Package mail delivers transactional email such as password resets.
package mail

import (
	"context"
	"errors"

	"github.com/homebudget/budget-backend/internal/config"
)

var ErrNoRecipient = errors.New("mail: message has no recipient")

type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// New picks a transport: SendGrid when an API key is set, SMTP when a server
// is set, otherwise a mailer that only logs.
func New(cfg *config.Config) Mailer {
	switch {
	case cfg.SendGridAPIKey != "":
		return NewSendGridMailer(cfg.SendGridAPIKey, cfg.MailDefaultSender)
	case cfg.MailConfigured():
		return NewSMTPMailer(SMTPSettings{
			Host:     cfg.MailServer,
			Port:     cfg.MailPort,
			UseTLS:   cfg.MailUseTLS,
			UseSSL:   cfg.MailUseSSL,
			Username: cfg.MailUsername,
			Password: cfg.MailPassword,
			From:     cfg.MailDefaultSender,
		})
	default:
		return NewLogMailer()
	}
}
