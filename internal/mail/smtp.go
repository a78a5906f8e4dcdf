package mail

import (
	"context"
	"fmt"
	"time"

	gomail "github.com/wneessen/go-mail"
)

type SMTPSettings struct {
	Host     string
	Port     int
	UseTLS   bool
	UseSSL   bool
	Username string
	Password string
	From     string
}

// SMTPMailer sends each message over a fresh SMTP session.
type SMTPMailer struct {
	settings SMTPSettings
	timeout  time.Duration
}

func NewSMTPMailer(settings SMTPSettings) *SMTPMailer {
	return &SMTPMailer{settings: settings, timeout: 15 * time.Second}
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	built, err := m.buildMessage(msg)
	if err != nil {
		return err
	}

	client, err := gomail.NewClient(m.settings.Host, m.clientOptions()...)
	if err != nil {
		return fmt.Errorf("failed to create smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, built); err != nil {
		return fmt.Errorf("failed to send mail via %s: %w", m.settings.Host, err)
	}
	return nil
}

func (m *SMTPMailer) clientOptions() []gomail.Option {
	opts := []gomail.Option{
		gomail.WithPort(m.settings.Port),
		gomail.WithTimeout(m.timeout),
	}

	switch {
	case m.settings.UseSSL:
		opts = append(opts, gomail.WithSSL())
	case m.settings.UseTLS:
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSMandatory))
	default:
		opts = append(opts, gomail.WithTLSPolicy(gomail.NoTLS))
	}

	if m.settings.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(m.settings.Username),
			gomail.WithPassword(m.settings.Password),
		)
	}
	return opts
}

func (m *SMTPMailer) buildMessage(msg Message) (*gomail.Msg, error) {
	if msg.To == "" {
		return nil, ErrNoRecipient
	}

	built := gomail.NewMsg()
	if err := built.From(m.settings.From); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", m.settings.From, err)
	}
	if err := built.To(msg.To); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", msg.To, err)
	}
	built.Subject(msg.Subject)
	built.SetBodyString(gomail.TypeTextPlain, msg.Text)
	if msg.HTML != "" {
		built.AddAlternativeString(gomail.TypeTextHTML, msg.HTML)
	}
	return built, nil
}
