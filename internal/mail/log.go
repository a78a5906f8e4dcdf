package mail

import (
	"context"
	"log/slog"
)

// LogMailer records that a message would have been sent, without delivering
// it. Bodies are never logged: they can carry single-use links. Config
// validation keeps it out of production.
type LogMailer struct{}

func NewLogMailer() *LogMailer {
	return &LogMailer{}
}

func (LogMailer) Send(_ context.Context, msg Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}
	slog.Info("mail transport not configured; message not sent",
		"to", msg.To,
		"subject", msg.Subject,
	)
	return nil
}
