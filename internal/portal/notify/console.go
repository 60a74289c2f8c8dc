package notify

import (
	"context"
	"log/slog"
)

// ConsoleMailer logs messages instead of delivering them. It is the
// default when no SendGrid key is configured, so local development
// never needs outbound mail.
type ConsoleMailer struct {
	log *slog.Logger
}

var _ Mailer = (*ConsoleMailer)(nil)

func NewConsoleMailer(log *slog.Logger) *ConsoleMailer {
	return &ConsoleMailer{log: log}
}

func (m *ConsoleMailer) SendParentCodes(ctx context.Context, to string, items []CodeItem) error {
	m.log.InfoContext(ctx, "email (console)",
		"to", to,
		"subject", codesSubject,
		"body", renderCodesText(items),
	)
	return nil
}

func (m *ConsoleMailer) SendWelcome(ctx context.Context, to, name, tempPassword string) error {
	m.log.InfoContext(ctx, "email (console)",
		"to", to,
		"subject", welcomeSubject(name),
		"body", renderWelcomeText(name, tempPassword),
	)
	return nil
}
