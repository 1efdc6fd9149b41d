package mail

//go:generate go run go.uber.org/mock/mockgen -source=./mail.go -destination=./mocks/mail_mock.go -package=mocks

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"innstay/config"
	"innstay/infras/otel"
	"innstay/shared/constant"

	"github.com/rs/zerolog/log"
)

// Mail is a single outbound message. Delivery is fire-and-forget: callers log
// failures and never propagate them into the primary flow.
type Mail struct {
	To      string
	Subject string
	HTML    string
}

type Sender interface {
	Send(ctx context.Context, mail Mail) error
}

type senderImpl struct {
	cfg  *config.Config
	otel otel.Otel
}

func New(cfg *config.Config, otl otel.Otel) Sender {
	return &senderImpl{
		cfg:  cfg,
		otel: otl,
	}
}

func (s *senderImpl) Send(ctx context.Context, mail Mail) (err error) {
	_, scope := s.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".mail.Send")
	defer scope.End()
	defer scope.TraceIfError(err)

	addr := net.JoinHostPort(s.cfg.Mail.Host, s.cfg.Mail.Port)

	var auth smtp.Auth
	if s.cfg.Mail.Username != constant.Empty {
		auth = smtp.PlainAuth(constant.Empty, s.cfg.Mail.Username, s.cfg.Mail.Password, s.cfg.Mail.Host)
	}

	msg := strings.Join([]string{
		"From: " + s.cfg.Mail.From,
		"To: " + mail.To,
		"Subject: " + mail.Subject,
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
		"",
		mail.HTML,
	}, "\r\n")

	if err = smtp.SendMail(addr, auth, s.cfg.Mail.From, []string{mail.To}, []byte(msg)); err != nil {
		log.Error().Err(err).Str("to", mail.To).Msg("failed to send mail")

		return fmt.Errorf("failed to send mail: %w", err)
	}

	return nil
}
