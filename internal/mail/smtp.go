package mail

import (
	"context"
	"errors"

	gomail "github.com/wneessen/go-mail"
)

// SMTPConfig holds the SMTP submission settings.
type SMTPConfig struct {
	Host        string
	Port        int
	FromEmail   string
	DefaultName string
	Password    string
}

// SMTPSender delivers messages over SMTP with STARTTLS, authenticating as the sender address.
type SMTPSender struct {
	cfg SMTPConfig
}

// NewSMTPSender builds a sender.
func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	return &SMTPSender{cfg: cfg}
}

// Send delivers msg.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if s.cfg.Host == "" {
		return errors.New("smtp host not configured")
	}

	m, err := s.build(msg)
	if err != nil {
		return err
	}

	opts := []gomail.Option{
		gomail.WithPort(s.cfg.Port),
		gomail.WithTLSPolicy(gomail.TLSMandatory),
	}
	if s.cfg.Password != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(s.cfg.FromEmail),
			gomail.WithPassword(s.cfg.Password),
		)
	}
	client, err := gomail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return err
	}
	return client.DialAndSendWithContext(ctx, m)
}

func (s *SMTPSender) build(msg Message) (*gomail.Msg, error) {
	name := msg.FromName
	if name == "" {
		name = s.cfg.DefaultName
	}

	m := gomail.NewMsg()
	if err := m.FromFormat(name, s.cfg.FromEmail); err != nil {
		return nil, err
	}
	if err := m.To(msg.To); err != nil {
		return nil, err
	}
	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextHTML, msg.HTMLBody)
	return m, nil
}
