package lib

import (
	"context"
	"log"
	"strings"

	"uservice/src/config"

	"github.com/wneessen/go-mail"
)

type SendMailInput struct {
	From     string
	FromName string
	To       []string
	ReplyTo  string
	Subject  string
	Body     string
	Html     bool
}

type Mailer interface {
	Send(ctx context.Context, input *SendMailInput) error
}

type SMTPMailer struct {
	client *mail.Client
}

func NewSMTPMailer(cfg config.SMTPConfig) (*SMTPMailer, error) {
	c, err := mail.NewClient(
		cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	)
	if err != nil {
		log.Printf("Could not initialize smtp client: %s\n", err.Error())
		return nil, err
	}
	return &SMTPMailer{client: c}, nil
}

func (m *SMTPMailer) Send(ctx context.Context, input *SendMailInput) error {
	msg, err := BuildMessage(input)
	if err != nil {
		return err
	}
	return m.client.DialAndSendWithContext(ctx, msg)
}

func BuildMessage(input *SendMailInput) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.FromFormat(input.FromName, input.From); err != nil {
		return nil, err
	}
	if err := msg.To(input.To...); err != nil {
		return nil, err
	}
	if input.ReplyTo != "" {
		if err := msg.ReplyTo(input.ReplyTo); err != nil {
			return nil, err
		}
	}
	msg.Subject(input.Subject)
	if input.Html {
		msg.SetBodyString(mail.TypeTextHTML, input.Body)
	} else {
		msg.SetBodyString(mail.TypeTextPlain, input.Body)
	}
	return msg, nil
}

// LogMailer writes outgoing mail to the server log. Used when SMTP is not configured.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, input *SendMailInput) error {
	log.Printf("[Mail] to=%s subject=%q\n", strings.Join(input.To, ","), input.Subject)
	return nil
}
