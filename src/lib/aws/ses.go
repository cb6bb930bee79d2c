package aws

import (
	"context"
	"fmt"
	"log"

	"uservice/src/lib"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

type sesAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESMailer delivers notification mail through Amazon SES.
type SESMailer struct {
	client sesAPI
}

func NewSESMailer(ctx context.Context, region string) (*SESMailer, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		log.Printf("Could not load default config: %s\n", err.Error())
		return nil, err
	}
	return &SESMailer{client: ses.NewFromConfig(cfg)}, nil
}

func content(v string) *types.Content {
	return &types.Content{Data: aws.String(v), Charset: aws.String("UTF-8")}
}

func sendEmailInput(input *lib.SendMailInput) *ses.SendEmailInput {
	body := &types.Body{}
	if input.Html {
		body.Html = content(input.Body)
	} else {
		body.Text = content(input.Body)
	}
	from := input.From
	if input.FromName != "" {
		from = fmt.Sprintf("%s <%s>", input.FromName, input.From)
	}
	out := &ses.SendEmailInput{
		Source:      aws.String(from),
		Destination: &types.Destination{ToAddresses: input.To},
		Message: &types.Message{
			Subject: content(input.Subject),
			Body:    body,
		},
	}
	if input.ReplyTo != "" {
		out.ReplyToAddresses = []string{input.ReplyTo}
	}
	return out
}

func (m *SESMailer) Send(ctx context.Context, input *lib.SendMailInput) error {
	out, err := m.client.SendEmail(ctx, sendEmailInput(input))
	if err != nil {
		log.Printf("Error sending email: %s\n", err.Error())
		return err
	}
	log.Printf("Sent email with id: %s\n", aws.ToString(out.MessageId))
	return nil
}
