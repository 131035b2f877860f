package resend

import (
	"github.com/vibe-gaming/signup/pkg/email"

	"github.com/pkg/errors"
	"github.com/resend/resend-go/v2"
)

type ResendSender struct {
	from   string
	client *resend.Client
}

func NewResendSender(apiKey string, from string) (*ResendSender, error) {
	if apiKey == "" {
		return nil, errors.New("empty resend api key")
	}

	return &ResendSender{from: from, client: resend.NewClient(apiKey)}, nil
}

func (s *ResendSender) Send(input email.SendEmailInput) error {
	if err := input.Validate(); err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{input.To},
		Subject: input.Subject,
		Html:    input.Body,
		Text:    input.Text,
	}

	if _, err := s.client.Emails.Send(params); err != nil {
		return errors.Wrap(err, "failed to send email via resend")
	}

	return nil
}
