// Package aws wraps the SES and SNS clients used for owner notifications.
package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// EmailAPI is the subset of the SES client used here.
type EmailAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESClient sends plain-text email from a fixed sender.
type SESClient struct {
	api  EmailAPI
	from string
}

func NewSESClient(api EmailAPI, from string) *SESClient {
	return &SESClient{api: api, from: from}
}

// NewClients loads the default AWS credential chain for region and builds
// both notification clients.
func NewClients(ctx context.Context, region, fromEmail string) (*SESClient, *SNSClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, nil, fmt.Errorf("load AWS config: %w", err)
	}
	return NewSESClient(ses.NewFromConfig(cfg), fromEmail), NewSNSClient(sns.NewFromConfig(cfg)), nil
}

// SendEmail returns the SES message id.
func (s *SESClient) SendEmail(ctx context.Context, to, subject, body string) (string, error) {
	out, err := s.api.SendEmail(ctx, &ses.SendEmailInput{
		Source: awssdk.String(s.from),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: awssdk.String(subject), Charset: awssdk.String("UTF-8")},
			Body: &types.Body{
				Text: &types.Content{Data: awssdk.String(body), Charset: awssdk.String("UTF-8")},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("ses send email: %w", err)
	}
	return awssdk.ToString(out.MessageId), nil
}
