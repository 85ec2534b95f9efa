package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// SMSAPI is the subset of the SNS client used here.
type SMSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSClient sends transactional SMS.
type SNSClient struct {
	api SMSAPI
}

func NewSNSClient(api SMSAPI) *SNSClient {
	return &SNSClient{api: api}
}

// SendSMS publishes message to phone and returns the SNS message id.
func (s *SNSClient) SendSMS(ctx context.Context, phone, message string) (string, error) {
	out, err := s.api.Publish(ctx, &sns.PublishInput{
		PhoneNumber: awssdk.String(phone),
		Message:     awssdk.String(message),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"AWS.SNS.SMS.SMSType": {
				DataType:    awssdk.String("String"),
				StringValue: awssdk.String("Transactional"),
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("sns publish: %w", err)
	}
	return awssdk.ToString(out.MessageId), nil
}
