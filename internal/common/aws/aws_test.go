package aws

import (
	"context"
	"errors"
	"testing"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSES struct {
	input *ses.SendEmailInput
	err   error
}

func (m *mockSES) SendEmail(_ context.Context, params *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	m.input = params
	if m.err != nil {
		return nil, m.err
	}
	return &ses.SendEmailOutput{MessageId: awssdk.String("ses-1")}, nil
}

type mockSNS struct {
	input *sns.PublishInput
	err   error
}

func (m *mockSNS) Publish(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	m.input = params
	if m.err != nil {
		return nil, m.err
	}
	return &sns.PublishOutput{MessageId: awssdk.String("sns-1")}, nil
}

func TestSESClient_SendEmail(t *testing.T) {
	api := &mockSES{}
	client := NewSESClient(api, "alerts@bizhealth.example")

	id, err := client.SendEmail(context.Background(), "owner@example.com", "Health alert", "Score 20")
	require.NoError(t, err)
	assert.Equal(t, "ses-1", id)
	assert.Equal(t, "alerts@bizhealth.example", *api.input.Source)
	assert.Equal(t, []string{"owner@example.com"}, api.input.Destination.ToAddresses)
	assert.Equal(t, "Health alert", *api.input.Message.Subject.Data)
	assert.Equal(t, "Score 20", *api.input.Message.Body.Text.Data)

	api.err = errors.New("throttled")
	_, err = client.SendEmail(context.Background(), "owner@example.com", "s", "b")
	assert.ErrorContains(t, err, "throttled")
}

func TestSNSClient_SendSMS(t *testing.T) {
	api := &mockSNS{}
	client := NewSNSClient(api)

	id, err := client.SendSMS(context.Background(), "+919800000000", "Critical score")
	require.NoError(t, err)
	assert.Equal(t, "sns-1", id)
	assert.Equal(t, "+919800000000", *api.input.PhoneNumber)
	assert.Equal(t, "Transactional", *api.input.MessageAttributes["AWS.SNS.SMS.SMSType"].StringValue)

	api.err = errors.New("opted out")
	_, err = client.SendSMS(context.Background(), "+919800000000", "x")
	assert.Error(t, err)
}
