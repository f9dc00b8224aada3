package messaging

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snsTypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
)

type AWSSNSProvider struct {
	client *sns.Client
	region string
}

func NewAWSSNSProvider(region string) (*AWSSNSProvider, error) {
	cfg, err := config.LoadDefaultConfig(context.Background(), config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &AWSSNSProvider{
		client: sns.NewFromConfig(cfg),
		region: region,
	}, nil
}

// SendWhatsApp is not available through SNS; callers fall back to SendSMS.
func (a *AWSSNSProvider) SendWhatsApp(ctx context.Context, to, message string) (*SendResult, error) {
	return nil, ErrChannelUnsupported
}

func (a *AWSSNSProvider) SendSMS(ctx context.Context, to, message string) (*SendResult, error) {
	input := &sns.PublishInput{
		PhoneNumber: aws.String(to),
		Message:     aws.String(message),
		MessageAttributes: map[string]snsTypes.MessageAttributeValue{
			"AWS.SNS.SMS.SMSType": {
				DataType:    aws.String("String"),
				StringValue: aws.String("Transactional"),
			},
		},
	}

	resp, err := a.client.Publish(ctx, input)
	if err != nil {
		return &SendResult{
			Status: "failed",
			Error:  err.Error(),
		}, err
	}

	return &SendResult{
		MessageID: *resp.MessageId,
		Status:    "sent",
	}, nil
}
