package messaging

import (
	"context"

	"github.com/twilio/twilio-go"
	api "github.com/twilio/twilio-go/rest/api/v2010"
)

type TwilioProvider struct {
	client       *twilio.RestClient
	fromNumber   string
	fromWhatsApp string
}

func NewTwilioProvider(accountSID, authToken, fromNumber, fromWhatsApp string) *TwilioProvider {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &TwilioProvider{
		client:       client,
		fromNumber:   fromNumber,
		fromWhatsApp: fromWhatsApp,
	}
}

func (t *TwilioProvider) SendWhatsApp(ctx context.Context, to, message string) (*SendResult, error) {
	return t.send("whatsapp:"+to, "whatsapp:"+t.fromWhatsApp, message)
}

func (t *TwilioProvider) SendSMS(ctx context.Context, to, message string) (*SendResult, error) {
	return t.send(to, t.fromNumber, message)
}

func (t *TwilioProvider) send(to, from, message string) (*SendResult, error) {
	params := &api.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(from)
	params.SetBody(message)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return &SendResult{
			Status: "failed",
			Error:  err.Error(),
		}, err
	}

	return &SendResult{
		MessageID: *resp.Sid,
		Status:    string(*resp.Status),
	}, nil
}
