package config

// MessagingConfig covers the emergency contact channels: WhatsApp through
// Twilio with SMS fallback, or plain SMS through AWS SNS.
type MessagingConfig struct {
	Provider string        `yaml:"provider"`
	Twilio   *TwilioConfig `yaml:"twilio"`
	AWS      *AWSSNSConfig `yaml:"aws"`
}

type TwilioConfig struct {
	AccountSID   string `yaml:"account_sid"`
	AuthToken    string `yaml:"auth_token"`
	FromNumber   string `yaml:"from_number"`
	FromWhatsApp string `yaml:"from_whatsapp"`
}

type AWSSNSConfig struct {
	Region string `yaml:"region"`
}

func loadMessagingConfig() *MessagingConfig {
	return &MessagingConfig{
		Provider: getEnv("MESSAGING_PROVIDER", "twilio"),
		Twilio: &TwilioConfig{
			AccountSID:   getEnv("TWILIO_ACCOUNT_SID", ""),
			AuthToken:    getEnv("TWILIO_AUTH_TOKEN", ""),
			FromNumber:   getEnv("TWILIO_FROM_NUMBER", ""),
			FromWhatsApp: getEnv("TWILIO_FROM_WHATSAPP", ""),
		},
		AWS: &AWSSNSConfig{
			Region: getEnv("AWS_REGION", "us-east-1"),
		},
	}
}
