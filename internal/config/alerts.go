package config

import (
	"time"
)

// AlertsConfig tunes the in-process alert fanout pipeline.
type AlertsConfig struct {
	QueueSize       int           `yaml:"queue_size"`
	Workers         int           `yaml:"workers"`
	DeliveryTimeout time.Duration `yaml:"delivery_timeout"`
}

func loadAlertsConfig() *AlertsConfig {
	return &AlertsConfig{
		QueueSize:       getEnvAsInt("ALERT_QUEUE_SIZE", 1024),
		Workers:         getEnvAsInt("ALERT_WORKERS", 4),
		DeliveryTimeout: getEnvAsDuration("ALERT_DELIVERY_TIMEOUT", 5*time.Second),
	}
}
