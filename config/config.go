// config/config.go
package config

import (
	"fmt"
	"os"
)

type Config struct {
	Server ServerConfig
	Mpesa  MpesaConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

// MpesaConfig holds the Daraja credentials and STK push parameters.
// The environment selects the sandbox or production base URL.
type MpesaConfig struct {
	Environment    string
	ConsumerKey    string
	ConsumerSecret string
	ShortCode      string
	Passkey        string
	CallbackURL    string

	// BaseURL overrides the environment-derived endpoint when set. Used
	// for pointing the client at fake provider endpoints.
	BaseURL string
}

// Load reads configuration from the environment. Daraja credentials are
// required; startup fails when any of them is missing.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("ENVIRONMENT", "development"),
		},
		Mpesa: MpesaConfig{
			Environment:    getEnv("MPESA_ENVIRONMENT", "sandbox"),
			ConsumerKey:    getEnv("MPESA_CONSUMER_KEY", ""),
			ConsumerSecret: getEnv("MPESA_CONSUMER_SECRET", ""),
			ShortCode:      getEnv("MPESA_BUSINESS_SHORTCODE", ""),
			Passkey:        getEnv("MPESA_PASSKEY", ""),
			CallbackURL:    getEnv("MPESA_CALLBACK_URL", ""),
			BaseURL:        getEnv("MPESA_BASE_URL", ""),
		},
	}

	if err := cfg.Mpesa.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (m MpesaConfig) validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"MPESA_CONSUMER_KEY", m.ConsumerKey},
		{"MPESA_CONSUMER_SECRET", m.ConsumerSecret},
		{"MPESA_BUSINESS_SHORTCODE", m.ShortCode},
		{"MPESA_PASSKEY", m.Passkey},
		{"MPESA_CALLBACK_URL", m.CallbackURL},
	}

	for _, field := range required {
		if field.value == "" {
			return fmt.Errorf("missing required configuration: %s", field.name)
		}
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
