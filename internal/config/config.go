package config

import (
	"fmt"
	"net/url"

	"github.com/caarlos0/env/v11"
)

// Config holds the full service configuration, parsed from environment
// variables at startup.
type Config struct {
	HTTP        HTTPConfig
	Postgres    PostgresConfig
	Mongo       MongoConfig
	Firebase    FirebaseConfig
	ZeroBounce  ZeroBounceConfig
	SMTP        SMTPConfig
	Environment string `env:"NODE_ENV"     envDefault:"development"`
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`
}

// HTTPConfig configures the HTTP listener.
type HTTPConfig struct {
	Port int `env:"PORT" envDefault:"5000"`
}

// PostgresConfig configures the relational store. DATABASE_URL takes
// precedence over the discrete DB_* variables when set.
type PostgresConfig struct {
	URL      string `env:"DATABASE_URL"`
	Host     string `env:"DB_HOST"`
	User     string `env:"DB_USER"`
	Password string `env:"DB_PASSWORD"`
	Name     string `env:"DB_NAME"`
	Port     int    `env:"DB_PORT" envDefault:"5432"`
}

// DSN returns the connection string for the relational store.
func (c PostgresConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		url.QueryEscape(c.User), url.QueryEscape(c.Password), c.Host, c.Port, c.Name)
}

// MongoConfig configures the document store.
type MongoConfig struct {
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DATABASE" envDefault:"joyeria"`
}

// FirebaseConfig configures the Identity Toolkit client. When
// CredentialsFile is empty the client falls back to application default
// credentials.
type FirebaseConfig struct {
	ProjectID       string `env:"FIREBASE_PROJECT_ID"`
	CredentialsFile string `env:"FIREBASE_CREDENTIALS_FILE"`
}

// ZeroBounceConfig configures the email reputation service. An empty API key
// disables the remote check and the local heuristic is used instead.
type ZeroBounceConfig struct {
	APIKey  string `env:"ZEROBOUNCE_API_KEY"`
	BaseURL string `env:"ZEROBOUNCE_BASE_URL" envDefault:"https://api.zerobounce.net/v2"`
}

// SMTPConfig configures the outgoing mailer. The mailer is optional: when
// incomplete, verification and reset links are only generated, not mailed.
type SMTPConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM"`
}

// Configured reports whether every SMTP variable needed to dial is present.
func (c SMTPConfig) Configured() bool {
	return c.Host != "" && c.Port != 0 && c.Username != "" && c.Password != "" && c.From != ""
}

// Load parses the configuration from environment variables.
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Postgres.URL == "" && c.Postgres.Host == "" {
		return fmt.Errorf("missing DATABASE_URL or DB_HOST environment variable")
	}
	if c.Mongo.URI == "" {
		return fmt.Errorf("missing MONGO_URI environment variable")
	}
	if c.Firebase.ProjectID == "" {
		return fmt.Errorf("missing FIREBASE_PROJECT_ID environment variable")
	}
	return nil
}
