package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/International-Combat-Archery-Alliance/event-tickets/events"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	ENV_LOCAL = "LOCAL"
	ENV_PROD  = "PROD"
)

type Config struct {
	Environment    string         `env:"ENV" envDefault:"LOCAL"`
	Host           string         `env:"HOST" envDefault:"0.0.0.0"`
	Port           string         `env:"PORT" envDefault:"8080"`
	AdminToken     string         `env:"ADMIN_TOKEN"`
	AllowedOrigins []string       `env:"CORS_ALLOWED_ORIGINS" envDefault:"https://icaa.world" envSeparator:","`
	RoleLabelsFile string         `env:"ROLE_LABELS_FILE"`
	Mail           MailConfig     `envPrefix:"MAIL_"`
	Store          StoreConfig    `envPrefix:"STORE_"`
	Artifacts      ArtifactConfig `envPrefix:"ARTIFACT_"`
	Ticket         TicketConfig   `envPrefix:"TICKET_"`
	Event          EventConfig    `envPrefix:"EVENT_"`
}

type MailConfig struct {
	Provider          string        `env:"PROVIDER" envDefault:"log"`
	FromAddress       string        `env:"FROM_ADDRESS" envDefault:"tickets@icaa.world"`
	Timeout           time.Duration `env:"TIMEOUT" envDefault:"10s"`
	SMTPHost          string        `env:"SMTP_HOST"`
	SMTPPort          int           `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername      string        `env:"SMTP_USERNAME"`
	SMTPPassword      string        `env:"SMTP_PASSWORD"`
	SMTPPasswordParam string        `env:"SMTP_PASSWORD_PARAM"`
}

type StoreConfig struct {
	Backend        string `env:"BACKEND" envDefault:"sqlite"`
	DynamoTable    string `env:"DYNAMO_TABLE" envDefault:"EventTickets"`
	DynamoEndpoint string `env:"DYNAMO_ENDPOINT"`
	SQLitePath     string `env:"SQLITE_PATH" envDefault:"tickets.db"`
}

type ArtifactConfig struct {
	Backend      string        `env:"BACKEND" envDefault:"fs"`
	Dir          string        `env:"DIR" envDefault:"artifacts"`
	Bucket       string        `env:"BUCKET"`
	Prefix       string        `env:"PREFIX"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"5s"`
}

type TicketConfig struct {
	QRLevel    string  `env:"QR_LEVEL" envDefault:"M"`
	QRSize     int     `env:"QR_SIZE" envDefault:"256"`
	Compress   bool    `env:"COMPRESS" envDefault:"true"`
	QRFraction float64 `env:"QR_FRACTION" envDefault:"0.25"`
	Footer     string  `env:"FOOTER" envDefault:"Powered by ICAA Tickets"`
}

// EventConfig selects the event catalog. Default* fields describe events the
// catalog does not list.
type EventConfig struct {
	Catalog           string `env:"CATALOG" envDefault:"file"`
	File              string `env:"FILE"`
	DefaultDates      string `env:"DEFAULT_DATES" envDefault:"March 15 - 16, 2025"`
	DefaultTimes      string `env:"DEFAULT_TIMES" envDefault:"08:00 AM - 5:00 PM (IST)"`
	DefaultVenue      string `env:"DEFAULT_VENUE" envDefault:"M Weddings & Conventions"`
	DefaultStreet     string `env:"DEFAULT_STREET" envDefault:"98/99, Vanagaram-Ambattur Road"`
	DefaultCity       string `env:"DEFAULT_CITY" envDefault:"Vanagaram, Chennai"`
	DefaultState      string `env:"DEFAULT_STATE" envDefault:"Tamil Nadu"`
	DefaultPostalCode string `env:"DEFAULT_POSTAL_CODE" envDefault:"600095"`
	DefaultCountry    string `env:"DEFAULT_COUNTRY" envDefault:"India"`
}

func (e EventConfig) DefaultEvent() events.Event {
	return events.Event{
		Dates: e.DefaultDates,
		Times: e.DefaultTimes,
		EventLocation: events.Location{
			Name: e.DefaultVenue,
			LocAddress: events.Address{
				Street:     e.DefaultStreet,
				City:       e.DefaultCity,
				State:      e.DefaultState,
				PostalCode: e.DefaultPostalCode,
				Country:    e.DefaultCountry,
			},
		},
	}
}

// Load reads configuration from the environment. In LOCAL a .env file in the
// working directory is loaded first when present; real env vars win.
func Load() (Config, error) {
	if strings.ToUpper(os.Getenv("ENV")) != ENV_PROD {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.Environment = strings.ToUpper(cfg.Environment)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error

	if c.Environment != ENV_LOCAL && c.Environment != ENV_PROD {
		errs = append(errs, fmt.Errorf("ENV must be LOCAL or PROD, got %q", c.Environment))
	}
	switch c.Mail.Provider {
	case "log", "ses":
	case "smtp":
		if c.Mail.SMTPHost == "" {
			errs = append(errs, fmt.Errorf("MAIL_SMTP_HOST is required for the smtp provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("MAIL_PROVIDER must be log, ses or smtp, got %q", c.Mail.Provider))
	}
	if c.Mail.FromAddress == "" {
		errs = append(errs, fmt.Errorf("MAIL_FROM_ADDRESS is required"))
	}
	switch c.Store.Backend {
	case "dynamo", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("STORE_BACKEND must be dynamo or sqlite, got %q", c.Store.Backend))
	}
	switch c.Artifacts.Backend {
	case "fs":
	case "s3":
		if c.Artifacts.Bucket == "" {
			errs = append(errs, fmt.Errorf("ARTIFACT_BUCKET is required for the s3 backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("ARTIFACT_BACKEND must be fs or s3, got %q", c.Artifacts.Backend))
	}
	switch c.Event.Catalog {
	case "file":
	case "dynamo":
		if c.Store.Backend != "dynamo" {
			errs = append(errs, fmt.Errorf("EVENT_CATALOG=dynamo requires STORE_BACKEND=dynamo"))
		}
	default:
		errs = append(errs, fmt.Errorf("EVENT_CATALOG must be file or dynamo, got %q", c.Event.Catalog))
	}
	if c.Ticket.QRFraction <= 0 || c.Ticket.QRFraction > 0.5 {
		errs = append(errs, fmt.Errorf("TICKET_QR_FRACTION must be in (0, 0.5], got %v", c.Ticket.QRFraction))
	}
	if c.Ticket.QRSize <= 0 {
		errs = append(errs, fmt.Errorf("TICKET_QR_SIZE must be positive, got %d", c.Ticket.QRSize))
	}
	if c.Environment == ENV_PROD && c.AdminToken == "" {
		errs = append(errs, fmt.Errorf("ADMIN_TOKEN is required in PROD"))
	}

	return errors.Join(errs...)
}
