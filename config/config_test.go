package config

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ENV_LOCAL, cfg.Environment)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "log", cfg.Mail.Provider)
	assert.Equal(t, 10*time.Second, cfg.Mail.Timeout)
	assert.Equal(t, "sqlite", cfg.Store.Backend)
	assert.Equal(t, "fs", cfg.Artifacts.Backend)
	assert.Equal(t, 5*time.Second, cfg.Artifacts.WriteTimeout)
	assert.Equal(t, "M", cfg.Ticket.QRLevel)
	assert.Equal(t, 256, cfg.Ticket.QRSize)
	assert.True(t, cfg.Ticket.Compress)
	assert.InDelta(t, 0.25, cfg.Ticket.QRFraction, 1e-9)
	assert.Equal(t, []string{"https://icaa.world"}, cfg.AllowedOrigins)

	def := cfg.Event.DefaultEvent()
	assert.Equal(t, "March 15 - 16, 2025", def.Dates)
	assert.Equal(t, "08:00 AM - 5:00 PM (IST)", def.Times)
	assert.Equal(t, "M Weddings & Conventions", def.EventLocation.Name)
	assert.Equal(t, "600095", def.EventLocation.LocAddress.PostalCode)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ENV", "prod")
	t.Setenv("ADMIN_TOKEN", "secret")
	t.Setenv("MAIL_PROVIDER", "smtp")
	t.Setenv("MAIL_SMTP_HOST", "smtp.example.com")
	t.Setenv("MAIL_SMTP_PORT", "2525")
	t.Setenv("STORE_BACKEND", "dynamo")
	t.Setenv("STORE_DYNAMO_TABLE", "Tickets")
	t.Setenv("ARTIFACT_BACKEND", "s3")
	t.Setenv("ARTIFACT_BUCKET", "icaa-tickets")
	t.Setenv("TICKET_COMPRESS", "false")
	t.Setenv("TICKET_QR_FRACTION", "0.4")
	t.Setenv("EVENT_CATALOG", "dynamo")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ENV_PROD, cfg.Environment)
	assert.Equal(t, "smtp.example.com", cfg.Mail.SMTPHost)
	assert.Equal(t, 2525, cfg.Mail.SMTPPort)
	assert.Equal(t, "Tickets", cfg.Store.DynamoTable)
	assert.Equal(t, "icaa-tickets", cfg.Artifacts.Bucket)
	assert.False(t, cfg.Ticket.Compress)
	assert.InDelta(t, 0.4, cfg.Ticket.QRFraction, 1e-9)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestValidate(t *testing.T) {
	base, err := Load()
	require.NoError(t, err)

	tests := []struct {
		name   string
		modify func(c *Config)
		want   string
	}{
		{"unknown env", func(c *Config) { c.Environment = "STAGING" }, "ENV must be LOCAL or PROD"},
		{"unknown mail provider", func(c *Config) { c.Mail.Provider = "pigeon" }, "MAIL_PROVIDER"},
		{"smtp without host", func(c *Config) { c.Mail.Provider = "smtp" }, "MAIL_SMTP_HOST"},
		{"unknown store", func(c *Config) { c.Store.Backend = "mongo" }, "STORE_BACKEND"},
		{"s3 without bucket", func(c *Config) { c.Artifacts.Backend = "s3" }, "ARTIFACT_BUCKET"},
		{"dynamo catalog without dynamo store", func(c *Config) { c.Event.Catalog = "dynamo" }, "EVENT_CATALOG=dynamo"},
		{"qr fraction too large", func(c *Config) { c.Ticket.QRFraction = 0.9 }, "TICKET_QR_FRACTION"},
		{"qr size zero", func(c *Config) { c.Ticket.QRSize = 0 }, "TICKET_QR_SIZE"},
		{"prod without admin token", func(c *Config) { c.Environment = ENV_PROD }, "ADMIN_TOKEN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			tt.modify(&c)
			assert.ErrorContains(t, c.Validate(), tt.want)
		})
	}

	t.Run("reports every problem", func(t *testing.T) {
		c := base
		c.Store.Backend = "mongo"
		c.Artifacts.Backend = "tape"
		err := c.Validate()
		assert.ErrorContains(t, err, "STORE_BACKEND")
		assert.ErrorContains(t, err, "ARTIFACT_BACKEND")
	})
}

type mockSSMClient struct {
	GetParameterFunc func(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

func (m *mockSSMClient) GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	return m.GetParameterFunc(ctx, params, optFns...)
}

func TestResolveSecrets(t *testing.T) {
	ctx := context.Background()

	t.Run("fetches the smtp password", func(t *testing.T) {
		var got *ssm.GetParameterInput
		client := &mockSSMClient{
			GetParameterFunc: func(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
				got = params
				return &ssm.GetParameterOutput{Parameter: &types.Parameter{Value: aws.String("hunter2")}}, nil
			},
		}
		c := Config{Mail: MailConfig{SMTPPasswordParam: "/tickets/smtp-password"}}
		require.True(t, c.NeedsSSM())

		require.NoError(t, c.ResolveSecrets(ctx, client))
		assert.Equal(t, "hunter2", c.Mail.SMTPPassword)
		assert.Equal(t, "/tickets/smtp-password", aws.ToString(got.Name))
		assert.True(t, aws.ToBool(got.WithDecryption))
	})

	t.Run("explicit password wins", func(t *testing.T) {
		c := Config{Mail: MailConfig{SMTPPassword: "direct", SMTPPasswordParam: "/p"}}
		assert.False(t, c.NeedsSSM())
		require.NoError(t, c.ResolveSecrets(ctx, &mockSSMClient{}))
		assert.Equal(t, "direct", c.Mail.SMTPPassword)
	})

	t.Run("ssm failure", func(t *testing.T) {
		client := &mockSSMClient{
			GetParameterFunc: func(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
				return nil, errors.New("denied")
			},
		}
		c := Config{Mail: MailConfig{SMTPPasswordParam: "/p"}}
		assert.ErrorContains(t, c.ResolveSecrets(ctx, client), "denied")
	})
}
