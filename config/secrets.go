package config

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

type SSMAPI interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// ResolveSecrets fills secrets that are configured as SSM parameter names.
// Values set directly in the environment are left alone.
func (c *Config) ResolveSecrets(ctx context.Context, client SSMAPI) error {
	if c.Mail.SMTPPassword != "" || c.Mail.SMTPPasswordParam == "" {
		return nil
	}

	password, err := getSecureParameter(ctx, client, c.Mail.SMTPPasswordParam)
	if err != nil {
		return err
	}
	c.Mail.SMTPPassword = password
	return nil
}

func getSecureParameter(ctx context.Context, client SSMAPI, name string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("failed to get ssm parameter %q: %w", name, err)
	}
	if out.Parameter == nil || out.Parameter.Value == nil {
		return "", fmt.Errorf("ssm parameter %q has no value", name)
	}
	return aws.ToString(out.Parameter.Value), nil
}

// NeedsSSM reports whether ResolveSecrets has anything to fetch.
func (c Config) NeedsSSM() bool {
	return c.Mail.SMTPPassword == "" && c.Mail.SMTPPasswordParam != ""
}
