// Package email wraps the SES SendEmail API behind the notify.Mailer shape.
package email

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.uber.org/zap"
)

// Config holds SES client settings.
type Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Sender          string // verified SES sender address
}

// SES sends plain-text email through Amazon SES.
type SES struct {
	client *ses.Client
	sender string
	logger *zap.Logger
}

// NewSES creates an SES client. Credentials fall back to the default chain
// when not set in cfg.
func NewSES(ctx context.Context, cfg Config, logger *zap.Logger) (*SES, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID, cfg.SecretAccessKey, "",
		)))
	} else if logger != nil {
		logger.Warn("SES client using default credential chain (AWS_ACCESS_KEY_ID/AWS_SECRET_ACCESS_KEY not set)")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	if logger != nil {
		logger.Info("SES client ready", zap.String("region", cfg.Region), zap.String("sender", cfg.Sender))
	}
	return &SES{
		client: ses.NewFromConfig(awsCfg),
		sender: cfg.Sender,
		logger: logger,
	}, nil
}

// Send delivers a plain-text message to a single recipient.
func (s *SES) Send(ctx context.Context, to, subject, body string) error {
	_, err := s.client.SendEmail(ctx, &ses.SendEmailInput{
		Source:      aws.String(s.sender),
		Destination: &types.Destination{ToAddresses: []string{to}},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("ses send email: %w", err)
	}
	return nil
}
