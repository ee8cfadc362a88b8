package sms

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/shandysiswandi/passbite/internal/pkg/instrument"
	"go.opentelemetry.io/otel/codes"
)

// SNSSender delivers SMS through AWS SNS.
type SNSSender struct {
	client   *sns.Client
	senderID string
	ins      instrument.Instrumentation
}

// NewSNS constructs an SNS-backed sender with the provided options.
func NewSNS(ctx context.Context, opts Options) (*SNSSender, error) {
	cfgOpts := []func(*config.LoadOptions) error{}
	if opts.Region != "" {
		cfgOpts = append(cfgOpts, config.WithRegion(opts.Region))
	} else if opts.Endpoint != "" {
		cfgOpts = append(cfgOpts, config.WithRegion("us-east-1"))
	}
	if opts.AccessKey != "" || opts.SecretKey != "" {
		cfgOpts = append(cfgOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, opts.SessionToken),
		))
	}
	cfg, err := config.LoadDefaultConfig(ctx, cfgOpts...)
	if err != nil {
		return nil, err
	}
	client := sns.NewFromConfig(cfg, func(o *sns.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
	})

	return NewSNSWithClient(client, opts.SenderID, opts.Instrument), nil
}

// NewSNSWithClient wraps an existing SNS client.
func NewSNSWithClient(client *sns.Client, senderID string, ins instrument.Instrumentation) *SNSSender {
	return &SNSSender{client: client, senderID: senderID, ins: ins}
}

// SendSMS publishes the message straight to the phone number as a
// transactional SMS, which carriers prioritize over promotional traffic.
func (s *SNSSender) SendSMS(ctx context.Context, phoneNumber, message string) (string, error) {
	ctx, span := s.ins.Tracer("passcode.outbound.sms").Start(ctx, "SendSMS")
	defer span.End()

	attrs := map[string]types.MessageAttributeValue{
		"AWS.SNS.SMS.SMSType": {
			DataType:    aws.String("String"),
			StringValue: aws.String("Transactional"),
		},
	}
	if s.senderID != "" {
		attrs["AWS.SNS.SMS.SenderID"] = types.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(s.senderID),
		}
	}

	out, err := s.client.Publish(ctx, &sns.PublishInput{
		PhoneNumber:       aws.String(phoneNumber),
		Message:           aws.String(message),
		MessageAttributes: attrs,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("sms: publish to sns: %w", err)
	}

	if out.MessageId == nil {
		err := errors.New("sms: sns publish returned no message id")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	return *out.MessageId, nil
}
