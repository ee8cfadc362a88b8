package sms

import (
	"context"
	"fmt"

	"github.com/shandysiswandi/passbite/internal/pkg/instrument"
)

// Sender delivers a single SMS message. One attempt per call, no queuing or
// retry; it returns the provider's delivery receipt identifier.
type Sender interface {
	SendSMS(ctx context.Context, phoneNumber, message string) (string, error)
}

// Options carries provider settings for the selected driver.
type Options struct {
	Instrument instrument.Instrumentation

	// SNS settings, used by the "sns" driver.
	Region       string
	Endpoint     string
	AccessKey    string
	SecretKey    string
	SessionToken string
	SenderID     string
}

// New selects a Sender driver: "sns" or "log".
func New(ctx context.Context, driver string, opts Options) (Sender, error) {
	switch driver {
	case "sns":
		return NewSNS(ctx, opts)

	case "log":
		return NewLog(opts.Instrument), nil

	default:
		return nil, fmt.Errorf("sms: unsupported driver %q", driver)
	}
}
