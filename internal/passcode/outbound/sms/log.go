package sms

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/shandysiswandi/passbite/internal/pkg/instrument"
)

// LogSender writes messages to the log instead of a carrier. It exists for
// local development, where real SMS delivery is unwanted.
type LogSender struct {
	ins instrument.Instrumentation
	seq atomic.Int64
}

func NewLog(ins instrument.Instrumentation) *LogSender {
	return &LogSender{ins: ins}
}

func (s *LogSender) SendSMS(ctx context.Context, phoneNumber, message string) (string, error) {
	ctx, span := s.ins.Tracer("passcode.outbound.sms").Start(ctx, "SendSMS")
	defer span.End()

	receipt := fmt.Sprintf("log-%d", s.seq.Add(1))
	slog.InfoContext(ctx, "sms delivery skipped, log driver active",
		"phone", phoneNumber, "message", message, "receipt", receipt)

	return receipt, nil
}
