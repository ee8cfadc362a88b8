package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/passbite/internal/passcode/entity"
	"github.com/shandysiswandi/passbite/internal/pkg/clock"
	"github.com/shandysiswandi/passbite/internal/pkg/config"
	"github.com/shandysiswandi/passbite/internal/pkg/gate"
	"github.com/shandysiswandi/passbite/internal/pkg/goroutine"
	"github.com/shandysiswandi/passbite/internal/pkg/instrument"
	"github.com/shandysiswandi/passbite/internal/pkg/uid"
	"github.com/shandysiswandi/passbite/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type PasscodeIssuedEvent struct {
	PasscodeID  string
	PhoneNumber string
	CreateTime  int64
	ExpireTime  int64
}

type PasscodeVerifiedEvent struct {
	PasscodeID   string
	VerifiedTime int64
}

type repoMessaging interface {
	PublishPasscodeIssued(ctx context.Context, msg PasscodeIssuedEvent) error
	PublishPasscodeVerified(ctx context.Context, msg PasscodeVerifiedEvent) error
}

type repoStore interface {
	CreatePasscode(ctx context.Context, pc entity.Passcode) error
	GetPasscode(ctx context.Context, id string) (*entity.Passcode, error)
	MarkPasscodeVerified(ctx context.Context, id string, verifiedTime int64) (bool, error)
}

type smsSender interface {
	SendSMS(ctx context.Context, phoneNumber, message string) (string, error)
}

type Usecase struct {
	repoStore     repoStore
	repoMessaging repoMessaging
	sms           smsSender
	gate          gate.AccessGate
	validator     validator.Validator
	cfg           config.Config
	uuid          uid.StringID
	clock         clock.Clocker
	goroutine     *goroutine.Manager
	ins           instrument.Instrumentation
}

type Dependency struct {
	RepoStore     repoStore
	RepoMessaging repoMessaging
	SMS           smsSender
	Gate          gate.AccessGate
	Validator     validator.Validator
	Config        config.Config
	UUID          uid.StringID
	Clock         clock.Clocker
	Goroutine     *goroutine.Manager
	Instrument    instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoStore:     dep.RepoStore,
		repoMessaging: dep.RepoMessaging,
		sms:           dep.SMS,
		gate:          dep.Gate,
		validator:     dep.Validator,
		cfg:           dep.Config,
		uuid:          dep.UUID,
		clock:         dep.Clock,
		goroutine:     dep.Goroutine,
		ins:           dep.Instrument,
	}
}

// publish runs fn outside the request lifetime; event delivery is best effort
// and never changes the operation outcome.
func (s *Usecase) publish(ctx context.Context, name string, fn func(ctx context.Context) error) {
	s.goroutine.Go(context.WithoutCancel(ctx), func(pCtx context.Context) error {
		if err := fn(pCtx); err != nil {
			slog.ErrorContext(pCtx, "failed to publish event", "event", name, "error", err)
		}

		return nil
	})
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("passcode.usecase").Start(ctx, name)
}

// redactPhone keeps only the last four digits so phone numbers never land in
// logs or events in full.
func redactPhone(phone string) string {
	if len(phone) <= 4 {
		return "****"
	}

	return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
}
