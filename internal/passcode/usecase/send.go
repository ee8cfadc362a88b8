package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/passbite/internal/passcode/entity"
	"github.com/shandysiswandi/passbite/internal/pkg/goerror"
	"github.com/shandysiswandi/passbite/internal/shared/event"
)

type SendInput struct {
	Token          string
	Phone          string `validate:"required"`
	Code           string `validate:"required"`
	ExpireDuration int64  `validate:"min=0"`
	Prefix         string `validate:"required"`
	Tip            string `validate:"required"`
}

type SendOutput struct {
	ID              string
	DeliveryReceipt string
	VerifyEndpoint  string
	CreateTime      int64
	ExpireTime      int64
}

// Send delivers a one-time passcode over SMS and records it for later
// verification. The record is persisted only after the gateway accepted the
// message, so a passcode that was never delivered can never be verified.
func (s *Usecase) Send(ctx context.Context, in SendInput) (*SendOutput, error) {
	ctx, span := s.startSpan(ctx, "Send")
	defer span.End()

	if !s.gate.Authorize(in.Token) {
		slog.WarnContext(ctx, "passcode send denied", "phone", redactPhone(in.Phone))
		return nil, goerror.NewBusiness("incorrect permission token", goerror.CodeUnauthorized)
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	pc := entity.Passcode{
		ID:             s.uuid.Generate(),
		IssuerToken:    in.Token,
		Code:           in.Code,
		ExpireDuration: in.ExpireDuration,
		CreateTime:     s.clock.Now().Unix(),
	}

	message := "[" + in.Prefix + "] Your one-time passcode is " + in.Code + ". " + in.Tip

	receipt, err := s.sms.SendSMS(ctx, in.Phone, message)
	if err != nil {
		slog.ErrorContext(ctx, "failed to deliver passcode sms", "phone", redactPhone(in.Phone), "error", err)
		return nil, goerror.NewDeliveryFailed(err, "failed to deliver passcode")
	}

	if err := s.repoStore.CreatePasscode(ctx, pc); err != nil {
		slog.ErrorContext(ctx, "failed to repo create passcode", "passcode_id", pc.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	s.publish(ctx, event.PasscodeIssuedDestination, func(pCtx context.Context) error {
		return s.repoMessaging.PublishPasscodeIssued(pCtx, PasscodeIssuedEvent{
			PasscodeID:  pc.ID,
			PhoneNumber: redactPhone(in.Phone),
			CreateTime:  pc.CreateTime,
			ExpireTime:  pc.ExpireTime(),
		})
	})

	return &SendOutput{
		ID:              pc.ID,
		DeliveryReceipt: receipt,
		VerifyEndpoint:  s.cfg.GetString("modules.passcode.verify_endpoint"),
		CreateTime:      pc.CreateTime,
		ExpireTime:      pc.ExpireTime(),
	}, nil
}
