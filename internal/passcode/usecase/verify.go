package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/passbite/internal/pkg/goerror"
	"github.com/shandysiswandi/passbite/internal/shared/event"
)

type VerifyInput struct {
	ID    string `validate:"required"`
	Token string `validate:"required"`
	Code  string `validate:"required"`
}

type VerifyOutput struct {
	ID             string
	CreateTime     int64
	ExpireDuration int64
	VerifiedTime   int64
}

// Verify consumes a passcode. The checks run in a fixed order so the caller
// always learns the first applicable failure: existence, issuer binding, code
// match, prior consumption, expiry. Consumption itself is a conditional write
// keyed on verified_time still being unset, so two racing calls can never both
// succeed.
func (s *Usecase) Verify(ctx context.Context, in VerifyInput) (*VerifyOutput, error) {
	ctx, span := s.startSpan(ctx, "Verify")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	pc, err := s.repoStore.GetPasscode(ctx, in.ID)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "passcode not found", "passcode_id", in.ID)
		return nil, goerror.NewBusiness("incorrect guid", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get passcode", "passcode_id", in.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if subtle.ConstantTimeCompare([]byte(pc.IssuerToken), []byte(in.Token)) != 1 {
		slog.WarnContext(ctx, "passcode issuer mismatch", "passcode_id", in.ID)
		return nil, goerror.NewBusiness("incorrect api_key", goerror.CodeForbidden)
	}

	if subtle.ConstantTimeCompare([]byte(pc.Code), []byte(in.Code)) != 1 {
		slog.WarnContext(ctx, "passcode code mismatch", "passcode_id", in.ID)
		return nil, goerror.NewBusiness("incorrect passcode", goerror.CodeForbidden)
	}

	if pc.IsConsumed() {
		slog.WarnContext(ctx, "passcode already consumed", "passcode_id", in.ID)
		return nil, goerror.NewBusiness("reverify passcode", goerror.CodeConflict)
	}

	now := s.clock.Now().Unix()
	if pc.IsExpired(now) {
		slog.WarnContext(ctx, "passcode expired", "passcode_id", in.ID, "expire_time", pc.ExpireTime())
		return nil, goerror.NewBusiness("exceed expire time", goerror.CodeExpired)
	}

	ok, err := s.repoStore.MarkPasscodeVerified(ctx, in.ID, now)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo mark passcode verified", "passcode_id", in.ID, "error", err)
		return nil, goerror.NewServer(err)
	}
	if !ok {
		// lost the race to a concurrent verify
		slog.WarnContext(ctx, "passcode consumed concurrently", "passcode_id", in.ID)
		return nil, goerror.NewBusiness("reverify passcode", goerror.CodeConflict)
	}

	s.publish(ctx, event.PasscodeVerifiedDestination, func(pCtx context.Context) error {
		return s.repoMessaging.PublishPasscodeVerified(pCtx, PasscodeVerifiedEvent{
			PasscodeID:   in.ID,
			VerifiedTime: now,
		})
	})

	return &VerifyOutput{
		ID:             pc.ID,
		CreateTime:     pc.CreateTime,
		ExpireDuration: pc.ExpireDuration,
		VerifiedTime:   now,
	}, nil
}
