package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/shandysiswandi/passbite/internal/pkg/goerror"
)

func validSendInput() SendInput {
	return SendInput{
		Token:          testPermissionToken,
		Phone:          "+15550100123",
		Code:           "123456",
		ExpireDuration: 60,
		Prefix:         "Acme",
		Tip:            "Do not share it with anyone.",
	}
}

func TestSend(t *testing.T) {
	t.Run("Success", func(t *testing.T) {

		// Arrange
		fx := newFixture(t)

		// Act
		out, err := fx.uc.Send(context.Background(), validSendInput())

		// Assert
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if out.ID == "" || out.DeliveryReceipt != "receipt-1" {
			t.Fatalf("expected record id and delivery receipt, got %+v", out)
		}
		if out.VerifyEndpoint != "/api/v1/passcodes/verify" {
			t.Fatalf("unexpected verify endpoint %q", out.VerifyEndpoint)
		}
		if out.ExpireTime != out.CreateTime+60 {
			t.Fatalf("expected expire_time = create_time+60, got %d and %d", out.ExpireTime, out.CreateTime)
		}

		pc, err := fx.store.GetPasscode(context.Background(), out.ID)
		if err != nil {
			t.Fatalf("expected record persisted, got %v", err)
		}
		if pc.Code != "123456" || pc.IssuerToken != testPermissionToken || pc.VerifiedTime != 0 {
			t.Fatalf("unexpected stored record %+v", pc)
		}
	})

	t.Run("MessageBody", func(t *testing.T) {

		// Arrange
		fx := newFixture(t)

		// Act
		if _, err := fx.uc.Send(context.Background(), validSendInput()); err != nil {
			t.Fatalf("expected success, got %v", err)
		}

		// Assert
		want := "[Acme] Your one-time passcode is 123456. Do not share it with anyone."
		if fx.sms.lastBody != want {
			t.Fatalf("unexpected sms body:\n got: %q\nwant: %q", fx.sms.lastBody, want)
		}
		if fx.sms.lastTo != "+15550100123" {
			t.Fatalf("unexpected sms destination %q", fx.sms.lastTo)
		}
	})

	t.Run("WrongPermissionToken", func(t *testing.T) {

		// Arrange
		fx := newFixture(t)
		in := validSendInput()
		in.Token = "stolen"

		// Act
		_, err := fx.uc.Send(context.Background(), in)

		// Assert
		if errCode(t, err) != goerror.CodeUnauthorized {
			t.Fatalf("expected unauthorized, got %v", err)
		}
		if fx.sms.calls != 0 {
			t.Fatalf("expected no sms attempt for unauthorized caller")
		}
	})

	t.Run("EmptyPermissionToken", func(t *testing.T) {

		// Arrange
		fx := newFixture(t)
		in := validSendInput()
		in.Token = ""

		// Act
		_, err := fx.uc.Send(context.Background(), in)

		// Assert
		if errCode(t, err) != goerror.CodeUnauthorized {
			t.Fatalf("expected unauthorized, got %v", err)
		}
	})

	t.Run("MissingFields", func(t *testing.T) {
		for name, mutate := range map[string]func(*SendInput){
			"Phone":  func(in *SendInput) { in.Phone = "" },
			"Code":   func(in *SendInput) { in.Code = "" },
			"Prefix": func(in *SendInput) { in.Prefix = "" },
			"Tip":    func(in *SendInput) { in.Tip = "" },
		} {
			t.Run(name, func(t *testing.T) {

				// Arrange
				fx := newFixture(t)
				in := validSendInput()
				mutate(&in)

				// Act
				_, err := fx.uc.Send(context.Background(), in)

				// Assert
				if errCode(t, err) != goerror.CodeInvalidInput {
					t.Fatalf("expected invalid input, got %v", err)
				}
				if fx.sms.calls != 0 {
					t.Fatalf("expected no sms attempt for invalid input")
				}
			})
		}
	})

	t.Run("NegativeExpireDuration", func(t *testing.T) {

		// Arrange
		fx := newFixture(t)
		in := validSendInput()
		in.ExpireDuration = -1

		// Act
		_, err := fx.uc.Send(context.Background(), in)

		// Assert
		if errCode(t, err) != goerror.CodeInvalidInput {
			t.Fatalf("expected invalid input, got %v", err)
		}
	})

	t.Run("DeliveryFailureSkipsPersistence", func(t *testing.T) {

		// Arrange
		fx := newFixture(t)
		fx.sms.err = errors.New("sns unavailable")

		// Act
		_, err := fx.uc.Send(context.Background(), validSendInput())

		// Assert
		if errCode(t, err) != goerror.CodeDeliveryFailed {
			t.Fatalf("expected delivery failure, got %v", err)
		}
		if len(fx.store.records) != 0 {
			t.Fatalf("expected no record persisted for undelivered passcode")
		}
		fx.drainEvents(t)
		if len(fx.mq.issued) != 0 {
			t.Fatalf("expected no issued event for undelivered passcode")
		}
	})

	t.Run("StoreFailure", func(t *testing.T) {

		// Arrange
		fx := newFixture(t)
		fx.store.createErr = errors.New("connection reset")

		// Act
		_, err := fx.uc.Send(context.Background(), validSendInput())

		// Assert
		if errCode(t, err) != goerror.CodeInternal {
			t.Fatalf("expected server error, got %v", err)
		}
	})

	t.Run("PublishesRedactedIssuedEvent", func(t *testing.T) {

		// Arrange
		fx := newFixture(t)

		// Act
		out, err := fx.uc.Send(context.Background(), validSendInput())
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}

		// Assert
		fx.drainEvents(t)
		if len(fx.mq.issued) != 1 {
			t.Fatalf("expected one issued event, got %d", len(fx.mq.issued))
		}
		ev := fx.mq.issued[0]
		if ev.PasscodeID != out.ID || ev.ExpireTime != out.ExpireTime {
			t.Fatalf("unexpected issued event %+v", ev)
		}
		if ev.PhoneNumber != "********0123" {
			t.Fatalf("expected redacted phone in event, got %q", ev.PhoneNumber)
		}
	})
}
