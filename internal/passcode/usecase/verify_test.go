package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shandysiswandi/passbite/internal/pkg/goerror"
)

func issue(t *testing.T, fx *fixture) string {
	t.Helper()

	out, err := fx.uc.Send(context.Background(), validSendInput())
	if err != nil {
		t.Fatalf("issue passcode: %v", err)
	}
	return out.ID
}

func validVerifyInput(id string) VerifyInput {
	return VerifyInput{ID: id, Token: testPermissionToken, Code: "123456"}
}

func TestVerify(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {

		// Arrange
		fx := newFixture(t)
		id := issue(t, fx)
		fx.clock.now += 30

		// Act
		out, err := fx.uc.Verify(context.Background(), validVerifyInput(id))

		// Assert
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if out.ID != id || out.VerifiedTime != fx.clock.now {
			t.Fatalf("unexpected output %+v", out)
		}

		// a second identical call must fail, the passcode is single use
		_, err = fx.uc.Verify(context.Background(), validVerifyInput(id))
		if errCode(t, err) != goerror.CodeConflict {
			t.Fatalf("expected already-consumed on reverify, got %v", err)
		}
	})

	t.Run("AtExpiryBoundary", func(t *testing.T) {

		// Arrange
		fx := newFixture(t)
		id := issue(t, fx)
		fx.clock.now += 60

		// Act
		_, err := fx.uc.Verify(context.Background(), validVerifyInput(id))

		// Assert
		if err != nil {
			t.Fatalf("expected success at exactly create_time+expire_duration, got %v", err)
		}
	})

	t.Run("Expired", func(t *testing.T) {

		// Arrange
		fx := newFixture(t)
		id := issue(t, fx)
		fx.clock.now += 61

		// Act
		_, err := fx.uc.Verify(context.Background(), validVerifyInput(id))

		// Assert
		if errCode(t, err) != goerror.CodeExpired {
			t.Fatalf("expected expired, got %v", err)
		}
	})

	t.Run("MissingInput", func(t *testing.T) {
		for name, in := range map[string]VerifyInput{
			"ID":    {Token: testPermissionToken, Code: "123456"},
			"Token": {ID: "some-id", Code: "123456"},
			"Code":  {ID: "some-id", Token: testPermissionToken},
		} {
			t.Run(name, func(t *testing.T) {
				fx := newFixture(t)

				_, err := fx.uc.Verify(context.Background(), in)
				if errCode(t, err) != goerror.CodeInvalidInput {
					t.Fatalf("expected invalid input, got %v", err)
				}
			})
		}
	})

	t.Run("UnknownID", func(t *testing.T) {

		// Arrange
		fx := newFixture(t)

		// Act
		_, err := fx.uc.Verify(context.Background(), validVerifyInput("no-such-id"))

		// Assert
		if errCode(t, err) != goerror.CodeNotFound {
			t.Fatalf("expected not found, got %v", err)
		}
	})

	t.Run("IssuerMismatch", func(t *testing.T) {

		// Arrange
		fx := newFixture(t)
		id := issue(t, fx)
		in := validVerifyInput(id)
		in.Token = "another-issuer"

		// Act
		_, err := fx.uc.Verify(context.Background(), in)

		// Assert
		if errCode(t, err) != goerror.CodeForbidden {
			t.Fatalf("expected issuer mismatch, got %v", err)
		}
	})

	t.Run("IssuerMismatchWinsOverCodeMismatch", func(t *testing.T) {

		// Arrange
		fx := newFixture(t)
		id := issue(t, fx)
		in := validVerifyInput(id)
		in.Token = "another-issuer"
		in.Code = "654321"

		// Act
		_, err := fx.uc.Verify(context.Background(), in)

		// Assert: issuer binding is checked before the code
		var ge *goerror.Error
		if !errors.As(err, &ge) {
			t.Fatalf("expected structured error, got %v", err)
		}
		if ge.Msg() != "incorrect api_key" {
			t.Fatalf("expected issuer mismatch to win, got %q", ge.Msg())
		}
	})

	t.Run("CodeMismatch", func(t *testing.T) {

		// Arrange
		fx := newFixture(t)
		id := issue(t, fx)
		in := validVerifyInput(id)
		in.Code = "654321"

		// Act
		_, err := fx.uc.Verify(context.Background(), in)

		// Assert
		if errCode(t, err) != goerror.CodeForbidden {
			t.Fatalf("expected code mismatch, got %v", err)
		}
	})

	t.Run("CodeMismatchBeforeExpiry", func(t *testing.T) {

		// Arrange
		fx := newFixture(t)
		id := issue(t, fx)
		fx.clock.now += 3600
		in := validVerifyInput(id)
		in.Code = "654321"

		// Act
		_, err := fx.uc.Verify(context.Background(), in)

		// Assert: check order is fixed, a wrong code on an expired record
		// still reports the code problem first
		if errCode(t, err) != goerror.CodeForbidden {
			t.Fatalf("expected code mismatch to win over expiry, got %v", err)
		}
	})

	t.Run("FailedChecksDoNotMutate", func(t *testing.T) {

		// Arrange
		fx := newFixture(t)
		id := issue(t, fx)
		in := validVerifyInput(id)
		in.Code = "654321"

		// Act: repeat the failing attempt a few times
		for range 3 {
			if _, err := fx.uc.Verify(context.Background(), in); errCode(t, err) != goerror.CodeForbidden {
				t.Fatalf("expected stable code mismatch, got %v", err)
			}
		}

		// Assert
		pc, err := fx.store.GetPasscode(context.Background(), id)
		if err != nil {
			t.Fatalf("load record: %v", err)
		}
		if pc.VerifiedTime != 0 {
			t.Fatalf("expected record untouched by failed checks, got %+v", pc)
		}
	})

	t.Run("ConcurrentVerifySucceedsOnce", func(t *testing.T) {

		// Arrange
		fx := newFixture(t)
		id := issue(t, fx)

		// Act
		const callers = 16
		var wg sync.WaitGroup
		results := make([]error, callers)
		for i := range callers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, results[i] = fx.uc.Verify(context.Background(), validVerifyInput(id))
			}()
		}
		wg.Wait()

		// Assert
		successes := 0
		for _, err := range results {
			if err == nil {
				successes++
				continue
			}
			var ge *goerror.Error
			if !errors.As(err, &ge) || ge.Code() != goerror.CodeConflict {
				t.Fatalf("expected losers to see already-consumed, got %v", err)
			}
		}
		if successes != 1 {
			t.Fatalf("expected exactly one successful verify, got %d", successes)
		}
	})

	t.Run("MarkFailure", func(t *testing.T) {

		// Arrange
		fx := newFixture(t)
		id := issue(t, fx)
		fx.store.markErr = errors.New("connection reset")

		// Act
		_, err := fx.uc.Verify(context.Background(), validVerifyInput(id))

		// Assert: a failed consume write is a server error, not an
		// otp-incorrect failure
		if errCode(t, err) != goerror.CodeInternal {
			t.Fatalf("expected server error, got %v", err)
		}
	})

	t.Run("PublishesVerifiedEvent", func(t *testing.T) {

		// Arrange
		fx := newFixture(t)
		id := issue(t, fx)

		// Act
		out, err := fx.uc.Verify(context.Background(), validVerifyInput(id))
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}

		// Assert
		fx.drainEvents(t)
		if len(fx.mq.verified) != 1 {
			t.Fatalf("expected one verified event, got %d", len(fx.mq.verified))
		}
		if fx.mq.verified[0].PasscodeID != id || fx.mq.verified[0].VerifiedTime != out.VerifiedTime {
			t.Fatalf("unexpected verified event %+v", fx.mq.verified[0])
		}
	})
}
