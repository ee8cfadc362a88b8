package inbound

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shandysiswandi/passbite/internal/passcode/usecase"
	"github.com/shandysiswandi/passbite/internal/pkg/goerror"
	"github.com/shandysiswandi/passbite/internal/pkg/router"
)

type fakeUC struct {
	sendIn    usecase.SendInput
	sendOut   *usecase.SendOutput
	sendErr   error
	verifyIn  usecase.VerifyInput
	verifyOut *usecase.VerifyOutput
	verifyErr error
}

func (f *fakeUC) Send(_ context.Context, in usecase.SendInput) (*usecase.SendOutput, error) {
	f.sendIn = in
	return f.sendOut, f.sendErr
}

func (f *fakeUC) Verify(_ context.Context, in usecase.VerifyInput) (*usecase.VerifyOutput, error) {
	f.verifyIn = in
	return f.verifyOut, f.verifyErr
}

func jsonRequest(body string) *router.Request {
	req := httptest.NewRequest("POST", "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return &router.Request{Request: req}
}

func errCode(t *testing.T, err error) goerror.Code {
	t.Helper()

	var ge *goerror.Error
	if !errors.As(err, &ge) {
		t.Fatalf("expected structured error, got %T: %v", err, err)
	}
	return ge.Code()
}

func TestHTTPEndpointSend(t *testing.T) {
	t.Run("Success", func(t *testing.T) {

		// Arrange
		uc := &fakeUC{sendOut: &usecase.SendOutput{
			ID:              "rec-1",
			DeliveryReceipt: "receipt-1",
			VerifyEndpoint:  "/api/v1/passcodes/verify",
			CreateTime:      1_700_000_000,
			ExpireTime:      1_700_000_060,
		}}
		end := &HTTPEndpoint{uc: uc}

		// Act
		resp, err := end.Send(jsonRequest(`{
			"token": "tok", "phone": "+15550100123", "code": "123456",
			"expire_duration": "60", "prefix": "Acme", "tip": "Keep it secret."
		}`))

		// Assert
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if uc.sendIn.ExpireDuration != 60 {
			t.Fatalf("expected expire_duration parsed to 60, got %d", uc.sendIn.ExpireDuration)
		}
		out, ok := resp.(SendResponse)
		if !ok || out.RecordID != "rec-1" || out.DeliveryReceipt != "receipt-1" || out.ExpireTime != 1_700_000_060 {
			t.Fatalf("unexpected response %+v", resp)
		}
	})

	t.Run("MissingExpireDuration", func(t *testing.T) {
		end := &HTTPEndpoint{uc: &fakeUC{}}

		_, err := end.Send(jsonRequest(`{"token": "tok", "phone": "+15550100123", "code": "123456", "prefix": "Acme", "tip": "t"}`))
		if errCode(t, err) != goerror.CodeInvalidInput {
			t.Fatalf("expected invalid input, got %v", err)
		}
	})

	t.Run("NonNumericExpireDuration", func(t *testing.T) {
		end := &HTTPEndpoint{uc: &fakeUC{}}

		_, err := end.Send(jsonRequest(`{"token": "tok", "phone": "+15550100123", "code": "123456", "expire_duration": "soon", "prefix": "Acme", "tip": "t"}`))
		if errCode(t, err) != goerror.CodeInvalidInput {
			t.Fatalf("expected invalid input, got %v", err)
		}
	})

	t.Run("NegativeExpireDuration", func(t *testing.T) {
		end := &HTTPEndpoint{uc: &fakeUC{}}

		_, err := end.Send(jsonRequest(`{"token": "tok", "phone": "+15550100123", "code": "123456", "expire_duration": "-5", "prefix": "Acme", "tip": "t"}`))
		if errCode(t, err) != goerror.CodeInvalidInput {
			t.Fatalf("expected invalid input, got %v", err)
		}
	})

	t.Run("MalformedBody", func(t *testing.T) {
		end := &HTTPEndpoint{uc: &fakeUC{}}

		_, err := end.Send(jsonRequest(`{"token": `))
		if errCode(t, err) != goerror.CodeInvalidFormat {
			t.Fatalf("expected invalid format, got %v", err)
		}
	})
}

func TestHTTPEndpointVerify(t *testing.T) {
	t.Run("Success", func(t *testing.T) {

		// Arrange
		uc := &fakeUC{verifyOut: &usecase.VerifyOutput{
			ID:             "rec-1",
			CreateTime:     1_700_000_000,
			ExpireDuration: 60,
			VerifiedTime:   1_700_000_030,
		}}
		end := &HTTPEndpoint{uc: uc}

		// Act
		resp, err := end.Verify(jsonRequest(`{"record_id": "rec-1", "token": "tok", "code": "123456"}`))

		// Assert
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if uc.verifyIn.ID != "rec-1" || uc.verifyIn.Token != "tok" || uc.verifyIn.Code != "123456" {
			t.Fatalf("unexpected usecase input %+v", uc.verifyIn)
		}
		out, ok := resp.(VerifyResponse)
		if !ok || out.RecordID != "rec-1" || out.ExpireTime != 1_700_000_060 || out.VerifiedTime != 1_700_000_030 {
			t.Fatalf("unexpected response %+v", resp)
		}
	})

	t.Run("UsecaseError", func(t *testing.T) {
		end := &HTTPEndpoint{uc: &fakeUC{verifyErr: goerror.NewBusiness("incorrect guid", goerror.CodeNotFound)}}

		_, err := end.Verify(jsonRequest(`{"record_id": "rec-x", "token": "tok", "code": "123456"}`))
		if errCode(t, err) != goerror.CodeNotFound {
			t.Fatalf("expected not found, got %v", err)
		}
	})

	t.Run("MalformedBody", func(t *testing.T) {
		end := &HTTPEndpoint{uc: &fakeUC{}}

		_, err := end.Verify(jsonRequest(`not json`))
		if errCode(t, err) != goerror.CodeInvalidFormat {
			t.Fatalf("expected invalid format, got %v", err)
		}
	})
}
