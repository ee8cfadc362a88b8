package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/passbite/internal/passcode/entity"
	"github.com/shandysiswandi/passbite/internal/pkg/config"
	"github.com/shandysiswandi/passbite/internal/pkg/gate"
	"github.com/shandysiswandi/passbite/internal/pkg/goerror"
	"github.com/shandysiswandi/passbite/internal/pkg/goroutine"
	"github.com/shandysiswandi/passbite/internal/pkg/instrument"
	"github.com/shandysiswandi/passbite/internal/pkg/validator"
)

const testPermissionToken = "permission-token"

type fakeStore struct {
	mu      sync.Mutex
	records map[string]entity.Passcode

	createErr error
	getErr    error
	markErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: map[string]entity.Passcode{}}
}

func (f *fakeStore) CreatePasscode(_ context.Context, pc entity.Passcode) error {
	if f.createErr != nil {
		return f.createErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[pc.ID] = pc
	return nil
}

func (f *fakeStore) GetPasscode(_ context.Context, id string) (*entity.Passcode, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	pc, ok := f.records[id]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return &pc, nil
}

func (f *fakeStore) MarkPasscodeVerified(_ context.Context, id string, verifiedTime int64) (bool, error) {
	if f.markErr != nil {
		return false, f.markErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	pc, ok := f.records[id]
	if !ok || pc.VerifiedTime != 0 {
		return false, nil
	}
	pc.VerifiedTime = verifiedTime
	f.records[id] = pc
	return true, nil
}

type fakeSMS struct {
	err      error
	lastTo   string
	lastBody string
	calls    int
}

func (f *fakeSMS) SendSMS(_ context.Context, phoneNumber, message string) (string, error) {
	f.calls++
	f.lastTo = phoneNumber
	f.lastBody = message
	if f.err != nil {
		return "", f.err
	}
	return "receipt-1", nil
}

type fakeMQ struct {
	mu       sync.Mutex
	issued   []PasscodeIssuedEvent
	verified []PasscodeVerifiedEvent
}

func (f *fakeMQ) PublishPasscodeIssued(_ context.Context, msg PasscodeIssuedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.issued = append(f.issued, msg)
	return nil
}

func (f *fakeMQ) PublishPasscodeVerified(_ context.Context, msg PasscodeVerifiedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.verified = append(f.verified, msg)
	return nil
}

type fakeClock struct{ now int64 }

func (f *fakeClock) Now() time.Time { return time.Unix(f.now, 0) }

type fakeUUID struct{ next string }

func (f *fakeUUID) Generate() string { return f.next }

type fixture struct {
	uc      *Usecase
	store   *fakeStore
	sms     *fakeSMS
	mq      *fakeMQ
	clock   *fakeClock
	routine *goroutine.Manager
}

// drainEvents blocks until all scheduled event publishes finished; call it
// before asserting on fx.mq.
func (fx *fixture) drainEvents(t *testing.T) {
	t.Helper()

	if err := fx.routine.Wait(); err != nil {
		t.Fatalf("drain events: %v", err)
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("build validator: %v", err)
	}

	cfg, err := newTestConfig()
	if err != nil {
		t.Fatalf("build config: %v", err)
	}

	st := newFakeStore()
	sms := &fakeSMS{}
	mq := &fakeMQ{}
	clk := &fakeClock{now: 1_700_000_000}
	routine := goroutine.NewManager(8)

	uc := New(Dependency{
		RepoStore:     st,
		RepoMessaging: mq,
		SMS:           sms,
		Gate:          gate.NewStatic(testPermissionToken),
		Validator:     v,
		Config:        cfg,
		UUID:          &fakeUUID{next: "11111111-2222-3333-4444-555555555555"},
		Clock:         clk,
		Goroutine:     routine,
		Instrument:    instrument.NewNoop(),
	})

	return &fixture{uc: uc, store: st, sms: sms, mq: mq, clock: clk, routine: routine}
}

func newTestConfig() (config.Config, error) {
	raw := "modules:\n  passcode:\n    verify_endpoint: /api/v1/passcodes/verify\n"
	return config.NewViperFromBytes("yaml", []byte(raw))
}

func errCode(t *testing.T, err error) goerror.Code {
	t.Helper()

	var ge *goerror.Error
	if !errors.As(err, &ge) {
		t.Fatalf("expected structured error, got %T: %v", err, err)
	}
	return ge.Code()
}
