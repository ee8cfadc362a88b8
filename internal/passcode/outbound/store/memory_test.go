package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shandysiswandi/passbite/internal/passcode/entity"
	"github.com/shandysiswandi/passbite/internal/pkg/goerror"
)

func samplePasscode() entity.Passcode {
	return entity.Passcode{
		ID:             "11111111-2222-3333-4444-555555555555",
		IssuerToken:    "issuer",
		Code:           "123456",
		ExpireDuration: 60,
		CreateTime:     1_700_000_000,
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("CreateAndGet", func(t *testing.T) {
		s := NewMemory()
		pc := samplePasscode()

		if err := s.CreatePasscode(ctx, pc); err != nil {
			t.Fatalf("create: %v", err)
		}

		got, err := s.GetPasscode(ctx, pc.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if *got != pc {
			t.Fatalf("round trip mismatch:\n got: %+v\nwant: %+v", *got, pc)
		}
	})

	t.Run("CreateDuplicate", func(t *testing.T) {
		s := NewMemory()
		pc := samplePasscode()

		if err := s.CreatePasscode(ctx, pc); err != nil {
			t.Fatalf("create: %v", err)
		}
		if err := s.CreatePasscode(ctx, pc); !errors.Is(err, goerror.ErrConflict) {
			t.Fatalf("expected conflict on duplicate id, got %v", err)
		}
	})

	t.Run("GetUnknown", func(t *testing.T) {
		s := NewMemory()

		if _, err := s.GetPasscode(ctx, "missing"); !errors.Is(err, goerror.ErrNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	})

	t.Run("MarkVerifiedOnce", func(t *testing.T) {
		s := NewMemory()
		pc := samplePasscode()
		if err := s.CreatePasscode(ctx, pc); err != nil {
			t.Fatalf("create: %v", err)
		}

		ok, err := s.MarkPasscodeVerified(ctx, pc.ID, 1_700_000_030)
		if err != nil || !ok {
			t.Fatalf("expected first mark to win, got ok=%v err=%v", ok, err)
		}

		ok, err = s.MarkPasscodeVerified(ctx, pc.ID, 1_700_000_031)
		if err != nil || ok {
			t.Fatalf("expected second mark to lose, got ok=%v err=%v", ok, err)
		}

		got, err := s.GetPasscode(ctx, pc.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.VerifiedTime != 1_700_000_030 {
			t.Fatalf("expected first verified_time to stick, got %d", got.VerifiedTime)
		}
	})

	t.Run("MarkVerifiedUnknown", func(t *testing.T) {
		s := NewMemory()

		ok, err := s.MarkPasscodeVerified(ctx, "missing", 1)
		if err != nil || ok {
			t.Fatalf("expected no-op for unknown id, got ok=%v err=%v", ok, err)
		}
	})

	t.Run("ConcurrentMarkVerified", func(t *testing.T) {
		s := NewMemory()
		pc := samplePasscode()
		if err := s.CreatePasscode(ctx, pc); err != nil {
			t.Fatalf("create: %v", err)
		}

		const callers = 32
		var wg sync.WaitGroup
		wins := make([]bool, callers)
		for i := range callers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				wins[i], _ = s.MarkPasscodeVerified(ctx, pc.ID, int64(1_700_000_000+i))
			}()
		}
		wg.Wait()

		total := 0
		for _, w := range wins {
			if w {
				total++
			}
		}
		if total != 1 {
			t.Fatalf("expected exactly one winner, got %d", total)
		}
	})
}
