package store

import (
	"context"
	"sync"

	"github.com/shandysiswandi/passbite/internal/passcode/entity"
	"github.com/shandysiswandi/passbite/internal/pkg/goerror"
)

// Memory is an in-process Store for local development and tests. Records are
// never evicted.
type Memory struct {
	mu      sync.RWMutex
	records map[string]entity.Passcode
}

func NewMemory() *Memory {
	return &Memory{records: make(map[string]entity.Passcode)}
}

func (s *Memory) CreatePasscode(_ context.Context, pc entity.Passcode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[pc.ID]; ok {
		return goerror.ErrConflict
	}
	s.records[pc.ID] = pc

	return nil
}

func (s *Memory) GetPasscode(_ context.Context, id string) (*entity.Passcode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pc, ok := s.records[id]
	if !ok {
		return nil, goerror.ErrNotFound
	}

	return &pc, nil
}

func (s *Memory) MarkPasscodeVerified(_ context.Context, id string, verifiedTime int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pc, ok := s.records[id]
	if !ok || pc.VerifiedTime != 0 {
		return false, nil
	}

	pc.VerifiedTime = verifiedTime
	s.records[id] = pc

	return true, nil
}
