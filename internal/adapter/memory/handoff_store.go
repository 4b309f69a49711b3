package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/bornholm/pdfsplit/internal/core/model"
	"github.com/bornholm/pdfsplit/internal/core/port"
	"github.com/pkg/errors"
)

type HandoffStore struct {
	mutex   sync.RWMutex
	payload *model.ChainPayload
}

// Get implements [port.HandoffStore].
func (s *HandoffStore) Get(ctx context.Context) (*model.ChainPayload, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if s.payload == nil {
		return nil, errors.WithStack(port.ErrNotFound)
	}

	return clonePayload(s.payload), nil
}

// Put implements [port.HandoffStore].
func (s *HandoffStore) Put(ctx context.Context, payload *model.ChainPayload) error {
	if payload == nil {
		return errors.New("payload is nil")
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.payload = clonePayload(payload)

	return nil
}

func clonePayload(p *model.ChainPayload) *model.ChainPayload {
	cloned := *p
	cloned.Data = slices.Clone(p.Data)
	return &cloned
}

func NewHandoffStore() *HandoffStore {
	return &HandoffStore{}
}

var _ port.HandoffStore = &HandoffStore{}
