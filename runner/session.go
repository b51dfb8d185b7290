package runner

import (
	"fmt"
	"sync"
	"time"
)

// SessionParams are the run parameters in effect for one account.
type SessionParams struct {
	SendsPerAccount int           `json:"sendsPerAccount"`
	Delay           time.Duration `json:"delay"`
}

// Session holds run parameters that may be changed while a batch is running. The batch picks
// up changes at the next account boundary.
type Session struct {
	mu     sync.RWMutex
	params SessionParams
}

func NewSession(sendsPerAccount int, delay time.Duration) (*Session, error) {
	s := &Session{}
	if err := s.Set(sendsPerAccount, delay); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) Set(sendsPerAccount int, delay time.Duration) error {
	if sendsPerAccount < 1 {
		return fmt.Errorf("sends per account must be at least 1, got %d", sendsPerAccount)
	}
	if delay < 0 {
		return fmt.Errorf("delay must not be negative, got %s", delay)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params = SessionParams{SendsPerAccount: sendsPerAccount, Delay: delay}
	return nil
}

func (s *Session) Snapshot() SessionParams {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.params
}
