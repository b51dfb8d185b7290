package runner

import "sync"

// BatchStats counts send attempts of the current batch. Attempted is always
// Succeeded + Failed.
type BatchStats struct {
	Attempted int `json:"attempted"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// SuccessRate is the share of successful attempts in percent, 100 before the first attempt.
func (s BatchStats) SuccessRate() float64 {
	if s.Attempted == 0 {
		return 100
	}
	return float64(s.Succeeded) / float64(s.Attempted) * 100
}

// Statistics guards the running BatchStats. Record is the only way to count an attempt.
type Statistics struct {
	mu  sync.Mutex
	cur BatchStats
}

func (s *Statistics) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur = BatchStats{}
}

// Record counts one attempt and returns the updated totals.
func (s *Statistics) Record(ok bool) BatchStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur.Attempted++
	if ok {
		s.cur.Succeeded++
	} else {
		s.cur.Failed++
	}
	return s.cur
}

func (s *Statistics) Snapshot() BatchStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur
}
