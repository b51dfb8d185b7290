package runner

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
	"time"
)

// SendResult is one row of the results report.
type SendResult struct {
	AccountIndex int
	Address      string
	Token        string
	Amount       string
	BaseAmount   string
	Recipient    string
	Success      bool
	Err          string
	Duration     time.Duration
	Timestamp    time.Time
}

// Recorder persists send results as they happen.
type Recorder interface {
	Record(res SendResult) error
}

var resultsHeader = []string{
	"timestamp", "account_index", "address", "token", "amount", "base_amount",
	"recipient", "success", "error", "duration_ms",
}

// CSVRecorder writes one CSV row per send attempt and flushes after each row.
type CSVRecorder struct {
	mu            sync.Mutex
	w             *csv.Writer
	closer        io.Closer
	headerPending bool
}

// NewCSVRecorder writes to w, starting with a header row.
func NewCSVRecorder(w io.Writer) *CSVRecorder {
	return &CSVRecorder{w: csv.NewWriter(w), headerPending: true}
}

// OpenCSVRecorder appends to path, writing the header only when the file is new or empty.
func OpenCSVRecorder(path string) (*CSVRecorder, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open results CSV: %w", err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat results CSV: %w", err)
	}
	return &CSVRecorder{w: csv.NewWriter(file), closer: file, headerPending: info.Size() == 0}, nil
}

func (r *CSVRecorder) Record(res SendResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.headerPending {
		if err := r.w.Write(resultsHeader); err != nil {
			return fmt.Errorf("failed to write CSV header: %w", err)
		}
		r.headerPending = false
	}
	row := []string{
		res.Timestamp.UTC().Format(time.RFC3339),
		strconv.Itoa(res.AccountIndex),
		res.Address,
		res.Token,
		res.Amount,
		res.BaseAmount,
		res.Recipient,
		strconv.FormatBool(res.Success),
		res.Err,
		strconv.FormatInt(res.Duration.Milliseconds(), 10),
	}
	if err := r.w.Write(row); err != nil {
		return fmt.Errorf("failed to write CSV row: %w", err)
	}
	r.w.Flush()
	return r.w.Error()
}

func (r *CSVRecorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.w.Flush()
	if r.closer == nil {
		return r.w.Error()
	}
	return r.closer.Close()
}
