package runner

import (
	"bytes"
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/stretchr/testify/require"

	fastset "github.com/fastset-labs/fastset-go-sdk"
	"github.com/fastset-labs/fastset-go-sdk/accounts"
)

// fakeAPI serves balances from a per-call function and records every request.
type fakeAPI struct {
	mu sync.Mutex

	// info returns the account info for the n-th getAccountInfo call (0-based).
	info        func(n int) *fastset.AccountInfo
	infoErr     error
	dripErr     error
	transferErr error

	infoCalls int
	calls     []string
	drips     []fastset.DripRequest
	transfers []fastset.TransferRequest
}

func (f *fakeAPI) GetAccountInfo(_ context.Context, sender string) (*fastset.AccountInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "getAccountInfo")
	n := f.infoCalls
	f.infoCalls++
	if f.infoErr != nil {
		return nil, f.infoErr
	}
	if f.info == nil {
		return &fastset.AccountInfo{}, nil
	}
	return f.info(n), nil
}

func (f *fakeAPI) DripBalance(_ context.Context, req *fastset.DripRequest) error {
	return f.drip("dripBalance", req)
}

func (f *fakeAPI) DripToken(_ context.Context, req *fastset.DripRequest) error {
	return f.drip("dripToken", req)
}

func (f *fakeAPI) drip(op string, req *fastset.DripRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, op)
	f.drips = append(f.drips, *req)
	return f.dripErr
}

func (f *fakeAPI) TransferBalance(_ context.Context, req *fastset.TransferRequest) error {
	return f.transfer("transferBalance", req)
}

func (f *fakeAPI) TransferToken(_ context.Context, req *fastset.TransferRequest) error {
	return f.transfer("transferToken", req)
}

func (f *fakeAPI) transfer(op string, req *fastset.TransferRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, op)
	f.transfers = append(f.transfers, *req)
	return f.transferErr
}

func (f *fakeAPI) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) sentTransfers() []fastset.TransferRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]fastset.TransferRequest(nil), f.transfers...)
}

type logLine struct {
	Level Level
	Msg   string
}

// fakeDisplay records everything it is shown.
type fakeDisplay struct {
	mu      sync.Mutex
	logs    []logLine
	stats   []BatchStats
	wallets []WalletView
	tokens  [][]TokenView
	active  []bool
}

func (d *fakeDisplay) Log(level Level, msg string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.logs = append(d.logs, logLine{level, msg})
}

func (d *fakeDisplay) UpdateWallet(w WalletView) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.wallets = append(d.wallets, w)
}

func (d *fakeDisplay) SetTokens(t []TokenView) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tokens = append(d.tokens, t)
}

func (d *fakeDisplay) UpdateStats(s BatchStats) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stats = append(d.stats, s)
}

func (d *fakeDisplay) SetActive(active bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.active = append(d.active, active)
}

func (d *fakeDisplay) linesAt(level Level) []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []string
	for _, l := range d.logs {
		if l.Level == level {
			out = append(out, l.Msg)
		}
	}
	return out
}

// recordingSleeper returns immediately and remembers what it was asked to wait.
type recordingSleeper struct {
	mu     sync.Mutex
	waits  []time.Duration
	onCall func(n int, d time.Duration)
}

func (s *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	n := len(s.waits)
	s.waits = append(s.waits, d)
	hook := s.onCall
	s.mu.Unlock()
	if hook != nil {
		hook(n, d)
	}
	return ctx.Err()
}

func (s *recordingSleeper) durations() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.waits...)
}

// seqRand replays fixed IntN results (modulo n) and Float64 results.
type seqRand struct {
	mu     sync.Mutex
	ints   []int
	floats []float64
	i, f   int
}

func (r *seqRand) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[r.i%len(r.ints)]
	r.i++
	return v % n
}

func (r *seqRand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.floats) == 0 {
		return 0
	}
	v := r.floats[r.f%len(r.floats)]
	r.f++
	return v
}

func testAddress(t *testing.T, fill byte) string {
	t.Helper()
	data, err := bech32.ConvertBits(bytes.Repeat([]byte{fill}, 32), 8, 5, true)
	require.NoError(t, err)
	addr, err := bech32.Encode("set", data)
	require.NoError(t, err)
	return addr
}

func testAccounts(t *testing.T, fills ...byte) []accounts.Account {
	t.Helper()
	keys := make([]string, len(fills))
	addrs := make([]string, len(fills))
	for i, fill := range fills {
		keys[i] = strings.Repeat(fmt.Sprintf("%02x", fill), 32)
		addrs[i] = testAddress(t, fill)
	}
	accts, err := accounts.Build(keys, addrs)
	require.NoError(t, err)
	return accts
}

func richInfo(nonce uint64) *fastset.AccountInfo {
	plenty, _ := new(big.Int).SetString("1000000000000000000000", 10)
	info := &fastset.AccountInfo{NextNonce: fastset.Nonce(nonce), TokenBalances: map[string]fastset.Amount{}}
	info.Balance = fastset.NewAmount(plenty)
	for _, id := range []string{
		"ReFosxqpCeJTBuJXJOSoAFE8F4+fXpftTJBYs8qAaeI=",
		"webWlA8UWwxnPc+awV0isStdDwYyynDf+eoh3ezEzWc=",
		"2EJhDfYD4V39bKTVgJUhEd0LAs3VUAfEiGRucXc9eHU=",
		"/NHeobovw7GeS14wseW3RmvFRQIojkfWEGG+0HaIPtE=",
	} {
		info.TokenBalances[id] = fastset.NewAmount(plenty)
	}
	return info
}
