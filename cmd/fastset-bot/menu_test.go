package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fastset-labs/fastset-go-sdk/runner"
	"github.com/fastset-labs/fastset-go-sdk/tokens"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		in   string
		want Command
	}{
		{"1", CommandStart},
		{" 2 ", CommandParams},
		{"reload", CommandReload},
		{"BALANCE", CommandBalance},
		{"5", CommandClear},
		{"exit", CommandExit},
	}
	for _, tt := range tests {
		got, err := parseCommand(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"", "0", "7", "go", "-1"} {
		_, err := parseCommand(bad)
		assert.ErrorIs(t, err, errUnknownCommand, bad)
	}

	assert.Equal(t, "params", CommandParams.String())
	assert.Equal(t, "Command(9)", Command(9).String())
}

func TestParseIntDefault(t *testing.T) {
	n, err := parseIntDefault("", 4, 1)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	n, err = parseIntDefault(" 7 ", 4, 1)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	n, err = parseIntDefault("0", 5, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	_, err = parseIntDefault("0", 4, 1)
	assert.Error(t, err)
	_, err = parseIntDefault("abc", 4, 1)
	assert.Error(t, err)
}

// fakeNode is a minimal FastSet API that reports a large balance for every token.
type fakeNode struct {
	mu        sync.Mutex
	ops       []string
	transfers []map[string]any
}

func (n *fakeNode) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		op := strings.TrimPrefix(r.URL.Path, "/api/")
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		n.mu.Lock()
		n.ops = append(n.ops, op)
		if strings.HasPrefix(op, "transfer") {
			n.transfers = append(n.transfers, body)
		}
		n.mu.Unlock()

		if op != "getAccountInfo" {
			w.WriteHeader(http.StatusOK)
			return
		}
		balances := map[string]string{}
		for _, tok := range tokens.Default() {
			if tok.ID != "" {
				balances[tok.ID] = "0xffffffffffffffffffffffff"
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"balance":       "0xffffffffffffffffffffffff",
			"nextNonce":     3,
			"tokenBalances": balances,
		})
	})
}

func (n *fakeNode) snapshot() ([]string, []map[string]any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.ops...), append([]map[string]any(nil), n.transfers...)
}

func testAddress(t *testing.T, fill byte) string {
	t.Helper()
	data, err := bech32.ConvertBits(bytes.Repeat([]byte{fill}, 32), 8, 5, true)
	require.NoError(t, err)
	addr, err := bech32.Encode("set", data)
	require.NoError(t, err)
	return addr
}

// syncBuffer is shared by the menu and a background batch.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// newTestApp points the bot at a fake node with one account and one foreign recipient.
func newTestApp(t *testing.T) (*app, *fakeNode, *syncBuffer, string) {
	t.Helper()
	color.NoColor = true

	node := &fakeNode{}
	srv := httptest.NewServer(node.handler(t))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	own := testAddress(t, 0x11)
	other := testAddress(t, 0x22)
	walletFile := filepath.Join(dir, "wallet.txt")
	require.NoError(t, os.WriteFile(walletFile, []byte(own+"\n"+other+"\n"), 0o600))

	t.Setenv("API_BASE", srv.URL+"/api/")
	t.Setenv("PRIVATE_KEYS", strings.Repeat("ab", 32))
	t.Setenv("ADDRESSES", own)
	t.Setenv("WALLET_FILE", walletFile)
	t.Setenv("PROXY_FILE", filepath.Join(dir, "proxy.txt"))
	t.Setenv("LOG_FILE", filepath.Join(dir, "bot.log"))
	t.Setenv("SENDS_PER_ACCOUNT", "1")
	t.Setenv("DELAY_SECONDS", "0")

	out := &syncBuffer{}
	a, err := newApp(&globalOptions{resultsCSV: filepath.Join(dir, "results.csv")}, out)
	require.NoError(t, err)
	t.Cleanup(a.close)
	return a, node, out, other
}

func TestApp_RunBatchSendsToForeignRecipient(t *testing.T) {
	a, node, _, other := newTestApp(t)
	require.Len(t, a.accounts, 1)

	stats, err := a.runBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, runner.BatchStats{Attempted: 1, Succeeded: 1}, stats)

	ops, transfers := node.snapshot()
	assert.NotContains(t, ops, "dripBalance")
	assert.NotContains(t, ops, "dripToken")
	require.Len(t, transfers, 1)
	info := transfers[0]["transferInfo"].(map[string]any)
	assert.Equal(t, base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{0x22}, 32)), info["recipient"])
	assert.EqualValues(t, 3, transfers[0]["nextNonce"])

	data, err := os.ReadFile(a.cfg.ResultsCSV)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "timestamp,"))
	assert.Contains(t, lines[1], other)
}

func TestRunMenu_ParamsBalanceAndExit(t *testing.T) {
	a, node, out, _ := newTestApp(t)

	// params with a valid sends value and a rejected delay, balance of account 1,
	// an invalid choice, then reload, clear and exit.
	input := strings.Join([]string{
		"2", "3", "-1",
		"4", "",
		"9",
		"reload",
		"clear",
		"exit",
	}, "\n") + "\n"

	require.NoError(t, runMenu(context.Background(), a, strings.NewReader(input), out))

	p := a.session.Snapshot()
	assert.Equal(t, 3, p.SendsPerAccount)
	assert.Equal(t, time.Duration(0), p.Delay)

	ops, transfers := node.snapshot()
	assert.Contains(t, ops, "getAccountInfo")
	assert.Empty(t, transfers)

	snap := a.console.Snapshot()
	assert.NotEmpty(t, snap.Wallet.Address)
	assert.Equal(t, "3", snap.Wallet.Nonce)

	var msgs []string
	for _, e := range snap.Logs {
		msgs = append(msgs, e.Message)
	}
	assert.Contains(t, msgs, "Exiting")
	assert.Contains(t, out.String(), "Choose: ")
}

func TestRunMenu_DoubleStartThenExitStopsBatch(t *testing.T) {
	a, node, out, _ := newTestApp(t)
	require.NoError(t, a.session.Set(100, time.Second))

	done := make(chan error, 1)
	go func() {
		done <- runMenu(context.Background(), a, strings.NewReader("1\n1\nexit\n"), out)
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("exit did not stop the running batch")
	}
	assert.False(t, a.runner.Active())

	_, transfers := node.snapshot()
	assert.LessOrEqual(t, len(transfers), 2)

	var msgs []string
	for _, e := range a.console.Snapshot().Logs {
		msgs = append(msgs, e.Message)
	}
	assert.Contains(t, msgs, "A batch is already running")
}

func TestRunMenu_EOFEndsLoop(t *testing.T) {
	a, _, out, _ := newTestApp(t)
	require.NoError(t, runMenu(context.Background(), a, strings.NewReader(""), out))
}

type logDisplay struct {
	mu   sync.Mutex
	msgs []string
}

func (d *logDisplay) Log(_ runner.Level, msg string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.msgs = append(d.msgs, msg)
}

func (d *logDisplay) UpdateWallet(runner.WalletView) {}

func (d *logDisplay) SetTokens([]runner.TokenView) {}

func (d *logDisplay) UpdateStats(runner.BatchStats) {}

func (d *logDisplay) SetActive(bool) {}

func TestBatchScheduler_TickSkipsWhileActive(t *testing.T) {
	var runs int
	active := true
	d := &logDisplay{}
	s := newBatchScheduler(func(context.Context) (runner.BatchStats, error) {
		runs++
		return runner.BatchStats{Attempted: 1, Succeeded: 1}, nil
	}, func() bool { return active }, d, zap.NewNop())

	s.tick(context.Background())
	assert.Equal(t, 0, runs)
	assert.Contains(t, d.msgs, "Previous batch still running, skipping scheduled run")

	active = false
	s.tick(context.Background())
	assert.Equal(t, 1, runs)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.tick(ctx)
	assert.Equal(t, 1, runs)
}

func TestBatchScheduler_RejectsBadExpression(t *testing.T) {
	s := newBatchScheduler(func(context.Context) (runner.BatchStats, error) {
		return runner.BatchStats{}, errors.New("unused")
	}, func() bool { return false }, &logDisplay{}, zap.NewNop())

	err := s.Start(context.Background(), "every now and then")
	assert.ErrorContains(t, err, "invalid schedule")
}
