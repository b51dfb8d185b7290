// Package display renders bot activity on the terminal and keeps the latest state for
// the status API.
package display

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/fastset-labs/fastset-go-sdk/runner"
)

const defaultMaxLogs = 200

var (
	green     = color.New(color.FgGreen).SprintFunc()
	greenBold = color.New(color.FgGreen, color.Bold).SprintFunc()
	amber     = color.New(color.FgYellow).SprintFunc()
	red       = color.New(color.FgRed).SprintFunc()
	cyan      = color.New(color.FgCyan).SprintFunc()
	magenta   = color.New(color.FgMagenta).SprintFunc()
	whiteBold = color.New(color.FgWhite, color.Bold).SprintFunc()
)

// Entry is one log line kept in memory.
type Entry struct {
	Time    time.Time    `json:"time"`
	Level   runner.Level `json:"level"`
	Message string       `json:"message"`
}

// Snapshot is a copy of everything the console currently shows.
type Snapshot struct {
	Active      bool               `json:"active"`
	Wallet      runner.WalletView  `json:"wallet"`
	Tokens      []runner.TokenView `json:"tokens"`
	Stats       runner.BatchStats  `json:"stats"`
	SuccessRate float64            `json:"successRate"`
	Logs        []Entry            `json:"logs"`
}

// Console prints log lines as they arrive, mirrors them into zap, and remembers the most
// recent lines, wallet panel and statistics.
type Console struct {
	mu      sync.RWMutex
	out     io.Writer
	log     *zap.Logger
	now     func() time.Time
	maxLogs int

	logs   []Entry
	wallet runner.WalletView
	tokens []runner.TokenView
	stats  runner.BatchStats
	active bool
}

var _ runner.Display = (*Console)(nil)

func New(out io.Writer, log *zap.Logger) *Console {
	if log == nil {
		log = zap.NewNop()
	}
	return &Console{out: out, log: log.Named("display"), now: time.Now, maxLogs: defaultMaxLogs}
}

func (c *Console) Log(level runner.Level, msg string) {
	c.mu.Lock()
	e := Entry{Time: c.now(), Level: level, Message: msg}
	c.logs = append(c.logs, e)
	if over := len(c.logs) - c.maxLogs; over > 0 {
		c.logs = append(c.logs[:0:0], c.logs[over:]...)
	}
	fmt.Fprintf(c.out, "%s %s\n", e.Time.Format("15:04:05"), colorize(level, msg))
	c.mu.Unlock()

	switch level {
	case runner.LevelError:
		c.log.Error(msg)
	case runner.LevelWarning:
		c.log.Warn(msg)
	default:
		c.log.Info(msg, zap.String("level", string(level)))
	}
}

func colorize(level runner.Level, msg string) string {
	switch level {
	case runner.LevelSuccess:
		return green("✔ " + msg)
	case runner.LevelWarning:
		return amber("! " + msg)
	case runner.LevelError:
		return red("✖ " + msg)
	case runner.LevelPending:
		return magenta("… " + msg)
	case runner.LevelCompleted:
		return greenBold("★ " + msg)
	default:
		return cyan("• " + msg)
	}
}

func (c *Console) UpdateWallet(w runner.WalletView) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.wallet = w
}

func (c *Console) SetTokens(t []runner.TokenView) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens = append([]runner.TokenView(nil), t...)
}

func (c *Console) UpdateStats(s runner.BatchStats) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats = s
}

func (c *Console) SetActive(active bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = active
}

// ClearLogs drops the in-memory log buffer. The log file is untouched.
func (c *Console) ClearLogs() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logs = nil
}

func (c *Console) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Snapshot{
		Active:      c.active,
		Wallet:      c.wallet,
		Tokens:      append([]runner.TokenView(nil), c.tokens...),
		Stats:       c.stats,
		SuccessRate: c.stats.SuccessRate(),
		Logs:        append([]Entry(nil), c.logs...),
	}
}

// Render prints the wallet panel, token balances and batch statistics.
func (c *Console) Render() {
	s := c.Snapshot()
	var b strings.Builder

	b.WriteString(whiteBold("──────── Wallet ────────") + "\n")
	fmt.Fprintf(&b, "Address : %s\n", orDash(s.Wallet.Address))
	fmt.Fprintf(&b, "Balance : %s SET\n", orDash(s.Wallet.NativeBalance))
	fmt.Fprintf(&b, "Network : %s\n", orDash(s.Wallet.Network))
	fmt.Fprintf(&b, "Nonce   : %s\n", orDash(s.Wallet.Nonce))

	if len(s.Tokens) > 0 {
		b.WriteString(whiteBold("──────── Tokens ────────") + "\n")
		for _, t := range s.Tokens {
			fmt.Fprintf(&b, "%-6s %s\n", t.Name, t.Balance)
		}
	}

	b.WriteString(whiteBold("──────── Stats ─────────") + "\n")
	status := "idle"
	if s.Active {
		status = "running"
	}
	fmt.Fprintf(&b, "Status  : %s\n", status)
	fmt.Fprintf(&b, "Sent    : %d  OK: %d  FAIL: %d  (%.1f%%)\n",
		s.Stats.Attempted, s.Stats.Succeeded, s.Stats.Failed, s.SuccessRate)

	c.mu.Lock()
	defer c.mu.Unlock()
	io.WriteString(c.out, b.String())
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
