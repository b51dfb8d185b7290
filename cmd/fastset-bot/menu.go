package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fastset-labs/fastset-go-sdk/runner"
)

// Command is one entry of the interactive menu.
type Command int

const (
	CommandStart Command = iota + 1
	CommandParams
	CommandReload
	CommandBalance
	CommandClear
	CommandExit
)

var errUnknownCommand = errors.New("unknown command")

var commandNames = []struct {
	cmd   Command
	name  string
	label string
}{
	{CommandStart, "start", "Start batch"},
	{CommandParams, "params", "Change parameters"},
	{CommandReload, "reload", "Reload wallet.txt"},
	{CommandBalance, "balance", "Show balance"},
	{CommandClear, "clear", "Clear logs"},
	{CommandExit, "exit", "Exit"},
}

func (c Command) String() string {
	for _, n := range commandNames {
		if n.cmd == c {
			return n.name
		}
	}
	return fmt.Sprintf("Command(%d)", int(c))
}

// parseCommand accepts the menu number or the command name.
func parseCommand(s string) (Command, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		if n >= int(CommandStart) && n <= int(CommandExit) {
			return Command(n), nil
		}
		return 0, fmt.Errorf("%w: %q", errUnknownCommand, s)
	}
	for _, n := range commandNames {
		if n.name == s {
			return n.cmd, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", errUnknownCommand, s)
}

// parseIntDefault returns def for empty input and rejects values below floor.
func parseIntDefault(s string, def, floor int) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	if n < floor {
		return 0, fmt.Errorf("must be at least %d, got %d", floor, n)
	}
	return n, nil
}

type menu struct {
	app *app
	in  *bufio.Scanner
	out io.Writer

	// mu guards cancelBatch, which is non-nil exactly while a menu batch goroutine runs.
	mu          sync.Mutex
	batchWG     sync.WaitGroup
	cancelBatch context.CancelFunc
}

func runMenu(ctx context.Context, a *app, in io.Reader, out io.Writer) error {
	m := &menu{app: a, in: bufio.NewScanner(in), out: out}
	defer m.stopBatch()

	for ctx.Err() == nil {
		m.printMenu()
		line, ok := m.readLine()
		if !ok {
			return m.in.Err()
		}
		cmd, err := parseCommand(line)
		if err != nil {
			a.console.Log(runner.LevelWarning, "Invalid choice, enter 1-6")
			continue
		}

		switch cmd {
		case CommandStart:
			m.startBatch(ctx)
		case CommandParams:
			m.promptParams()
		case CommandReload:
			a.reloadRecipients()
		case CommandBalance:
			m.promptBalance(ctx)
		case CommandClear:
			a.console.ClearLogs()
			fmt.Fprint(out, "\033[H\033[2J")
		case CommandExit:
			a.console.Log(runner.LevelInfo, "Exiting")
			return nil
		}
	}
	return nil
}

func (m *menu) printMenu() {
	fmt.Fprintln(m.out)
	for _, n := range commandNames {
		fmt.Fprintf(m.out, "  %d. %s\n", int(n.cmd), n.label)
	}
	fmt.Fprint(m.out, "Choose: ")
}

func (m *menu) readLine() (string, bool) {
	if !m.in.Scan() {
		return "", false
	}
	return m.in.Text(), true
}

func (m *menu) prompt(format string, args ...any) string {
	fmt.Fprintf(m.out, format, args...)
	line, _ := m.readLine()
	return line
}

// startBatch runs a batch in the background so parameters can be changed while it runs. Only
// one menu batch runs at a time.
func (m *menu) startBatch(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancelBatch != nil || m.app.runner.Active() {
		m.app.console.Log(runner.LevelWarning, "A batch is already running")
		return
	}

	batchCtx, cancel := context.WithCancel(ctx)
	m.cancelBatch = cancel
	m.batchWG.Add(1)
	go func() {
		defer m.batchWG.Done()
		defer func() {
			m.mu.Lock()
			m.cancelBatch = nil
			m.mu.Unlock()
			cancel()
		}()

		_, err := m.app.runBatch(batchCtx)
		switch {
		case errors.Is(err, runner.ErrBatchActive):
			m.app.console.Log(runner.LevelWarning, "A batch is already running")
		case err != nil && !errors.Is(err, context.Canceled):
			m.app.log.Warn("batch ended with error", zap.Error(err))
		}
	}()
}

// stopBatch cancels the running menu batch, if any, and waits for it to return.
func (m *menu) stopBatch() {
	m.mu.Lock()
	cancel := m.cancelBatch
	m.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	m.batchWG.Wait()
}

func (m *menu) promptParams() {
	cur := m.app.session.Snapshot()
	sends, delay := cur.SendsPerAccount, int(cur.Delay/time.Second)

	line := m.prompt("Sends per account (Enter=%d): ", sends)
	if n, err := parseIntDefault(line, sends, 1); err != nil {
		m.app.console.Log(runner.LevelWarning, fmt.Sprintf("Invalid sends per account, keeping %d: %v", sends, err))
	} else {
		sends = n
	}

	line = m.prompt("Delay between sends in seconds (Enter=%d): ", delay)
	if n, err := parseIntDefault(line, delay, 0); err != nil {
		m.app.console.Log(runner.LevelWarning, fmt.Sprintf("Invalid delay, keeping %ds: %v", delay, err))
	} else {
		delay = n
	}

	if err := m.app.session.Set(sends, time.Duration(delay)*time.Second); err != nil {
		m.app.console.Log(runner.LevelError, err.Error())
		return
	}
	m.app.console.Log(runner.LevelSuccess, fmt.Sprintf("Parameters set: %d send(s) per account, %ds delay", sends, delay))
}

func (m *menu) promptBalance(ctx context.Context) {
	if len(m.app.accounts) == 0 {
		m.app.console.Log(runner.LevelError, "No accounts loaded, check PRIVATE_KEYS and ADDRESSES")
		return
	}
	line := m.prompt("Account number 1-%d (Enter=1): ", len(m.app.accounts))
	n, err := parseIntDefault(line, 1, 1)
	if err != nil || n > len(m.app.accounts) {
		m.app.console.Log(runner.LevelWarning, fmt.Sprintf("Invalid account number %q", strings.TrimSpace(line)))
		return
	}
	_ = m.app.showBalance(ctx, n-1)
}
