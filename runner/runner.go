// Package runner drives the send loop: balance checks, faucet fallback, recipient selection,
// nonce-ordered transfers and batch statistics.
package runner

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	fastset "github.com/fastset-labs/fastset-go-sdk"
)

var (
	ErrInsufficientFunds   = errors.New("insufficient funds after faucet claim")
	ErrNoEligibleRecipient = errors.New("no eligible recipient")
	ErrBatchActive         = errors.New("a batch is already running")
)

// API is the part of the wallet client used by the runner. *fastset.Client implements it.
type API interface {
	GetAccountInfo(ctx context.Context, sender string) (*fastset.AccountInfo, error)
	DripBalance(ctx context.Context, req *fastset.DripRequest) error
	DripToken(ctx context.Context, req *fastset.DripRequest) error
	TransferBalance(ctx context.Context, req *fastset.TransferRequest) error
	TransferToken(ctx context.Context, req *fastset.TransferRequest) error
}

var _ API = (*fastset.Client)(nil)

// Level classifies display log lines.
type Level string

const (
	LevelInfo      Level = "info"
	LevelSuccess   Level = "success"
	LevelWarning   Level = "warning"
	LevelError     Level = "error"
	LevelPending   Level = "pending"
	LevelCompleted Level = "completed"
)

// WalletView is the wallet panel of the display.
type WalletView struct {
	Address       string `json:"address"`
	NativeBalance string `json:"nativeBalance"`
	Network       string `json:"network"`
	Nonce         string `json:"nonce"`
}

// TokenView is one row of the token list, with the balance already formatted.
type TokenView struct {
	Name    string `json:"name"`
	Balance string `json:"balance"`
}

// Display receives everything the runner wants to show. Implementations must be safe for
// concurrent use.
type Display interface {
	Log(level Level, msg string)
	UpdateWallet(w WalletView)
	SetTokens(t []TokenView)
	UpdateStats(s BatchStats)
	SetActive(active bool)
}

// Rand is satisfied by *rand.Rand from math/rand/v2.
type Rand interface {
	IntN(n int) int
	Float64() float64
}

type globalRand struct{}

func (globalRand) IntN(n int) int   { return rand.IntN(n) }
func (globalRand) Float64() float64 { return rand.Float64() }

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// SleepContext is the default Sleeper.
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type nopDisplay struct{}

func (nopDisplay) Log(Level, string)       {}
func (nopDisplay) UpdateWallet(WalletView) {}
func (nopDisplay) SetTokens([]TokenView)   {}
func (nopDisplay) UpdateStats(BatchStats)  {}
func (nopDisplay) SetActive(bool)          {}
