package runner

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/fastset-labs/fastset-go-sdk/accounts"
	"github.com/fastset-labs/fastset-go-sdk/address"
	"github.com/fastset-labs/fastset-go-sdk/tokens"
)

// DefaultAccountPause separates the sends of consecutive accounts.
const DefaultAccountPause = 10 * time.Second

// Batch is the input of one run over all accounts.
type Batch struct {
	Accounts     []accounts.Account
	Recipients   []string
	Proxies      []string
	OwnAddresses []string
}

// BatchRunner sends from every account in order, one transfer at a time.
type BatchRunner struct {
	Clients  *ClientPool
	Display  Display
	Tokens   []tokens.Token
	Network  string
	Stats    *Statistics
	Recorder Recorder
	Logger   *zap.Logger

	Rand         Rand
	Sleep        Sleeper
	Now          func() time.Time
	AccountPause time.Duration
	SettleDelay  time.Duration

	active atomic.Bool
}

// Active reports whether a batch is in progress.
func (r *BatchRunner) Active() bool {
	return r.active.Load()
}

// Run executes b with the parameters in session, which must not be nil. Per-send failures are counted, logged and
// otherwise absorbed. Cancelling ctx stops the batch between sends or during a pause; a send
// already under way always completes. The returned stats are those at the time of return.
func (r *BatchRunner) Run(ctx context.Context, b Batch, session *Session) (BatchStats, error) {
	if len(r.Tokens) == 0 {
		return BatchStats{}, errors.New("runner: no tokens configured")
	}
	if session == nil {
		return BatchStats{}, errors.New("runner: nil session")
	}
	if !r.active.CompareAndSwap(false, true) {
		return BatchStats{}, ErrBatchActive
	}
	defer r.active.Store(false)

	display := r.display()
	stats := r.Stats
	if stats == nil {
		stats = &Statistics{}
	}
	log := r.logger()

	display.SetActive(true)
	stats.Reset()
	display.UpdateStats(stats.Snapshot())

	err := r.runAccounts(ctx, b, session, stats)
	if err != nil {
		display.Log(LevelWarning, "Batch stopped: "+err.Error())
	}

	final := stats.Snapshot()
	log.Info("batch finished",
		zap.Int("succeeded", final.Succeeded),
		zap.Int("failed", final.Failed),
		zap.Int("attempted", final.Attempted),
		zap.Error(err))
	display.Log(LevelCompleted, fmt.Sprintf("Batch finished. OK=%d, FAIL=%d, TOTAL=%d", final.Succeeded, final.Failed, final.Attempted))
	display.SetActive(false)
	return final, err
}

func (r *BatchRunner) runAccounts(ctx context.Context, b Batch, session *Session, stats *Statistics) error {
	display := r.display()
	rnd := r.rand()

	for i, acct := range b.Accounts {
		if err := ctx.Err(); err != nil {
			return err
		}
		params := session.Snapshot()

		proxyURL := ""
		if len(b.Proxies) > 0 {
			proxyURL = b.Proxies[i%len(b.Proxies)]
		}
		api := r.Clients.ClientFor(proxyURL)
		sender := &TransferSender{
			API:         api,
			Display:     display,
			Picker:      RecipientPicker{Rand: rnd},
			Sleep:       r.Sleep,
			SettleDelay: r.SettleDelay,
		}

		suffix := ""
		if proxyURL != "" {
			suffix = " (proxy)"
		}
		display.Log(LevelInfo, fmt.Sprintf("== Account #%d: %s%s ==", i+1, address.Short(acct.Address), suffix))
		_ = RefreshBalances(ctx, api, display, acct, r.Network, r.Tokens)

		for n := 0; n < params.SendsPerAccount; n++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			tok := r.Tokens[rnd.IntN(len(r.Tokens))]
			amount := tokens.RandomAmount(rnd, tok)

			start := r.now()
			recipient, err := sender.Send(context.WithoutCancel(ctx), SendRequest{
				Account:    acct,
				Token:      tok,
				Amount:     amount,
				Recipients: b.Recipients,
				Own:        b.OwnAddresses,
			})
			elapsed := r.now().Sub(start)

			snap := stats.Record(err == nil)
			if err != nil {
				display.Log(LevelError, "Tx failed: "+err.Error())
			}
			display.UpdateStats(snap)
			r.record(SendResult{
				AccountIndex: i + 1,
				Address:      acct.Address,
				Token:        tok.Name,
				Amount:       amount.String(),
				BaseAmount:   tokens.ToBaseUnits(amount, tok.Decimals).String(),
				Recipient:    recipient,
				Success:      err == nil,
				Err:          errString(err),
				Duration:     elapsed,
				Timestamp:    start,
			})

			if err := ctx.Err(); err != nil {
				return err
			}
			_ = RefreshBalances(ctx, api, display, acct, r.Network, r.Tokens)

			if n < params.SendsPerAccount-1 && params.Delay > 0 {
				display.Log(LevelInfo, fmt.Sprintf("Waiting %s before the next send...", params.Delay))
				if err := r.sleep(ctx, params.Delay); err != nil {
					return err
				}
			}
		}

		if i < len(b.Accounts)-1 {
			pause := r.accountPause()
			display.Log(LevelInfo, fmt.Sprintf("Next account in %s...", pause))
			if err := r.sleep(ctx, pause); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *BatchRunner) record(res SendResult) {
	r.logger().Info("send",
		zap.Int("account", res.AccountIndex),
		zap.String("token", res.Token),
		zap.String("amount", res.Amount),
		zap.String("recipient", res.Recipient),
		zap.Bool("success", res.Success),
		zap.Duration("duration", res.Duration),
		zap.String("error", res.Err))
	if r.Recorder == nil {
		return
	}
	if err := r.Recorder.Record(res); err != nil {
		r.display().Log(LevelWarning, "Failed to record result: "+err.Error())
	}
}

func (r *BatchRunner) display() Display {
	if r.Display == nil {
		return nopDisplay{}
	}
	return r.Display
}

func (r *BatchRunner) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}

func (r *BatchRunner) rand() Rand {
	if r.Rand == nil {
		return globalRand{}
	}
	return r.Rand
}

func (r *BatchRunner) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

func (r *BatchRunner) sleep(ctx context.Context, d time.Duration) error {
	if r.Sleep != nil {
		return r.Sleep(ctx, d)
	}
	return SleepContext(ctx, d)
}

func (r *BatchRunner) accountPause() time.Duration {
	if r.AccountPause > 0 {
		return r.AccountPause
	}
	return DefaultAccountPause
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
