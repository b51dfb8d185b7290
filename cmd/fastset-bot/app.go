package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	fastset "github.com/fastset-labs/fastset-go-sdk"
	"github.com/fastset-labs/fastset-go-sdk/accounts"
	"github.com/fastset-labs/fastset-go-sdk/config"
	"github.com/fastset-labs/fastset-go-sdk/display"
	"github.com/fastset-labs/fastset-go-sdk/logger"
	"github.com/fastset-labs/fastset-go-sdk/proxy"
	"github.com/fastset-labs/fastset-go-sdk/runner"
	"github.com/fastset-labs/fastset-go-sdk/statusapi"
	"github.com/fastset-labs/fastset-go-sdk/tokens"
)

var errNoAccounts = errors.New("no accounts loaded")

// app wires configuration, logging, the display and the batch runner for one process.
type app struct {
	cfg      *config.Config
	log      *zap.Logger
	closeLog func()
	console  *display.Console
	session  *runner.Session
	pool     *runner.ClientPool
	runner   *runner.BatchRunner
	recorder *runner.CSVRecorder
	accounts []accounts.Account

	mu         sync.RWMutex
	recipients []string
	proxies    []string

	stopStatus context.CancelFunc
	statusWG   sync.WaitGroup
}

func newApp(opts *globalOptions, out io.Writer) (*app, error) {
	cfg, err := config.Load(config.LoadOptions{EnvFile: opts.envFile, ConfigFile: opts.configFile})
	if err != nil {
		return nil, err
	}
	if opts.statusAddr != "" {
		cfg.StatusAddr = opts.statusAddr
	}
	if opts.resultsCSV != "" {
		cfg.ResultsCSV = opts.resultsCSV
	}

	log, closeLog, err := logger.New(cfg.Logging)
	if err != nil {
		return nil, err
	}
	session, err := runner.NewSession(cfg.SendsPerAccount, cfg.Delay)
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("%w: %v", config.ErrConfig, err)
	}

	a := &app{
		cfg:      cfg,
		log:      log,
		closeLog: closeLog,
		console:  display.New(out, log),
		session:  session,
	}

	sdkLogger := logger.NewSDKLogger(log)
	a.pool = runner.NewClientPool(func(rt http.RoundTripper) runner.API {
		var clientOpts []fastset.Option
		if rt != nil {
			clientOpts = append(clientOpts, fastset.WithHTTPClient(&http.Client{Transport: rt}))
		}
		clientOpts = append(clientOpts,
			fastset.WithTimeout(cfg.HTTPTimeout),
			fastset.WithLogger(sdkLogger),
			fastset.WithRateLimit(cfg.RateLimitRPS),
		)
		return fastset.NewClientWithBaseURL(cfg.Network.APIBase, clientOpts...)
	}, proxy.NewTransport, a.console)

	// Bad credentials or a missing wallet.txt leave the bot running with that feature off.
	if accts, err := accounts.Build(cfg.PrivateKeys, cfg.Addresses); err != nil {
		a.console.Log(runner.LevelError, "Failed to load accounts: "+err.Error())
	} else {
		a.accounts = accts
		a.console.Log(runner.LevelInfo, fmt.Sprintf("Loaded %d account(s)", len(accts)))
	}
	a.reloadRecipients()
	if proxies, err := cfg.LoadProxies(); err != nil {
		a.console.Log(runner.LevelWarning, "Failed to load proxies: "+err.Error())
	} else {
		a.proxies = proxies
	}

	if cfg.ResultsCSV != "" {
		rec, err := runner.OpenCSVRecorder(cfg.ResultsCSV)
		if err != nil {
			a.console.Log(runner.LevelWarning, err.Error())
		} else {
			a.recorder = rec
		}
	}

	a.runner = &runner.BatchRunner{
		Clients: a.pool,
		Display: a.console,
		Tokens:  tokens.Default(),
		Network: cfg.Network.DisplayName,
		Stats:   &runner.Statistics{},
		Logger:  log.Named("runner"),
	}
	if a.recorder != nil {
		a.runner.Recorder = a.recorder
	}

	log.Info("fastset-bot started",
		zap.String("network", cfg.Network.Name),
		zap.String("api", cfg.Network.APIBase),
		zap.Int("accounts", len(a.accounts)),
		zap.Int("proxies", len(a.proxies)))
	return a, nil
}

func (a *app) reloadRecipients() {
	recipients, err := a.cfg.LoadRecipients()
	if err != nil {
		a.console.Log(runner.LevelError, err.Error())
		return
	}
	a.mu.Lock()
	a.recipients = recipients
	a.mu.Unlock()
	a.console.Log(runner.LevelInfo, fmt.Sprintf("Loaded %d recipient address(es) from %s", len(recipients), a.cfg.WalletFile))
}

func (a *app) batch() runner.Batch {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return runner.Batch{
		Accounts:     a.accounts,
		Recipients:   append([]string(nil), a.recipients...),
		Proxies:      append([]string(nil), a.proxies...),
		OwnAddresses: accounts.Addresses(a.accounts),
	}
}

func (a *app) runBatch(ctx context.Context) (runner.BatchStats, error) {
	if len(a.accounts) == 0 {
		a.console.Log(runner.LevelError, "No accounts loaded, check PRIVATE_KEYS and ADDRESSES")
		return runner.BatchStats{}, errNoAccounts
	}
	return a.runner.Run(ctx, a.batch(), a.session)
}

func (a *app) proxyFor(i int) string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if len(a.proxies) == 0 {
		return ""
	}
	return a.proxies[i%len(a.proxies)]
}

func (a *app) showBalance(ctx context.Context, i int) error {
	if i < 0 || i >= len(a.accounts) {
		a.console.Log(runner.LevelError, fmt.Sprintf("Account #%d does not exist (%d loaded)", i+1, len(a.accounts)))
		return errNoAccounts
	}
	api := a.pool.ClientFor(a.proxyFor(i))
	if err := runner.RefreshBalances(ctx, api, a.console, a.accounts[i], a.cfg.Network.DisplayName, tokens.Default()); err != nil {
		return err
	}
	a.console.Render()
	return nil
}

func (a *app) applyParamFlags(cmd *cobra.Command, sends, delay int) error {
	p := a.session.Snapshot()
	if cmd.Flags().Changed("sends") {
		p.SendsPerAccount = sends
	}
	if cmd.Flags().Changed("delay") {
		p.Delay = time.Duration(delay) * time.Second
	}
	if err := a.session.Set(p.SendsPerAccount, p.Delay); err != nil {
		return fmt.Errorf("%w: %v", config.ErrConfig, err)
	}
	return nil
}

func (a *app) startStatusAPI(ctx context.Context) {
	if a.cfg.StatusAddr == "" {
		return
	}
	srv := statusapi.New(a.console, a.session, a.log)
	ctx, a.stopStatus = context.WithCancel(ctx)
	a.statusWG.Add(1)
	go func() {
		defer a.statusWG.Done()
		if err := srv.Run(ctx, a.cfg.StatusAddr); err != nil {
			a.console.Log(runner.LevelError, "Status API stopped: "+err.Error())
		}
	}()
}

func (a *app) close() {
	if a.stopStatus != nil {
		a.stopStatus()
	}
	a.statusWG.Wait()
	if a.recorder != nil {
		if err := a.recorder.Close(); err != nil {
			a.log.Warn("closing results CSV", zap.Error(err))
		}
	}
	a.closeLog()
}
