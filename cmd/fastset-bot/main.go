package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const (
	FlagConfigFile = "config"
	FlagEnvFile    = "env-file"
	FlagStatusAddr = "status-addr"
	FlagResultsCSV = "results-csv"
)

type globalOptions struct {
	configFile string
	envFile    string
	statusAddr string
	resultsCSV string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gin.SetMode(gin.ReleaseMode)
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	rootCmd := &cobra.Command{
		Use:   "fastset-bot",
		Short: "Activity bot for the FastSet test network",
		Long: `Sends small random transfers between configured FastSet testnet accounts,
topping balances up from the faucet when needed.

Credentials come from PRIVATE_KEYS and ADDRESSES (comma separated, same length),
recipients from wallet.txt and optional proxies from PROXIES or proxy.txt.

Without a subcommand the interactive menu is started.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return menuMain(cmd, opts)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configFile, FlagConfigFile, "", "Optional YAML config file")
	rootCmd.PersistentFlags().StringVar(&opts.envFile, FlagEnvFile, ".env", "Dotenv file loaded before reading the environment")
	rootCmd.PersistentFlags().StringVar(&opts.statusAddr, FlagStatusAddr, "", "Serve the status API on this address (overrides STATUS_ADDR)")
	rootCmd.PersistentFlags().StringVar(&opts.resultsCSV, FlagResultsCSV, "", "Append per-send results to this CSV file (overrides RESULTS_CSV)")

	rootCmd.AddCommand(
		runCmd(opts),
		balanceCmd(opts),
		menuCmd(opts),
		scheduleCmd(opts),
	)
	return rootCmd
}

func runCmd(opts *globalOptions) *cobra.Command {
	var (
		sends int
		delay int
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one batch over all accounts and exit",
		Long: `Run one batch: every account sends --sends random transfers, waiting --delay
seconds between its sends and 10 seconds between accounts.

Example:
  fastset-bot run --sends 3 --delay 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.applyParamFlags(cmd, sends, delay); err != nil {
				return err
			}
			a.startStatusAPI(cmd.Context())
			_, err = a.runBatch(cmd.Context())
			return err
		},
	}
	cmd.Flags().IntVar(&sends, "sends", 0, "Transfers per account (default SENDS_PER_ACCOUNT)")
	cmd.Flags().IntVar(&delay, "delay", 0, "Seconds between transfers of one account (default DELAY_SECONDS)")
	return cmd
}

func balanceCmd(opts *globalOptions) *cobra.Command {
	var index int
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Show balances of one account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer a.close()
			return a.showBalance(cmd.Context(), index-1)
		},
	}
	cmd.Flags().IntVar(&index, "account", 1, "Account number, starting at 1")
	return cmd
}

func menuCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Start the interactive menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return menuMain(cmd, opts)
		},
	}
}

func menuMain(cmd *cobra.Command, opts *globalOptions) error {
	a, err := newApp(opts, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer a.close()

	a.startStatusAPI(cmd.Context())
	if len(a.accounts) > 0 {
		_ = a.showBalance(cmd.Context(), 0)
	}
	return runMenu(cmd.Context(), a, cmd.InOrStdin(), cmd.OutOrStdout())
}

func scheduleCmd(opts *globalOptions) *cobra.Command {
	var expr string
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run batches on a cron schedule until interrupted",
		Long: `Run a batch on every tick of a cron schedule. A tick that fires while the
previous batch is still running is skipped.

Example:
  fastset-bot schedule --cron "@every 6h"
  fastset-bot schedule --cron "0 */4 * * *"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer a.close()

			if expr == "" {
				expr = a.cfg.Schedule
			}
			a.startStatusAPI(cmd.Context())
			return runSchedule(cmd.Context(), a, expr)
		},
	}
	cmd.Flags().StringVar(&expr, "cron", "", "Cron expression or descriptor (default SCHEDULE)")
	return cmd
}
