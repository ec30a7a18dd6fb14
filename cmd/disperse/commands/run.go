package commands

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gagliardetto/solana-go/rpc"
	logging "github.com/ipfs/go-log/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	coreledger "github.com/disperse-labs/disperse/core/ledger"
	solanaledger "github.com/disperse-labs/disperse/ledger/solana"
	"github.com/disperse-labs/disperse/payout"
	"github.com/disperse-labs/disperse/pkg/config"
	"github.com/disperse-labs/disperse/pkg/wallet"
	"github.com/disperse-labs/disperse/recipients"
	"github.com/disperse-labs/disperse/types"
)

const flagDryRun = "dry-run"

// NewRunCmd creates the run command, which materializes the recipient list
// and distributes the configured amount to each recipient.
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fetch recipients and distribute the configured amount to each",
		RunE:  runPayout,
	}
	config.AddFlags(cmd)
	cmd.Flags().Bool(flagDryRun, false, "run against an in-memory ledger without touching the network")
	return cmd
}

func runPayout(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Payout.Mint == "" {
		return errors.New("payout.mint must be set")
	}
	if cfg.Payout.Amount == 0 {
		return errors.New("payout.amount must be greater than zero")
	}

	if err := setupLogging(cfg.Log); err != nil {
		return err
	}
	logger := logging.Logger("disperse")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := payout.NopMetrics()
	if cfg.Instrumentation.IsPrometheusEnabled() {
		metrics = payout.PrometheusMetrics("disperse")
		startPrometheusServer(logger, cfg.Instrumentation.PrometheusListenAddr)
	}

	dryRun, err := cmd.Flags().GetBool(flagDryRun)
	if err != nil {
		return err
	}

	led, cleanup, err := buildLedger(cfg, dryRun, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	provider := recipients.NewProvider(
		rpc.New(cfg.Indexer.Address),
		logging.Logger("recipients"),
		recipients.WithPageLimit(cfg.Indexer.PageLimit),
		recipients.WithRetry(cfg.Indexer.RetryAttempts, cfg.Indexer.RetryDelay.Duration),
	)
	holders, err := provider.TokenHolders(ctx, cfg.Payout.Mint)
	if err != nil {
		return fmt.Errorf("materializing recipient list: %w", err)
	}
	if len(holders) == 0 {
		logger.Info("no holders found, nothing to distribute", "mint", cfg.Payout.Mint)
		return nil
	}

	manager := payout.NewManager(led, cfg.Payout, logger, metrics)
	outcomes, err := manager.Execute(ctx, holders, cfg.Payout.Amount)
	if err != nil {
		return err
	}

	return report(cmd, outcomes)
}

func buildLedger(cfg config.Config, dryRun bool, logger logging.EventLogger) (coreledger.Ledger, func(), error) {
	if dryRun {
		logger.Info("dry run: using in-memory ledger")
		dummy := coreledger.NewDummyLedger(150, 400*time.Millisecond)
		dummy.StartHeightTicker()
		return dummy, dummy.StopHeightTicker, nil
	}

	payer, err := wallet.LoadFromFile(cfg.Payout.KeyFile)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("payer wallet loaded", "address", payer.Address())
	return solanaledger.NewClient(cfg.RPC.Address, payer, logging.Logger("ledger")), func() {}, nil
}

// report prints one line per batch and returns a non-nil error when any
// batch failed, so the process exit code reflects the run.
func report(cmd *cobra.Command, outcomes []types.Outcome) error {
	var failed error
	failures := 0
	for i, outcome := range outcomes {
		if outcome.Fulfilled() {
			cmd.Printf("batch %d: fulfilled signature=%s\n", i, outcome.Signature)
			continue
		}
		failures++
		failed = multierr.Append(failed, fmt.Errorf("batch %d: %w", i, outcome.Err))
		cmd.Printf("batch %d: rejected cause=%v\n", i, outcome.Err)
	}
	if failed != nil {
		return fmt.Errorf("%d of %d batches failed: %w", failures, len(outcomes), failed)
	}
	cmd.Printf("all %d batches fulfilled\n", len(outcomes))
	return nil
}

func setupLogging(cfg config.LogConfig) error {
	level, err := logging.LevelFromString(cfg.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	format := logging.ColorizedOutput
	if cfg.Format == "json" {
		format = logging.JSONOutput
	}
	logging.SetupLogging(logging.Config{
		Format: format,
		Level:  level,
		Stderr: true,
	})
	return nil
}

func startPrometheusServer(logger logging.EventLogger, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger.Info("serving prometheus metrics", "addr", addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("prometheus server stopped", "error", err)
		}
	}()
}
