package config

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

const (
	// Base configuration flags

	// FlagRootDir is a flag for specifying the root directory
	FlagRootDir = "home"

	// RPC configuration flags

	// FlagRPCAddress is a flag for specifying the ledger RPC endpoint
	FlagRPCAddress = "disperse.rpc.address"

	// Indexer configuration flags

	// FlagIndexerAddress is a flag for specifying the indexer RPC endpoint used for recipient retrieval
	FlagIndexerAddress = "disperse.indexer.address"
	// FlagIndexerPageLimit is a flag for specifying the indexer page size
	FlagIndexerPageLimit = "disperse.indexer.page_limit"
	// FlagIndexerRetryAttempts is a flag for specifying how many times a page fetch is attempted
	FlagIndexerRetryAttempts = "disperse.indexer.retry_attempts"
	// FlagIndexerRetryDelay is a flag for specifying the delay between page fetch attempts
	FlagIndexerRetryDelay = "disperse.indexer.retry_delay"

	// Payout configuration flags

	// FlagMint is a flag for specifying the token mint whose holders receive the payout
	FlagMint = "disperse.payout.mint"
	// FlagAmount is a flag for specifying the amount in lamports sent to each recipient
	FlagAmount = "disperse.payout.amount"
	// FlagKeyFile is a flag for specifying the payer keygen file
	FlagKeyFile = "disperse.payout.key_file"
	// FlagBatchSize is a flag for specifying the maximum number of transfers per transaction
	FlagBatchSize = "disperse.payout.batch_size"
	// FlagMaxRetries is a flag for specifying the maximum number of submission retries per batch
	FlagMaxRetries = "disperse.payout.max_retries"
	// FlagRetryDelay is a flag for specifying the delay between submission attempts
	FlagRetryDelay = "disperse.payout.retry_delay"
	// FlagBatchDelay is a flag for specifying the delay between consecutive batches
	FlagBatchDelay = "disperse.payout.batch_delay"
	// FlagCommitment is a flag for specifying the commitment level to await on submission
	FlagCommitment = "disperse.payout.commitment"

	// Instrumentation configuration flags

	// FlagPrometheus is a flag for enabling Prometheus metrics
	FlagPrometheus = "disperse.instrumentation.prometheus"
	// FlagPrometheusListenAddr is a flag for specifying the Prometheus listen address
	FlagPrometheusListenAddr = "disperse.instrumentation.prometheus_listen_addr"

	// Logging configuration flags

	// FlagLogLevel is a flag for specifying the log level
	FlagLogLevel = "disperse.log.level"
	// FlagLogFormat is a flag for specifying the log format
	FlagLogFormat = "disperse.log.format"
)

// DurationWrapper is a wrapper for time.Duration that implements
// encoding.TextMarshaler and encoding.TextUnmarshaler needed for YAML
// marshalling/unmarshalling.
type DurationWrapper struct {
	time.Duration
}

// MarshalText implements encoding.TextMarshaler to format the duration as text
func (d DurationWrapper) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler to parse the duration from text
func (d *DurationWrapper) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// Config stores the full disperse configuration.
type Config struct {
	// Base configuration
	RootDir string `mapstructure:"-" yaml:"-" comment:"Root directory where disperse files are located"`

	// Ledger RPC configuration
	RPC RPCConfig `mapstructure:"rpc" yaml:"rpc"`

	// Recipient indexer configuration
	Indexer IndexerConfig `mapstructure:"indexer" yaml:"indexer"`

	// Payout engine configuration
	Payout PayoutConfig `mapstructure:"payout" yaml:"payout"`

	// Instrumentation configuration
	Instrumentation *InstrumentationConfig `mapstructure:"instrumentation" yaml:"instrumentation"`

	// Logging configuration
	Log LogConfig `mapstructure:"log" yaml:"log"`
}

// RPCConfig contains the ledger RPC connection parameters.
type RPCConfig struct {
	Address string `mapstructure:"address" yaml:"address" comment:"Ledger RPC endpoint URL"`
}

// IndexerConfig contains the recipient-retrieval parameters.
type IndexerConfig struct {
	Address       string          `mapstructure:"address" yaml:"address" comment:"Indexer RPC endpoint used to enumerate token holders"`
	PageLimit     int             `mapstructure:"page_limit" yaml:"page_limit" comment:"Number of token accounts fetched per page"`
	RetryAttempts int             `mapstructure:"retry_attempts" yaml:"retry_attempts" comment:"Number of attempts per page fetch before giving up"`
	RetryDelay    DurationWrapper `mapstructure:"retry_delay" yaml:"retry_delay" comment:"Delay between page fetch attempts (duration). Examples: \"500ms\", \"1s\", \"5s\"."`
}

// PayoutConfig contains all payout engine parameters.
type PayoutConfig struct {
	Mint       string          `mapstructure:"mint" yaml:"mint" comment:"Token mint whose holders receive the payout"`
	Amount     uint64          `mapstructure:"amount" yaml:"amount" comment:"Amount in lamports sent to each recipient"`
	KeyFile    string          `mapstructure:"key_file" yaml:"key_file" comment:"Path to the payer solana-keygen JSON file"`
	BatchSize  int             `mapstructure:"batch_size" yaml:"batch_size" comment:"Maximum number of transfers bundled into one transaction"`
	MaxRetries int             `mapstructure:"max_retries" yaml:"max_retries" comment:"Maximum number of submission retries per batch (total attempts = max_retries + 1)"`
	RetryDelay DurationWrapper `mapstructure:"retry_delay" yaml:"retry_delay" comment:"Delay between submission attempts for the same batch (duration)"`
	BatchDelay DurationWrapper `mapstructure:"batch_delay" yaml:"batch_delay" comment:"Delay between consecutive batches (duration)"`
	Commitment string          `mapstructure:"commitment" yaml:"commitment" comment:"Commitment level awaited on submission: processed, confirmed or finalized"`
}

// InstrumentationConfig defines the configuration for metrics reporting.
type InstrumentationConfig struct {
	Prometheus           bool   `mapstructure:"prometheus" yaml:"prometheus" comment:"Enable Prometheus metrics"`
	PrometheusListenAddr string `mapstructure:"prometheus_listen_addr" yaml:"prometheus_listen_addr" comment:"Address to listen for Prometheus collector connections"`
}

// IsPrometheusEnabled returns true if Prometheus metrics are enabled.
func (cfg *InstrumentationConfig) IsPrometheusEnabled() bool {
	return cfg != nil && cfg.Prometheus
}

// LogConfig contains the logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level" comment:"Log level: debug, info, warn, error"`
	Format string `mapstructure:"format" yaml:"format" comment:"Log format: text or json"`
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if c.RPC.Address == "" {
		return fmt.Errorf("rpc.address must not be empty")
	}
	if c.Payout.BatchSize < 1 {
		return fmt.Errorf("payout.batch_size must be at least 1, got %d", c.Payout.BatchSize)
	}
	if c.Payout.MaxRetries < 0 {
		return fmt.Errorf("payout.max_retries must not be negative, got %d", c.Payout.MaxRetries)
	}
	switch c.Payout.Commitment {
	case "processed", "confirmed", "finalized":
	default:
		return fmt.Errorf("payout.commitment must be processed, confirmed or finalized, got %q", c.Payout.Commitment)
	}
	if c.Indexer.PageLimit < 1 {
		return fmt.Errorf("indexer.page_limit must be at least 1, got %d", c.Indexer.PageLimit)
	}
	if c.Indexer.RetryAttempts < 1 {
		return fmt.Errorf("indexer.retry_attempts must be at least 1, got %d", c.Indexer.RetryAttempts)
	}
	return nil
}

// AddFlags adds disperse configuration options to a cobra Command.
func AddFlags(cmd *cobra.Command) {
	def := DefaultConfig

	// RPC configuration flags
	cmd.Flags().String(FlagRPCAddress, def.RPC.Address, "ledger RPC endpoint")

	// Indexer configuration flags
	cmd.Flags().String(FlagIndexerAddress, def.Indexer.Address, "indexer RPC endpoint for recipient retrieval")
	cmd.Flags().Int(FlagIndexerPageLimit, def.Indexer.PageLimit, "token accounts fetched per indexer page")
	cmd.Flags().Int(FlagIndexerRetryAttempts, def.Indexer.RetryAttempts, "attempts per indexer page fetch")
	cmd.Flags().Duration(FlagIndexerRetryDelay, def.Indexer.RetryDelay.Duration, "delay between indexer page fetch attempts")

	// Payout configuration flags
	cmd.Flags().String(FlagMint, def.Payout.Mint, "token mint whose holders receive the payout")
	cmd.Flags().Uint64(FlagAmount, def.Payout.Amount, "amount in lamports sent to each recipient")
	cmd.Flags().String(FlagKeyFile, def.Payout.KeyFile, "path to the payer solana-keygen JSON file")
	cmd.Flags().Int(FlagBatchSize, def.Payout.BatchSize, "maximum transfers bundled into one transaction")
	cmd.Flags().Int(FlagMaxRetries, def.Payout.MaxRetries, "maximum submission retries per batch")
	cmd.Flags().Duration(FlagRetryDelay, def.Payout.RetryDelay.Duration, "delay between submission attempts for the same batch")
	cmd.Flags().Duration(FlagBatchDelay, def.Payout.BatchDelay.Duration, "delay between consecutive batches")
	cmd.Flags().String(FlagCommitment, def.Payout.Commitment, "commitment level awaited on submission")

	// Instrumentation configuration flags
	instrDef := DefaultInstrumentationConfig()
	cmd.Flags().Bool(FlagPrometheus, instrDef.Prometheus, "enable Prometheus metrics")
	cmd.Flags().String(FlagPrometheusListenAddr, instrDef.PrometheusListenAddr, "Prometheus metrics listen address")

	// Logging configuration flags
	cmd.Flags().String(FlagLogLevel, def.Log.Level, "log level (debug, info, warn, error)")
	cmd.Flags().String(FlagLogFormat, def.Log.Format, "log format (text, json)")
}
