package config

import (
	"os"
	"path/filepath"
	"time"
)

const (
	// DefaultDirPerm is the default permissions used when creating directories.
	DefaultDirPerm = 0750

	// Version is the current disperse version.
	// Please keep updated with each new release.
	Version = "0.1.0"

	// DefaultRPCAddress is the default ledger RPC endpoint.
	DefaultRPCAddress = "https://api.mainnet-beta.solana.com"

	// DefaultBatchSize is the default number of transfers bundled into one
	// transaction. A plain lamport transfer is small enough that twenty of
	// them stay comfortably under the transaction size limit.
	DefaultBatchSize = 20

	// DefaultMaxRetries is the default number of submission retries per batch.
	DefaultMaxRetries = 3

	// DefaultLogLevel is the default log level for the application.
	DefaultLogLevel = "info"
)

// DefaultRootDir returns the default root directory for disperse.
func DefaultRootDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".disperse")
}

// DefaultInstrumentationConfig returns the default instrumentation
// configuration, with metrics disabled.
func DefaultInstrumentationConfig() *InstrumentationConfig {
	return &InstrumentationConfig{
		Prometheus:           false,
		PrometheusListenAddr: ":26660",
	}
}

// DefaultConfig keeps the default configuration values.
var DefaultConfig = Config{
	RootDir: DefaultRootDir(),
	RPC: RPCConfig{
		Address: DefaultRPCAddress,
	},
	Indexer: IndexerConfig{
		Address:       DefaultRPCAddress,
		PageLimit:     1000,
		RetryAttempts: 3,
		RetryDelay:    DurationWrapper{2 * time.Second},
	},
	Payout: PayoutConfig{
		BatchSize:  DefaultBatchSize,
		MaxRetries: DefaultMaxRetries,
		RetryDelay: DurationWrapper{1 * time.Second},
		BatchDelay: DurationWrapper{1 * time.Second},
		Commitment: "finalized",
	},
	Instrumentation: DefaultInstrumentationConfig(),
	Log: LogConfig{
		Level:  DefaultLogLevel,
		Format: "text",
	},
}
