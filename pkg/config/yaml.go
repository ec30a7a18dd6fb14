package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ConfigBaseName is the base name of the disperse configuration file without extension.
const ConfigBaseName = "disperse"

// ConfigExtension is the file extension for the configuration file without the leading dot.
const ConfigExtension = "yaml"

// DisperseConfigYaml is the filename for the disperse configuration file.
const DisperseConfigYaml = ConfigBaseName + "." + ConfigExtension

// Load builds the configuration in the following order of precedence:
//  1. DefaultConfig (lowest priority)
//  2. YAML configuration file found in the root directory
//  3. Command line flags (highest priority)
func Load(cmd *cobra.Command) (Config, error) {
	v := viper.New()

	config := DefaultConfig
	setDefaultsInViper(v, config)

	rootDir, err := cmd.Flags().GetString(FlagRootDir)
	if err == nil && rootDir != "" {
		config.RootDir = rootDir
	}

	v.SetConfigName(ConfigBaseName)
	v.SetConfigType(ConfigExtension)
	v.AddConfigPath(config.RootDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config, fmt.Errorf("reading YAML configuration: %w", err)
		}
		// No config file found, continue with defaults.
	}

	bindFlags(v, cmd)

	if err := decodeViper(v, &config); err != nil {
		return config, fmt.Errorf("decoding configuration: %w", err)
	}
	return config, nil
}

// ReadYaml reads the YAML configuration from dir and returns the parsed
// Config on top of the defaults.
func ReadYaml(dir string) (Config, error) {
	v := viper.New()
	v.SetConfigName(ConfigBaseName)
	v.SetConfigType(ConfigExtension)
	v.AddConfigPath(dir)

	config := DefaultConfig
	config.RootDir = dir

	if err := v.ReadInConfig(); err != nil {
		return config, fmt.Errorf("reading %s: %w", DisperseConfigYaml, err)
	}
	if err := decodeViper(v, &config); err != nil {
		return config, fmt.Errorf("decoding %s: %w", DisperseConfigYaml, err)
	}
	return config, nil
}

func decodeViper(v *viper.Viper, config *Config) error {
	return v.Unmarshal(config, func(c *mapstructure.DecoderConfig) {
		c.TagName = "mapstructure"
		c.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
				if t == reflect.TypeOf(DurationWrapper{}) && f.Kind() == reflect.String {
					if str, ok := data.(string); ok {
						duration, err := time.ParseDuration(str)
						if err != nil {
							return nil, err
						}
						return DurationWrapper{Duration: duration}, nil
					}
				}
				return data, nil
			},
		)
	})
}

func setDefaultsInViper(v *viper.Viper, config Config) {
	v.SetDefault("rpc.address", config.RPC.Address)
	v.SetDefault("indexer.address", config.Indexer.Address)
	v.SetDefault("indexer.page_limit", config.Indexer.PageLimit)
	v.SetDefault("indexer.retry_attempts", config.Indexer.RetryAttempts)
	v.SetDefault("indexer.retry_delay", config.Indexer.RetryDelay.String())
	v.SetDefault("payout.mint", config.Payout.Mint)
	v.SetDefault("payout.amount", config.Payout.Amount)
	v.SetDefault("payout.key_file", config.Payout.KeyFile)
	v.SetDefault("payout.batch_size", config.Payout.BatchSize)
	v.SetDefault("payout.max_retries", config.Payout.MaxRetries)
	v.SetDefault("payout.retry_delay", config.Payout.RetryDelay.String())
	v.SetDefault("payout.batch_delay", config.Payout.BatchDelay.String())
	v.SetDefault("payout.commitment", config.Payout.Commitment)
	v.SetDefault("instrumentation.prometheus", config.Instrumentation.Prometheus)
	v.SetDefault("instrumentation.prometheus_listen_addr", config.Instrumentation.PrometheusListenAddr)
	v.SetDefault("log.level", config.Log.Level)
	v.SetDefault("log.format", config.Log.Format)
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) {
	bind := func(key, flag string) {
		if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
			v.Set(key, f.Value.String())
		}
	}
	bind("rpc.address", FlagRPCAddress)
	bind("indexer.address", FlagIndexerAddress)
	bind("indexer.page_limit", FlagIndexerPageLimit)
	bind("indexer.retry_attempts", FlagIndexerRetryAttempts)
	bind("indexer.retry_delay", FlagIndexerRetryDelay)
	bind("payout.mint", FlagMint)
	bind("payout.amount", FlagAmount)
	bind("payout.key_file", FlagKeyFile)
	bind("payout.batch_size", FlagBatchSize)
	bind("payout.max_retries", FlagMaxRetries)
	bind("payout.retry_delay", FlagRetryDelay)
	bind("payout.batch_delay", FlagBatchDelay)
	bind("payout.commitment", FlagCommitment)
	bind("instrumentation.prometheus", FlagPrometheus)
	bind("instrumentation.prometheus_listen_addr", FlagPrometheusListenAddr)
	bind("log.level", FlagLogLevel)
	bind("log.format", FlagLogFormat)
}

// WriteYamlConfig writes the YAML configuration to the disperse.yaml file
// in the config's root directory, annotating every field with the comment
// from its struct tag.
func WriteYamlConfig(config Config) error {
	configPath := filepath.Join(config.RootDir, DisperseConfigYaml)

	if err := os.MkdirAll(filepath.Dir(configPath), DefaultDirPerm); err != nil {
		return err
	}

	yamlCommentMap := yaml.CommentMap{}

	var processFields func(t reflect.Type, prefix string)
	processFields = func(t reflect.Type, prefix string) {
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}

			yamlTag := field.Tag.Get("yaml")
			if yamlTag == "" || yamlTag == "-" {
				continue
			}

			path := prefix + "." + yamlTag
			if comment := field.Tag.Get("comment"); comment != "" {
				yamlCommentMap[path] = []*yaml.Comment{yaml.HeadComment(" " + comment)}
			}

			fieldType := field.Type
			if fieldType.Kind() == reflect.Ptr {
				fieldType = fieldType.Elem()
			}
			if fieldType.Kind() == reflect.Struct && fieldType != reflect.TypeOf(DurationWrapper{}) {
				processFields(fieldType, path)
			}
		}
	}
	processFields(reflect.TypeOf(config), "$")

	data, err := yaml.MarshalWithOptions(config, yaml.WithComment(yamlCommentMap))
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	return os.WriteFile(configPath, data, 0600)
}
