package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/disperse-labs/disperse/pkg/config"
)

// NewInitCmd creates the init command, which writes a commented default
// configuration file to the root directory.
func NewInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultConfig
			if rootDir, err := cmd.Flags().GetString(config.FlagRootDir); err == nil && rootDir != "" {
				cfg.RootDir = rootDir
			}
			if err := config.WriteYamlConfig(cfg); err != nil {
				return fmt.Errorf("writing configuration: %w", err)
			}
			fmt.Printf("wrote %s in %s\n", config.DisperseConfigYaml, cfg.RootDir)
			return nil
		},
	}
}
