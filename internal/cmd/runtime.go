package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clear-code/cutter-doc/internal/config"
	"github.com/clear-code/cutter-doc/internal/docbook"
	"github.com/clear-code/cutter-doc/internal/snippet"
)

// loadConfigFromFlag loads config from --config if provided, otherwise from
// the default path. Values from .env and the process environment override
// the file.
func loadConfigFromFlag() (*config.Config, error) {
	cfg, err := loadConfigFile()
	if err != nil {
		return nil, err
	}
	if err := loadDotEnv(); err != nil {
		return nil, err
	}
	cfg.ApplyEnv(envGet)
	return cfg, nil
}

// loadConfigFile reads only the config file, for commands that rewrite it.
func loadConfigFile() (*config.Config, error) {
	if strings.TrimSpace(configFile) != "" {
		return config.Load(configFile)
	}
	return config.ReadConfig()
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil {
		return false
	}
	if cmd.Flags().Changed(name) {
		return true
	}
	return cmd.InheritedFlags().Changed(name)
}

func formatConfigLoadError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("load config: %w", err)
}

func miscInfo(cfg *config.Config, flagValue string) string {
	if v := strings.TrimSpace(flagValue); v != "" {
		return v
	}
	if v := strings.TrimSpace(cfg.MiscInfo); v != "" {
		return v
	}
	return docbook.DefaultMiscInfo
}

func stampName(cfg *config.Config) string {
	if v := strings.TrimSpace(cfg.StampName); v != "" {
		return v
	}
	return snippet.DefaultStampName
}

// checkEnabled resolves --check against the check_output config key.
func checkEnabled(cmd *cobra.Command, cfg *config.Config, flagValue bool) bool {
	if flagChanged(cmd, "check") {
		return flagValue
	}
	return cfg.CheckOutput
}
