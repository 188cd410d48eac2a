package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clear-code/cutter-doc/internal/config"
	"github.com/clear-code/cutter-doc/internal/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
	Long: `Manage CLI configuration stored in ~/.config/cutter-doc/config.yaml.

You can view, set, or unset config keys such as output_format, misc_info,
stamp_name, and check_output.`,
}

var configShowCmd = &cobra.Command{
	Use:         "show",
	Short:       "Show current configuration",
	Annotations: map[string]string{annotationReport: ""},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfigFile()
		if err != nil {
			return formatConfigLoadError(err)
		}
		ctx := commandContext(cmd.Context())
		values := configOutput(cfg)
		if structuredOutputRequested() {
			return printStructured(ctx, values)
		}

		out := stdoutFromContext(ctx)
		fmt.Fprintln(out, "Config:")
		for _, key := range supportedConfigKeys() {
			fmt.Fprintf(out, "  %s: %v\n", key, values[key])
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Unset a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigUnset,
}

var configKeysCmd = &cobra.Command{
	Use:         "keys",
	Short:       "List supported configuration keys",
	Annotations: map[string]string{annotationReport: ""},
	RunE: func(cmd *cobra.Command, args []string) error {
		keys := supportedConfigKeys()
		sort.Strings(keys)

		ctx := commandContext(cmd.Context())
		if structuredOutputRequested() {
			return printStructured(ctx, keys)
		}

		out := stdoutFromContext(ctx)
		fmt.Fprintln(out, "Supported keys:")
		for _, key := range keys {
			fmt.Fprintf(out, "  %s\n", key)
		}
		return nil
	},
}

func configPath() (string, error) {
	if strings.TrimSpace(configFile) != "" {
		return configFile, nil
	}
	return config.DefaultConfigPath()
}

func supportedConfigKeys() []string {
	return []string{
		"output_format",
		"misc_info",
		"stamp_name",
		"check_output",
	}
}

func applyConfigValue(cfg *config.Config, key, value string) error {
	switch key {
	case "output_format":
		format, err := output.ParseFormat(value)
		if err != nil {
			return err
		}
		cfg.OutputFormat = string(format)
	case "misc_info":
		cfg.MiscInfo = value
	case "stamp_name":
		if strings.ContainsAny(value, `/\`) {
			return fmt.Errorf("stamp_name must be a file name, got %q", value)
		}
		cfg.StampName = value
	case "check_output":
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("check_output expects true or false: %w", err)
		}
		cfg.CheckOutput = enabled
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

func clearConfigValue(cfg *config.Config, key string) error {
	switch key {
	case "output_format":
		cfg.OutputFormat = ""
	case "misc_info":
		cfg.MiscInfo = ""
	case "stamp_name":
		cfg.StampName = ""
	case "check_output":
		cfg.CheckOutput = false
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configUnsetCmd)
	configCmd.AddCommand(configKeysCmd)

	rootCmd.AddCommand(configCmd)
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := strings.ToLower(strings.TrimSpace(args[0]))
	value := strings.TrimSpace(args[1])
	return updateConfig(cmd, key, func(cfg *config.Config) error {
		return applyConfigValue(cfg, key, value)
	}, map[string]string{"status": "updated", "key": key, "value": value}, "Updated %s")
}

func runConfigUnset(cmd *cobra.Command, args []string) error {
	key := strings.ToLower(strings.TrimSpace(args[0]))
	return updateConfig(cmd, key, func(cfg *config.Config) error {
		return clearConfigValue(cfg, key)
	}, map[string]string{"status": "unset", "key": key}, "Unset %s")
}

func updateConfig(cmd *cobra.Command, key string, change func(*config.Config) error, report map[string]string, message string) error {
	cfg, err := loadConfigFile()
	if err != nil {
		return formatConfigLoadError(err)
	}
	if err := change(cfg); err != nil {
		return err
	}

	path, err := configPath()
	if err != nil {
		return err
	}
	if err := cfg.Save(path); err != nil {
		return err
	}

	ctx := commandContext(cmd.Context())
	if structuredOutputRequested() {
		return printStructured(ctx, report)
	}
	fmt.Fprintf(stdoutFromContext(ctx), message+"\n", key)
	return nil
}

func configOutput(cfg *config.Config) map[string]interface{} {
	return map[string]interface{}{
		"output_format": cfg.OutputFormat,
		"misc_info":     cfg.MiscInfo,
		"stamp_name":    cfg.StampName,
		"check_output":  cfg.CheckOutput,
	}
}
