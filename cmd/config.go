package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/chassis/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect chassis configuration",
	Long: `Inspect chassis configuration files and settings.

Examples:
  chassis config show                       # Show the resolved configuration
  chassis config show --format json         # Show it as JSON
  chassis config validate                   # Validate .chassis.yml
  chassis config validate --file ci.yml     # Validate a specific file`,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Validate a chassis configuration file: log level and format
enumerations, a non-empty separator and non-negative watcher windows.

Examples:
  chassis config validate              # Validate the active configuration
  chassis config validate --file x.yml # Validate a specific file
  chassis config validate --strict     # Treat warnings as errors`,
	Args: cobra.NoArgs,
	RunE: runConfigValidate,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the resolved configuration",
	Long: `Display the configuration after loading the file, applying CHASSIS_*
environment overrides, flags and defaults.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var (
	configFile   string
	configFormat string
	configStrict bool
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configShowCmd)

	configValidateCmd.Flags().
		StringVarP(&configFile, "file", "f", "", "Configuration file to validate (default: the active configuration)")
	configValidateCmd.Flags().BoolVar(&configStrict, "strict", false, "Treat warnings as errors")

	configShowCmd.Flags().StringVar(&configFormat, "format", FormatYAML, "Output format (yaml, json, table)")
	AddFlagValidation(configShowCmd, "format", func(format string) error {
		return ValidateFormat(format, outputFormats)
	})
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	var (
		cfg *config.Config
		err error
	)
	if configFile != "" {
		if err := ValidateFileExists(configFile); err != nil {
			return err
		}
		v := viper.New()
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read %s: %w", configFile, err)
		}
		cfg, err = config.LoadFrom(v)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	result := config.ValidateConfig(cfg)
	if result.HasWarnings() {
		fmt.Fprintln(out, result.String())
		if configStrict {
			return fmt.Errorf("configuration has warnings")
		}
	}
	fmt.Fprintln(out, "Configuration is valid")
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	return render(cmd.OutOrStdout(), configFormat, cfg, func(tw *tabwriter.Writer) {
		writeHeader(tw, "key", "value")
		rows := [][2]any{
			{"log.level", cfg.Log.Level},
			{"log.format", cfg.Log.Format},
			{"log.file", cfg.Log.File},
			{"list.separator", fmt.Sprintf("%q", cfg.List.Separator)},
			{"list.deduplicate", cfg.List.Deduplicate},
			{"watcher.debounce", cfg.Watcher.Debounce},
			{"watcher.file_debounce", cfg.Watcher.FileDebounce},
			{"scenario.keep_going", cfg.Scenario.KeepGoing},
		}
		for _, r := range rows {
			fmt.Fprintf(tw, "%v\t%v\n", r[0], r[1])
		}
	})
}
