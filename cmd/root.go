package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/chassis/internal/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "chassis",
	Short: "Run list mixin scenarios against an in-memory document",
	Long: `Chassis attaches list behaviors (mixins) to document nodes: an ordered
list store that announces every change through events, and a text input
that splits typed text into list values on Enter.

Scenario files script a document and a series of steps; chassis runs them
and prints every event the hosts emitted.

Quick Start:
  chassis run tags.yml            Run a scenario and print its transcript
  chassis run tags.yml --watch    Re-run whenever the file changes
  chassis split "a,b,,c"          Preview how input text is split
  chassis mixins                  List the registered mixins

Command Aliases:
  run (r), mixins (m)`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is .chassis.yml, can also use CHASSIS_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig picks the config file: --config first, then
// CHASSIS_CONFIG_FILE, then .chassis.yml in the working directory. A
// missing file is not an error.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv(config.EnvPrefix + "_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".chassis")
	}

	config.BindEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}
