package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/conneroisu/chassis/internal/di"
)

var mixinsCmd = &cobra.Command{
	Use:     "mixins",
	Aliases: []string{"m"},
	Short:   "List the registered mixins",
	Long: `List the mixins the registry knows, in name order.

Examples:
  chassis mixins            # Table of names and descriptions
  chassis mixins -o json    # Output as JSON`,
	Args: cobra.NoArgs,
	RunE: runMixins,
}

var mixinsFlags *OutputFlags

func init() {
	rootCmd.AddCommand(mixinsCmd)
	mixinsFlags = AddOutputFlags(mixinsCmd)
}

type mixinRow struct {
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description" yaml:"description"`
	Registered  time.Time `json:"registered" yaml:"registered"`
}

func runMixins(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	container := di.NewServiceContainer(cfg)
	container.SetLogOutput(cmd.ErrOrStderr())
	if err := container.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize service container: %w", err)
	}
	defer func() {
		if shutdownErr := container.Shutdown(context.Background()); shutdownErr != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: Error during container shutdown: %v\n", shutdownErr)
		}
	}()

	reg, err := container.Registry()
	if err != nil {
		return fmt.Errorf("failed to get mixin registry: %w", err)
	}

	rows := make([]mixinRow, 0, reg.Count())
	for _, name := range reg.Names() {
		info, ok := reg.Get(name)
		if !ok {
			continue
		}
		rows = append(rows, mixinRow{Name: info.Name, Description: info.Description, Registered: info.Registered})
	}

	return render(mixinsFlags.Writer(cmd.OutOrStdout()), mixinsFlags.Format, rows, func(tw *tabwriter.Writer) {
		writeHeader(tw, "name", "description")
		for _, r := range rows {
			fmt.Fprintf(tw, "%s\t%s\n", r.Name, r.Description)
		}
	})
}
