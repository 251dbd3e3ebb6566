package cmd

import (
	"fmt"
	"regexp"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/conneroisu/chassis/internal/listinput"
)

var splitCmd = &cobra.Command{
	Use:   "split <text>",
	Short: "Split input text into list values",
	Long: `Split shows the values a listinput host would add for the given text.
The separator defaults to list.separator from the configuration.

Examples:
  chassis split "a, b,,c"                  # [a b c]
  chassis split "a;b;b" -s ";" --dedupe    # [a b]
  chassis split "a1b22c" --pattern "[0-9]+" # [a b c]`,
	Args: cobra.ExactArgs(1),
	RunE: runSplit,
}

var (
	splitFlags     *OutputFlags
	splitSeparator string
	splitPattern   string
	splitDedupe    bool
)

func init() {
	rootCmd.AddCommand(splitCmd)

	splitFlags = AddOutputFlags(splitCmd)
	splitCmd.Flags().StringVarP(&splitSeparator, "separator", "s", "", "Literal separator (default from list.separator)")
	splitCmd.Flags().StringVar(&splitPattern, "pattern", "", "Regular expression separator, replaces --separator")
	splitCmd.Flags().BoolVarP(&splitDedupe, "dedupe", "d", false, "Drop tokens seen earlier in the text")
}

func runSplit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	opts := cfg.ListDefaults()
	opts.DeduplicateInput = splitDedupe
	if splitSeparator != "" {
		opts.Separator = splitSeparator
	}
	if splitPattern != "" {
		re, err := regexp.Compile(splitPattern)
		if err != nil {
			return fmt.Errorf("invalid pattern: %w", err)
		}
		opts.Pattern = re
	}

	values := listinput.Split(args[0], opts)
	return render(splitFlags.Writer(cmd.OutOrStdout()), splitFlags.Format, values, func(tw *tabwriter.Writer) {
		writeHeader(tw, "index", "value")
		for i, v := range values {
			fmt.Fprintf(tw, "%d\t%s\n", i, strings.ReplaceAll(v, "\t", " "))
		}
	})
}
