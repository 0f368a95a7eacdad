package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/ffbuilder/internal/config"
	"github.com/roach88/ffbuilder/internal/render"
)

// MixResult is the molecule-molecule pair table of a configuration.
type MixResult struct {
	Rule  string     `json:"mixing_rule"`
	Pairs []PairLine `json:"pairs"`
}

// PairLine is one mixed pair.
type PairLine struct {
	First  string `json:"first"`
	Second string `json:"second"`
	Line   string `json:"line"`
}

// NewMixCommand creates the mix command.
func NewMixCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mix <config>",
		Short: "Print the molecule-molecule pair table",
		Long: `Print the mixed interactions between every pair of molecule atom types,
as force_field.def would contain them with separate_interactions enabled.

The table is computed regardless of the configuration's flags.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMix(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runMix(opts *RootOptions, configPath string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	db, _, err := loadDatabase(opts)
	if err != nil {
		return fail(formatter, err)
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return fail(formatter, err)
	}

	pairs, err := render.CrossPairs(db, cfg)
	if err != nil {
		return fail(formatter, err)
	}

	result := MixResult{Rule: cfg.MixingRule.String(), Pairs: make([]PairLine, 0, len(pairs))}
	for _, p := range pairs {
		result.Pairs = append(result.Pairs, PairLine{First: p.First, Second: p.Second, Line: p.String()})
	}

	return formatter.Success(result, func(w io.Writer) {
		fmt.Fprintf(w, "# %d pair(s), %s\n", len(result.Pairs), result.Rule)
		for _, p := range result.Pairs {
			fmt.Fprintln(w, p.Line)
		}
	})
}
