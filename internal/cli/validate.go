package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/ffbuilder/internal/builder"
	"github.com/roach88/ffbuilder/internal/config"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid     bool     `json:"valid"`
	Framework string   `json:"framework,omitempty"`
	Molecules []string `json:"molecules"`
	Documents int      `json:"documents"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <config>",
		Short: "Validate a configuration without writing files",
		Long: `Validate a configuration against the schema and the force-field database.

Every referenced framework and molecule variant is resolved and the full
document set is built in memory, so unmixable interaction pairs are reported
too. Nothing is written.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, configPath string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	db, _, err := loadDatabase(opts)
	if err != nil {
		return fail(formatter, err)
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return fail(formatter, err)
	}
	for _, m := range cfg.Molecules {
		formatter.Progressf("Resolving %s/%s", m.Name, m.Variant)
	}

	logger := newLogger(opts, formatter.ErrWriter)
	set, err := builder.New(db, builder.WithLogger(logger)).Build(cfg)
	if err != nil {
		return fail(formatter, err)
	}

	result := ValidationResult{
		Valid:     true,
		Framework: cfg.Framework,
		Molecules: cfg.MoleculeNames(),
		Documents: set.Len(),
	}
	return formatter.Success(result, func(w io.Writer) {
		framework := result.Framework
		if framework == "" {
			framework = "none"
		}
		fmt.Fprintf(w, "✓ Configuration valid (%d molecule(s), framework %s)\n", len(result.Molecules), framework)
	})
}
