package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/ffbuilder/internal/forcefield"
)

// newFormatter builds the formatter every command writes through. Verbose
// logs go to stderr to avoid corrupting JSON.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// newLogger returns a text logger on w, at debug level when verbose.
func newLogger(opts *RootOptions, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadDatabase decodes the --db file, or the embedded database when unset.
// The raw document is returned for digesting.
func loadDatabase(opts *RootOptions) (*forcefield.Database, []byte, error) {
	if opts.Database == "" {
		db, err := forcefield.Default()
		return db, forcefield.DefaultDocument(), err
	}
	data, err := os.ReadFile(opts.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("read force-field database: %w", err)
	}
	db, err := forcefield.Decode(opts.Database, data)
	return db, data, err
}
