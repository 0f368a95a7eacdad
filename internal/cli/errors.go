package cli

import (
	"errors"
	"io/fs"

	"cuelang.org/go/cue/token"

	"github.com/roach88/ffbuilder/internal/config"
	"github.com/roach88/ffbuilder/internal/forcefield"
	"github.com/roach88/ffbuilder/internal/mixing"
	"github.com/roach88/ffbuilder/internal/store"
)

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric       = "E001" // Generic/unknown error
	ErrCodeNotFound      = "E005" // Path not found
	ErrCodeWriteFailed   = "E007" // File write error
	ErrCodePublishFailed = "E008" // Blob sink error
	ErrCodeHistory       = "E009" // History store error

	// Build errors
	ErrCodeConfiguration     = "E101" // Malformed or incomplete configuration
	ErrCodeVariantNotFound   = "E102" // Entity or variant missing from the database
	ErrCodeUnsupportedMixing = "E103" // No mixing rule for a pair of kinds
	ErrCodeDatabase          = "E104" // Malformed force-field database
	ErrCodeBuildNotFound     = "E105" // Unknown build ID in history
)

// classify maps an error to its code, exit code and structured details.
func classify(err error) (code string, exit int, details any) {
	var cfgErr *config.ConfigurationError
	var nfErr *forcefield.NotFoundError
	var mixErr *mixing.UnsupportedMixingError
	var decErr *forcefield.DecodeError
	switch {
	case errors.As(err, &cfgErr):
		d := map[string]any{"field": cfgErr.Field}
		if line := lineOf(cfgErr.Pos); line > 0 {
			d["line"] = line
		}
		return ErrCodeConfiguration, ExitFailure, d
	case errors.As(err, &nfErr):
		return ErrCodeVariantNotFound, ExitFailure, map[string]any{"entity": nfErr.Entity, "variant": nfErr.Variant}
	case errors.As(err, &mixErr):
		return ErrCodeUnsupportedMixing, ExitFailure, map[string]any{
			"first":       mixErr.First,
			"first_kind":  string(mixErr.FirstKind),
			"second":      mixErr.Second,
			"second_kind": string(mixErr.SecondKind),
		}
	case errors.As(err, &decErr):
		return ErrCodeDatabase, ExitCommandError, map[string]any{"source": decErr.Source, "path": decErr.Path, "line": decErr.Line}
	case errors.Is(err, store.ErrBuildNotFound):
		return ErrCodeBuildNotFound, ExitFailure, nil
	case errors.Is(err, fs.ErrNotExist):
		return ErrCodeNotFound, ExitCommandError, nil
	default:
		return ErrCodeGeneric, ExitFailure, nil
	}
}

// fail reports err through the formatter and returns the matching ExitError.
func fail(f *OutputFormatter, err error) error {
	code, exit, details := classify(err)
	return failWith(f, code, exit, err, details)
}

// failWith reports err under an explicit code.
func failWith(f *OutputFormatter, code string, exit int, err error, details any) error {
	_ = f.Error(code, err.Error(), details)
	return WrapExitError(exit, code, err)
}

// lineOf extracts the line number from a CUE position.
func lineOf(pos token.Pos) int {
	if pos.IsValid() {
		return pos.Line()
	}
	return 0
}
