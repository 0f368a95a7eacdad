package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/ffbuilder/internal/artifact"
	"github.com/roach88/ffbuilder/internal/blob"
	"github.com/roach88/ffbuilder/internal/builder"
	"github.com/roach88/ffbuilder/internal/config"
	"github.com/roach88/ffbuilder/internal/digest"
	"github.com/roach88/ffbuilder/internal/forcefield"
	"github.com/roach88/ffbuilder/internal/metrics"
	"github.com/roach88/ffbuilder/internal/store"
)

// BuildOptions holds flags for the build command.
type BuildOptions struct {
	*RootOptions
	OutDir      string
	Archive     string
	Sink        string
	History     string
	MetricsFile string

	// IDGenerator allows overriding the build ID generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	IDGenerator store.IDGenerator

	// Now allows overriding the wall clock recorded in history (for testing).
	Now func() time.Time
}

// BuildResult is the payload of a successful build.
type BuildResult struct {
	ID             string            `json:"id"`
	ConfigDigest   string            `json:"config_digest"`
	DatabaseDigest string            `json:"database_digest"`
	BuildDigest    string            `json:"build_digest"`
	Artifacts      []ArtifactSummary `json:"artifacts"`
	OutDir         string            `json:"out_dir,omitempty"`
	Archive        string            `json:"archive,omitempty"`
	Published      []string          `json:"published,omitempty"`
}

// ArtifactSummary describes one produced document.
type ArtifactSummary struct {
	Key      string `json:"key"`
	FileName string `json:"file_name"`
	Digest   string `json:"digest"`
	Size     int    `json:"size"`
}

// NewBuildCommand creates the build command.
func NewBuildCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BuildOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "build <config>",
		Short: "Build the RASPA force-field files for a configuration",
		Long: `Build the force-field input files for a configuration.

The configuration may be YAML, JSON or CUE. Without a destination flag the
produced documents are listed with their digests.

Example:
  ffbuilder build co2_n2.yaml --out ./raspa
  ffbuilder build co2_n2.yaml --archive ff.tar.zst --history builds.db
  ffbuilder build co2_n2.yaml --sink s3://my-bucket/raspa?region=eu-west-1`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.OutDir, "out", "o", "", "directory to write the files to")
	cmd.Flags().StringVar(&opts.Archive, "archive", "", "write a zstd-compressed tar bundle (.tar.zst)")
	cmd.Flags().StringVar(&opts.Sink, "sink", "", "publish to a blob store (file://, mem://, s3://bucket/prefix)")
	cmd.Flags().StringVar(&opts.History, "history", "", "record the build in a SQLite history database")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "write Prometheus metrics to a textfile")

	return cmd
}

func runBuild(ctx context.Context, opts *BuildOptions, configPath string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	db, document, err := loadDatabase(opts.RootOptions)
	if err != nil {
		return fail(formatter, err)
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return fail(formatter, err)
	}
	formatter.Progressf("Loaded %s: %d molecule(s), framework %q", configPath, len(cfg.Molecules), cfg.Framework)

	var recorder *metrics.Recorder
	if opts.MetricsFile != "" {
		if recorder, err = metrics.NewRecorder(nil); err != nil {
			return fail(formatter, err)
		}
	}

	gen := opts.IDGenerator
	if gen == nil {
		gen = store.UUIDv7Generator{}
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	result := &BuildResult{ID: gen.Generate(), DatabaseDigest: digest.Database(document)}
	if result.ConfigDigest, err = digest.Config(cfg.Canonical()); err != nil {
		return fail(formatter, err)
	}
	logger = logger.With("build_id", result.ID)

	set, code, runErr := executeBuild(ctx, opts, cfg, db, recorder, logger, result)

	if opts.History != "" {
		if err := recordHistory(ctx, opts.History, result, set, code, runErr, now()); err != nil {
			return failWith(formatter, ErrCodeHistory, ExitCommandError, err, nil)
		}
		formatter.Progressf("Recorded build %s in %s", result.ID, opts.History)
	}
	if recorder != nil {
		if err := recorder.WriteTextfile(opts.MetricsFile); err != nil {
			return failWith(formatter, ErrCodeWriteFailed, ExitCommandError, err, nil)
		}
	}

	if runErr != nil {
		_, exit, details := classify(runErr)
		return failWith(formatter, code, exit, runErr, details)
	}
	return formatter.Success(result, func(w io.Writer) { outputBuildText(w, result) })
}

// executeBuild renders the set and writes it to every requested
// destination. On failure it returns the error code to report.
func executeBuild(
	ctx context.Context,
	opts *BuildOptions,
	cfg *config.Config,
	db forcefield.Registry,
	recorder *metrics.Recorder,
	logger *slog.Logger,
	result *BuildResult,
) (*artifact.Set, string, error) {
	set, err := builder.New(db, builder.WithLogger(logger), builder.WithMetrics(recorder)).Build(cfg)
	if err != nil {
		code, _, _ := classify(err)
		return nil, code, err
	}
	if result.BuildDigest, err = digest.Build(result.ConfigDigest, result.DatabaseDigest, set.Digests()); err != nil {
		return nil, ErrCodeGeneric, err
	}
	for _, a := range set.All() {
		result.Artifacts = append(result.Artifacts, ArtifactSummary{
			Key:      a.Key,
			FileName: a.FileName,
			Digest:   a.Digest,
			Size:     len(a.Content),
		})
	}

	if opts.OutDir != "" {
		if err := artifact.WriteDir(set, opts.OutDir); err != nil {
			return set, ErrCodeWriteFailed, err
		}
		result.OutDir = opts.OutDir
		logger.Debug("files written", "dir", opts.OutDir)
	}

	if opts.Archive != "" {
		if err := writeArchiveFile(opts.Archive, set); err != nil {
			return set, ErrCodeWriteFailed, err
		}
		result.Archive = opts.Archive
		logger.Debug("archive written", "path", opts.Archive)
	}

	if opts.Sink != "" {
		target, err := blob.Open(ctx, opts.Sink)
		if err != nil {
			return set, ErrCodePublishFailed, err
		}
		infos, err := target.Publish(ctx, result.ID, set)
		if err != nil {
			return set, ErrCodePublishFailed, err
		}
		for _, info := range infos {
			result.Published = append(result.Published, info.Key)
		}
		logger.Debug("artifacts published", "sink", opts.Sink, "objects", len(infos))
	}

	return set, "", nil
}

func writeArchiveFile(path string, set *artifact.Set) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	if err := artifact.WriteArchive(f, set); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

func recordHistory(ctx context.Context, path string, result *BuildResult, set *artifact.Set, code string, runErr error, at time.Time) error {
	st, err := store.Open(path)
	if err != nil {
		return err
	}
	defer st.Close()

	b := store.Build{
		ID:             result.ID,
		ConfigDigest:   result.ConfigDigest,
		DatabaseDigest: result.DatabaseDigest,
		BuildDigest:    result.BuildDigest,
		Status:         store.StatusSucceeded,
		CreatedAt:      at,
	}
	if runErr != nil {
		b.Status = store.StatusFailed
		b.ErrorCode = code
		b.ErrorMessage = runErr.Error()
	}
	_, err = st.WriteBuild(ctx, b, store.Records(set))
	return err
}

func outputBuildText(w io.Writer, result *BuildResult) {
	fmt.Fprintf(w, "✓ Built %d document(s)\n", len(result.Artifacts))
	fmt.Fprintf(w, "  build:  %s\n", result.ID)
	fmt.Fprintf(w, "  digest: %s\n", result.BuildDigest)
	for _, a := range result.Artifacts {
		fmt.Fprintf(w, "  %-32s %s  %d bytes\n", a.FileName, shortDigest(a.Digest), a.Size)
	}
	if result.OutDir != "" {
		fmt.Fprintf(w, "Wrote %d file(s) to %s\n", len(result.Artifacts), result.OutDir)
	}
	if result.Archive != "" {
		fmt.Fprintf(w, "Archived to %s\n", result.Archive)
	}
	if len(result.Published) > 0 {
		fmt.Fprintf(w, "Published %d object(s)\n", len(result.Published))
	}
}

func shortDigest(d string) string {
	if len(d) > 12 {
		return d[:12]
	}
	return d
}
