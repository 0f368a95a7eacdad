package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/ffbuilder/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	History string
	BuildID string
	Digest  string
	Limit   int
}

// BuildDetail is one build with its artifacts.
type BuildDetail struct {
	store.Build
	Artifacts []store.ArtifactRecord `json:"artifacts"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded builds",
		Long: `Show builds recorded with "ffbuilder build --history".

Builds are listed oldest first. With --build, show one build and the
documents it produced.

Example:
  ffbuilder history --history builds.db
  ffbuilder history --history builds.db --build 01932c5e-...`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.History, "history", "", "path to SQLite history database (required)")
	cmd.Flags().StringVar(&opts.BuildID, "build", "", "show one build and its artifacts")
	cmd.Flags().StringVar(&opts.Digest, "digest", "", "only builds with this output digest")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "only the most recent N builds")
	_ = cmd.MarkFlagRequired("history")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	ctx := cmd.Context()

	st, err := store.Open(opts.History)
	if err != nil {
		return failWith(formatter, ErrCodeHistory, ExitCommandError, err, nil)
	}
	defer st.Close()

	if opts.BuildID != "" {
		b, artifacts, err := st.ReadBuild(ctx, opts.BuildID)
		if err != nil {
			return fail(formatter, err)
		}
		detail := BuildDetail{Build: b, Artifacts: artifacts}
		return formatter.Success(detail, func(w io.Writer) { outputBuildDetail(w, detail) })
	}

	var builds []store.Build
	if opts.Digest != "" {
		builds, err = st.ReadBuildsByDigest(ctx, opts.Digest)
	} else {
		builds, err = st.ReadBuilds(ctx, opts.Limit)
	}
	if err != nil {
		return failWith(formatter, ErrCodeHistory, ExitCommandError, err, nil)
	}

	return formatter.Success(builds, func(w io.Writer) { outputBuildList(w, builds) })
}

func outputBuildList(w io.Writer, builds []store.Build) {
	if len(builds) == 0 {
		fmt.Fprintln(w, "No builds recorded")
		return
	}
	for _, b := range builds {
		outcome := string(b.Status)
		if b.ErrorCode != "" {
			outcome += " " + b.ErrorCode
		}
		fmt.Fprintf(w, "%4d  %s  %s  %-16s %s\n",
			b.Seq, b.ID, b.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"), outcome, shortDigest(b.BuildDigest))
	}
}

func outputBuildDetail(w io.Writer, d BuildDetail) {
	fmt.Fprintf(w, "Build %s (#%d)\n", d.ID, d.Seq)
	fmt.Fprintf(w, "  status:   %s\n", d.Status)
	if d.ErrorCode != "" {
		fmt.Fprintf(w, "  error:    [%s] %s\n", d.ErrorCode, d.ErrorMessage)
	}
	fmt.Fprintf(w, "  created:  %s\n", d.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"))
	fmt.Fprintf(w, "  config:   %s\n", d.ConfigDigest)
	fmt.Fprintf(w, "  database: %s\n", d.DatabaseDigest)
	if d.BuildDigest != "" {
		fmt.Fprintf(w, "  digest:   %s\n", d.BuildDigest)
	}
	for _, a := range d.Artifacts {
		fmt.Fprintf(w, "  %d %-32s %s  %d bytes\n", a.Position, a.FileName, shortDigest(a.Digest), a.Size)
	}
}
