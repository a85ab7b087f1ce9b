package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/bamsammich/archivesum/internal/archive"
	"github.com/bamsammich/archivesum/internal/config"
	"github.com/bamsammich/archivesum/internal/digest"
	"github.com/bamsammich/archivesum/internal/engine"
	"github.com/bamsammich/archivesum/internal/event"
	"github.com/bamsammich/archivesum/internal/stats"
	"github.com/bamsammich/archivesum/internal/ui"
)

var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// app carries the process streams and state shared by all subcommands.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	verbose bool
	logFile string
	cfg     config.Config

	cleanup []func()
}

// archiveFlags are shared by print and verify.
type archiveFlags struct {
	digestName string
	appendFile string
	progress   bool
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}
	defer a.close()

	root := a.rootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			return exitErr.code
		}
		fmt.Fprintf(stderr, "archive-sum: error: %v\n", err)
		return 1
	}
	return 0
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "archive-sum",
		Short:         "Print or verify checksums of the files inside an archive",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.setup()
		},
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose logging")
	root.PersistentFlags().StringVar(&a.logFile, "log", "", "write structured JSON log to FILE")

	root.AddCommand(a.printCmd())
	root.AddCommand(a.verifyCmd())
	root.AddCommand(a.digestsCmd())
	root.AddCommand(docsCmd)
	return root
}

// setup configures logging and loads the optional config file.
func (a *app) setup() error {
	logLevel := slog.LevelWarn
	if a.verbose {
		logLevel = slog.LevelDebug
	}
	textHandler := slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: logLevel})
	var logHandler slog.Handler = textHandler
	if a.logFile != "" {
		lf, err := os.Create(a.logFile)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		a.cleanup = append(a.cleanup, func() { lf.Close() })
		jsonHandler := slog.NewJSONHandler(lf, &slog.HandlerOptions{Level: slog.LevelDebug})
		logHandler = ui.NewMultiHandler(textHandler, jsonHandler)
	}
	slog.SetDefault(slog.New(logHandler))

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("failed to load config", "path", config.Path(), "error", err)
	}
	a.cfg = cfg
	return nil
}

func (a *app) close() {
	for i := len(a.cleanup) - 1; i >= 0; i-- {
		a.cleanup[i]()
	}
	a.cleanup = nil
}

func (a *app) addArchiveFlags(cmd *cobra.Command, f *archiveFlags) {
	cmd.Flags().StringVarP(&f.digestName, "digest", "d", digest.Default.String(),
		"digest algorithm (see 'archive-sum digests')")
	cmd.Flags().StringVarP(&f.appendFile, "append", "a", "", "append digests to FILE")
	cmd.Flags().BoolVar(&f.progress, "progress", false, "show a progress bar on stderr when it is a terminal")
}

// applyConfigDefaults applies config file defaults for flags not explicitly set on the CLI.
func (a *app) applyConfigDefaults(cmd *cobra.Command, f *archiveFlags) {
	d := a.cfg.Defaults
	if !cmd.Flags().Changed("digest") && d.Digest != nil {
		f.digestName = *d.Digest
	}
	if !cmd.Flags().Changed("append") && d.Append != nil {
		f.appendFile = *d.Append
	}
	if !cmd.Flags().Changed("progress") && d.Progress != nil {
		f.progress = *d.Progress
	}
}

func (a *app) printCmd() *cobra.Command {
	var f archiveFlags
	cmd := &cobra.Command{
		Use:   "print [archive]",
		Short: "Print checksums of the files inside an archive",
		Long: "Print a checksum line for every regular file in the archive, in the\n" +
			"format of md5sum and friends. The archive is read from standard input\n" +
			"when no argument is given.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			a.applyConfigDefaults(cmd, &f)

			acc, err := newAccumulator(f.digestName)
			if err != nil {
				return err
			}

			out := a.stdout
			if f.appendFile != "" {
				file, openErr := openAppend(f.appendFile)
				if openErr != nil {
					return openErr
				}
				defer func() {
					if cerr := file.Close(); cerr != nil && err == nil {
						err = fmt.Errorf("close %s: %w", f.appendFile, cerr)
					}
				}()
				out = file
			}

			arc, done, err := a.openArchive(args, f.progress)
			if err != nil {
				return err
			}
			defer done()

			collector := stats.NewCollector()
			err = engine.Print(arc, engine.PrintConfig{
				Digest:  acc,
				Out:     out,
				Stats:   collector,
				OnEvent: logEvent,
			})
			logSummary(collector)
			return err
		},
	}
	a.addArchiveFlags(cmd, &f)
	return cmd
}

func (a *app) verifyCmd() *cobra.Command {
	var (
		f      archiveFlags
		source string
		seq    int
	)
	quiet := &occurrenceFlag{seq: &seq}
	status := &occurrenceFlag{seq: &seq}

	cmd := &cobra.Command{
		Use:   "verify [archive]",
		Short: "Verify the files inside an archive against a source directory",
		Long: "Compare every regular file in the archive with the file at the same\n" +
			"path under --source (default: the working directory). Prints OK,\n" +
			"FAILED or MISSING per file and exits 1 unless every file is OK.\n\n" +
			"--quiet and --status both hide OK lines. --status also hides FAILED and\n" +
			"MISSING lines unless --quiet is given after it.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			a.applyConfigDefaults(cmd, &f)

			acc, err := newAccumulator(f.digestName)
			if err != nil {
				return err
			}
			if source != "" {
				if err := checkDir(source); err != nil {
					return fmt.Errorf("invalid --source: %w", err)
				}
			}

			appendW := io.Discard
			if f.appendFile != "" {
				file, openErr := openAppend(f.appendFile)
				if openErr != nil {
					return openErr
				}
				defer func() {
					if cerr := file.Close(); cerr != nil && err == nil {
						err = fmt.Errorf("close %s: %w", f.appendFile, cerr)
					}
				}()
				appendW = file
			}

			routing := ui.Route(quiet.occ, status.occ)
			out, diag := routing.Writers(a.stdout, a.stderr)
			slog.Debug("output routing",
				"primary", routing.Primary.String(),
				"diagnostic", routing.Diagnostic.String(),
			)

			arc, done, err := a.openArchive(args, f.progress)
			if err != nil {
				return err
			}
			defer done()

			collector := stats.NewCollector()
			result, err := engine.Verify(arc, engine.VerifyConfig{
				Digest:  acc,
				Source:  source,
				Append:  appendW,
				Out:     out,
				Err:     diag,
				Stats:   collector,
				OnEvent: logEvent,
			})
			logSummary(collector)
			if err != nil {
				return err
			}
			if !result.Success() {
				return &exitError{code: 1}
			}
			return nil
		},
	}
	a.addArchiveFlags(cmd, &f)
	cmd.Flags().StringVar(&source, "source", "", "verify against files under DIR instead of the working directory")
	addOccurrenceFlag(cmd.Flags(), quiet, "quiet", "don't print OK for each successfully verified file")
	addOccurrenceFlag(cmd.Flags(), status, "status", "don't output anything, the exit code shows success")
	return cmd
}

func (a *app) digestsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "digests",
		Short: "List the supported digest algorithms",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			for _, alg := range digest.Algorithms() {
				if _, err := fmt.Fprintln(a.stdout, alg); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// openArchive opens the archive named in args, or standard input when args
// is empty. The returned func stops the progress bar and closes the archive.
func (a *app) openArchive(args []string, progress bool) (*archive.Archive, func(), error) {
	var opts []archive.Option
	var bar *ui.Progress
	if tty, ok := a.stderr.(*os.File); progress && ok && ui.IsTTY(tty.Fd()) {
		total := int64(-1)
		desc := "stdin"
		if len(args) == 1 {
			desc = args[0]
			if info, err := os.Stat(args[0]); err == nil {
				total = info.Size()
			}
		}
		bar = ui.NewProgress(a.stderr, total, desc, ui.TermWidth(tty.Fd()))
		opts = append(opts, archive.WithTee(bar))
	}

	var arc *archive.Archive
	var err error
	if len(args) == 1 {
		arc, err = archive.Open(args[0], opts...)
	} else {
		if isTerminal(a.stdin) {
			return nil, nil, errors.New("no archive given and standard input is a terminal")
		}
		arc, err = archive.FromReader(a.stdin, opts...)
	}
	if err != nil {
		return nil, nil, err
	}
	slog.Debug("opened archive",
		"path", arc.Path(),
		"filter", arc.Filter().String(),
		"block_size", arc.BlockSize(),
	)

	return arc, func() {
		if bar != nil {
			bar.Finish()
		}
		arc.Close()
	}, nil
}

//nolint:ireturn // returns digest.Accumulator
func newAccumulator(name string) (digest.Accumulator, error) {
	alg, err := digest.Parse(name)
	if err != nil {
		return nil, fmt.Errorf("invalid --digest: %w", err)
	}
	return digest.New(alg)
}

// openAppend opens the digest log for appending, creating it if needed.
// Existing content is never truncated.
func openAppend(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open append file: %w", err)
	}
	return f, nil
}

func checkDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("does not exist: %q", path)
		}
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %q", path)
	}
	return nil
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && ui.IsTTY(f.Fd())
}

func logEvent(ev event.Event) {
	attrs := []slog.Attr{
		slog.String("type", ev.Type.String()),
		slog.String("path", ev.Path),
	}
	if ev.Source != "" {
		attrs = append(attrs, slog.String("source", ev.Source))
	}
	if ev.Kind != "" {
		attrs = append(attrs, slog.String("kind", ev.Kind))
	}
	if ev.Digest != "" {
		attrs = append(attrs, slog.String("digest", ev.Digest), slog.Int64("size", ev.Size))
	}
	slog.LogAttrs(context.Background(), slog.LevelDebug, "archive-sum.event", attrs...)
}

func logSummary(c *stats.Collector) {
	snap := c.Snapshot()
	slog.Debug("scan finished",
		"members", snap.MembersScanned,
		"hashed", snap.MembersHashed,
		"bytes", stats.FormatBytes(snap.BytesHashed),
		"elapsed", snap.Elapsed,
	)
}

type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}
