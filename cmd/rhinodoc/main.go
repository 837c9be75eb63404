package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/rhinodoc"
	"github.com/fwojciec/rhinodoc/fs"
	"github.com/fwojciec/rhinodoc/minio"
	"github.com/fwojciec/rhinodoc/postgres"
	"github.com/fwojciec/rhinodoc/query"
	rhslog "github.com/fwojciec/rhinodoc/slog"
	"github.com/fwojciec/rhinodoc/sqlite"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Input of the serve and add-example commands.
	Stdin io.Reader

	// Getenv reads backend settings. Defaults to os.Getenv.
	Getenv func(string) string

	// Store replaces the configured backend for end-to-end testing.
	Store rhinodoc.CorpusStore

	closers []io.Closer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		Stdin:  os.Stdin,
		Getenv: os.Getenv,
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var errs []error
	for i := len(m.closers) - 1; i >= 0; i-- {
		errs = append(errs, m.closers[i].Close())
	}
	m.closers = nil
	return errors.Join(errs...)
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdin:  m.Stdin,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("rhinodoc"),
		kong.Description("Build and query a RhinoCommon API documentation corpus."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'rhinodoc --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd, _, _ := strings.Cut(kongCtx.Command(), " ")

	deps.Logger = newLogger(stderr, cli.Verbose)
	deps.Version = cli.RhinoVersion

	store := m.Store
	if store == nil {
		if store, err = m.openStore(ctx, cli); err != nil {
			fmt.Fprintf(stderr, "Hint: check --store and its RHINODOC_* settings\n")
			return fmt.Errorf("failed to open %s store: %w", cli.Store, err)
		}
	}
	defer m.Close()

	if history, ok := store.(rhinodoc.BuildHistory); ok {
		deps.Builds = history
	}
	deps.Store = rhslog.NewLoggingCorpusStore(store, deps.Logger)
	deps.Examples = fs.NewExampleStore(examplesDir(cli))

	switch cmd {
	case "search", "class", "examples", "namespaces", "serve":
		svc, err := query.NewService(ctx, deps.Store, cli.RhinoVersion,
			query.WithExamples(deps.Examples),
			query.WithCapacity(cli.CacheSize),
			query.WithLogger(deps.Logger),
		)
		if err != nil {
			return fmt.Errorf("failed to start query service: %w", err)
		}
		deps.Query = rhslog.NewLoggingQueryService(svc, deps.Logger)
	}

	return kongCtx.Run(deps)
}

// openStore connects the backend selected by --store.
func (m *Main) openStore(ctx context.Context, cli *CLI) (rhinodoc.CorpusStore, error) {
	switch cli.Store {
	case "sqlite":
		if err := os.MkdirAll(cli.Docs, 0o755); err != nil {
			return nil, err
		}
		db := sqlite.NewDB(filepath.Join(cli.Docs, sqliteFile))
		if err := db.Open(); err != nil {
			return nil, err
		}
		m.closers = append(m.closers, db)
		return sqlite.NewCorpusStore(db), nil
	case "postgres":
		db := postgres.NewDB(m.getenv("RHINODOC_PG_DSN"))
		if err := db.Open(ctx); err != nil {
			return nil, err
		}
		m.closers = append(m.closers, db)
		return postgres.NewCorpusStore(db), nil
	case "s3":
		return minio.NewCorpusStore(LoadS3Config(m.getenv))
	default:
		return fs.NewCorpusStore(cli.Docs), nil
	}
}

func (m *Main) getenv(key string) string {
	if m.Getenv == nil {
		return os.Getenv(key)
	}
	return m.Getenv(key)
}

// sqliteFile is the database file name inside the docs directory.
const sqliteFile = "rhinodoc.db"

func examplesDir(cli *CLI) string {
	if cli.ExamplesDir != "" {
		return cli.ExamplesDir
	}
	return filepath.Join(cli.Docs, "examples")
}

// newLogger writes text logs to w. Stdout is left to command output and
// MCP traffic.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
