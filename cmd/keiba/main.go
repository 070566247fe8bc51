package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/keiba"
	"github.com/fwojciec/keiba/crawl"
	"github.com/fwojciec/keiba/fs"
	"github.com/fwojciec/keiba/goquery"
	keibahttp "github.com/fwojciec/keiba/http"
	keibaslog "github.com/fwojciec/keiba/slog"
	"github.com/fwojciec/keiba/sqlite"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database and page store paths. Set before calling Run(); the --db
	// and --pages flags take precedence.
	DBPath   string
	PagesDir string

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath:   defaultPath("keiba.db"),
		PagesDir: defaultPath("pages"),
		Now:      time.Now,
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("keiba"),
		kong.Description("Download and parse db.netkeiba.com race results."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'keiba --help' to see available commands")
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

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	now := m.Now
	if now == nil {
		now = time.Now
	}
	deps.Bounds = cli.Bounds(now())

	// Parsing a single file needs no storage.
	if cmd == "parse" {
		return kongCtx.Run(deps)
	}

	dbPath := m.DBPath
	if cli.DB != "" {
		dbPath = cli.DB
	}
	pagesDir := m.PagesDir
	if cli.Pages != "" {
		pagesDir = cli.Pages
	}

	m.DB = sqlite.NewDB(dbPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set KEIBA_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", dbPath, err)
	}
	defer m.Close()

	deps.DB = m.DB
	deps.Races = keibaslog.NewLoggingRaceService(sqlite.NewRaceService(m.DB, deps.Bounds), logger)
	deps.Runs = sqlite.NewRunService(m.DB)
	deps.Pages = fs.NewPageStore(pagesDir, deps.Bounds)

	switch cmd {
	case "download":
		fetcher := keibaslog.NewLoggingFetcher(keibahttp.NewFetcher(), logger)
		defer fetcher.Close()

		deps.Downloader = &crawl.Downloader{
			Fetcher:     fetcher,
			Pages:       deps.Pages,
			RateLimiter: crawl.NewLimiter(cli.Download.RPS),
			BaseURL:     cli.BaseURL,
			Concurrency: cli.Download.Concurrency,
		}
	case "ingest":
		deps.Ingester = &crawl.Ingester{
			Pages:       deps.Pages,
			Parser:      keibaslog.NewLoggingRaceParser(goquery.NewParser(), logger),
			Races:       deps.Races,
			Runs:        deps.Runs,
			Concurrency: cli.Ingest.Concurrency,
		}
	}

	return kongCtx.Run(deps)
}

// defaultPath returns name inside ~/.keiba, or name itself when the home
// directory is unknown.
func defaultPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	dir := filepath.Join(home, ".keiba")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, name)
}

// printError writes the human-readable message of err to stderr.
func printError(deps *Dependencies, err error) {
	fmt.Fprintf(deps.Stderr, "error: %s\n", keiba.ErrorMessage(err))
}
