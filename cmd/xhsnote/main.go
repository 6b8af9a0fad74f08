package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/xhsnote"
	"github.com/fwojciec/xhsnote/acquire"
	"github.com/fwojciec/xhsnote/fs"
	"github.com/fwojciec/xhsnote/goquery"
	"github.com/fwojciec/xhsnote/htmltomarkdown"
	xhshttp "github.com/fwojciec/xhsnote/http"
	"github.com/fwojciec/xhsnote/pipeline"
	"github.com/fwojciec/xhsnote/preset"
	"github.com/fwojciec/xhsnote/readability"
	"github.com/fwojciec/xhsnote/rod"
	xhsslog "github.com/fwojciec/xhsnote/slog"
	"github.com/fwojciec/xhsnote/sqlite"
	"github.com/fwojciec/xhsnote/trafilatura"
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
	// SQLite database backing the sqlite and memory image stores.
	DB *sqlite.DB

	// Services for end-to-end testing. Nil fields are replaced by the
	// network implementations.
	Resolver   xhsnote.Resolver
	Fetcher    xhsnote.Fetcher
	Downloader xhsnote.ImageDownloader
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
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
		kong.Name("xhsnote"),
		kong.Description("Extract Xiaohongshu notes from share payloads"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'xhsnote --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	logger := slog.New(slog.DiscardHandler)
	if cli.Verbose {
		logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	store, err := m.openStore(cli)
	if err != nil {
		return err
	}
	defer m.Close()
	deps.Images = xhsslog.NewLoggingImageStore(store, logger)

	if strings.HasPrefix(kongCtx.Command(), "extract") {
		p, closeFn, err := m.newPipeline(&cli.Extract, deps.Images, logger, stderr)
		if err != nil {
			return err
		}
		defer closeFn()
		deps.Pipeline = p
	}

	return kongCtx.Run(deps)
}

// openStore opens the image store selected by cli. Serverless hosts always
// get the memory store.
func (m *Main) openStore(cli *CLI) (xhsnote.ImageStore, error) {
	backend := cli.Store
	if cli.Serverless {
		backend = "memory"
	}

	switch backend {
	case "fs":
		return fs.NewImageStore(cli.Dir), nil
	case "memory":
		m.DB = sqlite.NewDB(sqlite.MemoryPath)
	default:
		path := cli.DB
		if path == "" {
			path = defaultImageDBPath()
		}
		m.DB = sqlite.NewDB(path)
	}

	if err := m.DB.Open(); err != nil {
		m.DB = nil
		return nil, fmt.Errorf("failed to open image database: %w", err)
	}
	return sqlite.NewImageStore(m.DB), nil
}

// newPipeline wires the extraction pipeline for cmd. The returned func
// releases the page fetcher.
func (m *Main) newPipeline(cmd *ExtractCmd, images xhsnote.ImageStore, logger *slog.Logger, stderr io.Writer) (*pipeline.Pipeline, func(), error) {
	presets := preset.Default()
	if cmd.Presets != "" {
		s, err := preset.LoadFile(cmd.Presets)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load presets: %w", err)
		}
		presets = s
	}

	resolver := m.Resolver
	if resolver == nil {
		resolver = xhshttp.NewResolver(xhshttp.WithResolveTimeout(cmd.Timeout))
	}

	fetcher := m.Fetcher
	if fetcher == nil {
		if cmd.Render {
			f, err := rod.NewFetcher(
				rod.WithFetchTimeout(cmd.Timeout),
				rod.WithBrowserBin(cmd.BrowserBin),
			)
			if err != nil {
				fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed for --render")
				return nil, nil, fmt.Errorf("failed to start browser: %w", err)
			}
			fetcher = f
		} else {
			fetcher = xhshttp.NewFetcher(
				xhshttp.WithTimeout(cmd.Timeout),
				xhshttp.WithLogger(logger),
			)
		}
	}

	downloader := m.Downloader
	if downloader == nil {
		downloader = xhshttp.NewDownloader(xhshttp.WithDownloadLogger(logger))
	}

	var extractor xhsnote.Extractor = trafilatura.NewExtractor()
	if cmd.Extractor == "readability" {
		extractor = readability.NewExtractor()
	}
	parser := goquery.NewParser(goquery.WithBodyFallback(extractor, htmltomarkdown.NewConverter()))

	p := &pipeline.Pipeline{
		Resolver: xhsslog.NewLoggingResolver(resolver, logger),
		Fetcher:  xhsslog.NewLoggingFetcher(fetcher, logger),
		Parser:   xhsslog.NewLoggingParser(parser, logger),
		Presets:  presets,
		Images: acquire.New(downloader, images,
			acquire.WithConcurrency(cmd.Concurrency),
			acquire.WithLogger(logger),
		),
		Logger:         logger,
		ResolveTimeout: cmd.Timeout,
		FetchTimeout:   cmd.Timeout,
	}
	return p, func() { _ = fetcher.Close() }, nil
}

func defaultImageDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "xhsnote.db"
	}
	dir := filepath.Join(home, ".xhsnote")
	_ = os.MkdirAll(dir, 0o755)
	return filepath.Join(dir, "images.db")
}
