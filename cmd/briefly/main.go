package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/briefly"
	"github.com/fwojciec/briefly/digest"
	"github.com/fwojciec/briefly/gemini"
	"github.com/fwojciec/briefly/goreadability"
	"github.com/fwojciec/briefly/htmltomarkdown"
	brieflyhttp "github.com/fwojciec/briefly/http"
	"github.com/fwojciec/briefly/openai"
	"github.com/fwojciec/briefly/readability"
	"github.com/fwojciec/briefly/rod"
	bslog "github.com/fwojciec/briefly/slog"
	"github.com/fwojciec/briefly/sqlite"
	"github.com/fwojciec/briefly/trafilatura"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	m := NewMain()

	err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database and config paths. When set before calling Run() they take
	// precedence over flags and environment.
	DBPath     string
	ConfigPath string

	// Getenv reads environment variables. Defaults to os.Getenv.
	Getenv func(string) string

	// Config is the configuration resolved by Run.
	Config *Config

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	fetcher briefly.Fetcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{Getenv: os.Getenv}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.fetcher != nil {
		_ = m.fetcher.Close()
	}
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
		kong.Name("briefly"),
		kong.Description("Read, summarize and question web articles"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'briefly --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	cfg, err := m.loadConfig(cli)
	if err != nil {
		return err
	}
	m.Config = cfg

	logger := newLogger(stderr, cli.Verbose, cmd == "serve")
	deps.Logger = logger
	deps.Addr = cfg.Addr

	if needsDB(cmd) {
		m.DB = sqlite.NewDB(cfg.DBPath)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set BRIEFLY_DB to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", cfg.DBPath, err)
		}
		deps.Bookmarks = sqlite.NewBookmarkService(m.DB)
	}
	defer m.Close()

	switch cmd {
	case "extract", "summarize", "ask", "digest", "serve":
	default:
		return kongCtx.Run(deps)
	}

	extractor := bslog.NewLoggingExtractor(newExtractor(cfg, logger), logger)
	deps.Converter = htmltomarkdown.NewConverter()
	deps.Pipeline = &briefly.Pipeline{
		Extractor:     extractor,
		MinChars:      cfg.MinChars,
		MinWords:      cfg.MinWords,
		MaxInputChars: cfg.MaxInputChars,
	}

	// The API receives page HTML from the browser and never fetches.
	if cmd != "serve" {
		fetcher, err := newFetcher(cfg, extractor, logger)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed for --render=always")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		m.fetcher = fetcher
		deps.Pipeline.Fetcher = bslog.NewLoggingFetcher(fetcher, logger)
	}

	if cmd != "extract" {
		if cfg.APIKey == "" {
			envVar := strings.ToUpper(cfg.Provider) + "_API_KEY"
			if cmd == "summarize" || cmd == "ask" {
				fmt.Fprintf(stderr, "%s environment variable not set.\n", envVar)
				return briefly.Errorf(briefly.EUNAUTHORIZED, "%s not set", envVar)
			}
			fmt.Fprintf(stderr, "warning: %s not set, summaries are disabled\n", envVar)
		} else {
			summarizer, asker, err := newModel(ctx, cfg)
			if err != nil {
				fmt.Fprintf(stderr, "Hint: Check your %s API key is valid\n", cfg.Provider)
				return fmt.Errorf("failed to connect to %s: %w", cfg.Provider, err)
			}
			deps.Pipeline.Summarizer = bslog.NewLoggingSummarizer(summarizer, logger)
			deps.Pipeline.Asker = bslog.NewLoggingAsker(asker, logger)
		}
	}

	switch cmd {
	case "digest":
		deps.Digest = &digest.Runner{
			Fetcher:       deps.Pipeline.Fetcher,
			Extractor:     extractor,
			Summarizer:    deps.Pipeline.Summarizer,
			Cache:         sqlite.NewArticleCache(m.DB),
			RateLimiter:   digest.NewDomainLimiter(cfg.RatePerDomain),
			Converter:     deps.Converter,
			MinChars:      cfg.MinChars,
			MinWords:      cfg.MinWords,
			MaxInputChars: cfg.MaxInputChars,
		}
		if tc, err := gemini.NewTokenCounter(tokenizerModel); err == nil {
			deps.Digest.TokenCounter = tc
		} else {
			logger.Warn("token counter unavailable", "err", err)
		}
	case "serve":
		deps.Server = brieflyhttp.NewServer(deps.Pipeline, deps.Bookmarks, logger)
	}

	return kongCtx.Run(deps)
}

// tokenizerModel is used for token counts in digest reports. The local
// tokenizer supports a fixed set of models, so it does not follow --model.
const tokenizerModel = "gemini-2.5-flash"

func (m *Main) loadConfig(cli *CLI) (*Config, error) {
	path, optional := cli.Config, false
	if path == "" {
		path, optional = m.ConfigPath, true
	}
	if path == "" {
		path = defaultConfigPath()
	}
	fc, err := LoadConfigFile(path, optional)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	getenv := m.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	cfg, err := ResolveConfig(cli, fc, getenv)
	if err != nil {
		return nil, err
	}
	if m.DBPath != "" {
		cfg.DBPath = m.DBPath
	}
	return cfg, nil
}

func needsDB(cmd string) bool {
	switch cmd {
	case "pin", "read", "bookmarks", "export", "import", "digest", "serve":
		return true
	}
	return false
}

func newLogger(w io.Writer, verbose, serving bool) *slog.Logger {
	switch {
	case verbose:
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case serving:
		return slog.New(slog.NewTextHandler(w, nil))
	}
	return slog.New(slog.DiscardHandler)
}

func newExtractor(cfg *Config, logger *slog.Logger) briefly.Extractor {
	switch cfg.Engine {
	case "trafilatura":
		return trafilatura.NewExtractor()
	case "go-readability":
		return goreadability.NewExtractor()
	}
	return readability.NewExtractor(cfg.ExtractOpts, readability.WithLogger(logger))
}

// newFetcher returns the page loader for cfg.Render. In auto mode the
// browser is only started once a page needs it.
func newFetcher(cfg *Config, extractor briefly.Extractor, logger *slog.Logger) (briefly.Fetcher, error) {
	switch cfg.Render {
	case "always":
		return rod.NewFetcher(rod.WithFetchTimeout(cfg.Timeout))
	case "never":
		return brieflyhttp.NewFetcher(brieflyhttp.WithTimeout(cfg.Timeout)), nil
	}
	return &briefly.RenderingFetcher{
		Static: brieflyhttp.NewFetcher(brieflyhttp.WithTimeout(cfg.Timeout)),
		OpenBrowser: func() (briefly.Fetcher, error) {
			f, err := rod.NewFetcher(rod.WithFetchTimeout(cfg.Timeout))
			if err != nil {
				logger.Warn("browser unavailable, using static pages", "err", err)
				return nil, err
			}
			return f, nil
		},
		Extractor: extractor,
		MinChars:  cfg.MinChars,
	}, nil
}

func newModel(ctx context.Context, cfg *Config) (briefly.Summarizer, briefly.Asker, error) {
	if cfg.Provider == "openai" {
		client := openai.NewClient(cfg.APIKey, cfg.BaseURL)
		return openai.NewSummarizer(client, cfg.Model), openai.NewAsker(client, cfg.Model), nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, nil, err
	}
	return gemini.NewSummarizer(client, cfg.Model), gemini.NewAsker(client, cfg.Model), nil
}
