package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/dossier"
	"github.com/fwojciec/dossier/cache"
	"github.com/fwojciec/dossier/fs"
	"github.com/fwojciec/dossier/gemini"
	"github.com/fwojciec/dossier/goquery"
	"github.com/fwojciec/dossier/htmltomarkdown"
	dhttp "github.com/fwojciec/dossier/http"
	"github.com/fwojciec/dossier/prometheus"
	"github.com/fwojciec/dossier/ratelimit"
	"github.com/fwojciec/dossier/readability"
	"github.com/fwojciec/dossier/rod"
	"github.com/fwojciec/dossier/scrape"
	dslog "github.com/fwojciec/dossier/slog"
	"github.com/fwojciec/dossier/sqlite"
	"github.com/fwojciec/dossier/trafilatura"
	"google.golang.org/genai"
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
	// Config is resolved by Run from defaults, file and flags.
	Config Config

	// SQLite database used by the session store.
	DB *sqlite.DB

	// Renderer is set when headless rendering is enabled.
	Renderer *rod.Renderer

	// Metrics collects scrape metrics for the lifetime of the program.
	Metrics *prometheus.Metrics

	// Sites holds the site-specific extractors used by the domain strategy.
	Sites *goquery.SiteRegistry

	metricsServer *http.Server
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		Config:  DefaultConfig(),
		Metrics: prometheus.NewMetrics(),
		Sites:   goquery.NewDefaultSiteRegistry(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var errs []error
	if m.metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		errs = append(errs, m.metricsServer.Shutdown(ctx))
	}
	if m.Renderer != nil {
		errs = append(errs, m.Renderer.Close())
	}
	if m.DB != nil {
		errs = append(errs, m.DB.Close())
	}
	return errors.Join(errs...)
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Sites:  m.Sites,
		Now:    time.Now,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("dossier"),
		kong.Description("Extract people profiles from web pages."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'dossier --help' to see available commands")
	}
	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cfg, err := LoadConfig(cli.Config)
	if err != nil {
		return err
	}
	cli.apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %s", dossier.ErrorMessage(err))
	}
	m.Config = cfg

	logger := NewLogger(stderr, cfg.LogLevel, cfg.LogFormat)
	deps.Logger = logger

	m.DB = sqlite.NewDB(cfg.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set DOSSIER_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", cfg.DBPath, err)
	}
	defer m.Close()

	sessions := sqlite.NewSessionService(m.DB)
	deps.Sessions = sessions

	if strings.HasPrefix(kongCtx.Command(), "scrape") {
		scraper, err := m.newScraper(ctx, cli.APIKey, sessions, logger, stderr)
		if err != nil {
			return err
		}
		deps.Scraper = scraper
		deps.Limiter = ratelimit.NewClientLimiter(ratelimit.WithLimit(cfg.RateLimit, cfg.RateWindow))
		if out := cli.Scrape.Out; out != "" {
			deps.Results = fs.NewResultStore(filepath.Dir(out), filepath.Base(out))
		}

		if cfg.MetricsAddr != "" {
			m.serveMetrics(cfg.MetricsAddr, logger)
		}
	}

	return kongCtx.Run(deps)
}

// newScraper wires the extraction pipeline from the resolved config.
func (m *Main) newScraper(ctx context.Context, apiKey string, sessions dossier.SessionService, logger *slog.Logger, stderr io.Writer) (dossier.Scraper, error) {
	cfg := m.Config

	// Page and bio requests share one connection pool.
	client := &http.Client{Transport: dhttp.NewTransport()}
	fetcher := dhttp.NewFetcher(
		dhttp.WithClient(client),
		dhttp.WithTimeout(cfg.FetchTimeout),
		dhttp.WithMaxRetries(cfg.MaxRetries),
		dhttp.WithUserAgent(cfg.UserAgent),
		dhttp.WithBlockedThreshold(cfg.BlockedThreshold),
	)
	bios := dslog.NewLoggingBioFetcher(NewBioFetcher(cfg, client), logger)

	strategies := []dossier.Strategy{
		goquery.NewStructuralStrategy(),
		goquery.NewDomainStrategy(m.Sites),
		goquery.NewUniversalStrategy(),
		goquery.NewHeadingStrategy(),
		goquery.NewLeadershipStrategy(goquery.WithBioFetcher(bios)),
	}

	s := &scrape.Scraper{
		Fetcher:         dslog.NewLoggingFetcher(fetcher, logger),
		Parser:          goquery.NewParser(),
		Strategies:      dslog.WrapStrategies(strategies, logger),
		RenderAllowList: cfg.RenderAllowList,
		Cache:           cache.New(cache.WithTTL(cfg.CacheTTL)),
		Sessions:        sessions,
	}

	if apiKey != "" {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		oracle := dslog.NewLoggingOracle(gemini.NewOracle(client, gemini.WithModel(cfg.Model)), logger)
		s.Model = dslog.NewLoggingStrategy(goquery.NewModelStrategy(oracle), logger)
	}

	if cfg.Render {
		renderer, err := rod.NewRenderer(rod.WithMaxPages(cfg.RenderMaxPages))
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
			return nil, fmt.Errorf("failed to start browser: %w", err)
		}
		m.Renderer = renderer
		s.Renderer = dslog.NewLoggingRenderer(renderer, logger)
	}

	return dslog.NewLoggingScraper(prometheus.NewMetricsScraper(s, m.Metrics), logger), nil
}

// NewBioFetcher returns the "read more" bio fetcher configured by cfg.
func NewBioFetcher(cfg Config, client *http.Client) *scrape.BioFetcher {
	var convOpts []htmltomarkdown.Option
	if cfg.BioTables {
		convOpts = append(convOpts, htmltomarkdown.WithTables())
	}
	f := &scrape.BioFetcher{
		Client:    client,
		Converter: htmltomarkdown.NewConverter(convOpts...),
		UserAgent: cfg.UserAgent,
	}
	if cfg.BioExtractor == BioReadability {
		f.ExtractorFor = func(pageURL string) dossier.Extractor {
			return readability.NewExtractor(readability.WithPageURL(pageURL))
		}
	} else {
		f.Extractor = trafilatura.NewExtractor(trafilatura.WithFallback(cfg.BioFallback))
	}
	return f
}

func (m *Main) serveMetrics(addr string, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Metrics.Handler())
	m.metricsServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := m.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "addr", addr, "err", err)
		}
	}()
	logger.Info("serving metrics", "addr", addr)
}

// NewLogger returns a logger writing to w at the given level and format.
func NewLogger(w io.Writer, level, format string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
