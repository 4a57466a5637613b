// Package main is the ElectroLight CLI entry point.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/electrolight/internal/auth"
	"github.com/hyperjump/electrolight/internal/cli"
	"github.com/hyperjump/electrolight/internal/config"
	"github.com/hyperjump/electrolight/internal/importer"
	"github.com/hyperjump/electrolight/internal/ranking"
	"github.com/hyperjump/electrolight/internal/search"
	"github.com/hyperjump/electrolight/internal/server"
	"github.com/hyperjump/electrolight/internal/storage"
	"github.com/hyperjump/electrolight/internal/watcher"
	"github.com/hyperjump/electrolight/pkg/utils"
)

var version = "dev"

const (
	defaultConfigPath    = "/usr/local/etc/electrolight/config.yaml"
	sessionPurgeInterval = time.Hour
)

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory (for development). When the default path
// does not exist either, built-in defaults are used.
// Returns the config and the path that was actually loaded ("" for defaults).
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
		if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
			cfg := &config.Config{}
			config.ApplyDefaults(cfg)
			return cfg, "", nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "import":
		runImport()
	case "admin-create":
		runAdminCreate()
	case "search":
		runSearch()
	case "similar":
		runSimilar()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("electrolight version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// Components holds initialized services.
type Components struct {
	Storage  *storage.SQLiteStorage
	Engine   *search.Engine
	Auth     *auth.Service
	Importer *importer.Importer
}

// Close releases the storage handle.
func (c *Components) Close() {
	if c.Storage != nil {
		_ = c.Storage.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Storage.DatabasePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	ranker := ranking.NewRanker(&cfg.Similarity)
	return &Components{
		Storage:  store,
		Engine:   search.NewEngine(store, ranker, &cfg.Search, logger),
		Auth:     auth.NewService(store, &cfg.Auth, logger),
		Importer: importer.NewImporter(store, logger),
	}, nil
}

// openCatalog loads config, builds the logger and components, or exits.
func openCatalog(configPath string, debug bool) (*config.Config, *zap.Logger, *Components) {
	cfg, resolved, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug || debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	logger.Debug("config loaded", zap.String("config_path", resolved))

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	return cfg, logger, components
}

func parseFormat(s string) cli.OutputFormat {
	format, err := cli.ParseOutputFormat(s)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return format
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (similarity scores, watcher events)")
	_ = fs.Parse(os.Args[2:])

	cfg, logger, components := openCatalog(*configPath, *debug)
	defer logger.Sync()
	defer components.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go purgeSessions(ctx, components.Auth, logger)

	if cfg.Import.Watch && cfg.Import.Directory != "" {
		imp := components.Importer
		w := watcher.New(cfg.Import.Directory, cfg.Import.Extensions,
			func(ctx context.Context, path string) {
				if _, err := imp.ImportFile(ctx, path); err != nil {
					logger.Warn("watch import failed", zap.String("path", path), zap.Error(err))
				}
			},
			watcher.WithLogger(logger),
		)
		if err := w.Start(ctx); err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}
		defer w.Stop()
		if err := w.SyncExisting(ctx); err != nil {
			logger.Warn("initial import sync failed", zap.Error(err))
		}
	}

	srv := server.NewServer(
		components.Engine,
		components.Storage,
		components.Auth,
		components.Importer,
		cfg,
		logger,
	)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
}

// purgeSessions deletes expired admin sessions at startup and then hourly.
func purgeSessions(ctx context.Context, authService *auth.Service, logger *zap.Logger) {
	ticker := time.NewTicker(sessionPurgeInterval)
	defer ticker.Stop()
	for {
		if n, err := authService.PurgeExpired(ctx); err != nil {
			logger.Warn("session purge failed", zap.Error(err))
		} else if n > 0 {
			logger.Info("expired sessions purged", zap.Int64("count", n))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func runImport() {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(argsReorder(os.Args[2:]))

	if fs.NArg() < 1 {
		fmt.Println("Usage: electrolight import [flags] <file.xlsx|file.yaml>")
		os.Exit(1)
	}
	format := parseFormat(*outputFormat)

	_, logger, components := openCatalog(*configPath, false)
	defer logger.Sync()
	defer components.Close()

	report, err := components.Importer.ImportFile(context.Background(), fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Import failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteImportReport(os.Stdout, report, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runAdminCreate() {
	fs := flag.NewFlagSet("admin-create", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	username := fs.String("username", "", "admin username")
	password := fs.String("password", "", "admin password (at least 8 characters)")
	_ = fs.Parse(os.Args[2:])

	_, logger, components := openCatalog(*configPath, false)
	defer logger.Sync()
	defer components.Close()

	user, err := components.Auth.CreateAdmin(context.Background(), *username, *password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Create admin failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Created admin %s (%s)\n", user.Username, user.ID)
}

// buildSearchQuery joins all positional args with spaces so multi-word queries
// work the same with or without shell quoting.
func buildSearchQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// argsReorder moves any flags (and their values) that appear after the
// positional arguments to the front so that flag.Parse() sees them.
func argsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(argsReorder(os.Args[2:]))

	query := buildSearchQuery(fs.Args())
	if query == "" {
		fmt.Println("Usage: electrolight search [flags] <query>")
		os.Exit(1)
	}
	format := parseFormat(*outputFormat)

	_, logger, components := openCatalog(*configPath, false)
	defer logger.Sync()
	defer components.Close()

	response, err := components.Engine.Search(context.Background(), query)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteSearchResults(os.Stdout, response, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runSimilar() {
	fs := flag.NewFlagSet("similar", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	outputFormat := fs.String("output", "text", "output format: text or json")
	debug := fs.Bool("debug", false, "log similarity scores")
	_ = fs.Parse(argsReorder(os.Args[2:]))

	if fs.NArg() < 1 {
		fmt.Println("Usage: electrolight similar [flags] <product-id>")
		os.Exit(1)
	}
	format := parseFormat(*outputFormat)

	_, logger, components := openCatalog(*configPath, *debug)
	defer logger.Sync()
	defer components.Close()

	products, err := components.Engine.SimilarProducts(context.Background(), fs.Arg(0))
	if errors.Is(err, storage.ErrNotFound) {
		fmt.Fprintln(os.Stderr, "Product not found")
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Similar failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteProducts(os.Stdout, products, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])
	format := parseFormat(*outputFormat)

	cfg, logger, components := openCatalog(*configPath, false)
	defer logger.Sync()
	defer components.Close()

	status, err := collectStatus(context.Background(), cfg, components.Storage)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteStatus(os.Stdout, status, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func collectStatus(ctx context.Context, cfg *config.Config, store storage.Storage) (*cli.Status, error) {
	products, err := store.CountProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}
	accessories, err := store.CountAccessories(ctx)
	if err != nil {
		return nil, fmt.Errorf("count accessories: %w", err)
	}
	categories, err := store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	size, err := storage.DatabaseSize(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("database size: %w", err)
	}
	return &cli.Status{
		Products:          products,
		Accessories:       accessories,
		Categories:        len(categories),
		DatabasePath:      cfg.Storage.DatabasePath,
		DatabaseSizeBytes: size,
	}, nil
}

func printUsage() {
	fmt.Println(`electrolight - ElectroLight catalog service

Usage:
  electrolight server [flags]              Start the HTTP server
  electrolight import [flags] <file>       Import products, accessories and categories (.xlsx, .yaml)
  electrolight admin-create [flags]        Create an admin account
  electrolight search [flags] <query>      Combined product and accessory search
  electrolight similar [flags] <id>        Products similar to a product
  electrolight status [flags]              Show catalog counts and database size
  electrolight version                     Show version
  electrolight help                        Show this help

Common Flags:
  --config string    Config file path (default: /usr/local/etc/electrolight/config.yaml)
  --output string    Output format for import/search/similar/status: text or json (default: text)

Server Flags:
  --debug            Enable debug logging (similarity scores, watcher events)

Admin Flags:
  --username string  Admin username
  --password string  Admin password (at least 8 characters)

Examples:
  electrolight server
  electrolight import catalog.xlsx
  electrolight admin-create --username admin --password 'change me please'
  electrolight search led strip
  electrolight similar --output json 3f1c0a52-9b1e-4c1a-a6b0-2d7e1f8c9a10`)
}
