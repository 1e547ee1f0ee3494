package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"jobfinder-engine/internal/config"
)

const version = "1.0.0"

const usage = `usage: jobfinder <command> [flags]

commands:
  serve    run the dashboard API
  search   run one search and print or export it
  sync     push the configured search to the spreadsheet
  digest   mail the configured digest now (or -test)
  mcp      serve the search tools over stdio
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return errors.New("missing command")
	}
	// A missing .env is normal; real env vars still apply.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "serve":
		return serve(ctx, rest)
	case "search":
		return searchCmd(ctx, rest)
	case "sync":
		return syncCmd(ctx, rest)
	case "digest":
		return digestCmd(ctx, rest)
	case "mcp":
		return mcpCmd(ctx, rest)
	case "version":
		fmt.Println(version)
		return nil
	case "-h", "--help", "help":
		fmt.Print(usage)
		return nil
	}
	fmt.Fprint(os.Stderr, usage)
	return fmt.Errorf("unknown command %q", cmd)
}

// env bundles what every command needs.
type env struct {
	cfg     config.Config
	cfgPath string
	dataDir string
	log     *slog.Logger
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// setup bootstraps the data dir, loads and validates the config and builds
// the logger. Logs go to logOut so the mcp command can keep stdout clean.
func setup(fs *flag.FlagSet, args []string, logOut io.Writer) (*env, error) {
	cfgFlag := fs.String("config", os.Getenv("JOBFINDER_CONFIG"), "config file (default: <data dir>/config.yml)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	dataDir := config.DataDir()
	cfgPath := *cfgFlag
	if cfgPath == "" {
		p, err := config.EnsureUserConfig(dataDir)
		if err != nil {
			return nil, fmt.Errorf("config bootstrap failed: %w", err)
		}
		cfgPath = p
	}

	e := &env{cfgPath: cfgPath, dataDir: dataDir}
	cfg, err := e.load()
	if err != nil {
		return nil, err
	}
	e.cfg = cfg
	e.log = newLogger(logOut, cfg.App.LogLevel)
	e.log.Info("config loaded", "path", cfgPath, "data_dir", cfg.App.DataDir)
	return e, nil
}

// load reads the config, overlays companies.yml and validates the result.
func (e *env) load() (config.Config, error) {
	cfg, err := config.Load(e.cfgPath)
	if err != nil {
		return cfg, fmt.Errorf("config load failed (%s): %w", e.cfgPath, err)
	}
	if err := config.OverlayCompanies(&cfg, filepath.Join(filepath.Dir(e.cfgPath), config.CompaniesFileName)); err != nil {
		return cfg, fmt.Errorf("companies overlay: %w", err)
	}
	if cfg.App.DataDir == "" {
		cfg.App.DataDir = e.dataDir
	}
	cfg, v := config.NormalizeAndValidate(cfg)
	for _, w := range v.Warnings {
		slog.Warn("config warning", "warning", w)
	}
	if err := v.Err(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
