package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alejandrodnm/polyarb/config"
	"github.com/alejandrodnm/polyarb/internal/adapters/notify"
	"github.com/alejandrodnm/polyarb/internal/adapters/polymarket"
	"github.com/alejandrodnm/polyarb/internal/adapters/storage"
	"github.com/alejandrodnm/polyarb/internal/scanner"
)

// Exit codes: 0 = oportunidades encontradas, 1 = scan limpio sin
// oportunidades (o error), 130 = interrumpido por señal.
const (
	exitOK          = 0
	exitEmpty       = 1
	exitInterrupted = 130
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	once := flag.Bool("once", false, "run one scan cycle and exit")
	watch := flag.Bool("watch", false, "scan once, then follow live book updates over websocket")
	history := flag.Int("history", 0, "print opportunities recorded in the last N days and exit")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	format := flag.String("format", notify.FormatTable, "output format: table|compact")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(exitEmpty)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	setupLogger(cfg.Log)

	slog.Info("polyarb starting",
		"config", *configPath,
		"interval", cfg.ScanInterval(),
		"min_profit", cfg.Scanner.MinProfit,
		"once", *once,
		"watch", *watch,
	)

	client := polymarket.NewClient(cfg.API.CLOBBase, cfg.API.GammaBase,
		cfg.Scanner.MinVolume, cfg.Scanner.MarketLimit)
	client.SetTimeout(cfg.RequestTimeout())

	var store *storage.SQLiteStorage
	if cfg.Storage.DSN != "" && (!*once || *history > 0) {
		store, err = storage.NewSQLiteStorage(cfg.Storage.DSN)
		if err != nil {
			slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
			os.Exit(exitEmpty)
		}
		defer store.Close()
	}

	notifier := notify.NewConsole(*format)

	scanCfg := scanner.DefaultConfig()
	scanCfg.MinProfit = cfg.Scanner.MinProfit
	scanCfg.Concurrency = cfg.Scanner.Concurrency
	scanCfg.ScanInterval = cfg.ScanInterval()

	var s *scanner.Scanner
	if store != nil {
		s = scanner.New(scanCfg, client, client, store, notifier)
	} else {
		s = scanner.New(scanCfg, client, client, nil, notifier)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	switch {
	case *history > 0:
		if store == nil {
			slog.Error("history mode requires storage.dsn in the config")
			os.Exit(exitEmpty)
		}
		os.Exit(runHistory(ctx, store, notifier, *history))
	case *once:
		os.Exit(runOnce(ctx, s, notifier))
	case *watch:
		os.Exit(runWatch(ctx, cfg, s, notifier))
	default:
		if err := s.Run(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				slog.Info("polyarb stopped cleanly")
				os.Exit(exitInterrupted)
			}
			slog.Error("scanner exited with error", "err", err)
			os.Exit(exitEmpty)
		}
	}
}

// runOnce ejecuta un ciclo único y traduce el resultado a exit code.
func runOnce(ctx context.Context, s *scanner.Scanner, notifier *notify.Console) int {
	opps, err := s.RunOnce(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return exitInterrupted
		}
		slog.Error("scan failed", "err", err)
		return exitEmpty
	}

	if err := notifier.Notify(ctx, opps); err != nil {
		slog.Warn("notifier error", "err", err)
	}

	if len(opps) == 0 {
		return exitEmpty
	}
	return exitOK
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
