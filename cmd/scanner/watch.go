package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/alejandrodnm/polyarb/config"
	"github.com/alejandrodnm/polyarb/internal/adapters/notify"
	"github.com/alejandrodnm/polyarb/internal/adapters/polymarket"
	"github.com/alejandrodnm/polyarb/internal/domain"
	"github.com/alejandrodnm/polyarb/internal/scanner"
)

// runWatch hace un scan inicial y después sigue el stream de books por
// websocket, re-evaluando los mercados afectados con cada update.
func runWatch(ctx context.Context, cfg *config.Config, s *scanner.Scanner, notifier *notify.Console) int {
	slog.Info("watch mode: bootstrapping with a full scan")

	markets, seed, tokenIDs, err := s.Bootstrap(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return exitInterrupted
		}
		slog.Error("bootstrap failed", "err", err)
		return exitEmpty
	}

	if len(tokenIDs) == 0 {
		slog.Warn("no tokens to watch")
		return exitEmpty
	}

	detectorCfg := domain.DetectorConfig{MinProfit: cfg.Scanner.MinProfit}
	watcher := scanner.NewWatcher(detectorCfg, markets, seed, notifier)
	stream := polymarket.NewBookStream(cfg.API.WSBase, tokenIDs)

	slog.Info("watching live book updates",
		"markets", len(markets),
		"tokens", len(tokenIDs),
	)

	if err := watcher.Watch(ctx, stream); err != nil {
		if errors.Is(err, context.Canceled) {
			slog.Info("watch stopped")
			return exitInterrupted
		}
		slog.Error("watch exited with error", "err", err)
		return exitEmpty
	}
	return exitOK
}
