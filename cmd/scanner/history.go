package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/alejandrodnm/polyarb/internal/ports"
)

// runHistory imprime las oportunidades registradas en los últimos days
// días, reusando el notificador de consola para el formato.
func runHistory(ctx context.Context, store ports.Storage, notifier ports.Notifier, days int) int {
	to := time.Now().UTC()
	from := to.AddDate(0, 0, -days)

	opps, err := store.GetHistory(ctx, from, to)
	if err != nil {
		slog.Error("failed to query history", "err", err, "days", days)
		return exitEmpty
	}

	slog.Info("history loaded", "days", days, "opportunities", len(opps))

	if err := notifier.Notify(ctx, opps); err != nil {
		slog.Warn("notifier error", "err", err)
	}

	if len(opps) == 0 {
		return exitEmpty
	}
	return exitOK
}
