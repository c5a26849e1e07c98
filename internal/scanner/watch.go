package scanner

// watch.go — modo watch: re-evaluación en vivo sobre el feed WebSocket.
//
// Tras un scan inicial por HTTP, el watcher mantiene en memoria el último
// snapshot de cada book y re-corre el detector solo para los mercados
// afectados por cada update. Las oportunidades ya vistas no se re-anuncian
// hasta que desaparecen y vuelven.

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/alejandrodnm/polyarb/internal/domain"
	"github.com/alejandrodnm/polyarb/internal/ports"
)

// BookStreamer entrega snapshots de orderbook en vivo por el canal dado
// hasta que el contexto se cancele.
type BookStreamer interface {
	Run(ctx context.Context, books chan<- domain.OrderBook) error
}

// Watcher re-evalúa el detector sobre updates en vivo de los books.
type Watcher struct {
	cfg      domain.DetectorConfig
	notifier ports.Notifier

	markets       []domain.Market
	marketByToken map[string][]int        // tokenID → índices de mercados afectados
	books         map[string]domain.OrderBook
	announced     map[string]bool // claves de oportunidades ya anunciadas
}

// NewWatcher crea un Watcher para los mercados dados, sembrado con los
// books del scan inicial.
func NewWatcher(cfg domain.DetectorConfig, markets []domain.Market, seed map[string]domain.OrderBook, notifier ports.Notifier) *Watcher {
	byToken := make(map[string][]int)
	for i, m := range markets {
		for _, t := range m.Tokens {
			byToken[t.TokenID] = append(byToken[t.TokenID], i)
		}
	}

	books := make(map[string]domain.OrderBook, len(seed))
	for id, b := range seed {
		books[id] = b
	}

	return &Watcher{
		cfg:           cfg,
		notifier:      notifier,
		markets:       markets,
		marketByToken: byToken,
		books:         books,
		announced:     make(map[string]bool),
	}
}

// Watch consume el stream hasta que el contexto se cancele. El stream y el
// consumidor corren en el mismo errgroup: si uno cae, el otro termina.
func (w *Watcher) Watch(ctx context.Context, stream BookStreamer) error {
	updates := make(chan domain.OrderBook, 256)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return stream.Run(ctx, updates)
	})

	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case book, ok := <-updates:
				if !ok {
					return nil
				}
				w.apply(ctx, book)
			}
		}
	})

	err := g.Wait()
	if err != nil && ctx.Err() != nil {
		return context.Cause(ctx)
	}
	return err
}

// apply incorpora un snapshot y re-evalúa los mercados que lo usan.
func (w *Watcher) apply(ctx context.Context, book domain.OrderBook) {
	w.books[book.TokenID] = book

	for _, idx := range w.marketByToken[book.TokenID] {
		market := w.markets[idx]
		opps := w.evaluate(market)

		fresh := opps[:0]
		seen := make(map[string]bool, len(opps))
		for _, opp := range opps {
			key := oppKey(market.ConditionID, opp)
			seen[key] = true
			if w.announced[key] {
				continue
			}
			w.announced[key] = true
			fresh = append(fresh, opp)
		}

		// Olvidar las que desaparecieron para poder re-anunciarlas luego.
		w.expire(market.ConditionID, seen)

		if len(fresh) == 0 {
			continue
		}

		slog.Info("live arbitrage detected",
			"condition_id", market.ConditionID,
			"question", market.Question,
			"opportunities", len(fresh),
		)
		if err := w.notifier.Notify(ctx, fresh); err != nil {
			slog.Warn("notifier error", "err", err)
		}
	}
}

// evaluate corre el detector adecuado para un mercado con los books actuales.
func (w *Watcher) evaluate(market domain.Market) []domain.Opportunity {
	switch {
	case market.IsBinary():
		yesBook, okYes := w.books[market.Tokens[0].TokenID]
		noBook, okNo := w.books[market.Tokens[1].TokenID]
		if !okYes || !okNo {
			return nil
		}
		return domain.CheckBinary(w.cfg, market, yesBook, noBook)

	case market.IsMultiOutcome():
		outcomeBooks := make([]domain.OutcomeBook, 0, len(market.Tokens))
		for _, t := range market.Tokens {
			book, ok := w.books[t.TokenID]
			if !ok {
				return nil
			}
			outcomeBooks = append(outcomeBooks, domain.OutcomeBook{Outcome: t.Outcome, Book: book})
		}
		return domain.CheckMultiOutcome(w.cfg, market.Question, market.EventSlug, outcomeBooks)
	}
	return nil
}

// expire borra del registro las oportunidades del mercado que ya no existen.
func (w *Watcher) expire(conditionID string, alive map[string]bool) {
	prefix := conditionID + "|"
	for key := range w.announced {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix && !alive[key] {
			delete(w.announced, key)
		}
	}
}

func oppKey(conditionID string, opp domain.Opportunity) string {
	return fmt.Sprintf("%s|%s|%s", conditionID, opp.Kind, opp.Side)
}
