package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/alejandrodnm/polyarb/internal/domain"
	"github.com/alejandrodnm/polyarb/internal/ports"
)

// Config contiene la configuración del scanner.
type Config struct {
	MinProfit    float64       // umbral mínimo de beneficio (fracción, inclusivo)
	Concurrency  int           // requests de books en vuelo
	ScanInterval time.Duration // intervalo entre ciclos en modo loop
}

// DefaultConfig devuelve la configuración por defecto del scanner.
func DefaultConfig() Config {
	return Config{
		MinProfit:    0.001,
		Concurrency:  20,
		ScanInterval: 30 * time.Second,
	}
}

// Scanner es el orquestador: fetch de mercados → fetch de books →
// detección → ranking. No guarda estado entre ciclos.
type Scanner struct {
	cfg      Config
	markets  ports.MarketProvider
	books    ports.BookFetcher
	storage  ports.Storage
	notifier ports.Notifier
}

// New crea un Scanner con todas las dependencias inyectadas.
// storage puede ser nil (sin histórico).
func New(cfg Config, markets ports.MarketProvider, books ports.BookFetcher, storage ports.Storage, notifier ports.Notifier) *Scanner {
	return &Scanner{
		cfg:      cfg,
		markets:  markets,
		books:    books,
		storage:  storage,
		notifier: notifier,
	}
}

// Run ejecuta ciclos de escaneo hasta que el contexto se cancele.
func (s *Scanner) Run(ctx context.Context) error {
	slog.Info("scanner starting",
		"interval", s.cfg.ScanInterval,
		"min_profit", s.cfg.MinProfit,
		"concurrency", s.cfg.Concurrency,
	)

	if err := s.runCycle(ctx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		slog.Error("scan cycle failed", "err", err)
	}

	ticker := time.NewTicker(s.cfg.ScanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("scanner stopped")
			return ctx.Err()
		case <-ticker.C:
			if err := s.runCycle(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				slog.Error("scan cycle failed", "err", err)
			}
		}
	}
}

// RunOnce ejecuta exactamente un ciclo y devuelve las oportunidades
// ordenadas por profit descendente.
func (s *Scanner) RunOnce(ctx context.Context) ([]domain.Opportunity, error) {
	markets, err := s.markets.FetchActiveMarkets(ctx)
	if err != nil {
		return nil, fmt.Errorf("scanner.RunOnce: fetch markets: %w", err)
	}
	return s.ScanMarkets(ctx, markets)
}

// Bootstrap hace el fetch inicial de mercados y books, el punto de
// partida para el modo watch. Devuelve también la unión de token IDs
// para la suscripción al stream.
func (s *Scanner) Bootstrap(ctx context.Context) ([]domain.Market, map[string]domain.OrderBook, []string, error) {
	markets, err := s.markets.FetchActiveMarkets(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("scanner.Bootstrap: fetch markets: %w", err)
	}

	tokenIDs := collectTokenIDs(markets)
	books := fetchBooks(ctx, s.books, tokenIDs, s.cfg.Concurrency)
	if err := ctx.Err(); err != nil {
		return nil, nil, nil, err
	}
	return markets, books, tokenIDs, nil
}

// runCycle ejecuta un ciclo completo y notifica/persiste los resultados.
func (s *Scanner) runCycle(ctx context.Context) error {
	scanID := uuid.NewString()
	start := time.Now()

	opps, err := s.RunOnce(ctx)
	if err != nil {
		return err
	}

	if err := s.notifier.Notify(ctx, opps); err != nil {
		slog.Warn("notifier error", "scan_id", scanID, "err", err)
	}

	if s.storage != nil {
		if err := s.storage.SaveScan(ctx, scanID, opps); err != nil {
			slog.Warn("storage error", "scan_id", scanID, "err", err)
		}
	}

	slog.Info("scan cycle complete",
		"scan_id", scanID,
		"opportunities", len(opps),
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return nil
}

// ScanMarkets escanea los mercados dados: un solo batch de books para la
// unión de todos los tokens, después detección por mercado y ranking.
// Si el contexto se cancela no devuelve lista parcial.
func (s *Scanner) ScanMarkets(ctx context.Context, markets []domain.Market) ([]domain.Opportunity, error) {
	tokenIDs := collectTokenIDs(markets)

	slog.Info("scanning markets",
		"markets", len(markets),
		"tokens", len(tokenIDs),
	)

	// Un único batch para todos los mercados: la carga concurrente total
	// queda acotada por Concurrency sin importar cuántos mercados haya.
	books := fetchBooks(ctx, s.books, tokenIDs, s.cfg.Concurrency)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slog.Info("order books fetched",
		"fetched", len(books),
		"requested", len(tokenIDs),
	)

	opps := s.detectAll(markets, books)

	// Orden estable: a igual profit se preserva el orden de descubrimiento.
	sort.SliceStable(opps, func(i, j int) bool {
		return opps[i].ProfitPct > opps[j].ProfitPct
	})

	slog.Info("scan complete",
		"opportunities", len(opps),
		"markets", len(markets),
	)
	return opps, nil
}

// detectAll clasifica cada mercado y corre el detector que corresponda.
// Mercados con algún book ausente se saltan enteros — nunca se evalúa un
// mercado a medias.
func (s *Scanner) detectAll(markets []domain.Market, books map[string]domain.OrderBook) []domain.Opportunity {
	cfg := domain.DetectorConfig{MinProfit: s.cfg.MinProfit}

	var opps []domain.Opportunity
	for _, market := range markets {
		switch {
		case market.IsBinary():
			yesBook, okYes := books[market.Tokens[0].TokenID]
			noBook, okNo := books[market.Tokens[1].TokenID]
			if !okYes || !okNo {
				slog.Warn("missing orderbook for binary market, skipping",
					"condition_id", market.ConditionID,
					"question", market.Question,
				)
				continue
			}
			slog.Debug("evaluating binary market",
				"condition_id", market.ConditionID,
				"yes_mid", yesBook.Midpoint(),
				"no_mid", noBook.Midpoint(),
				"yes_spread", yesBook.Spread(),
				"no_spread", noBook.Spread(),
			)
			opps = append(opps, domain.CheckBinary(cfg, market, yesBook, noBook)...)

		case market.IsMultiOutcome():
			outcomeBooks, ok := collectOutcomeBooks(market, books)
			if !ok {
				continue
			}
			opps = append(opps, domain.CheckMultiOutcome(cfg, market.Question, market.EventSlug, outcomeBooks)...)

		default:
			// 0 o 1 tokens: dato inválido que el provider debió filtrar
			slog.Warn("market with invalid outcome count, skipping",
				"condition_id", market.ConditionID,
				"outcomes", len(market.Tokens),
			)
		}
	}
	return opps
}

// collectOutcomeBooks reúne los books de todos los outcomes de un mercado
// multi. ok=false (con warning) si falta alguno.
func collectOutcomeBooks(market domain.Market, books map[string]domain.OrderBook) ([]domain.OutcomeBook, bool) {
	out := make([]domain.OutcomeBook, 0, len(market.Tokens))
	for _, token := range market.Tokens {
		book, ok := books[token.TokenID]
		if !ok {
			slog.Warn("missing orderbook for multi-outcome market, skipping",
				"condition_id", market.ConditionID,
				"token_id", token.TokenID,
				"outcome", token.Outcome,
			)
			return nil, false
		}
		out = append(out, domain.OutcomeBook{Outcome: token.Outcome, Book: book})
	}
	return out, true
}

// collectTokenIDs extrae la unión de todos los token IDs de los mercados.
func collectTokenIDs(markets []domain.Market) []string {
	ids := make([]string, 0, len(markets)*2)
	for _, m := range markets {
		ids = append(ids, m.TokenIDs()...)
	}
	return ids
}
