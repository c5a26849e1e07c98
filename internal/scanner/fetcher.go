package scanner

// fetcher.go — fan-out acotado de orderbooks.
//
// Un scan pide cientos de books; el pool limita los requests en vuelo a
// cfg.Concurrency para no saturar el CLOB. Cada fallo individual se loguea
// y se omite del resultado — un token caído nunca aborta ni retrasa a los
// demás.

import (
	"context"
	"log/slog"
	"sync"

	"github.com/alejandrodnm/polyarb/internal/domain"
	"github.com/alejandrodnm/polyarb/internal/ports"
)

const defaultConcurrency = 20

// fetchBooks obtiene los orderbooks de los tokens dados con un worker pool
// de tamaño fijo. Devuelve solo los tokens que se obtuvieron con éxito:
// un token ausente del map significa "desconocido", no "book vacío".
func fetchBooks(ctx context.Context, fetcher ports.BookFetcher, tokenIDs []string, concurrency int) map[string]domain.OrderBook {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	if len(tokenIDs) == 0 {
		return map[string]domain.OrderBook{}
	}

	// Deduplicar: re-pedir el mismo token es inofensivo pero gratuito de evitar.
	unique := dedupe(tokenIDs)

	workCh := make(chan string, len(unique))
	resultCh := make(chan domain.OrderBook, len(unique))

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for tokenID := range workCh {
				if ctx.Err() != nil {
					return
				}
				book, err := fetcher.FetchOrderBook(ctx, tokenID)
				if err != nil {
					slog.Warn("failed to fetch orderbook, skipping token",
						"token_id", tokenID,
						"err", err,
					)
					continue
				}
				resultCh <- book
			}
		}()
	}

	for _, id := range unique {
		workCh <- id
	}
	close(workCh)

	// Cerrar resultCh cuando todos los workers terminen.
	go func() {
		wg.Wait()
		close(resultCh)
	}()

	books := make(map[string]domain.OrderBook, len(unique))
	for book := range resultCh {
		books[book.TokenID] = book
	}

	slog.Debug("order books fetched",
		"requested", len(unique),
		"fetched", len(books),
		"failed", len(unique)-len(books),
	)
	return books
}

// dedupe elimina duplicados preservando el orden de primera aparición.
func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
