package ports

import (
	"context"

	"github.com/alejandrodnm/polyarb/internal/domain"
)

// BookFetcher obtiene el orderbook de un solo token del CLOB.
// El fan-out con concurrencia acotada lo orquesta el scanner por encima
// de esta interfaz; el adapter solo sabe traer un book.
type BookFetcher interface {
	// FetchOrderBook devuelve el orderbook del token con los ladders ya
	// ordenados, o error si el request o el parseo fallan.
	FetchOrderBook(ctx context.Context, tokenID string) (domain.OrderBook, error)
}
