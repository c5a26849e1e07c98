package ports

import (
	"context"

	"github.com/alejandrodnm/polyarb/internal/domain"
)

// MarketProvider obtiene el listado de mercados activos desde Gamma.
type MarketProvider interface {
	// FetchActiveMarkets devuelve los mercados activos ordenados por
	// volumen descendente, ya filtrados por volumen mínimo y con al
	// menos 2 outcome tokens. Los registros malformados se descartan
	// con un warning, nunca llegan al scanner.
	FetchActiveMarkets(ctx context.Context) ([]domain.Market, error)
}
