package polymarket

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/alejandrodnm/polyarb/internal/domain"
)

const gammaMarketsPath = "/markets"

// FetchActiveMarkets devuelve los mercados activos de Gamma ordenados por
// volumen descendente, filtrados por volumen mínimo. Los mercados sin
// clobTokenIds, con menos de 2 outcomes o malformados se descartan aquí:
// el scanner nunca los ve.
func (c *Client) FetchActiveMarkets(ctx context.Context) ([]domain.Market, error) {
	params := url.Values{}
	params.Set("active", "true")
	params.Set("closed", "false")
	params.Set("limit", strconv.Itoa(c.marketLimit))
	params.Set("order", "volume")
	params.Set("ascending", "false")

	reqURL := c.gammaBase + gammaMarketsPath + "?" + params.Encode()

	var resp gammaMarketsResponse
	if err := c.get(ctx, c.gammaLimiter, reqURL, &resp); err != nil {
		return nil, fmt.Errorf("gamma.FetchActiveMarkets: %w", err)
	}

	markets := make([]domain.Market, 0, len(resp))
	skipped := 0
	for _, gm := range resp {
		// Volumen ausente o no numérico cuenta como 0: queda filtrado.
		v, err := gm.Volume.Float64()
		if err != nil {
			v = 0
		}
		if v < c.minVolume {
			continue
		}
		if gm.ClobTokenIDs == "" {
			continue
		}

		m, err := mapGammaMarket(gm)
		if err != nil {
			slog.Warn("failed to parse gamma market, skipping",
				"condition_id", gm.ConditionID,
				"err", err,
			)
			skipped++
			continue
		}

		// 0 o 1 tokens no se pueden clasificar; fuera antes del scanner
		if len(m.Tokens) < 2 {
			skipped++
			continue
		}

		markets = append(markets, m)
	}

	slog.Info("active markets fetched",
		"total", len(markets),
		"skipped", skipped,
		"min_volume", c.minVolume,
	)
	return markets, nil
}
