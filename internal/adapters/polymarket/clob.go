package polymarket

import (
	"context"
	"fmt"
	"net/url"

	"github.com/alejandrodnm/polyarb/internal/domain"
)

const bookPath = "/book"

// FetchOrderBook obtiene el orderbook de un token vía GET /book.
// Implementa ports.BookFetcher; el fan-out concurrente vive en el scanner.
func (c *Client) FetchOrderBook(ctx context.Context, tokenID string) (domain.OrderBook, error) {
	params := url.Values{}
	params.Set("token_id", tokenID)

	reqURL := c.clobBase + bookPath + "?" + params.Encode()

	var resp orderBookResponse
	if err := c.get(ctx, c.bookLimiter, reqURL, &resp); err != nil {
		return domain.OrderBook{}, fmt.Errorf("clob.FetchOrderBook %s: %w", tokenID, err)
	}

	return mapOrderBook(resp, tokenID), nil
}
