package polymarket

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/alejandrodnm/polyarb/internal/domain"
)

// mapGammaMarket convierte un gammaMarket DTO a domain.Market.
// Devuelve error si faltan identificadores o los campos JSON anidados
// no parsean; el caller los descarta con warning.
func mapGammaMarket(gm gammaMarket) (domain.Market, error) {
	if gm.ConditionID == "" {
		return domain.Market{}, fmt.Errorf("missing conditionId")
	}

	var tokenIDs []string
	if err := json.Unmarshal([]byte(gm.ClobTokenIDs), &tokenIDs); err != nil {
		return domain.Market{}, fmt.Errorf("parse clobTokenIds: %w", err)
	}

	var outcomes []string
	if gm.Outcomes != "" {
		if err := json.Unmarshal([]byte(gm.Outcomes), &outcomes); err != nil {
			return domain.Market{}, fmt.Errorf("parse outcomes: %w", err)
		}
	}

	// outcomePrices solo se valida; los precios vivos salen del orderbook
	if gm.OutcomePrices != "" {
		var prices []string
		if err := json.Unmarshal([]byte(gm.OutcomePrices), &prices); err != nil {
			return domain.Market{}, fmt.Errorf("parse outcomePrices: %w", err)
		}
	}

	m := domain.Market{
		ConditionID: gm.ConditionID,
		Question:    gm.Question,
		Slug:        gm.Slug,
		Active:      gm.Active,
	}

	if v, err := gm.Volume.Float64(); err == nil {
		m.Volume = v
	}
	if len(gm.Events) > 0 {
		m.EventSlug = gm.Events[0].Slug
	}

	// Emparejar token IDs con sus outcomes preservando el orden de la
	// plataforma; si faltan labels, el token queda con outcome vacío.
	m.Tokens = make([]domain.Token, 0, len(tokenIDs))
	for i, tid := range tokenIDs {
		t := domain.Token{TokenID: tid}
		if i < len(outcomes) {
			t.Outcome = outcomes[i]
		}
		m.Tokens = append(m.Tokens, t)
	}

	return m, nil
}

// mapOrderBook convierte la respuesta de /book a domain.OrderBook con los
// ladders ya ordenados: bids descendente, asks ascendente.
func mapOrderBook(r orderBookResponse, tokenID string) domain.OrderBook {
	return domain.OrderBook{
		TokenID: tokenID,
		Bids:    mapBookEntries(r.Bids, false),
		Asks:    mapBookEntries(r.Asks, true),
	}
}

// mapBookEntries convierte entries raw a domain.BookEntry y los ordena.
// ascending=true → menor a mayor (asks), ascending=false → mayor a menor (bids).
// Un precio que no parsea queda en 0 para el sort, pero el size se parsea
// por separado y nunca se corrompe por culpa del precio.
func mapBookEntries(raw []bookEntryRaw, ascending bool) []domain.BookEntry {
	entries := make([]domain.BookEntry, 0, len(raw))
	for _, r := range raw {
		price, _ := strconv.ParseFloat(r.Price, 64)
		size, _ := strconv.ParseFloat(r.Size, 64)
		entries = append(entries, domain.BookEntry{Price: price, Size: size})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if ascending {
			return entries[i].Price < entries[j].Price
		}
		return entries[i].Price > entries[j].Price
	})

	return entries
}
