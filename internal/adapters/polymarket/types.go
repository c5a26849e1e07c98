package polymarket

import "encoding/json"

// DTOs raw de la API de Polymarket. Solo se usan dentro de este paquete.
// La conversión a domain entities se hace en mapping.go.

// --- Gamma API ---

// gammaMarketsResponse es la respuesta de GET /markets de Gamma.
type gammaMarketsResponse []gammaMarket

// gammaMarket es un mercado del listado de Gamma. Varios campos llegan
// como strings JSON anidados (clobTokenIds, outcomes) o como números en
// string (volume), de ahí los json.Number y el doble parseo en mapping.go.
type gammaMarket struct {
	ConditionID   string       `json:"conditionId"`
	Question      string       `json:"question"`
	Slug          string       `json:"slug"`
	Active        bool         `json:"active"`
	Closed        bool         `json:"closed"`
	Volume        json.Number  `json:"volume"`
	ClobTokenIDs  string       `json:"clobTokenIds"`  // JSON string: '["tok1","tok2"]'
	Outcomes      string       `json:"outcomes"`      // JSON string: '["Yes","No"]'
	OutcomePrices string       `json:"outcomePrices"` // JSON string: '["0.55","0.45"]'
	Events        []gammaEvent `json:"events"`
}

// gammaEvent es el evento padre de un mercado; solo usamos el slug.
type gammaEvent struct {
	Slug string `json:"slug"`
}

// --- CLOB API ---

// orderBookResponse es la respuesta de GET /book para un token.
type orderBookResponse struct {
	AssetID string         `json:"asset_id"`
	Bids    []bookEntryRaw `json:"bids"`
	Asks    []bookEntryRaw `json:"asks"`
}

// bookEntryRaw es un nivel de precio raw de la API (strings para mayor precisión).
type bookEntryRaw struct {
	Price string `json:"price"`
	Size  string `json:"size"`
}
