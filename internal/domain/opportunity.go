package domain

// ArbKind clasifica el tipo de arbitraje detectado.
type ArbKind string

const (
	ArbBuy   ArbKind = "BUY"   // comprar todos los outcomes por menos de 1.0
	ArbSell  ArbKind = "SELL"  // vender todos los outcomes por más de 1.0
	ArbMulti ArbKind = "MULTI" // mercado multi-outcome (cualquier lado)
)

// Side indica qué lado del book disparó la detección.
type Side string

const (
	SideBuy  Side = "buy"  // detectado sobre los asks
	SideSell Side = "sell" // detectado sobre los bids
)

// Opportunity es el resultado del detector para un mercado.
// Inmutable una vez creada; el scanner solo reordena la colección.
type Opportunity struct {
	Question string
	Kind     ArbKind
	Side     Side

	ProfitPct    float64 // fracción 0-1 (0.05 = 5%)
	MaxSize      float64 // tamaño máximo operable en unidades de la plataforma
	MaxProfitUSD float64 // ProfitPct × MaxSize

	// Precios de referencia. En mercados binarios YesPrice/NoPrice son los
	// dos precios contribuyentes (asks o bids según Side). En mercados
	// multi-outcome AggregatePrice lleva la suma del lado detectado y los
	// campos Yes/No quedan en cero.
	YesPrice       float64
	NoPrice        float64
	AggregatePrice float64

	EventSlug string
	Details   string // explicación auditable con los precios contribuyentes
}
