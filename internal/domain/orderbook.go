package domain

// OrderBook representa el libro de órdenes de un token de outcome.
// Los niveles llegan ya ordenados desde el mapping: bids de mayor a menor
// precio, asks de menor a mayor. Inmutable después de construirse.
type OrderBook struct {
	TokenID string
	Bids    []BookEntry // ordenados mayor a menor precio
	Asks    []BookEntry // ordenados menor a mayor precio
}

// BookEntry es un nivel de precio en el orderbook.
type BookEntry struct {
	Price float64
	Size  float64
}

// BestBid devuelve el mejor nivel de compra (mayor bid) y ok=false si el
// lado está vacío. Un precio 0 es teóricamente válido, por eso la ausencia
// se señala con el bool y no con un valor por defecto.
func (ob OrderBook) BestBid() (BookEntry, bool) {
	if len(ob.Bids) == 0 {
		return BookEntry{}, false
	}
	return ob.Bids[0], true
}

// BestAsk devuelve el mejor nivel de venta (menor ask) y ok=false si el
// lado está vacío.
func (ob OrderBook) BestAsk() (BookEntry, bool) {
	if len(ob.Asks) == 0 {
		return BookEntry{}, false
	}
	return ob.Asks[0], true
}

// Midpoint devuelve el punto medio entre best bid y best ask,
// o 0 si alguno de los dos lados está vacío.
func (ob OrderBook) Midpoint() float64 {
	bid, okBid := ob.BestBid()
	ask, okAsk := ob.BestAsk()
	if !okBid || !okAsk {
		return 0
	}
	return (bid.Price + ask.Price) / 2
}

// Spread devuelve el spread del book (ask - bid), o 0 si falta algún lado.
func (ob OrderBook) Spread() float64 {
	bid, okBid := ob.BestBid()
	ask, okAsk := ob.BestAsk()
	if !okBid || !okAsk {
		return 0
	}
	return ask.Price - bid.Price
}
