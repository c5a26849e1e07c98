package domain

// arbitrage.go — detección de arbitraje sin riesgo sobre orderbooks.
//
// Un mercado de predicción paga exactamente 1.0 al outcome ganador, así que:
//   - si la suma de los mejores asks de todos los outcomes es < 1.0, comprar
//     todos garantiza beneficio (BUY arb);
//   - si la suma de los mejores bids es > 1.0, vender todos garantiza
//     beneficio (SELL arb).
//
// Las comparaciones contra 1.0 y contra el umbral son exactas, sin epsilon.
// Fragilidad conocida en los límites por representación de float64; se
// mantiene así a propósito para no cambiar el comportamiento observable.

import (
	"fmt"
	"strings"
)

// DetectorConfig contiene los parámetros del detector. Se pasa explícito
// en cada llamada en vez de leerse de estado global para que los tests
// puedan correr en paralelo con umbrales distintos.
type DetectorConfig struct {
	// MinProfit es la fracción mínima de beneficio para emitir una
	// oportunidad. El umbral es inclusivo: profit == MinProfit emite.
	MinProfit float64
}

// OutcomeBook empareja un outcome con su orderbook para la detección
// multi-outcome.
type OutcomeBook struct {
	Outcome string
	Book    OrderBook
}

// CheckBinary detecta arbitraje en un mercado binario. El primer token se
// trata como lado YES y el segundo como NO por convención de orden de la
// plataforma, sin mirar el label semántico. Devuelve 0, 1 o 2
// oportunidades: los lados buy y sell son independientes.
func CheckBinary(cfg DetectorConfig, market Market, yesBook, noBook OrderBook) []Opportunity {
	var opps []Opportunity

	// BUY: comprar YES y NO por menos del payout garantizado de 1.0.
	yesAsk, okYes := yesBook.BestAsk()
	noAsk, okNo := noBook.BestAsk()
	if okYes && okNo {
		combinedAsk := yesAsk.Price + noAsk.Price
		if combinedAsk < 1.0 {
			profit := 1.0 - combinedAsk
			if profit >= cfg.MinProfit {
				size := minFloat(yesAsk.Size, noAsk.Size)
				opps = append(opps, Opportunity{
					Question:     market.Question,
					Kind:         ArbBuy,
					Side:         SideBuy,
					ProfitPct:    profit,
					MaxSize:      size,
					MaxProfitUSD: profit * size,
					YesPrice:     yesAsk.Price,
					NoPrice:      noAsk.Price,
					EventSlug:    market.EventSlug,
					Details: fmt.Sprintf(
						"BUY arb: YES ask=%.4f + NO ask=%.4f = %.4f < 1.0 | profit=%.4f (%.2f%%) | max_size=%.2f | max_profit=$%.2f",
						yesAsk.Price, noAsk.Price, combinedAsk,
						profit, profit*100, size, profit*size),
				})
			}
		}
	}

	// SELL: vender YES y NO por más del payout garantizado.
	yesBid, okYes := yesBook.BestBid()
	noBid, okNo := noBook.BestBid()
	if okYes && okNo {
		combinedBid := yesBid.Price + noBid.Price
		if combinedBid > 1.0 {
			profit := combinedBid - 1.0
			if profit >= cfg.MinProfit {
				size := minFloat(yesBid.Size, noBid.Size)
				opps = append(opps, Opportunity{
					Question:     market.Question,
					Kind:         ArbSell,
					Side:         SideSell,
					ProfitPct:    profit,
					MaxSize:      size,
					MaxProfitUSD: profit * size,
					YesPrice:     yesBid.Price,
					NoPrice:      noBid.Price,
					EventSlug:    market.EventSlug,
					Details: fmt.Sprintf(
						"SELL arb: YES bid=%.4f + NO bid=%.4f = %.4f > 1.0 | profit=%.4f (%.2f%%) | max_size=%.2f | max_profit=$%.2f",
						yesBid.Price, noBid.Price, combinedBid,
						profit, profit*100, size, profit*size),
				})
			}
		}
	}

	return opps
}

// CheckMultiOutcome detecta arbitraje en un mercado de 3+ outcomes.
// Cada lado requiere que TODOS los outcomes tengan mejor precio: si falta
// uno, ese lado se salta entero — nunca se evalúan sumas parciales.
func CheckMultiOutcome(cfg DetectorConfig, question, eventSlug string, books []OutcomeBook) []Opportunity {
	var opps []Opportunity

	// BUY: suma de todos los asks < 1.0.
	if sumAsks, minSize, ok := sumSide(books, func(b OrderBook) (BookEntry, bool) { return b.BestAsk() }); ok {
		if sumAsks < 1.0 {
			profit := 1.0 - sumAsks
			if profit >= cfg.MinProfit {
				opps = append(opps, Opportunity{
					Question:       question,
					Kind:           ArbMulti,
					Side:           SideBuy,
					ProfitPct:      profit,
					MaxSize:        minSize,
					MaxProfitUSD:   profit * minSize,
					AggregatePrice: sumAsks,
					EventSlug:      eventSlug,
					Details: fmt.Sprintf(
						"MULTI BUY arb: sum_asks=%.4f < 1.0 | outcomes: [%s] | profit=%.4f (%.2f%%) | max_size=%.2f | max_profit=$%.2f",
						sumAsks, outcomeDetails(books, SideBuy),
						profit, profit*100, minSize, profit*minSize),
				})
			}
		}
	}

	// SELL: suma de todos los bids > 1.0.
	if sumBids, minSize, ok := sumSide(books, func(b OrderBook) (BookEntry, bool) { return b.BestBid() }); ok {
		if sumBids > 1.0 {
			profit := sumBids - 1.0
			if profit >= cfg.MinProfit {
				opps = append(opps, Opportunity{
					Question:       question,
					Kind:           ArbMulti,
					Side:           SideSell,
					ProfitPct:      profit,
					MaxSize:        minSize,
					MaxProfitUSD:   profit * minSize,
					AggregatePrice: sumBids,
					EventSlug:      eventSlug,
					Details: fmt.Sprintf(
						"MULTI SELL arb: sum_bids=%.4f > 1.0 | outcomes: [%s] | profit=%.4f (%.2f%%) | max_size=%.2f | max_profit=$%.2f",
						sumBids, outcomeDetails(books, SideSell),
						profit, profit*100, minSize, profit*minSize),
				})
			}
		}
	}

	return opps
}

// sumSide suma el mejor precio de cada outcome y devuelve el mínimo de los
// sizes. ok=false si algún outcome no tiene precio en ese lado.
func sumSide(books []OutcomeBook, best func(OrderBook) (BookEntry, bool)) (sum, minSize float64, ok bool) {
	if len(books) == 0 {
		return 0, 0, false
	}
	for i, ob := range books {
		entry, found := best(ob.Book)
		if !found {
			return 0, 0, false
		}
		sum += entry.Price
		if i == 0 || entry.Size < minSize {
			minSize = entry.Size
		}
	}
	return sum, minSize, true
}

// outcomeDetails enumera el precio contribuyente de cada outcome para el
// string de auditoría.
func outcomeDetails(books []OutcomeBook, side Side) string {
	parts := make([]string, 0, len(books))
	for _, ob := range books {
		var entry BookEntry
		if side == SideBuy {
			entry, _ = ob.Book.BestAsk()
		} else {
			entry, _ = ob.Book.BestBid()
		}
		parts = append(parts, fmt.Sprintf("%s=%.4f", ob.Outcome, entry.Price))
	}
	return strings.Join(parts, ", ")
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
