package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderBook_BestBid_Sorted(t *testing.T) {
	ob := OrderBook{
		TokenID: "tok",
		Bids: []BookEntry{
			{Price: 0.55, Size: 100},
			{Price: 0.50, Size: 200},
			{Price: 0.40, Size: 300},
		},
	}

	best, ok := ob.BestBid()
	require.True(t, ok)
	assert.Equal(t, 0.55, best.Price)
	assert.Equal(t, 100.0, best.Size)

	// El best bid domina al resto del ladder
	for _, b := range ob.Bids {
		assert.GreaterOrEqual(t, best.Price, b.Price)
	}
}

func TestOrderBook_BestAsk_Sorted(t *testing.T) {
	ob := OrderBook{
		TokenID: "tok",
		Asks: []BookEntry{
			{Price: 0.45, Size: 80},
			{Price: 0.48, Size: 50},
			{Price: 0.60, Size: 10},
		},
	}

	best, ok := ob.BestAsk()
	require.True(t, ok)
	assert.Equal(t, 0.45, best.Price)
	assert.Equal(t, 80.0, best.Size)

	for _, a := range ob.Asks {
		assert.LessOrEqual(t, best.Price, a.Price)
	}
}

func TestOrderBook_EmptySides_Absent(t *testing.T) {
	ob := OrderBook{TokenID: "tok"}

	// Ausencia != precio cero: el ok debe ser false, nunca un 0 por defecto
	_, ok := ob.BestBid()
	assert.False(t, ok)
	_, ok = ob.BestAsk()
	assert.False(t, ok)
}

func TestOrderBook_ZeroPriceIsNotAbsence(t *testing.T) {
	ob := OrderBook{Bids: []BookEntry{{Price: 0, Size: 50}}}

	best, ok := ob.BestBid()
	require.True(t, ok)
	assert.Equal(t, 0.0, best.Price)
	assert.Equal(t, 50.0, best.Size)
}

func TestOrderBook_Midpoint(t *testing.T) {
	ob := OrderBook{
		Bids: []BookEntry{{Price: 0.48, Size: 10}},
		Asks: []BookEntry{{Price: 0.52, Size: 10}},
	}
	assert.InDelta(t, 0.50, ob.Midpoint(), 0.0001)
	assert.InDelta(t, 0.04, ob.Spread(), 0.0001)
}

func TestOrderBook_Midpoint_MissingSide(t *testing.T) {
	ob := OrderBook{Asks: []BookEntry{{Price: 0.52, Size: 10}}}
	assert.Equal(t, 0.0, ob.Midpoint())
	assert.Equal(t, 0.0, ob.Spread())
}

func TestMarket_Classification(t *testing.T) {
	binary := Market{Tokens: []Token{{TokenID: "a"}, {TokenID: "b"}}}
	multi := Market{Tokens: []Token{{TokenID: "a"}, {TokenID: "b"}, {TokenID: "c"}}}
	invalid := Market{Tokens: []Token{{TokenID: "a"}}}

	assert.True(t, binary.IsBinary())
	assert.False(t, binary.IsMultiOutcome())
	assert.True(t, multi.IsMultiOutcome())
	assert.False(t, multi.IsBinary())
	assert.False(t, invalid.IsBinary())
	assert.False(t, invalid.IsMultiOutcome())
}

func TestMarket_TokenIDs_SkipsEmpty(t *testing.T) {
	m := Market{Tokens: []Token{{TokenID: "a"}, {TokenID: ""}, {TokenID: "c"}}}
	assert.Equal(t, []string{"a", "c"}, m.TokenIDs())
}

func TestTruncateQuestion(t *testing.T) {
	assert.Equal(t, "short", TruncateQuestion("short", "0xabc", 20))
	assert.Equal(t, "una pregunta muy ...", TruncateQuestion("una pregunta muy larga que no cabe", "0xabc", 20))
	assert.Equal(t, "0xabc", TruncateQuestion("", "0xabc", 20))
}
