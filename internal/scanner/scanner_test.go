package scanner_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/polyarb/internal/domain"
	"github.com/alejandrodnm/polyarb/internal/scanner"
)

// --- mocks ---

type mockMarketProvider struct {
	markets []domain.Market
	err     error
}

func (m *mockMarketProvider) FetchActiveMarkets(_ context.Context) ([]domain.Market, error) {
	return m.markets, m.err
}

type mockBookFetcher struct {
	books map[string]domain.OrderBook
}

func (m *mockBookFetcher) FetchOrderBook(_ context.Context, tokenID string) (domain.OrderBook, error) {
	book, ok := m.books[tokenID]
	if !ok {
		return domain.OrderBook{}, errors.New("not found")
	}
	return book, nil
}

type mockNotifier struct {
	notified [][]domain.Opportunity
}

func (m *mockNotifier) Notify(_ context.Context, opps []domain.Opportunity) error {
	m.notified = append(m.notified, opps)
	return nil
}

type mockStorage struct {
	scanIDs []string
	saved   [][]domain.Opportunity
}

func (m *mockStorage) SaveScan(_ context.Context, scanID string, opps []domain.Opportunity) error {
	m.scanIDs = append(m.scanIDs, scanID)
	m.saved = append(m.saved, opps)
	return nil
}

func (m *mockStorage) GetHistory(_ context.Context, _, _ time.Time) ([]domain.Opportunity, error) {
	return nil, nil
}

func (m *mockStorage) Close() error { return nil }

// --- helpers ---

func binaryMarket(condID, question, yesID, noID string) domain.Market {
	return domain.Market{
		ConditionID: condID,
		Question:    question,
		Active:      true,
		Volume:      50000,
		Tokens: []domain.Token{
			{TokenID: yesID, Outcome: "Yes"},
			{TokenID: noID, Outcome: "No"},
		},
	}
}

func askBook(tokenID string, price, size float64) domain.OrderBook {
	return domain.OrderBook{
		TokenID: tokenID,
		Asks:    []domain.BookEntry{{Price: price, Size: size}},
	}
}

func newScanner(markets []domain.Market, books map[string]domain.OrderBook) (*scanner.Scanner, *mockNotifier, *mockStorage) {
	notifier := &mockNotifier{}
	storage := &mockStorage{}
	cfg := scanner.DefaultConfig()
	s := scanner.New(cfg,
		&mockMarketProvider{markets: markets},
		&mockBookFetcher{books: books},
		storage,
		notifier,
	)
	return s, notifier, storage
}

// --- tests ---

func TestScanner_RunOnce_BinaryArb(t *testing.T) {
	markets := []domain.Market{binaryMarket("0x1", "Will it rain?", "yes1", "no1")}
	books := map[string]domain.OrderBook{
		"yes1": askBook("yes1", 0.45, 100),
		"no1":  askBook("no1", 0.50, 80),
	}

	s, _, _ := newScanner(markets, books)
	opps, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	require.Len(t, opps, 1)
	assert.Equal(t, domain.ArbBuy, opps[0].Kind)
	assert.InDelta(t, 0.05, opps[0].ProfitPct, 0.0001)
}

func TestScanner_RunOnce_SortedByProfitDesc(t *testing.T) {
	markets := []domain.Market{
		binaryMarket("0x1", "small edge", "y1", "n1"),
		binaryMarket("0x2", "big edge", "y2", "n2"),
	}
	books := map[string]domain.OrderBook{
		"y1": askBook("y1", 0.49, 100), // profit 0.02
		"n1": askBook("n1", 0.49, 100),
		"y2": askBook("y2", 0.45, 100), // profit 0.10
		"n2": askBook("n2", 0.45, 100),
	}

	s, _, _ := newScanner(markets, books)
	opps, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	require.Len(t, opps, 2)
	assert.Equal(t, "big edge", opps[0].Question)
	assert.Equal(t, "small edge", opps[1].Question)
}

func TestScanner_RunOnce_StableTieOrder(t *testing.T) {
	// A igual profit, se preserva el orden de descubrimiento.
	markets := []domain.Market{
		binaryMarket("0x1", "first", "y1", "n1"),
		binaryMarket("0x2", "second", "y2", "n2"),
	}
	books := map[string]domain.OrderBook{
		"y1": askBook("y1", 0.45, 100),
		"n1": askBook("n1", 0.45, 100),
		"y2": askBook("y2", 0.45, 100),
		"n2": askBook("n2", 0.45, 100),
	}

	s, _, _ := newScanner(markets, books)
	opps, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	require.Len(t, opps, 2)
	assert.Equal(t, "first", opps[0].Question)
	assert.Equal(t, "second", opps[1].Question)
}

func TestScanner_RunOnce_SkipsMarketWithMissingBook(t *testing.T) {
	markets := []domain.Market{
		binaryMarket("0x1", "half fetched", "y1", "n1"),
		binaryMarket("0x2", "complete", "y2", "n2"),
	}
	books := map[string]domain.OrderBook{
		"y1": askBook("y1", 0.10, 100), // n1 ausente → mercado entero fuera
		"y2": askBook("y2", 0.45, 100),
		"n2": askBook("n2", 0.45, 100),
	}

	s, _, _ := newScanner(markets, books)
	opps, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	require.Len(t, opps, 1)
	assert.Equal(t, "complete", opps[0].Question)
}

func TestScanner_RunOnce_MultiOutcome(t *testing.T) {
	market := domain.Market{
		ConditionID: "0xmulti",
		Question:    "Who wins?",
		Tokens: []domain.Token{
			{TokenID: "a", Outcome: "Alice"},
			{TokenID: "b", Outcome: "Bob"},
			{TokenID: "c", Outcome: "Carol"},
		},
	}
	books := map[string]domain.OrderBook{
		"a": askBook("a", 0.30, 50),
		"b": askBook("b", 0.30, 60),
		"c": askBook("c", 0.30, 70),
	}

	s, _, _ := newScanner([]domain.Market{market}, books)
	opps, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	require.Len(t, opps, 1)
	assert.Equal(t, domain.ArbMulti, opps[0].Kind)
	assert.Equal(t, 50.0, opps[0].MaxSize)
}

func TestScanner_RunOnce_InvalidOutcomeCountSkipped(t *testing.T) {
	market := domain.Market{
		ConditionID: "0xbad",
		Tokens:      []domain.Token{{TokenID: "only"}},
	}
	s, _, _ := newScanner([]domain.Market{market}, map[string]domain.OrderBook{
		"only": askBook("only", 0.10, 10),
	})

	opps, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Empty(t, opps)
}

func TestScanner_RunOnce_MarketProviderError(t *testing.T) {
	notifier := &mockNotifier{}
	s := scanner.New(scanner.DefaultConfig(),
		&mockMarketProvider{err: errors.New("gamma down")},
		&mockBookFetcher{},
		nil,
		notifier,
	)

	_, err := s.RunOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gamma down")
}

func TestScanner_RunOnce_NoArbitrage(t *testing.T) {
	markets := []domain.Market{binaryMarket("0x1", "efficient", "y1", "n1")}
	books := map[string]domain.OrderBook{
		"y1": askBook("y1", 0.55, 100),
		"n1": askBook("n1", 0.50, 100),
	}

	s, _, _ := newScanner(markets, books)
	opps, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Empty(t, opps)
}

func TestScanner_RunOnce_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	markets := []domain.Market{binaryMarket("0x1", "q", "y1", "n1")}
	s, _, _ := newScanner(markets, map[string]domain.OrderBook{})

	_, err := s.ScanMarkets(ctx, markets)
	assert.ErrorIs(t, err, context.Canceled)
}
