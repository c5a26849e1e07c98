package polymarket

// ws.go — feed en vivo de orderbooks vía el WebSocket del CLOB.
//
// El canal "market" emite un snapshot completo del book al suscribirse y
// cada vez que cambia. Usado por el modo --watch para re-evaluar el
// detector sin re-escanear por HTTP.

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/alejandrodnm/polyarb/internal/domain"
)

const (
	defaultWSBase = "wss://ws-subscriptions-clob.polymarket.com/ws/market"

	wsInitialBackoff = 1 * time.Second
	wsMaxBackoff     = 30 * time.Second
)

// subscribeMessage es el mensaje de suscripción al canal market.
type subscribeMessage struct {
	AssetsIDs []string `json:"assets_ids"`
	Type      string   `json:"type,omitempty"`
}

// wsBookMessage es un frame del feed; solo nos interesan los "book".
type wsBookMessage struct {
	EventType string         `json:"event_type"`
	AssetID   string         `json:"asset_id"`
	Bids      []bookEntryRaw `json:"bids"`
	Asks      []bookEntryRaw `json:"asks"`
}

// BookStream consume snapshots de orderbook del WebSocket del CLOB.
type BookStream struct {
	url      string
	tokenIDs []string
}

// NewBookStream crea un stream para los token IDs dados.
// Si wsBase está vacío usa el endpoint de producción.
func NewBookStream(wsBase string, tokenIDs []string) *BookStream {
	if wsBase == "" {
		wsBase = defaultWSBase
	}
	return &BookStream{url: wsBase, tokenIDs: tokenIDs}
}

// Run conecta, se suscribe y envía cada snapshot parseado por el canal
// books. Reconecta con backoff exponencial hasta que el contexto se
// cancele. El canal no se cierra en reconexiones, solo al terminar.
func (s *BookStream) Run(ctx context.Context, books chan<- domain.OrderBook) error {
	defer close(books)

	backoff := wsInitialBackoff
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := s.consumeOnce(ctx, books)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		slog.Warn("book stream disconnected, reconnecting",
			"err", err,
			"backoff", backoff,
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}

		backoff *= 2
		if backoff > wsMaxBackoff {
			backoff = wsMaxBackoff
		}
	}
}

// consumeOnce mantiene una conexión abierta hasta que falle o el contexto
// se cancele.
func (s *BookStream) consumeOnce(ctx context.Context, books chan<- domain.OrderBook) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", s.url, err)
	}
	defer conn.Close()

	sub := subscribeMessage{AssetsIDs: s.tokenIDs}
	data, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("marshal subscribe: %w", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("write subscribe: %w", err)
	}

	slog.Info("book stream connected", "tokens", len(s.tokenIDs))

	// Cerrar la conexión cuando el contexto muera para desbloquear ReadMessage.
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}

		for _, book := range parseBookFrames(payload) {
			select {
			case books <- book:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

// parseBookFrames extrae los snapshots "book" de un frame. El feed puede
// mandar un objeto suelto o un array de eventos; otros event_type se ignoran.
func parseBookFrames(payload []byte) []domain.OrderBook {
	var msgs []wsBookMessage
	if err := json.Unmarshal(payload, &msgs); err != nil {
		var single wsBookMessage
		if err := json.Unmarshal(payload, &single); err != nil {
			slog.Debug("unparsable ws frame, ignoring", "err", err)
			return nil
		}
		msgs = []wsBookMessage{single}
	}

	var books []domain.OrderBook
	for _, m := range msgs {
		if m.EventType != "book" || m.AssetID == "" {
			continue
		}
		books = append(books, domain.OrderBook{
			TokenID: m.AssetID,
			Bids:    mapBookEntries(m.Bids, false),
			Asks:    mapBookEntries(m.Asks, true),
		})
	}
	return books
}
