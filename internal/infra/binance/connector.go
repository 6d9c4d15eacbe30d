// Package binance is the exchange connector for live mode: a websocket
// ticker stream plus REST lookups for order books and pair metadata.
// Reconnect policy lives entirely in here; the core never retries.
package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"

	"tickflow/internal/domain"
	"tickflow/internal/infra"
)

// Connector implements domain.ExchangeConnector against the Binance
// public API. One instance serves one symbol stream at a time.
type Connector struct {
	wsURL   string
	restURL string
	client  *http.Client

	mu     sync.Mutex
	conn   *websocket.Conn
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewConnector creates a connector for the given endpoints, e.g.
// wss://stream.binance.com:9443/ws and https://api.binance.com.
func NewConnector(wsURL, restURL string) *Connector {
	return &Connector{
		wsURL:   wsURL,
		restURL: restURL,
		client:  &http.Client{Timeout: requestTimeout},
	}
}

// StreamTicks opens the ticker stream for one symbol and delivers
// parsed tickers until ctx is cancelled. Connection drops are retried
// with exponential backoff inside the loop; the returned channel is
// closed only when the stream terminates for good.
func (c *Connector) StreamTicks(ctx context.Context, symbol string) (<-chan domain.Ticker, error) {
	ctx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	c.cancel = cancel
	c.mu.Unlock()

	out := make(chan domain.Ticker, 64)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer close(out)
		c.connectionLoop(ctx, symbol, out)
	}()
	return out, nil
}

func (c *Connector) connectionLoop(ctx context.Context, symbol string, out chan<- domain.Ticker) {
	retryCount := 0
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := c.connect(ctx, symbol); err != nil {
			slog.Warn("Binance connection failed",
				slog.String("symbol", symbol),
				slog.Any("error", err),
				slog.Int("retry", retryCount),
			)
			delay := infra.CalculateBackoff(retryCount)
			retryCount++
			if retryCount > maxRetries {
				retryCount = 0
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
				continue
			}
		}

		retryCount = 0
		c.readLoop(ctx, symbol, out)
	}
}

func (c *Connector) connect(ctx context.Context, symbol string) error {
	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	url := c.wsURL + "/" + streamName(symbol)

	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("%w: dial %s: %v", domain.ErrConnectionFailed, url, err)
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	slog.Info("Binance stream connected", slog.String("symbol", symbol))
	return nil
}

func (c *Connector) readLoop(ctx context.Context, symbol string, out chan<- domain.Ticker) {
	for {
		select {
		case <-ctx.Done():
			c.closeConnection()
			return
		default:
		}

		c.mu.Lock()
		conn := c.conn
		c.mu.Unlock()
		if conn == nil {
			return
		}
		conn.SetReadDeadline(time.Now().Add(readTimeout))

		_, msg, err := conn.ReadMessage()
		if err != nil {
			slog.Warn("Binance read failed, reconnecting",
				slog.String("symbol", symbol),
				slog.Any("error", err),
			)
			c.closeConnection()
			return
		}

		tk, ok := parseTickerEvent(msg, symbol)
		if !ok {
			continue
		}
		select {
		case out <- tk:
		case <-ctx.Done():
			c.closeConnection()
			return
		}
	}
}

// parseTickerEvent converts one stream message into a ticker tagged
// with the unified symbol. Non-ticker messages are skipped.
func parseTickerEvent(msg []byte, symbol string) (domain.Ticker, bool) {
	var ev tickerEvent
	if json.Unmarshal(msg, &ev) != nil || ev.EventType != "24hrTicker" {
		return domain.Ticker{}, false
	}

	last, err := decimal.NewFromString(ev.LastPrice)
	if err != nil {
		return domain.Ticker{}, false
	}
	return domain.Ticker{
		Symbol:      symbol,
		Timestamp:   ev.EventTime,
		Last:        last,
		Open:        parseDecimal(ev.OpenPrice),
		High:        parseDecimal(ev.HighPrice),
		Low:         parseDecimal(ev.LowPrice),
		Close:       last,
		Bid:         parseDecimal(ev.BidPrice),
		Ask:         parseDecimal(ev.AskPrice),
		BaseVolume:  parseDecimal(ev.BaseVolume),
		QuoteVolume: parseDecimal(ev.QuoteVolume),
	}, true
}

func parseDecimal(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

// FetchOrderBook pulls a REST depth snapshot, best levels first.
func (c *Connector) FetchOrderBook(ctx context.Context, symbol string) (domain.OrderBook, error) {
	url := fmt.Sprintf("%s/api/v3/depth?symbol=%s&limit=%d", c.restURL, restSymbol(symbol), depthLimit)

	var resp depthResponse
	if err := c.getJSON(ctx, url, &resp); err != nil {
		return domain.OrderBook{}, fmt.Errorf("fetching depth for %s: %w", symbol, err)
	}

	book := domain.OrderBook{
		Symbol:    symbol,
		Timestamp: time.Now().UnixMilli(),
		Bids:      parseLevels(resp.Bids),
		Asks:      parseLevels(resp.Asks),
	}
	return book, nil
}

func parseLevels(raw [][2]string) []domain.BookLevel {
	levels := make([]domain.BookLevel, 0, len(raw))
	for _, pair := range raw {
		price, err := decimal.NewFromString(pair[0])
		if err != nil {
			continue
		}
		amount, err := decimal.NewFromString(pair[1])
		if err != nil {
			continue
		}
		levels = append(levels, domain.BookLevel{Price: price, Amount: amount})
	}
	return levels
}

// FetchPairMetadata reads the precision filters for the symbol. Absent
// filters leave the corresponding field zero; the pair keeps its
// previous step.
func (c *Connector) FetchPairMetadata(ctx context.Context, symbol string) (domain.PairMetadata, error) {
	url := fmt.Sprintf("%s/api/v3/exchangeInfo?symbol=%s", c.restURL, restSymbol(symbol))

	var resp exchangeInfoResponse
	if err := c.getJSON(ctx, url, &resp); err != nil {
		return domain.PairMetadata{}, fmt.Errorf("fetching exchange info for %s: %w", symbol, err)
	}
	if len(resp.Symbols) == 0 {
		return domain.PairMetadata{}, fmt.Errorf("%w: %s", domain.ErrPairNotFound, symbol)
	}

	var meta domain.PairMetadata
	for _, f := range resp.Symbols[0].Filters {
		switch f.FilterType {
		case "PRICE_FILTER":
			meta.PriceStep = parseDecimal(f.TickSize)
		case "LOT_SIZE":
			meta.MinStep = parseDecimal(f.StepSize)
		}
	}
	return meta, nil
}

func (c *Connector) getJSON(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return domain.NewNetworkError("GET "+url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
		// 5xx is worth another attempt; anything else is a request
		// we should not repeat.
		if resp.StatusCode >= http.StatusInternalServerError {
			return domain.NewNetworkError("GET "+url, err)
		}
		return domain.NewFatalNetworkError("GET "+url, err)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

// Close stops the stream and releases the connection.
func (c *Connector) Close() error {
	c.mu.Lock()
	cancel := c.cancel
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	c.closeConnection()
	c.wg.Wait()
	return nil
}

func (c *Connector) closeConnection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}

var _ domain.ExchangeConnector = (*Connector)(nil)
