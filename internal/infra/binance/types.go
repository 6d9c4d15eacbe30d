package binance

import (
	"strings"
	"time"
)

const (
	maxRetries       = 10
	handshakeTimeout = 10 * time.Second
	readTimeout      = 60 * time.Second
	requestTimeout   = 10 * time.Second
	depthLimit       = 100
)

// tickerEvent is the 24h rolling ticker event of the <symbol>@ticker
// stream.
type tickerEvent struct {
	EventType string `json:"e"` // "24hrTicker"
	EventTime int64  `json:"E"` // event time, ms
	Symbol    string `json:"s"` // "BTCUSDT"

	LastPrice   string `json:"c"`
	OpenPrice   string `json:"o"`
	HighPrice   string `json:"h"`
	LowPrice    string `json:"l"`
	BidPrice    string `json:"b"`
	AskPrice    string `json:"a"`
	BaseVolume  string `json:"v"`
	QuoteVolume string `json:"q"`
}

// depthResponse is the REST order book snapshot. Levels come as
// [price, quantity] string pairs, best first.
type depthResponse struct {
	LastUpdateID int64       `json:"lastUpdateId"`
	Bids         [][2]string `json:"bids"`
	Asks         [][2]string `json:"asks"`
}

// exchangeInfoResponse is the subset of /api/v3/exchangeInfo the
// connector reads: the precision filters of one symbol.
type exchangeInfoResponse struct {
	Symbols []struct {
		Symbol  string `json:"symbol"`
		Filters []struct {
			FilterType string `json:"filterType"`
			TickSize   string `json:"tickSize"` // PRICE_FILTER
			StepSize   string `json:"stepSize"` // LOT_SIZE
		} `json:"filters"`
	} `json:"symbols"`
}

// restSymbol maps "BTC/USDT" to the exchange form "BTCUSDT".
func restSymbol(symbol string) string {
	return strings.ReplaceAll(symbol, "/", "")
}

// streamName maps "BTC/USDT" to the stream name "btcusdt@ticker".
func streamName(symbol string) string {
	return strings.ToLower(restSymbol(symbol)) + "@ticker"
}
