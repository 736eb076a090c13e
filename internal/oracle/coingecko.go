package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// HTTPDoer abstracts http.Client for ease of testing.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

const (
	defaultCoinGeckoEndpoint = "https://api.coingecko.com/api/v3/simple/price"
	coinGeckoAssetID         = "ethereum"
	coinGeckoQuote           = "usd"

	// maxQuoteDigits bounds the integer and fractional digits of a quote.
	maxQuoteDigits = 38
)

// CoinGeckoFeed reads ETH/USD from the CoinGecko simple price API and reports
// it at a fixed decimal scale, the way an on-chain aggregator would.
type CoinGeckoFeed struct {
	client   HTTPDoer
	endpoint string
	decimals uint8
}

// NewCoinGeckoFeed constructs a feed. A nil client falls back to
// http.DefaultClient and an empty endpoint to the public API.
func NewCoinGeckoFeed(client HTTPDoer, endpoint string, decimals uint8) *CoinGeckoFeed {
	ep := strings.TrimSpace(endpoint)
	if ep == "" {
		ep = defaultCoinGeckoEndpoint
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &CoinGeckoFeed{client: client, endpoint: ep, decimals: decimals}
}

// LatestPrice implements PriceOracle.
func (f *CoinGeckoFeed) LatestPrice(ctx context.Context) (Price, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.endpoint, nil)
	if err != nil {
		return Price{}, err
	}
	values := url.Values{}
	values.Set("ids", coinGeckoAssetID)
	values.Set("vs_currencies", coinGeckoQuote)
	values.Set("include_last_updated_at", "true")
	req.URL.RawQuery = values.Encode()

	resp, err := f.client.Do(req)
	if err != nil {
		return Price{}, fmt.Errorf("coingecko feed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Price{}, fmt.Errorf("coingecko feed: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()
	var payload map[string]map[string]json.Number
	if err := decoder.Decode(&payload); err != nil {
		return Price{}, fmt.Errorf("coingecko feed: decode: %w", err)
	}
	entry, ok := payload[coinGeckoAssetID]
	if !ok {
		return Price{}, fmt.Errorf("coingecko feed: quote missing for %s", coinGeckoAssetID)
	}
	raw := strings.TrimSpace(entry[coinGeckoQuote].String())
	if raw == "" {
		return Price{}, fmt.Errorf("coingecko feed: empty price")
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.Sign() < 0 {
		return Price{}, fmt.Errorf("%w: %q", ErrInvalidPrice, raw)
	}
	if exp := int64(d.Exponent()); exp < -maxQuoteDigits || int64(d.NumDigits())+exp > maxQuoteDigits {
		return Price{}, fmt.Errorf("%w: %q out of range", ErrInvalidPrice, raw)
	}

	updatedAt := time.Now().UTC()
	if ts, err := entry["last_updated_at"].Int64(); err == nil && ts > 0 {
		updatedAt = time.Unix(ts, 0).UTC()
	}
	return Price{
		Answer:    d.Shift(int32(f.decimals)).Truncate(0).BigInt(),
		Decimals:  f.decimals,
		UpdatedAt: updatedAt,
	}, nil
}
