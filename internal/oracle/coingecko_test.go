package oracle

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
)

type stubDoer struct {
	status int
	body   string
	err    error
	req    *http.Request
}

func (s *stubDoer) Do(req *http.Request) (*http.Response, error) {
	s.req = req
	if s.err != nil {
		return nil, s.err
	}
	return &http.Response{
		StatusCode: s.status,
		Body:       io.NopCloser(bytes.NewBufferString(s.body)),
	}, nil
}

func TestCoinGeckoFeedLatestPrice(t *testing.T) {
	doer := &stubDoer{status: http.StatusOK, body: `{"ethereum":{"usd":3021.55,"last_updated_at":1700000000}}`}
	feed := NewCoinGeckoFeed(doer, "https://prices.example.com/simple", 8)

	price, err := feed.LatestPrice(context.Background())
	if err != nil {
		t.Fatalf("LatestPrice() error: %v", err)
	}
	if price.Answer.String() != "302155000000" || price.Decimals != 8 {
		t.Fatalf("unexpected price %s (decimals %d)", price.Answer, price.Decimals)
	}
	if price.UpdatedAt.Unix() != 1700000000 {
		t.Fatalf("UpdatedAt = %v", price.UpdatedAt)
	}
	q := doer.req.URL.Query()
	if q.Get("ids") != "ethereum" || q.Get("vs_currencies") != "usd" {
		t.Fatalf("unexpected query %q", doer.req.URL.RawQuery)
	}
}

func TestCoinGeckoFeedErrors(t *testing.T) {
	tests := []struct {
		name string
		doer *stubDoer
	}{
		{name: "transport", doer: &stubDoer{err: errors.New("dial")}},
		{name: "status", doer: &stubDoer{status: http.StatusTooManyRequests, body: "slow down"}},
		{name: "missing asset", doer: &stubDoer{status: http.StatusOK, body: `{"bitcoin":{"usd":1}}`}},
		{name: "negative", doer: &stubDoer{status: http.StatusOK, body: `{"ethereum":{"usd":-4}}`}},
		{name: "garbage", doer: &stubDoer{status: http.StatusOK, body: `not json`}},
		{name: "huge exponent", doer: &stubDoer{status: http.StatusOK, body: `{"ethereum":{"usd":1e2000000000}}`}},
		{name: "tiny exponent", doer: &stubDoer{status: http.StatusOK, body: `{"ethereum":{"usd":1e-2000000000}}`}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			feed := NewCoinGeckoFeed(tc.doer, "", 8)
			if _, err := feed.LatestPrice(context.Background()); err == nil {
				t.Fatalf("LatestPrice() expected error")
			}
		})
	}
}
