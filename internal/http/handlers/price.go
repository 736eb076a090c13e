package handlers

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"fundme/internal/middleware"
	"fundme/internal/oracle"
)

func (a *App) Price(w http.ResponseWriter, r *http.Request) {
	c := a.Ledger.Contract()
	minWei, price, err := c.MinimumContribution(r.Context())
	if err != nil {
		a.Logger.Error().Err(err).Msg("price feed read failed")
		a.error(w, http.StatusBadGateway, "price_feed_unavailable", "price feed unavailable")
		return
	}
	ethUSD := decimal.NewFromBigInt(price.Answer, -int32(price.Decimals))
	if a.Metrics != nil {
		f, _ := ethUSD.Float64()
		a.Metrics.SetPrice(f)
	}

	locale := middleware.LocaleFromContext(r.Context())
	resp := map[string]any{
		"price_feed": c.PriceFeed().Hex(),
		"answer":     price.Answer.String(),
		"decimals":   price.Decimals,
		"round_id":   price.RoundID,
		"eth_usd":    ethUSD.String(),
		"display": map[string]string{
			"locale":      locale.String(),
			"eth_usd":     usdDisplay(locale, price.Answer, int32(price.Decimals)),
			"minimum_usd": usdDisplay(locale, c.MinimumUSD(), oracle.Scale),
		},
		"minimum_usd": decimal.NewFromBigInt(c.MinimumUSD(), -oracle.Scale).String(),
	}
	if minWei != nil {
		resp["minimum"] = amount(minWei)
	}
	if !price.UpdatedAt.IsZero() {
		resp["updated_at"] = price.UpdatedAt.UTC().Format(time.RFC3339)
	}
	a.json(w, http.StatusOK, resp)
}
