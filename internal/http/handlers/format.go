package handlers

import (
	"math/big"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// amountDTO renders a wei amount in both units.
type amountDTO struct {
	Wei   string `json:"wei"`
	Ether string `json:"eth"`
}

func amount(wei *big.Int) amountDTO {
	if wei == nil {
		wei = new(big.Int)
	}
	return amountDTO{Wei: wei.String(), Ether: decimal.NewFromBigInt(wei, -18).String()}
}

// usdDisplay formats a USD value scaled by 10^scale for the given locale.
func usdDisplay(tag language.Tag, v *big.Int, scale int32) string {
	f, _ := decimal.NewFromBigInt(v, -scale).Float64()
	return message.NewPrinter(tag).Sprintf("%.2f", f)
}
