package oracle

import (
	"context"
	"math/big"
	"testing"
)

func ethPrice(answer int64) Price {
	return Price{Answer: big.NewInt(answer), Decimals: 8}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		price Price
		want  string
	}{
		{name: "eight decimals", price: ethPrice(200000000000), want: "2000000000000000000000"},
		{name: "eighteen decimals", price: Price{Answer: big.NewInt(7), Decimals: 18}, want: "7"},
		{name: "more than eighteen", price: Price{Answer: big.NewInt(123000), Decimals: 20}, want: "1230"},
		{name: "nil answer", price: Price{Decimals: 8}, want: "0"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.price.Normalize().String(); got != tc.want {
				t.Fatalf("Normalize() = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestConversionRate(t *testing.T) {
	oneEther, _ := new(big.Int).SetString("1000000000000000000", 10)
	got := ConversionRate(oneEther, ethPrice(200000000000))
	want, _ := new(big.Int).SetString("2000000000000000000000", 10)
	if got.Cmp(want) != 0 {
		t.Fatalf("ConversionRate(1 ether) = %s, want %s", got, want)
	}
}

func TestMinimumWeiIsTightBound(t *testing.T) {
	prices := []Price{
		ethPrice(200000000000),
		ethPrice(313377777777),
		ethPrice(1),
		{Answer: big.NewInt(999), Decimals: 0},
	}
	for _, p := range prices {
		min := MinimumWei(MinimumUSD, p)
		if min == nil {
			t.Fatalf("MinimumWei(%s) returned nil", p.Answer)
		}
		if ConversionRate(min, p).Cmp(MinimumUSD) < 0 {
			t.Fatalf("price %s: minimum %s converts below threshold", p.Answer, min)
		}
		below := new(big.Int).Sub(min, big.NewInt(1))
		if ConversionRate(below, p).Cmp(MinimumUSD) >= 0 {
			t.Fatalf("price %s: %s should convert below threshold", p.Answer, below)
		}
	}
}

func TestMinimumWeiAtInitialAnswer(t *testing.T) {
	min := MinimumWei(MinimumUSD, ethPrice(200000000000))
	want, _ := new(big.Int).SetString("25000000000000000", 10)
	if min.Cmp(want) != 0 {
		t.Fatalf("MinimumWei() = %s, want %s", min, want)
	}
}

func TestMinimumWeiZeroPrice(t *testing.T) {
	if got := MinimumWei(MinimumUSD, ethPrice(0)); got != nil {
		t.Fatalf("MinimumWei() with zero price = %s, want nil", got)
	}
}

func TestMockAggregatorUpdateAnswer(t *testing.T) {
	m := NewMockAggregator(8, big.NewInt(200000000000))
	first, err := m.LatestPrice(context.Background())
	if err != nil {
		t.Fatalf("LatestPrice() error: %v", err)
	}
	m.UpdateAnswer(big.NewInt(300000000000))
	second, err := m.LatestPrice(context.Background())
	if err != nil {
		t.Fatalf("LatestPrice() error: %v", err)
	}
	if second.Answer.Int64() != 300000000000 || second.Decimals != 8 {
		t.Fatalf("unexpected price %+v", second)
	}
	if second.RoundID != first.RoundID+1 {
		t.Fatalf("round id = %d, want %d", second.RoundID, first.RoundID+1)
	}
	first.Answer.SetInt64(1)
	again, _ := m.LatestPrice(context.Background())
	if again.Answer.Int64() != 300000000000 {
		t.Fatalf("returned price aliases internal state")
	}
}

func TestMockAggregatorRejectsNegativeAnswer(t *testing.T) {
	m := NewMockAggregator(8, big.NewInt(-1))
	if _, err := m.LatestPrice(context.Background()); err != ErrInvalidPrice {
		t.Fatalf("LatestPrice() error = %v, want ErrInvalidPrice", err)
	}
}
