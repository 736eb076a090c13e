package network

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultTable(t *testing.T) {
	table, err := Default()
	if err != nil {
		t.Fatalf("Default() error: %v", err)
	}
	sepolia, err := table.ByChainID(11155111)
	if err != nil {
		t.Fatalf("ByChainID() error: %v", err)
	}
	if sepolia.Name != "sepolia" || sepolia.ChainID != 11155111 {
		t.Fatalf("unexpected network %+v", sepolia)
	}
	feed, err := sepolia.PriceFeedAddress()
	if err != nil {
		t.Fatalf("PriceFeedAddress() error: %v", err)
	}
	if feed.Hex() != "0xfE232d2b2C044BE30EE28DA39FFe74bfD4e3c323" {
		t.Fatalf("feed = %s", feed.Hex())
	}
	answer, err := table.Mock.Answer()
	if err != nil {
		t.Fatalf("Mock.Answer() error: %v", err)
	}
	if table.Mock.Decimals != 8 || answer.String() != "200000000000" {
		t.Fatalf("unexpected mock %+v", table.Mock)
	}
}

func TestByName(t *testing.T) {
	table, err := Default()
	if err != nil {
		t.Fatalf("Default() error: %v", err)
	}
	tests := []struct {
		name    string
		wantID  uint64
		dev     bool
		wantErr bool
	}{
		{name: "hardhat", wantID: 31337, dev: true},
		{name: "localhost", wantID: LocalChainID, dev: true},
		{name: "Goerli", wantID: 5},
		{name: "mainnet", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			n, err := table.ByName(tc.name)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("ByName(%q) expected error", tc.name)
				}
				return
			}
			if err != nil {
				t.Fatalf("ByName(%q) error: %v", tc.name, err)
			}
			if n.ChainID != tc.wantID {
				t.Fatalf("ByName(%q).ChainID = %d, want %d", tc.name, n.ChainID, tc.wantID)
			}
			if got := table.IsDevelopment(tc.name); got != tc.dev {
				t.Fatalf("IsDevelopment(%q) = %v, want %v", tc.name, got, tc.dev)
			}
		})
	}
}

func TestRinkebyHasNoFeed(t *testing.T) {
	table, _ := Default()
	rinkeby, err := table.ByChainID(4)
	if err != nil {
		t.Fatalf("ByChainID(4) error: %v", err)
	}
	if _, err := rinkeby.PriceFeedAddress(); err == nil {
		t.Fatalf("PriceFeedAddress() expected error for empty feed")
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "networks.yaml")
	raw := []byte("networks:\n  137:\n    name: polygon\n    eth_usd_price_feed: \"0xF9680D99D6C9589e2a93a78A04A279e509205945\"\n")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	table, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if _, err := table.ByName("polygon"); err != nil {
		t.Fatalf("ByName(polygon) error: %v", err)
	}
	if table.IsDevelopment("hardhat") {
		t.Fatalf("custom table should have no development chains")
	}
}

func TestParseRejectsBadMock(t *testing.T) {
	raw := []byte("development_chains: [hardhat]\nmock:\n  decimals: 8\n  initial_answer: nope\n")
	if _, err := Parse(raw); err == nil {
		t.Fatalf("Parse() expected error for invalid mock answer")
	}
}
