// Package network describes the chains the ledger can be deployed to and the
// price feed parameters used on each.
package network

import (
	_ "embed"
	"fmt"
	"math/big"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"fundme/internal/domain"
)

//go:embed networks.yaml
var defaultNetworks []byte

// Network is one entry of the network table.
type Network struct {
	ChainID            uint64 `yaml:"-"`
	Name               string `yaml:"name"`
	EthUSDPriceFeed    string `yaml:"eth_usd_price_feed"`
	BlockConfirmations int    `yaml:"block_confirmations"`
}

// PriceFeedAddress parses the configured feed address.
func (n Network) PriceFeedAddress() (domain.Address, error) {
	if strings.TrimSpace(n.EthUSDPriceFeed) == "" {
		return domain.Address{}, fmt.Errorf("network %s: no eth/usd price feed configured", n.Name)
	}
	return domain.ParseAddress(n.EthUSDPriceFeed)
}

// Mock holds the parameters of the development price feed.
type Mock struct {
	Decimals      uint8  `yaml:"decimals"`
	InitialAnswer string `yaml:"initial_answer"`
}

// Answer parses InitialAnswer.
func (m Mock) Answer() (*big.Int, error) {
	v, ok := new(big.Int).SetString(strings.TrimSpace(m.InitialAnswer), 10)
	if !ok {
		return nil, fmt.Errorf("network: invalid mock initial answer %q", m.InitialAnswer)
	}
	return v, nil
}

// Table is the parsed network configuration.
type Table struct {
	Networks          map[uint64]Network `yaml:"networks"`
	DevelopmentChains []string           `yaml:"development_chains"`
	Mock              Mock               `yaml:"mock"`
}

// Default returns the built-in table.
func Default() (*Table, error) {
	return Parse(defaultNetworks)
}

// Load reads a table from path, or the built-in table when path is empty.
func Load(path string) (*Table, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("network: read %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse decodes a YAML network table.
func Parse(raw []byte) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("network: decode: %w", err)
	}
	if t.Networks == nil {
		t.Networks = map[uint64]Network{}
	}
	for id, n := range t.Networks {
		n.ChainID = id
		t.Networks[id] = n
	}
	if _, err := t.Mock.Answer(); err != nil && len(t.DevelopmentChains) > 0 {
		return nil, err
	}
	return &t, nil
}

// IsDevelopment reports whether name is a local development chain.
func (t *Table) IsDevelopment(name string) bool {
	for _, c := range t.DevelopmentChains {
		if strings.EqualFold(c, strings.TrimSpace(name)) {
			return true
		}
	}
	return false
}

// ByName finds a network by name. Development chains without a table entry
// resolve to the local chain id.
func (t *Table) ByName(name string) (Network, error) {
	name = strings.TrimSpace(name)
	for _, id := range t.ids() {
		if n := t.Networks[id]; strings.EqualFold(n.Name, name) {
			return n, nil
		}
	}
	if t.IsDevelopment(name) {
		return Network{ChainID: LocalChainID, Name: strings.ToLower(name)}, nil
	}
	return Network{}, fmt.Errorf("network: unknown network %q", name)
}

// ByChainID finds a network by chain id.
func (t *Table) ByChainID(id uint64) (Network, error) {
	n, ok := t.Networks[id]
	if !ok {
		return Network{}, fmt.Errorf("network: unknown chain id %d", id)
	}
	return n, nil
}

// LocalChainID is the chain id of local development nodes.
const LocalChainID = 31337

func (t *Table) ids() []uint64 {
	ids := make([]uint64, 0, len(t.Networks))
	for id := range t.Networks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
