// Package networks holds well-known chain presets (chain ID, native
// currency symbol and decimals) loaded from an embedded YAML document, the
// same struct-tag-driven config loading style used for provider lists
// elsewhere in this module's ancestry.
package networks

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed presets.yaml
var presetsYAML []byte

// Network describes one well-known chain.
type Network struct {
	Name             string `yaml:"name"`
	ChainID          uint64 `yaml:"chain_id"`
	CurrencySymbol   string `yaml:"currency_symbol"`
	CurrencyDecimals int    `yaml:"currency_decimals"`
}

type presetsDoc struct {
	Networks []Network `yaml:"networks"`
}

var (
	byName    map[string]Network
	byChainID map[uint64]Network
)

func init() {
	var doc presetsDoc
	if err := yaml.Unmarshal(presetsYAML, &doc); err != nil {
		panic(fmt.Sprintf("networks: invalid embedded presets.yaml: %v", err))
	}
	byName = make(map[string]Network, len(doc.Networks))
	byChainID = make(map[uint64]Network, len(doc.Networks))
	for _, n := range doc.Networks {
		byName[n.Name] = n
		byChainID[n.ChainID] = n
	}
}

// ByName looks up a preset by its short name (e.g. "mainnet", "sepolia").
func ByName(name string) (Network, bool) {
	n, ok := byName[name]
	return n, ok
}

// ByChainID looks up a preset by its numeric chain ID.
func ByChainID(chainID uint64) (Network, bool) {
	n, ok := byChainID[chainID]
	return n, ok
}

// All returns every known preset, in the order declared in presets.yaml.
func All() []Network {
	var doc presetsDoc
	_ = yaml.Unmarshal(presetsYAML, &doc)
	return doc.Networks
}
