package params

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/modelchain/MarketLedger/log"
)

// royalty defaults (basis points and minor currency units)
const (
	DefaultPlatformFeeBps  = 500
	DefaultPerAncestorBps  = 250
	DefaultMinShareAmount  = 1000
	DefaultMaxLineageDepth = 32
)

var (
	marketConfig      *MarketConfig
	loadConfigStarter sync.Once
)

// MarketConfig config items (decode from toml file)
type MarketConfig struct {
	Identifier string
	Gateway    *GatewayConfig
	Program    *ProgramConfig
	Royalty    *RoyaltyConfig `toml:",omitempty" json:",omitempty"`
}

// GatewayConfig ledger gateway config
type GatewayConfig struct {
	APIAddress  []string
	WSEndpoints []string `toml:",omitempty" json:",omitempty"`
}

// ProgramConfig marketplace program config
type ProgramConfig struct {
	Address  string
	Treasury string
	// RelayedMode if true the treasury both pays fees and signs
	// registrations on behalf of creators; the creator key is then a
	// plain (non signer) key in the instruction.
	RelayedMode bool `toml:",omitempty" json:",omitempty"`
}

// RoyaltyConfig royalty distribution parameters
type RoyaltyConfig struct {
	PlatformFeeBps  *uint64 `toml:",omitempty" json:",omitempty"`
	PerAncestorBps  *uint64 `toml:",omitempty" json:",omitempty"`
	MinShareAmount  *uint64 `toml:",omitempty" json:",omitempty"`
	MaxLineageDepth *int    `toml:",omitempty" json:",omitempty"`
}

// GetConfig returns the loaded config
func GetConfig() *MarketConfig {
	return marketConfig
}

// GetIdentifier returns the configured identifier
func GetIdentifier() string {
	if marketConfig == nil {
		return ""
	}
	return marketConfig.Identifier
}

// GetPlatformFeeBps returns configured or default platform fee
func (c *RoyaltyConfig) GetPlatformFeeBps() uint64 {
	if c == nil || c.PlatformFeeBps == nil {
		return DefaultPlatformFeeBps
	}
	return *c.PlatformFeeBps
}

// GetPerAncestorBps returns configured or default per ancestor rate
func (c *RoyaltyConfig) GetPerAncestorBps() uint64 {
	if c == nil || c.PerAncestorBps == nil {
		return DefaultPerAncestorBps
	}
	return *c.PerAncestorBps
}

// GetMinShareAmount returns configured or default minimum payable share
func (c *RoyaltyConfig) GetMinShareAmount() uint64 {
	if c == nil || c.MinShareAmount == nil {
		return DefaultMinShareAmount
	}
	return *c.MinShareAmount
}

// GetMaxLineageDepth returns configured or default lineage walk bound
func (c *RoyaltyConfig) GetMaxLineageDepth() int {
	if c == nil || c.MaxLineageDepth == nil {
		return DefaultMaxLineageDepth
	}
	return *c.MaxLineageDepth
}

// CheckConfig check config items
func (c *MarketConfig) CheckConfig() error {
	if c.Identifier == "" {
		return errors.New("must config 'Identifier'")
	}
	if c.Gateway == nil || len(c.Gateway.APIAddress) == 0 {
		return errors.New("must config 'Gateway' with at least one APIAddress")
	}
	if c.Program == nil {
		return errors.New("must config 'Program'")
	}
	if c.Program.Address == "" {
		return errors.New("must config 'Program.Address'")
	}
	if c.Program.Treasury == "" {
		return errors.New("must config 'Program.Treasury'")
	}
	if c.Royalty != nil {
		if c.Royalty.PlatformFeeBps != nil && *c.Royalty.PlatformFeeBps > 10000 {
			return errors.New("'Royalty.PlatformFeeBps' is over 10000")
		}
		if c.Royalty.PerAncestorBps != nil && *c.Royalty.PerAncestorBps > 10000 {
			return errors.New("'Royalty.PerAncestorBps' is over 10000")
		}
		if c.Royalty.MaxLineageDepth != nil && *c.Royalty.MaxLineageDepth <= 0 {
			return errors.New("'Royalty.MaxLineageDepth' must be positive")
		}
	}
	return nil
}

// LoadConfig load config only once
func LoadConfig(configFile string) *MarketConfig {
	loadConfigStarter.Do(func() {
		config := &MarketConfig{}
		if _, err := toml.DecodeFile(configFile, config); err != nil {
			log.Fatalf("LoadConfig error (toml DecodeFile %v): %v", configFile, err)
		}
		marketConfig = config

		bs, _ := json.MarshalIndent(config, "", "  ")
		log.Println("LoadConfig finished.", string(bs))

		if err := config.CheckConfig(); err != nil {
			log.Fatalf("Check config failed. %v", err)
		}
	})
	return marketConfig
}
