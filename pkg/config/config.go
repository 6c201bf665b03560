// Copyright 2025 Certen Protocol
//
// Config - YAML-driven configuration for the reputation-consensus core,
// adapted from the teacher's pkg/config package. Every option named in
// spec §6 is enumerated below; no process-level environment variables are
// required to operate the core, though ${VAR_NAME} substitution is
// supported for deployment convenience, matching the teacher's
// pkg/config/anchor_config.go.

package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration for YAML (un)marshalling as "30s"-style strings.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// FraudSeverityBand is one row of the §4.10 penalty schedule.
type FraudSeverityBand struct {
	MinDelta          int     `yaml:"min_delta"`
	MaxDelta          int     `yaml:"max_delta"` // 0 means unbounded ("≥31")
	ReputationPenalty int     `yaml:"reputation_penalty"`
	BondSlashFraction float64 `yaml:"bond_slash_fraction"`
}

// Config holds every option enumerated in spec §6.
type Config struct {
	// Consensus thresholds (§4.6, §4.7)
	QuorumSize          int      `yaml:"quorum_size"`
	AcceptanceThreshold float64  `yaml:"acceptance_threshold"`
	DisputeThreshold    float64  `yaml:"dispute_threshold"`
	SessionTimeout      Duration `yaml:"session_timeout"`

	// Attestation / eligibility (§4.4, §3 CompositeEligibility)
	AttestationCacheBlocks     uint64  `yaml:"attestation_cache_blocks"`
	CleanupIntervalBlocks      uint64  `yaml:"cleanup_interval_blocks"`
	MinAttestorReputation      int     `yaml:"min_attestor_reputation"`
	MinAttestorConnectedBlocks uint64  `yaml:"min_attestor_connected_blocks"`
	EligibilityMinTrust        int     `yaml:"eligibility_min_trust"`
	EligibilityMaxVariance     float64 `yaml:"eligibility_max_variance"`
	EligibilityMinAttestations int     `yaml:"eligibility_min_attestations"`

	// Fraud (§4.10)
	FraudSeverityTable []FraudSeverityBand `yaml:"fraud_severity_table"`

	// Sybil risk (§4.8)
	SybilRiskAlert       float64 `yaml:"sybil_risk_alert"`
	SybilRiskAutopenalty float64 `yaml:"sybil_risk_autopenalty"`

	// Gossip (§4.11)
	RateLimitWindow Duration `yaml:"rate_limit_window"`
	RateLimitMax    int      `yaml:"rate_limit_max"`

	// Trust scoring (§4.1)
	WoTMaxDepth int `yaml:"wot_max_depth"`

	// Server / storage wiring, not part of the consensus-critical spec
	// table but required to stand up a node (ambient stack).
	ListenAddr  string `yaml:"listen_addr"`
	MetricsAddr string `yaml:"metrics_addr"`
	StorePath   string `yaml:"store_path"`
	DatabaseURL string `yaml:"database_url"`

	// Peers is the static gossip peer set dialed over HTTP (§4.11). A
	// production deployment would discover these dynamically; this core
	// takes them from config, matching the teacher's HTTPPeerManager's
	// PeerEndpointConfig list.
	Peers []PeerConfig `yaml:"peers"`
}

// PeerConfig names one gossip peer by its validator address and HTTP
// endpoint.
type PeerConfig struct {
	Address  string `yaml:"address"`
	Endpoint string `yaml:"endpoint"`
}

// DefaultConfig returns the configuration named throughout spec §6.
func DefaultConfig() *Config {
	return &Config{
		QuorumSize:          10,
		AcceptanceThreshold: 0.70,
		DisputeThreshold:    0.30,
		SessionTimeout:      Duration(30 * time.Second),

		AttestationCacheBlocks:     10000,
		CleanupIntervalBlocks:      1000,
		MinAttestorReputation:      30,
		MinAttestorConnectedBlocks: 1000,
		EligibilityMinTrust:        50,
		EligibilityMaxVariance:     30,
		EligibilityMinAttestations: 10,

		FraudSeverityTable: []FraudSeverityBand{
			{MinDelta: 1, MaxDelta: 10, ReputationPenalty: 5, BondSlashFraction: 0.0},
			{MinDelta: 11, MaxDelta: 30, ReputationPenalty: 15, BondSlashFraction: 0.05},
			{MinDelta: 31, MaxDelta: 0, ReputationPenalty: 30, BondSlashFraction: 0.10},
		},

		SybilRiskAlert:       0.7,
		SybilRiskAutopenalty: 0.9,

		RateLimitWindow: Duration(60 * time.Second),
		RateLimitMax:    100,

		WoTMaxDepth: 3,

		ListenAddr:  "0.0.0.0:8080",
		MetricsAddr: "0.0.0.0:9090",
		StorePath:   "./data/reputation-core.db",
	}
}

// envVarPattern matches ${VAR_NAME} tokens for substitution.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

func substituteEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		if v, ok := os.LookupEnv(groups[1]); ok {
			return v
		}
		return match
	})
}

// Load reads a YAML configuration file, starting from DefaultConfig and
// overlaying any fields the file sets. ${VAR_NAME} tokens in the file are
// substituted from the process environment before parsing, but no
// environment variable is itself required to produce a valid Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	cfg := DefaultConfig()
	expanded := substituteEnvVars(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// SlashFraction returns the bond-slash fraction and reputation penalty for
// an absolute score delta, per the §4.10 penalty schedule.
func (c *Config) SlashFraction(absDelta int) (reputationPenalty int, bondSlashFraction float64) {
	for _, band := range c.FraudSeverityTable {
		if absDelta < band.MinDelta {
			continue
		}
		if band.MaxDelta != 0 && absDelta > band.MaxDelta {
			continue
		}
		return band.ReputationPenalty, band.BondSlashFraction
	}
	if len(c.FraudSeverityTable) > 0 {
		last := c.FraudSeverityTable[len(c.FraudSeverityTable)-1]
		if absDelta >= last.MinDelta {
			return last.ReputationPenalty, last.BondSlashFraction
		}
	}
	return 0, 0
}
