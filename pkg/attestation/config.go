package attestation

import "log"

// Config mirrors the subset of pkg/config's §6 table this service needs.
// cmd/reputation-node constructs it from the loaded pkg/config.Config
// rather than this package importing pkg/config directly, keeping the
// dependency direction from outer wiring inward.
type Config struct {
	MinAttestorReputation      int
	MinAttestorConnectedBlocks uint64
	EligibilityMinTrust        float64
	EligibilityMaxVariance     float64
	EligibilityMinAttestations int
	AttestationCacheBlocks     uint64
	Logger                     *log.Logger
}

// DefaultConfig restates spec §6's literal defaults.
func DefaultConfig() *Config {
	return &Config{
		MinAttestorReputation:      30,
		MinAttestorConnectedBlocks: 1000,
		EligibilityMinTrust:        50,
		EligibilityMaxVariance:     30,
		EligibilityMinAttestations: 10,
		AttestationCacheBlocks:     10000,
		Logger:                     log.New(log.Writer(), "[AttestationService] ", log.LstdFlags),
	}
}
