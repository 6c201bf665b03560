package trust

// Config bounds the saturating functions used by the economic and temporal
// components (§4.1). Values are chosen as round, documented maxima rather
// than on-chain constants, since spec.md leaves the exact saturation points
// to the implementation.
type Config struct {
	// MaxStake is the stake amount (in the host chain's base coin unit) at
	// which the economic stake factor saturates to 1.0.
	MaxStake float64
	// MaxStakeAgeBlocks is the stake age at which the economic age factor
	// saturates to 1.0.
	MaxStakeAgeBlocks uint64
	// MaxAccountAgeBlocks is the account age at which the temporal age
	// factor saturates to 1.0.
	MaxAccountAgeBlocks uint64
	// InactivityDecayBlocks is the number of blocks of inactivity over
	// which the temporal recency factor decays linearly from 1.0 to 0.0.
	InactivityDecayBlocks uint64
	// MaxDiversity and MaxVolume saturate the behaviour component's
	// diversity and volume factors.
	MaxDiversity float64
	MaxVolume    float64
	// WoTMaxDepth bounds trust-path traversal (§4.1, §6 wot_max_depth).
	WoTMaxDepth int
}

// DefaultConfig mirrors spec §6's wot_max_depth=3 and otherwise picks
// conservative saturation points for a newly bootstrapped network.
func DefaultConfig() *Config {
	return &Config{
		MaxStake:              1_000_000,
		MaxStakeAgeBlocks:     200_000,
		MaxAccountAgeBlocks:   200_000,
		InactivityDecayBlocks: 100_000,
		MaxDiversity:          50,
		MaxVolume:             1_000,
		WoTMaxDepth:           3,
	}
}
