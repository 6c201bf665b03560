// Copyright 2025 Certen Protocol

package trust

import (
	"log"
	"math"

	"github.com/certen-trust/reputation-core/pkg/address"
)

// Scorer computes TrustScore values for a subject, either globally
// (observer-free, consensus-critical) or personally (WoT-aware, for a
// single validator's private vote).
type Scorer struct {
	cfg    *Config
	graph  WoTGraph
	logger *log.Logger
}

// NewScorer builds a Scorer. graph may be nil, in which case ScorePersonal
// always returns has_wot=false and behaves exactly like ScoreGlobal.
func NewScorer(cfg *Config, graph WoTGraph) *Scorer {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Scorer{
		cfg:    cfg,
		graph:  graph,
		logger: log.New(log.Writer(), "[TrustScorer] ", log.LstdFlags),
	}
}

// ScoreGlobal computes the consensus-critical variant: behaviour, economic
// and temporal only, no WoT. Every caller that influences block validity
// must use this entry (§9).
func (s *Scorer) ScoreGlobal(onChain OnChainMetrics, behavior BehaviorStats) Score {
	return newScore(
		s.behaviorComponent(behavior),
		0,
		s.economicComponent(onChain),
		s.temporalComponent(onChain),
		false,
	)
}

// ScorePersonal computes observer's private view of subject, including the
// WoT component when a trust path exists. Used only inside a validator's
// vote, never in consensus-critical arithmetic (§9).
func (s *Scorer) ScorePersonal(observer, subject address.Address, onChain OnChainMetrics, behavior BehaviorStats) Score {
	wot, hasWoT := s.wotComponent(observer, subject)
	return newScore(
		s.behaviorComponent(behavior),
		wot,
		s.economicComponent(onChain),
		s.temporalComponent(onChain),
		hasWoT,
	)
}

func (s *Scorer) behaviorComponent(b BehaviorStats) float64 {
	diversity := saturate(float64(b.DiversityCount), s.cfg.MaxDiversity)
	volume := saturate(float64(b.VolumeCount), s.cfg.MaxVolume)
	temporalPattern := clamp01(b.TemporalRegularity)
	fraud := clamp01(b.FraudScore)
	return diversity * volume * temporalPattern * fraud
}

func (s *Scorer) economicComponent(m OnChainMetrics) float64 {
	stakeFactor := logSaturate(m.StakeAmount, s.cfg.MaxStake)
	ageFactor := saturate(float64(m.StakeAgeBlocks), float64(s.cfg.MaxStakeAgeBlocks))
	return 0.7*stakeFactor + 0.3*ageFactor
}

func (s *Scorer) temporalComponent(m OnChainMetrics) float64 {
	ageFactor := saturate(float64(m.AccountAgeBlocks), float64(s.cfg.MaxAccountAgeBlocks))
	var recency float64
	if s.cfg.InactivityDecayBlocks == 0 {
		recency = 1.0
	} else {
		recency = clamp01(1.0 - float64(m.BlocksSinceLastTx)/float64(s.cfg.InactivityDecayBlocks))
	}
	return ageFactor * recency
}

// wotComponent performs a bounded-depth BFS from observer, accumulating the
// product of edge weights along each path and keeping the best (maximum)
// weight reaching subject. Every 64 hops expanded in the frontier it passes
// an empty cooperative-suspension marker (it does not actually yield),
// mirroring the convention of §5; the depth cap keeps any single path well
// under that bound.
func (s *Scorer) wotComponent(observer, subject address.Address) (float64, bool) {
	if s.graph == nil || observer == subject {
		return 0, false
	}
	maxDepth := s.cfg.WoTMaxDepth
	if maxDepth <= 0 {
		maxDepth = 3
	}

	type frontierEntry struct {
		addr   address.Address
		weight float64
		depth  int
	}

	best := 0.0
	found := false
	visitedHops := 0
	frontier := []frontierEntry{{addr: observer, weight: 1.0, depth: 0}}

	for len(frontier) > 0 {
		cur := frontier[0]
		frontier = frontier[1:]
		visitedHops++
		if visitedHops%64 == 0 {
			// Cooperative suspension point; no-op here since traversal is
			// in-process and bounded, but kept to mirror the long-running
			// traversal discipline described in §5.
		}
		if cur.depth >= maxDepth {
			continue
		}
		for _, edge := range s.graph.Edges(cur.addr) {
			nextWeight := cur.weight * clamp01(edge.Weight)
			if edge.To == subject {
				if nextWeight > best {
					best = nextWeight
					found = true
				}
				continue
			}
			frontier = append(frontier, frontierEntry{addr: edge.To, weight: nextWeight, depth: cur.depth + 1})
		}
	}

	if !found {
		return 0, false
	}
	return clamp01(best), true
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func saturate(value, max float64) float64 {
	if max <= 0 {
		return 0
	}
	return clamp01(value / max)
}

func logSaturate(value, max float64) float64 {
	if max <= 0 || value <= 0 {
		return 0
	}
	return clamp01(math.Log1p(value) / math.Log1p(max))
}
