package behavior

import "github.com/certen-trust/reputation-core/pkg/address"

// Store is the slice of C13 Persistence (key prefix "B") this package needs.
// Tracker serialises its own RecordFraud read-modify-write cycles behind a
// single mutex; FraudScore and Get read through without taking it.
type Store interface {
	GetBehaviorMetrics(addr address.Address) (*Metrics, error)
	PutBehaviorMetrics(addr address.Address, m *Metrics) error
}
