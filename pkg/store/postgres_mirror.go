// Copyright 2025 Certen Protocol
//
// Postgres Audit Mirror - an optional, append-only copy of every fraud
// record and dispute resolution, queryable outside the consensus-critical
// KV store. Grounded on the teacher's pkg/database client (connection
// pooling, context-bounded pings) and repository pattern.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/certen-trust/reputation-core/pkg/dispute"
	"github.com/certen-trust/reputation-core/pkg/fraud"
)

// AuditMirror is the audit sink interface Store writes through to when a
// Postgres mirror is configured. Nil Store.mirror skips mirroring
// entirely - the KV store remains the sole consensus-critical source of
// truth, per §4.13; the mirror exists only for off-chain querying.
type AuditMirror interface {
	MirrorFraudRecord(r *fraud.Record) error
	MirrorDisputeResolution(c *dispute.Case) error
}

// PostgresMirror implements AuditMirror atop database/sql and lib/pq.
type PostgresMirror struct {
	db *sql.DB
}

// PostgresMirrorConfig configures NewPostgresMirror.
type PostgresMirrorConfig struct {
	DatabaseURL     string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdleTime time.Duration
	ConnMaxLifetime time.Duration
}

// DefaultPostgresMirrorConfig returns conservative pool settings for a
// single-node audit mirror.
func DefaultPostgresMirrorConfig(databaseURL string) *PostgresMirrorConfig {
	return &PostgresMirrorConfig{
		DatabaseURL:     databaseURL,
		MaxOpenConns:    10,
		MaxIdleConns:    2,
		ConnMaxIdleTime: 5 * time.Minute,
		ConnMaxLifetime: time.Hour,
	}
}

// NewPostgresMirror opens a pooled Postgres connection and verifies it
// with a bounded ping, matching the teacher's database.Client.
func NewPostgresMirror(cfg *PostgresMirrorConfig) (*PostgresMirror, error) {
	if cfg == nil || cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("store: postgres mirror requires a database URL")
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("store: open postgres mirror: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping postgres mirror: %w", err)
	}

	return &PostgresMirror{db: db}, nil
}

// MirrorFraudRecord appends r to the audit mirror's fraud_records table.
func (m *PostgresMirror) MirrorFraudRecord(r *fraud.Record) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := m.db.ExecContext(ctx, `
		INSERT INTO fraud_records (
			mirror_id, tx_hash, fraudster, claimed_final, actual_final,
			score_delta, reputation_penalty, bond_slash_fraction, block_height, reason, mirrored_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (tx_hash) DO NOTHING`,
		uuid.New(), fmt.Sprintf("%x", r.TxHash), r.Fraudster.Hex(), r.ClaimedFinal, r.ActualFinal,
		r.ScoreDelta, r.ReputationPenalty, r.BondSlashFraction, r.BlockHeight, r.Reason, time.Now())
	if err != nil {
		return fmt.Errorf("store: mirror fraud record: %w", err)
	}
	return nil
}

// MirrorDisputeResolution appends c's resolved outcome to the audit
// mirror's dispute_resolutions table.
func (m *PostgresMirror) MirrorDisputeResolution(c *dispute.Case) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := m.db.ExecContext(ctx, `
		INSERT INTO dispute_resolutions (mirror_id, case_id, tx_hash, resolution, resolved_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (case_id) DO NOTHING`,
		uuid.New(), fmt.Sprintf("%x", c.CaseID), fmt.Sprintf("%x", c.Session.Request.TxHash), c.Resolution.String(), c.ResolvedAt)
	if err != nil {
		return fmt.Errorf("store: mirror dispute resolution: %w", err)
	}
	return nil
}
