package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"market-movers/internal/types"
)

// ConstituentStorage persists index membership records.
type ConstituentStorage struct {
	db *DB
}

func NewConstituentStorage(db *DB) *ConstituentStorage {
	return &ConstituentStorage{db: db}
}

// Upsert writes or replaces a constituent keyed by symbol.
func (s *ConstituentStorage) Upsert(ctx context.Context, c types.Constituent) error {
	if c.Symbol == "" {
		return fmt.Errorf("constituent symbol is required")
	}
	c.UpdatedAt = time.Now().UTC()
	if err := s.db.Store().Upsert(c.Symbol, &c); err != nil {
		return fmt.Errorf("failed to save constituent %s: %w", c.Symbol, err)
	}
	return nil
}

// DeactivateAll marks every constituent inactive. Used before re-seeding a
// membership snapshot so removals fall out of the active set.
func (s *ConstituentStorage) DeactivateAll(ctx context.Context) error {
	var all []types.Constituent
	if err := s.db.Store().Find(&all, badgerhold.Where("Symbol").Ne("")); err != nil {
		return fmt.Errorf("failed to list constituents: %w", err)
	}
	for i := range all {
		all[i].Active = false
		all[i].UpdatedAt = time.Now().UTC()
		if err := s.db.Store().Upsert(all[i].Symbol, &all[i]); err != nil {
			return fmt.Errorf("failed to deactivate %s: %w", all[i].Symbol, err)
		}
	}
	return nil
}

// Active returns all active constituents sorted by symbol.
func (s *ConstituentStorage) Active(ctx context.Context) ([]types.Constituent, error) {
	var out []types.Constituent
	q := badgerhold.Where("Active").Eq(true).Index("Active").SortBy("Symbol")
	if err := s.db.Store().Find(&out, q); err != nil {
		return nil, fmt.Errorf("failed to query active constituents: %w", err)
	}
	return out, nil
}

// Count returns the number of active constituents.
func (s *ConstituentStorage) Count(ctx context.Context) (int, error) {
	n, err := s.db.Store().Count(&types.Constituent{}, badgerhold.Where("Active").Eq(true).Index("Active"))
	if err != nil {
		return 0, fmt.Errorf("failed to count constituents: %w", err)
	}
	return int(n), nil
}
