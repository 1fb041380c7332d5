package storage

import (
	"context"
	"fmt"

	"github.com/timshannon/badgerhold/v4"

	"market-movers/internal/interfaces"
	"market-movers/internal/types"
)

// ReportStorage implements the ReportStore interface on Badger. The date
// key gives the one-report-per-date guarantee.
type ReportStorage struct {
	db *DB
}

var _ interfaces.ReportStore = (*ReportStorage)(nil)

func NewReportStorage(db *DB) *ReportStorage {
	return &ReportStorage{db: db}
}

func (s *ReportStorage) Get(ctx context.Context, date string) (*types.Report, error) {
	var r types.Report
	err := s.db.Store().Get(date, &r)
	if err == badgerhold.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read report for %s: %w", date, err)
	}
	return &r, nil
}

func (s *ReportStorage) Put(ctx context.Context, report *types.Report, force bool) error {
	if report == nil || report.Date == "" {
		return fmt.Errorf("report needs a date")
	}
	existing, err := s.Get(ctx, report.Date)
	if err != nil {
		return err
	}
	// Completed and partial reports are terminal artifacts. A failed
	// report may be replaced by a retry without force.
	if existing != nil && !force &&
		(existing.Status == types.StatusComplete || existing.Status == types.StatusPartial) {
		return fmt.Errorf("report for %s already finalized with status %s", report.Date, existing.Status)
	}
	if err := s.db.Store().Upsert(report.Date, report); err != nil {
		return fmt.Errorf("failed to save report for %s: %w", report.Date, err)
	}
	return nil
}

func (s *ReportStorage) Latest(ctx context.Context) (*types.Report, error) {
	var reports []types.Report
	q := badgerhold.Where("Status").In(
		types.StatusComplete, types.StatusPartial, types.StatusFailed,
	).Index("Status").SortBy("Date").Reverse().Limit(1)
	if err := s.db.Store().Find(&reports, q); err != nil {
		return nil, fmt.Errorf("failed to query latest report: %w", err)
	}
	if len(reports) == 0 {
		return nil, nil
	}
	return &reports[0], nil
}
