package services

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"fintrack/internal/cache"
	"fintrack/internal/core"
	"fintrack/internal/insights"
	"fintrack/internal/log"
	"fintrack/internal/storage"
)

// MonthlyReport bundles the overview, anomalies and insights for one month.
// Month returns copies, so callers may modify the slices freely.
type MonthlyReport struct {
	Overview    core.MonthOverview
	Anomalies   []core.Transaction
	Insights    []string
	Count       int
	GeneratedAt time.Time
}

// ReportService builds monthly reports and caches them until transactions change.
type ReportService struct {
	store      storage.TransactionStore
	cache      cache.Cache[MonthlyReport]
	thresholds []insights.Threshold
	logger     *log.Logger
	now        func() time.Time

	// mu orders cache writes against Invalidate; generation counts invalidations.
	mu         sync.Mutex
	generation uint64
}

// NewReportService builds the service. A nil cache disables caching.
func NewReportService(store storage.TransactionStore, c cache.Cache[MonthlyReport], logger *log.Logger, opts ...Option) *ReportService {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	o := applyOptions(opts)
	return &ReportService{
		store:      store,
		cache:      c,
		thresholds: insights.DefaultThresholds,
		logger:     logger.WithComponent(log.ComponentReports),
		now:        o.now,
	}
}

// Month returns the report for year/month.
func (s *ReportService) Month(ctx context.Context, year, month int) (MonthlyReport, error) {
	if year < 1 || month < 1 || month > 12 {
		return MonthlyReport{}, fmt.Errorf("%04d-%02d: %w", year, month, ErrInvalidPeriod)
	}
	key := fmt.Sprintf("%04d-%02d", year, month)
	if s.cache != nil {
		if r, ok := s.cache.Get(key); ok {
			s.logger.DebugContext(ctx, "Report served from cache", "period", key)
			return r.clone(), nil
		}
	}

	gen := s.currentGeneration()
	from, to := storage.MonthRange(year, time.Month(month))
	txns, err := s.store.ListTransactions(ctx, from, to)
	if err != nil {
		return MonthlyReport{}, fmt.Errorf("list transactions: %w", err)
	}

	r := MonthlyReport{
		Overview:    insights.Overview(year, month, txns),
		Anomalies:   insights.DetectAnomalies(txns),
		Insights:    insights.GenerateInsightsWith(txns, s.thresholds),
		Count:       len(txns),
		GeneratedAt: s.now().UTC(),
	}
	if s.cache != nil {
		s.storeIfCurrent(ctx, key, gen, r.clone())
	}

	s.logger.InfoContext(ctx, "Report generated",
		log.FieldOperation, log.OpReport,
		"period", key,
		"transactions", len(txns),
		"anomalies", len(r.Anomalies))
	return r, nil
}

// Invalidate drops all cached reports. Reports computed from reads that
// started before the call are not cached afterwards.
func (s *ReportService) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	if s.cache != nil {
		s.cache.Purge()
	}
}

func (s *ReportService) currentGeneration() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// storeIfCurrent caches r unless an invalidation happened since gen was read.
func (s *ReportService) storeIfCurrent(ctx context.Context, key string, gen uint64, r MonthlyReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		s.logger.DebugContext(ctx, "Skipping cache write for stale report", "period", key)
		return
	}
	s.cache.Set(key, r)
}

func (r MonthlyReport) clone() MonthlyReport {
	r.Overview.ByCategory = slices.Clone(r.Overview.ByCategory)
	r.Anomalies = slices.Clone(r.Anomalies)
	r.Insights = slices.Clone(r.Insights)
	return r
}
