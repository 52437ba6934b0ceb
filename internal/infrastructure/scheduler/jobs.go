package scheduler

import (
	"context"
	"sort"
	"time"

	"github.com/filterdesk/backend/internal/domain/trade"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Job names
const (
	JobStatsWarmup     = "stats-warmup"
	JobStaleQuotations = "stale-quotations"
)

// StatsWarmer recomputes cached dashboard figures
type StatsWarmer interface {
	WarmUp(ctx context.Context) error
}

// StatsWarmupJob keeps the company-wide dashboard in the cache
type StatsWarmupJob struct {
	warmer StatsWarmer
}

// NewStatsWarmupJob creates the stats-warmup job
func NewStatsWarmupJob(warmer StatsWarmer) *StatsWarmupJob {
	return &StatsWarmupJob{warmer: warmer}
}

// Name implements Job
func (j *StatsWarmupJob) Name() string { return JobStatsWarmup }

// Run implements Job
func (j *StatsWarmupJob) Run(ctx context.Context) error {
	return j.warmer.WarmUp(ctx)
}

// StaleQuotationFinder lists quotations created before a cutoff
type StaleQuotationFinder interface {
	FindStaleQuotations(ctx context.Context, before time.Time) ([]trade.Order, error)
}

// StaleQuotationSummary groups stale quotations of one representative
type StaleQuotationSummary struct {
	RepresentativeID   uuid.UUID
	RepresentativeName string
	Count              int
	OldestNumber       string
	OldestCreatedAt    time.Time
}

// StaleQuotationsJob reports quotations that were never confirmed
type StaleQuotationsJob struct {
	finder StaleQuotationFinder
	days   int
	logger *zap.Logger
	now    func() time.Time
}

// NewStaleQuotationsJob creates the stale-quotations job. Quotations older
// than days are reported; days below 1 means 30.
func NewStaleQuotationsJob(finder StaleQuotationFinder, days int, logger *zap.Logger) *StaleQuotationsJob {
	if days < 1 {
		days = 30
	}
	return &StaleQuotationsJob{finder: finder, days: days, logger: logger, now: time.Now}
}

// Name implements Job
func (j *StaleQuotationsJob) Name() string { return JobStaleQuotations }

// Run implements Job
func (j *StaleQuotationsJob) Run(ctx context.Context) error {
	cutoff := j.now().AddDate(0, 0, -j.days)
	orders, err := j.finder.FindStaleQuotations(ctx, cutoff)
	if err != nil {
		return err
	}

	summaries := SummarizeStaleQuotations(orders)
	for _, s := range summaries {
		j.logger.Warn("Stale quotations pending confirmation",
			zap.String("representative_id", s.RepresentativeID.String()),
			zap.String("representative_name", s.RepresentativeName),
			zap.Int("count", s.Count),
			zap.String("oldest_number", s.OldestNumber),
			zap.Time("oldest_created_at", s.OldestCreatedAt),
		)
	}
	j.logger.Info("Stale quotation check finished",
		zap.Int("days", j.days),
		zap.Int("quotations", len(orders)),
		zap.Int("representatives", len(summaries)),
	)
	return nil
}

// SummarizeStaleQuotations groups quotations by representative, largest
// backlog first
func SummarizeStaleQuotations(orders []trade.Order) []StaleQuotationSummary {
	byRep := make(map[uuid.UUID]*StaleQuotationSummary)
	for i := range orders {
		o := &orders[i]
		s, ok := byRep[o.RepresentativeID]
		if !ok {
			s = &StaleQuotationSummary{
				RepresentativeID:   o.RepresentativeID,
				RepresentativeName: o.RepresentativeName,
			}
			byRep[o.RepresentativeID] = s
		}
		s.Count++
		if s.OldestNumber == "" || o.CreatedAt.Before(s.OldestCreatedAt) {
			s.OldestNumber = o.Number
			s.OldestCreatedAt = o.CreatedAt
		}
	}

	result := make([]StaleQuotationSummary, 0, len(byRep))
	for _, s := range byRep {
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].RepresentativeName < result[j].RepresentativeName
	})
	return result
}
