package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/cases"

	"github.com/tbourn/go-sentiment-backend/internal/domain"
	"github.com/tbourn/go-sentiment-backend/internal/utils"
)

// History window bounds.
const (
	DefaultHistoryLimit = 5
	MaxHistoryLimit     = 100

	topN = 5
)

// RecentLister reads the most recent records (satisfied by *repo.FileStore).
type RecentLister interface {
	Recent(ctx context.Context, limit int) ([]domain.AnalysisRecord, error)
}

// HistoryService returns a window of recent analyses and statistics over it.
type HistoryService struct {
	Store        RecentLister
	DefaultLimit int
}

// Recent returns up to limit records, newest first, and a summary computed
// over exactly those records. limit <= 0 uses the default; it is capped at
// MaxHistoryLimit.
func (s *HistoryService) Recent(ctx context.Context, limit int) (*domain.History, error) {
	if limit <= 0 {
		limit = s.DefaultLimit
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	limit = utils.ClampInt(limit, 1, MaxHistoryLimit)

	ctx, span := otel.Tracer("services/HistoryService").Start(ctx, "Recent",
		trace.WithAttributes(attribute.Int("limit", limit)),
	)
	defer span.End()

	recs, err := s.Store.Recent(ctx, limit)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("%w: %v", ErrHistoryUnavailable, err)
	}
	return &domain.History{Analyses: recs, Summary: Summarize(recs)}, nil
}

// Summarize aggregates records. Records whose analysis lacks a field simply
// do not contribute to that statistic; a record without a risk level counts
// as low risk.
func Summarize(recs []domain.AnalysisRecord) domain.HistorySummary {
	sum := domain.HistorySummary{
		TotalAnalyses:           len(recs),
		CommonEmotions:          map[string]int{},
		FrequentCognitiveBiases: map[string]int{},
	}
	if len(recs) == 0 {
		return sum
	}

	emotions := newCounter()
	biases := newCounter()
	var stability float64

	for _, r := range recs {
		res := gjson.GetManyBytes(r.Analysis,
			"risk_assessment.risk_level",
			"emotional_analysis.emotional_stability",
			"emotional_analysis.secondary_emotions",
			"psychological_insights.cognitive_biases",
		)

		switch risk := res[0].Float(); {
		case risk > 0.5:
			sum.RiskLevels.High++
		case risk > 0.2:
			sum.RiskLevels.Medium++
		default:
			sum.RiskLevels.Low++
		}

		stability += res[1].Float()

		res[2].ForEach(func(_, v gjson.Result) bool {
			emotions.add(v.String())
			return true
		})
		res[3].ForEach(func(_, v gjson.Result) bool {
			biases.add(v.String())
			return true
		})
	}

	sum.AverageObjectivity = stability / float64(len(recs))
	sum.CommonEmotions = emotions.top(topN)
	sum.FrequentCognitiveBiases = biases.top(topN)
	return sum
}

// counter tallies labels case-insensitively, keeping the first spelling seen
// and first-seen order for ties.
type counter struct {
	fold   cases.Caser
	counts map[string]int
	label  map[string]string
	order  []string
}

func newCounter() *counter {
	return &counter{
		fold:   cases.Fold(),
		counts: map[string]int{},
		label:  map[string]string{},
	}
}

func (c *counter) add(s string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return
	}
	k := c.fold.String(s)
	if _, ok := c.counts[k]; !ok {
		c.label[k] = s
		c.order = append(c.order, k)
	}
	c.counts[k]++
}

func (c *counter) top(n int) map[string]int {
	keys := append([]string(nil), c.order...)
	sort.SliceStable(keys, func(i, j int) bool { return c.counts[keys[i]] > c.counts[keys[j]] })
	if len(keys) > n {
		keys = keys[:n]
	}
	out := make(map[string]int, len(keys))
	for _, k := range keys {
		out[c.label[k]] = c.counts[k]
	}
	return out
}
