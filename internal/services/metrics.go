package services

import "github.com/prometheus/client_golang/prometheus"

var (
	analysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiment_analyses_total",
			Help: "Analyze requests by outcome.",
		},
		[]string{"outcome"},
	)

	storeFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sentiment_store_failures_total",
			Help: "Validated analyses that could not be appended to the record file.",
		},
	)
)

func init() {
	prometheus.MustRegister(analysesTotal, storeFailures)
}

// outcomeOf maps an Analyze error to a low-cardinality label.
func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case isAny(err, ErrEmptyText, ErrEmptyNickname, ErrTooLong):
		return "invalid_input"
	case isAny(err, ErrQuotaExhausted):
		return "quota_exhausted"
	case isAny(err, ErrLanguageDetection):
		return "language_detection_failed"
	case isAny(err, ErrUpstream):
		return "upstream_error"
	default:
		return "analysis_failed"
	}
}
