package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counters for the interview flow. Registered on the default registry
// and served by promhttp in main.
var (
	SessionsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "interview_sessions_started_total",
		Help: "Interview sessions created.",
	})

	GenerationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "interview_generation_failures_total",
		Help: "Text generation calls that failed or timed out.",
	}, []string{"operation"})

	RecoveryFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "interview_recovery_fallbacks_total",
		Help: "Generator output that could not be parsed and was replaced by deterministic fallback content.",
	}, []string{"operation"})

	SynthesisFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "interview_tts_failures_total",
		Help: "Speech synthesis calls that failed; audio was omitted from the response.",
	})

	FeedbackScores = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "interview_feedback_score",
		Help:    "Distribution of feedback scores.",
		Buckets: prometheus.LinearBuckets(0, 1, 11),
	})
)
