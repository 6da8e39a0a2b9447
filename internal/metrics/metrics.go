package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SessionTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillprobe_session_transitions_total",
			Help: "Total number of interview session state transitions",
		},
		[]string{"transition"},
	)

	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "skillprobe_sessions_active",
			Help: "Number of sessions currently active or paused in this process",
		},
	)

	QuestionsDelivered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillprobe_questions_delivered_total",
			Help: "Total number of questions delivered, by category and selection fallback",
		},
		[]string{"category", "fallback"},
	)

	CatalogExhausted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "skillprobe_catalog_exhausted_total",
			Help: "Total number of selections that found no unused question",
		},
	)

	Evaluations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillprobe_evaluations_total",
			Help: "Total number of answers scored, by deciding tier",
		},
		[]string{"tier"},
	)

	EvaluationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillprobe_evaluation_failures_total",
			Help: "Total number of failed evaluations, by reason",
		},
		[]string{"reason"},
	)

	JudgeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "skillprobe_judge_duration_seconds",
			Help:    "Duration of AI judge calls in seconds",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 8),
		},
	)

	ConcurrentRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "skillprobe_concurrent_submit_rejections_total",
			Help: "Total number of submits rejected because an evaluation was in flight",
		},
	)

	LLMRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillprobe_llm_requests_total",
			Help: "Total number of LLM requests, by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	LLMTokens = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillprobe_llm_tokens_total",
			Help: "Total number of LLM tokens consumed, by direction",
		},
		[]string{"direction"},
	)
)
