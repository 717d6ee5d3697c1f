package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Agent metrics
	AgentCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "strategist_agent_calls_total",
			Help: "Total number of specialist agent invocations",
		},
		[]string{"agent", "status"}, // status: success|error
	)

	AgentLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "strategist_agent_latency_seconds",
			Help:    "Specialist agent invocation latency in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"agent"},
	)

	// Synthesis metrics
	Syntheses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "strategist_syntheses_total",
			Help: "Total number of completed syntheses",
		},
		[]string{"recommendation", "risk_level"},
	)

	AnalysisDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "strategist_analysis_duration_seconds",
			Help:    "End-to-end analysis duration in seconds",
			Buckets: []float64{1, 2, 5, 10, 20, 30, 60, 120},
		},
		[]string{"ticker"},
	)

	// Tool metrics
	ToolExecutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "strategist_tool_executions_total",
			Help: "Total number of data tool executions",
		},
		[]string{"tool", "status"}, // status: success|error
	)

	// AI provider metrics
	ProviderTokens = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "strategist_provider_tokens_total",
			Help: "Total tokens consumed per AI provider",
		},
		[]string{"provider", "type"}, // type: input|output
	)
)

// Init registers all collectors with the default registry.
func Init() {
	prometheus.MustRegister(AgentCalls)
	prometheus.MustRegister(AgentLatency)
	prometheus.MustRegister(Syntheses)
	prometheus.MustRegister(AnalysisDuration)
	prometheus.MustRegister(ToolExecutions)
	prometheus.MustRegister(ProviderTokens)
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordAgentCall records one specialist invocation.
func RecordAgentCall(agent string, latency time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	AgentCalls.WithLabelValues(agent, status).Inc()
	AgentLatency.WithLabelValues(agent).Observe(latency.Seconds())
}

// RecordSynthesis records one completed synthesis.
func RecordSynthesis(recommendation, riskLevel string, elapsed time.Duration, ticker string) {
	Syntheses.WithLabelValues(recommendation, riskLevel).Inc()
	AnalysisDuration.WithLabelValues(ticker).Observe(elapsed.Seconds())
}

// RecordToolExecution records one data tool run.
func RecordToolExecution(tool string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	ToolExecutions.WithLabelValues(tool, status).Inc()
}

// RecordProviderTokens records tokens consumed by one chat completion.
func RecordProviderTokens(provider string, promptTokens, completionTokens int) {
	ProviderTokens.WithLabelValues(provider, "input").Add(float64(promptTokens))
	ProviderTokens.WithLabelValues(provider, "output").Add(float64(completionTokens))
}
