package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"sort"
	"time"

	"strategist/internal/a2a"
	"strategist/internal/adapters/config"
	"strategist/internal/adapters/errors/noop"
	"strategist/internal/adapters/errors/sentry"
	"strategist/internal/api/health"
	"strategist/internal/datasources"
	"strategist/internal/domain/signal"
	"strategist/internal/metrics"
	"strategist/internal/orchestrator"
	"strategist/pkg/errors"
	"strategist/pkg/logger"
)

const version = "0.1.0"

func main() {
	ticker := flag.String("ticker", "GOOGL", "stock ticker to analyze")
	horizon := flag.String("horizon", "1-week", "prediction horizon (e.g. 1-day, 1-week, 1-month)")
	asJSON := flag.Bool("json", false, "print the full analysis as JSON")
	skipPreflight := flag.Bool("skip-preflight", false, "skip the agent card preflight check")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	defer logger.Sync()

	log := logger.Get()
	log.Infof("Starting %s orchestrator in %s mode", cfg.App.Name, cfg.App.Env)

	errorTracker := initErrorTracker(cfg, log)
	logger.SetErrorTracker(errorTracker)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := a2a.NewClient(cfg.Agents.CallTimeout, cfg.Agents.CardTimeout, cfg.Agents.ReqPerMinute)

	var quotes orchestrator.QuoteFetcher
	if cfg.DataSources.PolygonAPIKey != "" {
		quotes = datasources.NewPolygonClient(cfg.DataSources.PolygonAPIKey)
	} else {
		log.Warn("POLYGON_API_KEY not set, price targets disabled")
	}

	o := orchestrator.New(
		client,
		agentKeyed(cfg.Agents.Endpoints()),
		agentKeyedWeights(cfg.Agents.BaseWeights()),
		quotes,
		cfg.Agents.CallTimeout,
		log,
	)

	if cfg.Metrics.Enabled {
		metrics.Init()
		go serveOps(ctx, cfg.Metrics.Port, o, log)
	}

	if !*skipPreflight {
		preflight(ctx, o, log)
	}

	analysis, err := o.Analyze(ctx, *ticker, *horizon)
	if err != nil {
		_ = errorTracker.CaptureError(ctx, err, map[string]string{"ticker": *ticker})
		log.Fatalf("analysis failed: %v", err)
	}

	if *asJSON {
		printJSON(analysis)
	} else {
		printReport(analysis)
	}

	if err := errorTracker.Flush(ctx); err != nil {
		log.Warnf("Failed to flush error tracker: %v", err)
	}
}

// initErrorTracker initializes error tracking (Sentry or no-op)
func initErrorTracker(cfg *config.Config, log *logger.Logger) errors.Tracker {
	if !cfg.ErrorTracking.Enabled || cfg.ErrorTracking.SentryDSN == "" {
		log.Info("Error tracking disabled")
		return noop.New()
	}

	tracker, err := sentry.New(cfg.ErrorTracking.SentryDSN, cfg.ErrorTracking.Environment)
	if err != nil {
		log.Warnf("Failed to initialize Sentry: %v", err)
		return noop.New()
	}

	log.Info("Error tracking initialized (Sentry)")
	return tracker
}

// serveOps exposes Prometheus metrics and health endpoints while an
// analysis is running.
func serveOps(ctx context.Context, port int, o *orchestrator.Orchestrator, log *logger.Logger) {
	h := health.New(log, o, "strategist", version)

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/healthz", h.HandleLiveness)
	mux.HandleFunc("/readyz", h.HandleReadiness)
	mux.HandleFunc("/health", h.HandleHealth)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Infof("Metrics server listening on :%d", port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Errorf("metrics server error: %v", err)
	}
}

// preflight fetches every specialist's agent card and reports who answered.
// Unreachable agents are logged but do not stop the analysis, since the
// synthesizer degrades gracefully.
func preflight(ctx context.Context, o *orchestrator.Orchestrator, log *logger.Logger) {
	status := o.CheckAgents(ctx)

	reachable := 0
	for key, err := range status {
		if err != nil {
			log.Warnf("%s agent unreachable: %v", key, err)
			continue
		}
		reachable++
	}
	log.Infof("Preflight: %d/%d agents reachable", reachable, len(status))
}

func printJSON(analysis orchestrator.Analysis) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(analysis)
}

func printReport(analysis orchestrator.Analysis) {
	r := analysis.Result

	fmt.Printf("\n%s %s analysis (%s horizon)\n", analysis.Ticker, r.Recommendation, analysis.Horizon)
	fmt.Printf("  weighted signal:    %+.3f\n", r.WeightedSignal)
	fmt.Printf("  confidence:         %.1f%%\n", r.AverageConfidence)
	fmt.Printf("  risk level:         %s\n", r.RiskLevel)
	if analysis.CurrentPrice != nil && analysis.PriceTarget != nil {
		fmt.Printf("  price:              %s -> target %s\n", analysis.CurrentPrice, analysis.PriceTarget)
	}
	fmt.Printf("  elapsed:            %s\n\n", analysis.Elapsed.Round(time.Millisecond))

	keys := make([]signal.AgentKey, 0, len(r.Reports))
	for key := range r.Reports {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	for _, key := range keys {
		report := r.Reports[key]
		if report.Failed() {
			fmt.Printf("  [%s] FAILED: %s\n", key, report.Error)
			continue
		}
		fmt.Printf("  [%s] signal %+.2f, confidence %.0f%%\n    %s\n", key, report.DirectionalSignal, report.ConfidenceScore, report.Summary)
	}
	fmt.Println()
}

func agentKeyed(in map[string]string) map[signal.AgentKey]string {
	out := make(map[signal.AgentKey]string, len(in))
	for key, value := range in {
		out[signal.AgentKey(key)] = value
	}
	return out
}

func agentKeyedWeights(in map[string]float64) map[signal.AgentKey]float64 {
	out := make(map[signal.AgentKey]float64, len(in))
	for key, value := range in {
		out[signal.AgentKey(key)] = value
	}
	return out
}
