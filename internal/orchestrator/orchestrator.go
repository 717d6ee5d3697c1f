// Package orchestrator fans a ticker out to every specialist agent over
// A2A, folds their reports through the synthesizer, and wraps the
// outcome in an Analysis envelope.
package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"strategist/internal/a2a"
	"strategist/internal/agents"
	"strategist/internal/datasources"
	"strategist/internal/domain/signal"
	"strategist/internal/metrics"
	"strategist/internal/synthesis"
	"strategist/pkg/logger"
)

// AgentClient is the slice of the A2A client the orchestrator needs.
type AgentClient interface {
	FetchCard(ctx context.Context, baseURL string) (a2a.Card, error)
	Invoke(ctx context.Context, baseURL, message string) (string, error)
}

// QuoteFetcher supplies the current price for target estimation.
// Typically *datasources.PolygonClient; nil disables price targets.
type QuoteFetcher interface {
	PreviousClose(ctx context.Context, ticker string) (datasources.Quote, error)
}

// Orchestrator coordinates the specialist fan-out and synthesis.
type Orchestrator struct {
	client      AgentClient
	synthesizer *synthesis.Synthesizer
	endpoints   map[signal.AgentKey]string
	weights     map[signal.AgentKey]float64
	quotes      QuoteFetcher
	callTimeout time.Duration
	log         *logger.Logger
}

// New creates an orchestrator over the given specialist endpoints.
func New(
	client AgentClient,
	endpoints map[signal.AgentKey]string,
	weights map[signal.AgentKey]float64,
	quotes QuoteFetcher,
	callTimeout time.Duration,
	log *logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		client:      client,
		synthesizer: synthesis.New(),
		endpoints:   endpoints,
		weights:     weights,
		quotes:      quotes,
		callTimeout: callTimeout,
		log:         log,
	}
}

// Analysis is the complete outcome of one analysis run.
type Analysis struct {
	Ticker       string                 `json:"ticker"`
	Horizon      string                 `json:"horizon"`
	Result       signal.SynthesisResult `json:"result"`
	CurrentPrice *decimal.Decimal       `json:"current_price,omitempty"`
	PriceTarget  *decimal.Decimal       `json:"price_target,omitempty"`
	AgentsCalled int                    `json:"agents_called"`
	Elapsed      time.Duration          `json:"elapsed"`
	Timestamp    time.Time              `json:"timestamp"`
}

// Analyze queries every configured specialist concurrently and
// synthesizes their reports. Specialist failures degrade to
// error-flagged reports; Analyze itself only fails on an empty
// endpoint set.
func (o *Orchestrator) Analyze(ctx context.Context, ticker, horizon string) (Analysis, error) {
	start := time.Now()

	o.log.Infof("analyzing %s for %s across %d specialists", ticker, horizon, len(o.endpoints))

	reports := o.fanOut(ctx, ticker, horizon)
	result := o.synthesizer.Synthesize(reports, o.weights)

	analysis := Analysis{
		Ticker:       ticker,
		Horizon:      horizon,
		Result:       result,
		AgentsCalled: len(reports),
		Elapsed:      time.Since(start),
		Timestamp:    time.Now().UTC(),
	}

	if o.quotes != nil {
		if quote, err := o.quotes.PreviousClose(ctx, ticker); err == nil {
			target := estimatePriceTarget(quote.Close, result.WeightedSignal)
			analysis.CurrentPrice = &quote.Close
			analysis.PriceTarget = &target
		} else {
			o.log.Warnf("no current price for %s, skipping price target: %v", ticker, err)
		}
	}

	metrics.RecordSynthesis(string(result.Recommendation), string(result.RiskLevel), analysis.Elapsed, ticker)
	o.log.Infof("%s: %s (signal %+.2f, confidence %.1f%%, risk %s) in %s",
		ticker, result.Recommendation, result.WeightedSignal,
		result.AverageConfidence, result.RiskLevel, analysis.Elapsed.Round(time.Millisecond))

	return analysis, nil
}

// fanOut invokes all specialists concurrently, each under its own
// timeout. A failed call becomes an error-flagged report.
func (o *Orchestrator) fanOut(ctx context.Context, ticker, horizon string) map[signal.AgentKey]signal.Report {
	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		reports = make(map[signal.AgentKey]signal.Report, len(o.endpoints))
	)

	for key, baseURL := range o.endpoints {
		wg.Add(1)
		go func(key signal.AgentKey, baseURL string) {
			defer wg.Done()

			report := o.callSpecialist(ctx, key, baseURL, ticker, horizon)

			mu.Lock()
			reports[key] = report
			mu.Unlock()
		}(key, baseURL)
	}

	wg.Wait()
	return reports
}

func (o *Orchestrator) callSpecialist(ctx context.Context, key signal.AgentKey, baseURL, ticker, horizon string) signal.Report {
	callCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
	defer cancel()

	start := time.Now()
	message := fmt.Sprintf("Analyze %s stock for a %s prediction. Return your full analysis report.", ticker, horizon)

	raw, err := o.client.Invoke(callCtx, baseURL, message)
	metrics.RecordAgentCall(key.String(), time.Since(start), err)
	if err != nil {
		o.log.Warnf("%s agent failed: %v", key, err)
		return signal.ErrorReport(key, err.Error())
	}

	parsed, err := agents.ParseReport(raw)
	if err != nil {
		o.log.Warnf("%s agent returned unusable report: %v", key, err)
		return signal.ErrorReport(key, err.Error())
	}

	o.log.Debugf("%s agent: signal %+.2f, confidence %.0f%%", key, parsed.DirectionalSignal, parsed.ConfidenceScore)

	return signal.Report{
		AgentKey:          key,
		DirectionalSignal: parsed.DirectionalSignal,
		ConfidenceScore:   parsed.ConfidenceScore,
		Summary:           parsed.Summary,
	}
}

// CheckAgents fetches every specialist's card and reports which are
// reachable. Used for preflight status output.
func (o *Orchestrator) CheckAgents(ctx context.Context) map[signal.AgentKey]error {
	out := make(map[signal.AgentKey]error, len(o.endpoints))

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for key, baseURL := range o.endpoints {
		wg.Add(1)
		go func(key signal.AgentKey, baseURL string) {
			defer wg.Done()

			_, err := o.client.FetchCard(ctx, baseURL)

			mu.Lock()
			out[key] = err
			mu.Unlock()
		}(key, baseURL)
	}
	wg.Wait()

	return out
}

// estimatePriceTarget adjusts the current price by up to 20% in the
// direction of the weighted signal.
func estimatePriceTarget(current decimal.Decimal, weightedSignal float64) decimal.Decimal {
	adjustment := decimal.NewFromFloat(1 + weightedSignal*0.20)
	return current.Mul(adjustment).Round(2)
}
