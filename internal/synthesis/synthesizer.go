package synthesis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"strategist/internal/domain/signal"
)

// Recommendation and risk thresholds. The recommendation cut is symmetric at
// 0.3 with strict inequality: exactly 0.3 is still HOLD.
const (
	buyThreshold  = 0.3
	sellThreshold = -0.3

	// Risk tiers combine signal strength and confidence.
	strongSignal   = 0.35
	highConfidence = 70.0
	midConfidence  = 60.0

	// Signal stddev above this is flagged as analyst disagreement in the
	// rationale. Auxiliary commentary only; it never changes the risk level.
	disagreementThreshold = 0.5
)

// Synthesizer aggregates specialist reports into one recommendation.
// It is stateless and safe for concurrent use.
type Synthesizer struct{}

// New creates a Synthesizer.
func New() *Synthesizer {
	return &Synthesizer{}
}

// Synthesize folds the given reports into a SynthesisResult using
// confidence-adjusted weighting.
//
// Every non-error report contributes an effective weight of
//
//	base_weight * (0.5 + 0.5 * confidence/100)
//
// so a zero-confidence report still carries half its prior weight while a
// fully confident one carries all of it. The weighted signal is the
// normalized weighted sum of the directional signals; the average confidence
// is the plain arithmetic mean over non-error reports (deliberately not
// weight-adjusted). Error-flagged reports never contribute to either figure
// but are always present in the result's report map.
//
// The function is total: malformed or missing inputs degrade to neutral
// values and an empty or all-failed input yields the neutral HOLD fallback.
// It never returns an error.
func (s *Synthesizer) Synthesize(
	reports map[signal.AgentKey]signal.Report,
	baseWeights map[signal.AgentKey]float64,
) signal.SynthesisResult {
	out := make(map[signal.AgentKey]signal.Report, len(reports))

	var (
		totalWeight   float64
		weightedSum   float64
		confidenceSum float64
		usable        int
	)

	for key, report := range reports {
		if report.Failed() {
			// Kept verbatim for inspection, excluded from all math.
			out[key] = report
			continue
		}

		clamped := report.Clamped()
		out[key] = clamped

		weight := baseWeights[key] * (0.5 + 0.5*clamped.ConfidenceScore/signal.ConfidenceMax)
		totalWeight += weight
		weightedSum += clamped.DirectionalSignal * weight
		confidenceSum += clamped.ConfidenceScore
		usable++
	}

	if totalWeight == 0 {
		return signal.SynthesisResult{
			WeightedSignal:    0.0,
			Recommendation:    signal.RecommendationHold,
			AverageConfidence: 50.0,
			RiskLevel:         signal.RiskMedium,
			Rationale:         "no agent reports available",
			Reports:           out,
		}
	}

	weightedSignal := weightedSum / totalWeight
	avgConfidence := confidenceSum / float64(usable)

	recommendation := toRecommendation(weightedSignal)
	risk := toRiskLevel(recommendation, weightedSignal, avgConfidence)
	rationale := buildRationale(out, weightedSignal, avgConfidence)

	return signal.SynthesisResult{
		WeightedSignal:    weightedSignal,
		Recommendation:    recommendation,
		AverageConfidence: avgConfidence,
		RiskLevel:         risk,
		Rationale:         rationale,
		Reports:           out,
	}
}

// Disagreement returns the population standard deviation of the directional
// signals across non-error reports. Zero when fewer than two usable reports.
func Disagreement(reports map[signal.AgentKey]signal.Report) float64 {
	var values []float64
	for _, r := range reports {
		if r.Failed() {
			continue
		}
		values = append(values, r.Clamped().DirectionalSignal)
	}
	if len(values) < 2 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var variance float64
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(values))

	return math.Sqrt(variance)
}

func toRecommendation(weightedSignal float64) signal.Recommendation {
	switch {
	case weightedSignal > buyThreshold:
		return signal.RecommendationBuy
	case weightedSignal < sellThreshold:
		return signal.RecommendationSell
	default:
		return signal.RecommendationHold
	}
}

func toRiskLevel(rec signal.Recommendation, weightedSignal, avgConfidence float64) signal.RiskLevel {
	if rec == signal.RecommendationHold {
		if avgConfidence > highConfidence {
			return signal.RiskLow
		}
		return signal.RiskMedium
	}

	switch {
	case math.Abs(weightedSignal) > strongSignal && avgConfidence > highConfidence:
		return signal.RiskLow
	case avgConfidence > midConfidence:
		return signal.RiskMedium
	default:
		return signal.RiskHigh
	}
}

// buildRationale renders one line per non-error agent in a stable
// alphabetical order, then the aggregate figures. High signal dispersion adds
// a disagreement note.
func buildRationale(reports map[signal.AgentKey]signal.Report, weightedSignal, avgConfidence float64) string {
	keys := make([]signal.AgentKey, 0, len(reports))
	for key, r := range reports {
		if r.Failed() {
			continue
		}
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	var b strings.Builder
	fmt.Fprintf(&b, "Weighted analysis across %d specialist dimensions:\n", len(keys))

	for _, key := range keys {
		r := reports[key]
		fmt.Fprintf(&b, "- %s: %s (signal: %+.2f, confidence: %.0f%%)\n",
			key, classify(r.DirectionalSignal), r.DirectionalSignal, r.ConfidenceScore)
	}

	fmt.Fprintf(&b, "\nWeighted directional signal: %+.2f\n", weightedSignal)
	fmt.Fprintf(&b, "Average confidence: %.1f%%", avgConfidence)

	if d := Disagreement(reports); d > disagreementThreshold {
		fmt.Fprintf(&b, "\n\nNote: significant disagreement among analysts (signal stddev %.2f).", d)
	}

	return b.String()
}

func classify(directionalSignal float64) string {
	switch {
	case directionalSignal > buyThreshold:
		return "bullish"
	case directionalSignal < sellThreshold:
		return "bearish"
	default:
		return "neutral"
	}
}
