package signal

// Recommendation is the final trading stance.
type Recommendation string

const (
	RecommendationBuy  Recommendation = "BUY"
	RecommendationHold Recommendation = "HOLD"
	RecommendationSell Recommendation = "SELL"
)

// String returns string representation
func (r Recommendation) String() string {
	return string(r)
}

// RiskLevel classifies how much the recommendation should be trusted.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// String returns string representation
func (r RiskLevel) String() string {
	return string(r)
}

// SynthesisResult is the aggregate of all specialist reports for one
// ticker/horizon request. WeightedSignal stays in [-1, +1] by construction
// (it is a convex combination of in-range inputs) and AverageConfidence in
// [0, 100]. Reports holds every input report keyed by agent, including
// error-flagged ones.
type SynthesisResult struct {
	WeightedSignal    float64             `json:"weighted_signal"`
	Recommendation    Recommendation      `json:"recommendation"`
	AverageConfidence float64             `json:"average_confidence"`
	RiskLevel         RiskLevel           `json:"risk_level"`
	Rationale         string              `json:"rationale"`
	Reports           map[AgentKey]Report `json:"per_agent_reports"`
}
