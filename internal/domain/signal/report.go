package signal

import "encoding/json"

// AgentKey identifies a specialist analysis dimension. The set of keys is
// supplied by configuration; nothing in the synthesis path assumes a
// particular membership.
type AgentKey string

const (
	AgentFundamental AgentKey = "fundamental"
	AgentTechnical   AgentKey = "technical"
	AgentSentiment   AgentKey = "sentiment"
	AgentMacro       AgentKey = "macro"
	AgentRegulatory  AgentKey = "regulatory"
)

// String returns string representation
func (k AgentKey) String() string {
	return string(k)
}

// Signal domain bounds.
const (
	SignalMin     = -1.0
	SignalMax     = 1.0
	ConfidenceMin = 0.0
	ConfidenceMax = 100.0
)

// Report is the normalized output contract of one specialist analysis.
// DirectionalSignal is in [-1, +1] (-1 strong sell, +1 strong buy) and
// ConfidenceScore in [0, 100]. A non-empty Error marks the report as failed:
// it is excluded from weighting but retained for transparency.
type Report struct {
	AgentKey          AgentKey `json:"agent_key"`
	DirectionalSignal float64  `json:"directional_signal"`
	ConfidenceScore   float64  `json:"confidence_score"`
	Summary           string   `json:"summary,omitempty"`
	Error             string   `json:"error,omitempty"`
}

// Failed reports whether this report carries an error flag.
func (r Report) Failed() bool {
	return r.Error != ""
}

// Clamped returns a copy with the numeric fields forced into their declared
// domains. Out-of-range values are a contract violation by the producing
// agent; policy is to clamp to the nearest bound rather than reject.
func (r Report) Clamped() Report {
	r.DirectionalSignal = clamp(r.DirectionalSignal, SignalMin, SignalMax)
	r.ConfidenceScore = clamp(r.ConfidenceScore, ConfidenceMin, ConfidenceMax)
	return r
}

// ErrorReport builds a flagged report for an agent whose call failed. The
// numeric fields are neutral so accidental use cannot move an aggregate.
func ErrorReport(key AgentKey, errMsg string) Report {
	return Report{
		AgentKey: key,
		Error:    errMsg,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// MarshalSummary renders the report as compact JSON for prompt embedding and
// logs.
func (r Report) MarshalSummary() string {
	b, err := json.Marshal(r)
	if err != nil {
		return "{}"
	}
	return string(b)
}
