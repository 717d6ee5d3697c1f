package agents

import "google.golang.org/genai"

func float64Ptr(v float64) *float64 {
	return &v
}

// ReportSchema constrains specialist output to the shared report shape.
// Gemini enforces it server-side; for OpenAI it documents the contract
// the prompt spells out.
var ReportSchema = &genai.Schema{
	Type: "OBJECT",
	Properties: map[string]*genai.Schema{
		"directional_signal": {
			Type:        "NUMBER",
			Description: "Trading signal: -1 (strong sell) to 1 (strong buy), 0 (neutral)",
			Minimum:     float64Ptr(-1),
			Maximum:     float64Ptr(1),
		},
		"confidence_score": {
			Type:        "NUMBER",
			Description: "Confidence in the analysis (0-100)",
			Minimum:     float64Ptr(0),
			Maximum:     float64Ptr(100),
		},
		"summary": {
			Type:        "STRING",
			Description: "2-4 sentences citing the specific metrics driving the signal",
		},
		"key_metrics": {
			Type:        "OBJECT",
			Description: "Key numerical metrics specific to this analysis",
		},
	},
	Required: []string{"directional_signal", "confidence_score", "summary"},
}
