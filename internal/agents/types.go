// Package agents defines the specialist analysts: their personas,
// structured output contract, and the service that turns a ticker into
// a signal report.
package agents

import (
	"strategist/internal/domain/signal"
)

// Specialist describes one analyst agent.
type Specialist struct {
	Key         signal.AgentKey
	Name        string
	Description string
	Prompt      string
	DefaultPort int
}

// Specialists returns the full analyst roster, ordered by default port.
func Specialists() []Specialist {
	return []Specialist{
		{
			Key:         signal.AgentFundamental,
			Name:        "fundamental_analyst",
			Description: "Expert fundamental analyst specializing in company valuation and financial statement analysis.",
			Prompt:      fundamentalPrompt,
			DefaultPort: 8001,
		},
		{
			Key:         signal.AgentTechnical,
			Name:        "technical_analyst",
			Description: "Expert technical analyst specializing in price action, chart patterns, and momentum indicators.",
			Prompt:      technicalPrompt,
			DefaultPort: 8002,
		},
		{
			Key:         signal.AgentSentiment,
			Name:        "sentiment_analyst",
			Description: "Expert news and sentiment analyst specializing in market sentiment and event impact analysis.",
			Prompt:      sentimentPrompt,
			DefaultPort: 8003,
		},
		{
			Key:         signal.AgentMacro,
			Name:        "macro_analyst",
			Description: "Expert macro-economic analyst specializing in how broader economic conditions affect stock markets.",
			Prompt:      macroPrompt,
			DefaultPort: 8004,
		},
		{
			Key:         signal.AgentRegulatory,
			Name:        "regulatory_analyst",
			Description: "Expert industry and regulatory analyst specializing in legal risks, compliance, and sector trends.",
			Prompt:      regulatoryPrompt,
			DefaultPort: 8005,
		},
	}
}

// SpecialistByKey looks up a specialist from the roster.
func SpecialistByKey(key signal.AgentKey) (Specialist, bool) {
	for _, s := range Specialists() {
		if s.Key == key {
			return s, true
		}
	}
	return Specialist{}, false
}
