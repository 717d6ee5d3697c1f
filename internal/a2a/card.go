package a2a

import (
	"strategist/pkg/errors"
)

// CardPath is the well-known location every agent serves its card from.
const CardPath = "/.well-known/agent-card.json"

// Card describes an agent for discovery. Agents publish it at CardPath;
// orchestrator and registry fetch it to verify an endpoint actually hosts an
// agent before talking to it.
type Card struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Version     string  `json:"version,omitempty"`
	URL         string  `json:"url,omitempty"`
	Skills      []Skill `json:"skills"`
}

// Skill describes one capability advertised on an agent card.
type Skill struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Validate checks the minimum card contract: a name and at least one skill.
func (c Card) Validate() error {
	if c.Name == "" {
		return errors.Wrap(errors.ErrInvalidAgentCard, "card missing name")
	}
	if len(c.Skills) == 0 {
		return errors.Wrap(errors.ErrInvalidAgentCard, "card missing skills")
	}
	return nil
}
