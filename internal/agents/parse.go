package agents

import (
	"encoding/json"
	"strings"

	"strategist/pkg/errors"
)

// ParsedSignal is the usable core extracted from a specialist response.
type ParsedSignal struct {
	DirectionalSignal float64
	ConfidenceScore   float64
	Summary           string
}

type rawReport struct {
	DirectionalSignal *float64 `json:"directional_signal"`
	ConfidenceScore   *float64 `json:"confidence_score"`
	Summary           string   `json:"summary"`
}

// ParseReport extracts a signal from a specialist's response text. The
// text must contain a JSON object; fenced code blocks and surrounding
// prose are tolerated. A field the model omitted defaults to zero, but
// text with no JSON object at all is a parse failure, not a neutral
// signal.
func ParseReport(raw string) (ParsedSignal, error) {
	payload := extractJSON(raw)
	if payload == "" {
		return ParsedSignal{}, errors.Wrapf(errors.ErrMalformedReport, "no JSON object in response: %.80q", raw)
	}

	var report rawReport
	if err := json.Unmarshal([]byte(payload), &report); err != nil {
		return ParsedSignal{}, errors.Wrapf(errors.ErrMalformedReport, "decode response: %v", err)
	}

	parsed := ParsedSignal{Summary: report.Summary}
	if report.DirectionalSignal != nil {
		parsed.DirectionalSignal = *report.DirectionalSignal
	}
	if report.ConfidenceScore != nil {
		parsed.ConfidenceScore = *report.ConfidenceScore
	}

	return parsed, nil
}

// extractJSON returns the outermost JSON object embedded in text, or ""
// when none is found. Handles bare JSON, ```json fences, and prose
// around the object.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)

	if fenced, ok := stripFence(text); ok {
		text = fenced
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}

func stripFence(text string) (string, bool) {
	if !strings.HasPrefix(text, "```") {
		return "", false
	}
	body := strings.TrimPrefix(text, "```json")
	body = strings.TrimPrefix(body, "```")
	if idx := strings.LastIndex(body, "```"); idx >= 0 {
		body = body[:idx]
	}
	return strings.TrimSpace(body), true
}
