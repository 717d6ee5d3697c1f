package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"strategist/internal/adapters/ai"
	"strategist/internal/tools"
	"strategist/pkg/errors"
	"strategist/pkg/logger"
)

// Service runs one specialist: gather tool context, prompt the model,
// validate the response.
type Service struct {
	specialist  Specialist
	provider    ai.ChatProvider
	toolset     []tools.Tool
	model       string
	temperature float64
	maxTokens   int
	log         *logger.Logger
}

// NewService builds a specialist service around a chat provider.
func NewService(specialist Specialist, provider ai.ChatProvider, toolset []tools.Tool, model string, temperature float64, maxTokens int, log *logger.Logger) *Service {
	return &Service{
		specialist:  specialist,
		provider:    provider,
		toolset:     toolset,
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
		log:         log,
	}
}

// Specialist returns the analyst this service runs.
func (s *Service) Specialist() Specialist { return s.specialist }

// Analyze produces the specialist's JSON report text for a ticker. The
// response is validated before it is returned, so callers always get
// parseable report JSON or an error.
func (s *Service) Analyze(ctx context.Context, ticker string) (string, error) {
	toolContext := tools.Run(ctx, ticker, s.toolset)
	contextJSON, err := json.MarshalIndent(toolContext, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "marshal tool context")
	}

	s.log.Debugf("%s: gathered %d tool results for %s", s.specialist.Name, len(toolContext), ticker)

	resp, err := s.provider.Chat(ctx, ai.ChatRequest{
		Model: s.model,
		Messages: []ai.Message{
			{Role: ai.RoleSystem, Content: s.specialist.Prompt},
			{Role: ai.RoleUser, Content: fmt.Sprintf("Analyze ticker %s.\n\nMARKET DATA:\n%s", ticker, contextJSON)},
		},
		Temperature:    s.temperature,
		MaxTokens:      s.maxTokens,
		ResponseSchema: ReportSchema,
	})
	if err != nil {
		return "", errors.Wrapf(err, "%s analysis for %s", s.specialist.Name, ticker)
	}

	if _, err := ParseReport(resp.Content); err != nil {
		return "", errors.Wrapf(err, "%s returned unusable report for %s", s.specialist.Name, ticker)
	}

	return resp.Content, nil
}

// Handle is the A2A invoke handler: extract the ticker from the request
// message and run the analysis.
func (s *Service) Handle(ctx context.Context, message string) (string, error) {
	ticker, err := ExtractTicker(message)
	if err != nil {
		return "", err
	}
	return s.Analyze(ctx, ticker)
}

var tickerPattern = regexp.MustCompile(`\b[A-Z]{1,5}\b`)

// Words that look like tickers but show up in normal request prose.
var tickerStopwords = map[string]bool{
	"A": true, "I": true, "AND": true, "FOR": true, "THE": true,
	"BUY": true, "SELL": true, "HOLD": true, "STOCK": true, "OVER": true,
}

// ExtractTicker pulls the first ticker-shaped token out of the message.
func ExtractTicker(message string) (string, error) {
	for _, candidate := range tickerPattern.FindAllString(message, -1) {
		if !tickerStopwords[strings.ToUpper(candidate)] {
			return candidate, nil
		}
	}
	return "", errors.Newf("no ticker symbol found in request %q", message)
}
