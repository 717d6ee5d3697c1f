package main

import (
	"context"
	"flag"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-resty/resty/v2"

	"strategist/internal/a2a"
	"strategist/internal/adapters/ai"
	"strategist/internal/adapters/config"
	"strategist/internal/agents"
	"strategist/internal/datasources"
	"strategist/internal/tools"
	"strategist/pkg/logger"
)

const version = "0.1.0"

func main() {
	agentKey := flag.String("agent", "", "specialist to run (fundamental, technical, sentiment, macro, regulatory)")
	port := flag.Int("port", 0, "listen port (default: the specialist's standard port)")
	registryURL := flag.String("registry", "", "registry base URL to self-register with (optional)")
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

	specialist, ok := findSpecialist(*agentKey)
	if !ok {
		log.Fatalf("unknown agent %q, expected one of: %s", *agentKey, strings.Join(specialistKeys(), ", "))
	}
	if *port == 0 {
		*port = specialist.DefaultPort
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	providers, err := ai.NewRegistryFromConfig(ctx, cfg.AI, log)
	if err != nil {
		log.Fatalf("failed to set up AI providers: %v", err)
	}
	provider, err := ai.DefaultProvider(providers, cfg.AI)
	if err != nil {
		log.Fatalf("no usable AI provider: %v", err)
	}

	svc := agents.NewService(
		specialist,
		provider,
		buildToolset(specialist.Key.String(), cfg.DataSources, log),
		cfg.AI.Model,
		cfg.AI.Temperature,
		cfg.AI.MaxTokens,
		log,
	)

	card := a2a.Card{
		Name:        specialist.Name,
		Description: specialist.Description,
		Version:     version,
		URL:         fmt.Sprintf("http://localhost:%d", *port),
		Skills: []a2a.Skill{{
			ID:          specialist.Key.String() + "_analysis",
			Name:        specialist.Name,
			Description: specialist.Description,
		}},
	}

	if *registryURL != "" {
		go selfRegister(ctx, *registryURL, card, log)
	}

	log.Infof("Starting %s (%s provider, model %s) on :%d", specialist.Name, provider.Name(), cfg.AI.Model, *port)

	srv := a2a.NewServer(card, svc.Handle, log)
	if err := srv.Run(ctx, *port); err != nil {
		log.Fatalf("agent server error: %v", err)
	}
}

func findSpecialist(key string) (agents.Specialist, bool) {
	for _, specialist := range agents.Specialists() {
		if specialist.Key.String() == key {
			return specialist, true
		}
	}
	return agents.Specialist{}, false
}

func specialistKeys() []string {
	roster := agents.Specialists()
	keys := make([]string, 0, len(roster))
	for _, specialist := range roster {
		keys = append(keys, specialist.Key.String())
	}
	return keys
}

// buildToolset wires the market data tools each specialist consults. Tools
// whose API key is missing are skipped so the agent can still answer from
// the model's own knowledge.
func buildToolset(key string, cfg config.DataSourcesConfig, log *logger.Logger) []tools.Tool {
	var toolset []tools.Tool

	polygon := func() *datasources.PolygonClient {
		if cfg.PolygonAPIKey == "" {
			log.Warn("POLYGON_API_KEY not set, market data tools disabled")
			return nil
		}
		return datasources.NewPolygonClient(cfg.PolygonAPIKey)
	}

	switch key {
	case "fundamental":
		if client := polygon(); client != nil {
			toolset = append(toolset, tools.NewFundamentalsTool(client))
		}
	case "technical":
		if client := polygon(); client != nil {
			toolset = append(toolset, tools.NewIndicatorsTool(client))
		}
	case "sentiment":
		if cfg.NewsAPIKey == "" {
			log.Warn("NEWS_API_KEY not set, headlines tool disabled")
			break
		}
		toolset = append(toolset, tools.NewHeadlinesTool(datasources.NewNewsClient(cfg.NewsAPIKey)))
	case "macro":
		if cfg.FREDAPIKey == "" {
			log.Warn("FRED_API_KEY not set, macro snapshot tool disabled")
			break
		}
		toolset = append(toolset, tools.NewMacroSnapshotTool(datasources.NewFREDClient(cfg.FREDAPIKey)))
	case "regulatory":
		toolset = append(toolset, tools.NewFilingsTool(datasources.NewEdgarClient(cfg.EdgarUserAgent)))
	}

	return toolset
}

// selfRegister announces this agent to the registry once the server is up.
// The registry fetches the card back to verify it, so registration waits
// until the listener has had a moment to start.
func selfRegister(ctx context.Context, registryURL string, card a2a.Card, log *logger.Logger) {
	select {
	case <-time.After(time.Second):
	case <-ctx.Done():
		return
	}

	client := resty.New().
		SetBaseURL(strings.TrimSuffix(registryURL, "/")).
		SetTimeout(10 * time.Second)

	resp, err := client.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"name":           card.Name,
			"description":    card.Description,
			"agent_card_url": card.URL + a2a.CardPath,
			"category":       "analysis",
			"tags":           []string{"stocks", card.Name},
		}).
		Post("/agents/register")
	if err != nil {
		log.Warnf("registry registration failed: %v", err)
		return
	}
	if resp.IsError() {
		log.Warnf("registry rejected registration: %s %s", resp.Status(), resp.String())
		return
	}
	log.Infof("Registered with registry at %s", registryURL)
}
