package datasources

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"strategist/pkg/errors"
)

const fredBaseURL = "https://api.stlouisfed.org/fred"

// FRED series IDs for the macro snapshot.
const (
	SeriesGDPGrowth    = "A191RL1Q225SBEA"
	SeriesCPI          = "CPIAUCSL"
	SeriesUnemployment = "UNRATE"
	SeriesFedFunds     = "DFF"
	SeriesTreasury10Y  = "DGS10"
)

// FREDClient reads economic series observations from the St. Louis Fed.
type FREDClient struct {
	client *resty.Client
	apiKey string
}

// NewFREDClient creates a FRED API client.
func NewFREDClient(apiKey string) *FREDClient {
	client := resty.New()
	client.SetBaseURL(fredBaseURL)
	client.SetTimeout(15 * time.Second)

	return &FREDClient{client: client, apiKey: apiKey}
}

// Observation is a single dated series value.
type Observation struct {
	SeriesID string  `json:"series_id"`
	Date     string  `json:"date"`
	Value    float64 `json:"value"`
}

// MacroSnapshot bundles the indicators the macro specialist reasons over.
type MacroSnapshot struct {
	GDPGrowth        *float64 `json:"gdp_growth,omitempty"`
	InflationRate    *float64 `json:"inflation_rate,omitempty"`
	UnemploymentRate *float64 `json:"unemployment_rate,omitempty"`
	FedFundsRate     *float64 `json:"fed_funds_rate,omitempty"`
	TenYearTreasury  *float64 `json:"ten_year_treasury,omitempty"`
	MarketRegime     string   `json:"market_regime"`
}

// Latest returns the most recent observation for a series.
func (f *FREDClient) Latest(ctx context.Context, seriesID string) (Observation, error) {
	obs, err := f.observations(ctx, seriesID, 1)
	if err != nil {
		return Observation{}, err
	}
	return obs[0], nil
}

// Snapshot fetches the macro indicator set. Individual series failures
// leave their field nil rather than failing the whole snapshot; the
// inflation rate is the YoY change in CPI.
func (f *FREDClient) Snapshot(ctx context.Context) (MacroSnapshot, error) {
	if f.apiKey == "" {
		return MacroSnapshot{}, errors.New("FRED API key not configured")
	}

	snap := MacroSnapshot{}
	if obs, err := f.Latest(ctx, SeriesGDPGrowth); err == nil {
		snap.GDPGrowth = &obs.Value
	}
	if obs, err := f.Latest(ctx, SeriesUnemployment); err == nil {
		snap.UnemploymentRate = &obs.Value
	}
	if obs, err := f.Latest(ctx, SeriesFedFunds); err == nil {
		snap.FedFundsRate = &obs.Value
	}
	if obs, err := f.Latest(ctx, SeriesTreasury10Y); err == nil {
		snap.TenYearTreasury = &obs.Value
	}
	if rate, err := f.inflationYoY(ctx); err == nil {
		snap.InflationRate = &rate
	}

	snap.MarketRegime = classifyRegime(snap)
	return snap, nil
}

func (f *FREDClient) inflationYoY(ctx context.Context) (float64, error) {
	// 13 monthly observations cover a full year of CPI.
	obs, err := f.observations(ctx, SeriesCPI, 13)
	if err != nil {
		return 0, err
	}
	if len(obs) < 13 {
		return 0, errors.New("not enough CPI observations")
	}

	latest := obs[0].Value
	yearAgo := obs[len(obs)-1].Value
	if yearAgo == 0 {
		return 0, errors.New("zero CPI base value")
	}
	return (latest - yearAgo) / yearAgo * 100, nil
}

func (f *FREDClient) observations(ctx context.Context, seriesID string, limit int) ([]Observation, error) {
	if f.apiKey == "" {
		return nil, errors.New("FRED API key not configured")
	}

	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"series_id":  seriesID,
			"api_key":    f.apiKey,
			"file_type":  "json",
			"sort_order": "desc",
			"limit":      strconv.Itoa(limit),
		}).
		Get("/series/observations")
	if err != nil {
		return nil, errors.Wrapf(err, "fred observations for %s", seriesID)
	}
	if resp.StatusCode() != 200 {
		return nil, errors.Newf("fred API error %d: %s", resp.StatusCode(), resp.String())
	}

	var body struct {
		Observations []struct {
			Date  string `json:"date"`
			Value string `json:"value"`
		} `json:"observations"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, errors.Wrap(err, "parse fred response")
	}

	out := make([]Observation, 0, len(body.Observations))
	for _, o := range body.Observations {
		// Missing data points come back as "."
		value, err := strconv.ParseFloat(o.Value, 64)
		if err != nil {
			continue
		}
		out = append(out, Observation{SeriesID: seriesID, Date: o.Date, Value: value})
	}
	if len(out) == 0 {
		return nil, errors.Newf("no observations for %s", seriesID)
	}

	return out, nil
}

// classifyRegime applies a simple rule over growth and unemployment.
func classifyRegime(snap MacroSnapshot) string {
	if snap.GDPGrowth == nil || snap.UnemploymentRate == nil {
		return "uncertain"
	}
	switch {
	case *snap.GDPGrowth > 2 && *snap.UnemploymentRate < 5:
		return "expansion"
	case *snap.GDPGrowth < 0 || *snap.UnemploymentRate > 7:
		return "contraction"
	default:
		return "uncertain"
	}
}
