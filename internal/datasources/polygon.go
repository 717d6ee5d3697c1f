// Package datasources holds thin clients for the external market-data
// APIs the specialists draw on. Every client degrades to an error the
// caller folds into its report; none of them are load-bearing for the
// pipeline itself.
package datasources

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"strategist/pkg/errors"
)

const polygonBaseURL = "https://api.polygon.io"

// PolygonClient fetches quotes, daily bars and ticker reference data
// from Polygon.io.
type PolygonClient struct {
	client *resty.Client
	apiKey string
}

// NewPolygonClient creates a Polygon.io client.
func NewPolygonClient(apiKey string) *PolygonClient {
	client := resty.New()
	client.SetBaseURL(polygonBaseURL)
	client.SetTimeout(15 * time.Second)

	return &PolygonClient{client: client, apiKey: apiKey}
}

// Quote is the previous trading day's OHLCV for a ticker.
type Quote struct {
	Ticker string          `json:"ticker"`
	Open   decimal.Decimal `json:"open"`
	High   decimal.Decimal `json:"high"`
	Low    decimal.Decimal `json:"low"`
	Close  decimal.Decimal `json:"close"`
	Volume float64         `json:"volume"`
}

// Bar is a single daily aggregate.
type Bar struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// TickerDetails carries company reference data.
type TickerDetails struct {
	Ticker         string  `json:"ticker"`
	Name           string  `json:"name"`
	MarketCap      float64 `json:"market_cap"`
	Sector         string  `json:"sector"`
	Description    string  `json:"description"`
	TotalEmployees int     `json:"total_employees"`
}

type polygonAggsResponse struct {
	Status  string `json:"status"`
	Ticker  string `json:"ticker"`
	Results []struct {
		T int64   `json:"t"`
		O float64 `json:"o"`
		H float64 `json:"h"`
		L float64 `json:"l"`
		C float64 `json:"c"`
		V float64 `json:"v"`
	} `json:"results"`
}

// PreviousClose returns the last completed trading day's quote.
func (p *PolygonClient) PreviousClose(ctx context.Context, ticker string) (Quote, error) {
	if p.apiKey == "" {
		return Quote{}, errors.New("polygon API key not configured")
	}

	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{"apiKey": p.apiKey, "adjusted": "true"}).
		Get(fmt.Sprintf("/v2/aggs/ticker/%s/prev", ticker))
	if err != nil {
		return Quote{}, errors.Wrapf(err, "polygon previous close for %s", ticker)
	}
	if resp.StatusCode() != 200 {
		return Quote{}, errors.Newf("polygon API error %d: %s", resp.StatusCode(), resp.String())
	}

	var aggs polygonAggsResponse
	if err := json.Unmarshal(resp.Body(), &aggs); err != nil {
		return Quote{}, errors.Wrap(err, "parse polygon response")
	}
	if len(aggs.Results) == 0 {
		return Quote{}, errors.Newf("no quote data for %s", ticker)
	}

	bar := aggs.Results[0]
	return Quote{
		Ticker: ticker,
		Open:   decimal.NewFromFloat(bar.O),
		High:   decimal.NewFromFloat(bar.H),
		Low:    decimal.NewFromFloat(bar.L),
		Close:  decimal.NewFromFloat(bar.C),
		Volume: bar.V,
	}, nil
}

// DailyBars returns daily aggregates for the trailing window.
func (p *PolygonClient) DailyBars(ctx context.Context, ticker string, days int) ([]Bar, error) {
	if p.apiKey == "" {
		return nil, errors.New("polygon API key not configured")
	}

	end := time.Now()
	start := end.AddDate(0, 0, -days)

	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"apiKey":   p.apiKey,
			"adjusted": "true",
			"sort":     "asc",
		}).
		Get(fmt.Sprintf("/v2/aggs/ticker/%s/range/1/day/%s/%s",
			ticker, start.Format("2006-01-02"), end.Format("2006-01-02")))
	if err != nil {
		return nil, errors.Wrapf(err, "polygon daily bars for %s", ticker)
	}
	if resp.StatusCode() != 200 {
		return nil, errors.Newf("polygon API error %d: %s", resp.StatusCode(), resp.String())
	}

	var aggs polygonAggsResponse
	if err := json.Unmarshal(resp.Body(), &aggs); err != nil {
		return nil, errors.Wrap(err, "parse polygon response")
	}
	if len(aggs.Results) == 0 {
		return nil, errors.Newf("no price history for %s", ticker)
	}

	bars := make([]Bar, 0, len(aggs.Results))
	for _, r := range aggs.Results {
		bars = append(bars, Bar{
			Date:   time.UnixMilli(r.T).Format("2006-01-02"),
			Open:   r.O,
			High:   r.H,
			Low:    r.L,
			Close:  r.C,
			Volume: r.V,
		})
	}

	return bars, nil
}

// Details returns reference data for a ticker.
func (p *PolygonClient) Details(ctx context.Context, ticker string) (TickerDetails, error) {
	if p.apiKey == "" {
		return TickerDetails{}, errors.New("polygon API key not configured")
	}

	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParam("apiKey", p.apiKey).
		Get(fmt.Sprintf("/v3/reference/tickers/%s", ticker))
	if err != nil {
		return TickerDetails{}, errors.Wrapf(err, "polygon details for %s", ticker)
	}
	if resp.StatusCode() != 200 {
		return TickerDetails{}, errors.Newf("polygon API error %d: %s", resp.StatusCode(), resp.String())
	}

	var body struct {
		Status  string `json:"status"`
		Results struct {
			Name           string  `json:"name"`
			MarketCap      float64 `json:"market_cap"`
			SICDescription string  `json:"sic_description"`
			Description    string  `json:"description"`
			TotalEmployees int     `json:"total_employees"`
		} `json:"results"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return TickerDetails{}, errors.Wrap(err, "parse polygon response")
	}

	return TickerDetails{
		Ticker:         ticker,
		Name:           body.Results.Name,
		MarketCap:      body.Results.MarketCap,
		Sector:         body.Results.SICDescription,
		Description:    body.Results.Description,
		TotalEmployees: body.Results.TotalEmployees,
	}, nil
}
