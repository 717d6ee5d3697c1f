package tools

import (
	"context"

	"github.com/dustin/go-humanize"

	"strategist/internal/datasources"
	"strategist/internal/indicators"
)

// NewFundamentalsTool returns company reference data plus the latest quote.
func NewFundamentalsTool(polygon *datasources.PolygonClient) Tool {
	return New(
		"get_fundamentals",
		"Company reference data: name, market cap, sector and the previous close",
		func(ctx context.Context, ticker string) (interface{}, error) {
			details, err := polygon.Details(ctx, ticker)
			if err != nil {
				return nil, err
			}

			out := map[string]interface{}{
				"name":            details.Name,
				"market_cap":      humanize.SIWithDigits(details.MarketCap, 2, ""),
				"sector":          details.Sector,
				"total_employees": details.TotalEmployees,
			}
			if quote, err := polygon.PreviousClose(ctx, ticker); err == nil {
				out["previous_close"] = quote.Close
				out["volume"] = humanize.Comma(int64(quote.Volume))
			}
			return out, nil
		},
	)
}

// NewIndicatorsTool computes the technical indicator summary over a year
// of daily closes.
func NewIndicatorsTool(polygon *datasources.PolygonClient) Tool {
	return New(
		"get_technical_indicators",
		"RSI, MACD, moving averages, Bollinger Bands and trend over daily closes",
		func(ctx context.Context, ticker string) (interface{}, error) {
			bars, err := polygon.DailyBars(ctx, ticker, 365)
			if err != nil {
				return nil, err
			}

			closes := make([]float64, len(bars))
			for i, bar := range bars {
				closes[i] = bar.Close
			}
			return indicators.Compute(closes)
		},
	)
}

// NewHeadlinesTool fetches the last week of news for the ticker.
func NewHeadlinesTool(news *datasources.NewsClient) Tool {
	return New(
		"get_recent_news",
		"Recent news headlines mentioning the ticker",
		func(ctx context.Context, ticker string) (interface{}, error) {
			return news.RecentHeadlines(ctx, ticker, 7, 20)
		},
	)
}

// NewMacroSnapshotTool fetches the macro indicator set. The ticker is
// ignored; macro context is market-wide.
func NewMacroSnapshotTool(fred *datasources.FREDClient) Tool {
	return New(
		"get_macro_indicators",
		"GDP growth, inflation, unemployment, rates and the market regime",
		func(ctx context.Context, _ string) (interface{}, error) {
			return fred.Snapshot(ctx)
		},
	)
}

// NewFilingsTool fetches recent 10-K/10-Q/8-K filings from EDGAR.
func NewFilingsTool(edgar *datasources.EdgarClient) Tool {
	return New(
		"get_sec_filings",
		"Recent SEC filings (10-K, 10-Q, 8-K) for the company",
		func(ctx context.Context, ticker string) (interface{}, error) {
			return edgar.RecentFilings(ctx, ticker, []string{"10-K", "10-Q", "8-K"}, 8)
		},
	)
}
