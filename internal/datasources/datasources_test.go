package datasources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolygonPreviousClose(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/aggs/ticker/GOOGL/prev", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("apiKey"))
		w.Write([]byte(`{"status":"OK","ticker":"GOOGL","results":[{"t":1700000000000,"o":135.2,"h":137.9,"l":134.8,"c":136.5,"v":21000000}]}`))
	}))
	defer ts.Close()

	p := NewPolygonClient("test-key")
	p.client.SetBaseURL(ts.URL)

	quote, err := p.PreviousClose(context.Background(), "GOOGL")
	require.NoError(t, err)
	assert.Equal(t, "GOOGL", quote.Ticker)
	assert.Equal(t, "136.5", quote.Close.String())
	assert.Equal(t, float64(21000000), quote.Volume)
}

func TestPolygonDailyBars(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"OK","results":[
			{"t":1699900000000,"o":133,"h":135,"l":132,"c":134,"v":1000},
			{"t":1700000000000,"o":134,"h":137,"l":133,"c":136,"v":1200}
		]}`))
	}))
	defer ts.Close()

	p := NewPolygonClient("test-key")
	p.client.SetBaseURL(ts.URL)

	bars, err := p.DailyBars(context.Background(), "GOOGL", 30)
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, 134.0, bars[0].Close)
	assert.Equal(t, 136.0, bars[1].Close)
	assert.NotEmpty(t, bars[0].Date)
}

func TestPolygonNoAPIKey(t *testing.T) {
	p := NewPolygonClient("")
	_, err := p.PreviousClose(context.Background(), "GOOGL")
	assert.Error(t, err)
}

func TestFREDLatestSkipsMissingValues(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "UNRATE", r.URL.Query().Get("series_id"))
		w.Write([]byte(`{"observations":[{"date":"2026-08-01","value":"."},{"date":"2026-07-01","value":"4.2"}]}`))
	}))
	defer ts.Close()

	f := NewFREDClient("test-key")
	f.client.SetBaseURL(ts.URL)

	obs, err := f.Latest(context.Background(), "UNRATE")
	require.NoError(t, err)
	assert.Equal(t, 4.2, obs.Value)
	assert.Equal(t, "2026-07-01", obs.Date)
}

func TestClassifyRegime(t *testing.T) {
	gdp := 2.8
	unemployment := 3.9
	assert.Equal(t, "expansion", classifyRegime(MacroSnapshot{GDPGrowth: &gdp, UnemploymentRate: &unemployment}))

	gdp = -0.5
	assert.Equal(t, "contraction", classifyRegime(MacroSnapshot{GDPGrowth: &gdp, UnemploymentRate: &unemployment}))

	gdp = 1.0
	unemployment = 5.5
	assert.Equal(t, "uncertain", classifyRegime(MacroSnapshot{GDPGrowth: &gdp, UnemploymentRate: &unemployment}))

	assert.Equal(t, "uncertain", classifyRegime(MacroSnapshot{}))
}

func TestNewsRecentHeadlinesFiltersRemoved(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok","articles":[
			{"title":"[Removed]","source":{"name":"x"}},
			{"title":"GOOGL beats earnings","description":"Strong quarter","publishedAt":"2026-08-28T10:00:00Z","url":"https://example.com/a","source":{"name":"Reuters"}}
		]}`))
	}))
	defer ts.Close()

	n := NewNewsClient("test-key")
	n.client.SetBaseURL(ts.URL)

	articles, err := n.RecentHeadlines(context.Background(), "GOOGL", 7, 10)
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "GOOGL beats earnings", articles[0].Title)
	assert.Equal(t, "Reuters", articles[0].Source)
}

func TestEdgarRecentFilings(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/company_tickers.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"0":{"cik_str":1652044,"ticker":"GOOGL","title":"Alphabet Inc."}}`))
	})
	mux.HandleFunc("/CIK0001652044.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"filings":{"recent":{
			"form":["8-K","10-Q","4","10-K"],
			"filingDate":["2026-08-01","2026-07-25","2026-07-10","2026-02-01"],
			"accessionNumber":["a1","a2","a3","a4"],
			"primaryDocument":["d1.htm","d2.htm","d3.htm","d4.htm"]
		}}}`))
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	e := NewEdgarClient("strategist-test test@example.com")
	e.tickersURL = ts.URL + "/company_tickers.json"
	e.submissionsURL = ts.URL

	filings, err := e.RecentFilings(context.Background(), "googl", []string{"10-K", "10-Q", "8-K"}, 5)
	require.NoError(t, err)
	require.Len(t, filings, 3)
	assert.Equal(t, "8-K", filings[0].Form)
	assert.Equal(t, "10-Q", filings[1].Form)
	assert.Equal(t, "10-K", filings[2].Form)
}

func TestEdgarUnknownTicker(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"0":{"cik_str":1652044,"ticker":"GOOGL"}}`))
	}))
	defer ts.Close()

	e := NewEdgarClient("strategist-test test@example.com")
	e.tickersURL = ts.URL
	e.submissionsURL = ts.URL

	_, err := e.RecentFilings(context.Background(), "ZZZZ", nil, 3)
	assert.Error(t, err)
}
