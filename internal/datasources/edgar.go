package datasources

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"strategist/pkg/errors"
)

const (
	edgarTickersURL     = "https://www.sec.gov/files/company_tickers.json"
	edgarSubmissionsURL = "https://data.sec.gov/submissions"
)

// EdgarClient reads company filings from SEC EDGAR. EDGAR needs no API
// key but requires a descriptive User-Agent with contact details.
type EdgarClient struct {
	client         *resty.Client
	tickersURL     string
	submissionsURL string
}

// NewEdgarClient creates an EDGAR client with the given User-Agent.
func NewEdgarClient(userAgent string) *EdgarClient {
	client := resty.New()
	client.SetTimeout(15 * time.Second)
	client.SetHeader("User-Agent", userAgent)

	return &EdgarClient{
		client:         client,
		tickersURL:     edgarTickersURL,
		submissionsURL: edgarSubmissionsURL,
	}
}

// Filing is a single EDGAR filing entry.
type Filing struct {
	Form            string `json:"form"`
	FilingDate      string `json:"filing_date"`
	AccessionNumber string `json:"accession_number"`
	PrimaryDocument string `json:"primary_document"`
}

// RecentFilings returns up to count filings of the given forms
// (e.g. 10-K, 10-Q, 8-K), newest first.
func (e *EdgarClient) RecentFilings(ctx context.Context, ticker string, forms []string, count int) ([]Filing, error) {
	cik, err := e.lookupCIK(ctx, ticker)
	if err != nil {
		return nil, err
	}

	resp, err := e.client.R().
		SetContext(ctx).
		Get(fmt.Sprintf("%s/CIK%s.json", e.submissionsURL, cik))
	if err != nil {
		return nil, errors.Wrapf(err, "edgar submissions for %s", ticker)
	}
	if resp.StatusCode() != 200 {
		return nil, errors.Newf("edgar API error %d", resp.StatusCode())
	}

	var body struct {
		Filings struct {
			Recent struct {
				Form            []string `json:"form"`
				FilingDate      []string `json:"filingDate"`
				AccessionNumber []string `json:"accessionNumber"`
				PrimaryDocument []string `json:"primaryDocument"`
			} `json:"recent"`
		} `json:"filings"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, errors.Wrap(err, "parse edgar response")
	}

	wanted := make(map[string]bool, len(forms))
	for _, form := range forms {
		wanted[strings.ToUpper(form)] = true
	}

	recent := body.Filings.Recent
	filings := make([]Filing, 0, count)
	for i := range recent.Form {
		if len(wanted) > 0 && !wanted[strings.ToUpper(recent.Form[i])] {
			continue
		}
		filing := Filing{Form: recent.Form[i]}
		if i < len(recent.FilingDate) {
			filing.FilingDate = recent.FilingDate[i]
		}
		if i < len(recent.AccessionNumber) {
			filing.AccessionNumber = recent.AccessionNumber[i]
		}
		if i < len(recent.PrimaryDocument) {
			filing.PrimaryDocument = recent.PrimaryDocument[i]
		}
		filings = append(filings, filing)
		if len(filings) >= count {
			break
		}
	}

	return filings, nil
}

// lookupCIK maps a ticker to its zero-padded 10-digit CIK.
func (e *EdgarClient) lookupCIK(ctx context.Context, ticker string) (string, error) {
	resp, err := e.client.R().
		SetContext(ctx).
		Get(e.tickersURL)
	if err != nil {
		return "", errors.Wrap(err, "edgar ticker mapping")
	}
	if resp.StatusCode() != 200 {
		return "", errors.Newf("edgar API error %d", resp.StatusCode())
	}

	var entries map[string]struct {
		CIK    int64  `json:"cik_str"`
		Ticker string `json:"ticker"`
	}
	if err := json.Unmarshal(resp.Body(), &entries); err != nil {
		return "", errors.Wrap(err, "parse ticker mapping")
	}

	upper := strings.ToUpper(ticker)
	for _, entry := range entries {
		if entry.Ticker == upper {
			return fmt.Sprintf("%010d", entry.CIK), nil
		}
	}

	return "", errors.Newf("no CIK found for ticker %s", ticker)
}
