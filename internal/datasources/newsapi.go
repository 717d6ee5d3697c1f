package datasources

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"strategist/pkg/errors"
)

const newsAPIBaseURL = "https://newsapi.org/v2"

// NewsClient fetches recent headlines from NewsAPI.org.
type NewsClient struct {
	client *resty.Client
	apiKey string
}

// NewNewsClient creates a NewsAPI client.
func NewNewsClient(apiKey string) *NewsClient {
	client := resty.New()
	client.SetBaseURL(newsAPIBaseURL)
	client.SetTimeout(10 * time.Second)

	return &NewsClient{client: client, apiKey: apiKey}
}

// Article is a single news item.
type Article struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Source      string `json:"source"`
	PublishedAt string `json:"published_at"`
	URL         string `json:"url"`
}

// RecentHeadlines returns up to limit articles mentioning the ticker
// within the trailing window.
func (n *NewsClient) RecentHeadlines(ctx context.Context, ticker string, days, limit int) ([]Article, error) {
	if n.apiKey == "" {
		return nil, errors.New("news API key not configured")
	}

	from := time.Now().AddDate(0, 0, -days).Format("2006-01-02")

	resp, err := n.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":        fmt.Sprintf("%s stock", ticker),
			"from":     from,
			"sortBy":   "publishedAt",
			"language": "en",
			"pageSize": strconv.Itoa(limit),
			"apiKey":   n.apiKey,
		}).
		Get("/everything")
	if err != nil {
		return nil, errors.Wrapf(err, "news headlines for %s", ticker)
	}
	if resp.StatusCode() != 200 {
		return nil, errors.Newf("news API error %d: %s", resp.StatusCode(), resp.String())
	}

	var body struct {
		Status   string `json:"status"`
		Articles []struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			PublishedAt string `json:"publishedAt"`
			URL         string `json:"url"`
			Source      struct {
				Name string `json:"name"`
			} `json:"source"`
		} `json:"articles"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, errors.Wrap(err, "parse news response")
	}
	if body.Status != "ok" {
		return nil, errors.Newf("news API returned status %q", body.Status)
	}

	articles := make([]Article, 0, len(body.Articles))
	for _, item := range body.Articles {
		if item.Title == "" || item.Title == "[Removed]" {
			continue
		}
		articles = append(articles, Article{
			Title:       item.Title,
			Description: item.Description,
			Source:      item.Source.Name,
			PublishedAt: item.PublishedAt,
			URL:         item.URL,
		})
	}

	return articles, nil
}
