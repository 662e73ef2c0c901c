// Package market fetches spot prices for the dashboard's ticker strip. It is
// glue around a public REST API and holds no state of its own.
package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the coingecko simple-price endpoint.
	DefaultBaseURL = "https://api.coingecko.com/api/v3/simple/price"

	defaultTimeout = 10 * time.Second
)

// Coin pairs an API identifier with its display name.
type Coin struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
}

// Row is one ticker line: price and 24h change are nil when the upstream
// response lacks the coin.
type Row struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Price  *float64 `json:"price"`
	Change *float64 `json:"change"`
}

type Client struct {
	baseURL string
	coins   []Coin
	hc      *http.Client
}

func NewClient(baseURL string, coins []Coin, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		coins:   coins,
		hc:      &http.Client{Timeout: timeout},
	}
}

// Fetch returns one row per configured coin, in configuration order. A row
// for a coin the API did not answer for still appears, with nil price.
func (c *Client) Fetch(ctx context.Context) ([]Row, error) {
	ids := make([]string, len(c.coins))
	for i, coin := range c.coins {
		ids[i] = coin.ID
	}
	query := url.Values{
		"ids":                 {strings.Join(ids, ",")},
		"vs_currencies":       {"usd"},
		"include_24hr_change": {"true"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build price request: %w", err)
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch prices: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch prices: unexpected HTTP %d", resp.StatusCode)
	}

	var raw map[string]map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode prices: %w", err)
	}

	rows := make([]Row, 0, len(c.coins))
	for _, coin := range c.coins {
		row := Row{ID: coin.ID, Name: coin.Name}
		if payload, ok := raw[coin.ID]; ok {
			if price, ok := payload["usd"]; ok {
				v := price
				row.Price = &v
			}
			if change, ok := payload["usd_24h_change"]; ok {
				v := change
				row.Change = &v
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
