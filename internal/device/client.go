// Package device talks to the monitored remote device and tracks its
// cumulative up-time across reboots.
package device

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultTimeout = 5 * time.Second

// Status is the slice of the device's telemetry payload this collector
// cares about. The device reports more fields; everything unknown is
// ignored and every known field is optional.
type Status struct {
	UptimeSeconds *float64 `json:"uptime"`
	TemperatureC  *float64 `json:"temperature"`
	FirmwareVer   string   `json:"fw_version"`
}

type Client struct {
	url string
	hc  *http.Client
}

func NewClient(url string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		url: url,
		hc:  &http.Client{Timeout: timeout},
	}
}

// Fetch retrieves the device status. Any transport or decode problem is an
// error for this one call only; callers skip the observation and retry on
// the next tick.
func (c *Client) Fetch(ctx context.Context) (Status, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return Status{}, fmt.Errorf("build device request: %w", err)
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return Status{}, fmt.Errorf("fetch device status: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Status{}, fmt.Errorf("device status: unexpected HTTP %d", resp.StatusCode)
	}
	var status Status
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return Status{}, fmt.Errorf("decode device status: %w", err)
	}
	return status, nil
}
