package device

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientFetchPicksUptimeField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"uptime": 1234.5, "temperature": 41.0, "fw_version": "1.9.2", "rssi": -61}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	status, err := c.Fetch(context.Background())
	require.NoError(t, err)
	require.NotNil(t, status.UptimeSeconds)
	assert.Equal(t, 1234.5, *status.UptimeSeconds)
	require.NotNil(t, status.TemperatureC)
	assert.Equal(t, 41.0, *status.TemperatureC)
	assert.Equal(t, "1.9.2", status.FirmwareVer)
}

func TestClientFetchMissingUptime(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"rssi": -61}`))
	}))
	defer srv.Close()

	status, err := NewClient(srv.URL, time.Second).Fetch(context.Background())
	require.NoError(t, err)
	assert.Nil(t, status.UptimeSeconds)
}

func TestClientFetchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestClientFetchBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`uptime=99`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).Fetch(context.Background())
	assert.Error(t, err)
}
