package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/MDTrapaglia/status-page/internal/device"
	"github.com/MDTrapaglia/status-page/internal/format"
	"github.com/MDTrapaglia/status-page/internal/history"
	"github.com/MDTrapaglia/status-page/internal/host"
	"github.com/MDTrapaglia/status-page/internal/market"
)

type sessionPayload struct {
	CurrentSeconds float64 `json:"current_seconds"`
	TotalSeconds   float64 `json:"total_seconds"`
	CurrentHuman   string  `json:"current_human"`
	TotalHuman     string  `json:"total_human"`
}

type pricesResponse struct {
	Data      []market.Row `json:"data"`
	UpdatedAt string       `json:"updated_at"`
}

// dashboardResponse composes every independent sub-fetch. Failed sections
// stay null, the error strings are joined, and the status becomes 207.
type dashboardResponse struct {
	Prices    []market.Row    `json:"prices"`
	Device    *device.Status  `json:"device"`
	Session   *sessionPayload `json:"session"`
	Metrics   history.Series  `json:"metrics"`
	UpdatedAt string          `json:"updated_at"`
	Error     string          `json:"error,omitempty"`
}

type hostResponse struct {
	host.Inventory
	MemoryTotalHuman string `json:"memoryTotalHuman"`
	UptimeHuman      string `json:"uptimeHuman"`
}

func (s *Server) addRoutes() {
	s.addIndexRoute()
	s.r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	s.r.Get("/api/metrics/recent", s.handleRecent)
	s.r.Get("/api/metrics/history", s.handleHistory)
	s.r.Get("/api/session", s.handleSession)
	s.r.Get("/api/prices", s.handlePrices)
	s.r.Get("/api/dashboard", s.handleDashboard)
	s.r.Get("/api/host", s.handleHost)
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	if s.seeder != nil {
		s.seeder.SeedIfEmpty()
	}
	writeJSON(w, http.StatusOK, history.BuildSeries(s.store.SnapshotRecent()))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, history.BuildSeries(s.store.SnapshotFull(s.maxPoints)))
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	resp := struct {
		Session *sessionPayload `json:"session"`
	}{Session: s.sessionPayload()}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePrices(w http.ResponseWriter, r *http.Request) {
	if s.prices == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "prices not configured"})
		return
	}
	rows, err := s.prices.Fetch(r.Context())
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, pricesResponse{
		Data:      rows,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if s.seeder != nil {
		s.seeder.SeedIfEmpty()
	}

	resp := dashboardResponse{
		Metrics:   history.BuildSeries(s.store.SnapshotRecent()),
		Session:   s.sessionPayload(),
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	var mu sync.Mutex
	var errs []string
	var wg sync.WaitGroup

	if s.prices != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rows, err := s.prices.Fetch(r.Context())
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, "prices: "+err.Error())
				return
			}
			resp.Prices = rows
		}()
	}
	if s.device != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			status, err := s.device.Fetch(r.Context())
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, "device: "+err.Error())
				return
			}
			resp.Device = &status
		}()
	}
	wg.Wait()

	code := http.StatusOK
	if len(errs) > 0 {
		resp.Error = strings.Join(errs, "; ")
		code = http.StatusMultiStatus
	}
	writeJSON(w, code, resp)
}

func (s *Server) handleHost(w http.ResponseWriter, r *http.Request) {
	inv := host.ReadInventory()
	writeJSON(w, http.StatusOK, hostResponse{
		Inventory:        inv,
		MemoryTotalHuman: format.Bytes(inv.MemoryTotal),
		UptimeHuman:      format.Duration(float64(inv.UptimeSec)),
	})
}

func (s *Server) sessionPayload() *sessionPayload {
	if s.session == nil {
		return nil
	}
	totals, ok := s.session.Totals()
	if !ok {
		return nil
	}
	return &sessionPayload{
		CurrentSeconds: totals.CurrentSeconds,
		TotalSeconds:   totals.TotalSeconds,
		CurrentHuman:   format.Duration(totals.CurrentSeconds),
		TotalHuman:     format.Duration(totals.TotalSeconds),
	}
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
