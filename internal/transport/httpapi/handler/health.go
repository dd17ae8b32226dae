package handler

import (
	"net/http"
	"time"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Ticker  string `json:"ticker,omitempty"`
	Uptime  string `json:"uptime,omitempty"`
}

var startTime = time.Now()

// Version is reported by the health endpoint
var Version = "1.0.0"

// HealthHandler handles health check requests
type HealthHandler struct {
	ticker string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(ticker string) *HealthHandler {
	return &HealthHandler{ticker: ticker}
}

// GetHealth handles GET /health
// Reports that the process is up; it does not call the upstream indexer.
func (h *HealthHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: Version,
		Ticker:  h.ticker,
		Uptime:  time.Since(startTime).Round(time.Second).String(),
	})
}

// GetLiveness handles GET /health/live
func GetLiveness(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}
