package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/pkordes/places-api/spec"
)

// healthPingTimeout bounds the database ping so a wedged pool cannot hang the probe.
const healthPingTimeout = 2 * time.Second

type healthData struct {
	Status      string `json:"status"`
	Database    string `json:"database"`
	Timestamp   string `json:"timestamp"`
	Environment string `json:"environment"`
	Version     string `json:"version"`
}

// getHealth handles GET /health.
// It returns 200 when the database answers a ping and 503 otherwise.
func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	data := healthData{
		Status:      "ok",
		Database:    "ok",
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Environment: s.env,
		Version:     Version,
	}

	if s.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
		defer cancel()
		if err := s.db.Ping(ctx); err != nil {
			s.logger.WarnContext(r.Context(), "health check: database unreachable", "error", err)
			data.Status = "degraded"
			data.Database = "unreachable"
			writeJSON(w, http.StatusServiceUnavailable, Envelope{Message: "Database unreachable", Data: data})
			return
		}
	}
	respondData(w, http.StatusOK, "API is running", data)
}

type apiInfo struct {
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

// getRoot handles GET /.
func (s *Server) getRoot(w http.ResponseWriter, _ *http.Request) {
	respondData(w, http.StatusOK, "Welcome to the Places API", apiInfo{
		Version: Version,
		Endpoints: map[string]string{
			"api":     "/api",
			"places":  "/api/places",
			"health":  "/health",
			"openapi": "/openapi.yaml",
		},
	})
}

// getAPIInfo handles GET /api.
func (s *Server) getAPIInfo(w http.ResponseWriter, _ *http.Request) {
	respondData(w, http.StatusOK, "Places API", apiInfo{
		Version: Version,
		Endpoints: map[string]string{
			"places":  "/api/places",
			"stats":   "/api/places/stats",
			"nearby":  "/api/places/nearby",
			"search":  "/api/places/search",
			"export":  "/api/places/export",
			"health":  "/health",
			"openapi": "/openapi.yaml",
		},
	})
}

// getOpenAPI handles GET /openapi.yaml.
func (s *Server) getOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(spec.OpenAPI)
}
