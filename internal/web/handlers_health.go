package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/JonMunkholm/genesis/internal/core"
)

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status   string                  `json:"status"`
	Database string                  `json:"database"`
	Parses   core.ParseLimiterStatus `json:"parses"`
}

// handleHealth reports liveness, database reachability and parse slots.
// An unreachable database makes the service degraded (503) since stored
// table routes will fail.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:   "ok",
		Database: "disabled",
		Parses:   s.limiter.Status(),
	}

	if s.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := s.db.Ping(ctx); err != nil {
			resp.Status = "degraded"
			resp.Database = "unreachable"
			render.Status(r, http.StatusServiceUnavailable)
		} else {
			resp.Database = "ok"
		}
	}

	render.JSON(w, r, resp)
}
