package httpserver

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
)

const maxPayloadBytes = 64 << 10

type locationRequest struct {
	Latitude  *float64 `json:"lat"`
	Longitude *float64 `json:"lon"`
}

type respondRequest struct {
	Greeting string          `json:"greeting"`
	Payload  json.RawMessage `json:"payload"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReportLocation(w http.ResponseWriter, r *http.Request) {
	var req locationRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxPayloadBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid location body")
		return
	}
	if req.Latitude == nil || req.Longitude == nil {
		writeError(w, http.StatusBadRequest, "lat and lon are required")
		return
	}
	s.tracker.ReportLocation(*req.Latitude, *req.Longitude)
	writeJSON(w, http.StatusAccepted, map[string]bool{"accepted": true})
}

// handleMonitorStart kicks off the monitoring handshake. The outcome may
// depend on an authorization prompt that resolves later (or never), so the
// request is acknowledged immediately and the callback result is logged.
func (s *Server) handleMonitorStart(w http.ResponseWriter, r *http.Request) {
	if !s.monitor.CanMonitor() {
		writeError(w, http.StatusServiceUnavailable, "region monitoring not supported")
		return
	}
	s.monitor.StartMonitoring(func(ok bool) {
		s.log.Infof("Monitor start request resolved, ok=%v.", ok)
	})
	writeJSON(w, http.StatusAccepted, map[string]bool{"accepted": true})
}

func (s *Server) handleMonitorStop(w http.ResponseWriter, r *http.Request) {
	s.monitor.StopMonitoring()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePresence(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{
		"monitoring": s.monitor.IsMonitoring(),
		"inRegion":   s.monitor.IsInRegion(),
	})
}

// handleInboundNotification accepts a delivered push payload. Malformed
// payloads are dropped inside the router per the error policy, so the
// endpoint acknowledges regardless.
func (s *Server) handleInboundNotification(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable body")
		return
	}
	s.state.HandleRemoteNotification(r.Context(), payload)
	writeJSON(w, http.StatusAccepted, map[string]bool{"accepted": true})
}

func (s *Server) handleRespond(w http.ResponseWriter, r *http.Request) {
	var req respondRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxPayloadBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid respond body")
		return
	}
	if req.Greeting == "" || len(req.Payload) == 0 {
		writeError(w, http.StatusBadRequest, "greeting and payload are required")
		return
	}
	s.state.RespondToNotification(r.Context(), req.Payload, req.Greeting)
	writeJSON(w, http.StatusAccepted, map[string]bool{"accepted": true})
}

func (s *Server) handleListCrossings(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusServiceUnavailable, "crossing history disabled")
		return
	}
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 500 {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 500")
			return
		}
		limit = parsed
	}
	records, err := s.history.ListRecent(r.Context(), limit)
	if err != nil {
		s.log.Errorf("Failed to list crossings: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list crossings")
		return
	}

	type crossingResponse struct {
		ID         string `json:"id"`
		Email      string `json:"email"`
		Entered    bool   `json:"entered"`
		OccurredAt string `json:"occurredAt"`
	}
	out := make([]crossingResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, crossingResponse{
			ID:         rec.ID.String(),
			Email:      rec.Email,
			Entered:    rec.Entered,
			OccurredAt: rec.OccurredAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"crossings": out})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
