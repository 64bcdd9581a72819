package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/jobrunner/altus/internal/domain"
	"github.com/jobrunner/altus/internal/geojson"
)

// maxRequestBody caps the accepted GeoJSON payload size.
const maxRequestBody = 10 << 20 // 10 MiB

// handleGenerate accepts a GeoJSON polygon and runs the contour
// pipeline. Spacing and level count can be tuned per request via query
// parameters; omitted parameters fall back to the configured defaults.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	polygon, err := geojson.DecodePolygon(body)
	if err != nil {
		s.handlePipelineError(w, err)
		return
	}

	req := domain.GenerateRequest{
		Polygon: polygon,
		Source:  "api",
	}

	q := r.URL.Query()
	if spacing := q.Get("spacing"); spacing != "" {
		v, err := strconv.ParseFloat(spacing, 64)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid spacing parameter")
			return
		}
		req.Spacing = v
	}
	if levels := q.Get("levels"); levels != "" {
		v, err := strconv.Atoi(levels)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid levels parameter")
			return
		}
		req.Levels = v
	}

	run, err := s.generator.Generate(r.Context(), req)
	if err != nil {
		s.handlePipelineError(w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, run)
}

// handleGetRun returns the metadata of a cached run.
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	runID := vars["runId"]

	run, err := s.generator.GetRun(r.Context(), runID)
	if err != nil {
		s.handlePipelineError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, run)
}

// handleDownload streams the encoded drawing of a cached run.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	runID := vars["runId"]

	artifact, err := s.generator.Artifact(r.Context(), runID)
	if err != nil {
		s.handlePipelineError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/dxf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", runID+".dxf"))
	w.Header().Set("Content-Length", strconv.Itoa(len(artifact)))
	_, _ = w.Write(artifact)
}

// handleUpload pushes a cached run's drawing to object storage.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	runID := vars["runId"]

	key, err := s.uploader.Upload(r.Context(), runID)
	if err != nil {
		s.handlePipelineError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"run_id": runID,
		"key":    key,
	})
}

// handleListRuns returns the run history, newest first.
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			s.writeError(w, http.StatusBadRequest, "invalid limit parameter")
			return
		}
		limit = v
	}

	runs, err := s.history.RecentRuns(r.Context(), limit)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Failed to list runs")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"runs":  runs,
		"count": len(runs),
	})
}

// handleHealth returns detailed health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	details := s.health.GetHealthDetails(r.Context())

	status := http.StatusOK
	if !details.Healthy {
		status = http.StatusServiceUnavailable
	}

	s.writeJSON(w, status, map[string]interface{}{
		"status":      boolToStatus(details.Healthy),
		"ready":       details.Ready,
		"cached_runs": details.CachedRuns,
		"components":  details.Components,
	})
}

// handleLiveness returns liveness status.
func (s *Server) handleLiveness(w http.ResponseWriter, r *http.Request) {
	if s.health.IsHealthy(r.Context()) {
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	} else {
		s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
	}
}

// handleReadiness returns readiness status.
func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	if s.health.IsReady(r.Context()) {
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	} else {
		s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
	}
}

// handleOpenAPI returns the OpenAPI specification.
func (s *Server) handleOpenAPI(w http.ResponseWriter, _ *http.Request) {
	spec, err := getOpenAPIJSON()
	if err != nil {
		s.logger.Error("failed to get OpenAPI spec", "error", err)
		s.writeError(w, http.StatusInternalServerError, "Failed to load OpenAPI specification")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(spec)
}

// handlePipelineError maps pipeline errors to HTTP status codes.
func (s *Server) handlePipelineError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		s.writeError(w, http.StatusBadRequest, validationErr.Message)
		return
	}

	if errors.Is(err, domain.ErrInvalidPolygon) {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if errors.Is(err, domain.ErrRunNotFound) {
		s.writeError(w, http.StatusNotFound, "Run not found")
		return
	}

	var matrixErr *domain.MatrixError
	if errors.As(err, &matrixErr) {
		s.writeError(w, http.StatusUnprocessableEntity, "Elevation data could not be resolved for the requested area")
		return
	}

	var storageErr *domain.StorageError
	if errors.As(err, &storageErr) {
		s.logger.Error("storage error", "error", err)
		if errors.Is(err, domain.ErrBucketNotFound) {
			s.writeError(w, http.StatusBadGateway, fmt.Sprintf(
				"Upload failed: %v. Verify the bucket or container exists and matches the storage configuration.",
				storageErr.Err))
			return
		}
		s.writeError(w, http.StatusBadGateway, "Storage operation failed")
		return
	}

	s.logger.Error("pipeline error", "error", err)
	s.writeError(w, http.StatusInternalServerError, "Contour generation failed")
}

// writeJSON writes a JSON response.
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]interface{}{
		"error":   http.StatusText(status),
		"message": message,
	})
}

func boolToStatus(b bool) string {
	if b {
		return "ok"
	}
	return "unhealthy"
}
