// Package http exposes a Canopy host over a JSON HTTP API.
package http

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arvel0/canopy"
	"github.com/arvel0/canopy/internal/logging"
	"github.com/arvel0/canopy/pkg/claude"
	"github.com/arvel0/canopy/pkg/domain"
	"github.com/arvel0/canopy/pkg/schema"
)

// Server serves the node catalog, invocations, and stored results.
type Server struct {
	host    *canopy.Host
	logger  *slog.Logger
	metrics *Metrics
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithMetrics attaches a metrics set and serves it on /metrics.
func WithMetrics(m *Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// NewHandler builds the HTTP handler for a host.
func NewHandler(host *canopy.Host, opts ...Option) http.Handler {
	s := &Server{host: host}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}

	r := chi.NewRouter()
	r.Get("/healthz", s.health)
	r.Get("/nodes", s.listNodes)
	r.Get("/nodes/{name}", s.getNode)
	r.Post("/nodes/{name}/invoke", s.invoke)
	r.Get("/models", s.listModels)
	r.Get("/results", s.listResults)
	r.Get("/results/{id}", s.getResult)
	r.Delete("/results/{id}", s.deleteResult)
	if s.metrics != nil {
		r.Get("/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}).ServeHTTP)
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": canopy.Version,
	})
}

func (s *Server) listNodes(w http.ResponseWriter, r *http.Request) {
	manifests, err := s.host.Nodes()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"nodes": manifests})
}

func (s *Server) getNode(w http.ResponseWriter, r *http.Request) {
	manifest, err := s.host.Node(chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, manifest)
}

type invokeRequest struct {
	Inputs map[string]any `json:"inputs"`
}

// imagePayload is the wire form of an image input.
type imagePayload struct {
	Data      string `json:"data"`
	MediaType string `json:"media_type"`
}

func (s *Server) invoke(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var req invokeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid request body: "+err.Error()))
		return
	}

	manifest, err := s.host.Node(name)
	if err != nil {
		s.writeError(w, err)
		return
	}

	inputs, err := decodeImages(manifest, req.Inputs)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	result, err := s.host.Invoke(r.Context(), name, inputs)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.logger.Info("node invoked", "node", name, "invocation_id", result.InvocationID, "model", result.Model)
	writeJSON(w, http.StatusOK, result)
}

// decodeImages rewrites wire image payloads into domain images for every
// input the node declares as an image. Other values pass through untouched.
func decodeImages(manifest canopy.NodeManifest, inputs map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(inputs))
	for k, v := range inputs {
		out[k] = v
	}
	for _, field := range manifest.Inputs {
		if field.Type != "image" {
			continue
		}
		raw, ok := out[field.Name]
		if !ok {
			continue
		}
		obj, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("input %q: expected an image object with base64 data", field.Name)
		}
		var payload imagePayload
		if data, ok := obj["data"].(string); ok {
			payload.Data = data
		}
		if mt, ok := obj["media_type"].(string); ok {
			payload.MediaType = mt
		}
		decoded, err := base64.StdEncoding.DecodeString(payload.Data)
		if err != nil {
			return nil, fmt.Errorf("input %q: invalid base64 image data: %w", field.Name, err)
		}
		if payload.MediaType == "" {
			payload.MediaType = domain.SniffMediaType(decoded)
		}
		img, err := domain.NewImage(decoded, payload.MediaType)
		if err != nil {
			return nil, fmt.Errorf("input %q: %w", field.Name, err)
		}
		out[field.Name] = img
	}
	return out, nil
}

func (s *Server) listModels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"models":  claude.Models,
		"default": claude.DefaultVisionModel,
	})
}

func (s *Server) listResults(w http.ResponseWriter, r *http.Request) {
	ids, err := s.host.Store().List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ids": ids})
}

func (s *Server) getResult(w http.ResponseWriter, r *http.Request) {
	result, err := s.host.Store().Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) deleteResult(w http.ResponseWriter, r *http.Request) {
	if err := s.host.Store().Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeError maps host errors onto HTTP statuses. Model API failures keep
// their upstream status details so the host can act on overload or auth
// errors directly.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var agg *schema.AggregateError
	var apiErr *claude.APIError

	switch {
	case errors.Is(err, domain.ErrNodeNotFound), errors.Is(err, domain.ErrResultNotFound):
		writeJSON(w, http.StatusNotFound, errorBody(err.Error()))
	case errors.As(err, &agg):
		body := errorBody(agg.Error())
		details := make([]string, 0, len(agg.Errors))
		for _, e := range agg.Errors {
			details = append(details, e.Error())
		}
		body["details"] = details
		writeJSON(w, http.StatusBadRequest, body)
	case errors.As(err, &apiErr):
		body := errorBody(apiErr.Error())
		body["upstream"] = apiErr
		writeJSON(w, http.StatusBadGateway, body)
	default:
		s.logger.Error("request failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorBody(err.Error()))
	}
}

func errorBody(msg string) map[string]any {
	return map[string]any{"error": msg}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("response encode failed", "err", err)
	}
}
