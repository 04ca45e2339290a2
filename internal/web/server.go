// Package web exposes the rendering core over HTTP.
//
// The routes mirror a thin adaptation layer: request DTOs are decoded,
// handed to the render service, and results mapped back to JSON or raw
// image responses. No rendering logic lives here.
package web

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/mermview/mermview/pkg/diagram"
	"github.com/mermview/mermview/pkg/errors"
	"github.com/mermview/mermview/pkg/render"
)

// Server wires the render service into an HTTP router.
type Server struct {
	svc      *render.Service
	registry *Registry
	version  string
	log      *log.Logger
}

// NewServer creates a Server around the render service.
func NewServer(svc *render.Service, version string, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		svc:      svc,
		registry: NewRegistry(),
		version:  version,
		log:      logger,
	}
}

// Router builds the chi route tree.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/render", s.handleRender)
		r.Post("/render/image", s.handleRenderImage)
		r.Get("/quick-render", s.handleQuickRender)
		r.Get("/diagrams", s.handleListDiagrams)
		r.Get("/diagrams/{id}", s.handleGetDiagram)
		r.Get("/diagrams/{id}/image", s.handleGetDiagramImage)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:            "healthy",
		Version:           s.version,
		RendererAvailable: s.svc.Available(r.Context()),
	})
}

// handleRender renders a diagram and returns a structured JSON
// response with the image base64-encoded (or written to a file when
// output_path is set).
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req RenderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, RenderResponse{
			Success: false,
			Message: "invalid request body",
			Error:   err.Error(),
		})
		return
	}

	cfg, err := req.Config()
	if err != nil {
		s.writeRenderError(w, err)
		return
	}
	d, err := diagram.New(req.Code, cfg, req.Name, req.Description)
	if err != nil {
		s.writeRenderError(w, err)
		return
	}
	s.registry.Put(d)

	if req.OutputPath != "" {
		path, err := s.svc.RenderAndSave(r.Context(), d, req.OutputPath)
		if err != nil {
			s.writeRenderError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, RenderResponse{
			Success:     true,
			DiagramID:   d.ID.String(),
			OutputPath:  path,
			Message:     fmt.Sprintf("diagram rendered and saved to %s", path),
			ContentType: cfg.Format.ContentType(),
		})
		return
	}

	data, err := s.svc.Render(r.Context(), d)
	if err != nil {
		s.writeRenderError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, RenderResponse{
		Success:     true,
		DiagramID:   d.ID.String(),
		Message:     "diagram rendered successfully",
		DataBase64:  base64.StdEncoding.EncodeToString(data),
		ContentType: cfg.Format.ContentType(),
	})
}

// handleRenderImage renders a diagram and returns the raw image bytes.
func (s *Server) handleRenderImage(w http.ResponseWriter, r *http.Request) {
	var req RenderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	cfg, err := req.Config()
	if err != nil {
		s.writeError(w, err)
		return
	}
	data, err := s.svc.RenderText(r.Context(), req.Code, cfg)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", cfg.Format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=diagram.%s", cfg.Format))
	_, _ = w.Write(data)
}

// handleQuickRender renders URL-encoded code supplied as a query
// parameter, for simple GET integrations.
func (s *Server) handleQuickRender(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	text, err := url.QueryUnescape(q.Get("code"))
	if err != nil || text == "" {
		http.Error(w, "missing or invalid code parameter", http.StatusBadRequest)
		return
	}

	cfg := diagram.DefaultConfig()
	cfg.Scale = 2.0
	if v := q.Get("theme"); v != "" {
		cfg.Theme = diagram.Theme(v)
	}
	if v := q.Get("format"); v != "" {
		cfg.Format = diagram.Format(v)
	}
	if v := q.Get("width"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Width = n
		}
	}
	if v := q.Get("height"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Height = n
		}
	}
	cfg, err = diagram.NewConfig(cfg)
	if err != nil {
		s.writeError(w, err)
		return
	}

	data, err := s.svc.RenderText(r.Context(), text, cfg)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", cfg.Format.ContentType())
	_, _ = w.Write(data)
}

func (s *Server) handleListDiagrams(w http.ResponseWriter, r *http.Request) {
	diagrams := s.registry.List()
	dtos := make([]DiagramDTO, 0, len(diagrams))
	for _, d := range diagrams {
		dtos = append(dtos, diagramToDTO(d))
	}
	s.writeJSON(w, http.StatusOK, dtos)
}

func (s *Server) handleGetDiagram(w http.ResponseWriter, r *http.Request) {
	d, ok := s.lookupDiagram(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, diagramToDTO(d))
}

func (s *Server) handleGetDiagramImage(w http.ResponseWriter, r *http.Request) {
	d, ok := s.lookupDiagram(w, r)
	if !ok {
		return
	}
	if !d.IsRendered() {
		http.Error(w, "diagram not rendered", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", d.Config.Format.ContentType())
	_, _ = w.Write(d.Rendered())
}

func (s *Server) lookupDiagram(w http.ResponseWriter, r *http.Request) (*diagram.Diagram, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid diagram id", http.StatusBadRequest)
		return nil, false
	}
	d, ok := s.registry.Get(id)
	if !ok {
		http.Error(w, "diagram not found", http.StatusNotFound)
		return nil, false
	}
	return d, true
}

// writeRenderError maps a failure to the structured render response.
func (s *Server) writeRenderError(w http.ResponseWriter, err error) {
	s.log.Error("render failed", "err", err)
	s.writeJSON(w, statusFor(err), RenderResponse{
		Success: false,
		Message: "rendering failed",
		Error:   errors.UserMessage(err),
	})
}

// writeError maps a failure to a plain-text HTTP error.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	s.log.Error("request failed", "err", err)
	http.Error(w, errors.UserMessage(err), statusFor(err))
}

// statusFor maps error codes to HTTP status codes.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidCode, errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidTheme, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeNoRenderer:
		return http.StatusServiceUnavailable
	case errors.ErrCodeRenderTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("failed to encode response", "err", err)
	}
}
