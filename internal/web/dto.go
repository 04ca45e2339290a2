package web

import (
	"time"

	"github.com/mermview/mermview/pkg/diagram"
)

// RenderRequest is the JSON body of a render call.
type RenderRequest struct {
	Code            string  `json:"code"`
	OutputPath      string  `json:"output_path,omitempty"`
	Width           int     `json:"width,omitempty"`
	Height          int     `json:"height,omitempty"`
	Theme           string  `json:"theme,omitempty"`
	OutputFormat    string  `json:"output_format,omitempty"`
	Scale           float64 `json:"scale,omitempty"`
	Transparent     bool    `json:"transparent,omitempty"`
	BackgroundColor string  `json:"background_color,omitempty"`
	Name            string  `json:"name,omitempty"`
	Description     string  `json:"description,omitempty"`
}

// Config converts the request to a validated render configuration,
// filling unset fields with defaults.
func (r RenderRequest) Config() (diagram.Config, error) {
	cfg := diagram.DefaultConfig()
	if r.Width != 0 {
		cfg.Width = r.Width
	}
	if r.Height != 0 {
		cfg.Height = r.Height
	}
	if r.Theme != "" {
		cfg.Theme = diagram.Theme(r.Theme)
	}
	if r.OutputFormat != "" {
		cfg.Format = diagram.Format(r.OutputFormat)
	}
	if r.Scale != 0 {
		cfg.Scale = r.Scale
	}
	if r.BackgroundColor != "" {
		cfg.BackgroundColor = r.BackgroundColor
	}
	cfg.Transparent = r.Transparent
	if r.Transparent {
		cfg.BackgroundColor = "transparent"
	}
	return diagram.NewConfig(cfg)
}

// RenderResponse is the structured outcome of a render call. Failures
// carry success=false, a short message and the causal error text; no
// partial output bytes are ever returned as successful.
type RenderResponse struct {
	Success     bool   `json:"success"`
	DiagramID   string `json:"diagram_id,omitempty"`
	OutputPath  string `json:"output_path,omitempty"`
	Message     string `json:"message"`
	Error       string `json:"error,omitempty"`
	DataBase64  string `json:"data_base64,omitempty"`
	ContentType string `json:"content_type,omitempty"`
}

// DiagramDTO is the transport shape of a diagram entity.
type DiagramDTO struct {
	ID           string    `json:"id"`
	Code         string    `json:"code"`
	DiagramType  string    `json:"diagram_type"`
	Name         string    `json:"name,omitempty"`
	Description  string    `json:"description,omitempty"`
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	Theme        string    `json:"theme"`
	OutputFormat string    `json:"output_format"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	IsRendered   bool      `json:"is_rendered"`
}

// HealthResponse reports service health.
type HealthResponse struct {
	Status            string `json:"status"`
	Version           string `json:"version"`
	RendererAvailable bool   `json:"renderer_available"`
}

func diagramToDTO(d *diagram.Diagram) DiagramDTO {
	return DiagramDTO{
		ID:           d.ID.String(),
		Code:         d.Code.String(),
		DiagramType:  d.Type().String(),
		Name:         d.Name,
		Description:  d.Description,
		Width:        d.Config.Width,
		Height:       d.Config.Height,
		Theme:        string(d.Config.Theme),
		OutputFormat: string(d.Config.Format),
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
		IsRendered:   d.IsRendered(),
	}
}
