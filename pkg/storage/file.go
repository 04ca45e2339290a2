package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/mermview/mermview/pkg/diagram"
	"github.com/mermview/mermview/pkg/errors"
)

// FileStore persists diagrams and rendered output on the local
// filesystem. Diagram metadata lives as <id>.json under the diagrams
// directory; rendered bytes go wherever the caller asks.
type FileStore struct {
	diagramsDir string
}

// NewFileStore creates a FileStore keeping diagram metadata under
// diagramsDir. The directory is created lazily on first save.
func NewFileStore(diagramsDir string) *FileStore {
	return &FileStore{diagramsDir: diagramsDir}
}

// diagramDoc is the on-disk JSON shape for a diagram.
type diagramDoc struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	DiagramType string    `json:"diagram_type"`
	Name        string    `json:"name,omitempty"`
	Description string    `json:"description,omitempty"`
	Config      configDoc `json:"config"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type configDoc struct {
	Width           int     `json:"width"`
	Height          int     `json:"height"`
	Theme           string  `json:"theme"`
	OutputFormat    string  `json:"output_format"`
	Scale           float64 `json:"scale"`
	Transparent     bool    `json:"transparent"`
	BackgroundColor string  `json:"background_color"`
	Padding         int     `json:"padding"`
}

// SaveDiagram writes the diagram's metadata as JSON.
// Rendered bytes are not persisted here; they are written separately
// through WriteRendered.
func (s *FileStore) SaveDiagram(ctx context.Context, d *diagram.Diagram) error {
	if err := s.EnsureDir(ctx, s.diagramsDir); err != nil {
		return err
	}

	doc := diagramDoc{
		ID:          d.ID.String(),
		Code:        d.Code.String(),
		DiagramType: d.Type().String(),
		Name:        d.Name,
		Description: d.Description,
		Config: configDoc{
			Width:           d.Config.Width,
			Height:          d.Config.Height,
			Theme:           string(d.Config.Theme),
			OutputFormat:    string(d.Config.Format),
			Scale:           d.Config.Scale,
			Transparent:     d.Config.Transparent,
			BackgroundColor: d.Config.BackgroundColor,
			Padding:         d.Config.Padding,
		},
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "failed to serialize diagram %s", d.ID)
	}
	path := s.diagramPath(d.ID)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "failed to save diagram %s", d.ID)
	}
	return nil
}

// GetDiagram loads a diagram's metadata by ID.
func (s *FileStore) GetDiagram(ctx context.Context, id uuid.UUID) (*diagram.Diagram, error) {
	data, err := os.ReadFile(s.diagramPath(id))
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeNotFound, "diagram %s not found", id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "failed to read diagram %s", id)
	}

	var doc diagramDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "failed to parse diagram %s", id)
	}
	return docToDiagram(id, doc)
}

func docToDiagram(id uuid.UUID, doc diagramDoc) (*diagram.Diagram, error) {
	cfg, err := diagram.NewConfig(diagram.Config{
		Width:           doc.Config.Width,
		Height:          doc.Config.Height,
		BackgroundColor: doc.Config.BackgroundColor,
		Theme:           diagram.Theme(doc.Config.Theme),
		Format:          diagram.Format(doc.Config.OutputFormat),
		Scale:           doc.Config.Scale,
		Transparent:     doc.Config.Transparent,
		Padding:         doc.Config.Padding,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "stored config for diagram %s is invalid", id)
	}

	code, err := diagram.NewCode(doc.Code)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "stored code for diagram %s is invalid", id)
	}

	d := diagram.FromCode(code, cfg, doc.Name, doc.Description)
	d.ID = id
	d.CreatedAt = doc.CreatedAt
	d.UpdatedAt = doc.UpdatedAt
	return d, nil
}

// DeleteDiagram removes a diagram's metadata file.
func (s *FileStore) DeleteDiagram(ctx context.Context, id uuid.UUID) (bool, error) {
	err := os.Remove(s.diagramPath(id))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeStorage, err, "failed to delete diagram %s", id)
	}
	return true, nil
}

// WriteRendered writes rendered bytes to path and returns the path.
func (s *FileStore) WriteRendered(ctx context.Context, data []byte, path string) (string, error) {
	if err := errors.ValidateOutputPath(path); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.Wrap(errors.ErrCodeStorage, err, "failed to write rendered output to %s", path)
	}
	return path, nil
}

// ReadFile reads a file's contents.
func (s *FileStore) ReadFile(ctx context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "failed to read %s", path)
	}
	return data, nil
}

// FileExists reports whether a file exists.
func (s *FileStore) FileExists(ctx context.Context, path string) (bool, error) {
	_, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeStorage, err, "failed to stat %s", path)
	}
	return true, nil
}

// EnsureDir creates a directory (and parents) if needed.
func (s *FileStore) EnsureDir(ctx context.Context, dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "failed to create directory %s", dir)
	}
	return nil
}

func (s *FileStore) diagramPath(id uuid.UUID) string {
	return filepath.Join(s.diagramsDir, id.String()+".json")
}

// Ensure FileStore implements Store.
var _ Store = (*FileStore)(nil)
