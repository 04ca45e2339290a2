package diagram

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Diagram is the entity aggregating mermaid code, a render
// configuration, identity, timestamps and the cached render result.
// It owns its Code and Config exclusively; both are value objects, so
// updates replace them wholesale.
type Diagram struct {
	ID          uuid.UUID
	Code        Code
	Config      Config
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	rendered []byte
}

// New creates a Diagram from raw mermaid text. The code is validated
// and classified; CreatedAt and UpdatedAt are stamped with the current
// time and no render result is cached yet.
func New(text string, cfg Config, name, description string) (*Diagram, error) {
	code, err := NewCode(text)
	if err != nil {
		return nil, err
	}
	return FromCode(code, cfg, name, description), nil
}

// FromCode creates a Diagram from an already-validated Code.
func FromCode(code Code, cfg Config, name, description string) *Diagram {
	now := time.Now().UTC()
	return &Diagram{
		ID:          uuid.New(),
		Code:        code,
		Config:      cfg,
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Type returns the detected diagram type.
func (d *Diagram) Type() Type { return d.Code.Type() }

// UpdateCode replaces the diagram's code, bumps UpdatedAt and discards
// any cached render result, which was only valid for the previous
// (code, config) pair.
func (d *Diagram) UpdateCode(text string) error {
	code, err := NewCode(text)
	if err != nil {
		return err
	}
	d.Code = code
	d.UpdatedAt = time.Now().UTC()
	d.rendered = nil
	return nil
}

// UpdateConfig replaces the render configuration, bumps UpdatedAt and
// discards any cached render result.
func (d *Diagram) UpdateConfig(cfg Config) {
	d.Config = cfg
	d.UpdatedAt = time.Now().UTC()
	d.rendered = nil
}

// SetRendered caches the rendered bytes for the current (code, config)
// pair. This is the one mutation that does not invalidate the cache.
func (d *Diagram) SetRendered(data []byte) {
	d.rendered = data
	d.UpdatedAt = time.Now().UTC()
}

// Rendered returns the cached render result, or nil if the diagram has
// not been rendered since its last modification.
func (d *Diagram) Rendered() []byte { return d.rendered }

// IsRendered reports whether a render result is cached.
func (d *Diagram) IsRendered() bool { return d.rendered != nil }

// String returns a short human-readable description.
func (d *Diagram) String() string {
	return fmt.Sprintf("Diagram(%s, type=%s)", d.ID, d.Type())
}
