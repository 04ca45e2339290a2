package diagram

import (
	"testing"
)

func TestNewDiagram(t *testing.T) {
	d, err := New("graph TD\n  A-->B", DefaultConfig(), "flow", "a small flow")
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	if d.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Error("diagram should get a non-nil id")
	}
	if d.Type() != TypeFlowchart {
		t.Errorf("unexpected type: %s", d.Type())
	}
	if d.Name != "flow" || d.Description != "a small flow" {
		t.Errorf("unexpected metadata: %q %q", d.Name, d.Description)
	}
	if d.CreatedAt.IsZero() || !d.CreatedAt.Equal(d.UpdatedAt) {
		t.Error("timestamps should be set and equal on creation")
	}
	if d.IsRendered() {
		t.Error("new diagram should not be rendered")
	}
}

func TestNewDiagramInvalidCode(t *testing.T) {
	if _, err := New("   ", DefaultConfig(), "", ""); err == nil {
		t.Fatal("New should reject empty code")
	}
}

func TestDiagramUpdateCodeInvalidatesRender(t *testing.T) {
	d, err := New("graph TD\n  A-->B", DefaultConfig(), "", "")
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	d.SetRendered([]byte{0x89, 'P', 'N', 'G'})
	if !d.IsRendered() {
		t.Fatal("SetRendered should cache the result")
	}

	if err := d.UpdateCode("sequenceDiagram\n  A->>B: hi"); err != nil {
		t.Fatalf("UpdateCode error: %v", err)
	}
	if d.IsRendered() {
		t.Error("UpdateCode should discard the cached render")
	}
	if d.Type() != TypeSequence {
		t.Errorf("type should follow the new code: %s", d.Type())
	}
	if !d.UpdatedAt.After(d.CreatedAt) && !d.UpdatedAt.Equal(d.CreatedAt) {
		t.Error("UpdateCode should bump UpdatedAt")
	}
}

func TestDiagramUpdateCodeRejectsEmpty(t *testing.T) {
	d, err := New("graph TD\n  A-->B", DefaultConfig(), "", "")
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	d.SetRendered([]byte("img"))

	if err := d.UpdateCode(""); err == nil {
		t.Fatal("UpdateCode should reject empty code")
	}
	// Failed update leaves the diagram untouched
	if d.Type() != TypeFlowchart {
		t.Errorf("type should be unchanged: %s", d.Type())
	}
	if !d.IsRendered() {
		t.Error("failed update should not discard the cached render")
	}
}

func TestDiagramUpdateConfigInvalidatesRender(t *testing.T) {
	d, err := New("graph TD\n  A-->B", DefaultConfig(), "", "")
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	d.SetRendered([]byte("img"))

	d.UpdateConfig(ConfigForSVG(ThemeDark))
	if d.IsRendered() {
		t.Error("UpdateConfig should discard the cached render")
	}
	if d.Config.Theme != ThemeDark {
		t.Errorf("unexpected theme: %s", d.Config.Theme)
	}
}

func TestDiagramRendered(t *testing.T) {
	d, err := New("graph TD\n  A-->B", DefaultConfig(), "", "")
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	if d.Rendered() != nil {
		t.Error("unrendered diagram should return nil bytes")
	}

	data := []byte{0x89, 'P', 'N', 'G'}
	d.SetRendered(data)
	got := d.Rendered()
	if string(got) != string(data) {
		t.Errorf("unexpected rendered bytes: %v", got)
	}
}
