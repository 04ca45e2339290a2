package web

import (
	"testing"

	"github.com/google/uuid"

	"github.com/mermview/mermview/pkg/diagram"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	d, err := diagram.New("graph TD\n  A-->B", diagram.DefaultConfig(), "", "")
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	if _, ok := r.Get(d.ID); ok {
		t.Error("empty registry should miss")
	}

	r.Put(d)
	got, ok := r.Get(d.ID)
	if !ok || got.ID != d.ID {
		t.Errorf("Get after Put failed: %v %v", got, ok)
	}
	if r.Len() != 1 {
		t.Errorf("Len = %d", r.Len())
	}
	if len(r.List()) != 1 {
		t.Errorf("List = %d entries", len(r.List()))
	}

	if !r.Delete(d.ID) {
		t.Error("Delete should report true for an existing diagram")
	}
	if r.Delete(uuid.New()) {
		t.Error("Delete should report false for a missing diagram")
	}
	if r.Len() != 0 {
		t.Errorf("Len after delete = %d", r.Len())
	}
}
