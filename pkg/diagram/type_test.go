package diagram

import "testing"

func TestDetectType(t *testing.T) {
	tests := []struct {
		name string
		code string
		want Type
	}{
		{"flowchart keyword", "flowchart TD\n  A-->B", TypeFlowchart},
		{"graph keyword", "graph LR\n  A-->B", TypeFlowchart},
		{"sequence diagram", "sequenceDiagram\n  A->>B: hi", TypeSequence},
		{"bare sequence", "sequence\n  A->>B: hi", TypeSequence},
		{"class diagram", "classDiagram\n  Animal <|-- Duck", TypeClass},
		{"state diagram", "stateDiagram-v2\n  [*] --> Idle", TypeState},
		{"er diagram", "erDiagram\n  CUSTOMER ||--o{ ORDER : places", TypeER},
		{"journey", "journey\n  title My day", TypeJourney},
		{"gantt", "gantt\n  title Timeline", TypeGantt},
		{"pie", "pie title Pets\n  \"Dogs\": 10", TypePie},
		{"quadrant chart", "quadrantChart\n  title Reach", TypeQuadrant},
		{"requirement diagram", "requirementDiagram\n  requirement r", TypeRequirement},
		{"git graph", "gitGraph\n  commit", TypeGitGraph},
		{"c4 context", "C4Context\n  title System", TypeC4},
		{"c4 deployment", "C4Deployment\n  title Deploy", TypeC4},
		{"mindmap", "mindmap\n  root", TypeMindmap},
		{"timeline", "timeline\n  title History", TypeTimeline},
		{"zenuml", "zenuml\n  A->B: hi", TypeZenUML},
		{"sankey", "sankey-beta\n  a,b,10", TypeSankey},
		{"xy chart", "xychart-beta\n  title Sales", TypeXY},
		{"block", "block-beta\n  a b c", TypeBlock},
		{"packet", "packet-beta\n  0-15: src", TypePacket},
		{"kanban", "kanban\n  Todo", TypeKanban},
		{"architecture", "architecture-beta\n  group api", TypeArchitecture},
		{"case insensitive", "FLOWCHART TD\n  A-->B", TypeFlowchart},
		{"leading whitespace", "  \n\tgraph TD\n  A-->B", TypeFlowchart},
		{"unknown text", "this is not mermaid", TypeUnknown},
		{"empty string", "", TypeUnknown},
		{"whitespace only", "   \n\t  ", TypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectType(tt.code); got != tt.want {
				t.Errorf("DetectType(%q) = %s, want %s", tt.code, got, tt.want)
			}
		})
	}
}

func TestDetectTypeKeywordOrder(t *testing.T) {
	// "sequencediagram" must win over the bare "sequence" keyword, and
	// likewise for the other longer spellings.
	if got := DetectType("sequenceDiagram"); got != TypeSequence {
		t.Errorf("sequenceDiagram = %s", got)
	}
	// "statediagram" starts with "state"; both map to the same type,
	// so the longer keyword winning is only observable for types where
	// the shorter keyword belongs to a later entry.
	if got := DetectType("classDiagram"); got != TypeClass {
		t.Errorf("classDiagram = %s", got)
	}
	// "erDiagram" is matched before the bare "er" prefix would fire.
	if got := DetectType("erDiagram"); got != TypeER {
		t.Errorf("erDiagram = %s", got)
	}
}
