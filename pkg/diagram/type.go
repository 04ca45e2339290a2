// Package diagram defines the domain model for mermaid diagrams: the
// diagram type classifier, the immutable Code and Config value objects,
// and the Diagram entity that ties them together with identity and a
// cached render result.
package diagram

import "strings"

// Type is a mermaid diagram category detected from the source text.
type Type string

// Supported diagram types. TypeUnknown is returned for text that does
// not start with any registered keyword.
const (
	TypeFlowchart    Type = "flowchart"
	TypeSequence     Type = "sequence"
	TypeClass        Type = "class"
	TypeState        Type = "state"
	TypeER           Type = "er"
	TypeJourney      Type = "journey"
	TypeGantt        Type = "gantt"
	TypePie          Type = "pie"
	TypeQuadrant     Type = "quadrant"
	TypeRequirement  Type = "requirement"
	TypeGitGraph     Type = "gitgraph"
	TypeC4           Type = "c4"
	TypeMindmap      Type = "mindmap"
	TypeTimeline     Type = "timeline"
	TypeZenUML       Type = "zenuml"
	TypeSankey       Type = "sankey"
	TypeXY           Type = "xy"
	TypeBlock        Type = "block"
	TypePacket       Type = "packet"
	TypeKanban       Type = "kanban"
	TypeArchitecture Type = "architecture"
	TypeUnknown      Type = "unknown"
)

// typeKeywords maps each diagram type to the keywords that identify it.
// Declaration order matters: detection returns the first type whose
// keyword is a prefix of the code, so a type whose keyword is a strict
// prefix of another type's keyword must be declared after the more
// specific one.
var typeKeywords = []struct {
	typ      Type
	keywords []string
}{
	{TypeFlowchart, []string{"flowchart", "graph"}},
	{TypeSequence, []string{"sequencediagram", "sequence"}},
	{TypeClass, []string{"classdiagram", "class"}},
	{TypeState, []string{"statediagram", "state"}},
	{TypeER, []string{"erdiagram", "er"}},
	{TypeJourney, []string{"journey"}},
	{TypeGantt, []string{"gantt"}},
	{TypePie, []string{"pie"}},
	{TypeQuadrant, []string{"quadrantchart"}},
	{TypeRequirement, []string{"requirementdiagram"}},
	{TypeGitGraph, []string{"gitgraph"}},
	{TypeC4, []string{"c4context", "c4container", "c4component", "c4dynamic", "c4deployment"}},
	{TypeMindmap, []string{"mindmap"}},
	{TypeTimeline, []string{"timeline"}},
	{TypeZenUML, []string{"zenuml"}},
	{TypeSankey, []string{"sankey"}},
	{TypeXY, []string{"xychart"}},
	{TypeBlock, []string{"block"}},
	{TypePacket, []string{"packet"}},
	{TypeKanban, []string{"kanban"}},
	{TypeArchitecture, []string{"architecture"}},
}

// DetectType classifies mermaid source text by matching known keywords
// against the start of the (trimmed, lower-cased) text. It is a total
// function: unrecognized or empty text yields TypeUnknown.
func DetectType(code string) Type {
	lower := strings.ToLower(strings.TrimSpace(code))
	for _, entry := range typeKeywords {
		for _, kw := range entry.keywords {
			if strings.HasPrefix(lower, kw) {
				return entry.typ
			}
		}
	}
	return TypeUnknown
}

// String returns the type's string value.
func (t Type) String() string { return string(t) }
