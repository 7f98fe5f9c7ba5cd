package jsonld

import (
	"fmt"
	"strings"

	"github.com/kepae/aifr-jsonld-example/kb"
	"github.com/kepae/aifr-jsonld-example/report"
	"github.com/kepae/aifr-jsonld-example/vocabulary/aifr"
)

// UnknownSystemSlugError indicates knowledge-base drift: a system that
// resolved when the report was enriched no longer exists at serialization
// time. The enriched report is stale and should be re-resolved.
type UnknownSystemSlugError struct {
	Slug string
}

func (e *UnknownSystemSlugError) Error() string {
	return fmt.Sprintf("system slug %q not found in knowledge base", e.Slug)
}

// Serializer projects enriched reports into JSON-LD documents.
type Serializer struct {
	baseURI string
}

// NewSerializer creates a serializer minting report @ids under baseURI;
// empty means aifr.DefaultReportBase.
func NewSerializer(baseURI string) *Serializer {
	if baseURI == "" {
		baseURI = aifr.DefaultReportBase
	}
	return &Serializer{baseURI: baseURI}
}

// Serialize builds the JSON-LD document for an enriched report. Known
// systems are inlined as their full cleaned knowledge-base records (publisher
// embedded); unknown systems become minimal schema:SoftwareApplication nodes
// carrying the reporter's description.
//
// Resolution and serialization are not required to run against the same
// index snapshot, so a known slug may have vanished in between. That drift
// fails serialization with an *UnknownSystemSlugError rather than emitting a
// document with a hole in it.
func (s *Serializer) Serialize(enriched *report.EnrichedReport, ix *kb.Index) (*Document, error) {
	nodes := make([]map[string]any, 0, len(enriched.Systems))
	names := make([]string, 0, len(enriched.Systems))

	for _, sys := range enriched.Systems {
		if sys.Kind == report.SystemUnknown {
			nodes = append(nodes, map[string]any{
				"@type":       aifr.TypeSoftwareApplication,
				"@id":         sys.ID,
				"description": sys.Description,
			})
			names = append(names, aifr.UnknownSystemName)
			continue
		}

		node, ok := ix.SystemLinkedData(sys.Slug)
		if !ok {
			return nil, &UnknownSystemSlugError{Slug: sys.Slug}
		}
		nodes = append(nodes, node)
		names = append(names, sys.DisplayName)
	}

	return &Document{
		Context:     defaultContext(),
		Type:        aifr.ClassFlawReport,
		ID:          fmt.Sprintf("%s/%s", s.baseURI, enriched.ID),
		Name:        fmt.Sprintf("AI Flaw Report: %s", strings.Join(names, ", ")),
		Description: enriched.FlawDescription,
		AISystem:    nodes,
		Severity:    enriched.FlawSeverity,
	}, nil
}
