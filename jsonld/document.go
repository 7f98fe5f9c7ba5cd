// Package jsonld projects enriched flaw reports into publishable JSON-LD
// documents, merging in authoritative system and organization records from
// the knowledge base.
//
// This is not a general JSON-LD processor. It emits one fixed document shape
// (an aifr:AIFlawReport) from one fixed input shape, nothing more.
package jsonld

import (
	"encoding/json"

	"github.com/kepae/aifr-jsonld-example/vocabulary/aifr"
)

// Document is an aifr:AIFlawReport JSON-LD document. Field order follows
// struct order and map keys marshal sorted, so emitting the same document
// twice is byte-identical.
type Document struct {
	Context     []any            `json:"@context"`
	Type        string           `json:"@type"`
	ID          string           `json:"@id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	AISystem    []map[string]any `json:"aiSystem"`
	Severity    aifr.Severity    `json:"severity"`
}

// Bytes returns the indented JSON encoding of the document.
func (d *Document) Bytes() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// defaultContext returns the fixed @context: the schema.org vocabulary plus
// the private aifr term mapping.
func defaultContext() []any {
	return []any{
		aifr.SchemaContext,
		aifr.ContextTerms(),
	}
}
