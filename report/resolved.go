package report

import (
	"time"

	"github.com/kepae/aifr-jsonld-example/vocabulary/aifr"
)

// SystemKind distinguishes the two variants of a resolved system reference.
type SystemKind string

const (
	// SystemKnown is a system resolved against the knowledge base.
	SystemKnown SystemKind = "known"

	// SystemUnknown is a system the reporter described in free text.
	SystemUnknown SystemKind = "unknown"
)

// ResolvedSystem is one system reference within an enriched report.
//
// Exactly one of Slug and Description is set: a known system carries the
// knowledge-base slug and no description, an unknown system carries the
// reporter's description and no slug.
type ResolvedSystem struct {
	Kind SystemKind `json:"system_type"`

	// ID is the knowledge-base @id for known systems, or a synthetic
	// identifier minted under the report for unknown systems.
	ID string `json:"id"`

	Name        string `json:"name"`
	Version     string `json:"version,omitempty"`
	Slug        string `json:"slug,omitempty"`
	DisplayName string `json:"display_name"`

	// Description is the reporter's free text, unknown systems only.
	Description string `json:"description,omitempty"`
}

// EnrichedReport is the fully processed flaw report: referenced systems
// resolved, report id assigned. It is created once by Resolve and read once
// by the serializer; nothing mutates it in between.
type EnrichedReport struct {
	// ID is derived deterministically from the raw report content.
	ID string `json:"report_id"`

	// CreatedAt is the UTC processing timestamp.
	CreatedAt time.Time `json:"created_at"`

	// Systems is never empty: known systems first in input order, then
	// unknown systems in input order.
	Systems []ResolvedSystem `json:"ai_systems"`

	FlawDescription string        `json:"flaw_description"`
	FlawSeverity    aifr.Severity `json:"flaw_severity"`
}
