package report

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/kepae/aifr-jsonld-example/kb"
	"github.com/kepae/aifr-jsonld-example/vocabulary/aifr"
)

// reportIDLen is the width of the hex report id.
const reportIDLen = 12

// Resolver turns validated raw reports into enriched reports by resolving
// the referenced systems against a knowledge base index.
type Resolver struct {
	baseURI string
	logger  *slog.Logger
	now     func() time.Time
}

// NewResolver creates a resolver. baseURI is the base under which report and
// unknown-system identifiers are minted; empty means aifr.DefaultReportBase.
func NewResolver(baseURI string, logger *slog.Logger) *Resolver {
	if baseURI == "" {
		baseURI = aifr.DefaultReportBase
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		baseURI: baseURI,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Resolve builds the enriched report for raw: known slugs looked up via the
// index in input order, unknown systems given synthetic identifiers, known
// before unknown in the result.
//
// A slug absent from the index is dropped without error; the form dropdown
// can be stale and failing the whole submission over it would be worse for
// the reporter. If dropping leaves zero systems the result would violate the
// enriched report's non-empty invariant, and Resolve fails with a
// *ResolutionError instead.
func (r *Resolver) Resolve(raw RawReport, ix *kb.Index) (*EnrichedReport, error) {
	id := ContentID(raw)

	systems := make([]ResolvedSystem, 0, len(raw.Systems)+len(raw.UnknownSystems))
	var dropped []string

	for _, slug := range raw.Systems {
		entry, ok := ix.FindSystemBySlug(slug)
		if !ok {
			dropped = append(dropped, slug)
			r.logger.Warn("dropping unresolvable system slug",
				slog.String("report_id", id), slog.String("slug", slug))
			continue
		}

		resolvedSlug := entry.Slug()
		if resolvedSlug == "" {
			resolvedSlug = slug
		}
		systems = append(systems, ResolvedSystem{
			Kind:        SystemKnown,
			ID:          entry.ID,
			Name:        entry.Name(),
			Version:     entry.Version(),
			Slug:        resolvedSlug,
			DisplayName: entry.DisplayName(),
		})
	}

	for i, unknown := range raw.UnknownSystems {
		systems = append(systems, ResolvedSystem{
			Kind:        SystemUnknown,
			ID:          fmt.Sprintf("%s/%s/unknown-system-%d", r.baseURI, id, i+1),
			Name:        aifr.UnknownSystemName,
			DisplayName: aifr.UnknownSystemName,
			Description: unknown.Description,
		})
	}

	if len(systems) == 0 {
		return nil, &ResolutionError{ReportID: id, Dropped: dropped}
	}

	return &EnrichedReport{
		ID:              id,
		CreatedAt:       r.now(),
		Systems:         systems,
		FlawDescription: raw.FlawDescription,
		FlawSeverity:    raw.FlawSeverity,
	}, nil
}

// ContentID derives the report id from the raw report content: a sha256
// digest over a canonical field encoding, truncated to a fixed-width hex
// string. The same content always yields the same id, across runs and
// processes.
func ContentID(raw RawReport) string {
	h := sha256.New()
	for _, slug := range raw.Systems {
		writeField(h, "s", slug)
	}
	for _, unknown := range raw.UnknownSystems {
		writeField(h, "u", unknown.Description)
	}
	writeField(h, "d", raw.FlawDescription)
	writeField(h, "v", string(raw.FlawSeverity))
	return hex.EncodeToString(h.Sum(nil))[:reportIDLen]
}

// writeField writes a tagged, length-prefixed field so adjacent values can
// never collide under concatenation.
func writeField(w io.Writer, tag, value string) {
	fmt.Fprintf(w, "%s:%d:%s\n", tag, len(value), value)
}
