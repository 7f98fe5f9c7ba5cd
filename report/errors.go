package report

import (
	"fmt"
	"strings"
)

// ValidationError reports every constraint a raw report violated. The report
// is never partially processed: one violation rejects the whole submission.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid flaw report: %s", strings.Join(e.Violations, "; "))
}

// ResolutionError indicates resolution produced zero systems: every known
// slug failed to resolve and the report named no unknown systems. Emitting an
// empty-system report would violate the enriched report's invariant, so the
// request fails instead.
type ResolutionError struct {
	// ReportID is the id the report would have carried.
	ReportID string

	// Dropped are the slugs that failed to resolve.
	Dropped []string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("report %s: no referenced AI system could be resolved (unresolved slugs: %s)",
		e.ReportID, strings.Join(e.Dropped, ", "))
}
