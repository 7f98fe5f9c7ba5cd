// Package report defines AI flaw reports and the two business stages they
// pass through: validation of raw form input and resolution of the referenced
// systems against the knowledge base.
package report

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kepae/aifr-jsonld-example/vocabulary/aifr"
)

// MinDescriptionLen is the minimum length of a flaw description, in runes.
const MinDescriptionLen = 10

// UnknownSystem is a reporter's free-text description of a system that is not
// in the knowledge base.
type UnknownSystem struct {
	Description string `json:"description"`
}

// RawReport is the user-submitted form payload. It is a value: construct it
// once, validate it, and do not mutate it afterwards.
type RawReport struct {
	// Systems are knowledge-base slugs picked from the form dropdown.
	// Duplicates are permitted and order is preserved.
	Systems []string `json:"ai_systems"`

	// UnknownSystems are free-text descriptions of systems the reporter
	// could not find in the dropdown.
	UnknownSystems []UnknownSystem `json:"ai_systems_unknown"`

	// FlawDescription describes the flaw, at least MinDescriptionLen runes.
	FlawDescription string `json:"flaw_description"`

	// FlawSeverity is one of the aifr severity labels.
	FlawSeverity aifr.Severity `json:"flaw_severity"`
}

// Decode parses a raw form payload and validates it, returning an immutable
// RawReport value. On constraint violations the error is a *ValidationError
// listing every violated constraint.
func Decode(data []byte) (RawReport, error) {
	var raw RawReport
	if err := json.Unmarshal(data, &raw); err != nil {
		return RawReport{}, fmt.Errorf("decode flaw report: %w", err)
	}
	if err := raw.Validate(); err != nil {
		return RawReport{}, err
	}
	return raw, nil
}

// Validate checks every structural and semantic constraint on the raw report
// and collects all violations into a single *ValidationError.
func (r RawReport) Validate() error {
	var violations []string

	if utf8.RuneCountInString(r.FlawDescription) < MinDescriptionLen {
		violations = append(violations,
			fmt.Sprintf("flaw_description must be at least %d characters", MinDescriptionLen))
	}

	if !r.FlawSeverity.Valid() {
		labels := make([]string, 0, 4)
		for _, s := range aifr.Severities() {
			labels = append(labels, string(s))
		}
		violations = append(violations,
			fmt.Sprintf("flaw_severity must be one of: %s", strings.Join(labels, ", ")))
	}

	if len(r.Systems)+len(r.UnknownSystems) == 0 {
		violations = append(violations,
			"must specify at least one AI system (known or unknown)")
	}

	for i, unknown := range r.UnknownSystems {
		if unknown.Description == "" {
			violations = append(violations,
				fmt.Sprintf("ai_systems_unknown[%d].description must not be empty", i))
		}
	}

	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}
