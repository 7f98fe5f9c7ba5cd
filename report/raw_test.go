package report_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kepae/aifr-jsonld-example/report"
	"github.com/kepae/aifr-jsonld-example/vocabulary/aifr"
)

func validRaw() report.RawReport {
	return report.RawReport{
		Systems:         []string{"orion-7"},
		FlawDescription: "Model hallucinated a citation",
		FlawSeverity:    aifr.SeverityHigh,
	}
}

func TestRawReport_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*report.RawReport)
		wantError string
	}{
		{
			name:   "valid with known system",
			mutate: func(r *report.RawReport) {},
		},
		{
			name: "valid with unknown system only",
			mutate: func(r *report.RawReport) {
				r.Systems = nil
				r.UnknownSystems = []report.UnknownSystem{{Description: "A chatbot on a website"}}
			},
		},
		{
			name: "description too short",
			mutate: func(r *report.RawReport) {
				r.FlawDescription = "too short"
			},
			wantError: "flaw_description must be at least 10 characters",
		},
		{
			name: "invalid severity",
			mutate: func(r *report.RawReport) {
				r.FlawSeverity = "Severe"
			},
			wantError: "flaw_severity must be one of",
		},
		{
			name: "no systems at all",
			mutate: func(r *report.RawReport) {
				r.Systems = nil
			},
			wantError: "at least one AI system",
		},
		{
			name: "empty unknown description",
			mutate: func(r *report.RawReport) {
				r.UnknownSystems = []report.UnknownSystem{{Description: ""}}
			},
			wantError: "ai_systems_unknown[0].description must not be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := validRaw()
			tt.mutate(&raw)

			err := raw.Validate()
			if tt.wantError == "" {
				assert.NoError(t, err)
				return
			}

			var valErr *report.ValidationError
			require.ErrorAs(t, err, &valErr)
			assert.Contains(t, err.Error(), tt.wantError)
		})
	}
}

func TestRawReport_Validate_CollectsAllViolations(t *testing.T) {
	raw := report.RawReport{
		FlawDescription: "short",
		FlawSeverity:    "bogus",
	}

	var valErr *report.ValidationError
	require.ErrorAs(t, raw.Validate(), &valErr)
	assert.Len(t, valErr.Violations, 3)
}

func TestRawReport_Validate_RuneLength(t *testing.T) {
	raw := validRaw()
	// Ten runes but more than ten bytes: still valid.
	raw.FlawDescription = strings.Repeat("ü", 10)
	assert.NoError(t, raw.Validate())
}

func TestDecode(t *testing.T) {
	payload := `{
		"ai_systems": ["orion-7"],
		"ai_systems_unknown": [{"description": "A chatbot on a website"}],
		"flaw_description": "Gave unsafe medical advice",
		"flaw_severity": "Critical"
	}`

	raw, err := report.Decode([]byte(payload))
	require.NoError(t, err)
	assert.Equal(t, []string{"orion-7"}, raw.Systems)
	assert.Equal(t, "A chatbot on a website", raw.UnknownSystems[0].Description)
	assert.Equal(t, aifr.SeverityCritical, raw.FlawSeverity)
}

func TestDecode_Invalid(t *testing.T) {
	_, err := report.Decode([]byte(`{"flaw_description": "x", "flaw_severity": "High"}`))
	var valErr *report.ValidationError
	assert.ErrorAs(t, err, &valErr)

	_, err = report.Decode([]byte(`not json`))
	assert.Error(t, err)
	assert.NotErrorAs(t, err, &valErr)
}
