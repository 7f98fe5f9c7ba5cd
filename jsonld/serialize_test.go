package jsonld_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kepae/aifr-jsonld-example/jsonld"
	"github.com/kepae/aifr-jsonld-example/kb"
	"github.com/kepae/aifr-jsonld-example/report"
	"github.com/kepae/aifr-jsonld-example/vocabulary/aifr"
)

func testIndex(t *testing.T) *kb.Index {
	t.Helper()

	systems, err := kb.ParseGraph([]byte(`{"@graph": [
		{
			"@id": "https://example.org/systems/orion-7",
			"@type": "schema:SoftwareApplication",
			"name": "Orion", "version": "7.2",
			"publisher": {"@id": "https://example.org/orgs/stellar-labs"},
			"_aifr_internal": {"slug": "orion-7", "displayName": "Orion 7 (Stellar Labs)"}
		}
	]}`))
	require.NoError(t, err)

	organizations, err := kb.ParseGraph([]byte(`{"@graph": [
		{
			"@id": "https://example.org/orgs/stellar-labs",
			"@type": "schema:Organization",
			"name": "Stellar Labs",
			"_aifr_internal": {"slug": "stellar-labs", "displayName": "Stellar Labs"}
		}
	]}`))
	require.NoError(t, err)

	return kb.NewIndex(systems, organizations)
}

func resolve(t *testing.T, ix *kb.Index, raw report.RawReport) *report.EnrichedReport {
	t.Helper()
	require.NoError(t, raw.Validate())
	enriched, err := report.NewResolver("", nil).Resolve(raw, ix)
	require.NoError(t, err)
	return enriched
}

func TestSerialize_KnownSystem(t *testing.T) {
	ix := testIndex(t)
	enriched := resolve(t, ix, report.RawReport{
		Systems:         []string{"orion-7"},
		FlawDescription: "Model hallucinated a citation",
		FlawSeverity:    aifr.SeverityHigh,
	})

	doc, err := jsonld.NewSerializer("").Serialize(enriched, ix)
	require.NoError(t, err)

	assert.Equal(t, aifr.ClassFlawReport, doc.Type)
	assert.Equal(t, aifr.DefaultReportBase+"/"+enriched.ID, doc.ID)
	assert.Equal(t, "AI Flaw Report: Orion 7 (Stellar Labs)", doc.Name)
	assert.Equal(t, "Model hallucinated a citation", doc.Description)
	assert.Equal(t, aifr.SeverityHigh, doc.Severity)

	require.Len(t, doc.AISystem, 1)
	node := doc.AISystem[0]
	assert.Equal(t, "Orion", node["name"])
	assert.Equal(t, "7.2", node["version"])
	_, present := node[kb.InternalKey]
	assert.False(t, present)

	// Full publisher record embedded, not a bare reference.
	pub, ok := node["publisher"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Stellar Labs", pub["name"])
	_, present = pub[kb.InternalKey]
	assert.False(t, present)

	// Fixed two-part context: schema.org plus the aifr terms.
	require.Len(t, doc.Context, 2)
	assert.Equal(t, aifr.SchemaContext, doc.Context[0])
}

func TestSerialize_UnknownSystem(t *testing.T) {
	ix := testIndex(t)
	enriched := resolve(t, ix, report.RawReport{
		UnknownSystems:  []report.UnknownSystem{{Description: "A chatbot on a website"}},
		FlawDescription: "Gave unsafe medical advice",
		FlawSeverity:    aifr.SeverityCritical,
	})

	doc, err := jsonld.NewSerializer("").Serialize(enriched, ix)
	require.NoError(t, err)

	assert.Equal(t, "AI Flaw Report: Unknown System", doc.Name)
	require.Len(t, doc.AISystem, 1)
	assert.Equal(t, map[string]any{
		"@type":       aifr.TypeSoftwareApplication,
		"@id":         aifr.DefaultReportBase + "/" + enriched.ID + "/unknown-system-1",
		"description": "A chatbot on a website",
	}, doc.AISystem[0])
}

func TestSerialize_MixedSystemsOrderAndCount(t *testing.T) {
	ix := testIndex(t)
	enriched := resolve(t, ix, report.RawReport{
		Systems:         []string{"orion-7"},
		UnknownSystems:  []report.UnknownSystem{{Description: "an internal scoring tool"}},
		FlawDescription: "Both systems disagreed on output",
		FlawSeverity:    aifr.SeverityMedium,
	})

	doc, err := jsonld.NewSerializer("").Serialize(enriched, ix)
	require.NoError(t, err)

	require.Len(t, doc.AISystem, len(enriched.Systems))
	assert.Equal(t, "Orion", doc.AISystem[0]["name"])
	assert.Equal(t, "an internal scoring tool", doc.AISystem[1]["description"])
	assert.Equal(t, "AI Flaw Report: Orion 7 (Stellar Labs), Unknown System", doc.Name)
}

func TestSerialize_Idempotent(t *testing.T) {
	ix := testIndex(t)
	enriched := resolve(t, ix, report.RawReport{
		Systems:         []string{"orion-7"},
		FlawDescription: "Model hallucinated a citation",
		FlawSeverity:    aifr.SeverityHigh,
	})

	serializer := jsonld.NewSerializer("")
	first, err := serializer.Serialize(enriched, ix)
	require.NoError(t, err)
	second, err := serializer.Serialize(enriched, ix)
	require.NoError(t, err)

	firstBytes, err := first.Bytes()
	require.NoError(t, err)
	secondBytes, err := second.Bytes()
	require.NoError(t, err)
	assert.Equal(t, firstBytes, secondBytes)
}

func TestSerialize_DriftDetection(t *testing.T) {
	ix := testIndex(t)
	enriched := resolve(t, ix, report.RawReport{
		Systems:         []string{"orion-7"},
		FlawDescription: "Model hallucinated a citation",
		FlawSeverity:    aifr.SeverityHigh,
	})

	// The slug vanishes between resolution and serialization.
	drifted := kb.NewIndex(nil, nil)
	_, err := jsonld.NewSerializer("").Serialize(enriched, drifted)

	var slugErr *jsonld.UnknownSystemSlugError
	require.ErrorAs(t, err, &slugErr)
	assert.Equal(t, "orion-7", slugErr.Slug)
}

func TestSerialize_CustomBaseURI(t *testing.T) {
	ix := testIndex(t)
	enriched := resolve(t, ix, report.RawReport{
		Systems:         []string{"orion-7"},
		FlawDescription: "Model hallucinated a citation",
		FlawSeverity:    aifr.SeverityHigh,
	})

	doc, err := jsonld.NewSerializer("https://reports.example.org/flaws").Serialize(enriched, ix)
	require.NoError(t, err)
	assert.Equal(t, "https://reports.example.org/flaws/"+enriched.ID, doc.ID)
}
