package aifr

// SchemaContext is the schema.org vocabulary, the first element of every
// report document's @context.
const SchemaContext = "https://schema.org/"

// Namespace is the private AIFR vocabulary URN prefix.
const Namespace = "urn:aifr:vocab:"

// DefaultReportBase is the base URI under which report documents and
// synthetic unknown-system identifiers are minted.
const DefaultReportBase = "https://aifr.org/reports"

// Class and type terms used in emitted documents.
const (
	// ClassFlawReport is the @type of a flaw report document.
	ClassFlawReport = "aifr:AIFlawReport"

	// TypeSoftwareApplication is the @type of an AI system node, per schema.org.
	TypeSoftwareApplication = "schema:SoftwareApplication"
)

// Context terms mapped into the aifr: namespace.
const (
	// TermAISystem links a report to the systems it concerns.
	TermAISystem = "aifr:aiSystem"

	// TermSeverity carries the report severity label.
	TermSeverity = "aifr:severity"
)

// UnknownSystemName is the display name for systems the reporter could not
// identify against the knowledge base.
const UnknownSystemName = "Unknown System"

// ContextTerms returns the term mapping object embedded in every report
// document's @context alongside SchemaContext.
func ContextTerms() map[string]string {
	return map[string]string{
		"aifr":     Namespace,
		"aiSystem": TermAISystem,
		"severity": TermSeverity,
	}
}
