package aifr

// Severity classifies how serious a reported flaw is.
type Severity string

const (
	// SeverityLow indicates a minor flaw with limited impact.
	SeverityLow Severity = "Low"

	// SeverityMedium indicates a flaw with moderate impact.
	SeverityMedium Severity = "Medium"

	// SeverityHigh indicates a serious flaw.
	SeverityHigh Severity = "High"

	// SeverityCritical indicates a flaw requiring immediate attention.
	SeverityCritical Severity = "Critical"
)

// Severities returns the accepted severity labels in ascending order.
func Severities() []Severity {
	return []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}
}

// Valid reports whether s is one of the accepted severity labels.
func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}
