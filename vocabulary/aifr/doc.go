// Package aifr defines the AIFR vocabulary: the namespace, JSON-LD context
// terms, and enumerations used by AI flaw report documents.
//
// The vocabulary is intentionally small. Flaw reports borrow schema.org for
// everything that has a standard term (names, descriptions, software
// applications, publishers) and reserve the private aifr: namespace for the
// two terms schema.org has no equivalent for: the link from a report to the
// AI systems it concerns, and the report severity.
package aifr
