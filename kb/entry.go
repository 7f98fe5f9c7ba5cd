// Package kb provides the AIFR knowledge base: authoritative AI system and
// organization records loaded from JSON-LD graph files, indexed for slug and
// identifier lookup.
//
// Records in the backing files carry one reserved member, "_aifr_internal",
// holding bookkeeping fields (lookup slug, display name) that must never
// appear in published documents. The loader splits that member out of the
// public field map at parse time, so producing a publishable copy of a record
// is a structural copy rather than a key-prefix scan.
package kb

import (
	"encoding/json"
	"fmt"
	"strings"
)

// InternalKey is the reserved member of a knowledge-base record that carries
// internal bookkeeping fields. Any member whose name starts with
// internalPrefix is treated as internal and stripped from the public fields.
const InternalKey = "_aifr_internal"

const internalPrefix = "_"

// Internal holds the bookkeeping fields of a knowledge-base record. These are
// used for lookups and presentation and are never published.
type Internal struct {
	// Slug is the short stable lookup key, unique across the combined
	// system and organization namespace. Empty for records that are only
	// ever found by identifier.
	Slug string `json:"slug"`

	// DisplayName is the human-friendly name shown in form dropdowns and
	// report titles.
	DisplayName string `json:"displayName"`
}

// Entry is one system or organization record. Public fields are kept exactly
// as loaded (one level of JSON-LD, including @id and @type); internal
// bookkeeping lives in Internal.
type Entry struct {
	// ID is the public linked-data identifier (@id).
	ID string

	// Fields holds the public members of the record, internal members
	// already stripped. Treat as read-only; LinkedData returns copies.
	Fields map[string]any

	// Internal holds the stripped bookkeeping fields.
	Internal Internal
}

// Slug returns the internal lookup slug, empty if the record has none.
func (e *Entry) Slug() string { return e.Internal.Slug }

// Name returns the public name field, empty if absent or not a string.
func (e *Entry) Name() string { return e.stringField("name") }

// Version returns the public version field, empty if absent.
func (e *Entry) Version() string { return e.stringField("version") }

// DisplayName returns the internal display name, falling back to the public
// name when the bookkeeping field is absent.
func (e *Entry) DisplayName() string {
	if e.Internal.DisplayName != "" {
		return e.Internal.DisplayName
	}
	return e.Name()
}

// PublisherID returns the @id of the record's publisher reference, empty if
// the record has no publisher.
func (e *Entry) PublisherID() string {
	pub, ok := e.Fields["publisher"].(map[string]any)
	if !ok {
		return ""
	}
	id, _ := pub["@id"].(string)
	return id
}

// LinkedData returns a deep copy of the record's public fields, safe for the
// caller to modify.
func (e *Entry) LinkedData() map[string]any {
	return copyMap(e.Fields)
}

func (e *Entry) stringField(name string) string {
	s, _ := e.Fields[name].(string)
	return s
}

// graphFile is the top-level shape of a knowledge-base collection file.
type graphFile struct {
	Graph []map[string]any `json:"@graph"`
}

// ParseGraph parses one JSON-LD collection file into entries, splitting
// internal members out of each record's public fields.
func ParseGraph(data []byte) ([]*Entry, error) {
	var file graphFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse graph: %w", err)
	}
	if file.Graph == nil {
		return nil, fmt.Errorf("parse graph: missing @graph member")
	}

	entries := make([]*Entry, 0, len(file.Graph))
	for i, raw := range file.Graph {
		entry, err := parseEntry(raw)
		if err != nil {
			return nil, fmt.Errorf("parse graph: record %d: %w", i, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func parseEntry(raw map[string]any) (*Entry, error) {
	entry := &Entry{Fields: make(map[string]any, len(raw))}

	for key, value := range raw {
		if !strings.HasPrefix(key, internalPrefix) {
			entry.Fields[key] = copyValue(value)
			continue
		}
		if key != InternalKey {
			continue // unrecognized internal member, dropped
		}
		meta, ok := value.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s must be an object", InternalKey)
		}
		entry.Internal.Slug, _ = meta["slug"].(string)
		entry.Internal.DisplayName, _ = meta["displayName"].(string)
	}

	entry.ID, _ = entry.Fields["@id"].(string)
	if entry.ID == "" {
		return nil, fmt.Errorf("record has no @id")
	}
	return entry, nil
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return copyMap(val)
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = copyValue(elem)
		}
		return out
	default:
		return v
	}
}
