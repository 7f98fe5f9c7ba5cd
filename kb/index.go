package kb

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Default doublestar patterns for the two collections, relative to the
// knowledge-base directory. Collections may be sharded across several files.
const (
	DefaultSystemsGlob       = "ai-systems*.jsonld"
	DefaultOrganizationsGlob = "organizations*.jsonld"
)

// Index is the read-only knowledge base: the loaded system and organization
// collections plus a combined slug map across both. It is immutable after
// construction and safe for concurrent use; see Store for hot reload.
type Index struct {
	systems       []*Entry
	organizations []*Entry
	slugs         map[string]*Entry
}

// Option is one entry of the system dropdown: a lookup slug and the name to
// show for it.
type Option struct {
	Slug        string `json:"slug"`
	DisplayName string `json:"display_name"`
}

// Load reads both collections from dir, matching files against the given
// doublestar patterns, and builds the combined index. A pattern matching no
// files, an unreadable file, or a malformed record is a *LoadError.
func Load(dir, systemsGlob, organizationsGlob string) (*Index, error) {
	systems, err := loadCollection(dir, systemsGlob)
	if err != nil {
		return nil, err
	}
	organizations, err := loadCollection(dir, organizationsGlob)
	if err != nil {
		return nil, err
	}
	return NewIndex(systems, organizations), nil
}

func loadCollection(dir, pattern string) ([]*Entry, error) {
	full := filepath.Join(dir, pattern)
	matches, err := doublestar.FilepathGlob(full)
	if err != nil {
		return nil, &LoadError{Path: full, Err: err}
	}
	if len(matches) == 0 {
		return nil, &LoadError{Path: full, Err: fmt.Errorf("no files match pattern")}
	}
	sort.Strings(matches)

	var entries []*Entry
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &LoadError{Path: path, Err: err}
		}
		parsed, err := ParseGraph(data)
		if err != nil {
			return nil, &LoadError{Path: path, Err: err}
		}
		entries = append(entries, parsed...)
	}
	return entries, nil
}

// NewIndex builds an index over already-parsed collections. The combined slug
// map covers both collections; on a slug collision the system wins (systems
// are indexed first and organizations do not displace them).
func NewIndex(systems, organizations []*Entry) *Index {
	ix := &Index{
		systems:       systems,
		organizations: organizations,
		slugs:         make(map[string]*Entry, len(systems)+len(organizations)),
	}
	for _, org := range organizations {
		if slug := org.Slug(); slug != "" {
			ix.slugs[slug] = org
		}
	}
	for _, sys := range systems {
		if slug := sys.Slug(); slug != "" {
			ix.slugs[slug] = sys
		}
	}
	return ix
}

// FindBySlug looks up a system or organization in the combined slug map.
func (ix *Index) FindBySlug(slug string) (*Entry, bool) {
	entry, ok := ix.slugs[slug]
	return entry, ok
}

// FindSystemBySlug looks up a system by slug, scanning the systems collection
// only. Intentionally independent of the combined map: systems and
// organizations may collide on slug and callers sometimes need a type-scoped
// answer.
func (ix *Index) FindSystemBySlug(slug string) (*Entry, bool) {
	for _, sys := range ix.systems {
		if sys.Slug() == slug {
			return sys, true
		}
	}
	return nil, false
}

// FindOrganizationByID looks up an organization by its public @id.
func (ix *Index) FindOrganizationByID(id string) (*Entry, bool) {
	for _, org := range ix.organizations {
		if org.ID == id {
			return org, true
		}
	}
	return nil, false
}

// SystemLinkedData returns a publishable copy of a system record: public
// fields only, with the publisher reference replaced by the full cleaned
// organization record when it resolves. Returns ok=false when no system
// carries the slug.
func (ix *Index) SystemLinkedData(slug string) (map[string]any, bool) {
	sys, ok := ix.FindSystemBySlug(slug)
	if !ok {
		return nil, false
	}

	doc := sys.LinkedData()
	if pubID := sys.PublisherID(); pubID != "" {
		if org, ok := ix.FindOrganizationByID(pubID); ok {
			doc["publisher"] = org.LinkedData()
		}
	}
	return doc, true
}

// SystemOptions returns the dropdown options: every system carrying both a
// slug and a display name, sorted case-insensitively by display name.
func (ix *Index) SystemOptions() []Option {
	var options []Option
	for _, sys := range ix.systems {
		if sys.Slug() != "" && sys.Internal.DisplayName != "" {
			options = append(options, Option{Slug: sys.Slug(), DisplayName: sys.Internal.DisplayName})
		}
	}
	sort.SliceStable(options, func(i, j int) bool {
		return strings.ToLower(options[i].DisplayName) < strings.ToLower(options[j].DisplayName)
	})
	return options
}

// Size returns the number of loaded systems and organizations.
func (ix *Index) Size() (systems, organizations int) {
	return len(ix.systems), len(ix.organizations)
}
