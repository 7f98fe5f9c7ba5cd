package kb

import "fmt"

// LoadError indicates the knowledge base could not be constructed from its
// backing files. It is fatal: an index cannot serve any request without both
// collections loaded.
type LoadError struct {
	// Path is the file or pattern that failed to load.
	Path string

	// Err is the underlying cause.
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load knowledge base %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *LoadError) Unwrap() error { return e.Err }
