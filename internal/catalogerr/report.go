// Package catalogerr collects structured diagnostics during catalog loading.
// The loader never stops at the first violation; it keeps going and returns
// every diagnostic found in one pass, in the order found, each tagged with
// its kind.
package catalogerr

import (
	"fmt"
	"strings"
)

// Kind classifies a diagnostic the way §7 of the specification does.
type Kind string

const (
	KindSchema      Kind = "schema"
	KindReferential Kind = "referential"
	KindInvariant   Kind = "invariant"
)

// Diagnostic is a single violation found while loading the catalog.
type Diagnostic struct {
	Kind    Kind
	Source  string // e.g. "recipes/pollo_toscano.yml" or "rules.yml:constraints"
	Message string
}

func (d Diagnostic) String() string {
	if d.Source == "" {
		return fmt.Sprintf("[%s] %s", d.Kind, d.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", d.Kind, d.Source, d.Message)
}

// Report aggregates diagnostics across a whole load. A Report with no
// diagnostics is not an error; Report implements error so it can be returned
// directly once it is known to be non-empty.
type Report struct {
	Diagnostics []Diagnostic
}

// Add appends a diagnostic.
func (r *Report) Add(kind Kind, source, format string, args ...any) {
	r.Diagnostics = append(r.Diagnostics, Diagnostic{
		Kind:    kind,
		Source:  source,
		Message: fmt.Sprintf(format, args...),
	})
}

// Schema is shorthand for Add(KindSchema, ...).
func (r *Report) Schema(source, format string, args ...any) {
	r.Add(KindSchema, source, format, args...)
}

// Referential is shorthand for Add(KindReferential, ...).
func (r *Report) Referential(source, format string, args ...any) {
	r.Add(KindReferential, source, format, args...)
}

// Invariant is shorthand for Add(KindInvariant, ...).
func (r *Report) Invariant(source, format string, args ...any) {
	r.Add(KindInvariant, source, format, args...)
}

// HasErrors reports whether any diagnostic was recorded.
func (r *Report) HasErrors() bool {
	return r != nil && len(r.Diagnostics) > 0
}

// Merge appends another report's diagnostics onto r.
func (r *Report) Merge(other *Report) {
	if other == nil {
		return
	}
	r.Diagnostics = append(r.Diagnostics, other.Diagnostics...)
}

// Error implements the error interface, joining every diagnostic onto one
// multi-line message so it can be printed to stderr as-is.
func (r *Report) Error() string {
	lines := make([]string, 0, len(r.Diagnostics))
	for _, d := range r.Diagnostics {
		lines = append(lines, d.String())
	}
	return strings.Join(lines, "\n")
}

// AsError returns r as an error if it has diagnostics, else nil. This is the
// usual way a loader stage hands its report back to its caller.
func (r *Report) AsError() error {
	if r.HasErrors() {
		return r
	}
	return nil
}
