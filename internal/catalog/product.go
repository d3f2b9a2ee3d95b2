package catalog

import (
	"fmt"
	"strings"
)

// Product is one record of the catalog document. The editor owns the schema;
// the server only guarantees the parts it depends on (the slug), so unknown
// fields pass through untouched.
type Product map[string]any

// Slug returns the product's identity key, or "" when absent/blank.
func (p Product) Slug() string {
	v, ok := p["slug"]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// Catalog is the whole ordered product list. It is always replaced wholesale.
type Catalog []Product

// ValidationError reports the first structurally broken record.
type ValidationError struct {
	Index  int
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("item %d: %s", e.Index, e.Reason)
}

// Validate checks that every element is a record carrying a non-empty slug.
// Duplicate slugs are allowed; only presence is enforced.
func (c Catalog) Validate() error {
	for i, p := range c {
		if p == nil {
			return &ValidationError{Index: i, Reason: "not an object"}
		}
		if p.Slug() == "" {
			return &ValidationError{Index: i, Reason: "missing 'slug'"}
		}
	}
	return nil
}

// LastSlug is the slug of the final record, used by the editor for redirects.
func (c Catalog) LastSlug() string {
	if len(c) == 0 {
		return ""
	}
	return c[len(c)-1].Slug()
}
