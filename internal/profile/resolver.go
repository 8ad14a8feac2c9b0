package profile

import "strings"

// Resolver composes effective profiles from a catalog. It holds no
// per-entity state and is safe for concurrent use.
type Resolver struct {
	catalog *Catalog
}

// NewResolver creates a resolver over catalog, or the built-in catalog when nil.
func NewResolver(catalog *Catalog) *Resolver {
	if catalog == nil {
		catalog = BuiltinCatalog()
	}
	return &Resolver{catalog: catalog}
}

// Resolve returns the effective profile for a category and optional subcategory.
func (r *Resolver) Resolve(category, subcategory string) Profile {
	category = strings.TrimSpace(category)
	subcategory = strings.TrimSpace(subcategory)

	merged := r.catalog.Default.Clone()
	if override, ok := r.catalog.Categories[category]; ok {
		merged = Merge(merged, override)
	}

	if subcategory != "" {
		if override, ok := r.catalog.Subcategories[SubcategoryKey{category, subcategory}]; ok {
			merged = Merge(merged, override)
		}
	}

	return merged
}
