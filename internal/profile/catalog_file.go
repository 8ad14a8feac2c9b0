package profile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type catalogFile struct {
	Default       *Profile           `yaml:"default"`
	Categories    map[string]Profile `yaml:"categories"`
	Subcategories []struct {
		Category    string  `yaml:"category"`
		Subcategory string  `yaml:"subcategory"`
		Profile     Profile `yaml:",inline"`
	} `yaml:"subcategories"`
}

// LoadCatalogFile reads a YAML catalog. Sections the file leaves out fall
// back to the built-in catalog; unknown todo conditions are rejected.
func LoadCatalogFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes a YAML catalog document.
func ParseCatalog(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse profile catalog: %w", err)
	}

	catalog := BuiltinCatalog()
	if f.Default != nil {
		catalog.Default = *f.Default
	}
	if f.Categories != nil {
		catalog.Categories = f.Categories
	}
	if f.Subcategories != nil {
		catalog.Subcategories = make(map[SubcategoryKey]Profile, len(f.Subcategories))
		for _, s := range f.Subcategories {
			if s.Category == "" || s.Subcategory == "" {
				return nil, fmt.Errorf("subcategory override needs both category and subcategory")
			}
			catalog.Subcategories[SubcategoryKey{s.Category, s.Subcategory}] = s.Profile
		}
	}

	if err := checkWeights("default", catalog.Default); err != nil {
		return nil, err
	}
	for name, p := range catalog.Categories {
		if err := checkWeights(name, p); err != nil {
			return nil, err
		}
	}
	for key, p := range catalog.Subcategories {
		if err := checkWeights(key.Category+"/"+key.Subcategory, p); err != nil {
			return nil, err
		}
	}

	return catalog, nil
}

func checkWeights(name string, p Profile) error {
	for key, w := range p.Weights {
		if w < 0 {
			return fmt.Errorf("profile %s: weight %q is negative", name, key)
		}
	}
	return nil
}
