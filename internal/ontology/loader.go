package ontology

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

//go:embed synonyms.yaml
var defaultSynonymsYAML []byte

// synonymFile is the on-disk shape of a synonym table.
type synonymFile struct {
	Version  string   `yaml:"version"`
	Synonyms Synonyms `yaml:"synonyms"`
}

// Default returns the embedded manufacturing catalog.
func Default() (*Catalog, error) {
	return ParseCatalog(defaultCatalogYAML)
}

// DefaultSynonyms returns the embedded alias table.
func DefaultSynonyms() (Synonyms, error) {
	return ParseSynonyms(defaultSynonymsYAML)
}

// MustDefault is like Default but panics on a malformed embedded catalog.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}

	return c
}

// MustDefaultSynonyms is like DefaultSynonyms but panics on a malformed embedded table.
func MustDefaultSynonyms() Synonyms {
	s, err := DefaultSynonyms()
	if err != nil {
		panic(err)
	}

	return s
}

// LoadCatalogFile loads a catalog from a YAML file.
func LoadCatalogFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}

	return ParseCatalog(data)
}

// ParseCatalog parses YAML data into a Catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
	}

	if err := c.buildIndex(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	return &c, nil
}

// LoadSynonymsFile loads a synonym table from a YAML file.
func LoadSynonymsFile(path string) (Synonyms, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read synonyms file %s: %w", path, err)
	}

	return ParseSynonyms(data)
}

// ParseSynonyms parses YAML data into a synonym table.
func ParseSynonyms(data []byte) (Synonyms, error) {
	var f synonymFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse synonyms YAML: %w", err)
	}

	if f.Synonyms == nil {
		f.Synonyms = Synonyms{}
	}

	return f.Synonyms, nil
}
