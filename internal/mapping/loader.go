package mapping

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile loads and parses a YAML or JSON mapping profile from the given path.
func LoadFile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping profile %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML (or JSON) data into a Profile.
func Parse(data []byte) (*Profile, error) {
	var p Profile

	err := yaml.Unmarshal(data, &p)
	if err != nil {
		return nil, fmt.Errorf("failed to parse mapping profile: %w", err)
	}

	// Apply defaults and normalize
	applyDefaults(&p)

	return &p, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(p *Profile) {
	if p.Version == "" {
		p.Version = "1"
	}

	for i := range p.Fields {
		f := &p.Fields[i]
		if f.SourceType != "" {
			continue
		}

		switch {
		case f.SourceColumn != "":
			f.SourceType = SourceCSV
		case f.FixedValue != nil:
			f.SourceType = SourceFixed
		case f.Rule != nil:
			f.SourceType = SourceDerived
		default:
			f.SourceType = SourceCSV
		}
	}
}

// Marshal serializes a Profile to YAML.
func Marshal(p *Profile) ([]byte, error) {
	return yaml.Marshal(p)
}

// MarshalJSON serializes a Profile to indented JSON.
func MarshalJSON(p *Profile) ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

// WriteFile writes a Profile to the given path as YAML.
func WriteFile(p *Profile, path string) error {
	data, err := Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal mapping profile: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write mapping profile %s: %w", path, err)
	}

	return nil
}
