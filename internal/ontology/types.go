package ontology

import (
	"fmt"
	"strings"
)

// DataType is the declared type of an ontology property.
type DataType string

const (
	TypeString  DataType = "string"
	TypeNumber  DataType = "number"
	TypeDate    DataType = "date"
	TypeBoolean DataType = "boolean"
)

// IsValid returns true if the data type is one of the four known types.
func (t DataType) IsValid() bool {
	switch t {
	case TypeString, TypeNumber, TypeDate, TypeBoolean:
		return true
	default:
		return false
	}
}

// Level is the row granularity an entity lives at.
// Levels are ordered: header < operation < line_item.
type Level string

const (
	LevelHeader    Level = "header"
	LevelOperation Level = "operation"
	LevelLineItem  Level = "line_item"
)

// Rank returns the position of the level in the header < operation < line_item order.
// Unknown levels rank as header.
func (l Level) Rank() int {
	switch l {
	case LevelOperation:
		return 1
	case LevelLineItem:
		return 2
	default:
		return 0
	}
}

// IsValid returns true if the level is known.
func (l Level) IsValid() bool {
	return l == LevelHeader || l == LevelOperation || l == LevelLineItem
}

// FieldID identifies an ontology property as "entity.property".
type FieldID string

// NewFieldID builds a field identifier.
func NewFieldID(entity, property string) FieldID {
	return FieldID(entity + "." + property)
}

// Split returns the entity and property parts of the identifier.
func (id FieldID) Split() (entity, property string) {
	e, p, ok := strings.Cut(string(id), ".")
	if !ok {
		return "", string(id)
	}

	return e, p
}

// Property is a typed attribute of an ontology entity.
type Property struct {
	Entity      string   `yaml:"-" json:"entity"`
	Key         string   `yaml:"key" json:"key"`
	DisplayName string   `yaml:"display_name" json:"display_name"`
	DataType    DataType `yaml:"data_type" json:"data_type"`
	Required    bool     `yaml:"required,omitempty" json:"required"`

	// Derivable marks properties that customers usually derive with a
	// business rule rather than export directly (rates, shift codes).
	Derivable bool `yaml:"derivable,omitempty" json:"derivable,omitempty"`
}

// ID returns the property's field identifier.
func (p Property) ID() FieldID {
	return NewFieldID(p.Entity, p.Key)
}

// Entity is a group of properties at a given row granularity.
type Entity struct {
	Key         string     `yaml:"key" json:"key"`
	DisplayName string     `yaml:"display_name" json:"display_name"`
	Level       Level      `yaml:"level" json:"level"`
	Properties  []Property `yaml:"properties" json:"properties"`
}

// Catalog is the full ontology.
type Catalog struct {
	Version  string   `yaml:"version" json:"version"`
	Entities []Entity `yaml:"entities" json:"entities"`

	index map[FieldID]Property
}

// Properties returns every property in catalog order.
func (c *Catalog) Properties() []Property {
	var out []Property
	for _, e := range c.Entities {
		out = append(out, e.Properties...)
	}

	return out
}

// PropertiesForLevel returns the properties of every entity whose level is at
// or above the given granularity, in catalog order.
func (c *Catalog) PropertiesForLevel(level Level) []Property {
	var out []Property

	for _, e := range c.Entities {
		if e.Level.Rank() <= level.Rank() {
			out = append(out, e.Properties...)
		}
	}

	return out
}

// Required returns every required property in catalog order.
func (c *Catalog) Required() []Property {
	var out []Property

	for _, p := range c.Properties() {
		if p.Required {
			out = append(out, p)
		}
	}

	return out
}

// Lookup returns the property with the given identifier.
func (c *Catalog) Lookup(id FieldID) (Property, bool) {
	p, ok := c.index[id]
	return p, ok
}

// Entity returns the entity with the given key.
func (c *Catalog) Entity(key string) (Entity, bool) {
	for _, e := range c.Entities {
		if e.Key == key {
			return e, true
		}
	}

	return Entity{}, false
}

// buildIndex stamps entity keys onto properties and validates uniqueness.
func (c *Catalog) buildIndex() error {
	c.index = make(map[FieldID]Property)

	for i := range c.Entities {
		e := &c.Entities[i]
		if e.Key == "" {
			return fmt.Errorf("entity #%d has no key", i)
		}

		if e.Level == "" {
			e.Level = LevelHeader
		}

		if !e.Level.IsValid() {
			return fmt.Errorf("entity %q: unknown level %q", e.Key, e.Level)
		}

		for j := range e.Properties {
			p := &e.Properties[j]
			p.Entity = e.Key

			if p.Key == "" {
				return fmt.Errorf("entity %q: property #%d has no key", e.Key, j)
			}

			if !p.DataType.IsValid() {
				return fmt.Errorf("property %s: unknown data type %q", p.ID(), p.DataType)
			}

			if p.DisplayName == "" {
				p.DisplayName = p.Key
			}

			if _, dup := c.index[p.ID()]; dup {
				return fmt.Errorf("duplicate property %s", p.ID())
			}

			c.index[p.ID()] = *p
		}
	}

	return nil
}

// NewCatalog builds a catalog from entities. Used by tests and callers that
// assemble a catalog in code.
func NewCatalog(version string, entities ...Entity) (*Catalog, error) {
	c := &Catalog{Version: version, Entities: entities}
	if err := c.buildIndex(); err != nil {
		return nil, err
	}

	return c, nil
}

// Synonyms maps a property key to its known domain aliases.
type Synonyms map[string][]string

// For returns the synonym set for a property key: the key itself followed by its aliases.
func (s Synonyms) For(key string) []string {
	out := make([]string, 0, len(s[key])+1)
	out = append(out, key)

	return append(out, s[key]...)
}
