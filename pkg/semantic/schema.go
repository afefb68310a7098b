package semantic

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Schema describes entity types declared outside the linted sources,
// typically the model assembly of a data layer.
//
//	entities:
//	  Salesman:
//	    namespace: Shop.Model
//	    properties:
//	      Orders: ICollection<Order>
//	      Name: string
type Schema struct {
	Entities map[string]Entity `yaml:"entities"`
}

// Entity is one schema entry.
type Entity struct {
	Namespace  string            `yaml:"namespace"`
	Bases      []string          `yaml:"bases"`
	Properties map[string]string `yaml:"properties"`
}

// ParseSchema decodes a YAML entity schema.
func ParseSchema(data []byte) (*Schema, error) {
	schema := &Schema{}
	if err := yaml.Unmarshal(data, schema); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	return schema, nil
}

// LoadSchema reads and decodes a YAML entity schema file.
func LoadSchema(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	return ParseSchema(data)
}

// AddSchema merges schema entities into the index. Entries for types already
// declared in source extend those declarations.
func (idx *Index) AddSchema(schema *Schema) error {
	if schema == nil {
		return nil
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	for name, entity := range schema.Entities {
		decl := newTypeDecl(entity.Namespace, name, "schema")
		for _, base := range entity.Bases {
			t := ParseType(base)
			if t == nil {
				return fmt.Errorf("entity %s: invalid base type %q", name, base)
			}
			decl.Bases = append(decl.Bases, t)
		}
		for prop, typeText := range entity.Properties {
			t := ParseType(typeText)
			if t == nil {
				return fmt.Errorf("entity %s: invalid type %q for property %s", name, typeText, prop)
			}
			decl.Properties[prop] = t
		}
		idx.addLocked(decl)
	}
	return nil
}
