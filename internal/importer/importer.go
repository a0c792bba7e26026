// Package importer loads persona bootstrap files. Files are YAML; JSON works
// too since YAML is a superset.
package importer

import (
	"errors"
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Sean220557/agentsim/pkg/types"
)

// ErrInvalidPersonaFile is returned when a bootstrap file fails validation.
var ErrInvalidPersonaFile = errors.New("invalid persona file")

type personaFile struct {
	Personas []types.Persona `yaml:"personas"`
}

// LoadPersonas reads and validates a persona bootstrap file. Persona ids must
// be unique and non-empty. Relation strengths are clamped to [0, 1],
// self-relations are dropped, and missing relation types default to
// "stranger".
func LoadPersonas(path string) ([]types.Persona, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("importer: read %s: %w", path, err)
	}
	return ParsePersonas(data)
}

// ParsePersonas validates raw persona file contents.
func ParsePersonas(data []byte) ([]types.Persona, error) {
	var file personaFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("importer: %w: %v", ErrInvalidPersonaFile, err)
	}
	if len(file.Personas) == 0 {
		return nil, fmt.Errorf("importer: %w: no personas declared", ErrInvalidPersonaFile)
	}

	seen := make(map[string]struct{}, len(file.Personas))
	for i := range file.Personas {
		p := &file.Personas[i]
		if p.ID == "" {
			return nil, fmt.Errorf("importer: %w: persona %d has no id", ErrInvalidPersonaFile, i)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("importer: %w: duplicate persona id %q", ErrInvalidPersonaFile, p.ID)
		}
		seen[p.ID] = struct{}{}

		for otherID, rel := range p.Relations {
			if otherID == p.ID {
				log.Printf("importer: persona %q declares a self-relation, dropping", p.ID)
				delete(p.Relations, otherID)
				continue
			}
			if rel.Strength < 0 {
				rel.Strength = 0
			} else if rel.Strength > 1 {
				rel.Strength = 1
			}
			if rel.Type == "" {
				rel.Type = "stranger"
			}
			p.Relations[otherID] = rel
		}
	}

	return file.Personas, nil
}
