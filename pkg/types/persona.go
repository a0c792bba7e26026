package types

// Personality carries the free-text persona traits the emotion subsystem
// reads. Keyword matching against Description drives deterministic emotion
// evolution; the synthesis collaborator receives it verbatim.
type Personality struct {
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	Description string `json:"description" yaml:"description"`
}

// PersonaRelation is one declared relation in a persona bootstrap record.
// Strength is in [0, 1] and maps to intimacy as 2*strength - 1.
type PersonaRelation struct {
	Type     string  `json:"type" yaml:"type"`
	Strength float64 `json:"strength" yaml:"strength"`
}

// Persona is the bootstrap record consumed from the external persona source.
type Persona struct {
	ID          string                     `json:"id" yaml:"id"`
	Name        string                     `json:"name,omitempty" yaml:"name,omitempty"`
	Description string                     `json:"description,omitempty" yaml:"description,omitempty"`
	Mood        string                     `json:"mood,omitempty" yaml:"mood,omitempty"`
	Relations   map[string]PersonaRelation `json:"relations,omitempty" yaml:"relations,omitempty"`
}

// Personality projects the persona's trait fields for the emotion subsystem.
func (p *Persona) Personality() Personality {
	return Personality{Name: p.Name, Description: p.Description}
}
