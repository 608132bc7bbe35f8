package cabs

import (
	"io"

	"gopkg.in/yaml.v3"
)

// DeclarationRecord is the serializable form of a Declaration.
type DeclarationRecord struct {
	Name       string            `yaml:"name,omitempty"`
	Storage    string            `yaml:"storage,omitempty"`
	Inline     bool              `yaml:"inline,omitempty"`
	Type       TypeRecord        `yaml:"type"`
	Declarator *DeclaratorRecord `yaml:"declarator,omitempty"`
	Line       int               `yaml:"line,omitempty"`
}

// TypeRecord is the serializable form of a Type.
type TypeRecord struct {
	Qualifiers []string `yaml:"qualifiers,omitempty"`
	Specifiers []string `yaml:"specifiers,omitempty"`
}

// DeclaratorRecord is the serializable form of a Declarator. Array holds the
// dimensions leftmost first, "" for an unsized one.
type DeclaratorRecord struct {
	Identifier  string            `yaml:"identifier,omitempty"`
	Pointer     *DeclaratorRecord `yaml:"pointer,omitempty"`
	Qualifiers  []string          `yaml:"qualifiers,omitempty"`
	Array       []string          `yaml:"array,omitempty"`
	Function    bool              `yaml:"function,omitempty"`
	Parameters  []ParameterRecord `yaml:"parameters,omitempty"`
	Variadic    bool              `yaml:"variadic,omitempty"`
	Initializer string            `yaml:"initializer,omitempty"`
}

// ParameterRecord is the serializable form of a Parameter.
type ParameterRecord struct {
	Type       TypeRecord        `yaml:"type"`
	Storage    string            `yaml:"storage,omitempty"`
	Declarator *DeclaratorRecord `yaml:"declarator,omitempty"`
}

// Record converts d into its serializable form.
func Record(d *Declaration) DeclarationRecord {
	return DeclarationRecord{
		Name:       d.Name(),
		Storage:    d.Storage,
		Inline:     d.Inline,
		Type:       recordType(d.Type),
		Declarator: recordDeclarator(d.Declarator),
		Line:       d.Line,
	}
}

func recordType(t Type) TypeRecord {
	r := TypeRecord{}
	if len(t.Qualifiers) > 0 {
		r.Qualifiers = append(r.Qualifiers, t.Qualifiers...)
	}
	if len(t.Specifiers) > 0 {
		r.Specifiers = append(r.Specifiers, t.Specifiers...)
	}
	return r
}

func recordDeclarator(d *Declarator) *DeclaratorRecord {
	if d == nil {
		return nil
	}
	r := &DeclaratorRecord{
		Identifier: d.Identifier,
		Pointer:    recordDeclarator(d.Pointer),
		Function:   d.IsFunction(),
		Variadic:   d.Variadic,
	}
	if len(d.Qualifiers) > 0 {
		r.Qualifiers = append(r.Qualifiers, d.Qualifiers...)
	}
	for _, size := range d.Dimensions() {
		r.Array = append(r.Array, ExprString(size))
	}
	for _, p := range d.Parameters {
		r.Parameters = append(r.Parameters, ParameterRecord{
			Type:       recordType(p.Type),
			Storage:    p.Storage,
			Declarator: recordDeclarator(p.Declarator),
		})
	}
	if d.Initializer != nil {
		r.Initializer = ExprString(d.Initializer)
	}
	return r
}

// WriteYAML encodes the records of decls as one YAML sequence.
func WriteYAML(w io.Writer, decls []*Declaration) error {
	records := make([]DeclarationRecord, 0, len(decls))
	for _, d := range decls {
		records = append(records, Record(d))
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(records); err != nil {
		return err
	}
	return enc.Close()
}
