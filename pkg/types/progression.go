// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared domain types for the modulation catalog:
// progressions, chords, and stage configuration.
package types

import (
	"encoding/json"
	"fmt"

	"go.yaml.in/yaml/v3"
)

// Progression is a named chord sequence that moves music from one modal
// context to another. ToRoot is the total pitch-class transposition applied
// to the tonic over the course of the progression.
type Progression struct {
	// ID is unique within a catalog and never reused.
	ID int `json:"id" yaml:"id"`

	// ModulationTechnique is a human-readable label for how the
	// transition is achieved (e.g. "pivot chord", "direct").
	ModulationTechnique string `json:"modulation_technique" yaml:"modulation_technique"`

	// Style lists style tags. Order carries no meaning.
	Style []string `json:"style" yaml:"style"`

	// FromMode and ToMode name the starting and ending modal context.
	FromMode string `json:"from_mode" yaml:"from_mode"`

	// ToRoot is the pitch-class offset of the arrival tonic relative to
	// the starting tonic, in [0, 12).
	ToRoot int `json:"to_root" yaml:"to_root"`

	ToMode string `json:"to_mode" yaml:"to_mode"`

	// Chords is the concrete voicing path. Never empty in a valid
	// catalog; the last chord is the arrival at ToMode/ToRoot.
	Chords []Chord `json:"chords" yaml:"chords"`
}

// Clone returns a deep copy sharing no mutable state with p.
func (p Progression) Clone() Progression {
	out := p
	out.Style = append([]string(nil), p.Style...)
	out.Chords = make([]Chord, len(p.Chords))
	for i, c := range p.Chords {
		out.Chords[i] = c.Clone()
	}
	return out
}

// Chord is one step in a progression. KeyRoot is the pitch class of the
// chord's local tonic relative to the progression's starting tonic, in
// [0, 12). Fields other than key_root and comment (quality, degree, ...)
// are opaque to the engine: they round-trip verbatim through Extra.
type Chord struct {
	KeyRoot int
	Comment string

	// Extra holds every source field the engine does not interpret.
	Extra map[string]any
}

// Clone returns a deep copy of the chord, including nested maps and
// slices inside Extra.
func (c Chord) Clone() Chord {
	out := c
	if c.Extra != nil {
		out.Extra = deepCopyMap(c.Extra)
	}
	return out
}

func deepCopyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return deepCopyMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = deepCopyValue(e)
		}
		return out
	default:
		return v
	}
}

func (c *Chord) fromMap(raw map[string]any) error {
	if _, ok := raw["key_root"]; !ok {
		return fmt.Errorf("chord is missing key_root")
	}

	c.KeyRoot = 0
	c.Comment = ""
	c.Extra = nil

	for k, v := range raw {
		switch k {
		case "key_root":
			n, ok := asInt(v)
			if !ok {
				return fmt.Errorf("chord key_root: expected integer, got %T", v)
			}
			c.KeyRoot = n
		case "comment":
			s, ok := v.(string)
			if !ok {
				return fmt.Errorf("chord comment: expected string, got %T", v)
			}
			c.Comment = s
		default:
			if c.Extra == nil {
				c.Extra = make(map[string]any)
			}
			c.Extra[k] = v
		}
	}
	return nil
}

func (c Chord) toMap() map[string]any {
	m := make(map[string]any, len(c.Extra)+2)
	for k, v := range c.Extra {
		m[k] = v
	}
	m["key_root"] = c.KeyRoot
	if c.Comment != "" {
		m["comment"] = c.Comment
	}
	return m
}

// asInt accepts the integer encodings the JSON and YAML decoders produce.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	case json.Number:
		i, err := n.Int64()
		if err == nil {
			return int(i), true
		}
	}
	return 0, false
}

// UnmarshalJSON captures key_root and comment and preserves every other
// field in Extra.
func (c *Chord) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return c.fromMap(raw)
}

// MarshalJSON emits key_root, comment (when set), and all Extra fields.
func (c Chord) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.toMap())
}

// UnmarshalYAML mirrors UnmarshalJSON for YAML catalogs.
func (c *Chord) UnmarshalYAML(value *yaml.Node) error {
	var raw map[string]any
	if err := value.Decode(&raw); err != nil {
		return err
	}
	return c.fromMap(raw)
}

// MarshalYAML mirrors MarshalJSON for YAML catalogs.
func (c Chord) MarshalYAML() (any, error) {
	return c.toMap(), nil
}
