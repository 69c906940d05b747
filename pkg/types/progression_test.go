// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"reflect"
	"testing"

	"go.yaml.in/yaml/v3"
)

func TestChord_JSONRoundTrip(t *testing.T) {
	in := []byte(`{"key_root": 7, "comment": "pivot", "degree": "V", "tensions": [9, 13]}`)

	var c Chord
	if err := json.Unmarshal(in, &c); err != nil {
		t.Fatal(err)
	}
	if c.KeyRoot != 7 || c.Comment != "pivot" {
		t.Errorf("unexpected chord: %+v", c)
	}
	if c.Extra["degree"] != "V" {
		t.Errorf("opaque field lost: %+v", c.Extra)
	}

	out, err := json.Marshal(c)
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]any
	if err := json.Unmarshal(out, &raw); err != nil {
		t.Fatal(err)
	}
	if raw["key_root"] != float64(7) || raw["degree"] != "V" {
		t.Errorf("round trip changed fields: %v", raw)
	}
	if tensions, ok := raw["tensions"].([]any); !ok || len(tensions) != 2 {
		t.Errorf("nested opaque value lost: %v", raw["tensions"])
	}
}

func TestChord_MissingKeyRoot(t *testing.T) {
	var c Chord
	if err := json.Unmarshal([]byte(`{"degree": "V"}`), &c); err == nil {
		t.Fatal("want error for chord without key_root")
	}
	if err := yaml.Unmarshal([]byte(`degree: V`), &c); err == nil {
		t.Fatal("want error for YAML chord without key_root")
	}
}

func TestChord_YAMLRoundTrip(t *testing.T) {
	var c Chord
	if err := yaml.Unmarshal([]byte("key_root: 3\nquality: min7\n"), &c); err != nil {
		t.Fatal(err)
	}
	if c.KeyRoot != 3 || c.Extra["quality"] != "min7" {
		t.Errorf("unexpected chord: %+v", c)
	}

	out, err := yaml.Marshal(c)
	if err != nil {
		t.Fatal(err)
	}
	var again Chord
	if err := yaml.Unmarshal(out, &again); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(c, again) {
		t.Errorf("YAML round trip changed chord: %+v != %+v", c, again)
	}
}

func TestProgression_CloneIsDeep(t *testing.T) {
	p := Progression{
		ID: 1, ModulationTechnique: "pivot", Style: []string{"jazz"},
		FromMode: "ionian", ToMode: "dorian", ToRoot: 2,
		Chords: []Chord{
			{KeyRoot: 0, Extra: map[string]any{"voicing": map[string]any{"top": "9th"}}},
			{KeyRoot: 2, Comment: "arrival"},
		},
	}

	c := p.Clone()
	c.Style[0] = "blues"
	c.Chords[0].KeyRoot = 5
	c.Chords[0].Extra["voicing"].(map[string]any)["top"] = "13th"
	c.Chords[1].Comment = "mutated"

	if p.Style[0] != "jazz" {
		t.Error("style slice shared with clone")
	}
	if p.Chords[0].KeyRoot != 0 || p.Chords[1].Comment != "arrival" {
		t.Error("chord slice shared with clone")
	}
	if p.Chords[0].Extra["voicing"].(map[string]any)["top"] != "9th" {
		t.Error("nested Extra map shared with clone")
	}
}
