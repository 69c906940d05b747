// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/laurentVeliscek/modulations-V2/pkg/types"
)

const sampleJSON = `[
    {
        "id": 1,
        "modulation_technique": "pivot chord",
        "style": ["jazz"],
        "from_mode": "ionian",
        "to_root": 2,
        "to_mode": "dorian",
        "chords": [
            {"key_root": 0, "degree": "I", "quality": "maj7"},
            {"key_root": 2, "degree": "ii", "comment": "pivot", "voicing": {"top": "9th"}}
        ]
    }
]`

func writeSample(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_JSON(t *testing.T) {
	path := writeSample(t, "catalog.json", sampleJSON)

	progs, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(progs) != 1 {
		t.Fatalf("got %d progressions, want 1", len(progs))
	}

	p := progs[0]
	if p.ID != 1 || p.FromMode != "ionian" || p.ToMode != "dorian" || p.ToRoot != 2 {
		t.Errorf("unexpected progression fields: %+v", p)
	}
	if len(p.Chords) != 2 {
		t.Fatalf("got %d chords, want 2", len(p.Chords))
	}
	if p.Chords[1].Comment != "pivot" {
		t.Errorf("comment = %q, want %q", p.Chords[1].Comment, "pivot")
	}
	if p.Chords[0].Extra["degree"] != "I" || p.Chords[0].Extra["quality"] != "maj7" {
		t.Errorf("opaque fields not preserved: %+v", p.Chords[0].Extra)
	}
}

func TestLoad_YAML(t *testing.T) {
	path := writeSample(t, "catalog.yaml", `
- id: 4
  modulation_technique: direct
  style: [pop]
  from_mode: dorian
  to_root: 5
  to_mode: mixolydian
  chords:
    - key_root: 0
      degree: i
    - key_root: 5
`)

	progs, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(progs) != 1 || progs[0].ID != 4 {
		t.Fatalf("unexpected progressions: %+v", progs)
	}
	if progs[0].Chords[0].Extra["degree"] != "i" {
		t.Errorf("opaque YAML field not preserved: %+v", progs[0].Chords[0].Extra)
	}
}

func TestLoad_Malformed(t *testing.T) {
	if _, err := Load(writeSample(t, "bad.json", `{not json`)); err == nil {
		t.Fatal("want error for malformed JSON")
	}
	if _, err := Load(writeSample(t, "chord.json", `[{"id":1,"chords":[{"quality":"maj"}]}]`)); err == nil {
		t.Fatal("want error for chord without key_root")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("want error for missing file")
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	src := writeSample(t, "catalog.json", sampleJSON)
	progs, err := Load(src)
	if err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(t.TempDir(), "expanded.json")
	if err := Save(out, progs); err != nil {
		t.Fatal(err)
	}

	again, err := Load(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(again) != len(progs) {
		t.Fatalf("round trip lost records: %d != %d", len(again), len(progs))
	}
	if again[0].Chords[1].Extra["voicing"].(map[string]any)["top"] != "9th" {
		t.Errorf("nested opaque field lost in round trip: %+v", again[0].Chords[1].Extra)
	}

	// No stray temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(out))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Errorf("leftover temp file: %s", e.Name())
		}
	}
}

func TestSave_JSONShape(t *testing.T) {
	out := filepath.Join(t.TempDir(), "catalog.json")
	progs := []types.Progression{{
		ID: 1, ModulationTechnique: "a & b", Style: []string{"jazz"},
		FromMode: "ionian", ToMode: "dorian", ToRoot: 2,
		Chords: []types.Chord{{KeyRoot: 0}},
	}}
	if err := Save(out, progs); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "\n    ") {
		t.Error("expected four-space indentation")
	}
	if !strings.Contains(string(data), `a & b`) {
		t.Error("expected unescaped text output")
	}
	if !json.Valid(data) {
		t.Error("output is not valid JSON")
	}
}

func TestValidate(t *testing.T) {
	valid := func() []types.Progression {
		return []types.Progression{
			{ID: 1, ModulationTechnique: "pivot", FromMode: "ionian", ToMode: "dorian", ToRoot: 2,
				Chords: []types.Chord{{KeyRoot: 0}, {KeyRoot: 2}}},
			{ID: 2, ModulationTechnique: "direct", FromMode: "dorian", ToMode: "lydian", ToRoot: 5,
				Chords: []types.Chord{{KeyRoot: 0}}},
		}
	}

	if err := Validate(valid()); err != nil {
		t.Fatalf("valid catalog rejected: %v", err)
	}
	if err := Validate(nil); err != nil {
		t.Fatalf("empty catalog rejected: %v", err)
	}

	cases := map[string]func([]types.Progression) []types.Progression{
		"duplicate id":       func(p []types.Progression) []types.Progression { p[1].ID = 1; return p },
		"missing technique":  func(p []types.Progression) []types.Progression { p[0].ModulationTechnique = ""; return p },
		"missing from_mode":  func(p []types.Progression) []types.Progression { p[0].FromMode = ""; return p },
		"missing to_mode":    func(p []types.Progression) []types.Progression { p[1].ToMode = ""; return p },
		"to_root too big":    func(p []types.Progression) []types.Progression { p[0].ToRoot = 12; return p },
		"negative to_root":   func(p []types.Progression) []types.Progression { p[0].ToRoot = -1; return p },
		"empty chords":       func(p []types.Progression) []types.Progression { p[1].Chords = nil; return p },
		"key_root too big":   func(p []types.Progression) []types.Progression { p[0].Chords[1].KeyRoot = 13; return p },
	}

	for name, mutate := range cases {
		if err := Validate(mutate(valid())); err == nil {
			t.Errorf("%s: want validation error", name)
		}
	}
}

func TestDetectFormat(t *testing.T) {
	cases := map[string]Format{
		"db.json":        FormatJSON,
		"db.yaml":        FormatYAML,
		"db.YML":         FormatYAML,
		"db":             FormatJSON,
		"dir.yaml/x.txt": FormatJSON,
	}
	for path, want := range cases {
		if got := DetectFormat(path); got != want {
			t.Errorf("DetectFormat(%q) = %v, want %v", path, got, want)
		}
	}
}
