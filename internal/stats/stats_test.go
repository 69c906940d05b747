// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/laurentVeliscek/modulations-V2/pkg/types"
)

func TestSummarize(t *testing.T) {
	s := Summarize(3, 6)
	if s.Total != 9 {
		t.Errorf("Total = %d, want 9", s.Total)
	}
	if s.GrowthFactor != 3.0 {
		t.Errorf("GrowthFactor = %v, want 3.0", s.GrowthFactor)
	}
}

func TestSummarize_EmptyCatalog(t *testing.T) {
	s := Summarize(0, 0)
	if s.GrowthFactor != 0 {
		t.Errorf("GrowthFactor = %v, want 0 for empty catalog", s.GrowthFactor)
	}

	var buf bytes.Buffer
	s.Print(&buf)
	if !strings.Contains(buf.String(), "Growth factor: 0.00x") {
		t.Errorf("unexpected summary output:\n%s", buf.String())
	}
}

func TestCollect(t *testing.T) {
	progs := []types.Progression{
		{ID: 1, FromMode: "ionian", ToMode: "dorian", Style: []string{"jazz", "pop"},
			Chords: []types.Chord{{KeyRoot: 0}, {KeyRoot: 2}}},
		{ID: 2, FromMode: "dorian", ToMode: "dorian", Style: []string{"jazz"},
			Chords: []types.Chord{{KeyRoot: 0}}},
	}

	cs := Collect(progs)
	if cs.Progressions != 2 || cs.Chords != 3 {
		t.Errorf("counts = %d/%d, want 2/3", cs.Progressions, cs.Chords)
	}
	if cs.Modes["dorian"] != 3 {
		t.Errorf("dorian endpoint count = %d, want 3", cs.Modes["dorian"])
	}
	if cs.Styles["jazz"] != 2 {
		t.Errorf("jazz count = %d, want 2", cs.Styles["jazz"])
	}
	if cs.Transitions["ionian -> dorian"] != 1 || cs.Transitions["dorian -> dorian"] != 1 {
		t.Errorf("unexpected transitions: %+v", cs.Transitions)
	}
}
