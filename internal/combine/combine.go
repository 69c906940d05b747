// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package combine synthesizes new modulation progressions by chaining
// compatible pairs from a catalog. Two progressions chain when the first
// arrives in the mode the second departs from; the splice drops the
// duplicated join-point chord and re-bases the second progression's chord
// roots onto the first progression's tonic frame.
//
// A progression whose from_mode equals its to_mode is compatible with
// itself and is combined with itself, yielding a doubled loop. That
// mirrors the catalog's established behavior and is kept deliberately.
package combine

import (
	"fmt"
	"io"
	"sort"

	"github.com/laurentVeliscek/modulations-V2/pkg/types"
)

// commentMarker tags comments on chords taken from the second progression
// so the combined record shows where they came from.
const commentMarker = "[from prog2] "

// mod12 normalizes n to the pitch-class range [0, 12), wrapping negatives.
func mod12(n int) int {
	n %= 12
	if n < 0 {
		n += 12
	}
	return n
}

// Compatible reports whether b can logically begin where a ends.
// Not symmetric: Compatible(a, b) says nothing about Compatible(b, a).
func Compatible(a, b types.Progression) bool {
	return a.ToMode == b.FromMode
}

// Combine splices two compatible progressions into a new one with id newID.
// The result starts in a.FromMode, ends in b.ToMode, and transposes by the
// sum of both offsets mod 12 (transposition offsets compose additively
// under pitch-class arithmetic). a's final chord is dropped: it and b's
// first chord are the same arrival point under the chain. Every chord in
// the result is a deep copy; nothing is shared with a or b.
//
// The chord model folds a present-but-empty comment field into no comment,
// so an empty comment on one of b's chords stays absent rather than
// becoming a bare provenance marker.
func Combine(a, b types.Progression, newID int) (types.Progression, error) {
	if len(a.Chords) == 0 || len(b.Chords) == 0 {
		return types.Progression{}, fmt.Errorf(
			"combining progressions %d and %d: empty chord sequence", a.ID, b.ID)
	}

	out := types.Progression{
		ID:                  newID,
		ModulationTechnique: fmt.Sprintf("combo %s %s", a.ModulationTechnique, b.ModulationTechnique),
		Style:               mergeStyles(a.Style, b.Style),
		FromMode:            a.FromMode,
		ToRoot:              mod12(a.ToRoot + b.ToRoot),
		ToMode:              b.ToMode,
		Chords:              make([]types.Chord, 0, len(a.Chords)+len(b.Chords)-1),
	}

	for _, chord := range a.Chords[:len(a.Chords)-1] {
		out.Chords = append(out.Chords, chord.Clone())
	}

	// b's chord roots are relative to b's own starting tonic; shift them
	// by a's total offset to express them in a's frame.
	offset := a.ToRoot
	for _, chord := range b.Chords {
		c := chord.Clone()
		c.KeyRoot = mod12(c.KeyRoot + offset)
		if c.Comment != "" {
			c.Comment = commentMarker + c.Comment
		}
		out.Chords = append(out.Chords, c)
	}

	return out, nil
}

// mergeStyles unions two tag lists, deduplicated and sorted. Tag order
// carries no meaning; sorting keeps output deterministic across runs.
func mergeStyles(a, b []string) []string {
	set := make(map[string]struct{}, len(a)+len(b))
	for _, s := range a {
		set[s] = struct{}{}
	}
	for _, s := range b {
		set[s] = struct{}{}
	}
	merged := make([]string, 0, len(set))
	for s := range set {
		merged = append(merged, s)
	}
	sort.Strings(merged)
	return merged
}

// GenerateAll enumerates every ordered pair of catalog progressions,
// including self-pairs, and returns one combined progression per
// compatible pair in discovery order. New ids start at max(existing)+1 and
// increment per record; the id counter is local, so the function is a pure
// transformation of its input. The catalog itself is never modified.
// Per-pair progress lines go to w; pass io.Discard to silence them.
func GenerateAll(catalog []types.Progression, w io.Writer) ([]types.Progression, error) {
	if len(catalog) == 0 {
		return nil, nil
	}

	nextID := catalog[0].ID
	for _, p := range catalog[1:] {
		if p.ID > nextID {
			nextID = p.ID
		}
	}
	nextID++

	var combined []types.Progression
	for _, p1 := range catalog {
		for _, p2 := range catalog {
			if !Compatible(p1, p2) {
				continue
			}

			prog, err := Combine(p1, p2, nextID)
			if err != nil {
				return nil, err
			}
			combined = append(combined, prog)
			nextID++

			fmt.Fprintf(w, "Combined progression %d -> %d (new ID: %d)\n", p1.ID, p2.ID, prog.ID)
			fmt.Fprintf(w, "  %s -> %s (root +%d) + %s -> %s (root +%d)\n",
				p1.FromMode, p1.ToMode, p1.ToRoot, p2.FromMode, p2.ToMode, p2.ToRoot)
			fmt.Fprintf(w, "  = %s -> %s (root +%d)\n", prog.FromMode, prog.ToMode, prog.ToRoot)
			fmt.Fprintf(w, "  Chords: %d + %d - 1 = %d\n\n",
				len(p1.Chords), len(p2.Chords), len(prog.Chords))
		}
	}

	return combined, nil
}
