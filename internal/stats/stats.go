// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package stats computes summary statistics over modulation catalogs.
package stats

import (
	"fmt"
	"io"
	"sort"

	"github.com/laurentVeliscek/modulations-V2/pkg/types"
)

// ExpansionSummary describes one expansion run.
type ExpansionSummary struct {
	Original int
	Combined int
	Total    int

	// GrowthFactor is Total/Original, or 0 when the input catalog was
	// empty (an empty catalog produces no combinations, and the ratio
	// is undefined).
	GrowthFactor float64
}

// Summarize builds an ExpansionSummary from record counts.
func Summarize(original, combined int) ExpansionSummary {
	s := ExpansionSummary{
		Original: original,
		Combined: combined,
		Total:    original + combined,
	}
	if original > 0 {
		s.GrowthFactor = float64(s.Total) / float64(original)
	}
	return s
}

// Print writes the summary block in the format the expand run ends with.
func (s ExpansionSummary) Print(w io.Writer) {
	fmt.Fprintln(w, "Statistics:")
	fmt.Fprintf(w, "  Original progressions: %d\n", s.Original)
	fmt.Fprintf(w, "  Combined progressions: %d\n", s.Combined)
	fmt.Fprintf(w, "  Total progressions: %d\n", s.Total)
	fmt.Fprintf(w, "  Growth factor: %.2fx\n", s.GrowthFactor)
}

// CatalogStats aggregates the contents of a single catalog.
type CatalogStats struct {
	Progressions int
	Chords       int

	// Modes counts appearances of each mode as an endpoint (from or to).
	Modes map[string]int

	// Styles counts tag occurrences across all progressions.
	Styles map[string]int

	// Transitions counts "from -> to" mode pairs.
	Transitions map[string]int
}

// Collect walks the catalog once and tallies modes, styles, and
// transitions.
func Collect(progs []types.Progression) CatalogStats {
	cs := CatalogStats{
		Progressions: len(progs),
		Modes:        make(map[string]int),
		Styles:       make(map[string]int),
		Transitions:  make(map[string]int),
	}
	for _, p := range progs {
		cs.Chords += len(p.Chords)
		cs.Modes[p.FromMode]++
		cs.Modes[p.ToMode]++
		cs.Transitions[p.FromMode+" -> "+p.ToMode]++
		for _, s := range p.Style {
			cs.Styles[s]++
		}
	}
	return cs
}

// Print writes the catalog breakdown as sorted count tables.
func (cs CatalogStats) Print(w io.Writer) {
	fmt.Fprintf(w, "Progressions: %d\n", cs.Progressions)
	fmt.Fprintf(w, "Chords:       %d\n", cs.Chords)

	printCounts(w, "Modes", cs.Modes)
	printCounts(w, "Styles", cs.Styles)
	printCounts(w, "Transitions", cs.Transitions)
}

func printCounts(w io.Writer, title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintf(w, "\n%s:\n", title)
	for _, k := range keys {
		fmt.Fprintf(w, "  %-40s %d\n", k, counts[k])
	}
}
