// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog loads, validates, and persists modulation catalog files.
// The on-disk format is a single ordered list of progressions, JSON by
// default or YAML when the file extension is .yaml/.yml. Unknown chord
// fields round-trip verbatim.
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/laurentVeliscek/modulations-V2/pkg/types"
)

// Format identifies the catalog file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// DetectFormat picks the encoding from the file extension. Anything that
// is not .yaml/.yml is treated as JSON, matching the catalog's historical
// default.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Load reads an ordered sequence of progressions from path.
func Load(path string) ([]types.Progression, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}

	var progs []types.Progression
	switch DetectFormat(path) {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &progs); err != nil {
			return nil, fmt.Errorf("parsing catalog %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &progs); err != nil {
			return nil, fmt.Errorf("parsing catalog %s: %w", path, err)
		}
	}
	return progs, nil
}

// Validate checks a loaded batch before any combination runs: ids must be
// unique, modes and technique labels non-empty, roots already in pitch-class
// range, and every chord sequence non-empty (the splice drops a final chord,
// so an empty sequence would be undefined). The whole batch is rejected on
// the first violation.
func Validate(progs []types.Progression) error {
	seen := make(map[int]int, len(progs))
	for i, p := range progs {
		if prev, dup := seen[p.ID]; dup {
			return fmt.Errorf("progression at index %d: duplicate id %d (also at index %d)", i, p.ID, prev)
		}
		seen[p.ID] = i

		if p.ModulationTechnique == "" {
			return fmt.Errorf("progression %d: missing modulation_technique", p.ID)
		}
		if p.FromMode == "" || p.ToMode == "" {
			return fmt.Errorf("progression %d: missing from_mode or to_mode", p.ID)
		}
		if p.ToRoot < 0 || p.ToRoot >= 12 {
			return fmt.Errorf("progression %d: to_root %d outside pitch-class range [0,12)", p.ID, p.ToRoot)
		}
		if len(p.Chords) == 0 {
			return fmt.Errorf("progression %d: empty chord sequence", p.ID)
		}
		for j, c := range p.Chords {
			if c.KeyRoot < 0 || c.KeyRoot >= 12 {
				return fmt.Errorf("progression %d: chord %d key_root %d outside pitch-class range [0,12)", p.ID, j, c.KeyRoot)
			}
		}
	}
	return nil
}

// Save writes progs to path in the format implied by its extension. The
// write goes through a temporary file in the destination directory and a
// rename, so a failed write never leaves a truncated catalog behind.
func Save(path string, progs []types.Progression) error {
	data, err := encode(DetectFormat(path), progs)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temporary catalog file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing catalog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing catalog: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing catalog %s: %w", path, err)
	}
	return nil
}

func encode(format Format, progs []types.Progression) ([]byte, error) {
	if format == FormatYAML {
		data, err := yaml.Marshal(progs)
		if err != nil {
			return nil, fmt.Errorf("marshaling YAML catalog: %w", err)
		}
		return data, nil
	}

	// Four-space indent and unescaped text, matching the source catalog
	// files so the format round-trips cleanly.
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(progs); err != nil {
		return nil, fmt.Errorf("marshaling JSON catalog: %w", err)
	}
	return buf.Bytes(), nil
}
