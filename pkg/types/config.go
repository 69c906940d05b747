// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// CatalogConfig holds the catalog file locations for the expand stage.
type CatalogConfig struct {
	// Input is the path to the source catalog (JSON or YAML by extension).
	Input string `json:"input" yaml:"input"`

	// Output is the path the expanded catalog is written to.
	Output string `json:"output" yaml:"output"`
}

// IndexConfig holds settings for the SQLite catalog index.
type IndexConfig struct {
	// IndexDir is the directory holding the index database (modulations.db).
	IndexDir string `json:"index_dir" yaml:"index_dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// Config groups all stage configurations for the CLI.
type Config struct {
	Catalog CatalogConfig `json:"catalog" yaml:"catalog"`
	Index   IndexConfig   `json:"index" yaml:"index"`
}
