// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ExportConfig holds settings for the export pipeline.
type ExportConfig struct {
	// InputDir is the root directory searched recursively for *.html files (default ".").
	InputDir string `json:"input" yaml:"input" mapstructure:"input"`

	// OutputPath is the Markdown file written by the export (default "flomo_export.md").
	// An existing file is overwritten.
	OutputPath string `json:"out" yaml:"out" mapstructure:"out"`
}

// IndexConfig holds settings for the memo index.
type IndexConfig struct {
	// DBPath is the SQLite database file (default "flomo.db").
	DBPath string `json:"db" yaml:"db" mapstructure:"db"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}
