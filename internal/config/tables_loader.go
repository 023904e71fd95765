package config

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/verdant/canopy/internal/analysis"
)

// LoadTablesFile loads and validates an analysis tables override file
// using Koanf. Returns the parsed and validated TablesFile or an error.
//
// Error cases:
//   - File not found or cannot be read
//   - Invalid YAML syntax
//   - Schema validation failure (unsupported version, unknown severity
//     names, malformed pairs or recommendations)
func LoadTablesFile(filepath string) (*TablesFile, error) {
	k := koanf.New(".")

	if err := k.Load(file.Provider(filepath), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load tables config from %q: %w", filepath, err)
	}

	var tf TablesFile
	if err := k.UnmarshalWithConf("", &tf, koanf.UnmarshalConf{Tag: "yaml"}); err != nil {
		return nil, fmt.Errorf("failed to parse tables config from %q: %w", filepath, err)
	}

	if err := tf.Validate(); err != nil {
		return nil, fmt.Errorf("tables config validation failed for %q: %w", filepath, err)
	}

	return &tf, nil
}

// ResolveTables produces the effective analysis tables for a deployment:
// the built-in greenhouse defaults, with the override file merged on top
// when a path is given. The merged result is validated so a bad override
// never reaches an engine.
func ResolveTables(filepath string) (analysis.Tables, error) {
	tables := analysis.DefaultTables()
	if filepath == "" {
		return tables, nil
	}

	tf, err := LoadTablesFile(filepath)
	if err != nil {
		return analysis.Tables{}, err
	}

	tables = tf.Merge(tables)
	if err := tables.Validate(); err != nil {
		return analysis.Tables{}, fmt.Errorf("merged tables invalid for %q: %w", filepath, err)
	}
	return tables, nil
}
