package export

import (
	"bytes"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/roach88/convexpg/internal/infer"
	"github.com/roach88/convexpg/internal/schema"
)

// Config controls a conversion run. All fields are optional; DefaultConfig
// keeps column names verbatim, leaves every column nullable, and emits one
// INSERT per document.
type Config struct {
	// SnakeCaseColumns renames columns from camelCase to snake_case.
	SnakeCaseColumns bool `yaml:"snakeCaseColumns"`

	// IDPrimaryKey marks _id columns as PRIMARY KEY and adds
	// ON CONFLICT DO NOTHING to inserts, making replays idempotent.
	IDPrimaryKey bool `yaml:"idPrimaryKey"`

	// BatchSize is the number of rows per INSERT statement.
	BatchSize int `yaml:"batchSize"`

	// SampleLimit caps the documents scanned per table for type inference.
	SampleLimit int `yaml:"sampleLimit"`

	// IncludeTables restricts conversion to the named tables when non-empty.
	IncludeTables []string `yaml:"includeTables"`

	// ExcludeTables skips the named tables.
	ExcludeTables []string `yaml:"excludeTables"`

	// ColumnTypes forces column types, keyed by table name then source
	// field name. Overrides outrank every inference rule.
	ColumnTypes map[string]map[string]string `yaml:"columnTypes"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:   1,
		SampleLimit: schema.DefaultSampleLimit,
	}
}

// LoadConfig reads and validates a YAML config file. Unknown keys are
// rejected so typos surface instead of silently defaulting.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges and override type names.
func (c *Config) Validate() error {
	if c.BatchSize < 1 {
		return fmt.Errorf("batchSize must be at least 1, got %d", c.BatchSize)
	}
	if c.SampleLimit < 1 {
		return fmt.Errorf("sampleLimit must be at least 1, got %d", c.SampleLimit)
	}
	for table, cols := range c.ColumnTypes {
		for field, typeName := range cols {
			if _, ok := infer.ParseColumnType(typeName); !ok {
				return fmt.Errorf("columnTypes.%s.%s: unknown column type %q", table, field, typeName)
			}
		}
	}
	return nil
}

// TableIncluded applies the include/exclude filters to a table name.
func (c *Config) TableIncluded(name string) bool {
	if len(c.IncludeTables) > 0 && !slices.Contains(c.IncludeTables, name) {
		return false
	}
	return !slices.Contains(c.ExcludeTables, name)
}

// overridesFor returns the parsed type overrides for one table.
func (c *Config) overridesFor(table string) map[string]infer.ColumnType {
	cols := c.ColumnTypes[table]
	if len(cols) == 0 {
		return nil
	}
	out := make(map[string]infer.ColumnType, len(cols))
	for field, typeName := range cols {
		if t, ok := infer.ParseColumnType(typeName); ok {
			out[field] = t
		}
	}
	return out
}

// schemaOptions maps the config onto synthesis options for one table.
func (c *Config) schemaOptions(table string) schema.Options {
	return schema.Options{
		SnakeCase:    c.SnakeCaseColumns,
		IDPrimaryKey: c.IDPrimaryKey,
		SampleLimit:  c.SampleLimit,
		Overrides:    c.overridesFor(table),
	}
}
