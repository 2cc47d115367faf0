package config

import (
	"errors"
	"fmt"
	"regexp"
)

// SQLExportConfig holds settings for the PostgreSQL load script written next
// to the output table. The script is a flat file; nothing connects to a database.
type SQLExportConfig struct {
	ScriptPath string `env:"SQL_SCRIPT_PATH"` // empty disables the script
	Schema     string `env:"SQL_SCHEMA" env-default:"public"`
	Table      string `env:"SQL_TABLE" env-default:"imitation"`
}

// TemplateConfig holds paths for the manual alignment sheet generator
type TemplateConfig struct {
	RawFile    string `env:"RAW_LATIN_FILE" env-default:"data/raw/raw_latin_kempis.txt"`
	OutputFile string `env:"TEMPLATE_OUTPUT_FILE" env-default:"data/manual_template.csv"`
}

var sqlIdentPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Enabled reports whether a load script should be written after a run
func (c SQLExportConfig) Enabled() bool {
	return c.ScriptPath != ""
}

// Validate checks schema and table names
func (c SQLExportConfig) Validate() error {
	if c.Schema == "" {
		return errors.New("SQL schema name is required")
	}
	if c.Table == "" {
		return errors.New("SQL table name is required")
	}
	if !sqlIdentPattern.MatchString(c.Schema) {
		return fmt.Errorf("invalid SQL schema name %q", c.Schema)
	}
	if !sqlIdentPattern.MatchString(c.Table) {
		return fmt.Errorf("invalid SQL table name %q", c.Table)
	}
	return nil
}
