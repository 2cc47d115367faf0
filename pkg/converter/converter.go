package converter

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/David-Botos/kempis-corpus/pkg/model"
)

// RowConverter maps rows to and from the flat output record layout
type RowConverter struct {
	table  *model.TableMetadata
	logger *zap.Logger
	// Configuration options
	config TypeConverterConfig

	sourceText  string
	targetText  string
	sourceCount string
	targetCount string
}

// TypeConverterConfig provides configuration options for column type mapping
type TypeConverterConfig struct {
	// Maximum VARCHAR length before converting to TEXT
	MaxVarcharLength int
}

// DefaultConfig returns the default configuration
func DefaultConfig() TypeConverterConfig {
	return TypeConverterConfig{
		MaxVarcharLength: 10485760,
	}
}

// NewRowConverter creates a converter for the output table of a language pair
func NewRowConverter(table *model.TableMetadata, sourceLang, targetLang string, logger *zap.Logger) (*RowConverter, error) {
	if table == nil {
		return nil, errors.New("table metadata cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	c := &RowConverter{
		table:       table,
		logger:      logger,
		config:      DefaultConfig(),
		sourceText:  model.TextColumn(sourceLang),
		targetText:  model.TextColumn(targetLang),
		sourceCount: model.WordCountColumn(sourceLang),
		targetCount: model.WordCountColumn(targetLang),
	}

	for _, name := range []string{c.sourceText, c.targetText, c.sourceCount, c.targetCount} {
		if table.GetColumnByName(name) == nil {
			return nil, fmt.Errorf("table %s has no column %s", table.Table, name)
		}
	}

	return c, nil
}

// Table returns the table metadata the converter writes
func (c *RowConverter) Table() *model.TableMetadata {
	return c.table
}

// Header returns the column names in output order
func (c *RowConverter) Header() []string {
	return c.table.ColumnNames()
}

// SourceColumn is the name of the source text column
func (c *RowConverter) SourceColumn() string { return c.sourceText }

// TargetColumn is the name of the target text column
func (c *RowConverter) TargetColumn() string { return c.targetText }

// ToRecord converts a row into cell strings in header order
func (c *RowConverter) ToRecord(row model.Row) []string {
	values := c.rowValues(row)
	record := make([]string, len(c.table.Columns))
	for i, col := range c.table.Columns {
		record[i] = values[col.Name]
	}
	return record
}

func (c *RowConverter) rowValues(row model.Row) map[string]string {
	return map[string]string{
		model.ColumnID:            formatInt(row.ID),
		model.ColumnBookNumber:    formatInt(row.BookNumber),
		model.ColumnBookLabel:     row.BookLabel,
		model.ColumnChapterNumber: formatInt(row.ChapterNumber),
		model.ColumnChapterID:     row.ChapterID,
		c.sourceText:              row.SourceText,
		c.targetText:              row.TargetText,
		c.sourceCount:             formatInt(row.SourceWordCount),
		c.targetCount:             formatInt(row.TargetWordCount),
	}
}

// ValidateHeader checks that header names the expected columns in order
func (c *RowConverter) ValidateHeader(header []string) error {
	expected := c.Header()
	if len(header) != len(expected) {
		return fmt.Errorf("header has %d columns, expected %d (%s)",
			len(header), len(expected), strings.Join(expected, ", "))
	}
	for i := range expected {
		if header[i] != expected[i] {
			return fmt.Errorf("header column %d is %q, expected %q", i+1, header[i], expected[i])
		}
	}
	return nil
}

// FromRecord parses a record written by ToRecord
func (c *RowConverter) FromRecord(record []string) (model.Row, error) {
	if len(record) != len(c.table.Columns) {
		return model.Row{}, fmt.Errorf("record has %d fields, expected %d", len(record), len(c.table.Columns))
	}

	values := make(map[string]string, len(record))
	for i, col := range c.table.Columns {
		values[col.Name] = record[i]
	}

	var row model.Row
	var err error

	ints := []struct {
		column string
		dst    *int
	}{
		{model.ColumnID, &row.ID},
		{model.ColumnBookNumber, &row.BookNumber},
		{model.ColumnChapterNumber, &row.ChapterNumber},
		{c.sourceCount, &row.SourceWordCount},
		{c.targetCount, &row.TargetWordCount},
	}
	for _, f := range ints {
		if *f.dst, err = parseCount(values[f.column]); err != nil {
			return model.Row{}, fmt.Errorf("column %s: %w", f.column, err)
		}
	}

	row.BookLabel = values[model.ColumnBookLabel]
	row.ChapterID = values[model.ColumnChapterID]
	row.SourceText = values[c.sourceText]
	row.TargetText = values[c.targetText]

	return row, nil
}

// GenerateColumnDefinitions creates PostgreSQL column definitions
func (c *RowConverter) GenerateColumnDefinitions() ([]string, error) {
	definitions := make([]string, 0, len(c.table.Columns))

	for _, col := range c.table.Columns {
		pgType := col.PgType
		if pgType == "" {
			var err error
			pgType, err = c.MapColumnType(col.DataType)
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", col.Name, err)
			}
		}

		nullability := "NULL"
		if col.IsPrimaryKey || !col.Nullable {
			nullability = "NOT NULL"
		}

		definitions = append(definitions, fmt.Sprintf("%s %s %s",
			quoteIdentifier(col.Name),
			pgType,
			nullability))
	}

	return definitions, nil
}
