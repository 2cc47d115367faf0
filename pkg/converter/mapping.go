package converter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/David-Botos/kempis-corpus/pkg/model"
)

var varcharLengthPattern = regexp.MustCompile(`VARCHAR\((\d+)\)`)

// getBaseType extracts the base type from a complex type definition
func getBaseType(fullType string) string {
	parts := strings.Split(fullType, "(")
	return strings.TrimSpace(parts[0])
}

// MapColumnType converts a logical column type to PostgreSQL
func (c *RowConverter) MapColumnType(dataType string) (string, error) {
	if dataType == "" {
		return "TEXT", nil
	}

	dataType = strings.ToUpper(dataType)

	switch getBaseType(dataType) {
	case "INTEGER", "INT":
		return "INTEGER", nil
	case "SMALLINT":
		return "SMALLINT", nil
	case "VARCHAR":
		return c.handleVarcharType(dataType), nil
	case "TEXT":
		return "TEXT", nil
	default:
		c.logger.Warn("Unknown column type encountered",
			zap.String("dataType", dataType))
		return "TEXT", fmt.Errorf("unknown column type: %s", dataType)
	}
}

// handleVarcharType keeps small VARCHARs and turns oversized ones into TEXT
func (c *RowConverter) handleVarcharType(fullType string) string {
	matches := varcharLengthPattern.FindStringSubmatch(fullType)
	if len(matches) < 2 {
		return "TEXT"
	}

	length, err := strconv.Atoi(matches[1])
	if err != nil || length <= 0 || length > c.config.MaxVarcharLength {
		c.logger.Debug("Converting VARCHAR to TEXT",
			zap.String("original", fullType))
		return "TEXT"
	}

	return fmt.Sprintf("VARCHAR(%d)", length)
}

// quoteIdentifier properly quotes and escapes a PostgreSQL identifier
func quoteIdentifier(name string) string {
	return pq.QuoteIdentifier(name)
}

// qualifiedTable returns "schema"."table"
func (c *RowConverter) qualifiedTable() string {
	return quoteIdentifier(c.table.Schema) + "." + quoteIdentifier(c.table.Table)
}

// LoadScript renders a psql script that creates the output table and bulk
// loads the TSV at dataPath with \copy
func (c *RowConverter) LoadScript(dataPath string) (string, error) {
	definitions, err := c.GenerateColumnDefinitions()
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("-- Load script for the combined parallel corpus table.\n")
	sb.WriteString("-- Run with: psql -v ON_ERROR_STOP=1 -f <this file>\n\n")
	sb.WriteString("BEGIN;\n\n")

	fmt.Fprintf(&sb, "CREATE SCHEMA IF NOT EXISTS %s;\n\n", quoteIdentifier(c.table.Schema))
	fmt.Fprintf(&sb, "CREATE TABLE IF NOT EXISTS %s (\n", c.qualifiedTable())
	for _, def := range definitions {
		fmt.Fprintf(&sb, "    %s,\n", def)
	}

	keys := make([]string, len(c.table.PrimaryKeys))
	for i, key := range c.table.PrimaryKeys {
		keys[i] = quoteIdentifier(key)
	}
	fmt.Fprintf(&sb, "    PRIMARY KEY (%s),\n", strings.Join(keys, ", "))
	fmt.Fprintf(&sb, "    UNIQUE (%s, %s),\n",
		quoteIdentifier(model.ColumnBookNumber), quoteIdentifier(model.ColumnChapterNumber))
	fmt.Fprintf(&sb, "    CHECK (%s BETWEEN 1 AND %d)\n", quoteIdentifier(model.ColumnBookNumber), model.BookCount)
	sb.WriteString(");\n\n")

	fmt.Fprintf(&sb, "TRUNCATE %s;\n\n", c.qualifiedTable())

	// psql meta-commands must stay on one line. Empty text cells are written
	// unquoted, which csv COPY reads as NULL unless forced.
	fmt.Fprintf(&sb, "\\copy %s (%s) FROM %s WITH (FORMAT csv, DELIMITER E'\\t', HEADER true, ENCODING 'UTF8', FORCE_NOT_NULL (%s))\n\n",
		c.qualifiedTable(), c.quotedColumnList(), strings.TrimSpace(pq.QuoteLiteral(dataPath)), c.quotedTextColumnList())

	sb.WriteString("COMMIT;\n")
	return sb.String(), nil
}

func (c *RowConverter) quotedColumnList() string {
	names := c.table.ColumnNames()
	for i, name := range names {
		names[i] = quoteIdentifier(name)
	}
	return strings.Join(names, ", ")
}

// quotedTextColumnList lists the non-integer columns, in table order
func (c *RowConverter) quotedTextColumnList() string {
	var names []string
	for i := range c.table.Columns {
		if col := &c.table.Columns[i]; !col.IsInteger() {
			names = append(names, quoteIdentifier(col.Name))
		}
	}
	return strings.Join(names, ", ")
}
