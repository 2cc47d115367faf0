package model

import "strings"

// Fixed output column names
const (
	ColumnID            = "id"
	ColumnBookNumber    = "book_number"
	ColumnBookLabel     = "book_label"
	ColumnChapterNumber = "chapter_number"
	ColumnChapterID     = "chapter_id"
)

// Logical column types of the output table
const (
	TypeInteger  = "INTEGER"
	TypeSmallInt = "SMALLINT"
	TypeLabel    = "VARCHAR(16)"
	TypeText     = "TEXT"
)

// TableMetadata contains the structure information for the output table
type TableMetadata struct {
	Schema      string   // Schema name used by the SQL load script
	Table       string   // Table name used by the SQL load script
	Columns     []Column // Column definitions in output order
	PrimaryKeys []string // List of primary key column names
}

// Column represents metadata about an output column
type Column struct {
	Name         string // Column name as written in the header
	DataType     string // Logical data type
	PgType       string // Mapped PostgreSQL type, filled by the converter when empty
	Nullable     bool   // Whether column allows NULL values
	IsPrimaryKey bool   // Whether column is part of primary key
}

// TextColumn names the text column for a language, e.g. "latin_text"
func TextColumn(lang string) string {
	return normalizeColumnName(lang) + "_text"
}

// WordCountColumn names the word count column for a language, e.g. "latin_word_count"
func WordCountColumn(lang string) string {
	return normalizeColumnName(lang) + "_word_count"
}

// OutputTable describes the combined table for a source/target language pair.
// Column order: id, book_number, book_label, chapter_number, chapter_id,
// source text, target text, source word count, target word count.
func OutputTable(schema, table, sourceLang, targetLang string) *TableMetadata {
	return &TableMetadata{
		Schema: schema,
		Table:  table,
		Columns: []Column{
			{Name: ColumnID, DataType: TypeInteger, IsPrimaryKey: true},
			{Name: ColumnBookNumber, DataType: TypeSmallInt},
			{Name: ColumnBookLabel, DataType: TypeLabel},
			{Name: ColumnChapterNumber, DataType: TypeInteger},
			{Name: ColumnChapterID, DataType: TypeLabel},
			{Name: TextColumn(sourceLang), DataType: TypeText},
			{Name: TextColumn(targetLang), DataType: TypeText},
			{Name: WordCountColumn(sourceLang), DataType: TypeInteger},
			{Name: WordCountColumn(targetLang), DataType: TypeInteger},
		},
		PrimaryKeys: []string{ColumnID},
	}
}

// ColumnNames returns the header in output order
func (tm *TableMetadata) ColumnNames() []string {
	names := make([]string, len(tm.Columns))
	for i, col := range tm.Columns {
		names[i] = col.Name
	}
	return names
}

// GetColumnByName returns a column by name (case-insensitive)
// Returns nil if column not found
func (tm *TableMetadata) GetColumnByName(name string) *Column {
	normalizedName := normalizeColumnName(name)
	for i, col := range tm.Columns {
		if normalizeColumnName(col.Name) == normalizedName {
			return &tm.Columns[i]
		}
	}
	return nil
}

// IsInteger reports whether the column holds integer values
func (col *Column) IsInteger() bool {
	return col.DataType == TypeInteger || col.DataType == TypeSmallInt
}

func normalizeColumnName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
