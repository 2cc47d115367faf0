package cleaner

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/David-Botos/kempis-corpus/pkg/model"
)

// DataCleaner applies Clean to every text cell of a book and records what changed
type DataCleaner struct {
	sourceColumn string
	targetColumn string
	logger       *zap.Logger
}

// NewDataCleaner creates a new DataCleaner. The column names are only used
// to label recorded operations.
func NewDataCleaner(sourceColumn, targetColumn string, logger *zap.Logger) (*DataCleaner, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if sourceColumn == "" || targetColumn == "" {
		return nil, errors.New("column names cannot be empty")
	}

	return &DataCleaner{
		sourceColumn: sourceColumn,
		targetColumn: targetColumn,
		logger:       logger,
	}, nil
}

// CleanPairs cleans both text cells of every pair and returns cleaned pairs
// in the same order, together with the operations performed
func (c *DataCleaner) CleanPairs(pairs []model.AlignedPair) ([]model.AlignedPair, []model.CleaningOperation) {
	cleanedPairs := make([]model.AlignedPair, 0, len(pairs))
	var allOperations []model.CleaningOperation

	for _, pair := range pairs {
		cleaned, operations := c.cleanSinglePair(pair)
		cleanedPairs = append(cleanedPairs, cleaned)
		allOperations = append(allOperations, operations...)
	}

	if len(allOperations) > 0 {
		c.logOperations(allOperations)
	}

	return cleanedPairs, allOperations
}

// cleanSinglePair cleans the source and target cell of one pair
func (c *DataCleaner) cleanSinglePair(pair model.AlignedPair) (model.AlignedPair, []model.CleaningOperation) {
	var operations []model.CleaningOperation

	source, ops := c.cleanCell(model.CleaningContext{
		Book:       pair.Book,
		Line:       pair.Line,
		ColumnName: c.sourceColumn,
	}, pair.Source)
	operations = append(operations, ops...)

	target, ops := c.cleanCell(model.CleaningContext{
		Book:       pair.Book,
		Line:       pair.Line,
		ColumnName: c.targetColumn,
	}, pair.Target)
	operations = append(operations, ops...)

	pair.Source = source
	pair.Target = target
	return pair, operations
}

func (c *DataCleaner) cleanCell(ctx model.CleaningContext, value string) (string, []model.CleaningOperation) {
	cleaned, applied := cleanTracked(value)
	if len(applied) == 0 {
		return cleaned, nil
	}

	operations := make([]model.CleaningOperation, 0, len(applied))
	for _, a := range applied {
		operations = append(operations, model.CleaningOperation{
			Book:              ctx.Book,
			Line:              ctx.Line,
			ColumnName:        ctx.ColumnName,
			OriginalValue:     a.before,
			NewValue:          a.after,
			CleaningOperation: a.step.operation,
			CleaningReason:    a.step.reason,
		})
	}
	return cleaned, operations
}

// logOperations writes a per-operation summary at info and every change at debug
func (c *DataCleaner) logOperations(operations []model.CleaningOperation) {
	for name, count := range model.CountByOperation(operations) {
		c.logger.Info("Recorded cleaning operations",
			zap.Int("book", operations[0].Book),
			zap.String("operation", name),
			zap.Int("count", count))
	}

	if !c.logger.Core().Enabled(zap.DebugLevel) {
		return
	}
	for _, op := range operations {
		c.logger.Debug("Cleaned cell",
			zap.Int("book", op.Book),
			zap.Int("line", op.Line),
			zap.String("column", op.ColumnName),
			zap.String("operation", op.CleaningOperation),
			zap.String("original", op.OriginalValue),
			zap.String("new", op.NewValue))
	}
}

// ValidateCleaned reports cells that would still change if cleaned again.
// Such cells start with a second prefix that a single pass leaves in place
// (e.g. "1. 2. text"); they are reported, not rewritten.
func (c *DataCleaner) ValidateCleaned(rows []model.Row) []error {
	var validationErrors []error

	for _, row := range rows {
		if again := Clean(row.SourceText); again != row.SourceText {
			validationErrors = append(validationErrors,
				fmt.Errorf("row %d, column %s: text not stable under cleaning: %q -> %q",
					row.ID, c.sourceColumn, row.SourceText, again))
		}
		if again := Clean(row.TargetText); again != row.TargetText {
			validationErrors = append(validationErrors,
				fmt.Errorf("row %d, column %s: text not stable under cleaning: %q -> %q",
					row.ID, c.targetColumn, row.TargetText, again))
		}
	}

	return validationErrors
}
