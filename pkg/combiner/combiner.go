// Package combiner runs the load, clean and enrich stages for every book and
// writes the combined corpus table.
package combiner

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/David-Botos/kempis-corpus/pkg/cleaner"
	"github.com/David-Botos/kempis-corpus/pkg/config"
	"github.com/David-Botos/kempis-corpus/pkg/converter"
	"github.com/David-Botos/kempis-corpus/pkg/enricher"
	"github.com/David-Botos/kempis-corpus/pkg/loader"
	"github.com/David-Botos/kempis-corpus/pkg/model"
	"github.com/David-Botos/kempis-corpus/pkg/output"
)

// Combiner orchestrates a corpus build
type Combiner struct {
	cfg          *config.Config
	loader       *loader.Loader
	dataCleaner  *cleaner.DataCleaner
	converter    *converter.RowConverter
	verifier     *Verifier
	errorHandler *ErrorHandler
	metrics      *RunMetrics
	runID        string
	logger       *zap.Logger
}

// NewOutputConverter builds the row converter for the configured output table
func NewOutputConverter(cfg *config.Config, logger *zap.Logger) (*converter.RowConverter, error) {
	table := model.OutputTable(cfg.SQL.Schema, cfg.SQL.Table, cfg.SourceLang, cfg.TargetLang)
	return converter.NewRowConverter(table, cfg.SourceLang, cfg.TargetLang, logger)
}

// NewFileVerifier builds a verifier for tables written with cfg
func NewFileVerifier(cfg *config.Config, logger *zap.Logger) (*Verifier, error) {
	conv, err := NewOutputConverter(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create row converter: %w", err)
	}
	dataCleaner, err := cleaner.NewDataCleaner(conv.SourceColumn(), conv.TargetColumn(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create data cleaner: %w", err)
	}
	return NewVerifier(conv, dataCleaner, logger), nil
}

// NewCombiner creates a combiner. Its run id is attached to every log line.
func NewCombiner(cfg *config.Config, logger *zap.Logger) (*Combiner, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	runID := uuid.New().String()
	logger = logger.With(zap.String("runID", runID))

	bookLoader, err := loader.NewLoader(cfg.InputDir, cfg.InputPattern, cfg.StrictRows, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create loader: %w", err)
	}

	conv, err := NewOutputConverter(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create row converter: %w", err)
	}

	dataCleaner, err := cleaner.NewDataCleaner(conv.SourceColumn(), conv.TargetColumn(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create data cleaner: %w", err)
	}

	return &Combiner{
		cfg:          cfg,
		loader:       bookLoader,
		dataCleaner:  dataCleaner,
		converter:    conv,
		verifier:     NewVerifier(conv, dataCleaner, logger),
		errorHandler: NewErrorHandler(logger),
		metrics:      NewRunMetrics(logger),
		runID:        runID,
		logger:       logger,
	}, nil
}

// Metrics returns the counters of the last run
func (c *Combiner) Metrics() *RunMetrics {
	return c.metrics
}

// Errors returns the error handler of the last run
func (c *Combiner) Errors() *ErrorHandler {
	return c.errorHandler
}

// Run builds the corpus table from books 1..BookCount in order. Missing or
// unreadable books are skipped with a warning. When no book loads, Run
// returns a *model.NoBooksLoadedError and writes nothing. The returned
// RunResult is non-nil even when an error is returned.
func (c *Combiner) Run(ctx context.Context) (*RunResult, error) {
	result := newRunResult(c.runID, c.cfg.OutputPath)
	c.metrics = NewRunMetrics(c.logger)
	c.errorHandler = NewErrorHandler(c.logger)
	defer result.Complete()
	defer c.metrics.Complete()

	c.logger.Info("Starting corpus build",
		zap.String("inputDir", c.cfg.InputDir),
		zap.String("output", c.cfg.OutputPath),
		zap.Bool("strictRows", c.cfg.StrictRows))

	var rows []model.Row
	failures := make(map[int]error)

	for _, book := range model.Books() {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("run interrupted before book %d: %w", book, err)
		}

		job := NewBookJob(book, c.loader.Path(book))
		bookResult := NewBookResult(job)

		bookRows, opCounts, err := c.processBook(job, bookResult)
		if err != nil {
			category := c.errorHandler.CategorizeError(err)
			action := c.errorHandler.HandleError(NewErrorRecord(err, category).WithBook(book))

			status := BookFailed
			if category == ErrorCategoryMissingInput {
				status = BookMissing
			}
			bookResult.Complete(status, err)
			failures[book] = err

			result.Books = append(result.Books, *bookResult)
			c.metrics.RecordBook(*bookResult, nil)

			if action == ActionAbort {
				return result, err
			}
			continue
		}

		bookResult.Complete(BookLoaded, nil)
		result.Books = append(result.Books, *bookResult)
		c.metrics.RecordBook(*bookResult, opCounts)
		rows = append(rows, bookRows...)
	}

	if len(result.LoadedBooks()) == 0 {
		err := &model.NoBooksLoadedError{Failures: failures}
		c.errorHandler.HandleError(NewErrorRecord(err, ErrorCategoryCritical))
		return result, err
	}

	AssignIDs(rows)
	result.TotalRows = len(rows)

	if err := output.WriteFile(c.cfg.OutputPath, c.converter, rows); err != nil {
		return result, fmt.Errorf("failed to write output: %w", err)
	}
	c.metrics.RecordWrite(len(rows))
	c.logger.Info("Wrote corpus table",
		zap.String("path", c.cfg.OutputPath),
		zap.Int("rows", len(rows)))

	if c.cfg.VerifyOutput {
		report, err := c.verifier.VerifyFile(c.cfg.OutputPath, len(rows))
		if err != nil {
			return result, fmt.Errorf("failed to verify output: %w", err)
		}
		result.Verification = report
		for _, warning := range report.Warnings {
			c.logger.Warn("Output verification warning", zap.String("warning", warning))
		}
		if err := report.Err(); err != nil {
			return result, err
		}
	}

	if c.cfg.SQL.Enabled() {
		if err := c.writeLoadScript(); err != nil {
			return result, err
		}
		result.ScriptPath = c.cfg.SQL.ScriptPath
	}

	return result, nil
}

// processBook loads, cleans and enriches one book
func (c *Combiner) processBook(job BookJob, result *BookResult) ([]model.Row, map[string]int, error) {
	load, err := c.loader.LoadBook(job.Book)
	if err != nil {
		return nil, nil, err
	}

	c.errorHandler.RecordMalformed(load.Malformed)
	result.MalformedRows = len(load.Malformed)

	cleaned, operations := c.dataCleaner.CleanPairs(load.Pairs)
	result.CleaningOperations = len(operations)

	rows, err := enricher.Enrich(job.Book, cleaned)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to enrich book %d: %w", job.Book, err)
	}
	result.Rows = len(rows)

	return rows, model.CountByOperation(operations), nil
}

func (c *Combiner) writeLoadScript() error {
	script, err := c.converter.LoadScript(c.cfg.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to render load script: %w", err)
	}
	if err := output.WriteText(c.cfg.SQL.ScriptPath, script); err != nil {
		return fmt.Errorf("failed to write load script: %w", err)
	}

	c.logger.Info("Wrote load script",
		zap.String("path", c.cfg.SQL.ScriptPath),
		zap.String("table", c.converter.Table().Schema+"."+c.converter.Table().Table))
	return nil
}

// AssignIDs numbers rows 1..len(rows) in their current order
func AssignIDs(rows []model.Row) {
	for i := range rows {
		rows[i].ID = i + 1
	}
}
