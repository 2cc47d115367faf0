// Package output writes and reads the combined tab-separated table.
//
// Cells follow encoding/csv quoting rules with a tab separator, which is
// also what PostgreSQL's COPY ... (FORMAT csv, DELIMITER E'\t') expects.
package output

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/David-Botos/kempis-corpus/pkg/converter"
	"github.com/David-Botos/kempis-corpus/pkg/model"
)

const (
	fieldSeparator = '\t'
	filePerm       = 0o644
	dirPerm        = 0o755
)

// WriteRows writes the header and one record per row to w
func WriteRows(w io.Writer, conv *converter.RowConverter, rows []model.Row) error {
	cw := csv.NewWriter(w)
	cw.Comma = fieldSeparator

	if err := cw.Write(conv.Header()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write(conv.ToRecord(row)); err != nil {
			return fmt.Errorf("failed to write row %d: %w", row.ID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush rows: %w", err)
	}
	return nil
}

// WriteFile writes rows to path, creating the parent directory. The table
// is written to a temporary file in the same directory and renamed into
// place, so a failed write leaves any previous file untouched.
func WriteFile(path string, conv *converter.RowConverter, rows []model.Row) error {
	return writeAtomic(path, func(w io.Writer) error {
		return WriteRows(w, conv, rows)
	})
}

// WriteText atomically writes a text artifact such as the SQL load script
func WriteText(path, content string) error {
	return writeAtomic(path, func(w io.Writer) error {
		_, err := io.WriteString(w, content)
		return err
	})
}

func writeAtomic(path string, write func(io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-"+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	bw := bufio.NewWriterSize(tmp, 64*1024)
	if err = write(bw); err != nil {
		return err
	}
	if err = bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", tmpPath, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync %s: %w", tmpPath, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmpPath, err)
	}
	if err = os.Chmod(tmpPath, filePerm); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", tmpPath, err)
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to move output into place at %s: %w", path, err)
	}
	return nil
}
