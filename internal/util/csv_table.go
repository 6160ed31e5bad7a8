package util

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Row is one CSV record keyed by header column.
type Row struct {
	Line   int
	Fields map[string]string
}

// Get returns the trimmed value of a column, or "" when the column is absent.
func (r Row) Get(column string) string {
	return strings.TrimSpace(r.Fields[column])
}

// Table is a CSV file with a header row.
type Table struct {
	Header []string
	Rows   []Row
}

// ReadTable reads a CSV file whose first record is the header. Short records
// are accepted; their missing columns read as "".
func ReadTable(path string) (Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return Table{}, errors.Wrapf(err, "ReadTable: failed to open file %s", path)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return Table{}, nil
		}
		return Table{}, errors.Wrapf(err, "ReadTable: failed to read header of %s", path)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	table := Table{Header: header}
	for {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return Table{}, errors.Wrapf(err, "ReadTable: error reading record in %s", path)
		}
		line, _ := reader.FieldPos(0)
		fields := make(map[string]string, len(header))
		for i, column := range header {
			if i < len(record) {
				fields[column] = record[i]
			}
		}
		table.Rows = append(table.Rows, Row{Line: line, Fields: fields})
	}
	return table, nil
}

// WriteTable replaces path with the table's contents. The file is written to a
// temporary sibling first and renamed into place.
func WriteTable(path string, table Table) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrapf(err, "WriteTable: failed to create temp file for %s", path)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(table.Header); err != nil {
		tmp.Close()
		return errors.Wrap(err, "WriteTable: failed to write header")
	}
	for _, row := range table.Rows {
		record := make([]string, len(table.Header))
		for i, column := range table.Header {
			record[i] = row.Fields[column]
		}
		if err := w.Write(record); err != nil {
			tmp.Close()
			return errors.Wrapf(err, "WriteTable: failed to write line %d", row.Line)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return errors.Wrap(err, "WriteTable: flush failed")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "WriteTable: close failed")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrapf(err, "WriteTable: failed to replace %s", path)
	}
	return nil
}

// AppendRecord appends one record to path, writing header first when the file
// is new or empty.
func AppendRecord(path string, header, record []string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrapf(err, "AppendRecord: failed to open file %s", path)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return errors.Wrapf(err, "AppendRecord: failed to stat %s", path)
	}
	w := csv.NewWriter(file)
	if info.Size() == 0 {
		if err := w.Write(header); err != nil {
			return errors.Wrap(err, "AppendRecord: failed to write header")
		}
	}
	if err := w.Write(record); err != nil {
		return errors.Wrap(err, "AppendRecord: failed to write record")
	}
	w.Flush()
	return errors.Wrap(w.Error(), "AppendRecord: flush failed")
}
