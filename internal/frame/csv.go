package frame

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/datavet/vetctl/internal/dataset"
)

// ReadCSV loads a header-less CSV into a frame. Every record must have
// exactly one field per roster column; cells are whitespace-trimmed before
// the NA check, matching the source file's space-padded layout.
func ReadCSV(path string, spec dataset.Spec) (*Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset read failed (%s): %w", path, err)
	}
	defer file.Close()

	f, err := readCSV(bufio.NewReader(file), spec)
	if err != nil {
		return nil, fmt.Errorf("dataset parse failed (%s): %w", path, err)
	}
	return f, nil
}

func readCSV(r io.Reader, spec dataset.Spec) (*Frame, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(spec.Columns)
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	f := New(spec)
	cells := make([]string, len(spec.Columns))
	line := 0
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return f, nil
		}
		if err != nil {
			return nil, err
		}
		line++
		for i, raw := range rec {
			cells[i] = strings.TrimSpace(raw)
		}
		if err := f.AppendRow(cells); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}
}
