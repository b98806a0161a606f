// Package frame holds tabular data column-major with per-cell missing flags.
package frame

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/datavet/vetctl/internal/dataset"
)

var (
	ErrUnknownColumn = errors.New("frame: unknown column")
	ErrRowOutOfRange = errors.New("frame: row out of range")
)

// Column is one named column of cell text. Missing mirrors Cells; a missing
// cell keeps whatever token marked it (empty string or an NA marker).
// Invalid counts numeric cells that failed to parse during Coerce.
type Column struct {
	Name    string
	Role    dataset.Role
	Cells   []string
	Missing []bool
	Invalid int
}

// Frame is a column-major table built from a dataset roster.
type Frame struct {
	spec   dataset.Spec
	cols   []Column
	byName map[string]int
}

// New returns an empty frame with one column per roster entry.
func New(spec dataset.Spec) *Frame {
	f := &Frame{
		spec:   spec,
		cols:   make([]Column, len(spec.Columns)),
		byName: make(map[string]int, len(spec.Columns)),
	}
	for i, name := range spec.Columns {
		f.cols[i] = Column{Name: name, Role: spec.RoleOf(name)}
		f.byName[name] = i
	}
	return f
}

// Spec returns the roster this frame was built from.
func (f *Frame) Spec() dataset.Spec {
	return f.spec
}

// NumRows returns the row count.
func (f *Frame) NumRows() int {
	if len(f.cols) == 0 {
		return 0
	}
	return len(f.cols[0].Cells)
}

// NumColumns returns the column count.
func (f *Frame) NumColumns() int {
	return len(f.cols)
}

// ColumnAt returns the i-th column for in-place inspection.
func (f *Frame) ColumnAt(i int) *Column {
	return &f.cols[i]
}

// Column resolves a column by name.
func (f *Frame) Column(name string) (*Column, bool) {
	i, ok := f.byName[name]
	if !ok {
		return nil, false
	}
	return &f.cols[i], true
}

// AppendRow adds one row of already-trimmed cells in roster order.
func (f *Frame) AppendRow(cells []string) error {
	if len(cells) != len(f.cols) {
		return fmt.Errorf("frame: row has %d cells, roster has %d", len(cells), len(f.cols))
	}
	for i, cell := range cells {
		f.cols[i].Cells = append(f.cols[i].Cells, cell)
		f.cols[i].Missing = append(f.cols[i].Missing, f.spec.IsNA(cell))
	}
	return nil
}

// Set overwrites one cell and refreshes its missing flag.
func (f *Frame) Set(column string, row int, value string) error {
	i, ok := f.byName[column]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownColumn, column)
	}
	if row < 0 || row >= len(f.cols[i].Cells) {
		return fmt.Errorf("%w: %d", ErrRowOutOfRange, row)
	}
	f.cols[i].Cells[row] = value
	f.cols[i].Missing[row] = f.spec.IsNA(value)
	return nil
}

// Coerce normalizes numeric columns: parsable cells are rewritten in
// canonical float form, unparsable non-missing cells are counted as invalid
// and left in place so downstream statistics can see them. Returns the
// per-column invalid counts for columns that had any.
func (f *Frame) Coerce() map[string]int {
	invalid := make(map[string]int)
	for i := range f.cols {
		col := &f.cols[i]
		if col.Role != dataset.RoleNumeric {
			continue
		}
		col.Invalid = 0
		for r, cell := range col.Cells {
			if col.Missing[r] {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				col.Invalid++
				continue
			}
			col.Cells[r] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if col.Invalid > 0 {
			invalid[col.Name] = col.Invalid
		}
	}
	return invalid
}

// subset builds a new frame from the given row indices, in the given order.
func (f *Frame) subset(rows []int) *Frame {
	out := New(f.spec)
	for i := range out.cols {
		src := &f.cols[i]
		dst := &out.cols[i]
		dst.Cells = make([]string, 0, len(rows))
		dst.Missing = make([]bool, 0, len(rows))
		for _, r := range rows {
			dst.Cells = append(dst.Cells, src.Cells[r])
			dst.Missing = append(dst.Missing, src.Missing[r])
		}
	}
	return out
}

func sortedCopy(rows []int) []int {
	out := make([]int, len(rows))
	copy(out, rows)
	sort.Ints(out)
	return out
}
