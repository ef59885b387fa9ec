// Package testboard reads, validates and writes hand-authored 8x8 test boards
// stored as CSV: eight lines of eight comma-separated values, 0 for an empty
// cell, 1 for a mine and 2 for a treasure.
package testboard

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrMalformed is wrapped by every ParseError.
var ErrMalformed = errors.New("malformed test board")

// ParseError reports where a test board file went wrong.
// Line and Field are 1-based; 0 means the whole file or line.
type ParseError struct {
	Line  int
	Field int
	Msg   string
}

func (e *ParseError) Error() string {
	switch {
	case e.Line > 0 && e.Field > 0:
		return fmt.Sprintf("line %d, field %d: %s", e.Line, e.Field, e.Msg)
	case e.Line > 0:
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return e.Msg
}

func (e *ParseError) Unwrap() error {
	return ErrMalformed
}

// Parse reads a test board grid from CSV. Blank lines and whitespace around
// values are ignored. Only the shape and the value range are checked; use
// Validate for the placement rules.
func Parse(r io.Reader) ([][]int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var grid [][]int
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var csvErr *csv.ParseError
			if errors.As(err, &csvErr) {
				return nil, &ParseError{Line: csvErr.Line, Msg: csvErr.Err.Error()}
			}
			return nil, err
		}
		line, _ := cr.FieldPos(0)

		if len(grid) == Size {
			return nil, &ParseError{Line: line, Msg: fmt.Sprintf("expected %d rows, found more", Size)}
		}
		if len(record) != Size {
			return nil, &ParseError{Line: line, Msg: fmt.Sprintf("expected %d values, got %d", Size, len(record))}
		}

		row := make([]int, Size)
		for i, token := range record {
			v, err := strconv.Atoi(strings.TrimSpace(token))
			if err != nil {
				return nil, &ParseError{Line: line, Field: i + 1, Msg: fmt.Sprintf("not an integer: %q", token)}
			}
			if v < Empty || v > Treasure {
				return nil, &ParseError{Line: line, Field: i + 1, Msg: fmt.Sprintf("value %d out of range, must be 0, 1 or 2", v)}
			}
			row[i] = v
		}
		grid = append(grid, row)
	}

	if len(grid) != Size {
		return nil, &ParseError{Msg: fmt.Sprintf("expected %d rows, got %d", Size, len(grid))}
	}
	return grid, nil
}

// ReadFile parses the test board stored at path.
func ReadFile(path string) ([][]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	grid, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("read test board %s: %w", path, err)
	}
	return grid, nil
}

// Load reads the test board at path and validates it.
// A board that fails either step is reported as an error and no grid is returned.
func Load(path string) ([][]int, *Placement, error) {
	grid, err := ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	placement, err := Validate(grid)
	if err != nil {
		return nil, nil, err
	}
	return grid, placement, nil
}
