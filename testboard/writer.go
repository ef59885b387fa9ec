package testboard

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"termsweeper/types"
)

// Write writes grid as CSV, one line per row.
func Write(w io.Writer, grid [][]int) error {
	cw := csv.NewWriter(w)
	for _, line := range grid {
		record := make([]string, len(line))
		for i, v := range line {
			record[i] = strconv.Itoa(v)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes grid to path, creating parent directories as needed.
func WriteFile(path string, grid [][]int) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create board dir: %w", err)
		}
	}
	var buf bytes.Buffer
	if err := Write(&buf, grid); err != nil {
		return fmt.Errorf("encode test board: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write test board %s: %w", path, err)
	}
	return nil
}

// FromSnapshot returns the mine and treasure layout of a board.
func FromSnapshot(snap *types.BoardSnapshot) [][]int {
	grid := make([][]int, snap.Rows)
	for r := range grid {
		grid[r] = make([]int, snap.Cols)
		for c := range grid[r] {
			cell := snap.Cell(r, c)
			switch {
			case cell.Mine:
				grid[r][c] = Mine
			case cell.Treasure:
				grid[r][c] = Treasure
			}
		}
	}
	return grid
}
