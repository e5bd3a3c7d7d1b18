// Package dataset serializes generated instances to the `;`-delimited files
// consumed by the cutting solver, and reads them back.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/jonathan/cutgen/internal/geometry"
	"github.com/jonathan/cutgen/internal/types"
)

// File headers
var (
	BatchHeader   = []string{"ITEM_ID", "LENGTH_ITEM", "WIDTH_ITEM", "STACK", "SEQUENCE"}
	DefectsHeader = []string{"DEFECT_ID", "PLATE_ID", "X", "Y", "WIDTH", "HEIGHT"}
	ParamsHeader  = []string{"NAME", "VALUE"}
)

// Separator is the field delimiter of every dataset file
const Separator = ';'

// Paths holds the file names derived from a prefix
type Paths struct {
	Batch    string
	Defects  string
	Params   string
	Manifest string
	Xlsx     string
}

// PathsFor derives the dataset file names from a path prefix
func PathsFor(prefix string) Paths {
	return Paths{
		Batch:    prefix + "_batch.csv",
		Defects:  prefix + "_defects.csv",
		Params:   prefix + "_params.csv",
		Manifest: prefix + "_manifest.json",
		Xlsx:     prefix + ".xlsx",
	}
}

func newWriter(w io.Writer) *csv.Writer {
	cw := csv.NewWriter(w)
	cw.Comma = Separator
	return cw
}

func itoa(values ...int) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strconv.Itoa(v)
	}
	return out
}

// WriteBatch writes one row per item in stack order, then sequence order.
// ITEM_ID counts from 0 across the dataset and SEQUENCE is 1-based.
func WriteBatch(w io.Writer, stacks []types.Stack) error {
	cw := newWriter(w)
	if err := cw.Write(BatchHeader); err != nil {
		return err
	}
	itemID := 0
	for stackID, stack := range stacks {
		for seq, item := range stack {
			if err := cw.Write(itoa(itemID, item.Length, item.Width, stackID, seq+1)); err != nil {
				return err
			}
			itemID++
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteDefects writes one row per defect in plate order. DEFECT_ID counts
// from 0 across the dataset.
func WriteDefects(w io.Writer, plates []types.Plate) error {
	cw := newWriter(w)
	if err := cw.Write(DefectsHeader); err != nil {
		return err
	}
	defectID := 0
	for plateID, plate := range plates {
		for _, d := range plate {
			if err := cw.Write(itoa(defectID, plateID, d.X, d.Y, d.Width, d.Height)); err != nil {
				return err
			}
			defectID++
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteParams writes the plate parameters the solver needs alongside the dataset
func WriteParams(w io.Writer, g geometry.Geometry, nbPlates int) error {
	cw := newWriter(w)
	rows := [][]string{
		ParamsHeader,
		{paramPlates, strconv.Itoa(nbPlates)},
		{paramWidth, strconv.Itoa(g.PlateWidth)},
		{paramHeight, strconv.Itoa(g.PlateHeight)},
		{paramMinXX, strconv.Itoa(g.MinXX)},
		{paramMaxXX, strconv.Itoa(g.MaxXX)},
		{paramMinYY, strconv.Itoa(g.MinYY)},
		{paramMinWaste, strconv.Itoa(g.MinWaste)},
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

// Write emits <prefix>_batch.csv and <prefix>_defects.csv
func Write(ds *types.Dataset, prefix string) error {
	paths := PathsFor(prefix)
	if err := writeFile(paths.Batch, func(w io.Writer) error { return WriteBatch(w, ds.Stacks) }); err != nil {
		return err
	}
	return writeFile(paths.Defects, func(w io.Writer) error { return WriteDefects(w, ds.Plates) })
}

// WriteAll emits the batch, defects and params files
func WriteAll(ds *types.Dataset, g geometry.Geometry, prefix string) error {
	if err := Write(ds, prefix); err != nil {
		return err
	}
	paths := PathsFor(prefix)
	return writeFile(paths.Params, func(w io.Writer) error { return WriteParams(w, g, len(ds.Plates)) })
}

func writeFile(path string, fill func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return &WriteError{Path: path, Cause: err}
	}
	if err := fill(f); err != nil {
		_ = f.Close()
		return &WriteError{Path: path, Cause: err}
	}
	if err := f.Close(); err != nil {
		return &WriteError{Path: path, Cause: fmt.Errorf("close: %w", err)}
	}
	return nil
}
