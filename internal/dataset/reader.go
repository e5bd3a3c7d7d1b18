package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"

	"github.com/jonathan/cutgen/internal/geometry"
	"github.com/jonathan/cutgen/internal/types"
)

// Names of the params file rows
const (
	paramPlates   = "nPlates"
	paramWidth    = "widthPlates"
	paramHeight   = "heightPlates"
	paramMinXX    = "minXX"
	paramMaxXX    = "maxXX"
	paramMinYY    = "minYY"
	paramMinWaste = "minWaste"
)

// Loaded is a dataset read back from disk together with its params file
type Loaded struct {
	Dataset  *types.Dataset
	Geometry geometry.Geometry
}

type rowReader struct {
	file string
	cr   *csv.Reader
	line int
}

func newRowReader(file string, r io.Reader, fields int) *rowReader {
	cr := csv.NewReader(r)
	cr.Comma = Separator
	cr.FieldsPerRecord = fields
	cr.ReuseRecord = true
	return &rowReader{file: file, cr: cr}
}

// next returns the next record, or nil at end of input
func (r *rowReader) next() ([]string, error) {
	rec, err := r.cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	r.line++
	if err != nil {
		return nil, &ParseError{File: r.file, Line: r.line, Message: "malformed row", Cause: err}
	}
	return rec, nil
}

func (r *rowReader) header(want []string) error {
	rec, err := r.next()
	if err != nil {
		return err
	}
	if rec == nil {
		return &ParseError{File: r.file, Line: 1, Message: "missing header"}
	}
	if !slices.Equal(rec, want) {
		return &ParseError{File: r.file, Line: r.line, Message: fmt.Sprintf("unexpected header %v", rec)}
	}
	return nil
}

func (r *rowReader) ints(rec []string) ([]int, error) {
	out := make([]int, len(rec))
	for i, field := range rec {
		v, err := strconv.Atoi(field)
		if err != nil {
			return nil, &ParseError{File: r.file, Line: r.line, Message: fmt.Sprintf("field %d is not an integer", i+1), Cause: err}
		}
		out[i] = v
	}
	return out, nil
}

func (r *rowReader) fail(format string, args ...any) error {
	return &ParseError{File: r.file, Line: r.line, Message: fmt.Sprintf(format, args...)}
}

// ReadBatch parses a batch file. It rejects ITEM_ID gaps, stacks that are not
// numbered consecutively from 0 and SEQUENCE values other than 1..n.
func ReadBatch(name string, r io.Reader) ([]types.Stack, error) {
	rr := newRowReader(name, r, len(BatchHeader))
	if err := rr.header(BatchHeader); err != nil {
		return nil, err
	}

	var stacks []types.Stack
	for itemID := 0; ; itemID++ {
		rec, err := rr.next()
		if err != nil {
			return nil, err
		}
		if rec == nil {
			return stacks, nil
		}
		vals, err := rr.ints(rec)
		if err != nil {
			return nil, err
		}
		id, length, width, stackID, seq := vals[0], vals[1], vals[2], vals[3], vals[4]

		if id != itemID {
			return nil, rr.fail("ITEM_ID %d, expected %d", id, itemID)
		}
		if stackID < 0 {
			return nil, rr.fail("negative STACK %d", stackID)
		}
		switch stackID {
		case len(stacks):
			stacks = append(stacks, types.Stack{})
		case len(stacks) - 1:
		default:
			return nil, rr.fail("STACK %d out of order, expected %d or %d", stackID, len(stacks)-1, len(stacks))
		}
		stack := &stacks[stackID]
		if seq != len(*stack)+1 {
			return nil, rr.fail("SEQUENCE %d in stack %d, expected %d", seq, stackID, len(*stack)+1)
		}
		*stack = append(*stack, types.Item{Length: length, Width: width})
	}
}

// ReadDefects parses a defects file into nbPlates plates. Plates without a row stay empty.
func ReadDefects(name string, r io.Reader, nbPlates int) ([]types.Plate, error) {
	rr := newRowReader(name, r, len(DefectsHeader))
	if err := rr.header(DefectsHeader); err != nil {
		return nil, err
	}

	plates := make([]types.Plate, nbPlates)
	for i := range plates {
		plates[i] = types.Plate{}
	}

	lastPlate := 0
	for defectID := 0; ; defectID++ {
		rec, err := rr.next()
		if err != nil {
			return nil, err
		}
		if rec == nil {
			return plates, nil
		}
		vals, err := rr.ints(rec)
		if err != nil {
			return nil, err
		}
		id, plateID := vals[0], vals[1]

		if id != defectID {
			return nil, rr.fail("DEFECT_ID %d, expected %d", id, defectID)
		}
		if plateID < lastPlate {
			return nil, rr.fail("PLATE_ID %d after %d", plateID, lastPlate)
		}
		if plateID < 0 || plateID >= nbPlates {
			return nil, rr.fail("PLATE_ID %d outside [0, %d)", plateID, nbPlates)
		}
		lastPlate = plateID
		plates[plateID] = append(plates[plateID], types.Defect{X: vals[2], Y: vals[3], Width: vals[4], Height: vals[5]})
	}
}

// ReadParams parses a params file. Unknown names are ignored; missing names
// keep the default geometry.
func ReadParams(name string, r io.Reader) (geometry.Geometry, int, error) {
	rr := newRowReader(name, r, len(ParamsHeader))
	if err := rr.header(ParamsHeader); err != nil {
		return geometry.Geometry{}, 0, err
	}

	g := geometry.Default()
	nbPlates := -1
	for {
		rec, err := rr.next()
		if err != nil {
			return geometry.Geometry{}, 0, err
		}
		if rec == nil {
			break
		}
		v, err := strconv.Atoi(rec[1])
		if err != nil {
			return geometry.Geometry{}, 0, &ParseError{File: name, Line: rr.line, Message: fmt.Sprintf("value of %s is not an integer", rec[0]), Cause: err}
		}
		switch rec[0] {
		case paramPlates:
			nbPlates = v
		case paramWidth:
			g.PlateWidth = v
		case paramHeight:
			g.PlateHeight = v
		case paramMinXX:
			g.MinXX = v
		case paramMaxXX:
			g.MaxXX = v
		case paramMinYY:
			g.MinYY = v
		case paramMinWaste:
			g.MinWaste = v
		}
	}
	if nbPlates < 0 {
		return geometry.Geometry{}, 0, &ParseError{File: name, Line: rr.line, Message: "missing " + paramPlates}
	}
	return g, nbPlates, nil
}

// Read loads <prefix>_params.csv, <prefix>_batch.csv and <prefix>_defects.csv
func Read(prefix string) (*Loaded, error) {
	paths := PathsFor(prefix)

	var (
		g        geometry.Geometry
		nbPlates int
	)
	err := readFile(paths.Params, func(r io.Reader) error {
		var err error
		g, nbPlates, err = ReadParams(paths.Params, r)
		return err
	})
	if err != nil {
		return nil, err
	}

	ds := &types.Dataset{}
	err = readFile(paths.Batch, func(r io.Reader) error {
		var err error
		ds.Stacks, err = ReadBatch(paths.Batch, r)
		return err
	})
	if err != nil {
		return nil, err
	}

	err = readFile(paths.Defects, func(r io.Reader) error {
		var err error
		ds.Plates, err = ReadDefects(paths.Defects, r, nbPlates)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &Loaded{Dataset: ds, Geometry: g}, nil
}

func readFile(path string, parse func(io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return &ReadError{Path: path, Cause: err}
	}
	defer func() { _ = f.Close() }()
	return parse(f)
}
