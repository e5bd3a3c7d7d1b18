package dataset

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonathan/cutgen/internal/generation"
	"github.com/jonathan/cutgen/internal/geometry"
	"github.com/jonathan/cutgen/internal/sampling"
	"github.com/jonathan/cutgen/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrite_BatchExample(t *testing.T) {
	ds := &types.Dataset{
		Stacks: []types.Stack{{{Length: 150, Width: 200}, {Length: 3000, Width: 3000}}},
	}
	prefix := filepath.Join(t.TempDir(), "G4")

	require.NoError(t, Write(ds, prefix))

	content, err := os.ReadFile(prefix + "_batch.csv")
	require.NoError(t, err)
	assert.Equal(t,
		"ITEM_ID;LENGTH_ITEM;WIDTH_ITEM;STACK;SEQUENCE\n"+
			"0;150;200;0;1\n"+
			"1;3000;3000;0;2\n",
		string(content))

	defects, err := os.ReadFile(prefix + "_defects.csv")
	require.NoError(t, err)
	assert.Equal(t, "DEFECT_ID;PLATE_ID;X;Y;WIDTH;HEIGHT\n", string(defects))
}

func TestWrite_DefectsExample(t *testing.T) {
	ds := &types.Dataset{
		Plates: []types.Plate{{{X: 0, Y: 100, Width: 10, Height: 10}}},
	}
	prefix := filepath.Join(t.TempDir(), "G4")

	require.NoError(t, Write(ds, prefix))

	content, err := os.ReadFile(prefix + "_defects.csv")
	require.NoError(t, err)
	assert.Equal(t,
		"DEFECT_ID;PLATE_ID;X;Y;WIDTH;HEIGHT\n"+
			"0;0;0;100;10;10\n",
		string(content))
}

func TestWriteBatch_IDsAndSequences(t *testing.T) {
	stacks := []types.Stack{
		{{Length: 100, Width: 100}},
		{{Length: 200, Width: 200}, {Length: 300, Width: 300}, {Length: 400, Width: 400}},
		{{Length: 500, Width: 500}, {Length: 600, Width: 600}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteBatch(&buf, stacks))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, []string{
		"0;100;100;0;1",
		"1;200;200;1;1",
		"2;300;300;1;2",
		"3;400;400;1;3",
		"4;500;500;2;1",
		"5;600;600;2;2",
	}, lines[1:])
}

func TestWriteDefects_SkipsEmptyPlates(t *testing.T) {
	plates := []types.Plate{
		{{X: 1, Y: 2, Width: 3, Height: 4}},
		{},
		{{X: 5, Y: 6, Width: 7, Height: 8}, {X: 9, Y: 10, Width: 11, Height: 12}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteDefects(&buf, plates))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Equal(t, []string{
		"DEFECT_ID;PLATE_ID;X;Y;WIDTH;HEIGHT",
		"0;0;1;2;3;4",
		"1;2;5;6;7;8",
		"2;2;9;10;11;12",
	}, lines)
}

func TestWriteParams(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteParams(&buf, geometry.Default(), 100))

	assert.Equal(t,
		"NAME;VALUE\n"+
			"nPlates;100\n"+
			"widthPlates;6000\n"+
			"heightPlates;3210\n"+
			"minXX;100\n"+
			"maxXX;3500\n"+
			"minYY;100\n"+
			"minWaste;20\n",
		buf.String())
}

func TestWrite_UnwritablePath(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "missing", "dir", "G4")

	err := Write(&types.Dataset{}, prefix)
	require.Error(t, err)

	var writeErr *WriteError
	require.True(t, errors.As(err, &writeErr))
	assert.Equal(t, prefix+"_batch.csv", writeErr.Path)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestWrite_RowCountsMatchDataset(t *testing.T) {
	params := generation.DefaultParams()
	params.NbStacks = 30
	params.AvgStackSize = 4
	params.NbPlates = 25

	ds, err := generation.New(params, generation.Mixed{}, sampling.NewRand(8)).Generate()
	require.NoError(t, err)

	prefix := filepath.Join(t.TempDir(), "rows")
	require.NoError(t, WriteAll(ds, params.Geometry, prefix))

	batch, err := os.ReadFile(prefix + "_batch.csv")
	require.NoError(t, err)
	defects, err := os.ReadFile(prefix + "_defects.csv")
	require.NoError(t, err)

	assert.Equal(t, ds.ItemCount()+1, strings.Count(string(batch), "\n"))
	assert.Equal(t, ds.DefectCount()+1, strings.Count(string(defects), "\n"))
}

func TestPathsFor(t *testing.T) {
	p := PathsFor("dataset/G/G4")
	assert.Equal(t, "dataset/G/G4_batch.csv", p.Batch)
	assert.Equal(t, "dataset/G/G4_defects.csv", p.Defects)
	assert.Equal(t, "dataset/G/G4_params.csv", p.Params)
	assert.Equal(t, "dataset/G/G4_manifest.json", p.Manifest)
	assert.Equal(t, "dataset/G/G4.xlsx", p.Xlsx)
}
