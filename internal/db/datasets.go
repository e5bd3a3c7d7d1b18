package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/cutgen/internal/types"
)

// ErrRunNotFound is returned when no run has the requested ID
var ErrRunNotFound = errors.New("generation run not found")

// SaveDataset stores the manifest and every item and defect of a dataset in one transaction
func (db *DB) SaveDataset(ctx context.Context, manifest *types.Manifest, ds *types.Dataset) error {
	params, err := json.Marshal(manifest.Parameters)
	if err != nil {
		return fmt.Errorf("failed to marshal parameters: %w", err)
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`INSERT INTO generation_runs (id, seed, policy, parameters, nb_stacks, nb_items, nb_plates, nb_defects, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		manifest.RunID, strconv.FormatUint(manifest.Seed, 10), manifest.Policy, params,
		manifest.Counts.Stacks, manifest.Counts.Items, manifest.Counts.Plates, manifest.Counts.Defects,
		manifest.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	if _, err := tx.CopyFrom(ctx, pgx.Identifier{TableItems}, ItemColumns, pgx.CopyFromRows(ItemRows(manifest.RunID, ds))); err != nil {
		return fmt.Errorf("failed to copy items: %w", err)
	}
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{TableDefects}, DefectColumns, pgx.CopyFromRows(DefectRows(manifest.RunID, ds))); err != nil {
		return fmt.Errorf("failed to copy defects: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit dataset: %w", err)
	}
	return nil
}

// ItemRows flattens the stacks into copy rows matching ItemColumns
func ItemRows(runID uuid.UUID, ds *types.Dataset) [][]any {
	rows := make([][]any, 0, ds.ItemCount())
	itemID := 0
	for stackID, stack := range ds.Stacks {
		for seq, item := range stack {
			rows = append(rows, []any{runID, itemID, stackID, seq + 1, item.Length, item.Width})
			itemID++
		}
	}
	return rows
}

// DefectRows flattens the plates into copy rows matching DefectColumns
func DefectRows(runID uuid.UUID, ds *types.Dataset) [][]any {
	rows := make([][]any, 0, ds.DefectCount())
	defectID := 0
	for plateID, plate := range ds.Plates {
		for _, d := range plate {
			rows = append(rows, []any{runID, defectID, plateID, d.X, d.Y, d.Width, d.Height})
			defectID++
		}
	}
	return rows
}

// GetRun retrieves a generation run by ID
func (db *DB) GetRun(ctx context.Context, runID uuid.UUID) (*Run, error) {
	var (
		run    Run
		seed   string
		params []byte
	)
	err := db.pool.QueryRow(ctx,
		`SELECT id, seed, policy, parameters, nb_stacks, nb_items, nb_plates, nb_defects, created_at
		 FROM generation_runs WHERE id = $1`,
		runID,
	).Scan(&run.ID, &seed, &run.Policy, &params, &run.NbStacks, &run.NbItems, &run.NbPlates, &run.NbDefects, &run.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	if run.Seed, err = strconv.ParseUint(seed, 10, 64); err != nil {
		return nil, fmt.Errorf("failed to parse stored seed %q: %w", seed, err)
	}
	if err := json.Unmarshal(params, &run.Parameters); err != nil {
		return nil, fmt.Errorf("failed to unmarshal parameters: %w", err)
	}
	return &run, nil
}

// LoadDataset rebuilds a stored dataset. Plates without defects are restored from the run's plate count.
func (db *DB) LoadDataset(ctx context.Context, runID uuid.UUID) (*types.Dataset, error) {
	run, err := db.GetRun(ctx, runID)
	if err != nil {
		return nil, err
	}

	ds := &types.Dataset{
		Stacks: make([]types.Stack, run.NbStacks),
		Plates: make([]types.Plate, run.NbPlates),
	}
	for i := range ds.Plates {
		ds.Plates[i] = types.Plate{}
	}

	rows, err := db.pool.Query(ctx,
		`SELECT stack_id, length, width FROM dataset_items WHERE run_id = $1 ORDER BY item_id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	for rows.Next() {
		var stackID int
		var item types.Item
		if err := rows.Scan(&stackID, &item.Length, &item.Width); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		if stackID < 0 || stackID >= len(ds.Stacks) {
			rows.Close()
			return nil, fmt.Errorf("item references stack %d outside [0, %d)", stackID, len(ds.Stacks))
		}
		ds.Stacks[stackID] = append(ds.Stacks[stackID], item)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	rows, err = db.pool.Query(ctx,
		`SELECT plate_id, x, y, width, height FROM dataset_defects WHERE run_id = $1 ORDER BY defect_id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query defects: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var plateID int
		var d types.Defect
		if err := rows.Scan(&plateID, &d.X, &d.Y, &d.Width, &d.Height); err != nil {
			return nil, fmt.Errorf("failed to scan defect: %w", err)
		}
		if plateID < 0 || plateID >= len(ds.Plates) {
			return nil, fmt.Errorf("defect references plate %d outside [0, %d)", plateID, len(ds.Plates))
		}
		ds.Plates[plateID] = append(ds.Plates[plateID], d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate defects: %w", err)
	}

	return ds, nil
}
