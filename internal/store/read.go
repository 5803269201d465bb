package store

import (
	"context"
	"fmt"
)

// RunRow is one recorded run.
type RunRow struct {
	UUID          string
	FormatVersion string
	Constants     string // deterministic JSON
	SimInfo       string // full simulation_info section, deterministic JSON
	CreatedAt     float64
}

// DriverRow is one driver descriptor.
type DriverRow struct {
	Seq  int
	Name string
	Info string // deterministic JSON
}

// CaseRow is one recorded iteration case.
type CaseRow struct {
	Num          int
	ID           string
	ParentID     string
	DriverID     string
	ErrorMessage string
	Timestamp    float64
	Data         string // deterministic JSON
	Hash         string
}

// Runs returns all recorded runs in creation order.
func (s *Store) Runs(ctx context.Context) ([]RunRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT uuid, format_version, constants, sim_info, created_at
		FROM runs ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRow
	for rows.Next() {
		var r RunRow
		if err := rows.Scan(&r.UUID, &r.FormatVersion, &r.Constants, &r.SimInfo, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Drivers returns a run's driver descriptors in emission order.
func (s *Store) Drivers(ctx context.Context, runUUID string) ([]DriverRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, name, info FROM driver_info
		WHERE run_uuid = ? ORDER BY seq
	`, runUUID)
	if err != nil {
		return nil, fmt.Errorf("query drivers: %w", err)
	}
	defer rows.Close()

	var drivers []DriverRow
	for rows.Next() {
		var d DriverRow
		if err := rows.Scan(&d.Seq, &d.Name, &d.Info); err != nil {
			return nil, fmt.Errorf("scan driver: %w", err)
		}
		drivers = append(drivers, d)
	}
	return drivers, rows.Err()
}

// Cases returns a run's cases in counter order.
func (s *Store) Cases(ctx context.Context, runUUID string) ([]CaseRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT num, id, parent_id, driver_id, error_message, timestamp, data, hash
		FROM cases WHERE run_uuid = ? ORDER BY num
	`, runUUID)
	if err != nil {
		return nil, fmt.Errorf("query cases: %w", err)
	}
	defer rows.Close()

	var cases []CaseRow
	for rows.Next() {
		var c CaseRow
		if err := rows.Scan(&c.Num, &c.ID, &c.ParentID, &c.DriverID, &c.ErrorMessage, &c.Timestamp, &c.Data, &c.Hash); err != nil {
			return nil, fmt.Errorf("scan case: %w", err)
		}
		cases = append(cases, c)
	}
	return cases, rows.Err()
}
