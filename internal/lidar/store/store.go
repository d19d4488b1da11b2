// Package store persists published point cloud buffers: a sqlite-backed
// store for queryable history and a plain CSV writer for one-file-per-cycle
// exports. Both satisfy the lidar.CloudWriter contract used by the
// persistence filter.
package store

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log"
	"time"

	_ "modernc.org/sqlite"

	"github.com/banshee-data/scansim/internal/lidar"
)

// schema.sql defines the scan_cycles and cloud_points tables.
//
//go:embed schema.sql
var schemaSQL string

// CloudStore persists point clouds into sqlite.
type CloudStore struct {
	*sql.DB
}

// NewCloudStore opens (or creates) the sqlite database at path and applies
// the schema.
func NewCloudStore(path string) (*CloudStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: applying schema: %w", err)
	}
	log.Println("initialized scan output database schema")
	return &CloudStore{db}, nil
}

// WriteCloud implements lidar.CloudWriter. The cycle row and all points
// are written in one transaction; no-return samples are skipped.
func (cs *CloudStore) WriteCloud(sensorName, cycleID string, launchSeconds float64, buf *lidar.XYZIBuffer) error {
	if buf == nil || !buf.Valid {
		return fmt.Errorf("store: refusing to persist invalid buffer")
	}

	tx, err := cs.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO scan_cycles (cycle_id, sensor_name, launch_seconds, width, height, created_unix_nanos)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		cycleID, sensorName, launchSeconds, buf.Width, buf.Height, time.Now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("store: inserting cycle %s: %w", cycleID, err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO cloud_points (cycle_id, idx, x, y, z, intensity) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, p := range buf.Data {
		if p.NoReturn() {
			continue
		}
		if _, err := stmt.Exec(cycleID, i, p.X, p.Y, p.Z, p.Intensity); err != nil {
			return fmt.Errorf("store: inserting point %d of cycle %s: %w", i, cycleID, err)
		}
	}

	return tx.Commit()
}

// CycleCount returns the number of persisted cycles for a sensor.
func (cs *CloudStore) CycleCount(sensorName string) (int, error) {
	var n int
	err := cs.QueryRow(
		`SELECT COUNT(*) FROM scan_cycles WHERE sensor_name = ?`, sensorName).Scan(&n)
	return n, err
}

// PointCount returns the number of persisted points for a cycle.
func (cs *CloudStore) PointCount(cycleID string) (int, error) {
	var n int
	err := cs.QueryRow(
		`SELECT COUNT(*) FROM cloud_points WHERE cycle_id = ?`, cycleID).Scan(&n)
	return n, err
}
