package store

import (
	"database/sql"
	"os"
	"path/filepath"

	"github.com/blackwell-systems/wattwatch/internal/household"

	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection to the wattwatch SQLite database.
type DB struct {
	conn *sql.DB
}

var _ Repository = (*DB)(nil)

// Open opens or creates the SQLite database at the given path.
// It creates the parent directory if it does not exist.
func Open(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	// WAL lets the API server read while a save is in progress.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = conn.Close()
		return nil, err
	}

	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}

	if err := db.Migrate(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

// OpenInMemory opens an in-memory SQLite database, useful for testing.
func OpenInMemory() (*DB, error) {
	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}
	// Each pooled connection would get its own empty in-memory database.
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn}
	if err := db.Migrate(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Load reads the settings row and all devices in insertion order. A fresh
// database yields default settings and no devices.
func (db *DB) Load() (household.AppData, error) {
	var data household.AppData

	var maxPower float64
	row := db.conn.QueryRow("SELECT object_name, max_power FROM settings WHERE id = 1")
	err := row.Scan(&data.Settings.ObjectName, &maxPower)
	switch {
	case err == sql.ErrNoRows:
	case err != nil:
		return household.AppData{}, err
	default:
		data.Settings.MaxPower = household.Kilowatts(maxPower)
	}

	rows, err := db.conn.Query(
		`SELECT location, type, name, power, time_from, time_to
		 FROM devices ORDER BY position`,
	)
	if err != nil {
		return household.AppData{}, err
	}
	defer func() { _ = rows.Close() }()

	data.Devices = []household.Device{}
	for rows.Next() {
		var d household.Device
		var power float64
		if err := rows.Scan(&d.Location, &d.Type, &d.Name, &power, &d.TimeFrom, &d.TimeTo); err != nil {
			return household.AppData{}, err
		}
		d.Power = household.Watts(power)
		data.Devices = append(data.Devices, d)
	}
	return data, rows.Err()
}

// Save replaces the stored settings and devices in a single transaction.
func (db *DB) Save(data household.AppData) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(
		`INSERT INTO settings (id, object_name, max_power) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET object_name = excluded.object_name, max_power = excluded.max_power`,
		data.Settings.ObjectName, float64(data.Settings.MaxPower),
	); err != nil {
		return err
	}

	if _, err := tx.Exec("DELETE FROM devices"); err != nil {
		return err
	}
	for i, d := range data.Devices {
		if _, err := tx.Exec(
			`INSERT INTO devices (position, location, type, name, power, time_from, time_to)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			i, d.Location, d.Type, d.Name, float64(d.Power), d.TimeFrom, d.TimeTo,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}
