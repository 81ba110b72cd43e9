package store

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/wattwatch/internal/household"
)

func sampleData() household.AppData {
	return household.AppData{
		Settings: household.Settings{ObjectName: "Дача", MaxPower: 12.5},
		Devices: []household.Device{
			{Location: "Kitchen", Type: "Household appliance", Name: "Oven", Power: 3000, TimeFrom: 17, TimeTo: 19},
			{Location: "Bedroom", Type: "Lighting", Name: "Lamp", Power: 60.5, TimeFrom: 20, TimeTo: 23},
			{Location: "Bathroom", Type: "Heating", Name: "Towel rail", Power: 300, TimeFrom: 2, TimeTo: 24},
		},
	}
}

// --- SQLite ---

func TestDB_FreshLoadIsEmpty(t *testing.T) {
	db, err := OpenInMemory()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	data, err := db.Load()
	require.NoError(t, err)
	assert.Equal(t, household.Settings{}, data.Settings)
	assert.Empty(t, data.Devices)
}

func TestDB_RoundTrip(t *testing.T) {
	db, err := OpenInMemory()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	want := sampleData()
	require.NoError(t, db.Save(want))

	got, err := db.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDB_SaveReplacesDevices(t *testing.T) {
	db, err := OpenInMemory()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	data := sampleData()
	require.NoError(t, db.Save(data))

	data.RemoveDevices(0)
	data.Settings.MaxPower = 7
	require.NoError(t, db.Save(data))

	got, err := db.Load()
	require.NoError(t, err)
	assert.Equal(t, household.Kilowatts(7), got.Settings.MaxPower)
	require.Len(t, got.Devices, 2)
	assert.Equal(t, "Lamp", got.Devices[0].Name)
	assert.Equal(t, "Towel rail", got.Devices[1].Name)
}

func TestDB_OpenOnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "wattwatch.db")

	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Save(sampleData()))
	require.NoError(t, db.Close())

	// Reopening must not re-run the migration destructively.
	db, err = Open(path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	got, err := db.Load()
	require.NoError(t, err)
	assert.Equal(t, sampleData(), got)
}

// --- JSON document ---

func TestJSONFile_MissingFile(t *testing.T) {
	f := NewJSONFile(filepath.Join(t.TempDir(), "data.json"))
	data, err := f.Load()
	require.NoError(t, err)
	assert.Equal(t, household.Settings{}, data.Settings)
	assert.NotNil(t, data.Devices)
	assert.Empty(t, data.Devices)
}

func TestJSONFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "data.json")
	f := NewJSONFile(path)

	require.NoError(t, f.Save(sampleData()))
	got, err := f.Load()
	require.NoError(t, err)
	assert.Equal(t, sampleData(), got)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"object_name": "Дача"`)
	assert.Contains(t, string(raw), `"time_from": 17`)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must be cleaned up")
}

func TestJSONFile_CorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewJSONFile(path).Load()
	assert.Error(t, err)
}

func TestReadDocument_Defaults(t *testing.T) {
	doc := `{
		"devices": [
			{"name": "Kettle", "power": 2000},
			{"name": "Fan", "location": "Bedroom", "type": "Ventilation", "power": 40, "time_from": 0, "time_to": 6}
		]
	}`
	data, err := ReadDocument(strings.NewReader(doc))
	require.NoError(t, err)

	assert.Equal(t, household.Settings{}, data.Settings)
	require.Len(t, data.Devices, 2)
	assert.Equal(t, household.Device{Name: "Kettle", Power: 2000, TimeFrom: 2, TimeTo: 2}, data.Devices[0])
	assert.Equal(t, 0, data.Devices[1].TimeFrom)
	assert.Equal(t, 6, data.Devices[1].TimeTo)
}

func TestReadDocument_Empty(t *testing.T) {
	data, err := ReadDocument(strings.NewReader(`{}`))
	require.NoError(t, err)
	assert.Empty(t, data.Devices)
}

func TestWriteDocument_NilDevices(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDocument(&buf, household.AppData{}))
	assert.Contains(t, buf.String(), `"devices": []`)
	assert.Contains(t, buf.String(), `"max_power": 0`)
}

// --- New ---

func TestNew(t *testing.T) {
	dir := t.TempDir()

	repo, err := New(BackendJSON, filepath.Join(dir, "data.json"))
	require.NoError(t, err)
	assert.IsType(t, &JSONFile{}, repo)
	require.NoError(t, repo.Close())

	repo, err = New(BackendSQLite, filepath.Join(dir, "wattwatch.db"))
	require.NoError(t, err)
	assert.IsType(t, &DB{}, repo)
	require.NoError(t, repo.Close())

	_, err = New("postgres", "x")
	assert.ErrorIs(t, err, ErrUnknownBackend)
}
