// Package config provides configuration loading and defaults for wattwatch.
package config

// DefaultConfigDir is the default location for wattwatch configuration and data.
const DefaultConfigDir = "~/.config/wattwatch"

// DefaultDBName is the filename for the SQLite database.
const DefaultDBName = "wattwatch.db"

// DefaultDocumentName is the filename used by the JSON storage backend.
const DefaultDocumentName = "data.json"

// DefaultConfigFile is the filename for the YAML config.
const DefaultConfigFile = "config.yaml"

// EnvPrefix prefixes environment overrides, e.g. WATTWATCH_STORAGE_BACKEND.
const EnvPrefix = "WATTWATCH"

// DefaultStorage stores data in SQLite; an empty Path is resolved per backend.
var DefaultStorage = Storage{
	Backend: "sqlite",
}

// DefaultAnalysis holds the default analysis preferences.
var DefaultAnalysis = Analysis{
	TopN: 5,
}

// DefaultOutput holds the default output preferences.
var DefaultOutput = Output{
	Color: true,
	Width: 80,
}

// DefaultServer holds the default HTTP API settings.
var DefaultServer = Server{
	Addr: ":8080",
}
