package storage

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/iamhollywoodpro/strivetrack/internal/storage/postgres"
	"github.com/iamhollywoodpro/strivetrack/internal/storage/sqlite"
)

// Backend names accepted by Open.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendJSON     = "json"
	BackendMemory   = "memory"
)

// Open builds the provider for backend. location is a file path for sqlite
// and json, or a connection string for postgres.
func Open(backend, location string) (Provider, error) {
	switch strings.ToLower(backend) {
	case "", BackendSQLite:
		return sqlite.NewStore(location), nil
	case BackendPostgres:
		if valid, err := postgres.ValidateConnString(location); !valid {
			return nil, err
		}
		return postgres.New(location), nil
	case BackendJSON:
		if filepath.Ext(location) == ".db" {
			location = strings.TrimSuffix(location, ".db") + ".json"
		}
		return NewJSONStore(location), nil
	case BackendMemory:
		return NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown storage backend %q (want sqlite, postgres, json or memory)", backend)
}
