package dataset

import (
	"context"
	"fmt"
)

// Backend kinds accepted by Open.
const (
	BackendCSV    = "csv"
	BackendSQLite = "sqlite"
)

// OpenOptions selects where the tables are read from.
type OpenOptions struct {
	Backend string
	Dir     string
	Files   Files
	DBPath  string
}

// Open loads the tables from the configured backend.
func Open(ctx context.Context, opts OpenOptions) (*Tables, error) {
	switch opts.Backend {
	case "", BackendCSV:
		return LoadDir(opts.Dir, opts.Files)
	case BackendSQLite:
		return LoadSQLite(ctx, opts.DBPath)
	default:
		return nil, fmt.Errorf("unknown data backend %q (use %q or %q)", opts.Backend, BackendCSV, BackendSQLite)
	}
}
