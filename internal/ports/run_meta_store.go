package ports

import "context"

// Port: a key-value store for run metadata snapshots.
type RunMetaStore interface {
	SaveMeta(ctx context.Context, runID string, meta map[string]any) error
	// Return the stored snapshot; found is false when nothing is stored for runID.
	LoadMeta(ctx context.Context, runID string) (meta map[string]any, found bool, err error)
}
