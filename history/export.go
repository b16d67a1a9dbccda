package history

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// ExportFormat is the JSON document written by Export.
type ExportFormat struct {
	Version    string   `json:"version"`
	ExportedAt string   `json:"exported_at"`
	Concepts   []string `json:"concepts"`
}

// Export writes the history, newest first, as JSON.
func Export(ctx context.Context, store Store, w io.Writer) error {
	concepts, err := store.List(ctx)
	if err != nil {
		return fmt.Errorf("listing history: %w", err)
	}

	export := ExportFormat{
		Version:    "1.0",
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Concepts:   concepts,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(export); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// ExportToFile exports the history to a file.
func ExportToFile(ctx context.Context, store Store, path string) error {
	f, err := os.Create(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	return Export(ctx, store, f)
}

// Import loads an exported history into store, preserving its order. It
// returns the number of concepts added.
func Import(ctx context.Context, store Store, r io.Reader) (int, error) {
	var export ExportFormat
	if err := json.NewDecoder(r).Decode(&export); err != nil {
		return 0, fmt.Errorf("decoding JSON: %w", err)
	}

	imported := 0
	// Oldest first so the newest ends up at the front.
	for i := len(export.Concepts) - 1; i >= 0; i-- {
		if err := store.Add(ctx, export.Concepts[i]); err != nil {
			return imported, err
		}
		imported++
	}
	return imported, nil
}

// ImportFromFile imports a history file.
func ImportFromFile(ctx context.Context, store Store, path string) (int, error) {
	f, err := os.Open(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return 0, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return Import(ctx, store, f)
}
