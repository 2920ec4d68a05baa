package report

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// fileArchiver implements Archiver by writing JSON reports to a local directory.
type fileArchiver struct {
	dir    string
	logger zerolog.Logger
}

// NewFileArchiver creates a local file system report archiver.
func NewFileArchiver(dir string, logger zerolog.Logger) Archiver {
	return &fileArchiver{
		dir:    dir,
		logger: logger.With().Str("component", "report-file-archiver").Logger(),
	}
}

// Store writes the report as a JSON file under the configured directory.
func (a *fileArchiver) Store(ctx context.Context, rep SweepReport) error {
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create report directory %s: %w", a.dir, err)
	}

	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal sweep report: %w", err)
	}

	path := filepath.Join(a.dir, objectKey(rep))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		a.logger.Error().Err(err).Str("path", path).Msg("failed to write sweep report")
		return fmt.Errorf("failed to write sweep report %s: %w", path, err)
	}

	a.logger.Info().Str("path", path).Msg("sweep report archived")

	return nil
}
