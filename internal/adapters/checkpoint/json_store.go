package checkpoint

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/engagement-tools/internal/dedup"
	"github.com/mikey/engagement-tools/internal/jsonio"
)

// JSONStore persists checkpoints as indented JSON files, one file per
// checkpoint path.
type JSONStore struct {
	logger *zap.Logger
}

// NewJSONStore creates a new JSON file checkpoint store.
func NewJSONStore(logger *zap.Logger) *JSONStore {
	return &JSONStore{logger: logger}
}

// Load reads a checkpoint file. A missing or malformed file yields an empty
// checkpoint, never an error; a rerun against a damaged checkpoint degrades
// to a full reprocess rather than aborting.
func (s *JSONStore) Load(path string) (*dedup.Checkpoint, error) {
	cp := dedup.NewCheckpoint()
	if !jsonio.LoadOptional(path, cp) {
		s.logger.Debug("No usable checkpoint, starting empty", zap.String("path", path))
		return dedup.NewCheckpoint(), nil
	}
	if cp.Processed == nil {
		cp.Processed = []dedup.Entry{}
	}
	return cp, nil
}

// Save stamps LastUpdated and overwrites the checkpoint file, creating
// parent directories as needed.
func (s *JSONStore) Save(path string, cp *dedup.Checkpoint) error {
	now := time.Now().Format(time.RFC3339)
	cp.LastUpdated = &now
	if err := jsonio.Save(path, cp); err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}
	s.logger.Debug("Saved checkpoint",
		zap.String("path", path),
		zap.Int("entries", len(cp.Processed)))
	return nil
}
