package scenario

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.opentelemetry.io/otel"
)

// FileStore persists a scenario as a single JSON document.
type FileStore struct {
	path string
}

// NewFileStore constructs a store writing to and reading from path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Save writes the scenario, replacing any previous content.
func (f *FileStore) Save(ctx context.Context, s *Scenario) error {
	_, span := otel.Tracer("uireplay").Start(ctx, "scenario.save")
	defer span.End()

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode scenario: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(f.path, data, 0o644); err != nil {
		return fmt.Errorf("write scenario %s: %w", f.path, err)
	}
	return nil
}

// Load reads and validates the scenario.
func (f *FileStore) Load(ctx context.Context) (*Scenario, error) {
	_, span := otel.Tracer("uireplay").Start(ctx, "scenario.load")
	defer span.End()

	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", f.path, err)
	}
	var s Scenario
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", f.path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", f.path, err)
	}
	return &s, nil
}
