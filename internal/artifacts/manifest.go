package artifacts

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/datavet/vetctl/internal/inject"
)

// Manifest describes one pipeline run: identity, inputs, what was mutated,
// and which artifact files the run produced.
type Manifest struct {
	RunID        string          `json:"run_id"`
	Dataset      string          `json:"dataset"`
	CreatedAt    time.Time       `json:"created_at"`
	DataPath     string          `json:"data_path"`
	EvalFraction float64         `json:"eval_fraction"`
	Seed         int64           `json:"seed"`
	TrainRows    int             `json:"train_rows"`
	EvalRows     int             `json:"eval_rows"`
	Injections   []inject.Report `json:"injections,omitempty"`
	AnomalyCount int             `json:"anomaly_count"`
	Artifacts    []string        `json:"artifacts"`
}

// NewRunID mints the identifier that ties a run's artifacts together.
func NewRunID() string {
	return uuid.NewString()
}

// WriteManifest persists the run manifest as indented JSON.
func (s *Store) WriteManifest(m Manifest) (string, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", fmt.Errorf("artifacts: encode %s: %w", ManifestFile, err)
	}
	return s.writeFile(ManifestFile, append(data, '\n'))
}
