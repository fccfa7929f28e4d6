// Package store persists run records and answers queries over them.
package store

import (
	"path/filepath"
	"time"

	"github.com/aristath/qex/internal/quantum"
)

// RunRecord is the immutable, reproducibility-capturing summary of one
// executed experiment instance. It is created once per Runner invocation
// and never modified afterwards.
type RunRecord struct {
	RunID             string
	ExperimentName    string
	Params            map[string]any
	BackendName       string
	CreatedAt         time.Time
	BaseDir           string            // output base directory of the run
	DensityMatrixPath string            // relative to BaseDir
	Artifacts         map[string]string // artifact kind -> path relative to BaseDir
	Metadata          map[string]string
}

// GetDensityMatrix loads the run's density matrix from its stored path.
// The matrix is read from disk on every call rather than cached in the
// record.
func (r *RunRecord) GetDensityMatrix() (*quantum.DensityMatrix, error) {
	return quantum.ReadDensityMatrix(filepath.Join(r.BaseDir, r.DensityMatrixPath))
}
