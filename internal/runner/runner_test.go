package runner

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/qex/internal/backend"
	"github.com/aristath/qex/internal/demos"
	"github.com/aristath/qex/internal/experiment"
	"github.com/aristath/qex/internal/quantum"
)

func newTestRunner(t *testing.T) (*Runner, string) {
	t.Helper()
	baseDir := t.TempDir()
	r, err := New(backend.NewIdeal(), baseDir, zerolog.Nop())
	require.NoError(t, err)
	return r, baseDir
}

func TestNew_CreatesOutputAreas(t *testing.T) {
	_, baseDir := newTestRunner(t)
	assert.DirExists(t, filepath.Join(baseDir, "results"))
	assert.DirExists(t, filepath.Join(baseDir, "artifacts"))

	// Construction is idempotent over an existing base directory.
	_, err := New(backend.NewIdeal(), baseDir, zerolog.Nop())
	assert.NoError(t, err)
}

func TestRun_SingleQubitExperiment(t *testing.T) {
	r, baseDir := newTestRunner(t)

	record, err := r.Run(demos.XGate(), experiment.Params{}, nil)
	require.NoError(t, err)

	assert.NotEmpty(t, record.RunID)
	assert.Equal(t, "x_gate", record.ExperimentName)
	assert.Equal(t, "statevector_ideal", record.BackendName)
	assert.Equal(t, baseDir, record.BaseDir)
	assert.False(t, record.CreatedAt.IsZero())

	// Single-qubit runs record exactly the bloch_sphere artifact.
	require.Len(t, record.Artifacts, 1)
	artifactPath, ok := record.Artifacts[ArtifactBlochSphere]
	require.True(t, ok)
	assert.FileExists(t, filepath.Join(baseDir, artifactPath))

	assert.FileExists(t, filepath.Join(baseDir, record.DensityMatrixPath))
	assert.True(t, strings.HasSuffix(record.DensityMatrixPath, "_rho.msgpack"))

	// Default qubit resolution: one fixed grid qubit.
	assert.Equal(t, "q(0,0)", record.Metadata["qubits"])

	// The stored matrix is |1><1|.
	rho, err := record.GetDensityMatrix()
	require.NoError(t, err)
	require.Equal(t, 2, rho.Dim())
	assert.InDelta(t, 1.0, real(rho.At(1, 1)), 1e-9)
	assert.InDelta(t, 0.0, real(rho.At(0, 0)), 1e-9)
}

func TestRun_MultiQubitExperiment(t *testing.T) {
	r, baseDir := newTestRunner(t)
	qubits := []quantum.Qubit{quantum.GridQubit(0, 0), quantum.GridQubit(0, 1)}

	record, err := r.Run(demos.BellState(), experiment.Params{}, &Config{Qubits: qubits})
	require.NoError(t, err)

	// Multi-qubit runs record only qubit 0's marginal; no other marginal
	// is derived.
	require.Len(t, record.Artifacts, 1)
	artifactPath, ok := record.Artifacts[ArtifactBlochSphereQubit0]
	require.True(t, ok)
	assert.FileExists(t, filepath.Join(baseDir, artifactPath))
	assert.Contains(t, artifactPath, "_bloch_qubit0.html")

	// Title marks the marginal.
	html, err := os.ReadFile(filepath.Join(baseDir, artifactPath))
	require.NoError(t, err)
	assert.Contains(t, string(html), "bell_state (qubit 0)")

	assert.Equal(t, "q(0,0),q(0,1)", record.Metadata["qubits"])

	rho, err := record.GetDensityMatrix()
	require.NoError(t, err)
	assert.Equal(t, 4, rho.Dim())
}

func TestRun_SingleQubitConfigNormalization(t *testing.T) {
	r, _ := newTestRunner(t)
	q := quantum.GridQubit(3, 4)

	record, err := r.Run(demos.Hadamard(), experiment.Params{}, &Config{Qubit: &q})
	require.NoError(t, err)
	assert.Equal(t, "q(3,4)", record.Metadata["qubits"])
}

func TestRun_DistinctRunsProduceDistinctPaths(t *testing.T) {
	r, _ := newTestRunner(t)

	first, err := r.Run(demos.Hadamard(), experiment.Params{}, nil)
	require.NoError(t, err)
	second, err := r.Run(demos.Hadamard(), experiment.Params{}, nil)
	require.NoError(t, err)

	assert.NotEqual(t, first.RunID, second.RunID)
	assert.NotEqual(t, first.DensityMatrixPath, second.DensityMatrixPath)
	assert.NotEqual(t, first.Artifacts[ArtifactBlochSphere], second.Artifacts[ArtifactBlochSphere])
}

func TestRun_MergesCallerMetadata(t *testing.T) {
	r, _ := newTestRunner(t)

	record, err := r.Run(demos.RYSweep(), experiment.Params{"theta": math.Pi / 2}, &Config{
		Metadata: map[string]string{"operator": "alice", "batch": "7"},
	})
	require.NoError(t, err)

	assert.Equal(t, "alice", record.Metadata["operator"])
	assert.Equal(t, "7", record.Metadata["batch"])
	assert.Equal(t, "q(0,0)", record.Metadata["qubits"])
	assert.InDelta(t, math.Pi/2, record.Params["theta"].(float64), 1e-12)
}

func TestRun_BuilderErrorPropagates(t *testing.T) {
	r, baseDir := newTestRunner(t)

	// Bell state over the default single qubit fails validation.
	record, err := r.Run(demos.BellState(), experiment.Params{}, nil)
	assert.ErrorIs(t, err, experiment.ErrTooFewQubits)
	assert.Nil(t, record)

	// No outputs were produced for the failed run.
	results, err := os.ReadDir(filepath.Join(baseDir, "results"))
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRun_BadParameterPropagates(t *testing.T) {
	r, _ := newTestRunner(t)
	record, err := r.Run(demos.RYSweep(), experiment.Params{"theta": "sideways"}, nil)
	assert.ErrorIs(t, err, experiment.ErrBadParameter)
	assert.Nil(t, record)
}

// failingBackend simulates an opaque backend execution failure.
type failingBackend struct{ err error }

func (b *failingBackend) Run(*quantum.Circuit) (*quantum.DensityMatrix, error) { return nil, b.err }
func (b *failingBackend) Name() string                                         { return "failing" }

func TestRun_BackendErrorPropagatesUnmodified(t *testing.T) {
	baseDir := t.TempDir()
	backendErr := errors.New("decoherence event")
	r, err := New(&failingBackend{err: backendErr}, baseDir, zerolog.Nop())
	require.NoError(t, err)

	record, err := r.Run(demos.XGate(), experiment.Params{}, nil)
	assert.ErrorIs(t, err, backendErr)
	assert.Nil(t, record)
}
