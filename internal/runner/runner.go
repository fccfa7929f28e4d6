// Package runner orchestrates experiment execution: it composes an
// experiment, a backend and the state-analysis functions into one
// executed run with on-disk outputs and a run record.
package runner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aristath/qex/internal/backend"
	"github.com/aristath/qex/internal/bloch"
	"github.com/aristath/qex/internal/experiment"
	"github.com/aristath/qex/internal/quantum"
	"github.com/aristath/qex/internal/store"
	"github.com/aristath/qex/internal/visualization"
)

// Artifact keys produced by Run.
const (
	ArtifactBlochSphere       = "bloch_sphere"        // single-qubit runs
	ArtifactBlochSphereQubit0 = "bloch_sphere_qubit0" // multi-qubit runs
)

const (
	resultsDir   = "results"
	artifactsDir = "artifacts"
)

// Config holds per-run configuration.
type Config struct {
	// Qubit sets a single qubit handle; it is normalized to a
	// one-element sequence. Ignored when Qubits is set.
	Qubit *quantum.Qubit
	// Qubits sets the ordered qubit sequence the experiment operates on.
	Qubits []quantum.Qubit
	// Metadata holds caller-supplied key/value pairs merged into the
	// run record's metadata.
	Metadata map[string]string
}

// Runner executes experiments against a backend and materializes run
// outputs under a base directory. It does not persist run records; that
// is the store's job, invoked by the caller.
//
// Each run writes only to paths keyed by its own freshly generated run
// ID, so concurrent runs against the same base directory do not collide.
type Runner struct {
	backend backend.Backend
	baseDir string
	log     zerolog.Logger
}

// New creates a runner. The base directory and its results/ and
// artifacts/ areas are created idempotently here, once, not per run.
func New(b backend.Backend, baseDir string, log zerolog.Logger) (*Runner, error) {
	for _, dir := range []string{baseDir, filepath.Join(baseDir, resultsDir), filepath.Join(baseDir, artifactsDir)} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}
	return &Runner{
		backend: b,
		baseDir: baseDir,
		log:     log.With().Str("component", "runner").Str("backend", b.Name()).Logger(),
	}, nil
}

// BaseDir returns the runner's output base directory.
func (r *Runner) BaseDir() string {
	return r.baseDir
}

// Run executes one full shot of the experiment: build, execute, persist
// the raw state, derive and write the Bloch visualization, and assemble
// the run record. Every stage failure propagates unmodified; files
// already written stay on disk and no record is produced.
func (r *Runner) Run(exp *experiment.Experiment, params experiment.Params, cfg *Config) (*store.RunRecord, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	runID := uuid.New().String()
	createdAt := time.Now().UTC()

	qubits := resolveQubits(cfg)

	circuit, err := exp.BuildCircuit(qubits, params)
	if err != nil {
		return nil, err
	}

	rho, err := r.backend.Run(circuit)
	if err != nil {
		return nil, err
	}

	rhoPath := filepath.Join(resultsDir, runID+"_rho.msgpack")
	if err := rho.WriteFile(filepath.Join(r.baseDir, rhoPath)); err != nil {
		return nil, err
	}

	artifacts := make(map[string]string)
	if rho.Dim() == 2 {
		vec, err := bloch.DensityMatrixToBloch(rho)
		if err != nil {
			return nil, err
		}
		title := fmt.Sprintf("%s - %s", exp.Name(), shortID(runID))
		htmlPath := filepath.Join(artifactsDir, runID+"_bloch.html")
		if err := r.writeArtifact(htmlPath, vec, title); err != nil {
			return nil, err
		}
		artifacts[ArtifactBlochSphere] = htmlPath
	} else {
		// Deliberate scope limit: only qubit 0's marginal is derived
		// for multi-qubit states.
		reduced, err := bloch.ReducedDensityMatrix(rho, 0)
		if err != nil {
			return nil, err
		}
		vec, err := bloch.DensityMatrixToBloch(reduced)
		if err != nil {
			return nil, err
		}
		title := fmt.Sprintf("%s (qubit 0) - %s", exp.Name(), shortID(runID))
		htmlPath := filepath.Join(artifactsDir, runID+"_bloch_qubit0.html")
		if err := r.writeArtifact(htmlPath, vec, title); err != nil {
			return nil, err
		}
		artifacts[ArtifactBlochSphereQubit0] = htmlPath
	}

	metadata := make(map[string]string, len(cfg.Metadata)+1)
	for k, v := range cfg.Metadata {
		metadata[k] = v
	}
	metadata["qubits"] = strings.Join(quantum.Labels(qubits), ",")

	record := &store.RunRecord{
		RunID:             runID,
		ExperimentName:    exp.Name(),
		Params:            params,
		BackendName:       r.backend.Name(),
		CreatedAt:         createdAt,
		BaseDir:           r.baseDir,
		DensityMatrixPath: rhoPath,
		Artifacts:         artifacts,
		Metadata:          metadata,
	}

	r.log.Info().
		Str("run_id", runID).
		Str("experiment", exp.Name()).
		Int("qubits", len(qubits)).
		Int("dim", rho.Dim()).
		Msg("Run completed")

	return record, nil
}

// resolveQubits applies the qubit defaulting rules: an explicit sequence
// wins, a single handle is normalized to a one-element sequence, and the
// fallback is one fixed grid qubit.
func resolveQubits(cfg *Config) []quantum.Qubit {
	if len(cfg.Qubits) > 0 {
		qubits := make([]quantum.Qubit, len(cfg.Qubits))
		copy(qubits, cfg.Qubits)
		return qubits
	}
	if cfg.Qubit != nil {
		return []quantum.Qubit{*cfg.Qubit}
	}
	return []quantum.Qubit{quantum.GridQubit(0, 0)}
}

func (r *Runner) writeArtifact(relPath string, vec bloch.Vector, title string) error {
	html, err := visualization.BlochSphereHTML(vec.X, vec.Y, vec.Z, title)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(r.baseDir, relPath), []byte(html), 0644); err != nil {
		return fmt.Errorf("failed to write artifact %s: %w", relPath, err)
	}
	return nil
}

// shortID returns the run-ID prefix used in artifact titles.
func shortID(runID string) string {
	if len(runID) <= 8 {
		return runID
	}
	return runID[:8]
}
