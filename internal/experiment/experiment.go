// Package experiment defines the named, parametric circuit constructions
// that runs are built from.
//
// Experiments form a closed set of tagged variants rather than arbitrary
// builder callbacks. A variant carries no captured state beyond its tag,
// so an experiment definition is fully described by (name, variant) and
// the parameter mapping of a given run, which makes stored runs
// replayable.
package experiment

import (
	"errors"
	"fmt"

	"github.com/aristath/qex/internal/quantum"
)

// Params is the parameter mapping handed to a circuit construction.
type Params map[string]any

// Variant identifies one of the built-in circuit constructions.
type Variant string

const (
	// VariantXGate flips the first qubit: |0> -> X -> |1>.
	VariantXGate Variant = "x_gate"
	// VariantHadamard puts the first qubit into equal superposition.
	VariantHadamard Variant = "hadamard"
	// VariantRYSweep rotates the first qubit about Y by params["theta"].
	VariantRYSweep Variant = "ry_sweep"
	// VariantBellState entangles the first two qubits into |Phi+>.
	VariantBellState Variant = "bell_state"
)

var (
	// ErrUnknownVariant is returned for a variant outside the closed set.
	ErrUnknownVariant = errors.New("unknown experiment variant")
	// ErrBadParameter is returned when a required parameter is malformed.
	ErrBadParameter = errors.New("invalid experiment parameter")
	// ErrTooFewQubits is returned when a construction is given fewer
	// qubits than it requires.
	ErrTooFewQubits = errors.New("not enough qubits for experiment")
)

// Experiment is an immutable named circuit construction. The name is a
// caller-chosen identifier used for record-keeping; it is not required to
// be globally unique.
type Experiment struct {
	name    string
	variant Variant
}

// New creates an experiment. The variant must be one of the closed set.
func New(name string, variant Variant) (*Experiment, error) {
	switch variant {
	case VariantXGate, VariantHadamard, VariantRYSweep, VariantBellState:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, variant)
	}
	return &Experiment{name: name, variant: variant}, nil
}

// Name returns the experiment's identifier.
func (e *Experiment) Name() string {
	return e.name
}

// Variant returns the experiment's construction tag.
func (e *Experiment) Variant() Variant {
	return e.variant
}

// BuildCircuit constructs the experiment's circuit over the given qubits.
// The circuit spans only the qubits the construction actually uses, so a
// single-qubit construction handed several qubits still yields a 2x2
// density matrix downstream. A caller with a single qubit handle passes a
// one-element slice.
func (e *Experiment) BuildCircuit(qubits []quantum.Qubit, params Params) (*quantum.Circuit, error) {
	if len(qubits) == 0 {
		return nil, fmt.Errorf("%w: %s requires at least 1 qubit", ErrTooFewQubits, e.variant)
	}

	switch e.variant {
	case VariantXGate:
		c, err := quantum.NewCircuit(qubits[0])
		if err != nil {
			return nil, err
		}
		if err := c.X(qubits[0]); err != nil {
			return nil, err
		}
		return c, nil

	case VariantHadamard:
		c, err := quantum.NewCircuit(qubits[0])
		if err != nil {
			return nil, err
		}
		if err := c.H(qubits[0]); err != nil {
			return nil, err
		}
		return c, nil

	case VariantRYSweep:
		theta, err := numericParam(params, "theta", 0.0)
		if err != nil {
			return nil, err
		}
		c, err := quantum.NewCircuit(qubits[0])
		if err != nil {
			return nil, err
		}
		if err := c.RY(qubits[0], theta); err != nil {
			return nil, err
		}
		return c, nil

	case VariantBellState:
		if len(qubits) < 2 {
			return nil, fmt.Errorf("%w: %s requires at least 2 qubits, got %d", ErrTooFewQubits, e.variant, len(qubits))
		}
		c, err := quantum.NewCircuit(qubits[0], qubits[1])
		if err != nil {
			return nil, err
		}
		if err := c.H(qubits[0]); err != nil {
			return nil, err
		}
		if err := c.CNOT(qubits[0], qubits[1]); err != nil {
			return nil, err
		}
		return c, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, e.variant)
}

// numericParam reads a float parameter, accepting float64 and int values
// (JSON round-trips and literal Go maps produce both). A present value of
// any other type is a validation error.
func numericParam(params Params, key string, defaultValue float64) (float64, error) {
	raw, ok := params[key]
	if !ok {
		return defaultValue, nil
	}
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("%w: %s must be a number, got %T", ErrBadParameter, key, raw)
	}
}
