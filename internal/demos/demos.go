// Package demos provides the built-in demo experiments used for
// validation and first runs.
package demos

import "github.com/aristath/qex/internal/experiment"

func mustExperiment(name string, v experiment.Variant) *experiment.Experiment {
	e, err := experiment.New(name, v)
	if err != nil {
		// All demo variants are members of the closed set.
		panic(err)
	}
	return e
}

// XGate returns the demo flipping |0> to |1> on the first qubit. Takes no
// parameters.
func XGate() *experiment.Experiment {
	return mustExperiment("x_gate", experiment.VariantXGate)
}

// Hadamard returns the demo creating the equal superposition |+> on the
// first qubit. Takes no parameters.
func Hadamard() *experiment.Experiment {
	return mustExperiment("hadamard", experiment.VariantHadamard)
}

// RYSweep returns the demo rotating the first qubit about the Y axis.
// Expects params = {"theta": float64} in radians, defaulting to 0.
func RYSweep() *experiment.Experiment {
	return mustExperiment("ry_sweep", experiment.VariantRYSweep)
}

// BellState returns the demo preparing |Phi+> = (|00> + |11>)/sqrt(2)
// over the first two qubits. Takes no parameters, requires two qubits.
func BellState() *experiment.Experiment {
	return mustExperiment("bell_state", experiment.VariantBellState)
}
