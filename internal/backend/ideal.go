package backend

import "github.com/aristath/qex/internal/quantum"

// Ideal is a noiseless statevector simulator backend. It evolves the
// circuit from |0...0> and returns the pure-state density matrix
// |psi><psi| of the final statevector.
type Ideal struct{}

// NewIdeal creates the ideal simulator backend.
func NewIdeal() *Ideal {
	return &Ideal{}
}

// Run executes the circuit on the ideal simulator.
func (b *Ideal) Run(c *quantum.Circuit) (*quantum.DensityMatrix, error) {
	sv, err := quantum.Simulate(c)
	if err != nil {
		return nil, err
	}
	return quantum.FromStatevector(sv), nil
}

// Name returns the backend identifier.
func (b *Ideal) Name() string {
	return "statevector_ideal"
}
