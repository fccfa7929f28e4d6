// Package backend defines the circuit-execution contract and provides the
// ideal statevector simulator backend.
package backend

import "github.com/aristath/qex/internal/quantum"

// Backend executes a circuit and returns the final density matrix.
//
// A backend must support any qubit count n >= 1 and return a matrix of
// shape (2^n, 2^n). The contract is deliberately broader than ideal
// simulation: a noisy or hardware-sampled backend may return any valid
// density matrix, not necessarily rank-1. Returned matrices must use the
// big-endian qubit ordering documented by quantum.QubitOrdering.
type Backend interface {
	// Run executes the circuit and returns the final density matrix.
	Run(c *quantum.Circuit) (*quantum.DensityMatrix, error)

	// Name returns a stable identifier used for record-keeping only.
	Name() string
}
