// Package bloch reduces multi-qubit density matrices to single-qubit
// marginals and projects them onto Bloch-sphere coordinates.
package bloch

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/aristath/qex/internal/quantum"
)

// ErrNotSingleQubit is returned when a Bloch projection is requested for
// a matrix that is not exactly 2x2.
var ErrNotSingleQubit = errors.New("bloch projection requires a 2x2 density matrix")

// Pauli operators. Process-wide immutable values, initialized once.
var (
	sigmaX = mat.NewCDense(2, 2, []complex128{0, 1, 1, 0})
	sigmaY = mat.NewCDense(2, 2, []complex128{0, -1i, 1i, 0})
	sigmaZ = mat.NewCDense(2, 2, []complex128{1, 0, 0, -1})
)

// Vector is a point in or on the Bloch unit sphere. X^2+Y^2+Z^2 <= 1 for
// any valid density matrix, with equality iff the state is pure.
type Vector struct {
	X float64
	Y float64
	Z float64
}

// ReducedDensityMatrix computes the partial trace of rho keeping only the
// qubit at qubitIndex, tracing out all others.
//
// rho follows the big-endian qubit-ordering convention
// (quantum.QubitOrdering): qubit 0 is the most significant bit of the
// row/column index. A density matrix produced under a different ordering
// would yield the marginal of a different qubit; the convention is part
// of the Backend contract, not re-derived here.
func ReducedDensityMatrix(rho *quantum.DensityMatrix, qubitIndex int) (*quantum.DensityMatrix, error) {
	n := rho.NumQubits()
	if qubitIndex < 0 || qubitIndex >= n {
		return nil, fmt.Errorf("%w: must be in [0, %d], got %d", quantum.ErrQubitIndex, n-1, qubitIndex)
	}

	if n == 1 {
		// Already a single-qubit state; return a copy.
		data := make([]complex128, 4)
		for i := 0; i < 2; i++ {
			for j := 0; j < 2; j++ {
				data[i*2+j] = rho.At(i, j)
			}
		}
		return quantum.NewDensityMatrix(2, data)
	}

	// Contract the non-target qubits: with the kept qubit's bit at
	// position n-1-qubitIndex, result[a][b] sums rho over all joint
	// assignments of the remaining qubits held equal on rows and columns.
	restDim := 1 << (n - 1)
	data := make([]complex128, 4)
	for a := 0; a < 2; a++ {
		for b := 0; b < 2; b++ {
			var sum complex128
			for rest := 0; rest < restDim; rest++ {
				row := embedIndex(a, rest, n, qubitIndex)
				col := embedIndex(b, rest, n, qubitIndex)
				sum += rho.At(row, col)
			}
			data[a*2+b] = sum
		}
	}
	return quantum.NewDensityMatrix(2, data)
}

// embedIndex builds a full n-qubit basis index from the kept qubit's bit
// value and the packed bits of the remaining qubits (in significance
// order), re-inserting the kept bit at its original position.
func embedIndex(bitVal, rest, n, qubitIndex int) int {
	pos := n - 1 - qubitIndex // bit position of the kept qubit
	high := rest >> pos
	low := rest & ((1 << pos) - 1)
	return (high << (pos + 1)) | (bitVal << pos) | low
}

// DensityMatrixToBloch converts a single-qubit density matrix to Bloch
// coordinates: x = Re Tr(rho sigma_x), y = Re Tr(rho sigma_y),
// z = Re Tr(rho sigma_z). For a Hermitian rho the imaginary parts are
// mathematically zero; any residual imaginary component is discarded, not
// treated as an error.
func DensityMatrixToBloch(rho *quantum.DensityMatrix) (Vector, error) {
	if rho.Dim() != 2 {
		return Vector{}, fmt.Errorf("%w: got %dx%d", ErrNotSingleQubit, rho.Dim(), rho.Dim())
	}
	return Vector{
		X: real(traceProduct(rho, sigmaX)),
		Y: real(traceProduct(rho, sigmaY)),
		Z: real(traceProduct(rho, sigmaZ)),
	}, nil
}

// traceProduct computes Tr(rho * sigma) for a 2x2 sigma.
func traceProduct(rho *quantum.DensityMatrix, sigma *mat.CDense) complex128 {
	var tr complex128
	for i := 0; i < 2; i++ {
		for k := 0; k < 2; k++ {
			tr += rho.At(i, k) * sigma.At(k, i)
		}
	}
	return tr
}
