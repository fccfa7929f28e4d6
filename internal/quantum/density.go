package quantum

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
	"os"

	"github.com/vmihailenco/msgpack/v5"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrInvalidDimension is returned when a matrix dimension is not an
	// exact power of two (2^n for n >= 1).
	ErrInvalidDimension = errors.New("density matrix dimension must be 2^n for n >= 1")
	// ErrQubitIndex is returned when a qubit index is outside [0, n-1].
	ErrQubitIndex = errors.New("qubit index out of range")
)

// DensityMatrix is a complex square matrix of dimension 2^n describing a
// (possibly mixed) n-qubit state. Rows and columns follow the big-endian
// qubit-ordering convention (see QubitOrdering).
type DensityMatrix struct {
	m *mat.CDense
	n int // qubit count
}

// numQubitsForDim returns n such that dim == 2^n, or an error when dim is
// not an exact power of two (or is 1, which would mean zero qubits).
func numQubitsForDim(dim int) (int, error) {
	if dim < 2 {
		return 0, fmt.Errorf("%w: got %dx%d", ErrInvalidDimension, dim, dim)
	}
	n := bits.Len(uint(dim)) - 1
	if 1<<n != dim {
		return 0, fmt.Errorf("%w: got %dx%d", ErrInvalidDimension, dim, dim)
	}
	return n, nil
}

// NewDensityMatrix creates a density matrix of the given dimension. data
// is row-major of length dim*dim, or nil for an all-zero matrix.
func NewDensityMatrix(dim int, data []complex128) (*DensityMatrix, error) {
	n, err := numQubitsForDim(dim)
	if err != nil {
		return nil, err
	}
	if data != nil && len(data) != dim*dim {
		return nil, fmt.Errorf("density matrix data length %d does not match dimension %d", len(data), dim)
	}
	return &DensityMatrix{m: mat.NewCDense(dim, dim, data), n: n}, nil
}

// FromStatevector returns the pure-state density matrix |psi><psi| of the
// given statevector.
func FromStatevector(s *Statevector) *DensityMatrix {
	amps := s.Amplitudes()
	dim := len(amps)
	data := make([]complex128, dim*dim)
	for i, a := range amps {
		for j, b := range amps {
			data[i*dim+j] = a * cmplxConj(b)
		}
	}
	return &DensityMatrix{m: mat.NewCDense(dim, dim, data), n: s.NumQubits()}
}

func cmplxConj(c complex128) complex128 {
	return complex(real(c), -imag(c))
}

// Dim returns the matrix dimension (2^n).
func (d *DensityMatrix) Dim() int {
	r, _ := d.m.Dims()
	return r
}

// NumQubits returns the number of qubits the matrix describes.
func (d *DensityMatrix) NumQubits() int {
	return d.n
}

// At returns the matrix element at row i, column j.
func (d *DensityMatrix) At(i, j int) complex128 {
	return d.m.At(i, j)
}

// Matrix returns a copy of the underlying gonum matrix.
func (d *DensityMatrix) Matrix() *mat.CDense {
	dim := d.Dim()
	data := make([]complex128, dim*dim)
	for i := 0; i < dim; i++ {
		for j := 0; j < dim; j++ {
			data[i*dim+j] = d.m.At(i, j)
		}
	}
	return mat.NewCDense(dim, dim, data)
}

// Trace returns the matrix trace. For a valid density matrix this is 1
// within floating tolerance.
func (d *DensityMatrix) Trace() complex128 {
	var tr complex128
	for i := 0; i < d.Dim(); i++ {
		tr += d.m.At(i, i)
	}
	return tr
}

// IsHermitian reports whether the matrix equals its own conjugate
// transpose within tol.
func (d *DensityMatrix) IsHermitian(tol float64) bool {
	dim := d.Dim()
	for i := 0; i < dim; i++ {
		for j := i; j < dim; j++ {
			diff := d.m.At(i, j) - cmplxConj(d.m.At(j, i))
			if math.Abs(real(diff)) > tol || math.Abs(imag(diff)) > tol {
				return false
			}
		}
	}
	return true
}

// densityMatrixPayload is the on-disk msgpack representation of a density
// matrix: row-major real and imaginary parts, split for compactness.
type densityMatrixPayload struct {
	Dim  int       `msgpack:"dim"`
	Real []float64 `msgpack:"real"`
	Imag []float64 `msgpack:"imag"`
}

// WriteFile serializes the matrix to path in msgpack binary array format.
func (d *DensityMatrix) WriteFile(path string) error {
	dim := d.Dim()
	payload := densityMatrixPayload{
		Dim:  dim,
		Real: make([]float64, dim*dim),
		Imag: make([]float64, dim*dim),
	}
	for i := 0; i < dim; i++ {
		for j := 0; j < dim; j++ {
			v := d.m.At(i, j)
			payload.Real[i*dim+j] = real(v)
			payload.Imag[i*dim+j] = imag(v)
		}
	}
	raw, err := msgpack.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode density matrix: %w", err)
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return fmt.Errorf("failed to write density matrix: %w", err)
	}
	return nil
}

// ReadDensityMatrix loads a density matrix previously written by WriteFile.
func ReadDensityMatrix(path string) (*DensityMatrix, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read density matrix: %w", err)
	}
	var payload densityMatrixPayload
	if err := msgpack.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode density matrix: %w", err)
	}
	n, err := numQubitsForDim(payload.Dim)
	if err != nil {
		return nil, err
	}
	dim := payload.Dim
	if len(payload.Real) != dim*dim || len(payload.Imag) != dim*dim {
		return nil, fmt.Errorf("density matrix file is corrupt: %d elements for dimension %d", len(payload.Real), dim)
	}
	data := make([]complex128, dim*dim)
	for i := range data {
		data[i] = complex(payload.Real[i], payload.Imag[i])
	}
	return &DensityMatrix{m: mat.NewCDense(dim, dim, data), n: n}, nil
}
