// Package quantum provides the circuit model, an ideal statevector
// simulator and the density-matrix representation used throughout qex.
//
// Qubit-ordering contract: qubit index 0 is the most significant bit of
// the computational-basis index. Every producer and consumer of a density
// matrix in this module (the simulator, the partial trace, the stored
// results) shares this convention; see QubitOrdering.
package quantum

import "fmt"

// QubitOrdering names the bit convention shared by backends and the
// state-analysis code. A backend emitting density matrices in a different
// convention must not be combined with this module's partial trace.
const QubitOrdering = "big-endian"

// Qubit is a handle to one two-level system, addressed on a planar grid.
// Handles compare by value; two handles with the same coordinates refer
// to the same qubit within a circuit.
type Qubit struct {
	Row int
	Col int
}

// GridQubit returns the qubit handle at the given grid coordinates.
func GridQubit(row, col int) Qubit {
	return Qubit{Row: row, Col: col}
}

// String returns the label used in run metadata, e.g. "q(0,1)".
func (q Qubit) String() string {
	return fmt.Sprintf("q(%d,%d)", q.Row, q.Col)
}

// Labels returns the string labels of the given qubits, in order.
func Labels(qubits []Qubit) []string {
	labels := make([]string, len(qubits))
	for i, q := range qubits {
		labels[i] = q.String()
	}
	return labels
}
