package quantum

import (
	"errors"
	"fmt"
)

// Gate identifies a quantum gate type.
type Gate string

// Supported gates. Rotation gates carry an angle in radians.
const (
	GateX    Gate = "X"
	GateY    Gate = "Y"
	GateZ    Gate = "Z"
	GateH    Gate = "H"
	GateS    Gate = "S"
	GateT    Gate = "T"
	GateRX   Gate = "RX"
	GateRY   Gate = "RY"
	GateRZ   Gate = "RZ"
	GateCNOT Gate = "CNOT"
	GateCZ   Gate = "CZ"
	GateSWAP Gate = "SWAP"
)

var (
	// ErrNoQubits is returned when a circuit is created without qubits.
	ErrNoQubits = errors.New("circuit requires at least one qubit")
	// ErrDuplicateQubit is returned when the same handle appears twice.
	ErrDuplicateQubit = errors.New("duplicate qubit handle in circuit")
	// ErrUnknownQubit is returned when a gate references a qubit that is
	// not part of the circuit.
	ErrUnknownQubit = errors.New("qubit is not part of the circuit")
)

// Operation is one gate application within a circuit. Control is only
// meaningful for two-qubit gates (Controlled is true).
type Operation struct {
	Gate       Gate
	Target     Qubit
	Control    Qubit
	Controlled bool
	Theta      float64
}

// Circuit is an ordered gate program over an ordered list of qubit
// handles. It is append-only while being built and must be treated as
// immutable once handed to a backend.
type Circuit struct {
	qubits []Qubit
	index  map[Qubit]int
	ops    []Operation
}

// NewCircuit creates a circuit over the given qubits. The order of the
// qubits fixes their significance in the simulated state: the first qubit
// is the most significant bit of the basis index.
func NewCircuit(qubits ...Qubit) (*Circuit, error) {
	if len(qubits) == 0 {
		return nil, ErrNoQubits
	}
	index := make(map[Qubit]int, len(qubits))
	for i, q := range qubits {
		if _, seen := index[q]; seen {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateQubit, q)
		}
		index[q] = i
	}
	ordered := make([]Qubit, len(qubits))
	copy(ordered, qubits)
	return &Circuit{qubits: ordered, index: index}, nil
}

// NumQubits returns the number of qubits the circuit operates on.
func (c *Circuit) NumQubits() int {
	return len(c.qubits)
}

// Qubits returns the circuit's qubit handles in significance order.
func (c *Circuit) Qubits() []Qubit {
	out := make([]Qubit, len(c.qubits))
	copy(out, c.qubits)
	return out
}

// Operations returns the gate program in application order.
func (c *Circuit) Operations() []Operation {
	out := make([]Operation, len(c.ops))
	copy(out, c.ops)
	return out
}

// QubitIndex returns the significance index of a qubit handle.
func (c *Circuit) QubitIndex(q Qubit) (int, error) {
	i, ok := c.index[q]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownQubit, q)
	}
	return i, nil
}

func (c *Circuit) appendSingle(g Gate, target Qubit, theta float64) error {
	if _, err := c.QubitIndex(target); err != nil {
		return err
	}
	c.ops = append(c.ops, Operation{Gate: g, Target: target, Theta: theta})
	return nil
}

func (c *Circuit) appendControlled(g Gate, control, target Qubit) error {
	if _, err := c.QubitIndex(control); err != nil {
		return err
	}
	if _, err := c.QubitIndex(target); err != nil {
		return err
	}
	if control == target {
		return fmt.Errorf("%w: control and target are both %s", ErrDuplicateQubit, target)
	}
	c.ops = append(c.ops, Operation{Gate: g, Target: target, Control: control, Controlled: true})
	return nil
}

// X appends a Pauli-X gate on the target qubit.
func (c *Circuit) X(target Qubit) error { return c.appendSingle(GateX, target, 0) }

// Y appends a Pauli-Y gate on the target qubit.
func (c *Circuit) Y(target Qubit) error { return c.appendSingle(GateY, target, 0) }

// Z appends a Pauli-Z gate on the target qubit.
func (c *Circuit) Z(target Qubit) error { return c.appendSingle(GateZ, target, 0) }

// H appends a Hadamard gate on the target qubit.
func (c *Circuit) H(target Qubit) error { return c.appendSingle(GateH, target, 0) }

// S appends a phase gate on the target qubit.
func (c *Circuit) S(target Qubit) error { return c.appendSingle(GateS, target, 0) }

// T appends a T gate on the target qubit.
func (c *Circuit) T(target Qubit) error { return c.appendSingle(GateT, target, 0) }

// RX appends a rotation about the X axis by theta radians.
func (c *Circuit) RX(target Qubit, theta float64) error {
	return c.appendSingle(GateRX, target, theta)
}

// RY appends a rotation about the Y axis by theta radians.
func (c *Circuit) RY(target Qubit, theta float64) error {
	return c.appendSingle(GateRY, target, theta)
}

// RZ appends a rotation about the Z axis by theta radians.
func (c *Circuit) RZ(target Qubit, theta float64) error {
	return c.appendSingle(GateRZ, target, theta)
}

// CNOT appends a controlled-NOT gate.
func (c *Circuit) CNOT(control, target Qubit) error {
	return c.appendControlled(GateCNOT, control, target)
}

// CZ appends a controlled-Z gate.
func (c *Circuit) CZ(control, target Qubit) error {
	return c.appendControlled(GateCZ, control, target)
}

// SWAP appends a swap of two qubits.
func (c *Circuit) SWAP(a, b Qubit) error {
	return c.appendControlled(GateSWAP, a, b)
}
