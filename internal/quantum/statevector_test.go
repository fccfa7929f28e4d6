package quantum

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-9

func assertAmplitudes(t *testing.T, expected []complex128, sv *Statevector) {
	t.Helper()
	amps := sv.Amplitudes()
	require.Len(t, amps, len(expected))
	for i := range expected {
		assert.InDelta(t, real(expected[i]), real(amps[i]), tol, "real part of amplitude %d", i)
		assert.InDelta(t, imag(expected[i]), imag(amps[i]), tol, "imag part of amplitude %d", i)
	}
}

func singleQubitCircuit(t *testing.T) (*Circuit, Qubit) {
	t.Helper()
	q := GridQubit(0, 0)
	c, err := NewCircuit(q)
	require.NoError(t, err)
	return c, q
}

func TestSimulate_XGate(t *testing.T) {
	c, q := singleQubitCircuit(t)
	require.NoError(t, c.X(q))

	sv, err := Simulate(c)
	require.NoError(t, err)
	assertAmplitudes(t, []complex128{0, 1}, sv)
}

func TestSimulate_Hadamard(t *testing.T) {
	c, q := singleQubitCircuit(t)
	require.NoError(t, c.H(q))

	sv, err := Simulate(c)
	require.NoError(t, err)
	h := complex(1/math.Sqrt2, 0)
	assertAmplitudes(t, []complex128{h, h}, sv)
}

func TestSimulate_RYHalfPi(t *testing.T) {
	c, q := singleQubitCircuit(t)
	require.NoError(t, c.RY(q, math.Pi/2))

	// Ry(pi/2)|0> = |+>
	sv, err := Simulate(c)
	require.NoError(t, err)
	h := complex(1/math.Sqrt2, 0)
	assertAmplitudes(t, []complex128{h, h}, sv)
}

func TestSimulate_PauliYAndPhases(t *testing.T) {
	c, q := singleQubitCircuit(t)
	require.NoError(t, c.Y(q))

	// Y|0> = i|1>
	sv, err := Simulate(c)
	require.NoError(t, err)
	assertAmplitudes(t, []complex128{0, 1i}, sv)

	c, q = singleQubitCircuit(t)
	require.NoError(t, c.X(q))
	require.NoError(t, c.S(q))
	sv, err = Simulate(c)
	require.NoError(t, err)
	assertAmplitudes(t, []complex128{0, 1i}, sv)

	c, q = singleQubitCircuit(t)
	require.NoError(t, c.X(q))
	require.NoError(t, c.Z(q))
	sv, err = Simulate(c)
	require.NoError(t, err)
	assertAmplitudes(t, []complex128{0, -1}, sv)
}

func TestSimulate_BigEndianOrdering(t *testing.T) {
	// X on qubit 0 of a two-qubit register produces |10>, which is basis
	// index 2 under the big-endian convention (qubit 0 most significant).
	q0 := GridQubit(0, 0)
	q1 := GridQubit(0, 1)
	c, err := NewCircuit(q0, q1)
	require.NoError(t, err)
	require.NoError(t, c.X(q0))

	sv, err := Simulate(c)
	require.NoError(t, err)
	assertAmplitudes(t, []complex128{0, 0, 1, 0}, sv)

	// X on qubit 1 produces |01>, basis index 1.
	c, err = NewCircuit(q0, q1)
	require.NoError(t, err)
	require.NoError(t, c.X(q1))

	sv, err = Simulate(c)
	require.NoError(t, err)
	assertAmplitudes(t, []complex128{0, 1, 0, 0}, sv)
}

func TestSimulate_BellState(t *testing.T) {
	q0 := GridQubit(0, 0)
	q1 := GridQubit(0, 1)
	c, err := NewCircuit(q0, q1)
	require.NoError(t, err)
	require.NoError(t, c.H(q0))
	require.NoError(t, c.CNOT(q0, q1))

	sv, err := Simulate(c)
	require.NoError(t, err)
	h := complex(1/math.Sqrt2, 0)
	assertAmplitudes(t, []complex128{h, 0, 0, h}, sv)
}

func TestSimulate_SwapAndCZ(t *testing.T) {
	q0 := GridQubit(0, 0)
	q1 := GridQubit(0, 1)

	c, err := NewCircuit(q0, q1)
	require.NoError(t, err)
	require.NoError(t, c.X(q0))
	require.NoError(t, c.SWAP(q0, q1))

	sv, err := Simulate(c)
	require.NoError(t, err)
	assertAmplitudes(t, []complex128{0, 1, 0, 0}, sv)

	// CZ flips the sign of |11> only.
	c, err = NewCircuit(q0, q1)
	require.NoError(t, err)
	require.NoError(t, c.X(q0))
	require.NoError(t, c.X(q1))
	require.NoError(t, c.CZ(q0, q1))

	sv, err = Simulate(c)
	require.NoError(t, err)
	assertAmplitudes(t, []complex128{0, 0, 0, -1}, sv)
}

func TestSimulate_NormPreserved(t *testing.T) {
	q0 := GridQubit(0, 0)
	q1 := GridQubit(0, 1)
	q2 := GridQubit(0, 2)
	c, err := NewCircuit(q0, q1, q2)
	require.NoError(t, err)
	require.NoError(t, c.H(q0))
	require.NoError(t, c.RX(q1, 1.1))
	require.NoError(t, c.RZ(q2, 0.7))
	require.NoError(t, c.CNOT(q0, q2))
	require.NoError(t, c.T(q1))

	sv, err := Simulate(c)
	require.NoError(t, err)

	var norm float64
	for _, a := range sv.Amplitudes() {
		norm += real(a)*real(a) + imag(a)*imag(a)
	}
	assert.InDelta(t, 1.0, norm, tol)
}

func TestNewStatevector_RequiresQubits(t *testing.T) {
	_, err := NewStatevector(0)
	assert.Error(t, err)
}
