package quantum

import (
	"fmt"
	"math"
	"math/cmplx"
)

// Statevector holds the 2^n complex amplitudes of an n-qubit pure state.
// Basis indices follow the big-endian convention: qubit 0 contributes the
// most significant bit.
type Statevector struct {
	amps []complex128
	n    int
}

// NewStatevector creates the |0...0> state over numQubits qubits.
func NewStatevector(numQubits int) (*Statevector, error) {
	if numQubits < 1 {
		return nil, fmt.Errorf("statevector requires at least one qubit, got %d", numQubits)
	}
	amps := make([]complex128, 1<<numQubits)
	amps[0] = 1
	return &Statevector{amps: amps, n: numQubits}, nil
}

// NumQubits returns the number of qubits in the state.
func (s *Statevector) NumQubits() int {
	return s.n
}

// Amplitudes returns a copy of the state's amplitudes.
func (s *Statevector) Amplitudes() []complex128 {
	out := make([]complex128, len(s.amps))
	copy(out, s.amps)
	return out
}

// Simulate evolves |0...0> through the circuit's gate program and returns
// the final statevector.
func Simulate(c *Circuit) (*Statevector, error) {
	s, err := NewStatevector(c.NumQubits())
	if err != nil {
		return nil, err
	}
	for _, op := range c.Operations() {
		target, err := c.QubitIndex(op.Target)
		if err != nil {
			return nil, err
		}
		if op.Controlled {
			control, err := c.QubitIndex(op.Control)
			if err != nil {
				return nil, err
			}
			if err := s.applyTwoQubit(op.Gate, control, target); err != nil {
				return nil, err
			}
			continue
		}
		if err := s.applySingleQubit(op.Gate, target, op.Theta); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// bit returns the basis-index bit mask of qubit q under the big-endian
// convention (qubit 0 most significant).
func (s *Statevector) bit(q int) int {
	return 1 << (s.n - 1 - q)
}

func (s *Statevector) applySingleQubit(g Gate, target int, theta float64) error {
	switch g {
	case GateX:
		s.applyX(target)
	case GateY:
		s.applyY(target)
	case GateZ:
		s.applyPhase(target, -1)
	case GateH:
		s.applyH(target)
	case GateS:
		s.applyPhase(target, 1i)
	case GateT:
		s.applyPhase(target, cmplx.Exp(complex(0, math.Pi/4)))
	case GateRX:
		s.applyRX(target, theta)
	case GateRY:
		s.applyRY(target, theta)
	case GateRZ:
		s.applyRZ(target, theta)
	default:
		return fmt.Errorf("unsupported single-qubit gate %q", g)
	}
	return nil
}

func (s *Statevector) applyTwoQubit(g Gate, control, target int) error {
	switch g {
	case GateCNOT:
		s.applyCNOT(control, target)
	case GateCZ:
		s.applyCZ(control, target)
	case GateSWAP:
		s.applySWAP(control, target)
	default:
		return fmt.Errorf("unsupported two-qubit gate %q", g)
	}
	return nil
}

func (s *Statevector) applyH(q int) {
	h := complex(1.0/math.Sqrt2, 0)
	bit := s.bit(q)
	next := make([]complex128, len(s.amps))
	for i := range s.amps {
		if i&bit == 0 {
			j := i | bit
			next[i] = h * (s.amps[i] + s.amps[j])
			next[j] = h * (s.amps[i] - s.amps[j])
		}
	}
	s.amps = next
}

func (s *Statevector) applyX(q int) {
	bit := s.bit(q)
	for i := range s.amps {
		if i&bit == 0 {
			j := i | bit
			s.amps[i], s.amps[j] = s.amps[j], s.amps[i]
		}
	}
}

func (s *Statevector) applyY(q int) {
	bit := s.bit(q)
	for i := range s.amps {
		if i&bit == 0 {
			j := i | bit
			s.amps[i], s.amps[j] = -1i*s.amps[j], 1i*s.amps[i]
		}
	}
}

// applyPhase multiplies the |1> amplitudes of qubit q by the given factor.
// Covers Z (factor -1), S (factor i) and T (factor e^{i pi/4}).
func (s *Statevector) applyPhase(q int, factor complex128) {
	bit := s.bit(q)
	for i := range s.amps {
		if i&bit != 0 {
			s.amps[i] *= factor
		}
	}
}

func (s *Statevector) applyRX(q int, theta float64) {
	bit := s.bit(q)
	cos := complex(math.Cos(theta/2), 0)
	jsin := complex(0, -math.Sin(theta/2))
	next := make([]complex128, len(s.amps))
	for i := range s.amps {
		if i&bit == 0 {
			j := i | bit
			next[i] = cos*s.amps[i] + jsin*s.amps[j]
			next[j] = jsin*s.amps[i] + cos*s.amps[j]
		}
	}
	s.amps = next
}

func (s *Statevector) applyRY(q int, theta float64) {
	bit := s.bit(q)
	cos := complex(math.Cos(theta/2), 0)
	sin := complex(math.Sin(theta/2), 0)
	next := make([]complex128, len(s.amps))
	for i := range s.amps {
		if i&bit == 0 {
			j := i | bit
			next[i] = cos*s.amps[i] - sin*s.amps[j]
			next[j] = sin*s.amps[i] + cos*s.amps[j]
		}
	}
	s.amps = next
}

func (s *Statevector) applyRZ(q int, theta float64) {
	bit := s.bit(q)
	neg := cmplx.Exp(complex(0, -theta/2))
	pos := cmplx.Exp(complex(0, theta/2))
	for i := range s.amps {
		if i&bit == 0 {
			s.amps[i] *= neg
		} else {
			s.amps[i] *= pos
		}
	}
}

func (s *Statevector) applyCNOT(control, target int) {
	cbit := s.bit(control)
	tbit := s.bit(target)
	for i := range s.amps {
		if i&cbit != 0 && i&tbit == 0 {
			j := i | tbit
			s.amps[i], s.amps[j] = s.amps[j], s.amps[i]
		}
	}
}

func (s *Statevector) applyCZ(control, target int) {
	cbit := s.bit(control)
	tbit := s.bit(target)
	for i := range s.amps {
		if i&cbit != 0 && i&tbit != 0 {
			s.amps[i] *= -1
		}
	}
}

func (s *Statevector) applySWAP(a, b int) {
	abit := s.bit(a)
	bbit := s.bit(b)
	for i := range s.amps {
		if i&abit != 0 && i&bbit == 0 {
			j := (i &^ abit) | bbit
			s.amps[i], s.amps[j] = s.amps[j], s.amps[i]
		}
	}
}
