package metrics

import (
	"github.com/san-kum/techpills/internal/dynamo"
	"github.com/san-kum/techpills/internal/sim"
)

// KineticEnergy tracks total kinetic energy of the bodies, per frame.
// Value is the latest total; History keeps the series for charts.
type KineticEnergy struct {
	name    string
	current float64
	peak    float64
	history []float64
	limit   int
}

// NewKineticEnergy keeps at most limit samples of history; 0 means unbounded.
func NewKineticEnergy(limit int) *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy", limit: limit}
}

func (k *KineticEnergy) Name() string { return k.name }

func (k *KineticEnergy) Observe(f sim.Frame) {
	k.current = Total(f.Bodies)
	if k.current > k.peak {
		k.peak = k.current
	}
	k.history = append(k.history, k.current)
	if k.limit > 0 && len(k.history) > k.limit {
		k.history = k.history[len(k.history)-k.limit:]
	}
}

func (k *KineticEnergy) Value() float64 { return k.current }

func (k *KineticEnergy) Peak() float64 { return k.peak }

// History returns a copy of the recorded series, oldest first.
func (k *KineticEnergy) History() []float64 {
	out := make([]float64, len(k.history))
	copy(out, k.history)
	return out
}

func (k *KineticEnergy) Reset() {
	k.current = 0
	k.peak = 0
	k.history = k.history[:0]
}

// Total is the sum of 0.5 m v^2 over bodies; an infinite mass contributes nothing.
func Total(bodies []dynamo.Body) float64 {
	e := 0.0
	for _, b := range bodies {
		if b.InvMass == 0 {
			continue
		}
		e += 0.5 * b.Velocity.Dot(b.Velocity) / b.InvMass
	}
	return e
}

// EnergyDrift is the largest increase of kinetic energy between two
// consecutive frames. Without gravity or drags it must stay at zero.
type EnergyDrift struct {
	name    string
	prev    float64
	maxGain float64
	samples int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_gain"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(f sim.Frame) {
	cur := Total(f.Bodies)
	if e.samples > 0 && cur-e.prev > e.maxGain {
		e.maxGain = cur - e.prev
	}
	e.prev = cur
	e.samples++
}

func (e *EnergyDrift) Value() float64 { return e.maxGain }

func (e *EnergyDrift) Reset() {
	e.prev = 0
	e.maxGain = 0
	e.samples = 0
}
