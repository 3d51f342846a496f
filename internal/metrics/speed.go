package metrics

import "github.com/san-kum/techpills/internal/sim"

type PeakSpeed struct {
	name string
	max  float64
}

func NewPeakSpeed() *PeakSpeed {
	return &PeakSpeed{name: "peak_speed"}
}

func (p *PeakSpeed) Name() string {
	return p.name
}

func (p *PeakSpeed) Observe(f sim.Frame) {
	for _, b := range f.Bodies {
		if s := b.Speed(); s > p.max {
			p.max = s
		}
	}
}

func (p *PeakSpeed) Value() float64 {
	return p.max
}

func (p *PeakSpeed) Reset() {
	p.max = 0
}

// SettleTime is the simulated time of the first frame in which every
// body moves slower than threshold. Value is -1 until that happens.
type SettleTime struct {
	name      string
	threshold float64
	at        float64
	settled   bool
}

func NewSettleTime(threshold float64) *SettleTime {
	return &SettleTime{name: "settle_time", threshold: threshold}
}

func (s *SettleTime) Name() string {
	return s.name
}

func (s *SettleTime) Observe(f sim.Frame) {
	if s.settled || len(f.Bodies) == 0 {
		return
	}
	for _, b := range f.Bodies {
		if b.Speed() >= s.threshold {
			return
		}
	}
	s.settled = true
	s.at = f.Time
}

func (s *SettleTime) Value() float64 {
	if !s.settled {
		return -1
	}
	return s.at
}

func (s *SettleTime) Reset() {
	s.settled = false
	s.at = 0
}
