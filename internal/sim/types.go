package sim

import "github.com/san-kum/techpills/internal/dynamo"

// FixedDelta is the logical step: 1000/60 ms no matter how often Tick runs.
const FixedDelta = 1.0 / 60

// World is the part of the physics surface the clock drives.
type World interface {
	Step(dt float64) error
	Positions() ([]dynamo.Vec2, error)
}

// BodySource is implemented by worlds that can expose full body state.
// Frames carry it when available so observers can look at velocities.
type BodySource interface {
	Bodies() []dynamo.Body
}

// Frame is one published snapshot.
type Frame struct {
	Seq       uint64
	Time      float64 // simulated seconds, Seq * dt
	Positions []dynamo.Vec2
	Bodies    []dynamo.Body
}

// Empty reports whether the frame was never produced by a tick.
func (f Frame) Empty() bool { return f.Seq == 0 && f.Positions == nil }

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(f Frame)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(Frame)

func (fn ObserverFunc) OnFrame(f Frame) { fn(f) }
