package input

import (
	"fmt"

	"github.com/san-kum/techpills/internal/dynamo"
)

// Mode is the arbiter state.
type Mode int

const (
	Simulated Mode = iota
	Dragging
)

func (m Mode) String() string {
	switch m {
	case Simulated:
		return "simulated"
	case Dragging:
		return "dragging"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Target is what the arbiter writes to while it holds drag authority.
type Target interface {
	SetPosition(id int, p dynamo.Vec2) error
	SetVelocity(id int, v dynamo.Vec2) error
}

// Notifier is told when a drag starts (true) or ends (false).
type Notifier func(active bool)

// Arbiter decides whether the simulation or the pointer owns a body.
// At most one body is dragged at a time; a second Down while dragging
// is ignored until the first drag ends.
type Arbiter struct {
	target Target
	notify Notifier
	origin dynamo.Vec2

	mode  Mode
	index int
	last  dynamo.Vec2
}

func NewArbiter(target Target, notify Notifier) *Arbiter {
	return &Arbiter{target: target, notify: notify, index: -1}
}

// SetTarget points the arbiter at a rebuilt world. It does not change state.
func (a *Arbiter) SetTarget(t Target) { a.target = t }

// SetOrigin sets the page position of the container's top-left corner.
// Pointer coordinates are translated by it before reaching the world.
func (a *Arbiter) SetOrigin(o dynamo.Vec2) { a.origin = o }

func (a *Arbiter) Local(p dynamo.Vec2) dynamo.Vec2 { return p.Sub(a.origin) }

func (a *Arbiter) Mode() Mode { return a.mode }

// Active returns the dragged index, or -1 and false when simulating.
func (a *Arbiter) Active() (int, bool) {
	if a.mode != Dragging {
		return -1, false
	}
	return a.index, true
}

// LastPointer is the most recent container-local pointer applied to the body.
func (a *Arbiter) LastPointer() dynamo.Vec2 { return a.last }

// Down grabs body i. It reports whether the grab took effect.
func (a *Arbiter) Down(i int) bool {
	if a.mode == Dragging || i < 0 {
		return false
	}
	a.mode = Dragging
	a.index = i
	a.fire(true)
	return true
}

// Move pins the dragged body's centre to the pointer and zeroes its
// velocity. No smoothing and no clamping. A move while simulating is a no-op.
func (a *Arbiter) Move(p dynamo.Vec2) error {
	if a.mode != Dragging {
		return nil
	}
	local := a.Local(p)
	if err := a.target.SetPosition(a.index, local); err != nil {
		return fmt.Errorf("drag %d: %w", a.index, err)
	}
	if err := a.target.SetVelocity(a.index, dynamo.Vec2{}); err != nil {
		return fmt.Errorf("drag %d: %w", a.index, err)
	}
	a.last = local
	return nil
}

// Up releases the body where it is. Without a matching Down it does nothing.
func (a *Arbiter) Up() bool { return a.release() }

// Leave is the pointer leaving the surface; same as Up.
func (a *Arbiter) Leave() bool { return a.release() }

// Cancel drops the drag without touching the target, used when the
// world is about to be rebuilt.
func (a *Arbiter) Cancel() bool { return a.release() }

func (a *Arbiter) release() bool {
	if a.mode != Dragging {
		return false
	}
	a.mode = Simulated
	a.index = -1
	a.fire(false)
	return true
}

func (a *Arbiter) fire(active bool) {
	if a.notify != nil {
		a.notify(active)
	}
}
