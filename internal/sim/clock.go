package sim

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrStopped is returned by Tick once the clock has been stopped.
var ErrStopped = errors.New("sim: clock stopped")

// DefaultInterval is the display refresh the hosts tick at.
const DefaultInterval = time.Second / 60

// Clock advances a world by a fixed step per tick and publishes the
// resulting positions. It is not safe for concurrent use: Tick, Stop and
// the closures passed to Run's inbox all run on one goroutine.
type Clock struct {
	world     World
	dt        float64
	metrics   []Metric
	observers []Observer

	seq   uint64
	alive bool
	last  Frame
}

// NewClock returns a running clock. A non-positive dt means FixedDelta.
func NewClock(world World, dt float64, observers ...Observer) *Clock {
	if dt <= 0 {
		dt = FixedDelta
	}
	return &Clock{
		world:     world,
		dt:        dt,
		observers: observers,
		alive:     true,
	}
}

func (c *Clock) AddMetric(m Metric)     { c.metrics = append(c.metrics, m) }
func (c *Clock) AddObserver(o Observer) { c.observers = append(c.observers, o) }

func (c *Clock) Metrics() map[string]float64 {
	out := make(map[string]float64, len(c.metrics))
	for _, m := range c.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

// Rebind swaps the driven world, e.g. after a resize rebuilt it.
// Sequence numbers keep counting.
func (c *Clock) Rebind(world World) { c.world = world }

func (c *Clock) Dt() float64 { return c.dt }
func (c *Clock) Seq() uint64 { return c.seq }
func (c *Clock) Alive() bool { return c.alive }
func (c *Clock) Last() Frame { return c.last }

// Tick steps the world once, snapshots it and notifies observers.
func (c *Clock) Tick() (Frame, error) {
	if !c.alive {
		return Frame{}, ErrStopped
	}
	if c.world == nil {
		return Frame{}, fmt.Errorf("tick: no world bound")
	}

	if err := c.world.Step(c.dt); err != nil {
		return Frame{}, fmt.Errorf("tick %d: %w", c.seq+1, err)
	}
	pos, err := c.world.Positions()
	if err != nil {
		return Frame{}, fmt.Errorf("tick %d: %w", c.seq+1, err)
	}

	c.seq++
	f := Frame{
		Seq:       c.seq,
		Time:      float64(c.seq) * c.dt,
		Positions: pos,
	}
	if src, ok := c.world.(BodySource); ok {
		f.Bodies = src.Bodies()
	}
	c.last = f

	for _, m := range c.metrics {
		m.Observe(f)
	}
	for _, o := range c.observers {
		o.OnFrame(f)
	}
	return f, nil
}

// Stop takes effect immediately: the next Tick fails and Run returns.
func (c *Clock) Stop() { c.alive = false }

// Run ticks at interval until ctx is done or the clock is stopped.
// Closures received on inbox execute between frames on the calling
// goroutine, which makes it the only goroutine touching the world.
// Each frame is passed to sink when sink is non-nil.
func (c *Clock) Run(ctx context.Context, interval time.Duration, inbox <-chan func(), sink func(Frame)) error {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if !c.alive {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn, ok := <-inbox:
			if !ok {
				inbox = nil
				continue
			}
			fn()
		case <-ticker.C:
			f, err := c.Tick()
			if errors.Is(err, ErrStopped) {
				return nil
			}
			if err != nil {
				return err
			}
			if sink != nil {
				sink(f)
			}
		}
	}
}

// RunFor ticks n times without a timer, for headless sessions.
func (c *Clock) RunFor(ctx context.Context, n int) (Frame, error) {
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			return c.last, ctx.Err()
		default:
		}
		if _, err := c.Tick(); err != nil {
			return c.last, err
		}
	}
	return c.last, nil
}
