package widget_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/techpills/internal/dynamo"
	"github.com/san-kum/techpills/internal/layout"
	"github.com/san-kum/techpills/internal/render"
	"github.com/san-kum/techpills/internal/techstack"
	"github.com/san-kum/techpills/internal/widget"
)

var _ = Describe("Widget", func() {
	var (
		w      *widget.Widget
		events []bool
	)

	BeforeEach(func() {
		events = nil
		var err error
		w, err = widget.New(techstack.Default(), widget.WithDragNotifier(func(active bool) {
			events = append(events, active)
		}))
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		w.Unmount()
	})

	Describe("seeding", func() {
		It("centres the first row within the container", func() {
			Expect(w.Mount(dynamo.Size{Width: 960, Height: 400})).To(Succeed())

			pl := w.Placements()
			Expect(pl).To(HaveLen(15))
			Expect(pl[0].X).To(BeNumerically("==", 48))
			Expect(pl[0].Y).To(BeNumerically("==", 0))
			Expect(pl[4].X + pl[4].Width).To(BeNumerically("==", 960-48))
		})

		It("follows the row width formula at 800 px", func() {
			Expect(w.Mount(dynamo.Size{Width: 800, Height: 400})).To(Succeed())

			want := (800.0 - (5*160 + 4*16)) / 2
			Expect(w.Placements()[0].X).To(BeNumerically("~", want, 1e-9))
		})
	})

	Describe("free motion", func() {
		It("only ever loses speed to air drag away from walls", func() {
			Expect(w.Mount(dynamo.Size{Width: 4000, Height: 4000})).To(Succeed())
			world := w.World()
			for i := 0; i < world.Len(); i++ {
				Expect(world.SetVelocity(i, dynamo.V(30, 20))).To(Succeed())
			}

			initial := world.Bodies()
			prev := make([]float64, len(initial))
			for i, b := range initial {
				prev[i] = b.Speed()
			}

			for step := 0; step < 600; step++ {
				_, err := w.Frame()
				Expect(err).NotTo(HaveOccurred())
				Expect(world.Contacts()).To(BeZero())
				for i, b := range world.Bodies() {
					Expect(b.Speed()).To(BeNumerically("<=", prev[i]))
					prev[i] = b.Speed()
				}
			}
			for i, b := range world.Bodies() {
				Expect(b.Speed()).To(BeNumerically("<", initial[i].Speed()))
			}
		})

		It("keeps every pill inside the container after settling", func() {
			Expect(w.Mount(dynamo.Size{Width: 960, Height: 400})).To(Succeed())
			world := w.World()
			for i := 0; i < world.Len(); i++ {
				Expect(world.SetVelocity(i, dynamo.V(float64(i*40-300), float64(200-i*25)))).To(Succeed())
			}
			for step := 0; step < 600; step++ {
				_, err := w.Frame()
				Expect(err).NotTo(HaveOccurred())
			}
			for _, pl := range w.Placements() {
				Expect(pl.X).To(BeNumerically(">=", -2))
				Expect(pl.Y).To(BeNumerically(">=", -2))
				Expect(pl.X + pl.Width).To(BeNumerically("<=", 962))
				Expect(pl.Y + pl.Height).To(BeNumerically("<=", 402))
			}
		})
	})

	Describe("dragging", func() {
		BeforeEach(func() {
			Expect(w.Mount(dynamo.Size{Width: 960, Height: 400})).To(Succeed())
		})

		It("sets the pill down exactly where it was released", func() {
			world := w.World()
			Expect(world.SetPosition(3, dynamo.V(100, 100))).To(Succeed())

			Expect(w.PointerDown(3, dynamo.V(100, 100))).To(BeTrue())
			Expect(w.PointerMove(dynamo.V(300, 50))).To(Succeed())
			w.PointerUp()

			p, err := world.Position(3)
			Expect(err).NotTo(HaveOccurred())
			Expect(p).To(Equal(dynamo.V(300, 50)))
			v, _ := world.Velocity(3)
			Expect(v).To(Equal(dynamo.Vec2{}))

			_, ok := w.Dragging()
			Expect(ok).To(BeFalse())
			Expect(events).To(Equal([]bool{true, false}))

			_, err = w.Frame()
			Expect(err).NotTo(HaveOccurred())
		})

		It("tracks the pointer exactly on every move", func() {
			Expect(w.PointerDown(5, dynamo.Vec2{})).To(BeTrue())
			pointers := []dynamo.Vec2{
				dynamo.V(10, 10), dynamo.V(-250, 30), dynamo.V(2000, 900), dynamo.V(480.5, 199.25),
			}
			for _, p := range pointers {
				Expect(w.PointerMove(p)).To(Succeed())
				got, _ := w.World().Position(5)
				Expect(got).To(Equal(p))

				_, err := w.Frame()
				Expect(err).NotTo(HaveOccurred())
			}
		})

		It("draws the dragged pill on top without a position transition", func() {
			Expect(w.PointerDown(7, dynamo.Vec2{})).To(BeTrue())
			pl := w.Placements()
			top := pl[len(pl)-1]
			Expect(top.Index).To(Equal(7))
			Expect(top.Z).To(Equal(render.DraggedZ))
			Expect(top.Transition).To(Equal(render.TransitionNone))
		})

		It("ignores a second pointer-down while a drag is active", func() {
			Expect(w.PointerDown(1, dynamo.Vec2{})).To(BeTrue())
			Expect(w.PointerDown(2, dynamo.Vec2{})).To(BeFalse())
			i, ok := w.Dragging()
			Expect(ok).To(BeTrue())
			Expect(i).To(Equal(1))
			Expect(events).To(Equal([]bool{true}))
		})

		It("treats pointer-up without a drag as a no-op", func() {
			w.PointerUp()
			w.PointerLeave()
			Expect(events).To(BeEmpty())
		})

		It("releases on pointer leave without resetting the body", func() {
			Expect(w.PointerDown(0, dynamo.Vec2{})).To(BeTrue())
			Expect(w.PointerMove(dynamo.V(-120, 40))).To(Succeed())
			w.PointerLeave()

			p, _ := w.World().Position(0)
			Expect(p).To(Equal(dynamo.V(-120, 40)))

			for i := 0; i < 120; i++ {
				_, err := w.Frame()
				Expect(err).NotTo(HaveOccurred())
			}
			p, _ = w.World().Position(0)
			Expect(p.X).To(BeNumerically(">=", 79))
		})
	})

	Describe("resizing", func() {
		It("cancels an active drag and reseeds from the new layout", func() {
			Expect(w.Mount(dynamo.Size{Width: 960, Height: 400})).To(Succeed())
			Expect(w.PointerDown(3, dynamo.Vec2{})).To(BeTrue())
			Expect(w.PointerMove(dynamo.V(700, 300))).To(Succeed())
			for i := 0; i < 30; i++ {
				_, _ = w.Frame()
			}

			old := w.World()
			Expect(w.Resize(dynamo.Size{Width: 1200, Height: 400})).To(Succeed())

			_, ok := w.Dragging()
			Expect(ok).To(BeFalse())
			Expect(events).To(Equal([]bool{true, false}))
			Expect(old.Disposed()).To(BeTrue())

			p, err := layout.NewPyramid(layout.DefaultRows, widget.DefaultPill, widget.DefaultGap)
			Expect(err).NotTo(HaveOccurred())
			seed := p.Seed(1200, 15)
			got, err := w.World().Positions()
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(seed))

			Expect(w.PointerMove(dynamo.V(1, 1))).To(Succeed())
			moved, _ := w.World().Positions()
			Expect(moved).To(Equal(seed))
		})
	})

	Describe("lifecycle", func() {
		It("stops producing frames after unmount", func() {
			Expect(w.Mount(dynamo.Size{Width: 960, Height: 400})).To(Succeed())
			Expect(w.PointerDown(2, dynamo.Vec2{})).To(BeTrue())
			world := w.World()

			w.Unmount()
			Expect(events).To(Equal([]bool{true, false}))
			Expect(world.Disposed()).To(BeTrue())

			_, err := w.Frame()
			Expect(err).To(MatchError(widget.ErrNotMounted))
			Expect(w.Resize(dynamo.Size{Width: 100, Height: 100})).To(MatchError(widget.ErrNotMounted))
		})

		It("can be mounted again after unmount", func() {
			Expect(w.Mount(dynamo.Size{Width: 960, Height: 400})).To(Succeed())
			w.Unmount()
			Expect(w.Mount(dynamo.Size{Width: 960, Height: 400})).To(Succeed())
			_, err := w.Frame()
			Expect(err).NotTo(HaveOccurred())
		})

		It("runs until unmounted from inside the loop", func() {
			Expect(w.Mount(dynamo.Size{Width: 960, Height: 400})).To(Succeed())
			inbox := make(chan func(), 1)
			frames := 0

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			inbox <- func() { w.PointerDown(4, dynamo.Vec2{}) }
			err := w.Run(ctx, time.Millisecond, inbox, func(pl []render.Placement) {
				frames++
				Expect(pl).To(HaveLen(15))
				if frames == 10 {
					w.Unmount()
				}
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(frames).To(Equal(10))
			Expect(events).To(Equal([]bool{true, false}))
		})
	})
})
