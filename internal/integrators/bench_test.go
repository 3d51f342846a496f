package integrators

import (
	"testing"

	"github.com/san-kum/techpills/internal/dynamo"
)

func benchIntegrator(b *testing.B, integ dynamo.Integrator) {
	body := &dynamo.Body{Velocity: dynamo.V(120, -40)}
	accel := dynamo.V(0, 9.81)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		integ.Integrate(body, accel, 0.92, 1.0/60)
	}
}

func BenchmarkSemiImplicitEuler(b *testing.B) { benchIntegrator(b, NewSemiImplicitEuler()) }
func BenchmarkEuler(b *testing.B)             { benchIntegrator(b, NewEuler()) }
func BenchmarkVerlet(b *testing.B)            { benchIntegrator(b, NewVerlet()) }
func BenchmarkRK4(b *testing.B)               { benchIntegrator(b, NewRK4()) }
