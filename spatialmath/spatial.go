package spatialmath

import (
	"github.com/golang/geo/r3"
)

// Motion is a spatial (6-D) velocity or acceleration, linear part first. Both
// parts are expressed in the same frame; which frame is a property of the
// algorithm using the value, not of the type.
type Motion struct {
	Linear  r3.Vector
	Angular r3.Vector
}

// Force is a spatial (6-D) force: a linear force and a moment about the frame
// origin, both expressed in the same frame.
type Force struct {
	Linear  r3.Vector
	Angular r3.Vector
}

// Add returns the componentwise sum of two motions.
func (m Motion) Add(n Motion) Motion {
	return Motion{Linear: m.Linear.Add(n.Linear), Angular: m.Angular.Add(n.Angular)}
}

// Sub returns the componentwise difference of two motions.
func (m Motion) Sub(n Motion) Motion {
	return Motion{Linear: m.Linear.Sub(n.Linear), Angular: m.Angular.Sub(n.Angular)}
}

// Scale returns the motion scaled by s.
func (m Motion) Scale(s float64) Motion {
	return Motion{Linear: m.Linear.Mul(s), Angular: m.Angular.Mul(s)}
}

// Cross is the spatial cross product of two motions,
// (w1×v2 + v1×w2, w1×w2). It is the bias term coupling a body's velocity with
// its joint's own motion during acceleration propagation.
func (m Motion) Cross(n Motion) Motion {
	return Motion{
		Linear:  m.Angular.Cross(n.Linear).Add(m.Linear.Cross(n.Angular)),
		Angular: m.Angular.Cross(n.Angular),
	}
}

// CrossForce is the spatial force cross product m ×* f,
// (w×f, w×n + v×f). It produces the gyroscopic coupling force of a moving
// body.
func (m Motion) CrossForce(f Force) Force {
	return Force{
		Linear:  m.Angular.Cross(f.Linear),
		Angular: m.Angular.Cross(f.Angular).Add(m.Linear.Cross(f.Linear)),
	}
}

// Dot is the pairing between a motion and a force, yielding power. Projecting
// a residual spatial force through a joint's motion subspace columns uses this
// pairing.
func (m Motion) Dot(f Force) float64 {
	return m.Linear.Dot(f.Linear) + m.Angular.Dot(f.Angular)
}

// AlmostEqual reports whether two motions differ by no more than epsilon in
// norm, per part.
func (m Motion) AlmostEqual(n Motion, epsilon float64) bool {
	return m.Linear.Sub(n.Linear).Norm() <= epsilon && m.Angular.Sub(n.Angular).Norm() <= epsilon
}

// Add returns the componentwise sum of two forces.
func (f Force) Add(g Force) Force {
	return Force{Linear: f.Linear.Add(g.Linear), Angular: f.Angular.Add(g.Angular)}
}

// Sub returns the componentwise difference of two forces.
func (f Force) Sub(g Force) Force {
	return Force{Linear: f.Linear.Sub(g.Linear), Angular: f.Angular.Sub(g.Angular)}
}

// Scale returns the force scaled by s.
func (f Force) Scale(s float64) Force {
	return Force{Linear: f.Linear.Mul(s), Angular: f.Angular.Mul(s)}
}

// AlmostEqual reports whether two forces differ by no more than epsilon in
// norm, per part.
func (f Force) AlmostEqual(g Force, epsilon float64) bool {
	return f.Linear.Sub(g.Linear).Norm() <= epsilon && f.Angular.Sub(g.Angular).Norm() <= epsilon
}
