// Package spatialmath implements the 6-dimensional spatial algebra used by the
// kinematics and dynamics algorithms: rigid transforms on SE(3), spatial motion
// and force vectors, and rigid-body inertias.
package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// Transform is a rigid transform between two frames. A Transform aMb maps
// coordinates expressed in frame b to coordinates expressed in frame a:
// p_a = Rot*p_b + Trans. Rot must be a unit quaternion; the constructors
// normalize where needed.
type Transform struct {
	Rot   quat.Number
	Trans r3.Vector
}

// NewIdentityTransform returns the identity transform. Since the zero value of
// quat.Number is not a valid rotation, this should be used instead of
// Transform{}.
func NewIdentityTransform() Transform {
	return Transform{Rot: quat.Number{Real: 1}}
}

// NewTransform returns a transform with the given rotation and translation.
// The rotation is normalized to a unit quaternion.
func NewTransform(rot quat.Number, trans r3.Vector) Transform {
	return Transform{Rot: normalize(rot), Trans: trans}
}

// NewTransformFromPoint returns a pure translation.
func NewTransformFromPoint(pt r3.Vector) Transform {
	return Transform{Rot: quat.Number{Real: 1}, Trans: pt}
}

// NewTransformFromAxisAngle returns a pure rotation of angle radians about the
// given axis. The axis is normalized; a zero axis yields the identity.
func NewTransformFromAxisAngle(axis r3.Vector, angle float64) Transform {
	if axis.Norm2() == 0 {
		return NewIdentityTransform()
	}
	axis = axis.Normalize()
	s, c := math.Sincos(angle / 2)
	return Transform{Rot: quat.Number{Real: c, Imag: s * axis.X, Jmag: s * axis.Y, Kmag: s * axis.Z}}
}

// Mul composes two transforms: if t is aMb and u is bMc, t.Mul(u) is aMc.
func (t Transform) Mul(u Transform) Transform {
	return Transform{
		Rot:   quat.Mul(t.Rot, u.Rot),
		Trans: t.Trans.Add(t.rotate(u.Trans)),
	}
}

// Inv returns the inverse transform: if t is aMb, t.Inv() is bMa.
func (t Transform) Inv() Transform {
	conj := quat.Conj(t.Rot)
	return Transform{
		Rot:   conj,
		Trans: rotateByQuat(conj, t.Trans).Mul(-1),
	}
}

// Apply transforms a point expressed in frame b into frame a.
func (t Transform) Apply(p r3.Vector) r3.Vector {
	return t.rotate(p).Add(t.Trans)
}

// ApplyInv transforms a point expressed in frame a into frame b.
func (t Transform) ApplyInv(p r3.Vector) r3.Vector {
	return rotateByQuat(quat.Conj(t.Rot), p.Sub(t.Trans))
}

// ActMotion transports a spatial motion expressed in frame b into frame a via
// the adjoint action of the transform.
func (t Transform) ActMotion(m Motion) Motion {
	ang := t.rotate(m.Angular)
	return Motion{
		Linear:  t.rotate(m.Linear).Add(t.Trans.Cross(ang)),
		Angular: ang,
	}
}

// ActInvMotion transports a spatial motion expressed in frame a into frame b,
// the inverse-adjoint action of the transform.
func (t Transform) ActInvMotion(m Motion) Motion {
	conj := quat.Conj(t.Rot)
	return Motion{
		Linear:  rotateByQuat(conj, m.Linear.Sub(t.Trans.Cross(m.Angular))),
		Angular: rotateByQuat(conj, m.Angular),
	}
}

// ActForce transports a spatial force expressed in frame b into frame a, the
// dual of ActInvMotion. This is the force-composition rule used when
// accumulating child forces into a parent during the backward dynamics pass.
func (t Transform) ActForce(f Force) Force {
	lin := t.rotate(f.Linear)
	return Force{
		Linear:  lin,
		Angular: t.rotate(f.Angular).Add(t.Trans.Cross(lin)),
	}
}

// ActInvForce transports a spatial force expressed in frame a into frame b.
func (t Transform) ActInvForce(f Force) Force {
	conj := quat.Conj(t.Rot)
	return Force{
		Linear:  rotateByQuat(conj, f.Linear),
		Angular: rotateByQuat(conj, f.Angular.Sub(t.Trans.Cross(f.Linear))),
	}
}

// AlmostEqual reports whether two transforms represent nearly the same rigid
// displacement. The rotation comparison accounts for the quaternion double
// cover (q and -q are the same rotation).
func (t Transform) AlmostEqual(u Transform, epsilon float64) bool {
	dot := t.Rot.Real*u.Rot.Real + t.Rot.Imag*u.Rot.Imag + t.Rot.Jmag*u.Rot.Jmag + t.Rot.Kmag*u.Rot.Kmag
	if math.Abs(math.Abs(dot)-1) > epsilon {
		return false
	}
	return t.Trans.Sub(u.Trans).Norm() <= epsilon
}

func (t Transform) rotate(v r3.Vector) r3.Vector {
	return rotateByQuat(t.Rot, v)
}

// rotateByQuat applies the quaternion sandwich product q*v*q' to a vector.
func rotateByQuat(q quat.Number, v r3.Vector) r3.Vector {
	r := quat.Mul(quat.Mul(q, quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}), quat.Conj(q))
	return r3.Vector{X: r.Imag, Y: r.Jmag, Z: r.Kmag}
}

func normalize(q quat.Number) quat.Number {
	n := math.Sqrt(q.Real*q.Real + q.Imag*q.Imag + q.Jmag*q.Jmag + q.Kmag*q.Kmag)
	if n == 0 {
		return quat.Number{Real: 1}
	}
	return quat.Scale(1/n, q)
}
