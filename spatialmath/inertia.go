package spatialmath

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
)

// Inertia is the spatial inertia of a rigid body: its mass, the lever arm from
// the frame origin to the center of mass, and the rotational inertia tensor
// about the center of mass. Lever and Moment are expressed in the body frame.
type Inertia struct {
	Mass   float64
	Lever  r3.Vector
	Moment *mat.SymDense
}

// NewInertia returns an inertia with the given mass, center-of-mass lever and
// 3x3 rotational inertia about the center of mass. A nil moment is treated as
// zero. The moment is copied so later mutation of the argument cannot alias
// into a model.
func NewInertia(mass float64, lever r3.Vector, moment *mat.SymDense) Inertia {
	m := mat.NewSymDense(3, nil)
	if moment != nil {
		m.CopySym(moment)
	}
	return Inertia{Mass: mass, Lever: lever, Moment: m}
}

// NewZeroInertia returns the inertia of a massless body.
func NewZeroInertia() Inertia {
	return Inertia{Moment: mat.NewSymDense(3, nil)}
}

// NewPointMassInertia returns the inertia of a point mass located at com.
func NewPointMassInertia(mass float64, com r3.Vector) Inertia {
	return Inertia{Mass: mass, Lever: com, Moment: mat.NewSymDense(3, nil)}
}

// NewBoxInertia returns the inertia of a uniform-density box of the given full
// extents centered at com.
func NewBoxInertia(mass float64, dims, com r3.Vector) Inertia {
	m := mat.NewSymDense(3, nil)
	m.SetSym(0, 0, mass/12*(dims.Y*dims.Y+dims.Z*dims.Z))
	m.SetSym(1, 1, mass/12*(dims.X*dims.X+dims.Z*dims.Z))
	m.SetSym(2, 2, mass/12*(dims.X*dims.X+dims.Y*dims.Y))
	return Inertia{Mass: mass, Lever: com, Moment: m}
}

// Apply computes the spatial momentum (or, applied to an acceleration, the
// net spatial force) I*m of the body for the given motion, expressed in the
// body frame.
func (in Inertia) Apply(m Motion) Force {
	lin := m.Linear.Add(m.Angular.Cross(in.Lever)).Mul(in.Mass)
	return Force{
		Linear:  lin,
		Angular: symMulVec(in.Moment, m.Angular).Add(in.Lever.Cross(lin)),
	}
}

// Transform re-expresses the inertia in a new frame: if in is expressed in
// frame b and t is aMb, the result is expressed in frame a. The moment is
// about the center of mass, so it only rotates.
func (in Inertia) Transform(t Transform) Inertia {
	return Inertia{
		Mass:   in.Mass,
		Lever:  t.Apply(in.Lever),
		Moment: rotateSym(t.Rot, in.Moment),
	}
}

// Add combines two inertias expressed in the same frame into the inertia of
// the composite body, shifting both moments to the combined center of mass.
func (in Inertia) Add(o Inertia) Inertia {
	mass := in.Mass + o.Mass
	var lever r3.Vector
	if mass > 0 {
		lever = in.Lever.Mul(in.Mass).Add(o.Lever.Mul(o.Mass)).Mul(1 / mass)
	}
	moment := mat.NewSymDense(3, nil)
	moment.AddSym(shiftedMoment(in, lever), shiftedMoment(o, lever))
	return Inertia{Mass: mass, Lever: lever, Moment: moment}
}

// shiftedMoment is the parallel-axis shift of a body's moment from its own
// center of mass to the point c, still about-center-of-mass form for the
// composite at c.
func shiftedMoment(in Inertia, c r3.Vector) *mat.SymDense {
	d := in.Lever.Sub(c)
	out := mat.NewSymDense(3, nil)
	out.CopySym(in.Moment)
	n2 := d.Norm2()
	out.SetSym(0, 0, out.At(0, 0)+in.Mass*(n2-d.X*d.X))
	out.SetSym(1, 1, out.At(1, 1)+in.Mass*(n2-d.Y*d.Y))
	out.SetSym(2, 2, out.At(2, 2)+in.Mass*(n2-d.Z*d.Z))
	out.SetSym(0, 1, out.At(0, 1)-in.Mass*d.X*d.Y)
	out.SetSym(0, 2, out.At(0, 2)-in.Mass*d.X*d.Z)
	out.SetSym(1, 2, out.At(1, 2)-in.Mass*d.Y*d.Z)
	return out
}

func symMulVec(s *mat.SymDense, v r3.Vector) r3.Vector {
	return r3.Vector{
		X: s.At(0, 0)*v.X + s.At(0, 1)*v.Y + s.At(0, 2)*v.Z,
		Y: s.At(1, 0)*v.X + s.At(1, 1)*v.Y + s.At(1, 2)*v.Z,
		Z: s.At(2, 0)*v.X + s.At(2, 1)*v.Y + s.At(2, 2)*v.Z,
	}
}

// rotateSym conjugates a symmetric 3x3 matrix by the rotation q: R*S*R^T.
func rotateSym(q quat.Number, s *mat.SymDense) *mat.SymDense {
	r := quatToMat3(q)
	var tmp, full mat.Dense
	tmp.Mul(r, s)
	full.Mul(&tmp, r.T())
	out := mat.NewSymDense(3, nil)
	for i := 0; i < 3; i++ {
		for j := i; j < 3; j++ {
			out.SetSym(i, j, (full.At(i, j)+full.At(j, i))/2)
		}
	}
	return out
}

func quatToMat3(q quat.Number) *mat.Dense {
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag
	return mat.NewDense(3, 3, []float64{
		1 - 2*(y*y+z*z), 2 * (x*y - z*w), 2 * (x*z + y*w),
		2 * (x*y + z*w), 1 - 2*(x*x+z*z), 2 * (y*z - x*w),
		2 * (x*z - y*w), 2 * (y*z + x*w), 1 - 2*(x*x+y*y),
	})
}
