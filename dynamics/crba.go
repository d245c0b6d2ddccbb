package dynamics

import (
	"gonum.org/v1/gonum/mat"

	"github.com/olivier-roussel/pinocchio/multibody"
	"github.com/olivier-roussel/pinocchio/spatialmath"
)

// CRBA computes the joint-space mass matrix M(q) with the Composite Rigid
// Body Algorithm. Together with NonLinearEffects it decomposes inverse
// dynamics: RNEA(q, v, a) = M(q)*a + NonLinearEffects(q, v).
func CRBA(m *multibody.Model, d *multibody.Data, q []float64) (*mat.SymDense, error) {
	if err := checkConfiguration(m, q); err != nil {
		return nil, err
	}

	// Placement pass, root to leaf.
	for i := 1; i < m.NJoints(); i++ {
		j := m.Joint(i)
		liMi, err := j.LocalPlacement(q[j.IdxQ() : j.IdxQ()+j.NQ()])
		if err != nil {
			return nil, err
		}
		d.LiMi[i] = liMi
		d.OMi[i] = d.OMi[j.Parent()].Mul(liMi)
	}
	d.SetPhases(multibody.PhasePositions)

	composite := make([]spatialmath.Inertia, m.NJoints())
	for i := 0; i < m.NJoints(); i++ {
		composite[i] = m.Joint(i).Inertia()
	}

	if m.NV() == 0 {
		return nil, multibody.NewDimensionError("model velocity dimension", 0, 1)
	}
	out := mat.NewSymDense(m.NV(), nil)
	// Leaf to root: each joint sees the inertia of its whole subtree. The
	// subtree inertia applied to the joint's subspace columns yields the
	// force felt along the chain; projecting onto each ancestor's subspace
	// fills one block row of the (symmetric) mass matrix.
	for i := m.NJoints() - 1; i > 0; i-- {
		j := m.Joint(i)
		sub := j.MotionSubspace()
		forces := make([]spatialmath.Force, len(sub))
		for k, col := range sub {
			forces[k] = composite[i].Apply(col)
		}
		for k := range forces {
			for l := k; l < len(sub); l++ {
				out.SetSym(j.IdxV()+k, j.IdxV()+l, sub[k].Dot(forces[l]))
			}
		}
		// Transport the column forces up the ancestor chain, projecting at
		// each ancestor joint.
		for anc, x := j.Parent(), d.LiMi[i]; anc > 0; anc = m.Joint(anc).Parent() {
			aj := m.Joint(anc)
			for k := range forces {
				f := x.ActForce(forces[k])
				for l, col := range aj.MotionSubspace() {
					out.SetSym(aj.IdxV()+l, j.IdxV()+k, col.Dot(f))
				}
			}
			x = d.LiMi[anc].Mul(x)
		}
		composite[j.Parent()] = composite[j.Parent()].Add(composite[i].Transform(d.LiMi[i]))
	}
	return out, nil
}
