package dynamics

import (
	"github.com/golang/geo/r3"

	"github.com/olivier-roussel/pinocchio/multibody"
	"github.com/olivier-roussel/pinocchio/spatialmath"
)

func r3Vec(x, y, z float64) r3.Vector {
	return r3.Vector{X: x, Y: y, Z: z}
}

// RNEA computes inverse dynamics with the Recursive Newton-Euler Algorithm:
// the generalized forces tau such that the system with configuration q and
// velocity v undergoes acceleration a. fext, when non-nil, supplies one
// external spatial force per joint (universe entry ignored), expressed in
// that joint's local frame; applied external forces reduce the force the
// joint must generate. Gravity is folded into the root acceleration of the
// forward pass.
//
// The returned slice is the workspace's Tau buffer; it stays valid until the
// next algorithm call on the same Data. Copy it to keep it.
func RNEA(m *multibody.Model, d *multibody.Data, q, v, a []float64, fext []spatialmath.Force) ([]float64, error) {
	if err := checkConfiguration(m, q); err != nil {
		return nil, err
	}
	if err := checkTangent(m, v, "velocity vector"); err != nil {
		return nil, err
	}
	if err := checkTangent(m, a, "acceleration vector"); err != nil {
		return nil, err
	}
	if fext != nil && len(fext) != m.NJoints() {
		return nil, multibody.NewDimensionError("external force slice", len(fext), m.NJoints())
	}

	// Forward pass, root to leaf: placements, velocities and
	// gravity-augmented accelerations, then each body's net spatial force.
	d.V[0] = zeroMotion
	d.Ag[0] = m.Gravity().Scale(-1)
	for i := 1; i < m.NJoints(); i++ {
		j := m.Joint(i)
		liMi, err := j.LocalPlacement(q[j.IdxQ() : j.IdxQ()+j.NQ()])
		if err != nil {
			return nil, err
		}
		d.LiMi[i] = liMi
		d.OMi[i] = d.OMi[j.Parent()].Mul(liMi)
		vJ := j.SubspaceVelocity(v[j.IdxV() : j.IdxV()+j.NV()])
		aJ := j.SubspaceVelocity(a[j.IdxV() : j.IdxV()+j.NV()])
		d.V[i] = liMi.ActInvMotion(d.V[j.Parent()]).Add(vJ)
		d.Ag[i] = liMi.ActInvMotion(d.Ag[j.Parent()]).Add(aJ).Add(d.V[i].Cross(vJ))

		inertia := j.Inertia()
		d.F[i] = inertia.Apply(d.Ag[i]).Add(d.V[i].CrossForce(inertia.Apply(d.V[i])))
		if fext != nil {
			d.F[i] = d.F[i].Sub(fext[i])
		}
	}
	d.F[0] = spatialmath.Force{}

	// Backward pass, leaf to root: project the residual force onto each
	// joint's degrees of freedom, then fold it into the parent accumulator.
	for i := m.NJoints() - 1; i > 0; i-- {
		j := m.Joint(i)
		for k, col := range j.MotionSubspace() {
			d.Tau[j.IdxV()+k] = col.Dot(d.F[i])
		}
		d.F[j.Parent()] = d.F[j.Parent()].Add(d.LiMi[i].ActForce(d.F[i]))
	}

	d.SetPhases(multibody.PhasePositions | multibody.PhaseVelocities)
	return d.Tau, nil
}

// NonLinearEffects computes the bias generalized forces b(q, v): gravity,
// Coriolis and centrifugal terms. Inverse dynamics is affine in the
// acceleration, tau(q, v, a) = M(q)*a + b(q, v), so this is RNEA with zero
// acceleration; no separate recursion is needed.
//
// The returned slice is the workspace's Tau buffer, as with RNEA.
func NonLinearEffects(m *multibody.Model, d *multibody.Data, q, v []float64) ([]float64, error) {
	return RNEA(m, d, q, v, make([]float64, m.NV()), nil)
}
