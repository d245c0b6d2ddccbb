// Package dynamics implements the recursive spatial-algebra algorithms over a
// kinematic tree: forward kinematics, frame kinematics, Jacobian assembly and
// its time variation, the Recursive Newton-Euler inverse dynamics and the
// Composite Rigid Body mass matrix.
//
// All algorithms read a multibody.Model and write into a multibody.Data. They
// are purely sequential and run to completion synchronously; a Model may be
// shared across goroutines but each concurrent computation needs its own
// Data.
package dynamics

import (
	"github.com/pkg/errors"

	"github.com/olivier-roussel/pinocchio/multibody"
)

// ForwardKinematics propagates placements root-to-leaf for the configuration
// q, filling the world placement of every joint. If v is non-nil it also
// propagates spatial velocities, and if a is additionally non-nil, spatial
// accelerations. Passing a without v is an error.
func ForwardKinematics(m *multibody.Model, d *multibody.Data, q, v, a []float64) error {
	if err := checkConfiguration(m, q); err != nil {
		return err
	}
	if a != nil && v == nil {
		return errors.New("acceleration supplied without velocity")
	}
	if v != nil {
		if err := checkTangent(m, v, "velocity vector"); err != nil {
			return err
		}
	}
	if a != nil {
		if err := checkTangent(m, a, "acceleration vector"); err != nil {
			return err
		}
	}

	d.V[0] = zeroMotion
	d.A[0] = zeroMotion
	for i := 1; i < m.NJoints(); i++ {
		j := m.Joint(i)
		liMi, err := j.LocalPlacement(q[j.IdxQ() : j.IdxQ()+j.NQ()])
		if err != nil {
			return err
		}
		d.LiMi[i] = liMi
		d.OMi[i] = d.OMi[j.Parent()].Mul(liMi)
		if v == nil {
			continue
		}
		vJ := j.SubspaceVelocity(v[j.IdxV() : j.IdxV()+j.NV()])
		d.V[i] = liMi.ActInvMotion(d.V[j.Parent()]).Add(vJ)
		if a != nil {
			aJ := j.SubspaceVelocity(a[j.IdxV() : j.IdxV()+j.NV()])
			d.A[i] = liMi.ActInvMotion(d.A[j.Parent()]).Add(aJ).Add(d.V[i].Cross(vJ))
		}
	}

	phases := multibody.PhasePositions
	if v != nil {
		phases |= multibody.PhaseVelocities
	}
	if a != nil {
		phases |= multibody.PhaseAccelerations
	}
	d.SetPhases(phases)
	return nil
}

func checkConfiguration(m *multibody.Model, q []float64) error {
	if len(q) != m.NQ() {
		return multibody.NewDimensionError("configuration vector", len(q), m.NQ())
	}
	return nil
}

func checkTangent(m *multibody.Model, v []float64, what string) error {
	if len(v) != m.NV() {
		return multibody.NewDimensionError(what, len(v), m.NV())
	}
	return nil
}
