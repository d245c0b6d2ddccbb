package dynamics

import (
	"github.com/olivier-roussel/pinocchio/multibody"
	"github.com/olivier-roussel/pinocchio/spatialmath"
)

var zeroMotion spatialmath.Motion

// FramesForwardKinematics updates the world placement of every frame. If q is
// non-nil, forward kinematics runs first; with a nil q the joint placements
// from a previous forward kinematics call are reused.
func FramesForwardKinematics(m *multibody.Model, d *multibody.Data, q []float64) error {
	if q != nil {
		if err := ForwardKinematics(m, d, q, nil, nil); err != nil {
			return err
		}
	} else if err := d.Require(multibody.PhasePositions, "forward kinematics"); err != nil {
		return err
	}
	for i := 0; i < m.NFrames(); i++ {
		f := m.Frame(i)
		d.OMf[i] = d.OMi[f.Parent()].Mul(f.Placement())
	}
	d.MarkComputed(multibody.PhaseFramePlacements)
	return nil
}

// UpdateFramePlacement recomputes and returns the world placement of a single
// frame from the joint placements already in the workspace.
func UpdateFramePlacement(m *multibody.Model, d *multibody.Data, frameID int) (spatialmath.Transform, error) {
	if err := m.CheckFrameIndex(frameID); err != nil {
		return spatialmath.Transform{}, err
	}
	if err := d.Require(multibody.PhasePositions, "forward kinematics"); err != nil {
		return spatialmath.Transform{}, err
	}
	f := m.Frame(frameID)
	d.OMf[frameID] = d.OMi[f.Parent()].Mul(f.Placement())
	return d.OMf[frameID], nil
}

// GetFrameVelocity returns the spatial velocity of a frame expressed in the
// frame's own axes, transporting the attachment joint's velocity through the
// frame offset. Forward kinematics with velocity must have run on the
// workspace.
func GetFrameVelocity(m *multibody.Model, d *multibody.Data, frameID int) (spatialmath.Motion, error) {
	if err := m.CheckFrameIndex(frameID); err != nil {
		return spatialmath.Motion{}, err
	}
	if err := d.Require(multibody.PhasePositions|multibody.PhaseVelocities, "forward kinematics with velocity"); err != nil {
		return spatialmath.Motion{}, err
	}
	f := m.Frame(frameID)
	return f.Placement().ActInvMotion(d.V[f.Parent()]), nil
}

// GetFrameAcceleration returns the spatial acceleration of a frame expressed
// in the frame's own axes. Forward kinematics with acceleration must have run
// on the workspace.
func GetFrameAcceleration(m *multibody.Model, d *multibody.Data, frameID int) (spatialmath.Motion, error) {
	if err := m.CheckFrameIndex(frameID); err != nil {
		return spatialmath.Motion{}, err
	}
	if err := d.Require(multibody.PhasePositions|multibody.PhaseAccelerations, "forward kinematics with acceleration"); err != nil {
		return spatialmath.Motion{}, err
	}
	f := m.Frame(frameID)
	return f.Placement().ActInvMotion(d.A[f.Parent()]), nil
}
