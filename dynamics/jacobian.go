package dynamics

import (
	"gonum.org/v1/gonum/mat"

	"github.com/olivier-roussel/pinocchio/multibody"
	"github.com/olivier-roussel/pinocchio/spatialmath"
)

// ReferenceFrame selects the convention a Jacobian (or other Cartesian-space
// quantity) is expressed in.
type ReferenceFrame int

const (
	// World expresses columns in axes aligned with the world frame, with the
	// origin anchored at the queried point.
	World ReferenceFrame = iota
	// Local expresses columns in the queried point's own local axes.
	Local
)

func (rf ReferenceFrame) String() string {
	if rf == World {
		return "world"
	}
	return "local"
}

// ComputeJointJacobians computes forward kinematics for q and fills the full
// tree Jacobian in the workspace: for every joint, the block of columns
// mapping that joint's velocity slice to spatial velocity expressed at the
// world origin in world axes. It is the required producer for the frame and
// joint Jacobian getters.
func ComputeJointJacobians(m *multibody.Model, d *multibody.Data, q []float64) error {
	if err := checkConfiguration(m, q); err != nil {
		return err
	}
	for i := 1; i < m.NJoints(); i++ {
		j := m.Joint(i)
		liMi, err := j.LocalPlacement(q[j.IdxQ() : j.IdxQ()+j.NQ()])
		if err != nil {
			return err
		}
		d.LiMi[i] = liMi
		d.OMi[i] = d.OMi[j.Parent()].Mul(liMi)
		for k, col := range j.MotionSubspace() {
			setMotionCol(d.J, j.IdxV()+k, d.OMi[i].ActMotion(col))
		}
	}
	d.SetPhases(multibody.PhasePositions | multibody.PhaseJacobians)
	return nil
}

// ComputeJacobiansTimeVariation computes forward kinematics for (q, v) and
// fills both the full tree Jacobian and its time derivative in the workspace.
func ComputeJacobiansTimeVariation(m *multibody.Model, d *multibody.Data, q, v []float64) error {
	if err := checkConfiguration(m, q); err != nil {
		return err
	}
	if err := checkTangent(m, v, "velocity vector"); err != nil {
		return err
	}
	d.V[0] = zeroMotion
	for i := 1; i < m.NJoints(); i++ {
		j := m.Joint(i)
		liMi, err := j.LocalPlacement(q[j.IdxQ() : j.IdxQ()+j.NQ()])
		if err != nil {
			return err
		}
		d.LiMi[i] = liMi
		d.OMi[i] = d.OMi[j.Parent()].Mul(liMi)
		vJ := j.SubspaceVelocity(v[j.IdxV() : j.IdxV()+j.NV()])
		d.V[i] = liMi.ActInvMotion(d.V[j.Parent()]).Add(vJ)
		for k, col := range j.MotionSubspace() {
			setMotionCol(d.J, j.IdxV()+k, d.OMi[i].ActMotion(col))
			// The subspace columns are constant in the joint frame, so the
			// world column derivative reduces to transporting v x S.
			setMotionCol(d.DJ, j.IdxV()+k, d.OMi[i].ActMotion(d.V[i].Cross(col)))
		}
	}
	d.SetPhases(multibody.PhasePositions | multibody.PhaseVelocities |
		multibody.PhaseJacobians | multibody.PhaseJacobianTimeVariation)
	return nil
}

// GetFrameJacobian assembles the 6xNV Jacobian of a frame in the requested
// reference convention. Columns for joints that are not ancestors of the
// frame's attachment joint are zero. ComputeJointJacobians and
// FramesForwardKinematics must have run on the workspace.
func GetFrameJacobian(m *multibody.Model, d *multibody.Data, frameID int, rf ReferenceFrame) (*mat.Dense, error) {
	if err := m.CheckFrameIndex(frameID); err != nil {
		return nil, err
	}
	if err := d.Require(multibody.PhaseJacobians|multibody.PhaseFramePlacements, "joint jacobians and frame placements"); err != nil {
		return nil, err
	}
	if m.NV() == 0 {
		return nil, multibody.NewDimensionError("model velocity dimension", 0, 1)
	}
	out := mat.NewDense(6, m.NV(), nil)
	extractAncestorCols(m, d.J, out, m.Frame(frameID).Parent(), d.OMf[frameID], rf)
	return out, nil
}

// GetFrameJacobianTimeVariation assembles the time derivative of a frame
// Jacobian into dst, which must be 6xNV. The destination is zeroed before
// assembly. ComputeJacobiansTimeVariation and FramesForwardKinematics must
// have run on the workspace.
func GetFrameJacobianTimeVariation(m *multibody.Model, d *multibody.Data, frameID int, rf ReferenceFrame, dst *mat.Dense) error {
	if err := m.CheckFrameIndex(frameID); err != nil {
		return err
	}
	if err := checkMatrix6xNV(m, dst, "jacobian time variation buffer"); err != nil {
		return err
	}
	if err := d.Require(multibody.PhaseJacobianTimeVariation|multibody.PhaseFramePlacements, "jacobian time variation and frame placements"); err != nil {
		return err
	}
	dst.Zero()
	extractAncestorCols(m, d.DJ, dst, m.Frame(frameID).Parent(), d.OMf[frameID], rf)
	return nil
}

// GetJointJacobian assembles the 6xNV Jacobian of a joint frame into dst,
// which must be 6xNV and is zeroed before assembly. ComputeJointJacobians
// must have run on the workspace.
func GetJointJacobian(m *multibody.Model, d *multibody.Data, jointID int, rf ReferenceFrame, dst *mat.Dense) error {
	if err := m.CheckJointIndex(jointID); err != nil {
		return err
	}
	if err := checkMatrix6xNV(m, dst, "jacobian buffer"); err != nil {
		return err
	}
	if err := d.Require(multibody.PhaseJacobians, "joint jacobians"); err != nil {
		return err
	}
	dst.Zero()
	extractAncestorCols(m, d.J, dst, jointID, d.OMi[jointID], rf)
	return nil
}

// GetLocalFrameJacobian assembles the frame Jacobian in the frame's local
// axes.
//
// Deprecated: use GetFrameJacobian with an explicit ReferenceFrame.
func GetLocalFrameJacobian(m *multibody.Model, d *multibody.Data, frameID int) (*mat.Dense, error) {
	return GetFrameJacobian(m, d, frameID, Local)
}

// GetWorldFrameJacobian assembles the frame Jacobian in world-aligned axes.
//
// Deprecated: use GetFrameJacobian with an explicit ReferenceFrame.
func GetWorldFrameJacobian(m *multibody.Model, d *multibody.Data, frameID int) (*mat.Dense, error) {
	return GetFrameJacobian(m, d, frameID, World)
}

// GetLocalFrameJacobianTimeVariation assembles the frame Jacobian time
// derivative in the frame's local axes.
//
// Deprecated: use GetFrameJacobianTimeVariation with an explicit
// ReferenceFrame.
func GetLocalFrameJacobianTimeVariation(m *multibody.Model, d *multibody.Data, frameID int, dst *mat.Dense) error {
	return GetFrameJacobianTimeVariation(m, d, frameID, Local, dst)
}

// GetWorldFrameJacobianTimeVariation assembles the frame Jacobian time
// derivative in world-aligned axes.
//
// Deprecated: use GetFrameJacobianTimeVariation with an explicit
// ReferenceFrame.
func GetWorldFrameJacobianTimeVariation(m *multibody.Model, d *multibody.Data, frameID int, dst *mat.Dense) error {
	return GetFrameJacobianTimeVariation(m, d, frameID, World, dst)
}

// extractAncestorCols walks the ancestor chain of the given joint and copies
// the corresponding column blocks of src (expressed at the world origin) into
// dst, transported into the requested reference convention for the query
// placement oMq.
func extractAncestorCols(m *multibody.Model, src, dst *mat.Dense, joint int, oMq spatialmath.Transform, rf ReferenceFrame) {
	for i := joint; i > 0; i = m.Joint(i).Parent() {
		j := m.Joint(i)
		for k := 0; k < j.NV(); k++ {
			col := motionCol(src, j.IdxV()+k)
			if rf == Local {
				col = oMq.ActInvMotion(col)
			} else {
				// Translation-only transport: world axes, origin anchored at
				// the queried point.
				col = spatialmath.Motion{
					Linear:  col.Linear.Sub(oMq.Trans.Cross(col.Angular)),
					Angular: col.Angular,
				}
			}
			setMotionCol(dst, j.IdxV()+k, col)
		}
	}
}

func setMotionCol(dst *mat.Dense, col int, v spatialmath.Motion) {
	dst.Set(0, col, v.Linear.X)
	dst.Set(1, col, v.Linear.Y)
	dst.Set(2, col, v.Linear.Z)
	dst.Set(3, col, v.Angular.X)
	dst.Set(4, col, v.Angular.Y)
	dst.Set(5, col, v.Angular.Z)
}

func motionCol(src *mat.Dense, col int) spatialmath.Motion {
	return spatialmath.Motion{
		Linear:  r3Vec(src.At(0, col), src.At(1, col), src.At(2, col)),
		Angular: r3Vec(src.At(3, col), src.At(4, col), src.At(5, col)),
	}
}

func checkMatrix6xNV(m *multibody.Model, mx *mat.Dense, what string) error {
	if mx == nil {
		return multibody.NewDimensionError(what+" rows", 0, 6)
	}
	r, c := mx.Dims()
	if r != 6 {
		return multibody.NewDimensionError(what+" rows", r, 6)
	}
	if c != m.NV() {
		return multibody.NewDimensionError(what+" columns", c, m.NV())
	}
	return nil
}
