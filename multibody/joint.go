// Package multibody describes an articulated rigid-body system: an immutable
// kinematic tree of joints (Model), named reference points attached to it
// (Frame), and the mutable per-computation workspace sized from the model
// (Data).
package multibody

import (
	"fmt"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"

	"github.com/olivier-roussel/pinocchio/spatialmath"
)

// JointKind enumerates the supported joint types. The set is closed: all
// joint-specific kinematics dispatch on it with a single switch, keeping the
// traversal loops free of dynamic dispatch.
type JointKind int

// The supported joint kinds.
const (
	JointFixed JointKind = iota
	JointRevolute
	JointPrismatic
	JointSpherical
	JointFreeFlyer
)

func (k JointKind) String() string {
	switch k {
	case JointFixed:
		return "fixed"
	case JointRevolute:
		return "revolute"
	case JointPrismatic:
		return "prismatic"
	case JointSpherical:
		return "spherical"
	case JointFreeFlyer:
		return "freeflyer"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// ConfigurationSize returns nq, the number of configuration variables of the
// kind. Spherical and free-flyer rotations are unit quaternions (x, y, z, w).
func (k JointKind) ConfigurationSize() int {
	switch k {
	case JointRevolute, JointPrismatic:
		return 1
	case JointSpherical:
		return 4
	case JointFreeFlyer:
		return 7
	default:
		return 0
	}
}

// VelocitySize returns nv, the number of velocity variables (degrees of
// freedom) of the kind.
func (k JointKind) VelocitySize() int {
	switch k {
	case JointRevolute, JointPrismatic:
		return 1
	case JointSpherical:
		return 3
	case JointFreeFlyer:
		return 6
	default:
		return 0
	}
}

// Joint is one node of the kinematic tree: its kind, its constant placement
// offset from the parent joint frame, and the spatial inertia of the body
// rigidly attached to it, expressed in the joint's local frame.
type Joint struct {
	name      string
	kind      JointKind
	axis      r3.Vector
	parent    int
	placement spatialmath.Transform
	inertia   spatialmath.Inertia
	idxQ      int
	idxV      int
	subspace  []spatialmath.Motion
}

// Name returns the joint name, unique within its model.
func (j *Joint) Name() string { return j.name }

// Kind returns the joint kind.
func (j *Joint) Kind() JointKind { return j.kind }

// Parent returns the index of the parent joint. Parent indices are always
// strictly smaller than the joint's own index.
func (j *Joint) Parent() int { return j.parent }

// Placement returns the constant placement of the joint's zero configuration
// in the parent joint frame.
func (j *Joint) Placement() spatialmath.Transform { return j.placement }

// Inertia returns the spatial inertia of the body attached to the joint,
// expressed in the joint's local frame.
func (j *Joint) Inertia() spatialmath.Inertia { return j.inertia }

// NQ returns the size of the joint's own configuration slice.
func (j *Joint) NQ() int { return j.kind.ConfigurationSize() }

// NV returns the size of the joint's own velocity slice.
func (j *Joint) NV() int { return j.kind.VelocitySize() }

// IdxQ returns the offset of the joint's slice in a model configuration
// vector.
func (j *Joint) IdxQ() int { return j.idxQ }

// IdxV returns the offset of the joint's slice in a model velocity vector.
func (j *Joint) IdxV() int { return j.idxV }

// MotionSubspace returns the columns of the joint's motion subspace: the 6xNV
// matrix mapping the joint's own velocity slice into a spatial velocity in
// the joint's local frame. The returned slice is shared and must not be
// modified.
func (j *Joint) MotionSubspace() []spatialmath.Motion { return j.subspace }

// LocalPlacement computes the placement of the joint frame in the parent
// joint frame: the constant mounting placement composed with the transform of
// the joint's own configuration slice (length NQ).
func (j *Joint) LocalPlacement(q []float64) (spatialmath.Transform, error) {
	if len(q) != j.NQ() {
		return spatialmath.Transform{}, NewDimensionError("joint configuration slice", len(q), j.NQ())
	}
	var cfg spatialmath.Transform
	switch j.kind {
	case JointRevolute:
		cfg = spatialmath.NewTransformFromAxisAngle(j.axis, q[0])
	case JointPrismatic:
		cfg = spatialmath.NewTransformFromPoint(j.axis.Mul(q[0]))
	case JointSpherical:
		cfg = spatialmath.NewTransform(quat.Number{Real: q[3], Imag: q[0], Jmag: q[1], Kmag: q[2]}, r3.Vector{})
	case JointFreeFlyer:
		cfg = spatialmath.NewTransform(
			quat.Number{Real: q[6], Imag: q[3], Jmag: q[4], Kmag: q[5]},
			r3.Vector{X: q[0], Y: q[1], Z: q[2]},
		)
	default:
		return j.placement, nil
	}
	return j.placement.Mul(cfg), nil
}

// SubspaceVelocity maps the joint's own velocity slice through the motion
// subspace, yielding the joint's contribution to spatial velocity in its
// local frame. v must have length NV; the traversal algorithms validate whole
// tangent vectors once at their boundary before slicing per joint, so no
// per-joint check is repeated here.
func (j *Joint) SubspaceVelocity(v []float64) spatialmath.Motion {
	var out spatialmath.Motion
	for k, col := range j.subspace {
		out = out.Add(col.Scale(v[k]))
	}
	return out
}

// motionSubspace returns the constant subspace columns for a joint kind.
// Velocity ordering for the free-flyer is linear first, then angular, both in
// the joint's local frame.
func motionSubspace(kind JointKind, axis r3.Vector) []spatialmath.Motion {
	switch kind {
	case JointRevolute:
		return []spatialmath.Motion{{Angular: axis}}
	case JointPrismatic:
		return []spatialmath.Motion{{Linear: axis}}
	case JointSpherical:
		return []spatialmath.Motion{
			{Angular: r3.Vector{X: 1}},
			{Angular: r3.Vector{Y: 1}},
			{Angular: r3.Vector{Z: 1}},
		}
	case JointFreeFlyer:
		return []spatialmath.Motion{
			{Linear: r3.Vector{X: 1}},
			{Linear: r3.Vector{Y: 1}},
			{Linear: r3.Vector{Z: 1}},
			{Angular: r3.Vector{X: 1}},
			{Angular: r3.Vector{Y: 1}},
			{Angular: r3.Vector{Z: 1}},
		}
	default:
		return nil
	}
}

// NeutralConfiguration returns the joint's neutral configuration slice:
// zeros, with identity quaternions where the configuration embeds one.
func (k JointKind) NeutralConfiguration() []float64 {
	q := make([]float64, k.ConfigurationSize())
	switch k {
	case JointSpherical:
		q[3] = 1
	case JointFreeFlyer:
		q[6] = 1
	}
	return q
}
