package multibody

import (
	"math"
	"math/rand"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/olivier-roussel/pinocchio/spatialmath"
)

// UniverseJointID is the index of the immobile root joint every model is
// seeded with. Its placement is the identity and it carries no degrees of
// freedom.
const UniverseJointID = 0

// DefaultGravity is the gravity field a new model starts with, expressed in
// the world frame (m/s^2 along -Z).
var DefaultGravity = spatialmath.Motion{Linear: r3.Vector{Z: -9.81}}

// Model is the static description of a kinematic tree. It is built once and
// treated as read-only afterwards; a Model may be shared by any number of
// concurrent computations as long as each uses its own Data.
type Model struct {
	name    string
	joints  []Joint
	frames  []Frame
	nq      int
	nv      int
	gravity spatialmath.Motion
}

// NewModel returns a model containing only the universe joint and its frame.
func NewModel(name string) *Model {
	m := &Model{name: name, gravity: DefaultGravity}
	m.joints = append(m.joints, Joint{
		name:      "universe",
		kind:      JointFixed,
		placement: spatialmath.NewIdentityTransform(),
		inertia:   spatialmath.NewZeroInertia(),
	})
	m.frames = append(m.frames, Frame{
		name:      "universe",
		placement: spatialmath.NewIdentityTransform(),
		frameType: FrameFixedJoint,
	})
	return m
}

// Name returns the model name.
func (m *Model) Name() string { return m.name }

// NQ returns the total configuration dimension of the model.
func (m *Model) NQ() int { return m.nq }

// NV returns the total velocity dimension (degrees of freedom) of the model.
func (m *Model) NV() int { return m.nv }

// NJoints returns the number of joints, universe included.
func (m *Model) NJoints() int { return len(m.joints) }

// NFrames returns the number of frames.
func (m *Model) NFrames() int { return len(m.frames) }

// Gravity returns the gravity field of the model, expressed in the world
// frame.
func (m *Model) Gravity() spatialmath.Motion { return m.gravity }

// SetGravity replaces the gravity field. Call during construction only; a
// model in use by concurrent computations must not be mutated.
func (m *Model) SetGravity(g spatialmath.Motion) { m.gravity = g }

// Joint returns the joint at the given index. The returned value is owned by
// the model and must not be modified. Panics if the index is out of range;
// use CheckJointIndex to validate untrusted indices.
func (m *Model) Joint(i int) *Joint { return &m.joints[i] }

// Frame returns the frame at the given index. The returned value is owned by
// the model and must not be modified. Panics if the index is out of range;
// use CheckFrameIndex to validate untrusted indices.
func (m *Model) Frame(i int) *Frame { return &m.frames[i] }

// CheckJointIndex validates a joint index against the model.
func (m *Model) CheckJointIndex(i int) error {
	if i < 0 || i >= len(m.joints) {
		return NewJointIndexError(i, len(m.joints))
	}
	return nil
}

// CheckFrameIndex validates a frame index against the model.
func (m *Model) CheckFrameIndex(i int) error {
	if i < 0 || i >= len(m.frames) {
		return NewFrameIndexError(i, len(m.frames))
	}
	return nil
}

// JointID returns the index of the joint with the given name.
func (m *Model) JointID(name string) (int, bool) {
	for i := range m.joints {
		if m.joints[i].name == name {
			return i, true
		}
	}
	return 0, false
}

// FrameID returns the index of the frame with the given name.
func (m *Model) FrameID(name string) (int, bool) {
	for i := range m.frames {
		if m.frames[i].name == name {
			return i, true
		}
	}
	return 0, false
}

// AddJoint appends a joint to the tree as a child of the joint at index
// parent, with the given constant placement of the joint's zero configuration
// in the parent frame and the spatial inertia of the attached body in the
// joint's local frame. The axis is the motion axis for revolute and prismatic
// kinds and is ignored otherwise. A frame of type FrameJoint with identity
// placement is added alongside the joint. Returns the new joint's index.
func (m *Model) AddJoint(
	parent int,
	kind JointKind,
	axis r3.Vector,
	placement spatialmath.Transform,
	inertia spatialmath.Inertia,
	name string,
) (int, error) {
	var errAll error
	if parent < 0 || parent >= len(m.joints) {
		multierr.AppendInto(&errAll, NewJointIndexError(parent, len(m.joints)))
	}
	if name == "" {
		multierr.AppendInto(&errAll, errors.New("joint name cannot be empty"))
	}
	if _, ok := m.JointID(name); ok {
		multierr.AppendInto(&errAll, errors.Errorf("joint name %q already in model", name))
	}
	if kind == JointRevolute || kind == JointPrismatic {
		if axis.Norm2() == 0 {
			multierr.AppendInto(&errAll, errors.Errorf("cannot use zero vector as %s joint axis", kind))
		} else {
			axis = axis.Normalize()
		}
	}
	if errAll != nil {
		return 0, errAll
	}

	id := len(m.joints)
	m.joints = append(m.joints, Joint{
		name:      name,
		kind:      kind,
		axis:      axis,
		parent:    parent,
		placement: placement,
		inertia:   spatialmath.NewInertia(inertia.Mass, inertia.Lever, inertia.Moment),
		idxQ:      m.nq,
		idxV:      m.nv,
		subspace:  motionSubspace(kind, axis),
	})
	m.nq += kind.ConfigurationSize()
	m.nv += kind.VelocitySize()
	m.frames = append(m.frames, Frame{
		name:      name,
		parent:    id,
		placement: spatialmath.NewIdentityTransform(),
		frameType: FrameJoint,
	})
	return id, nil
}

// AddFrame attaches a named frame to the joint at index parent with the given
// constant placement in that joint's frame. Returns the new frame's index.
func (m *Model) AddFrame(parent int, placement spatialmath.Transform, name string, frameType FrameType) (int, error) {
	var errAll error
	if parent < 0 || parent >= len(m.joints) {
		multierr.AppendInto(&errAll, NewJointIndexError(parent, len(m.joints)))
	}
	if name == "" {
		multierr.AppendInto(&errAll, errors.New("frame name cannot be empty"))
	}
	if _, ok := m.FrameID(name); ok {
		multierr.AppendInto(&errAll, errors.Errorf("frame name %q already in model", name))
	}
	if errAll != nil {
		return 0, errAll
	}
	m.frames = append(m.frames, Frame{name: name, parent: parent, placement: placement, frameType: frameType})
	return len(m.frames) - 1, nil
}

// NeutralConfiguration returns the length-NQ configuration with every joint
// at its neutral position.
func (m *Model) NeutralConfiguration() []float64 {
	q := make([]float64, 0, m.nq)
	for i := range m.joints {
		q = append(q, m.joints[i].kind.NeutralConfiguration()...)
	}
	return q
}

// RandomConfiguration returns a valid random configuration: angles uniform in
// [-pi, pi], translations uniform in [-1, 1], rotation quaternions uniform on
// the unit sphere.
func (m *Model) RandomConfiguration(r *rand.Rand) []float64 {
	q := make([]float64, 0, m.nq)
	for i := range m.joints {
		switch m.joints[i].kind {
		case JointRevolute:
			q = append(q, (r.Float64()*2-1)*math.Pi)
		case JointPrismatic:
			q = append(q, r.Float64()*2-1)
		case JointSpherical:
			q = append(q, randomUnitQuaternion(r)...)
		case JointFreeFlyer:
			q = append(q, r.Float64()*2-1, r.Float64()*2-1, r.Float64()*2-1)
			q = append(q, randomUnitQuaternion(r)...)
		}
	}
	return q
}

// randomUnitQuaternion samples a rotation uniformly, returned in (x, y, z, w)
// configuration order.
func randomUnitQuaternion(r *rand.Rand) []float64 {
	var v [4]float64
	var n float64
	for n == 0 {
		for i := range v {
			v[i] = r.NormFloat64()
		}
		n = math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2] + v[3]*v[3])
	}
	return []float64{v[0] / n, v[1] / n, v[2] / n, v[3] / n}
}
