package multibody

import (
	"github.com/olivier-roussel/pinocchio/spatialmath"
)

// FrameType tags the role of a frame. The tag is descriptive only; it does
// not alter any kinematic computation.
type FrameType int

// The frame role tags.
const (
	// FrameOperational marks a user-defined point of interest, e.g. an end
	// effector or a grasp target.
	FrameOperational FrameType = iota
	// FrameJoint marks a frame coincident with a joint frame.
	FrameJoint
	// FrameFixedJoint marks the frame left behind by a fused fixed joint.
	FrameFixedJoint
	// FrameBody marks a body frame.
	FrameBody
	// FrameSensor marks a sensor mounting point.
	FrameSensor
)

func (t FrameType) String() string {
	switch t {
	case FrameOperational:
		return "operational"
	case FrameJoint:
		return "joint"
	case FrameFixedJoint:
		return "fixed-joint"
	case FrameBody:
		return "body"
	case FrameSensor:
		return "sensor"
	default:
		return "unknown"
	}
}

// Frame is a named reference point rigidly attached to exactly one joint,
// defined by a constant placement offset from that joint's frame.
type Frame struct {
	name      string
	parent    int
	placement spatialmath.Transform
	frameType FrameType
}

// Name returns the frame name, unique within its model.
func (f *Frame) Name() string { return f.name }

// Parent returns the index of the joint the frame is attached to.
func (f *Frame) Parent() int { return f.parent }

// Placement returns the constant placement of the frame in its attachment
// joint's frame.
func (f *Frame) Placement() spatialmath.Transform { return f.placement }

// Type returns the frame's role tag.
func (f *Frame) Type() FrameType { return f.frameType }
