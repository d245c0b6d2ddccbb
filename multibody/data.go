package multibody

import (
	"github.com/edaniels/golog"
	"gonum.org/v1/gonum/mat"

	"github.com/olivier-roussel/pinocchio/spatialmath"
)

// Phase identifies a family of quantities an algorithm has populated in a
// Data. Producers stamp the phases they compute; consumers can require them.
type Phase uint8

// The workspace phases.
const (
	PhasePositions Phase = 1 << iota
	PhaseVelocities
	PhaseAccelerations
	PhaseJacobians
	PhaseJacobianTimeVariation
	PhaseFramePlacements
)

// Data is the mutable workspace of the algorithms, sized exactly from a
// Model. All buffers are recomputed on demand by whichever algorithm is
// called; there is no caching of validity. A Data must only be written by one
// in-flight algorithm call at a time.
type Data struct {
	// OMi is the world placement of each joint frame.
	OMi []spatialmath.Transform
	// LiMi is the local placement of each joint in its parent's frame for the
	// configuration of the last traversal.
	LiMi []spatialmath.Transform
	// V is the spatial velocity of each joint, expressed in the joint's local
	// frame.
	V []spatialmath.Motion
	// A is the spatial acceleration of each joint, local frame, as computed
	// by forward kinematics.
	A []spatialmath.Motion
	// Ag is the acceleration with the gravity field folded into the root,
	// the working quantity of the inverse dynamics recursion.
	Ag []spatialmath.Motion
	// F is the per-joint spatial force accumulator of the inverse dynamics
	// backward pass, local frame.
	F []spatialmath.Force
	// Tau is the generalized force output vector, length NV.
	Tau []float64
	// J is the full 6xNV Jacobian with columns expressed at the world origin
	// in world axes. Nil when the model has no degrees of freedom.
	J *mat.Dense
	// DJ is the time derivative of J. Nil when the model has no degrees of
	// freedom.
	DJ *mat.Dense
	// OMf is the world placement of each frame.
	OMf []spatialmath.Transform

	phases Phase
	checks bool
	logger golog.Logger
}

// NewData returns a workspace sized for the given model.
func NewData(m *Model) *Data {
	nj := m.NJoints()
	d := &Data{
		OMi:  make([]spatialmath.Transform, nj),
		LiMi: make([]spatialmath.Transform, nj),
		V:    make([]spatialmath.Motion, nj),
		A:    make([]spatialmath.Motion, nj),
		Ag:   make([]spatialmath.Motion, nj),
		F:    make([]spatialmath.Force, nj),
		Tau:  make([]float64, m.NV()),
		OMf:  make([]spatialmath.Transform, m.NFrames()),
	}
	for i := range d.OMi {
		d.OMi[i] = spatialmath.NewIdentityTransform()
		d.LiMi[i] = spatialmath.NewIdentityTransform()
	}
	for i := range d.OMf {
		d.OMf[i] = spatialmath.NewIdentityTransform()
	}
	if nv := m.NV(); nv > 0 {
		d.J = mat.NewDense(6, nv, nil)
		d.DJ = mat.NewDense(6, nv, nil)
	}
	return d
}

// EnableChecks turns on ordering-precondition validation: consumer
// algorithms will return an error wrapping ErrStaleData when a required
// producer has not run. Intended for tests and debugging; when disabled (the
// default) the checks cost nothing and violations silently read stale
// buffers, matching the production contract.
func (d *Data) EnableChecks(logger golog.Logger) {
	d.checks = true
	d.logger = logger
}

// SetPhases records that a producer recomputed the workspace from scratch,
// invalidating everything it did not produce.
func (d *Data) SetPhases(p Phase) {
	d.phases = p
}

// MarkComputed records additional phases on top of what is already valid,
// for producers that consume earlier results (e.g. frame placements on top
// of forward kinematics).
func (d *Data) MarkComputed(p Phase) {
	d.phases |= p
}

// Require returns an error if checks are enabled and any of the given phases
// has not been computed since the last from-scratch producer ran.
func (d *Data) Require(p Phase, what string) error {
	if !d.checks || d.phases&p == p {
		return nil
	}
	err := NewStaleDataError(what)
	if d.logger != nil {
		d.logger.Warn(err)
	}
	return err
}
