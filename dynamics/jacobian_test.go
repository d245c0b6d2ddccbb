package dynamics

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"

	"github.com/olivier-roussel/pinocchio/multibody"
	"github.com/olivier-roussel/pinocchio/spatialmath"
)

// branchedModel builds two independent two-joint chains hanging off the
// universe, and returns the model plus a frame on the tip of the first chain.
func branchedModel(t *testing.T) (*multibody.Model, int) {
	t.Helper()
	m := multibody.NewModel("branched")
	addChain := func(prefix string, offset r3.Vector) int {
		parent := multibody.UniverseJointID
		for i := 0; i < 2; i++ {
			place := spatialmath.NewTransformFromPoint(offset)
			if i > 0 {
				place = spatialmath.NewTransformFromPoint(r3.Vector{X: 0.5})
			}
			id, err := m.AddJoint(parent, multibody.JointRevolute, r3.Vector{Z: 1}, place,
				spatialmath.NewPointMassInertia(1, r3.Vector{X: 0.25}), prefix+jointName(i))
			test.That(t, err, test.ShouldBeNil)
			parent = id
		}
		return parent
	}
	tipJoint := addChain("left-", r3.Vector{Y: 1})
	addChain("right-", r3.Vector{Y: -1})
	tip, err := m.AddFrame(tipJoint, spatialmath.NewTransformFromPoint(r3.Vector{X: 0.5}),
		"left-tip", multibody.FrameOperational)
	test.That(t, err, test.ShouldBeNil)
	return m, tip
}

func TestJacobianAncestorSparsity(t *testing.T) {
	m, tip := branchedModel(t)
	d := multibody.NewData(m)
	q := m.RandomConfiguration(rand.New(rand.NewSource(3)))
	test.That(t, ComputeJointJacobians(m, d, q), test.ShouldBeNil)
	test.That(t, FramesForwardKinematics(m, d, nil), test.ShouldBeNil)

	rightStart := m.Joint(3).IdxV()
	for _, rf := range []ReferenceFrame{Local, World} {
		jac, err := GetFrameJacobian(m, d, tip, rf)
		test.That(t, err, test.ShouldBeNil)
		// Joints of the second chain are not ancestors of the queried frame:
		// their columns must be exactly zero.
		for c := rightStart; c < m.NV(); c++ {
			for r := 0; r < 6; r++ {
				test.That(t, jac.At(r, c), test.ShouldEqual, 0.0)
			}
		}
	}
}

func TestFrameJacobianPlanarArm(t *testing.T) {
	m, tip := revoluteChain(t, 2, r3.Vector{Y: 1}, 1.0, 1.0)
	d := multibody.NewData(m)
	test.That(t, ComputeJointJacobians(m, d, []float64{0, 0}), test.ShouldBeNil)
	test.That(t, FramesForwardKinematics(m, d, nil), test.ShouldBeNil)

	// Unit links along X at zero configuration: the tip sits at (2, 0, 0) and
	// each +Y axis contributes a x (p_tip - p_joint) linear velocity, so the
	// tip moves along -Z at the joint's distance from the tip.
	jac, err := GetFrameJacobian(m, d, tip, World)
	test.That(t, err, test.ShouldBeNil)
	want := mat.NewDense(6, 2, []float64{
		0, 0,
		0, 0,
		-2, -1,
		0, 0,
		1, 1,
		0, 0,
	})
	test.That(t, mat.EqualApprox(jac, want, 1e-12), test.ShouldBeTrue)

	// All frames are axis-aligned at zero configuration, so the local
	// convention gives the same matrix.
	local, err := GetFrameJacobian(m, d, tip, Local)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, mat.EqualApprox(local, want, 1e-12), test.ShouldBeTrue)
}

func TestJacobianVelocityConsistency(t *testing.T) {
	m, tip := revoluteChain(t, 3, r3.Vector{Z: 1}, 0.7, 1.0)
	d := multibody.NewData(m)
	r := rand.New(rand.NewSource(11))
	q := m.RandomConfiguration(r)
	v := []float64{r.NormFloat64(), r.NormFloat64(), r.NormFloat64()}

	test.That(t, ComputeJacobiansTimeVariation(m, d, q, v), test.ShouldBeNil)
	test.That(t, FramesForwardKinematics(m, d, nil), test.ShouldBeNil)

	vel, err := GetFrameVelocity(m, d, tip)
	test.That(t, err, test.ShouldBeNil)

	jacLocal, err := GetFrameJacobian(m, d, tip, Local)
	test.That(t, err, test.ShouldBeNil)
	var jv mat.VecDense
	jv.MulVec(jacLocal, mat.NewVecDense(m.NV(), v))
	for i, want := range []float64{vel.Linear.X, vel.Linear.Y, vel.Linear.Z, vel.Angular.X, vel.Angular.Y, vel.Angular.Z} {
		test.That(t, jv.AtVec(i), test.ShouldAlmostEqual, want, 1e-10)
	}

	// World-aligned convention: same velocity rotated into world axes.
	rot := spatialmath.Transform{Rot: d.OMf[tip].Rot}
	worldVel := rot.ActMotion(vel)
	jacWorld, err := GetFrameJacobian(m, d, tip, World)
	test.That(t, err, test.ShouldBeNil)
	jv.MulVec(jacWorld, mat.NewVecDense(m.NV(), v))
	for i, want := range []float64{worldVel.Linear.X, worldVel.Linear.Y, worldVel.Linear.Z, worldVel.Angular.X, worldVel.Angular.Y, worldVel.Angular.Z} {
		test.That(t, jv.AtVec(i), test.ShouldAlmostEqual, want, 1e-10)
	}
}

func TestJacobianTimeVariationFiniteDifference(t *testing.T) {
	m, _ := revoluteChain(t, 3, r3.Vector{Z: 1}, 0.7, 1.0)
	d := multibody.NewData(m)
	r := rand.New(rand.NewSource(19))
	q := m.RandomConfiguration(r)
	v := []float64{r.NormFloat64(), r.NormFloat64(), r.NormFloat64()}

	test.That(t, ComputeJacobiansTimeVariation(m, d, q, v), test.ShouldBeNil)
	dj := mat.DenseCopyOf(d.DJ)

	// Central finite difference of the world-origin Jacobian along the
	// velocity. Valid because all configuration variables are plain angles.
	const h = 1e-6
	qPlus := make([]float64, len(q))
	qMinus := make([]float64, len(q))
	for i := range q {
		qPlus[i] = q[i] + v[i]*h/2
		qMinus[i] = q[i] - v[i]*h/2
	}
	test.That(t, ComputeJointJacobians(m, d, qPlus), test.ShouldBeNil)
	jPlus := mat.DenseCopyOf(d.J)
	test.That(t, ComputeJointJacobians(m, d, qMinus), test.ShouldBeNil)
	jMinus := mat.DenseCopyOf(d.J)

	for r := 0; r < 6; r++ {
		for c := 0; c < m.NV(); c++ {
			fd := (jPlus.At(r, c) - jMinus.At(r, c)) / h
			test.That(t, dj.At(r, c), test.ShouldAlmostEqual, fd, 1e-5)
		}
	}
}

func TestFrameJacobianTimeVariationZeroesBuffer(t *testing.T) {
	m, tip := revoluteChain(t, 2, r3.Vector{Z: 1}, 1.0, 1.0)
	d := multibody.NewData(m)
	q := []float64{0.2, -0.5}
	v := []float64{1.1, 0.7}
	test.That(t, ComputeJacobiansTimeVariation(m, d, q, v), test.ShouldBeNil)
	test.That(t, FramesForwardKinematics(m, d, nil), test.ShouldBeNil)

	clean := mat.NewDense(6, m.NV(), nil)
	test.That(t, GetFrameJacobianTimeVariation(m, d, tip, Local, clean), test.ShouldBeNil)

	dirty := mat.NewDense(6, m.NV(), nil)
	for r := 0; r < 6; r++ {
		for c := 0; c < m.NV(); c++ {
			dirty.Set(r, c, 99)
		}
	}
	test.That(t, GetFrameJacobianTimeVariation(m, d, tip, Local, dirty), test.ShouldBeNil)
	test.That(t, mat.Equal(clean, dirty), test.ShouldBeTrue)
}

func TestDeprecatedJacobianEquivalence(t *testing.T) {
	m, tip := revoluteChain(t, 2, r3.Vector{Z: 1}, 1.0, 1.0)
	d := multibody.NewData(m)
	q := []float64{0.9, 0.3}
	v := []float64{-0.4, 1.2}
	test.That(t, ComputeJacobiansTimeVariation(m, d, q, v), test.ShouldBeNil)
	test.That(t, FramesForwardKinematics(m, d, nil), test.ShouldBeNil)

	for _, rf := range []ReferenceFrame{Local, World} {
		want, err := GetFrameJacobian(m, d, tip, rf)
		test.That(t, err, test.ShouldBeNil)
		var got *mat.Dense
		if rf == Local {
			got, err = GetLocalFrameJacobian(m, d, tip)
		} else {
			got, err = GetWorldFrameJacobian(m, d, tip)
		}
		test.That(t, err, test.ShouldBeNil)
		test.That(t, mat.Equal(want, got), test.ShouldBeTrue)

		wantDJ := mat.NewDense(6, m.NV(), nil)
		test.That(t, GetFrameJacobianTimeVariation(m, d, tip, rf, wantDJ), test.ShouldBeNil)
		gotDJ := mat.NewDense(6, m.NV(), nil)
		if rf == Local {
			err = GetLocalFrameJacobianTimeVariation(m, d, tip, gotDJ)
		} else {
			err = GetWorldFrameJacobianTimeVariation(m, d, tip, gotDJ)
		}
		test.That(t, err, test.ShouldBeNil)
		test.That(t, mat.Equal(wantDJ, gotDJ), test.ShouldBeTrue)
	}
}

func TestJointJacobianMatchesJointFrame(t *testing.T) {
	m, _ := revoluteChain(t, 3, r3.Vector{Z: 1}, 0.7, 1.0)
	d := multibody.NewData(m)
	q := []float64{0.1, 0.5, -0.8}
	test.That(t, ComputeJointJacobians(m, d, q), test.ShouldBeNil)
	test.That(t, FramesForwardKinematics(m, d, nil), test.ShouldBeNil)

	// The auto-added joint frame has identity placement, so the frame and
	// joint Jacobians coincide.
	jointID, ok := m.JointID("joint3")
	test.That(t, ok, test.ShouldBeTrue)
	frameID, ok := m.FrameID("joint3")
	test.That(t, ok, test.ShouldBeTrue)

	fromJoint := mat.NewDense(6, m.NV(), nil)
	test.That(t, GetJointJacobian(m, d, jointID, Local, fromJoint), test.ShouldBeNil)
	fromFrame, err := GetFrameJacobian(m, d, frameID, Local)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, mat.EqualApprox(fromJoint, fromFrame, 1e-12), test.ShouldBeTrue)
}

func TestJacobianArgumentErrors(t *testing.T) {
	m, tip := revoluteChain(t, 2, r3.Vector{Z: 1}, 1.0, 1.0)
	d := multibody.NewData(m)
	test.That(t, ComputeJointJacobians(m, d, []float64{0, 0}), test.ShouldBeNil)
	test.That(t, FramesForwardKinematics(m, d, nil), test.ShouldBeNil)

	_, err := GetFrameJacobian(m, d, 42, Local)
	test.That(t, errors.Is(err, multibody.ErrIndexOutOfRange), test.ShouldBeTrue)

	bad := mat.NewDense(5, m.NV(), nil)
	err = GetFrameJacobianTimeVariation(m, d, tip, Local, bad)
	test.That(t, errors.Is(err, multibody.ErrDimension), test.ShouldBeTrue)

	bad = mat.NewDense(6, m.NV()+1, nil)
	err = GetJointJacobian(m, d, 1, World, bad)
	test.That(t, errors.Is(err, multibody.ErrDimension), test.ShouldBeTrue)

	err = ComputeJointJacobians(m, d, []float64{0})
	test.That(t, errors.Is(err, multibody.ErrDimension), test.ShouldBeTrue)
}
