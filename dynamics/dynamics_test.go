package dynamics

import (
	"fmt"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/olivier-roussel/pinocchio/multibody"
	"github.com/olivier-roussel/pinocchio/spatialmath"
)

// revoluteChain builds a serial arm of n revolute joints sharing one rotation
// axis, with links of the given length along local X and a point mass at the
// middle of each link. Returns the model and the id of a "tip" frame at the
// end of the last link.
func revoluteChain(t *testing.T, n int, axis r3.Vector, link, mass float64) (*multibody.Model, int) {
	t.Helper()
	m := multibody.NewModel("chain")
	parent := multibody.UniverseJointID
	for i := 0; i < n; i++ {
		offset := spatialmath.NewIdentityTransform()
		if i > 0 {
			offset = spatialmath.NewTransformFromPoint(r3.Vector{X: link})
		}
		id, err := m.AddJoint(parent, multibody.JointRevolute, axis, offset,
			spatialmath.NewPointMassInertia(mass, r3.Vector{X: link / 2}), jointName(i))
		test.That(t, err, test.ShouldBeNil)
		parent = id
	}
	tip, err := m.AddFrame(parent, spatialmath.NewTransformFromPoint(r3.Vector{X: link}),
		"tip", multibody.FrameOperational)
	test.That(t, err, test.ShouldBeNil)
	return m, tip
}

// mixedChain builds a revolute-spherical-prismatic chain with box-shaped
// bodies, covering every multi-dof code path.
func mixedChain(t *testing.T) *multibody.Model {
	t.Helper()
	m := multibody.NewModel("mixed")
	j1, err := m.AddJoint(multibody.UniverseJointID, multibody.JointRevolute, r3.Vector{Y: 1},
		spatialmath.NewIdentityTransform(),
		spatialmath.NewBoxInertia(1.2, r3.Vector{X: 0.4, Y: 0.1, Z: 0.1}, r3.Vector{X: 0.2}), "j1")
	test.That(t, err, test.ShouldBeNil)
	j2, err := m.AddJoint(j1, multibody.JointSpherical, r3.Vector{},
		spatialmath.NewTransformFromPoint(r3.Vector{X: 0.4}),
		spatialmath.NewBoxInertia(0.8, r3.Vector{X: 0.3, Y: 0.1, Z: 0.1}, r3.Vector{X: 0.15}), "j2")
	test.That(t, err, test.ShouldBeNil)
	_, err = m.AddJoint(j2, multibody.JointPrismatic, r3.Vector{X: 1},
		spatialmath.NewTransformFromPoint(r3.Vector{X: 0.3}),
		spatialmath.NewBoxInertia(0.5, r3.Vector{X: 0.2, Y: 0.05, Z: 0.05}, r3.Vector{X: 0.1}), "j3")
	test.That(t, err, test.ShouldBeNil)
	return m
}

func jointName(i int) string {
	return fmt.Sprintf("joint%d", i+1)
}
