// Package main is a command that builds a planar arm of revolute joints and
// prints the inverse dynamics torques for a given configuration.
package main

import (
	"flag"
	"fmt"
	"math/rand"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"

	"github.com/olivier-roussel/pinocchio/dynamics"
	"github.com/olivier-roussel/pinocchio/multibody"
	"github.com/olivier-roussel/pinocchio/spatialmath"
	"github.com/olivier-roussel/pinocchio/utils"
)

func main() {
	njoints := flag.Int("joints", 6, "number of revolute joints")
	linkLen := flag.Float64("link", 0.3, "link length in meters")
	linkMass := flag.Float64("mass", 1.0, "link mass in kg")
	seed := flag.Int64("seed", 1, "random seed for the sampled configuration")
	flag.Parse()

	logger := golog.NewDevelopmentLogger("invdyn")

	model := multibody.NewModel("planar-arm")
	parent := multibody.UniverseJointID
	for i := 0; i < *njoints; i++ {
		offset := spatialmath.NewIdentityTransform()
		if i > 0 {
			offset = spatialmath.NewTransformFromPoint(r3.Vector{X: *linkLen})
		}
		id, err := model.AddJoint(
			parent,
			multibody.JointRevolute,
			r3.Vector{Y: 1},
			offset,
			spatialmath.NewPointMassInertia(*linkMass, r3.Vector{X: *linkLen / 2}),
			fmt.Sprintf("joint%d", i+1),
		)
		if err != nil {
			panic(err)
		}
		parent = id
	}
	tipID, err := model.AddFrame(
		parent,
		spatialmath.NewTransformFromPoint(r3.Vector{X: *linkLen}),
		"tip",
		multibody.FrameOperational,
	)
	if err != nil {
		panic(err)
	}

	data := multibody.NewData(model)
	q := model.RandomConfiguration(rand.New(rand.NewSource(*seed)))
	v := make([]float64, model.NV())
	a := make([]float64, model.NV())

	tau, err := dynamics.RNEA(model, data, q, v, a, nil)
	if err != nil {
		panic(err)
	}
	if err := dynamics.FramesForwardKinematics(model, data, nil); err != nil {
		panic(err)
	}
	tip, err := dynamics.UpdateFramePlacement(model, data, tipID)
	if err != nil {
		panic(err)
	}

	for i, t := range tau {
		logger.Infof("joint %d: q=%6.2f deg, gravity torque=%8.4f Nm", i+1, utils.RadToDeg(q[i]), t)
	}
	logger.Infof("tip position: %.4v", tip.Trans)
}
