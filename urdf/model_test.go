package urdf

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"github.com/google/go-cmp/cmp"
	"go.viam.com/test"

	"go.viam.com/rbd/kinematics"
	"go.viam.com/rbd/logging"
	"go.viam.com/rbd/spatialmath"
	"go.viam.com/rbd/utils"
)

func parseFixture(t *testing.T, name string) *ModelConfig {
	t.Helper()
	cfg, err := ParseModelXMLFile(utils.ResolveFile("urdf/testurdf/" + name))
	test.That(t, err, test.ShouldBeNil)
	return cfg
}

func TestParseModelXMLFile(t *testing.T) {
	cfg := parseFixture(t, "biped.urdf")
	test.That(t, cfg.Name, test.ShouldEqual, "biped")
	test.That(t, cfg.Root(), test.ShouldEqual, "world")
	test.That(t, len(cfg.Links), test.ShouldEqual, 10)
	test.That(t, len(cfg.Joints), test.ShouldEqual, 8)

	j, ok := cfg.Joint("lf_kfe_joint")
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, j.Parent.Link, test.ShouldEqual, "lf_upperleg")
	test.That(t, cfg.ParentJoint("lf_lowerleg"), test.ShouldEqual, j)
	test.That(t, cfg.ParentJoint("world"), test.ShouldBeNil)
	children := cfg.ChildJoints("base_link")
	test.That(t, len(children), test.ShouldEqual, 3)
	test.That(t, children[0].Name, test.ShouldEqual, "imu_joint")
	test.That(t, children[2].Name, test.ShouldEqual, "rf_hfe_joint")

	_, err := ParseModelXMLFile(utils.ResolveFile("urdf/testurdf/missing.urdf"))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestUnmarshalModelXMLErrors(t *testing.T) {
	_, err := UnmarshalModelXML(nil)
	test.That(t, err, test.ShouldBeError, ErrNoModelInformation)

	_, err = UnmarshalModelXML([]byte("<robot"))
	test.That(t, err, test.ShouldNotBeNil)

	_, err = UnmarshalModelXML([]byte(`<robot name="bad">
  <link name="a"/>
  <link name="b"/>
  <link name="b"/>
  <joint name="j" type="revolute">
    <parent link="a"/>
    <child link="c"/>
  </joint>
  <joint name="k" type="planar">
    <parent link="a"/>
    <child link="b"/>
  </joint>
</robot>`))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, `duplicate link "b"`)
	test.That(t, err.Error(), test.ShouldContainSubstring, `revolute joint "j" has no limit element`)
	test.That(t, err.Error(), test.ShouldContainSubstring, `link "c" not found`)
	test.That(t, err.Error(), test.ShouldContainSubstring, `unsupported type "planar"`)

	_, err = UnmarshalModelXML([]byte(`<robot name="two_roots"><link name="a"/><link name="b"/></robot>`))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "exactly one root link")

	_, err = UnmarshalModelXML([]byte(`<robot name="bad_origin">
  <link name="a"/>
  <link name="b"/>
  <joint name="j" type="fixed">
    <parent link="a"/>
    <child link="b"/>
    <origin xyz="0 1"/>
  </joint>
</robot>`))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, `joint "j" origin`)
}

func TestJointNames(t *testing.T) {
	cfg := parseFixture(t, "biped.urdf")

	for _, tc := range []struct {
		class    JointClass
		expected map[string]int
	}{
		{FreeJoints, map[string]int{
			"floating_base": 0, "lf_hfe_joint": 1, "lf_kfe_joint": 2, "rf_hfe_joint": 3, "rf_kfe_joint": 4,
		}},
		{FixedJoints, map[string]int{"imu_joint": 0, "lf_foot_joint": 1, "rf_foot_joint": 2}},
		{FloatingJoints, map[string]int{"floating_base": 0}},
		{AllJoints, map[string]int{
			"floating_base": 0, "imu_joint": UnindexedJoint,
			"lf_hfe_joint": 1, "lf_kfe_joint": 2, "lf_foot_joint": UnindexedJoint,
			"rf_hfe_joint": 3, "rf_kfe_joint": 4, "rf_foot_joint": UnindexedJoint,
		}},
	} {
		if diff := cmp.Diff(tc.expected, cfg.JointNames(tc.class)); diff != "" {
			t.Errorf("class %d mismatch (-want +got):\n%s", tc.class, diff)
		}
	}

	slider := parseFixture(t, "slider.urdf")
	test.That(t, slider.JointNames(FloatingJoints), test.ShouldResemble, map[string]int{"base_z_joint": 0})
	test.That(t, slider.JointNames(FreeJoints), test.ShouldResemble, map[string]int{"base_z_joint": 0, "hip_joint": 1})
}

func TestJointLimitsAndAxes(t *testing.T) {
	cfg := parseFixture(t, "biped.urdf")
	limits := cfg.JointLimits()
	test.That(t, len(limits), test.ShouldEqual, 4)
	test.That(t, limits["lf_hfe_joint"], test.ShouldResemble, JointLimit{Lower: -1.57, Upper: 1.57, Velocity: 10, Effort: 40})
	test.That(t, limits["rf_kfe_joint"].Effort, test.ShouldEqual, 35)
	_, ok := limits["floating_base"]
	test.That(t, ok, test.ShouldBeFalse)

	// zero effort joints are virtual base joints and carry no actuator limits
	slider := parseFixture(t, "slider.urdf")
	test.That(t, slider.JointLimits(), test.ShouldResemble, map[string]JointLimit{
		"hip_joint": {Lower: -1.2, Upper: 1.2, Velocity: 8, Effort: 20},
	})

	axes := cfg.JointAxes(FreeJoints)
	test.That(t, axes["floating_base"], test.ShouldResemble, mgl64.Vec3{})
	test.That(t, axes["lf_kfe_joint"], test.ShouldResemble, mgl64.Vec3{0, 1, 0})
	test.That(t, cfg.JointAxes(FixedJoints)["imu_joint"], test.ShouldResemble, mgl64.Vec3{})

	// a missing axis defaults to x
	j := Joint{Name: "j", Type: RevoluteJoint}
	axis, err := j.AxisVector()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, axis, test.ShouldResemble, mgl64.Vec3{1, 0, 0})
}

func TestEndEffectors(t *testing.T) {
	for _, tc := range []struct {
		fixture  string
		expected map[string]int
	}{
		{"biped.urdf", map[string]int{"lf_foot": 0, "rf_foot": 1}},
		{"slider.urdf", map[string]int{"foot": 0}},
		{"planar.urdf", map[string]int{"toe": 0}},
		// the chain of ee_joint reaches a revolute joint above the continuous one
		{"arm.urdf", map[string]int{"ee": 0}},
	} {
		t.Run(tc.fixture, func(t *testing.T) {
			cfg := parseFixture(t, tc.fixture)
			test.That(t, cfg.EndEffectors(), test.ShouldResemble, tc.expected)
		})
	}
}

func TestFloatingBaseJointMotion(t *testing.T) {
	logger, logs := logging.NewObservedTestLogger(t)

	biped := parseFixture(t, "biped.urdf")
	test.That(t, biped.FloatingBaseJointMotion(logger), test.ShouldResemble, map[string]JointMotion{"floating_base": FullMotion})

	slider := parseFixture(t, "slider.urdf")
	test.That(t, slider.FloatingBaseJointMotion(logger), test.ShouldResemble, map[string]JointMotion{"base_z_joint": TZ})
	test.That(t, logs.Len(), test.ShouldEqual, 0)

	arm := parseFixture(t, "arm.urdf")
	test.That(t, arm.FloatingBaseJointMotion(logger), test.ShouldBeEmpty)

	// classifying base_x_joint ends the classification before base_z_joint
	planar := parseFixture(t, "planar.urdf")
	test.That(t, planar.FloatingBaseJointMotion(logger), test.ShouldResemble, map[string]JointMotion{"base_x_joint": TX})
	warnings := logs.FilterMessageSnippet("classification stopped early").All()
	test.That(t, len(warnings), test.ShouldEqual, 1)
	test.That(t, warnings[0].ContextMap()["skipped"], test.ShouldResemble, []interface{}{"base_z_joint"})
	test.That(t, TZ.String(), test.ShouldEqual, "TZ")
	test.That(t, FullMotion.String(), test.ShouldEqual, "FULL")
}

func TestPoseTransform(t *testing.T) {
	p := &Pose{XYZ: "1 2 3", RPY: "0 0 1.5707963267948966"}
	x, err := p.Transform()
	test.That(t, err, test.ShouldBeNil)
	// a point on the child x axis lies on the parent y axis
	got := x.PointToParent(mgl64.Vec3{1, 0, 0})
	test.That(t, got.ApproxEqualThreshold(mgl64.Vec3{1, 3, 3}, 1e-9), test.ShouldBeTrue)

	var nilPose *Pose
	identity, err := nilPose.Transform()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, identity.R, test.ShouldResemble, mgl64.Vec3{})

	_, err = (&Pose{RPY: "a b c"}).Transform()
	test.That(t, err, test.ShouldNotBeNil)
}

func TestLinkBody(t *testing.T) {
	l := Link{Name: "l", Inertial: &Inertial{
		Origin:  &Pose{XYZ: "0 0 0.5", RPY: "0 0 1.5707963267948966"},
		Inertia: InertiaTensor{IXX: 1, IYY: 2, IZZ: 3},
	}}
	l.Inertial.Mass.Value = 2
	body, err := l.Body()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, body.Mass, test.ShouldEqual, 2)
	test.That(t, body.CoM.ApproxEqualThreshold(mgl64.Vec3{0, 0, 0.5}, 1e-12), test.ShouldBeTrue)
	// a quarter turn about z swaps the x and y principal moments
	expected := mgl64.Diag3(mgl64.Vec3{2, 1, 3})
	test.That(t, body.Inertia.ApproxEqualThreshold(expected, 1e-6), test.ShouldBeTrue)

	empty, err := (&Link{Name: "e"}).Body()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, empty.Mass, test.ShouldEqual, 0)
}

func TestBuildModelBiped(t *testing.T) {
	cfg := parseFixture(t, "biped.urdf")
	m, err := cfg.BuildModel()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m.Name(), test.ShouldEqual, "biped")
	test.That(t, m.NumBodies(), test.ShouldEqual, 11)
	test.That(t, m.NumFixedBodies(), test.ShouldEqual, 3)
	test.That(t, m.DoF(), test.ShouldEqual, 10)
	test.That(t, m.TotalMass(), test.ShouldAlmostEqual, 13.2)

	base, ok := m.BodyID("base_link")
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, base, test.ShouldResemble, kinematics.BodyID{Kind: kinematics.MovableBodyKind, Index: 6})
	for i := 1; i < 6; i++ {
		test.That(t, m.IsVirtual(i), test.ShouldBeTrue)
	}

	// generalized coordinates follow the free joint enumeration after the six base coordinates
	for name, idx := range cfg.JointNames(FreeJoints) {
		if name == "floating_base" {
			continue
		}
		id, ok := m.BodyID(cfg.joints[name].Child.Link)
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, m.QIndex(id.Index), test.ShouldEqual, 6+idx-1)
	}

	foot, ok := m.BodyID("lf_foot")
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, foot.IsFixed(), test.ShouldBeTrue)
	state, err := m.UpdateKinematics(make([]float64, m.DoF()), nil, nil)
	test.That(t, err, test.ShouldBeNil)
	p, err := m.BodyToBaseCoordinates(state, foot, r3.Vector{})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.R3VectorAlmostEqual(p, r3.Vector{X: 0, Y: 0.15, Z: -0.6}, 1e-9), test.ShouldBeTrue)
}

func TestBuildModelFixedBaseArm(t *testing.T) {
	cfg := parseFixture(t, "arm.urdf")
	m, err := cfg.BuildModel()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m.DoF(), test.ShouldEqual, 2)
	test.That(t, m.NumBodies(), test.ShouldEqual, 3)
	test.That(t, m.Lambda(1), test.ShouldEqual, 0)
	test.That(t, m.BodyName(kinematics.RootID), test.ShouldEqual, "world")
	test.That(t, m.Inertia(0).Mass, test.ShouldEqual, 2)

	mass, com, _, err := m.CenterOfMass([]float64{0, 0}, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, mass, test.ShouldAlmostEqual, 3.5)
	test.That(t, spatialmath.R3VectorAlmostEqual(com, r3.Vector{X: 0.075 / 3.5, Z: 0.55 / 3.5}, 1e-9), test.ShouldBeTrue)

	ee, ok := m.BodyID("ee")
	test.That(t, ok, test.ShouldBeTrue)
	state, err := m.UpdateKinematics([]float64{0, -math.Pi / 2}, nil, nil)
	test.That(t, err, test.ShouldBeNil)
	p, err := m.BodyToBaseCoordinates(state, ee, r3.Vector{})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.R3VectorAlmostEqual(p, r3.Vector{Z: 0.8}, 1e-9), test.ShouldBeTrue)
}

func TestBuildModelVirtualBase(t *testing.T) {
	m, err := parseFixture(t, "slider.urdf").BuildModel()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m.DoF(), test.ShouldEqual, 2)
	test.That(t, m.Joint(1).Type, test.ShouldEqual, kinematics.PrismaticJoint)
	test.That(t, m.Joint(2).Type, test.ShouldEqual, kinematics.RevoluteJoint)
	test.That(t, m.BodyName(kinematics.BodyID{Index: 1}), test.ShouldEqual, "base")
}
