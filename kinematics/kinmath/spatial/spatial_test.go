package spatial

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/mat"
	"go.viam.com/test"

	"go.viam.com/rbd/spatialmath"
)

func sampleTransform() Transform {
	rot := (&spatialmath.EulerAngles{Roll: 0.4, Pitch: -0.2, Yaw: 1.3}).RotationMatrix()
	return Transform{E: rot.Transpose(), R: mgl64.Vec3{0.3, -0.1, 0.7}}
}

var (
	sampleMotion = MotionVector{Angular: mgl64.Vec3{0.1, -2, 0.5}, Linear: mgl64.Vec3{1, 0.2, -0.3}}
	sampleForce  = ForceVector{Moment: mgl64.Vec3{-0.4, 0.9, 1.5}, Force: mgl64.Vec3{2, -1, 0.25}}
)

func TestTransformComposition(t *testing.T) {
	x := sampleTransform()
	test.That(t, x.Mul(x.Inverse()).ApproxEqual(Identity()), test.ShouldBeTrue)
	test.That(t, x.Inverse().Mul(x).ApproxEqual(Identity()), test.ShouldBeTrue)

	y := Transform{E: (&spatialmath.EulerAngles{Yaw: -0.6}).RotationMatrix(), R: mgl64.Vec3{0, 1, 0}}
	composed := x.Mul(y).ApplyMotion(sampleMotion)
	sequential := x.ApplyMotion(y.ApplyMotion(sampleMotion))
	test.That(t, composed.ApproxEqual(sequential), test.ShouldBeTrue)

	back := x.ApplyInverseMotion(x.ApplyMotion(sampleMotion))
	test.That(t, back.ApproxEqual(sampleMotion), test.ShouldBeTrue)

	p := mgl64.Vec3{1, 2, 3}
	test.That(t, y.PointToParent(p).ApproxEqual(y.R.Add(y.E.Transpose().Mul3x1(p))), test.ShouldBeTrue)
	test.That(t, NewTranslation(mgl64.Vec3{0, 0, 1}).PointToParent(p), test.ShouldResemble, mgl64.Vec3{1, 2, 4})
}

func TestTransformMatchesMatrix(t *testing.T) {
	x := sampleTransform()
	var out mat.VecDense
	out.MulVec(x.Matrix(), mat.NewVecDense(6, sampleMotion.Slice()))
	expected := x.ApplyMotion(sampleMotion).Slice()
	for i := range expected {
		test.That(t, out.AtVec(i), test.ShouldAlmostEqual, expected[i])
	}
}

func TestPowerIsInvariant(t *testing.T) {
	x := sampleTransform()
	// (X v) . (X* f) == v . f
	test.That(t, x.ApplyMotion(sampleMotion).Dot(x.ApplyForce(sampleForce)), test.ShouldAlmostEqual, sampleMotion.Dot(sampleForce))
	// (X v) . f == v . (X^T f)
	test.That(t, x.ApplyMotion(sampleMotion).Dot(sampleForce), test.ShouldAlmostEqual,
		sampleMotion.Dot(x.ApplyTransposeForce(sampleForce)))
	test.That(t, sampleForce.Dot(sampleMotion), test.ShouldAlmostEqual, sampleMotion.Dot(sampleForce))
}

func TestCrossProducts(t *testing.T) {
	u := MotionVector{Angular: mgl64.Vec3{0, 0, 1}, Linear: mgl64.Vec3{1, 0, 0}}
	// (v xm u) . f == -u . (v xf f)
	test.That(t, sampleMotion.CrossMotion(u).Dot(sampleForce), test.ShouldAlmostEqual,
		-u.Dot(sampleMotion.Cross(sampleForce)))
	self := sampleMotion.CrossMotion(sampleMotion)
	test.That(t, self.ApproxEqual(MotionVector{}), test.ShouldBeTrue)

	mv, err := NewMotionVectorFromSlice([]float64{1, 2, 3, 4, 5, 6})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, mv.Sub(mv.Scale(2)).Add(mv).ApproxEqual(MotionVector{}), test.ShouldBeTrue)
	_, err = NewMotionVectorFromSlice([]float64{1})
	test.That(t, err, test.ShouldNotBeNil)
}

func TestInertiaTransform(t *testing.T) {
	inertia := NewRigidBodyInertia(2.5, mgl64.Vec3{0.1, -0.2, 0.3},
		mgl64.Mat3FromRows(mgl64.Vec3{0.2, 0.01, 0}, mgl64.Vec3{0.01, 0.3, 0.02}, mgl64.Vec3{0, 0.02, 0.4}))
	x := sampleTransform()

	// X^T I X computed with dense matrices.
	xm := x.Matrix()
	var tmp, expected mat.Dense
	tmp.Mul(inertia.Matrix(), xm)
	expected.Mul(xm.T(), &tmp)

	actual := inertia.TransformToParent(x).Matrix()
	for r := 0; r < 6; r++ {
		for c := 0; c < 6; c++ {
			test.That(t, actual.At(r, c), test.ShouldAlmostEqual, expected.At(r, c))
		}
	}

	// The momentum of the transformed inertia agrees with the transformed momentum.
	parentMotion := x.ApplyInverseMotion(sampleMotion)
	momentum := inertia.TransformToParent(x).Mul(parentMotion)
	test.That(t, momentum.ApproxEqual(x.ApplyTransposeForce(inertia.Mul(sampleMotion))), test.ShouldBeTrue)

	test.That(t, inertia.CoM().ApproxEqual(mgl64.Vec3{0.1, -0.2, 0.3}), test.ShouldBeTrue)
	test.That(t, inertia.Add(inertia).Mass, test.ShouldEqual, 5.)
}

func TestMasslessInertiaTransform(t *testing.T) {
	massless := RigidBodyInertia{I: mgl64.Diag3(mgl64.Vec3{1, 2, 3})}
	rotated := massless.TransformToParent(Transform{E: (&spatialmath.EulerAngles{Yaw: 1}).RotationMatrix(), R: mgl64.Vec3{5, 5, 5}})
	test.That(t, rotated.Mass, test.ShouldEqual, 0.)
	test.That(t, rotated.H, test.ShouldResemble, mgl64.Vec3{})
	test.That(t, rotated.I.At(2, 2), test.ShouldAlmostEqual, 3)
	test.That(t, massless.CoM(), test.ShouldResemble, mgl64.Vec3{})
}
