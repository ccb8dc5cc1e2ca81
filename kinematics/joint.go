package kinematics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"go.viam.com/rbd/kinematics/kinmath/spatial"
	"go.viam.com/rbd/spatialmath"
)

// JointType is the motion a joint allows between a body and its parent.
type JointType int

const (
	// RevoluteJoint rotates about Axis.
	RevoluteJoint JointType = iota
	// PrismaticJoint translates along Axis.
	PrismaticJoint
	// EulerZYXJoint is a spherical joint parametrised by Z, Y, X Euler angles.
	EulerZYXJoint
	// TranslationXYZJoint translates freely along X, Y and Z.
	TranslationXYZJoint
	// FixedJoint rigidly attaches a body to its parent.
	FixedJoint
	// FloatingJoint is a 6-DoF joint. It is never stored; AddBody expands it into six single-axis
	// joints on a chain of virtual bodies.
	FloatingJoint
)

func (jt JointType) String() string {
	switch jt {
	case RevoluteJoint:
		return "revolute"
	case PrismaticJoint:
		return "prismatic"
	case EulerZYXJoint:
		return "eulerzyx"
	case TranslationXYZJoint:
		return "translationxyz"
	case FixedJoint:
		return "fixed"
	case FloatingJoint:
		return "floating"
	default:
		return "unknown"
	}
}

// Joint connects a body to its parent.
type Joint struct {
	Type JointType
	// Axis is the unit rotation or translation axis of single-axis joints, in joint frame coordinates.
	Axis mgl64.Vec3
}

// NewRevoluteJoint returns a revolute joint about axis.
func NewRevoluteJoint(axis mgl64.Vec3) Joint {
	return Joint{Type: RevoluteJoint, Axis: axis.Normalize()}
}

// NewPrismaticJoint returns a prismatic joint along axis.
func NewPrismaticJoint(axis mgl64.Vec3) Joint {
	return Joint{Type: PrismaticJoint, Axis: axis.Normalize()}
}

// DoF returns the number of generalized coordinates of the joint.
func (j Joint) DoF() int {
	switch j.Type {
	case RevoluteJoint, PrismaticJoint:
		return 1
	case EulerZYXJoint, TranslationXYZJoint:
		return 3
	case FloatingJoint:
		return 6
	default:
		return 0
	}
}

// MotionSubspace holds the columns of a joint motion subspace matrix S.
type MotionSubspace []spatial.MotionVector

// Mul returns S*x.
func (s MotionSubspace) Mul(x []float64) spatial.MotionVector {
	var res spatial.MotionVector
	for i, col := range s {
		res = res.Add(col.Scale(x[i]))
	}
	return res
}

// TransposeMul returns S^T*f, the generalized forces of f.
func (s MotionSubspace) TransposeMul(f spatial.ForceVector) []float64 {
	res := make([]float64, len(s))
	for i, col := range s {
		res[i] = col.Dot(f)
	}
	return res
}

// JointCalc evaluates a joint at its coordinates q and rates qd. It returns the joint transform
// X_J, the motion subspace S, the joint velocity v_J = S*qd and the bias c_J = dS/dt*qd.
// qd may be nil.
func JointCalc(j Joint, q, qd []float64) (spatial.Transform, MotionSubspace, spatial.MotionVector, spatial.MotionVector, error) {
	if len(q) != j.DoF() || (qd != nil && len(qd) != j.DoF()) {
		return spatial.Transform{}, nil, spatial.MotionVector{}, spatial.MotionVector{},
			NewIncorrectDoFError("joint state", len(q), j.DoF())
	}
	rate := func(i int) float64 {
		if qd == nil {
			return 0
		}
		return qd[i]
	}

	var (
		xj spatial.Transform
		s  MotionSubspace
		cj spatial.MotionVector
	)
	switch j.Type {
	case RevoluteJoint:
		rot := (&spatialmath.R4AA{Theta: q[0], RX: j.Axis[0], RY: j.Axis[1], RZ: j.Axis[2]}).RotationMatrix()
		xj = spatial.NewRotation(rot.Transpose())
		s = MotionSubspace{{Angular: j.Axis}}
	case PrismaticJoint:
		xj = spatial.NewTranslation(j.Axis.Mul(q[0]))
		s = MotionSubspace{{Linear: j.Axis}}
	case TranslationXYZJoint:
		xj = spatial.NewTranslation(mgl64.Vec3{q[0], q[1], q[2]})
		s = MotionSubspace{
			{Linear: mgl64.Vec3{1, 0, 0}},
			{Linear: mgl64.Vec3{0, 1, 0}},
			{Linear: mgl64.Vec3{0, 0, 1}},
		}
	case EulerZYXJoint:
		s0, c0 := math.Sincos(q[0])
		s1, c1 := math.Sincos(q[1])
		s2, c2 := math.Sincos(q[2])
		xj = spatial.NewRotation(mgl64.Mat3FromRows(
			mgl64.Vec3{c0 * c1, s0 * c1, -s1},
			mgl64.Vec3{c0*s1*s2 - s0*c2, s0*s1*s2 + c0*c2, c1 * s2},
			mgl64.Vec3{c0*s1*c2 + s0*s2, s0*s1*c2 - c0*s2, c1 * c2},
		))
		s = MotionSubspace{
			{Angular: mgl64.Vec3{-s1, c1 * s2, c1 * c2}},
			{Angular: mgl64.Vec3{0, c2, -s2}},
			{Angular: mgl64.Vec3{1, 0, 0}},
		}
		qd0, qd1, qd2 := rate(0), rate(1), rate(2)
		cj = spatial.MotionVector{Angular: mgl64.Vec3{
			-c1 * qd0 * qd1,
			-s1*s2*qd0*qd1 + c1*c2*qd0*qd2 - s2*qd1*qd2,
			-s1*c2*qd0*qd1 - c1*s2*qd0*qd2 - c2*qd1*qd2,
		}}
	default:
		return spatial.Transform{}, nil, spatial.MotionVector{}, spatial.MotionVector{}, NewUnsupportedJointTypeError(j.Type)
	}

	var vj spatial.MotionVector
	if qd != nil {
		vj = s.Mul(qd)
	}
	return xj, s, vj, cj, nil
}
