// Package dynamics implements recursive Newton-Euler inverse dynamics for robots whose base is not
// attached to the world. Given joint accelerations it computes the acceleration the unactuated
// base must undergo and the joint torques that produce the motion.
package dynamics

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/rbd/kinematics"
	"go.viam.com/rbd/kinematics/kinmath/spatial"
	"go.viam.com/rbd/spatialmath"
)

var (
	// ErrNotFloatingBase is returned when the model has no floating base chain.
	ErrNotFloatingBase = errors.New("model does not have a floating base")
	// ErrDimensionMismatch is returned when a state vector does not fit the model.
	ErrDimensionMismatch = errors.New("state dimension does not match the model")
	// ErrSingularBaseInertia is returned when the composite inertia of the base cannot be inverted.
	ErrSingularBaseInertia = errors.New("composite inertia of the floating base is singular")
	// ErrForceOnBaseChain is returned for an external force on the root or a virtual base body.
	ErrForceOnBaseChain = errors.New("external force on a body of the base chain")
)

// fullBaseID is the body carrying the sixth floating coordinate of a full floating base.
const fullBaseID = 6

// FloatingBaseInverseDynamics computes the inverse dynamics of a model whose first six movable
// bodies are the chain created by a floating joint: five virtual bodies followed by the floating
// body. The base entries of qdd are ignored. It returns the spatial acceleration of the floating
// body, in its own coordinates, and the generalized forces of every coordinate, zero for the base
// coordinates.
//
// The base rates in qd are propagated down the base chain, so every body sees the velocity of the
// floating body. The base entries of qdd play no part: the base acceleration is solved for.
//
// fext may be nil; otherwise it holds one external force per movable body, in root coordinates.
// Bodies in front of the floating body carry no inertia, so a non-zero force on one of them is
// rejected with ErrForceOnBaseChain.
func FloatingBaseInverseDynamics(
	m *kinematics.Model,
	q, qd, qdd []float64,
	fext []spatial.ForceVector,
) (spatial.MotionVector, []float64, error) {
	if !hasFloatingChain(m) {
		return spatial.MotionVector{}, nil, ErrNotFloatingBase
	}
	return floatingBaseInverseDynamics(m, fullBaseID, q, qd, qdd, fext)
}

// FloatingBaseInverseDynamicsDoF is like FloatingBaseInverseDynamics for a base described by its
// first baseDoF single-coordinate joints; body baseDoF is the floating body.
func FloatingBaseInverseDynamicsDoF(
	m *kinematics.Model,
	baseDoF int,
	q, qd, qdd []float64,
	fext []spatial.ForceVector,
) (spatial.MotionVector, []float64, error) {
	if baseDoF < 1 || baseDoF > fullBaseID || m.NumBodies() <= baseDoF {
		return spatial.MotionVector{}, nil, errors.Wrapf(ErrNotFloatingBase, "base with %d degrees of freedom", baseDoF)
	}
	for i := 1; i <= baseDoF; i++ {
		if m.Lambda(i) != i-1 || m.Joint(i).DoF() != 1 {
			return spatial.MotionVector{}, nil, errors.Wrapf(ErrNotFloatingBase, "body %d is not a base coordinate", i)
		}
	}
	return floatingBaseInverseDynamics(m, baseDoF, q, qd, qdd, fext)
}

// hasFloatingChain reports whether bodies 1 to 5 are virtual and chained up to body 6.
func hasFloatingChain(m *kinematics.Model) bool {
	if m.NumBodies() <= fullBaseID {
		return false
	}
	for i := 1; i < fullBaseID; i++ {
		if !m.IsVirtual(i) || m.Lambda(i) != i-1 {
			return false
		}
	}
	return m.Lambda(fullBaseID) == fullBaseID-1 && !m.IsVirtual(fullBaseID)
}

type workspace struct {
	xLambda []spatial.Transform
	xBase   []spatial.Transform
	v       []spatial.MotionVector
	a       []spatial.MotionVector
	s       []kinematics.MotionSubspace
	ic      []spatial.RigidBodyInertia
	f       []spatial.ForceVector
}

func newWorkspace(n int) *workspace {
	return &workspace{
		xLambda: make([]spatial.Transform, n),
		xBase:   make([]spatial.Transform, n),
		v:       make([]spatial.MotionVector, n),
		a:       make([]spatial.MotionVector, n),
		s:       make([]kinematics.MotionSubspace, n),
		ic:      make([]spatial.RigidBodyInertia, n),
		f:       make([]spatial.ForceVector, n),
	}
}

func checkSizes(m *kinematics.Model, q, qd, qdd []float64, fext []spatial.ForceVector) error {
	for _, vec := range []struct {
		name string
		len  int
	}{{"q", len(q)}, {"qd", len(qd)}, {"qdd", len(qdd)}} {
		if vec.len != m.DoF() {
			return errors.Wrapf(ErrDimensionMismatch, "%s has %d entries, expected %d", vec.name, vec.len, m.DoF())
		}
	}
	if fext != nil && len(fext) != m.NumBodies() {
		return errors.Wrapf(ErrDimensionMismatch, "%d external forces for %d bodies", len(fext), m.NumBodies())
	}
	return nil
}

func checkBaseChainForces(base int, fext []spatial.ForceVector) error {
	for i := 0; i < base && i < len(fext); i++ {
		if fext[i] != (spatial.ForceVector{}) {
			return errors.Wrapf(ErrForceOnBaseChain, "body %d", i)
		}
	}
	return nil
}

func floatingBaseInverseDynamics(
	m *kinematics.Model,
	base int,
	q, qd, qdd []float64,
	fext []spatial.ForceVector,
) (spatial.MotionVector, []float64, error) {
	if err := checkSizes(m, q, qd, qdd, fext); err != nil {
		return spatial.MotionVector{}, nil, err
	}
	if err := checkBaseChainForces(base, fext); err != nil {
		return spatial.MotionVector{}, nil, err
	}
	n := m.NumBodies()
	ws := newWorkspace(n)
	ws.xBase[0] = spatial.Identity()

	jcalc := func(i int) (spatial.MotionVector, spatial.MotionVector, error) {
		lo, hi := m.QIndex(i), m.QIndex(i)+m.Joint(i).DoF()
		xj, s, vj, cj, err := kinematics.JointCalc(m.Joint(i), q[lo:hi], qd[lo:hi])
		if err != nil {
			return spatial.MotionVector{}, spatial.MotionVector{}, err
		}
		ws.s[i] = s
		ws.xLambda[i] = xj.Mul(m.JointFrame(i))
		ws.xBase[i] = ws.xLambda[i].Mul(ws.xBase[m.Lambda(i)])
		ws.v[i] = ws.xLambda[i].ApplyMotion(ws.v[m.Lambda(i)]).Add(vj)
		return vj, cj, nil
	}
	externalForce := func(i int) spatial.ForceVector {
		if fext == nil {
			return spatial.ForceVector{}
		}
		return ws.xBase[i].ApplyForce(fext[i])
	}

	// The base chain only positions the floating body and carries its velocity.
	for i := 1; i <= base; i++ {
		if _, _, err := jcalc(i); err != nil {
			return spatial.MotionVector{}, nil, err
		}
	}

	// Gravity enters as a fictitious upward acceleration of the base.
	gravity := spatial.MotionVector{Linear: spatialmath.R3ToVec3(m.Gravity())}
	ws.a[base] = ws.xBase[base].ApplyMotion(gravity.Scale(-1))

	for i := base + 1; i < n; i++ {
		vj, cj, err := jcalc(i)
		if err != nil {
			return spatial.MotionVector{}, nil, err
		}
		lo, hi := m.QIndex(i), m.QIndex(i)+m.Joint(i).DoF()
		c := cj.Add(ws.v[i].CrossMotion(vj))
		ws.a[i] = ws.xLambda[i].ApplyMotion(ws.a[m.Lambda(i)]).Add(c).Add(ws.s[i].Mul(qdd[lo:hi]))
		ws.ic[i] = m.Inertia(i)
		if !m.IsVirtual(i) {
			ws.f[i] = biasForce(ws.ic[i], ws.v[i], ws.a[i])
		}
		ws.f[i] = ws.f[i].Sub(externalForce(i))
	}

	ws.ic[base] = m.Inertia(base)
	ws.f[base] = biasForce(ws.ic[base], ws.v[base], ws.a[base]).Sub(externalForce(base))

	for i := n - 1; i > base; i-- {
		parent := m.Lambda(i)
		ws.ic[parent] = ws.ic[parent].Add(ws.ic[i].TransformToParent(ws.xLambda[i]))
		ws.f[parent] = ws.f[parent].Add(ws.xLambda[i].ApplyTransposeForce(ws.f[i]))
	}

	baseAcc, err := solveBaseAcceleration(ws.ic[base], ws.f[base])
	if err != nil {
		return spatial.MotionVector{}, nil, err
	}

	tau := make([]float64, m.DoF())
	ws.a[base] = baseAcc
	for i := base + 1; i < n; i++ {
		ws.a[i] = ws.xLambda[i].ApplyMotion(ws.a[m.Lambda(i)])
		generalized := ws.s[i].TransposeMul(ws.ic[i].Mul(ws.a[i]).Add(ws.f[i]))
		copy(tau[m.QIndex(i):], generalized)
	}
	return baseAcc, tau, nil
}

// I*a + v x* I*v.
func biasForce(inertia spatial.RigidBodyInertia, v, a spatial.MotionVector) spatial.ForceVector {
	return inertia.Mul(a).Add(v.Cross(inertia.Mul(v)))
}

// solveBaseAcceleration solves Ic*a = -f for the base acceleration a.
func solveBaseAcceleration(ic spatial.RigidBodyInertia, f spatial.ForceVector) (spatial.MotionVector, error) {
	var chol mat.Cholesky
	if ok := chol.Factorize(ic.Matrix()); !ok {
		return spatial.MotionVector{}, ErrSingularBaseInertia
	}
	rhs := mat.NewVecDense(6, f.Scale(-1).Slice())
	var acc mat.VecDense
	if err := chol.SolveVecTo(&acc, rhs); err != nil {
		return spatial.MotionVector{}, errors.Wrap(ErrSingularBaseInertia, err.Error())
	}
	return spatial.NewMotionVectorFromSlice(acc.RawVector().Data)
}
