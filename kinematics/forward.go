package kinematics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"

	"go.viam.com/rbd/kinematics/kinmath/spatial"
	"go.viam.com/rbd/spatialmath"
)

// State is the model evaluated at one set of generalized coordinates. Every slice is indexed by
// movable body id. A State is owned by the caller; the Model itself is never written to.
type State struct {
	// XLambda maps parent coordinates to body coordinates.
	XLambda []spatial.Transform
	// XBase maps root coordinates to body coordinates.
	XBase []spatial.Transform
	// V and A are body velocities and accelerations in body coordinates.
	V []spatial.MotionVector
	A []spatial.MotionVector
	// C is the velocity-product acceleration c_J + v x v_J.
	C []spatial.MotionVector
	S []MotionSubspace
}

func newState(n int) *State {
	return &State{
		XLambda: make([]spatial.Transform, n),
		XBase:   make([]spatial.Transform, n),
		V:       make([]spatial.MotionVector, n),
		A:       make([]spatial.MotionVector, n),
		C:       make([]spatial.MotionVector, n),
		S:       make([]MotionSubspace, n),
	}
}

// UpdateKinematics evaluates transforms, velocities and accelerations of every movable body.
// qd and qdd may be nil, in which case they are taken to be zero.
func (m *Model) UpdateKinematics(q, qd, qdd []float64) (*State, error) {
	if err := m.checkSize("joint position", q); err != nil {
		return nil, err
	}
	if qd != nil {
		if err := m.checkSize("joint velocity", qd); err != nil {
			return nil, err
		}
	}
	if qdd != nil {
		if err := m.checkSize("joint acceleration", qdd); err != nil {
			return nil, err
		}
	}

	state := newState(m.NumBodies())
	state.XLambda[0] = spatial.Identity()
	state.XBase[0] = spatial.Identity()
	for i := 1; i < m.NumBodies(); i++ {
		dof := m.joints[i].DoF()
		lo, hi := m.qIndex[i], m.qIndex[i]+dof
		var rates []float64
		if qd != nil {
			rates = qd[lo:hi]
		}
		xj, s, vj, cj, err := JointCalc(m.joints[i], q[lo:hi], rates)
		if err != nil {
			return nil, err
		}
		parent := m.lambda[i]
		state.S[i] = s
		state.XLambda[i] = xj.Mul(m.jointFrames[i])
		state.XBase[i] = state.XLambda[i].Mul(state.XBase[parent])
		state.V[i] = state.XLambda[i].ApplyMotion(state.V[parent]).Add(vj)
		state.C[i] = cj.Add(state.V[i].CrossMotion(vj))
		state.A[i] = state.XLambda[i].ApplyMotion(state.A[parent]).Add(state.C[i])
		if qdd != nil {
			state.A[i] = state.A[i].Add(s.Mul(qdd[lo:hi]))
		}
	}
	return state, nil
}

func (m *Model) checkSize(what string, v []float64) error {
	if len(v) != m.dof {
		return NewIncorrectDoFError(what, len(v), m.dof)
	}
	return nil
}

// BodyToBaseCoordinates maps a point given in the coordinates of a body to root coordinates.
func (m *Model) BodyToBaseCoordinates(state *State, id BodyID, point r3.Vector) (r3.Vector, error) {
	movable, err := m.MovableParent(id)
	if err != nil {
		return r3.Vector{}, err
	}
	p := spatialmath.R3ToVec3(point)
	if id.IsFixed() {
		p = m.fixedBodies[id.Index].ParentTransform.PointToParent(p)
	}
	return spatialmath.Vec3ToR3(state.XBase[movable].PointToParent(p)), nil
}

// CenterOfMass returns the total mass, the centre of mass in root coordinates and, when qd is not
// nil, its velocity.
func (m *Model) CenterOfMass(q, qd []float64) (float64, r3.Vector, r3.Vector, error) {
	state, err := m.UpdateKinematics(q, qd, nil)
	if err != nil {
		return 0, r3.Vector{}, r3.Vector{}, err
	}
	var (
		mass     float64
		weighted mgl64.Vec3
		momentum mgl64.Vec3
	)
	for i := 0; i < m.NumBodies(); i++ {
		inertia := m.inertias[i]
		if inertia.Mass == 0 {
			continue
		}
		com := inertia.CoM()
		x := state.XBase[i]
		weighted = weighted.Add(x.PointToParent(com).Mul(inertia.Mass))
		v := state.V[i]
		pointVel := x.E.Transpose().Mul3x1(v.Linear.Add(v.Angular.Cross(com)))
		momentum = momentum.Add(pointVel.Mul(inertia.Mass))
		mass += inertia.Mass
	}
	if mass == 0 {
		return 0, r3.Vector{}, r3.Vector{}, nil
	}
	return mass, spatialmath.Vec3ToR3(weighted.Mul(1 / mass)), spatialmath.Vec3ToR3(momentum.Mul(1 / mass)), nil
}
