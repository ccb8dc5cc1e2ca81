// Package kinematics holds the kinematic tree of a robot: movable bodies connected by joints,
// fixed bodies welded to them, and the forward kinematics that evaluates the tree at a state.
package kinematics

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"

	"go.viam.com/rbd/kinematics/kinmath/spatial"
	"go.viam.com/rbd/spatialmath"
)

// DefaultGravity is the gravity vector of a new model.
var DefaultGravity = r3.Vector{X: 0, Y: 0, Z: -9.81}

// Model is a kinematic tree. Movable body 0 is the root; every other movable body i has a parent
// Lambda(i) < i, a joint and a joint frame. The topology never changes once built.
type Model struct {
	name    string
	gravity mgl64.Vec3
	tree    *simple.DirectedGraph

	lambda      []int
	qIndex      []int
	joints      []Joint
	jointFrames []spatial.Transform
	bodies      []Body
	// inertias include every fixed body merged into the movable body.
	inertias []spatial.RigidBodyInertia
	names    []string

	fixedBodies []FixedBody
	bodyIDs     map[string]BodyID
	dof         int
}

// NewModel returns a model holding only the root body.
func NewModel(name string) *Model {
	m := &Model{
		name:        name,
		gravity:     spatialmath.R3ToVec3(DefaultGravity),
		tree:        simple.NewDirectedGraph(),
		lambda:      []int{0},
		qIndex:      []int{0},
		joints:      []Joint{{Type: FixedJoint}},
		jointFrames: []spatial.Transform{spatial.Identity()},
		bodies:      []Body{{}},
		inertias:    []spatial.RigidBodyInertia{{}},
		names:       []string{"ROOT"},
		bodyIDs:     map[string]BodyID{"ROOT": RootID},
	}
	m.tree.AddNode(simple.Node(0))
	return m
}

// Name returns the model name.
func (m *Model) Name() string {
	return m.name
}

// Gravity returns the gravity vector in root coordinates.
func (m *Model) Gravity() r3.Vector {
	return spatialmath.Vec3ToR3(m.gravity)
}

// SetGravity sets the gravity vector in root coordinates.
func (m *Model) SetGravity(g r3.Vector) {
	m.gravity = spatialmath.R3ToVec3(g)
}

// AddBody attaches body to parent through joint. jointFrame maps the parent coordinates to the
// joint frame. A fixed joint creates a fixed body whose inertia is merged into the nearest
// movable ancestor; a floating joint creates five virtual bodies followed by body, carrying the
// coordinates TX, TY, TZ, RX, RY, RZ in that order. Attaching to a fixed body attaches to its
// movable parent.
func (m *Model) AddBody(parent BodyID, jointFrame spatial.Transform, joint Joint, body Body, name string) (BodyID, error) {
	if name != "" {
		if _, ok := m.bodyIDs[name]; ok {
			return BodyID{}, errors.Errorf("body %q already exists", name)
		}
	}
	movableParent, err := m.MovableParent(parent)
	if err != nil {
		return BodyID{}, err
	}
	if parent.IsFixed() {
		jointFrame = jointFrame.Mul(m.fixedBodies[parent.Index].ParentTransform)
	}

	switch joint.Type {
	case FixedJoint:
		id := BodyID{Kind: FixedBodyKind, Index: len(m.fixedBodies)}
		m.fixedBodies = append(m.fixedBodies, FixedBody{
			Name:            name,
			MovableParent:   movableParent,
			ParentTransform: jointFrame,
			Body:            body,
		})
		m.inertias[movableParent] = m.inertias[movableParent].Add(body.SpatialInertia().TransformToParent(jointFrame))
		if name != "" {
			m.bodyIDs[name] = id
		}
		return id, nil
	case FloatingJoint:
		axes := []Joint{
			NewPrismaticJoint(mgl64.Vec3{1, 0, 0}),
			NewPrismaticJoint(mgl64.Vec3{0, 1, 0}),
			NewPrismaticJoint(mgl64.Vec3{0, 0, 1}),
			NewRevoluteJoint(mgl64.Vec3{1, 0, 0}),
			NewRevoluteJoint(mgl64.Vec3{0, 1, 0}),
		}
		prev := movableParent
		frame := jointFrame
		for _, axis := range axes {
			prev = m.addMovable(prev, frame, axis, Body{IsVirtual: true}, "")
			frame = spatial.Identity()
		}
		return m.register(m.addMovable(prev, frame, NewRevoluteJoint(mgl64.Vec3{0, 0, 1}), body, name), name), nil
	case RevoluteJoint, PrismaticJoint, EulerZYXJoint, TranslationXYZJoint:
		return m.register(m.addMovable(movableParent, jointFrame, joint, body, name), name), nil
	default:
		return BodyID{}, NewUnsupportedJointTypeError(joint.Type)
	}
}

func (m *Model) addMovable(parent int, jointFrame spatial.Transform, joint Joint, body Body, name string) int {
	id := len(m.bodies)
	m.lambda = append(m.lambda, parent)
	m.qIndex = append(m.qIndex, m.dof)
	m.joints = append(m.joints, joint)
	m.jointFrames = append(m.jointFrames, jointFrame)
	m.bodies = append(m.bodies, body)
	m.inertias = append(m.inertias, body.SpatialInertia())
	m.names = append(m.names, name)
	m.dof += joint.DoF()

	m.tree.AddNode(simple.Node(id))
	m.tree.SetEdge(m.tree.NewEdge(simple.Node(parent), simple.Node(id)))
	return id
}

func (m *Model) register(index int, name string) BodyID {
	id := BodyID{Kind: MovableBodyKind, Index: index}
	if name != "" {
		m.bodyIDs[name] = id
	}
	return id
}

// MovableParent resolves a body id to the movable body it moves with: a movable body resolves to
// itself, a fixed body to the movable body it is welded to.
func (m *Model) MovableParent(id BodyID) (int, error) {
	switch id.Kind {
	case MovableBodyKind:
		if id.Index < 0 || id.Index >= len(m.bodies) {
			return 0, errors.Wrapf(ErrBadParent, "movable body %d", id.Index)
		}
		return id.Index, nil
	case FixedBodyKind:
		if id.Index < 0 || id.Index >= len(m.fixedBodies) {
			return 0, errors.Wrapf(ErrBadParent, "fixed body %d", id.Index)
		}
		return m.fixedBodies[id.Index].MovableParent, nil
	default:
		return 0, errors.Wrapf(ErrBadParent, "unknown body kind %d", id.Kind)
	}
}

// SetRootName renames the root body.
func (m *Model) SetRootName(name string) error {
	if _, ok := m.bodyIDs[name]; ok {
		return errors.Errorf("body %q already exists", name)
	}
	delete(m.bodyIDs, m.names[0])
	m.names[0] = name
	m.bodyIDs[name] = RootID
	return nil
}

// BodyID returns the id of the named body.
func (m *Model) BodyID(name string) (BodyID, bool) {
	id, ok := m.bodyIDs[name]
	return id, ok
}

// BodyName returns the name of a body, or "" for virtual bodies and unknown ids.
func (m *Model) BodyName(id BodyID) string {
	if id.IsFixed() {
		if id.Index < 0 || id.Index >= len(m.fixedBodies) {
			return ""
		}
		return m.fixedBodies[id.Index].Name
	}
	if id.Index < 0 || id.Index >= len(m.names) {
		return ""
	}
	return m.names[id.Index]
}

// BodyNames returns the sorted names of all named bodies, movable and fixed.
func (m *Model) BodyNames() []string {
	names := make([]string, 0, len(m.bodyIDs))
	for name := range m.bodyIDs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NumBodies returns the number of movable bodies, root included.
func (m *Model) NumBodies() int {
	return len(m.bodies)
}

// NumFixedBodies returns the number of fixed bodies.
func (m *Model) NumFixedBodies() int {
	return len(m.fixedBodies)
}

// DoF returns the number of generalized coordinates.
func (m *Model) DoF() int {
	return m.dof
}

// Lambda returns the parent of movable body i.
func (m *Model) Lambda(i int) int {
	return m.lambda[i]
}

// QIndex returns the first generalized coordinate of the joint of movable body i.
func (m *Model) QIndex(i int) int {
	return m.qIndex[i]
}

// Joint returns the joint of movable body i.
func (m *Model) Joint(i int) Joint {
	return m.joints[i]
}

// JointFrame returns the transform from the parent of movable body i to its joint frame.
func (m *Model) JointFrame(i int) spatial.Transform {
	return m.jointFrames[i]
}

// Body returns the inertial parameters of movable body i, without merged fixed bodies.
func (m *Model) Body(i int) Body {
	return m.bodies[i]
}

// Inertia returns the spatial inertia of movable body i with every fixed body welded to it.
func (m *Model) Inertia(i int) spatial.RigidBodyInertia {
	return m.inertias[i]
}

// FixedBody returns fixed body i.
func (m *Model) FixedBody(i int) FixedBody {
	return m.fixedBodies[i]
}

// IsVirtual returns whether movable body i is a virtual body.
func (m *Model) IsVirtual(i int) bool {
	return m.bodies[i].IsVirtual
}

// TotalMass returns the mass of all bodies.
func (m *Model) TotalMass() float64 {
	var mass float64
	for _, inertia := range m.inertias {
		mass += inertia.Mass
	}
	return mass
}

// Children returns the movable children of movable body i in ascending order.
func (m *Model) Children(i int) []int {
	return sortedIDs(m.tree.From(int64(i)))
}

// Path returns the movable bodies on the way down from body from to body to, from excluded and
// to included. It reports false when to is not in the subtree of from.
func (m *Model) Path(from, to int) ([]int, bool) {
	src, dst := m.tree.Node(int64(from)), m.tree.Node(int64(to))
	if src == nil || dst == nil {
		return nil, false
	}
	nodes, _ := path.DijkstraFrom(src, m.tree).To(dst.ID())
	if len(nodes) == 0 {
		return nil, false
	}
	ids := make([]int, 0, len(nodes)-1)
	for _, n := range nodes[1:] {
		ids = append(ids, int(n.ID()))
	}
	return ids, true
}

func sortedIDs(nodes graph.Nodes) []int {
	ids := make([]int, 0, nodes.Len())
	for nodes.Next() {
		ids = append(ids, int(nodes.Node().ID()))
	}
	sort.Ints(ids)
	return ids
}
