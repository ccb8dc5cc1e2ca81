package kinematics

import (
	"github.com/go-gl/mathgl/mgl64"

	"go.viam.com/rbd/kinematics/kinmath/spatial"
)

// Body holds the inertial parameters of a link, in the link's own frame.
type Body struct {
	Mass float64
	// CoM is the centre of mass.
	CoM mgl64.Vec3
	// Inertia is the rotational inertia about the centre of mass.
	Inertia mgl64.Mat3
	// IsVirtual marks the massless bodies that carry the extra coordinates of multi-DoF joints.
	IsVirtual bool
}

// NewBody returns a body with the given inertial parameters.
func NewBody(mass float64, com mgl64.Vec3, inertia mgl64.Mat3) Body {
	return Body{Mass: mass, CoM: com, Inertia: inertia}
}

// SpatialInertia returns the body's spatial inertia at the link origin.
func (b Body) SpatialInertia() spatial.RigidBodyInertia {
	return spatial.NewRigidBodyInertia(b.Mass, b.CoM, b.Inertia)
}

// BodyKind tells a movable body from a fixed one.
type BodyKind int

const (
	// MovableBodyKind bodies have a joint with at least one degree of freedom.
	MovableBodyKind BodyKind = iota
	// FixedBodyKind bodies are rigidly attached to a movable body.
	FixedBodyKind
)

// BodyID identifies a body. Movable and fixed bodies live in separate index spaces.
type BodyID struct {
	Kind  BodyKind
	Index int
}

// RootID is the id of the root (world) body.
var RootID = BodyID{Kind: MovableBodyKind}

// IsFixed returns whether the id refers to a fixed body.
func (id BodyID) IsFixed() bool {
	return id.Kind == FixedBodyKind
}

// FixedBody is a body welded to a movable body. Its inertia is merged into that body.
type FixedBody struct {
	Name          string
	MovableParent int
	// ParentTransform maps coordinates of the movable parent to those of the fixed body.
	ParentTransform spatial.Transform
	Body            Body
}
