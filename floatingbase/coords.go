package floatingbase

import "github.com/golang/geo/r3"

// Coords6d names the six coordinates of a floating base, angular first.
type Coords6d int

// Base coordinates.
const (
	AX Coords6d = iota
	AY
	AZ
	LX
	LY
	LZ
)

// NumBaseCoords is the number of coordinates of a full floating base.
const NumBaseCoords = 6

func (c Coords6d) String() string {
	switch c {
	case AX:
		return "AX"
	case AY:
		return "AY"
	case AZ:
		return "AZ"
	case LX:
		return "LX"
	case LY:
		return "LY"
	case LZ:
		return "LZ"
	default:
		return "unknown"
	}
}

// IsAngular returns whether the coordinate is a rotation.
func (c Coords6d) IsAngular() bool {
	return c >= AX && c <= AZ
}

// Coords3d names the axes of a 3-D vector.
type Coords3d int

// Axes.
const (
	X Coords3d = iota
	Y
	Z
)

func (c Coords3d) String() string {
	switch c {
	case X:
		return "X"
	case Y:
		return "Y"
	case Z:
		return "Z"
	default:
		return "unknown"
	}
}

// AngularCoord returns the rotation coordinate about an axis.
func AngularCoord(c Coords3d) Coords6d {
	return AX + Coords6d(c)
}

// LinearCoord returns the translation coordinate along an axis.
func LinearCoord(c Coords3d) Coords6d {
	return LX + Coords6d(c)
}

// BaseVector is a base position, velocity or acceleration indexed by Coords6d.
type BaseVector [NumBaseCoords]float64

// NewBaseVector assembles a base vector from its angular and linear parts.
func NewBaseVector(angular, linear r3.Vector) BaseVector {
	return BaseVector{angular.X, angular.Y, angular.Z, linear.X, linear.Y, linear.Z}
}

// AngularPart returns the AX, AY and AZ coordinates.
func (b BaseVector) AngularPart() r3.Vector {
	return r3.Vector{X: b[AX], Y: b[AY], Z: b[AZ]}
}

// LinearPart returns the LX, LY and LZ coordinates.
func (b BaseVector) LinearPart() r3.Vector {
	return r3.Vector{X: b[LX], Y: b[LY], Z: b[LZ]}
}

// FloatingBaseJoint is one coordinate slot of the floating base.
type FloatingBaseJoint struct {
	// Active slots are moved by a floating joint.
	Active bool
	// Constrained slots are locked: they stay in the tree but supply no free motion.
	Constrained bool
	// ID is the generalized coordinate of the slot. It is meaningful only for active slots.
	ID int
	// JointIndex is the enumeration index of the joint supplying the slot; the six slots of a
	// full floating joint share it.
	JointIndex int
	Name       string
}

// SystemType classifies a system by the slots of its floating base.
type SystemType int

const (
	// FixedBase systems are attached to the world.
	FixedBase SystemType = iota
	// FloatingBase systems have a free 6-DoF base.
	FloatingBase
	// ConstrainedFloatingBase systems have a 6-DoF base with locked coordinates.
	ConstrainedFloatingBase
	// VirtualFloatingBase systems move their base through one to five virtual joints.
	VirtualFloatingBase
)

func (t SystemType) String() string {
	switch t {
	case FixedBase:
		return "fixed-base"
	case FloatingBase:
		return "floating-base"
	case ConstrainedFloatingBase:
		return "constrained floating-base"
	case VirtualFloatingBase:
		return "virtual floating-base"
	default:
		return "unknown"
	}
}

// DeriveSystemType returns the system type implied by the base slots.
func DeriveSystemType(slots [NumBaseCoords]FloatingBaseJoint) SystemType {
	active, constrained := 0, false
	for _, slot := range slots {
		if slot.Active {
			active++
		}
		constrained = constrained || slot.Constrained
	}
	switch {
	case active == NumBaseCoords && constrained:
		return ConstrainedFloatingBase
	case active == NumBaseCoords:
		return FloatingBase
	case active > 0:
		return VirtualFloatingBase
	default:
		return FixedBase
	}
}
