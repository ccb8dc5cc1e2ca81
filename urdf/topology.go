package urdf

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/samber/lo"

	"go.viam.com/rbd/logging"
)

// JointClass selects the joints enumerated by JointNames.
type JointClass int

const (
	// FreeJoints are the joints with at least one degree of freedom.
	FreeJoints JointClass = iota
	// FixedJoints are the fixed joints.
	FixedJoints
	// FloatingJoints are floating joints and the single-DoF joints declared with a zero effort
	// limit, which stand in for base motion instead of an actuator.
	FloatingJoints
	// AllJoints are all joints; fixed joints are not indexed.
	AllJoints
)

// UnindexedJoint is the index of a fixed joint in the AllJoints enumeration.
const UnindexedJoint = -1

// JointLimit holds the motion limits of an actuated joint.
type JointLimit struct {
	Lower    float64
	Upper    float64
	Velocity float64
	Effort   float64
}

// JointMotion is the base motion a floating joint supplies.
type JointMotion int

// The single-axis motions share their values with the angular-first base coordinates.
const (
	RX JointMotion = iota
	RY
	RZ
	TX
	TY
	TZ
	// FullMotion is the 6-DoF motion of a floating joint.
	FullMotion
)

func (jm JointMotion) String() string {
	switch jm {
	case RX:
		return "RX"
	case RY:
		return "RY"
	case RZ:
		return "RZ"
	case TX:
		return "TX"
	case TY:
		return "TY"
	case TZ:
		return "TZ"
	case FullMotion:
		return "FULL"
	default:
		return "unknown"
	}
}

// walkJoints visits the joints depth first from the root link, sibling joints in name order.
func (cfg *ModelConfig) walkJoints(visit func(j *Joint)) {
	var walk func(link string)
	walk = func(link string) {
		for _, j := range cfg.childJoints[link] {
			visit(j)
			walk(j.Child.Link)
		}
	}
	walk(cfg.root)
}

func (cfg *ModelConfig) isFloatingEligible(j *Joint) bool {
	if j.Type == FloatingJoint {
		return true
	}
	return j.isSingleDoF() && j.Limit != nil && j.Limit.Effort == 0
}

// JointNames enumerates the joints of a class in depth-first order and maps their names to
// contiguous indices starting at 0.
func (cfg *ModelConfig) JointNames(class JointClass) map[string]int {
	joints := map[string]int{}
	idx := 0
	cfg.walkJoints(func(j *Joint) {
		var selected bool
		switch class {
		case FreeJoints:
			selected = j.Type != FixedJoint
		case FixedJoints:
			selected = j.Type == FixedJoint
		case FloatingJoints:
			selected = cfg.isFloatingEligible(j)
		case AllJoints:
			if j.Type == FixedJoint {
				joints[j.Name] = UnindexedJoint
				return
			}
			selected = true
		}
		if selected {
			joints[j.Name] = idx
			idx++
		}
	})
	return joints
}

// JointLimits returns the limits of the actuated joints. Joints without an effort limit are the
// virtual joints of the base and are left out.
func (cfg *ModelConfig) JointLimits() map[string]JointLimit {
	limits := map[string]JointLimit{}
	for name := range cfg.JointNames(FreeJoints) {
		j := cfg.joints[name]
		if j.Type == FloatingJoint || j.Effort() == 0 {
			continue
		}
		limits[name] = JointLimit(*j.Limit)
	}
	return limits
}

// JointAxes returns the axis of every joint of a class. Fixed and floating joints have no axis
// and map to the zero vector.
func (cfg *ModelConfig) JointAxes(class JointClass) map[string]mgl64.Vec3 {
	axes := map[string]mgl64.Vec3{}
	for name := range cfg.JointNames(class) {
		j := cfg.joints[name]
		if !j.isSingleDoF() {
			axes[name] = mgl64.Vec3{}
			continue
		}
		// Validate already parsed the axis.
		axis, _ := j.AxisVector()
		axes[name] = axis
	}
	return axes
}

// EndEffectors returns the end-effector links: the childless links of fixed joints whose chain
// towards the root link contains a revolute or prismatic joint. They are indexed in fixed joint
// name order.
func (cfg *ModelConfig) EndEffectors() map[string]int {
	endEffectors := map[string]int{}
	rootChildren := cfg.childJoints[cfg.root]
	if len(rootChildren) == 0 {
		return endEffectors
	}
	// The root link is the first link under the world link.
	rootLink := rootChildren[0].Child.Link

	fixed := lo.Keys(cfg.JointNames(FixedJoints))
	sort.Strings(fixed)
	idx := 0
	for _, name := range fixed {
		j := cfg.joints[name]
		if len(cfg.childJoints[j.Child.Link]) != 0 {
			continue
		}
		for parent := j.Parent.Link; parent != rootLink; {
			parentJoint := cfg.parentJoint[parent]
			if parentJoint == nil {
				break
			}
			if parentJoint.Type == RevoluteJoint || parentJoint.Type == PrismaticJoint {
				endEffectors[j.Child.Link] = idx
				idx++
				break
			}
			parent = parentJoint.Parent.Link
		}
	}
	return endEffectors
}

// FloatingBaseJointMotion classifies the floating joints, visited in name order, by the base
// motion they supply. The first non-zero axis component selects the motion of a single-DoF joint.
//
// Classifying a single-DoF joint ends the classification, so the floating joints after it are
// left out of the result. Callers rely on this ordering; the skipped joints are reported through
// the logger.
func (cfg *ModelConfig) FloatingBaseJointMotion(logger logging.Logger) map[string]JointMotion {
	axes := cfg.JointAxes(FloatingJoints)
	names := lo.Keys(axes)
	sort.Strings(names)

	motions := map[string]JointMotion{}
	for i, name := range names {
		j := cfg.joints[name]
		axis := axes[name]
		var first JointMotion
		switch j.Type {
		case FloatingJoint:
			motions[name] = FullMotion
			continue
		case RevoluteJoint, ContinuousJoint:
			first = RX
		case PrismaticJoint:
			first = TX
		default:
			continue
		}
		component := -1
		for c := 0; c < 3; c++ {
			if axis[c] != 0 {
				component = c
				break
			}
		}
		if component < 0 {
			continue
		}
		motions[name] = first + JointMotion(component)
		if skipped := names[i+1:]; len(skipped) > 0 {
			logger.Warnw("floating joint classification stopped early; joints left unclassified",
				"classified", name, "skipped", skipped)
		}
		return motions
	}
	return motions
}
