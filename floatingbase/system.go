// Package floatingbase describes robots whose base may move freely: which coordinates of the base
// are free, how the actuated joints are numbered, the end-effectors and feet, and how a base and
// joint state map to the generalized state of the kinematic tree.
//
// A System is built once, from a URDF or programmatically. After construction every method only
// reads the system and returns fresh values, so one System can be shared between goroutines.
package floatingbase

import (
	"os"
	"sort"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"go.viam.com/rbd/config"
	"go.viam.com/rbd/kinematics"
	"go.viam.com/rbd/logging"
	"go.viam.com/rbd/urdf"
)

// DefaultFloatingBaseName is the name of the base slots created by NewSystem.
const DefaultFloatingBaseName = "floating_base"

// Joint is an actuated joint and its index in the joint state.
type Joint struct {
	ID   int
	Name string
}

// EndEffectorKind selects a set of end-effectors.
type EndEffectorKind int

const (
	// AllEndEffectors are all end-effectors.
	AllEndEffectors EndEffectorKind = iota
	// Feet are the end-effectors in contact with the ground.
	Feet
)

// System is a floating-base robot.
type System struct {
	logger logging.Logger

	urdfData string
	urdf     *urdf.ModelConfig
	model    *kinematics.Model
	gravity  r3.Vector

	systemType SystemType
	base       [NumBaseCoords]FloatingBaseJoint
	// floatingDoF is the number of base coordinates in the generalized state when the base is
	// not fully floating.
	floatingDoF        int
	floatingJointNames []string
	floatingBodyName   string

	jointDoF int
	joints   map[string]int
	limits   map[string]urdf.JointLimit

	endEffectors   map[string]int
	feet           map[string]int
	footNames      []string
	defaultPosture []float64
}

func newSystem(logger logging.Logger) *System {
	return &System{
		logger:       logger,
		gravity:      kinematics.DefaultGravity,
		joints:       map[string]int{},
		limits:       map[string]urdf.JointLimit{},
		endEffectors: map[string]int{},
		feet:         map[string]int{},
	}
}

// NewSystem returns a system without a kinematic tree: a full floating base when full is set,
// otherwise a fixed base, and numJoints actuated joints. Joints, end-effectors and base slots are
// added with the setters.
func NewSystem(full bool, numJoints int, logger logging.Logger) *System {
	s := newSystem(logger)
	if full {
		s.SetFloatingBaseJoint(FloatingBaseJoint{Active: true, Name: DefaultFloatingBaseName})
		s.floatingJointNames = []string{DefaultFloatingBaseName}
	}
	s.SetJointDoF(numJoints)
	return s
}

// NewSystemFromURDFFile reads a URDF file and an optional system description file, which is
// skipped when systemPath is empty.
func NewSystemFromURDFFile(urdfPath, systemPath string, logger logging.Logger) (*System, error) {
	//nolint:gosec
	data, err := os.ReadFile(urdfPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read URDF file")
	}
	var desc *config.SystemConfig
	if systemPath != "" {
		if desc, err = config.ReadSystemConfigFile(systemPath); err != nil {
			return nil, err
		}
	}
	return NewSystemFromURDF(data, desc, logger)
}

// NewSystemFromURDF builds a system from URDF data and an optional system description.
//
// Floating joints and single-DoF joints with a zero effort limit make up the base. The remaining
// free joints are actuated and numbered from 0 in depth-first order. When desc lists no feet, all
// end-effectors are feet.
func NewSystemFromURDF(data []byte, desc *config.SystemConfig, logger logging.Logger) (*System, error) {
	cfg, err := urdf.UnmarshalModelXML(data)
	if err != nil {
		return nil, err
	}
	model, err := cfg.BuildModel()
	if err != nil {
		return nil, err
	}
	s := newSystem(logger)
	s.urdfData = string(data)
	s.urdf = cfg
	s.model = model
	s.gravity = model.Gravity()

	floatingJoints := cfg.JointNames(urdf.FloatingJoints)
	if len(floatingJoints) > 0 {
		motions := cfg.FloatingBaseJointMotion(logger)
		names := lo.Keys(motions)
		sort.Strings(names)
		for _, name := range names {
			idx := floatingJoints[name]
			joint := FloatingBaseJoint{Active: true, ID: idx, JointIndex: idx, Name: name}
			if motions[name] == urdf.FullMotion {
				s.SetFloatingBaseJoint(joint)
			} else {
				s.SetFloatingBaseJointCoordinate(joint, Coords6d(motions[name]))
			}
			s.floatingJointNames = append(s.floatingJointNames, name)
		}
		if !s.IsFullyFloatingBase() {
			s.floatingDoF = len(floatingJoints)
		}
	}
	s.floatingBodyName = model.BodyName(kinematics.BodyID{Index: s.baseBody()})

	freeJoints := cfg.JointNames(urdf.FreeJoints)
	numJoints := len(freeJoints) - len(floatingJoints)
	for name, idx := range freeJoints {
		if _, ok := floatingJoints[name]; ok {
			continue
		}
		id := idx - len(floatingJoints)
		if id < 0 || id >= numJoints {
			return nil, errors.Errorf("actuated joint %q comes before a floating-base joint", name)
		}
		s.SetJoint(Joint{ID: id, Name: name})
	}
	s.SetJointDoF(numJoints)
	s.limits = cfg.JointLimits()
	s.endEffectors = cfg.EndEffectors()

	if desc != nil {
		if err := s.ApplySystemConfig(desc); err != nil {
			return nil, err
		}
	}
	if len(s.feet) == 0 {
		s.logger.Warnw("setting up all the end-effectors as feet", "end_effectors", s.EndEffectorNames(AllEndEffectors))
		s.feet = lo.Assign(s.endEffectors)
		s.footNames = s.EndEffectorNames(AllEndEffectors)
	}
	return s, nil
}

// ApplySystemConfig applies a system description. An explicit foot list replaces the feet; feet
// that are not end-effectors become end-effectors. Default pose entries naming unknown joints are
// reported and skipped.
func (s *System) ApplySystemConfig(cfg *config.SystemConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	posture := map[int]float64{}
	for name, value := range cfg.DefaultPose {
		id, ok := s.joints[name]
		if !ok {
			s.logger.Warnw("default pose names an unknown joint", "joint", name)
			continue
		}
		if id < 0 || id >= len(s.defaultPosture) {
			return errors.Errorf("default pose of joint %q: id %d is outside the %d actuated joints",
				name, id, len(s.defaultPosture))
		}
		posture[id] = value
	}
	if cfg.HasFeet() {
		s.footNames = append([]string(nil), cfg.Feet...)
		sort.Strings(s.footNames)
		s.feet = make(map[string]int, len(s.footNames))
		for _, name := range s.footNames {
			id, ok := s.endEffectors[name]
			if !ok {
				id = len(s.endEffectors)
				s.endEffectors[name] = id
			}
			s.feet[name] = id
		}
	}
	for id, value := range posture {
		s.defaultPosture[id] = value
	}
	return nil
}

// SetFloatingBaseJoint makes all six base slots active, moved by one 6-DoF joint. The slots take
// the generalized coordinates of a full floating base, linear before angular.
func (s *System) SetFloatingBaseJoint(joint FloatingBaseJoint) {
	for c := AX; c <= LZ; c++ {
		slot := joint
		slot.ID = fullBaseIndex(c)
		s.base[c] = slot
	}
	s.floatingDoF = activeBaseDoF(s.base)
	s.systemType = DeriveSystemType(s.base)
}

// SetFloatingBaseJointCoordinate sets a single base slot.
func (s *System) SetFloatingBaseJointCoordinate(joint FloatingBaseJoint, coord Coords6d) {
	s.base[coord] = joint
	s.floatingDoF = activeBaseDoF(s.base)
	s.systemType = DeriveSystemType(s.base)
}

// SetFloatingBaseConstraint locks a base slot.
func (s *System) SetFloatingBaseConstraint(coord Coords6d) {
	s.base[coord].Constrained = true
	s.systemType = DeriveSystemType(s.base)
}

// SetTypeOfDynamicSystem overrides the system type until the base slots change again.
func (s *System) SetTypeOfDynamicSystem(t SystemType) {
	s.systemType = t
}

// SetJoint adds an actuated joint.
func (s *System) SetJoint(joint Joint) {
	s.joints[joint.Name] = joint.ID
}

// SetJointDoF sets the number of actuated joints. The default posture keeps its leading entries.
func (s *System) SetJointDoF(n int) {
	posture := make([]float64, n)
	copy(posture, s.defaultPosture)
	s.defaultPosture = posture
	s.jointDoF = n
}

// SetEndEffector adds an end-effector.
func (s *System) SetEndEffector(name string, id int) {
	s.endEffectors[name] = id
}

// activeBaseDoF is the number of generalized base coordinates the active slots span.
func activeBaseDoF(base [NumBaseCoords]FloatingBaseJoint) int {
	var dof int
	for _, slot := range base {
		if slot.Active && slot.ID >= dof {
			dof = slot.ID + 1
		}
	}
	return dof
}

func fullBaseIndex(c Coords6d) int {
	if c.IsAngular() {
		return int(c) + 3
	}
	return int(c - LX)
}

// baseBody returns the movable body carrying the last base coordinate.
func (s *System) baseBody() int {
	if s.IsFullyFloatingBase() {
		return NumBaseCoords
	}
	return s.floatingDoF
}

// baseOffset returns the number of base coordinates in the generalized state.
func (s *System) baseOffset() int {
	switch s.systemType {
	case FloatingBase, ConstrainedFloatingBase:
		return NumBaseCoords
	case VirtualFloatingBase:
		return s.floatingDoF
	default:
		return 0
	}
}
