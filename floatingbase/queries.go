package floatingbase

import (
	"sort"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"go.viam.com/rbd/kinematics"
	"go.viam.com/rbd/spatialmath"
	"go.viam.com/rbd/urdf"
)

// TypeOfDynamicSystem returns the system type.
func (s *System) TypeOfDynamicSystem() SystemType {
	return s.systemType
}

// IsFullyFloatingBase returns whether all six base slots are active.
func (s *System) IsFullyFloatingBase() bool {
	return lo.EveryBy(s.base[:], func(slot FloatingBaseJoint) bool { return slot.Active })
}

// IsVirtualFloatingBaseRobot returns whether the base moves through virtual joints.
func (s *System) IsVirtualFloatingBaseRobot() bool {
	return s.systemType == VirtualFloatingBase
}

// IsConstrainedFloatingBaseRobot returns whether the system is a constrained floating-base.
func (s *System) IsConstrainedFloatingBaseRobot() bool {
	return s.systemType == ConstrainedFloatingBase
}

// HasFloatingBaseConstraints returns whether any base slot is locked.
func (s *System) HasFloatingBaseConstraints() bool {
	return lo.SomeBy(s.base[:], func(slot FloatingBaseJoint) bool { return slot.Constrained })
}

// SystemDoF returns the length of the generalized state.
func (s *System) SystemDoF() int {
	return s.baseOffset() + s.jointDoF
}

// FloatingBaseDoF returns the number of base coordinates.
func (s *System) FloatingBaseDoF() int {
	if s.IsFullyFloatingBase() {
		return NumBaseCoords
	}
	return s.floatingDoF
}

// JointDoF returns the number of actuated joints.
func (s *System) JointDoF() int {
	return s.jointDoF
}

// FloatingBaseJoint returns a base slot.
func (s *System) FloatingBaseJoint(coord Coords6d) FloatingBaseJoint {
	return s.base[coord]
}

// FloatingBaseJointCoordinate returns the active base slot whose generalized coordinate is id.
func (s *System) FloatingBaseJointCoordinate(id int) (Coords6d, error) {
	for c, slot := range s.base {
		if slot.Active && slot.ID == id {
			return Coords6d(c), nil
		}
	}
	return 0, errors.Errorf("coordinate %d does not belong to the floating base", id)
}

// FloatingBaseName returns the name of the body moved by the floating base.
func (s *System) FloatingBaseName() string {
	return s.floatingBodyName
}

// FloatingJointNames returns the joints that move the base.
func (s *System) FloatingJointNames() []string {
	return append([]string(nil), s.floatingJointNames...)
}

// JointID returns the index of an actuated joint.
func (s *System) JointID(name string) (int, error) {
	id, ok := s.joints[name]
	if !ok {
		return 0, NewJointNotFoundError(name)
	}
	return id, nil
}

// Joints returns the actuated joints and their indices.
func (s *System) Joints() map[string]int {
	return lo.Assign(s.joints)
}

// JointNames returns the actuated joints ordered by index.
func (s *System) JointNames() []string {
	return namesByID(s.joints)
}

// JointLimits returns the limits of the actuated joints.
func (s *System) JointLimits() map[string]urdf.JointLimit {
	return lo.Assign(s.limits)
}

// JointLimit returns the limits of an actuated joint.
func (s *System) JointLimit(name string) (urdf.JointLimit, error) {
	limit, ok := s.limits[name]
	if !ok {
		return urdf.JointLimit{}, NewJointNotFoundError(name)
	}
	return limit, nil
}

// LowerLimit returns the lower position limit of a joint.
func (s *System) LowerLimit(name string) (float64, error) {
	limit, err := s.JointLimit(name)
	return limit.Lower, err
}

// UpperLimit returns the upper position limit of a joint.
func (s *System) UpperLimit(name string) (float64, error) {
	limit, err := s.JointLimit(name)
	return limit.Upper, err
}

// VelocityLimit returns the velocity limit of a joint.
func (s *System) VelocityLimit(name string) (float64, error) {
	limit, err := s.JointLimit(name)
	return limit.Velocity, err
}

// EffortLimit returns the effort limit of a joint.
func (s *System) EffortLimit(name string) (float64, error) {
	limit, err := s.JointLimit(name)
	return limit.Effort, err
}

func (s *System) endEffectorTable(kind EndEffectorKind) map[string]int {
	if kind == Feet {
		return s.feet
	}
	return s.endEffectors
}

// NumberOfEndEffectors returns the number of end-effectors of a kind.
func (s *System) NumberOfEndEffectors(kind EndEffectorKind) int {
	return len(s.endEffectorTable(kind))
}

// EndEffectorID returns the index of an end-effector.
func (s *System) EndEffectorID(name string) (int, error) {
	id, ok := s.endEffectors[name]
	if !ok {
		return 0, NewEndEffectorNotFoundError(name)
	}
	return id, nil
}

// EndEffectors returns the end-effectors of a kind and their end-effector indices.
func (s *System) EndEffectors(kind EndEffectorKind) map[string]int {
	return lo.Assign(s.endEffectorTable(kind))
}

// EndEffectorNames returns the names of the end-effectors of a kind: all end-effectors ordered by
// index, or the feet in name order.
func (s *System) EndEffectorNames(kind EndEffectorKind) []string {
	if kind == Feet {
		return append([]string(nil), s.footNames...)
	}
	return namesByID(s.endEffectors)
}

// DefaultPosture returns the default joint state.
func (s *System) DefaultPosture() []float64 {
	return append([]float64(nil), s.defaultPosture...)
}

// TotalMass returns the mass of the whole system.
func (s *System) TotalMass() float64 {
	if s.model == nil {
		return 0
	}
	return s.model.TotalMass()
}

func (s *System) body(name string) (kinematics.BodyID, error) {
	if s.model == nil {
		return kinematics.BodyID{}, ErrNoKinematicTree
	}
	id, ok := s.model.BodyID(name)
	if !ok {
		return kinematics.BodyID{}, kinematics.NewBodyNotFoundError(name)
	}
	return id, nil
}

// BodyMass returns the mass of a body. The mass of a movable body includes the fixed bodies
// welded to it.
func (s *System) BodyMass(name string) (float64, error) {
	id, err := s.body(name)
	if err != nil {
		return 0, err
	}
	if id.IsFixed() {
		return s.model.FixedBody(id.Index).Body.Mass, nil
	}
	return s.model.Inertia(id.Index).Mass, nil
}

// BodyCoM returns the centre of mass of a body in its own coordinates.
func (s *System) BodyCoM(name string) (r3.Vector, error) {
	id, err := s.body(name)
	if err != nil {
		return r3.Vector{}, err
	}
	if id.IsFixed() {
		return spatialmath.Vec3ToR3(s.model.FixedBody(id.Index).Body.CoM), nil
	}
	return spatialmath.Vec3ToR3(s.model.Inertia(id.Index).CoM()), nil
}

// FloatingBaseCoM returns the centre of mass of the floating body in its own coordinates.
func (s *System) FloatingBaseCoM() (r3.Vector, error) {
	return s.BodyCoM(s.floatingBodyName)
}

// SystemCoM returns the centre of mass of the system in world coordinates.
func (s *System) SystemCoM(base BaseVector, joints []float64) (r3.Vector, error) {
	if s.model == nil {
		s.logger.Warn("cannot compute the centre of mass without a kinematic tree")
		return r3.Vector{}, nil
	}
	q, err := s.ToGeneralized(base, joints)
	if err != nil {
		return r3.Vector{}, err
	}
	_, com, _, err := s.model.CenterOfMass(q, nil)
	return com, err
}

// SystemCoMRate returns the velocity of the centre of mass of the system in world coordinates.
func (s *System) SystemCoMRate(basePos BaseVector, jointPos []float64, baseVel BaseVector, jointVel []float64) (r3.Vector, error) {
	if s.model == nil {
		s.logger.Warn("cannot compute the centre of mass rate without a kinematic tree")
		return r3.Vector{}, nil
	}
	q, err := s.ToGeneralized(basePos, jointPos)
	if err != nil {
		return r3.Vector{}, err
	}
	qd, err := s.ToGeneralized(baseVel, jointVel)
	if err != nil {
		return r3.Vector{}, err
	}
	_, _, comVel, err := s.model.CenterOfMass(q, qd)
	return comVel, err
}

// GravityVector returns the gravity vector.
func (s *System) GravityVector() r3.Vector {
	return s.gravity
}

// GravityAcceleration returns the magnitude of gravity.
func (s *System) GravityAcceleration() float64 {
	return s.gravity.Norm()
}

// GravityDirection returns the unit direction of gravity.
func (s *System) GravityDirection() r3.Vector {
	return s.gravity.Normalize()
}

// URDFModel returns the URDF the system was built from, empty for systems built with NewSystem.
func (s *System) URDFModel() string {
	return s.urdfData
}

// URDFConfig returns the parsed URDF, nil for systems built with NewSystem.
func (s *System) URDFConfig() *urdf.ModelConfig {
	return s.urdf
}

// Kinematics returns the kinematic tree, nil for systems built with NewSystem.
func (s *System) Kinematics() *kinematics.Model {
	return s.model
}

func namesByID(table map[string]int) []string {
	names := lo.Keys(table)
	sort.Slice(names, func(i, j int) bool {
		if table[names[i]] != table[names[j]] {
			return table[names[i]] < table[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}
