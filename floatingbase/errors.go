package floatingbase

import "github.com/pkg/errors"

var (
	// ErrDimensionMismatch is returned when a state vector does not fit the system.
	ErrDimensionMismatch = errors.New("state dimension does not match the system")
	// ErrFixedBaseDynamics is returned when floating-base dynamics are requested for a fixed-base
	// system.
	ErrFixedBaseDynamics = errors.New("floating-base dynamics are undefined for a fixed-base system")
	// ErrNoKinematicTree is returned by queries that need the kinematic tree of a system built
	// without one.
	ErrNoKinematicTree = errors.New("system has no kinematic tree")
)

// NewJointNotFoundError is used when a joint name is not an actuated joint of the system.
func NewJointNotFoundError(name string) error {
	return errors.Errorf("joint %q not found", name)
}

// NewEndEffectorNotFoundError is used when a name is not an end-effector of the system.
func NewEndEffectorNotFoundError(name string) error {
	return errors.Errorf("end-effector %q not found", name)
}

func newDimensionMismatchError(what string, actual, expected int) error {
	return errors.Wrapf(ErrDimensionMismatch, "%s has %d entries, expected %d", what, actual, expected)
}
