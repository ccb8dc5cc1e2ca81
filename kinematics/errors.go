package kinematics

import (
	"github.com/pkg/errors"
)

// ErrBadParent is returned when a body is attached to a parent that does not exist.
var ErrBadParent = errors.New("parent body does not exist")

// NewBodyNotFoundError is used when a body name is not part of the model.
func NewBodyNotFoundError(name string) error {
	return errors.Errorf("body %q not found in model", name)
}

// NewIncorrectDoFError is returned when a state vector does not match the degrees of freedom.
func NewIncorrectDoFError(what string, actual, expected int) error {
	return errors.Errorf("%s has %d entries but the model has %d degrees of freedom", what, actual, expected)
}

// NewUnsupportedJointTypeError is used when a joint type cannot be evaluated.
func NewUnsupportedJointTypeError(jt JointType) error {
	return errors.Errorf("unsupported joint type %s", jt)
}
