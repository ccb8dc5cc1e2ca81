package urdf

import "github.com/pkg/errors"

// NewLinkNotFoundError is used when a joint refers to a link that does not exist.
func NewLinkNotFoundError(name string) error {
	return errors.Errorf("link %q not found", name)
}

// NewUnsupportedJointTypeError is used when a joint type is not supported.
func NewUnsupportedJointTypeError(name, jointType string) error {
	return errors.Errorf("joint %q has unsupported type %q", name, jointType)
}
