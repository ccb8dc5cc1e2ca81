package urdf

import (
	"github.com/pkg/errors"

	"go.viam.com/rbd/kinematics"
	"go.viam.com/rbd/kinematics/kinmath/spatial"
)

// BuildModel builds the kinematic tree described by the URDF. Joints are added in the order of
// the JointNames enumeration so that the generalized coordinates of the tree follow it. Links are
// named after the URDF links; the root body takes the name of the root link.
func (cfg *ModelConfig) BuildModel() (*kinematics.Model, error) {
	if cfg.links == nil {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	m := kinematics.NewModel(cfg.Name)
	if err := m.SetRootName(cfg.root); err != nil {
		return nil, err
	}
	rootBody, err := cfg.links[cfg.root].Body()
	if err != nil {
		return nil, err
	}
	if rootBody.Mass != 0 {
		if _, err := m.AddBody(kinematics.RootID, spatial.Identity(), kinematics.Joint{Type: kinematics.FixedJoint}, rootBody, ""); err != nil {
			return nil, err
		}
	}

	var buildErr error
	cfg.walkJoints(func(j *Joint) {
		if buildErr != nil {
			return
		}
		buildErr = errors.Wrapf(cfg.addJoint(m, j), "joint %q", j.Name)
	})
	if buildErr != nil {
		return nil, buildErr
	}
	return m, nil
}

func (cfg *ModelConfig) addJoint(m *kinematics.Model, j *Joint) error {
	parent, ok := m.BodyID(j.Parent.Link)
	if !ok {
		return NewLinkNotFoundError(j.Parent.Link)
	}
	frame, err := j.Transform()
	if err != nil {
		return err
	}
	body, err := cfg.links[j.Child.Link].Body()
	if err != nil {
		return err
	}

	var joint kinematics.Joint
	switch j.Type {
	case RevoluteJoint, ContinuousJoint, PrismaticJoint:
		axis, err := j.AxisVector()
		if err != nil {
			return err
		}
		if j.Type == PrismaticJoint {
			joint = kinematics.NewPrismaticJoint(axis)
		} else {
			joint = kinematics.NewRevoluteJoint(axis)
		}
	case FixedJoint:
		joint = kinematics.Joint{Type: kinematics.FixedJoint}
	case FloatingJoint:
		joint = kinematics.Joint{Type: kinematics.FloatingJoint}
	default:
		return NewUnsupportedJointTypeError(j.Name, j.Type)
	}
	_, err = m.AddBody(parent, frame, joint, body, j.Child.Link)
	return err
}
