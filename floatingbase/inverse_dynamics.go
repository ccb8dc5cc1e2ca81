package floatingbase

import (
	"github.com/pkg/errors"

	"go.viam.com/rbd/dynamics"
	"go.viam.com/rbd/kinematics"
	"go.viam.com/rbd/kinematics/kinmath/spatial"
)

// InverseDynamics computes the acceleration of the base and the torques of the actuated joints
// that realise the given joint accelerations. baseAcc is not read: the base acceleration is the
// result. fext maps body names to external forces in world coordinates and may be nil.
//
// The returned base acceleration is the spatial acceleration of the floating body in its own
// coordinates; slots that are not active are zero. A system without a kinematic tree reports a
// warning and returns zero values.
func (s *System) InverseDynamics(
	basePos BaseVector, jointPos []float64,
	baseVel BaseVector, jointVel []float64,
	baseAcc BaseVector, jointAcc []float64,
	fext map[string]spatial.ForceVector,
) (BaseVector, []float64, error) {
	if s.systemType == FixedBase {
		return BaseVector{}, nil, ErrFixedBaseDynamics
	}
	if s.model == nil {
		s.logger.Warn("cannot compute the inverse dynamics without a kinematic tree")
		return BaseVector{}, nil, nil
	}
	q, err := s.ToGeneralized(basePos, jointPos)
	if err != nil {
		return BaseVector{}, nil, err
	}
	qd, err := s.ToGeneralized(baseVel, jointVel)
	if err != nil {
		return BaseVector{}, nil, err
	}
	qdd, err := s.ToGeneralized(baseAcc, jointAcc)
	if err != nil {
		return BaseVector{}, nil, err
	}
	forces, err := s.externalForces(fext)
	if err != nil {
		return BaseVector{}, nil, err
	}

	var (
		acc spatial.MotionVector
		tau []float64
	)
	if s.systemType == VirtualFloatingBase {
		acc, tau, err = dynamics.FloatingBaseInverseDynamicsDoF(s.model, s.floatingDoF, q, qd, qdd, forces)
	} else {
		acc, tau, err = dynamics.FloatingBaseInverseDynamics(s.model, q, qd, qdd, forces)
	}
	if err != nil {
		return BaseVector{}, nil, err
	}

	baseAcceleration := BaseVector{
		acc.Angular[0], acc.Angular[1], acc.Angular[2],
		acc.Linear[0], acc.Linear[1], acc.Linear[2],
	}
	for c, slot := range s.base {
		if !slot.Active {
			baseAcceleration[c] = 0
		}
	}
	torques := make([]float64, s.jointDoF)
	copy(torques, tau[s.baseOffset():])
	return baseAcceleration, torques, nil
}

// externalForces turns forces keyed by body name into the per-body forces of the tree. Forces on
// fixed bodies act on their movable parent. Bodies that do not move with the floating body, such
// as the world, cannot take a force.
func (s *System) externalForces(fext map[string]spatial.ForceVector) ([]spatial.ForceVector, error) {
	if len(fext) == 0 {
		return nil, nil
	}
	forces := make([]spatial.ForceVector, s.model.NumBodies())
	for name, f := range fext {
		id, ok := s.model.BodyID(name)
		if !ok {
			return nil, kinematics.NewBodyNotFoundError(name)
		}
		i, err := s.model.MovableParent(id)
		if err != nil {
			return nil, err
		}
		if i < s.baseBody() {
			return nil, errors.Wrapf(dynamics.ErrForceOnBaseChain, "body %q", name)
		}
		forces[i] = forces[i].Add(f)
	}
	return forces, nil
}
