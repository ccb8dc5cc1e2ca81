package floatingbase

import (
	"github.com/pkg/errors"

	"go.viam.com/rbd/kinematics"
)

// ToGeneralized assembles the generalized state of the kinematic tree from a base and a joint
// state. A full floating base is laid out linear before angular; a virtual base places each
// active slot at its ID and never reads the inactive ones.
func (s *System) ToGeneralized(base BaseVector, joints []float64) ([]float64, error) {
	if len(joints) != s.jointDoF {
		err := newDimensionMismatchError("joint state", len(joints), s.jointDoF)
		s.logger.Errorw("cannot assemble the generalized state", "error", err)
		return nil, err
	}
	offset := s.baseOffset()
	q := make([]float64, offset+s.jointDoF)
	switch s.systemType {
	case FloatingBase, ConstrainedFloatingBase:
		for c := AX; c <= LZ; c++ {
			q[fullBaseIndex(c)] = base[c]
		}
	case VirtualFloatingBase:
		for c, slot := range s.base {
			if slot.Active && slot.ID < offset {
				q[slot.ID] = base[c]
			}
		}
	case FixedBase:
	}
	copy(q[offset:], joints)
	return q, nil
}

// FromGeneralized splits a generalized state into a base and a joint state. Base coordinates
// without an active slot are zero.
func (s *System) FromGeneralized(q []float64) (BaseVector, []float64, error) {
	offset := s.baseOffset()
	if len(q) != offset+s.jointDoF {
		err := newDimensionMismatchError("generalized state", len(q), offset+s.jointDoF)
		s.logger.Errorw("cannot split the generalized state", "error", err)
		return BaseVector{}, nil, err
	}
	var base BaseVector
	switch s.systemType {
	case FloatingBase, ConstrainedFloatingBase:
		for c := AX; c <= LZ; c++ {
			base[c] = q[fullBaseIndex(c)]
		}
	case VirtualFloatingBase:
		for c, slot := range s.base {
			if slot.Active && slot.ID < offset {
				base[c] = q[slot.ID]
			}
		}
	case FixedBase:
	}
	joints := make([]float64, s.jointDoF)
	copy(joints, q[offset:])
	return base, joints, nil
}

// Branch returns the chain of joints between a body and the floating base: the generalized
// index of the joint nearest to the base and the number of coordinates of the chain.
func (s *System) Branch(body string) (int, int, error) {
	if s.model == nil {
		return 0, 0, ErrNoKinematicTree
	}
	id, ok := s.model.BodyID(body)
	if !ok {
		return 0, 0, kinematics.NewBodyNotFoundError(body)
	}
	i, err := s.model.MovableParent(id)
	if err != nil {
		return 0, 0, err
	}
	chain, ok := s.model.Path(s.baseBody(), i)
	if !ok {
		return 0, 0, errors.Errorf("body %q is not below the floating base", body)
	}
	start, dof := s.baseOffset(), 0
	if len(chain) > 0 {
		start = s.model.QIndex(chain[0])
	}
	for _, b := range chain {
		dof += s.model.Joint(b).DoF()
	}
	return start, dof, nil
}

// branchSlice returns the joint state indices of the branch of a body after checking the sizes.
func (s *System) branchSlice(jointState []float64, branchLen int, body string) (int, int, error) {
	start, dof, err := s.Branch(body)
	if err != nil {
		return 0, 0, err
	}
	if len(jointState) != s.jointDoF {
		err := newDimensionMismatchError("joint state", len(jointState), s.jointDoF)
		s.logger.Errorw("branch state is inconsistent", "body", body, "error", err)
		return 0, 0, err
	}
	if branchLen >= 0 && branchLen != dof {
		err := newDimensionMismatchError("branch state of "+body, branchLen, dof)
		s.logger.Errorw("branch state is inconsistent", "body", body, "error", err)
		return 0, 0, err
	}
	return start - s.baseOffset(), dof, nil
}

// SetBranchState writes the state of the branch of a body into a joint state.
func (s *System) SetBranchState(jointState, branch []float64, body string) error {
	start, dof, err := s.branchSlice(jointState, len(branch), body)
	if err != nil {
		return err
	}
	copy(jointState[start:start+dof], branch)
	return nil
}

// BranchState returns the state of the branch of a body, read from a joint state.
func (s *System) BranchState(jointState []float64, body string) ([]float64, error) {
	start, dof, err := s.branchSlice(jointState, -1, body)
	if err != nil {
		return nil, err
	}
	branch := make([]float64, dof)
	copy(branch, jointState[start:start+dof])
	return branch, nil
}
