// Package spatial implements the 6-D spatial algebra used by the recursive dynamics: motion and
// force vectors, Plücker coordinate transforms and rigid-body inertias. Angular components come
// first in every 6-D vector.
package spatial

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"

	"go.viam.com/rbd/utils"
)

// MotionVector is a spatial velocity or acceleration.
type MotionVector struct {
	Angular mgl64.Vec3
	Linear  mgl64.Vec3
}

// NewMotionVectorFromSlice builds a MotionVector from [wx wy wz vx vy vz].
func NewMotionVectorFromSlice(s []float64) (MotionVector, error) {
	if len(s) != 6 {
		return MotionVector{}, errors.Errorf("a motion vector has 6 components, got %d", len(s))
	}
	return MotionVector{
		Angular: mgl64.Vec3{s[0], s[1], s[2]},
		Linear:  mgl64.Vec3{s[3], s[4], s[5]},
	}, nil
}

// Slice returns [wx wy wz vx vy vz].
func (m MotionVector) Slice() []float64 {
	return []float64{m.Angular[0], m.Angular[1], m.Angular[2], m.Linear[0], m.Linear[1], m.Linear[2]}
}

// Add returns m + other.
func (m MotionVector) Add(other MotionVector) MotionVector {
	return MotionVector{m.Angular.Add(other.Angular), m.Linear.Add(other.Linear)}
}

// Sub returns m - other.
func (m MotionVector) Sub(other MotionVector) MotionVector {
	return MotionVector{m.Angular.Sub(other.Angular), m.Linear.Sub(other.Linear)}
}

// Scale returns s*m.
func (m MotionVector) Scale(s float64) MotionVector {
	return MotionVector{m.Angular.Mul(s), m.Linear.Mul(s)}
}

// Cross is the spatial cross product of a motion with a force (crossf).
func (m MotionVector) Cross(other ForceVector) ForceVector {
	var res ForceVector
	res.Moment = m.Angular.Cross(other.Moment).Add(m.Linear.Cross(other.Force))
	res.Force = m.Angular.Cross(other.Force)
	return res
}

// CrossMotion is the spatial cross product of two motions (crossm).
func (m MotionVector) CrossMotion(other MotionVector) MotionVector {
	var res MotionVector
	res.Angular = m.Angular.Cross(other.Angular)
	res.Linear = m.Angular.Cross(other.Linear).Add(m.Linear.Cross(other.Angular))
	return res
}

// Dot is the scalar product of a motion and a force, i.e. power.
func (m MotionVector) Dot(other ForceVector) float64 {
	return m.Angular.Dot(other.Moment) + m.Linear.Dot(other.Force)
}

// ApproxEqual compares component-wise within utils.DefaultEpsilon.
func (m MotionVector) ApproxEqual(other MotionVector) bool {
	return m.Angular.ApproxFuncEqual(other.Angular, almostEqual) && m.Linear.ApproxFuncEqual(other.Linear, almostEqual)
}

func almostEqual(a, b float64) bool {
	return utils.Float64AlmostEqual(a, b, utils.DefaultEpsilon)
}
