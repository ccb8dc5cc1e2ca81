package spatial

import (
	"github.com/go-gl/mathgl/mgl64"
)

// ForceVector is a spatial force: a moment about the frame origin and a linear force.
type ForceVector struct {
	Moment mgl64.Vec3
	Force  mgl64.Vec3
}

// Add returns f + other.
func (f ForceVector) Add(other ForceVector) ForceVector {
	return ForceVector{f.Moment.Add(other.Moment), f.Force.Add(other.Force)}
}

// Sub returns f - other.
func (f ForceVector) Sub(other ForceVector) ForceVector {
	return ForceVector{f.Moment.Sub(other.Moment), f.Force.Sub(other.Force)}
}

// Scale returns s*f.
func (f ForceVector) Scale(s float64) ForceVector {
	return ForceVector{f.Moment.Mul(s), f.Force.Mul(s)}
}

// Dot returns the power of f acting on the motion other.
func (f ForceVector) Dot(other MotionVector) float64 {
	return f.Moment.Dot(other.Angular) + f.Force.Dot(other.Linear)
}

// Slice returns [nx ny nz fx fy fz].
func (f ForceVector) Slice() []float64 {
	return []float64{f.Moment[0], f.Moment[1], f.Moment[2], f.Force[0], f.Force[1], f.Force[2]}
}

// ApproxEqual compares component-wise within utils.DefaultEpsilon.
func (f ForceVector) ApproxEqual(other ForceVector) bool {
	return f.Moment.ApproxFuncEqual(other.Moment, almostEqual) && f.Force.ApproxFuncEqual(other.Force, almostEqual)
}
