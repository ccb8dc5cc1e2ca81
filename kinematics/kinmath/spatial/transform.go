package spatial

import (
	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/rbd/spatialmath"
)

// Transform is a Plücker coordinate transform from a frame A to a frame B. E rotates vectors
// from A coordinates to B coordinates and R is the origin of B expressed in A coordinates.
type Transform struct {
	E mgl64.Mat3
	R mgl64.Vec3
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{E: mgl64.Ident3()}
}

// NewRotation returns a pure rotation.
func NewRotation(e mgl64.Mat3) Transform {
	return Transform{E: e}
}

// NewTranslation returns a pure translation.
func NewTranslation(r mgl64.Vec3) Transform {
	return Transform{E: mgl64.Ident3(), R: r}
}

// Mul composes two transforms. x.Mul(y) applies y first, then x.
func (x Transform) Mul(y Transform) Transform {
	return Transform{
		E: x.E.Mul3(y.E),
		R: y.R.Add(y.E.Transpose().Mul3x1(x.R)),
	}
}

// Inverse returns the transform from B back to A.
func (x Transform) Inverse() Transform {
	return Transform{
		E: x.E.Transpose(),
		R: x.E.Mul3x1(x.R).Mul(-1),
	}
}

// ApplyMotion maps a motion vector from A to B coordinates.
func (x Transform) ApplyMotion(v MotionVector) MotionVector {
	return MotionVector{
		Angular: x.E.Mul3x1(v.Angular),
		Linear:  x.E.Mul3x1(v.Linear.Sub(x.R.Cross(v.Angular))),
	}
}

// ApplyInverseMotion maps a motion vector from B back to A coordinates.
func (x Transform) ApplyInverseMotion(v MotionVector) MotionVector {
	et := x.E.Transpose()
	angular := et.Mul3x1(v.Angular)
	return MotionVector{
		Angular: angular,
		Linear:  et.Mul3x1(v.Linear).Add(x.R.Cross(angular)),
	}
}

// ApplyForce maps a force vector from A to B coordinates.
func (x Transform) ApplyForce(f ForceVector) ForceVector {
	return ForceVector{
		Moment: x.E.Mul3x1(f.Moment.Sub(x.R.Cross(f.Force))),
		Force:  x.E.Mul3x1(f.Force),
	}
}

// ApplyTransposeForce maps a force vector from B back to A coordinates.
func (x Transform) ApplyTransposeForce(f ForceVector) ForceVector {
	et := x.E.Transpose()
	force := et.Mul3x1(f.Force)
	return ForceVector{
		Moment: et.Mul3x1(f.Moment).Add(x.R.Cross(force)),
		Force:  force,
	}
}

// PointToParent maps a point given in B coordinates to A coordinates.
func (x Transform) PointToParent(p mgl64.Vec3) mgl64.Vec3 {
	return x.R.Add(x.E.Transpose().Mul3x1(p))
}

// Matrix returns the 6x6 motion transform [E 0; -E*rx E].
func (x Transform) Matrix() *mat.Dense {
	lowerLeft := x.E.Mul3(spatialmath.Skew(x.R)).Mul(-1)
	m := mat.NewDense(6, 6, nil)
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			m.Set(r, c, x.E.At(r, c))
			m.Set(r+3, c+3, x.E.At(r, c))
			m.Set(r+3, c, lowerLeft.At(r, c))
		}
	}
	return m
}

// ApproxEqual compares both parts within utils.DefaultEpsilon.
func (x Transform) ApproxEqual(other Transform) bool {
	return x.E.ApproxFuncEqual(other.E, almostEqual) && x.R.ApproxFuncEqual(other.R, almostEqual)
}
