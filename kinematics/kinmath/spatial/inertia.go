package spatial

import (
	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/rbd/spatialmath"
)

// RigidBodyInertia is the spatial inertia of a rigid body expressed at a frame origin: the mass,
// the first mass moment H = mass*com and the rotational inertia I about the origin.
type RigidBodyInertia struct {
	Mass float64
	H    mgl64.Vec3
	I    mgl64.Mat3
}

// NewRigidBodyInertia builds the inertia of a body of the given mass whose centre of mass sits at
// com and whose rotational inertia about the centre of mass is inertiaAtCoM.
func NewRigidBodyInertia(mass float64, com mgl64.Vec3, inertiaAtCoM mgl64.Mat3) RigidBodyInertia {
	return RigidBodyInertia{
		Mass: mass,
		H:    com.Mul(mass),
		I:    inertiaAtCoM.Add(steiner(mass, com)),
	}
}

// m((c.c)1 - c c^T), the parallel axis term.
func steiner(mass float64, c mgl64.Vec3) mgl64.Mat3 {
	return mgl64.Ident3().Mul(c.Dot(c)).Sub(c.OuterProd3(c)).Mul(mass)
}

// CoM returns the centre of mass, or the origin for a massless body.
func (ri RigidBodyInertia) CoM() mgl64.Vec3 {
	if ri.Mass == 0 {
		return mgl64.Vec3{}
	}
	return ri.H.Mul(1 / ri.Mass)
}

// InertiaAtCoM returns the rotational inertia about the centre of mass.
func (ri RigidBodyInertia) InertiaAtCoM() mgl64.Mat3 {
	if ri.Mass == 0 {
		return ri.I
	}
	return ri.I.Sub(steiner(ri.Mass, ri.CoM()))
}

// Mul returns the momentum (or inertial force) I*v.
func (ri RigidBodyInertia) Mul(v MotionVector) ForceVector {
	return ForceVector{
		Moment: ri.I.Mul3x1(v.Angular).Add(ri.H.Cross(v.Linear)),
		Force:  v.Linear.Mul(ri.Mass).Sub(ri.H.Cross(v.Angular)),
	}
}

// Add returns the inertia of the two bodies rigidly joined, both expressed at the same origin.
func (ri RigidBodyInertia) Add(other RigidBodyInertia) RigidBodyInertia {
	return RigidBodyInertia{
		Mass: ri.Mass + other.Mass,
		H:    ri.H.Add(other.H),
		I:    ri.I.Add(other.I),
	}
}

// TransformToParent computes X^T I X: the inertia given in the child coordinates of x, expressed
// in the parent coordinates.
func (ri RigidBodyInertia) TransformToParent(x Transform) RigidBodyInertia {
	et := x.E.Transpose()
	if ri.Mass == 0 {
		return RigidBodyInertia{I: et.Mul3(ri.I).Mul3(x.E)}
	}
	com := x.PointToParent(ri.CoM())
	return RigidBodyInertia{
		Mass: ri.Mass,
		H:    com.Mul(ri.Mass),
		I:    et.Mul3(ri.InertiaAtCoM()).Mul3(x.E).Add(steiner(ri.Mass, com)),
	}
}

// Matrix returns the symmetric 6x6 inertia [I hx; -hx m1].
func (ri RigidBodyInertia) Matrix() *mat.SymDense {
	hx := spatialmath.Skew(ri.H)
	m := mat.NewSymDense(6, nil)
	for r := 0; r < 3; r++ {
		for c := r; c < 3; c++ {
			m.SetSym(r, c, ri.I.At(r, c))
		}
		for c := 0; c < 3; c++ {
			m.SetSym(r, c+3, hx.At(r, c))
		}
		m.SetSym(r+3, r+3, ri.Mass)
	}
	return m
}
