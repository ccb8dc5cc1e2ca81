// Package simulation holds reduced models of a legged robot used to preview the motion of its
// centre of mass.
package simulation

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/rbd/logging"
)

// CartTableProperties are the physical properties of the cart-table model.
type CartTableProperties struct {
	// Gravity is the magnitude of the gravity acceleration.
	Gravity float64
}

// ReducedBodyState is the state of the centre of mass and the centre of pressure at a time.
type ReducedBodyState struct {
	Time   float64
	CoMPos r3.Vector
	CoMVel r3.Vector
	CoMAcc r3.Vector
	CoP    r3.Vector
}

// CartTableControlParams shift the centre of pressure linearly over a phase.
type CartTableControlParams struct {
	Duration float64
	CoPShift r3.Vector
}

// LinearControlledCartTableModel is a cart-table model whose centre of pressure moves linearly
// during a phase. The centre of mass stays at a constant height. A model is not safe for
// concurrent use.
type LinearControlledCartTableModel struct {
	logger logging.Logger

	properties   CartTableProperties
	initModel    bool
	initResponse bool

	initialState ReducedBodyState
	params       CartTableControlParams
	height       float64
	omega        float64
	beta1, beta2 r3.Vector
	copRate      r3.Vector
}

// NewLinearControlledCartTableModel returns a model without properties.
func NewLinearControlledCartTableModel(logger logging.Logger) *LinearControlledCartTableModel {
	return &LinearControlledCartTableModel{logger: logger}
}

// SetModelProperties sets the physical properties of the model.
func (m *LinearControlledCartTableModel) SetModelProperties(properties CartTableProperties) {
	m.properties = properties
	m.initModel = true
}

// InitResponse computes the response coefficients of a phase starting at state.
func (m *LinearControlledCartTableModel) InitResponse(state ReducedBodyState, params CartTableControlParams) error {
	if !m.initModel {
		m.logger.Warn("cannot initialize the cart-table response before the model properties are set")
		return nil
	}
	height := state.CoMPos.Z - state.CoP.Z
	if height <= 0 {
		return errors.Errorf("centre of mass must be above the centre of pressure, height is %v", height)
	}
	if params.Duration <= 0 {
		return errors.Errorf("phase duration must be positive, got %v", params.Duration)
	}
	m.initialState = state
	m.params = params
	m.height = height
	m.omega = math.Sqrt(m.properties.Gravity / height)

	alpha := 2 * m.omega * params.Duration
	projection := horizontal(state.CoMPos.Sub(state.CoP))
	displacement := horizontal(state.CoMVel.Mul(params.Duration))
	shift := horizontal(params.CoPShift)
	m.beta1 = projection.Mul(0.5).Add(displacement.Sub(shift).Mul(1 / alpha))
	m.beta2 = projection.Mul(0.5).Sub(displacement.Sub(shift).Mul(1 / alpha))
	m.copRate = shift.Mul(1 / params.Duration)
	m.initResponse = true
	return nil
}

// ComputeResponse writes the state of the model at time into state. Times before the start of
// the phase leave state untouched.
func (m *LinearControlledCartTableModel) ComputeResponse(state *ReducedBodyState, time float64) {
	if !m.initResponse {
		m.logger.Warn("cannot compute the cart-table response before InitResponse")
		return
	}
	if time < m.initialState.Time {
		return
	}
	dt := time - m.initialState.Time
	state.Time = time

	exp1 := m.beta1.Mul(math.Exp(m.omega * dt))
	exp2 := m.beta2.Mul(math.Exp(-m.omega * dt))
	w2 := m.omega * m.omega
	pos := exp1.Add(exp2).Add(m.copRate.Mul(dt)).Add(horizontal(m.initialState.CoP))
	vel := exp1.Mul(m.omega).Sub(exp2.Mul(m.omega)).Add(m.copRate)
	acc := exp1.Mul(w2).Add(exp2.Mul(w2))

	// There is no vertical motion of the centre of mass.
	state.CoMPos = r3.Vector{X: pos.X, Y: pos.Y, Z: m.initialState.CoMPos.Z}
	state.CoMVel = r3.Vector{X: vel.X, Y: vel.Y}
	state.CoMAcc = r3.Vector{X: acc.X, Y: acc.Y}
	state.CoP = m.initialState.CoP.Add(m.params.CoPShift.Mul(dt / m.params.Duration))
}

// ComputeSystemEnergy initializes the response of a phase and returns, per horizontal axis, the
// acceleration energy of the centre of mass at the end of the phase. The vertical entry is zero.
func (m *LinearControlledCartTableModel) ComputeSystemEnergy(initial ReducedBodyState, params CartTableControlParams) (r3.Vector, error) {
	if err := m.InitResponse(initial, params); err != nil {
		return r3.Vector{}, err
	}
	if !m.initResponse {
		return r3.Vector{}, nil
	}
	w2 := m.omega * m.omega
	c1 := square(m.beta1.Mul(w2))
	c2 := square(m.beta2.Mul(w2))
	c3 := r3.Vector{X: m.beta1.X * m.beta2.X, Y: m.beta1.Y * m.beta2.Y}.Mul(w2 * w2)
	dt := params.Duration
	energy := c1.Mul(math.Exp(2 * m.omega * dt)).Add(c2.Mul(math.Exp(-2 * m.omega * dt))).Add(c3)
	return r3.Vector{X: energy.X, Y: energy.Y}, nil
}

// PendulumHeight returns the height of the centre of mass above the centre of pressure.
func (m *LinearControlledCartTableModel) PendulumHeight() float64 {
	return m.height
}

func horizontal(v r3.Vector) r3.Vector {
	return r3.Vector{X: v.X, Y: v.Y}
}

func square(v r3.Vector) r3.Vector {
	return r3.Vector{X: v.X * v.X, Y: v.Y * v.Y, Z: v.Z * v.Z}
}
