// Package urdf reads Universal Robot Description Format files: it extracts the joint topology the
// floating-base model is indexed by and builds the kinematic tree used by the dynamics.
package urdf

import (
	"encoding/xml"
	"os"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/multierr"

	"go.viam.com/rbd/kinematics"
	"go.viam.com/rbd/kinematics/kinmath/spatial"
	"go.viam.com/rbd/spatialmath"
	"go.viam.com/rbd/utils"
)

// Joint types.
const (
	RevoluteJoint   = "revolute"
	ContinuousJoint = "continuous"
	PrismaticJoint  = "prismatic"
	FixedJoint      = "fixed"
	FloatingJoint   = "floating"
)

// ErrNoModelInformation is returned when the URDF data is empty.
var ErrNoModelInformation = errors.New("no model information")

// ModelConfig represents all supported fields in a Universal Robot Description Format (URDF) file.
type ModelConfig struct {
	XMLName xml.Name `xml:"robot"`
	Name    string   `xml:"name,attr"`
	Links   []Link   `xml:"link"`
	Joints  []Joint  `xml:"joint"`

	// Filled by Validate.
	root        string
	links       map[string]*Link
	joints      map[string]*Joint
	childJoints map[string][]*Joint
	parentJoint map[string]*Joint
}

// Link is a struct which details the XML used in a URDF link element.
type Link struct {
	XMLName  xml.Name  `xml:"link"`
	Name     string    `xml:"name,attr"`
	Inertial *Inertial `xml:"inertial,omitempty"`
}

// Inertial holds the mass properties of a link.
type Inertial struct {
	Origin *Pose `xml:"origin,omitempty"`
	Mass   struct {
		Value float64 `xml:"value,attr"`
	} `xml:"mass"`
	Inertia InertiaTensor `xml:"inertia"`
}

// InertiaTensor is the rotational inertia about the centre of mass, in the inertial frame.
type InertiaTensor struct {
	IXX float64 `xml:"ixx,attr"`
	IXY float64 `xml:"ixy,attr"`
	IXZ float64 `xml:"ixz,attr"`
	IYY float64 `xml:"iyy,attr"`
	IYZ float64 `xml:"iyz,attr"`
	IZZ float64 `xml:"izz,attr"`
}

// Joint is a struct which details the XML used in a URDF joint element.
type Joint struct {
	XMLName xml.Name `xml:"joint"`
	Name    string   `xml:"name,attr"`
	Type    string   `xml:"type,attr"`
	Parent  Frame    `xml:"parent"`
	Child   Frame    `xml:"child"`
	Origin  *Pose    `xml:"origin,omitempty"`
	Axis    *Axis    `xml:"axis,omitempty"`
	Limit   *Limit   `xml:"limit,omitempty"`
}

// Frame names the link a joint attaches to.
type Frame struct {
	Link string `xml:"link,attr"`
}

// Pose is a URDF origin element.
type Pose struct {
	RPY string `xml:"rpy,attr"` // Fixed frame angle "r p y" format, in radians
	XYZ string `xml:"xyz,attr"` // "x y z" format, in meters
}

// Axis is the joint axis, in the joint frame.
type Axis struct {
	XYZ string `xml:"xyz,attr"`
}

// Limit is a URDF limit element.
type Limit struct {
	Lower    float64 `xml:"lower,attr"` // translation limits are in meters, revolute limits are in radians
	Upper    float64 `xml:"upper,attr"`
	Velocity float64 `xml:"velocity,attr"`
	Effort   float64 `xml:"effort,attr"`
}

// ParseModelXMLFile will read a given file and parse the contained URDF XML data.
func ParseModelXMLFile(filename string) (*ModelConfig, error) {
	//nolint:gosec
	xmlData, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read URDF file")
	}
	return UnmarshalModelXML(xmlData)
}

// UnmarshalModelXML parses and validates URDF XML data.
func UnmarshalModelXML(xmlData []byte) (*ModelConfig, error) {
	// empty data probably means that the read URDF has no actionable information
	if len(xmlData) == 0 {
		return nil, ErrNoModelInformation
	}
	cfg := &ModelConfig{}
	if err := xml.Unmarshal(xmlData, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to convert URDF data to equivalent ModelConfig struct")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the links and joints form a single tree and indexes them.
func (cfg *ModelConfig) Validate() error {
	var errs error
	if len(cfg.Links) == 0 {
		return ErrNoModelInformation
	}
	for _, name := range lo.FindDuplicates(lo.Map(cfg.Links, func(l Link, _ int) string { return l.Name })) {
		errs = multierr.Append(errs, errors.Errorf("duplicate link %q", name))
	}
	for _, name := range lo.FindDuplicates(lo.Map(cfg.Joints, func(j Joint, _ int) string { return j.Name })) {
		errs = multierr.Append(errs, errors.Errorf("duplicate joint %q", name))
	}

	cfg.links = make(map[string]*Link, len(cfg.Links))
	for i := range cfg.Links {
		cfg.links[cfg.Links[i].Name] = &cfg.Links[i]
	}
	cfg.joints = make(map[string]*Joint, len(cfg.Joints))
	cfg.childJoints = map[string][]*Joint{}
	cfg.parentJoint = map[string]*Joint{}
	for i := range cfg.Joints {
		j := &cfg.Joints[i]
		cfg.joints[j.Name] = j
		if err := j.validate(); err != nil {
			errs = multierr.Append(errs, err)
		}
		if _, ok := cfg.links[j.Parent.Link]; !ok {
			errs = multierr.Append(errs, NewLinkNotFoundError(j.Parent.Link))
		}
		if _, ok := cfg.links[j.Child.Link]; !ok {
			errs = multierr.Append(errs, NewLinkNotFoundError(j.Child.Link))
		}
		if other, ok := cfg.parentJoint[j.Child.Link]; ok {
			errs = multierr.Append(errs, errors.Errorf("link %q is the child of both %q and %q", j.Child.Link, other.Name, j.Name))
		}
		cfg.parentJoint[j.Child.Link] = j
		cfg.childJoints[j.Parent.Link] = append(cfg.childJoints[j.Parent.Link], j)
	}
	for _, children := range cfg.childJoints {
		sort.Slice(children, func(a, b int) bool { return children[a].Name < children[b].Name })
	}

	roots := lo.Filter(cfg.Links, func(l Link, _ int) bool {
		_, hasParent := cfg.parentJoint[l.Name]
		return !hasParent
	})
	if len(roots) != 1 {
		errs = multierr.Append(errs, errors.Errorf("expected exactly one root link, found %d", len(roots)))
	} else {
		cfg.root = roots[0].Name
	}
	return errs
}

func (j *Joint) validate() error {
	switch j.Type {
	case RevoluteJoint, PrismaticJoint:
		if j.Limit == nil {
			return errors.Errorf("%s joint %q has no limit element", j.Type, j.Name)
		}
	case ContinuousJoint, FixedJoint, FloatingJoint:
	default:
		return NewUnsupportedJointTypeError(j.Name, j.Type)
	}
	if _, err := j.Transform(); err != nil {
		return errors.Wrapf(err, "joint %q origin", j.Name)
	}
	if j.isSingleDoF() {
		axis, err := j.AxisVector()
		if err != nil {
			return errors.Wrapf(err, "joint %q axis", j.Name)
		}
		if axis.Len() == 0 {
			return errors.Errorf("joint %q has a zero axis", j.Name)
		}
	}
	return nil
}

func (j *Joint) isSingleDoF() bool {
	return j.Type == RevoluteJoint || j.Type == ContinuousJoint || j.Type == PrismaticJoint
}

// Effort returns the declared effort limit, zero when there is no limit element.
func (j *Joint) Effort() float64 {
	if j.Limit == nil {
		return 0
	}
	return j.Limit.Effort
}

// AxisVector returns the joint axis, (1, 0, 0) when none is declared.
func (j *Joint) AxisVector() (mgl64.Vec3, error) {
	if j.Axis == nil {
		return mgl64.Vec3{1, 0, 0}, nil
	}
	xyz, err := utils.ParseTriple(j.Axis.XYZ, [3]float64{1, 0, 0})
	if err != nil {
		return mgl64.Vec3{}, err
	}
	return mgl64.Vec3(xyz), nil
}

// Transform returns the Plücker transform from the parent link to the joint frame.
func (j *Joint) Transform() (spatial.Transform, error) {
	return j.Origin.Transform()
}

// Transform returns the Plücker transform from the frame the pose is given in to the frame it
// describes. A nil pose is the identity.
func (p *Pose) Transform() (spatial.Transform, error) {
	if p == nil {
		return spatial.Identity(), nil
	}
	xyz, err := utils.ParseTriple(p.XYZ, [3]float64{})
	if err != nil {
		return spatial.Transform{}, err
	}
	rpy, err := utils.ParseTriple(p.RPY, [3]float64{})
	if err != nil {
		return spatial.Transform{}, err
	}
	rot := (&spatialmath.EulerAngles{Roll: rpy[0], Pitch: rpy[1], Yaw: rpy[2]}).RotationMatrix()
	return spatial.Transform{E: rot.Transpose(), R: mgl64.Vec3(xyz)}, nil
}

// Body returns the inertial parameters of the link in the link frame.
func (l *Link) Body() (kinematics.Body, error) {
	if l.Inertial == nil {
		return kinematics.Body{}, nil
	}
	frame, err := l.Inertial.Origin.Transform()
	if err != nil {
		return kinematics.Body{}, errors.Wrapf(err, "link %q inertial origin", l.Name)
	}
	it := l.Inertial.Inertia
	inertia := mgl64.Mat3FromRows(
		mgl64.Vec3{it.IXX, it.IXY, it.IXZ},
		mgl64.Vec3{it.IXY, it.IYY, it.IYZ},
		mgl64.Vec3{it.IXZ, it.IYZ, it.IZZ},
	)
	// Rotate the tensor from the inertial frame to the link frame.
	rot := frame.E.Transpose()
	return kinematics.NewBody(l.Inertial.Mass.Value, frame.R, rot.Mul3(inertia).Mul3(frame.E)), nil
}

// Root returns the name of the root link.
func (cfg *ModelConfig) Root() string {
	return cfg.root
}

// Link returns the named link.
func (cfg *ModelConfig) Link(name string) (*Link, bool) {
	l, ok := cfg.links[name]
	return l, ok
}

// Joint returns the named joint.
func (cfg *ModelConfig) Joint(name string) (*Joint, bool) {
	j, ok := cfg.joints[name]
	return j, ok
}

// ChildJoints returns the joints whose parent is the named link, in name order.
func (cfg *ModelConfig) ChildJoints(link string) []*Joint {
	return cfg.childJoints[link]
}

// ParentJoint returns the joint whose child is the named link, nil for the root.
func (cfg *ModelConfig) ParentJoint(link string) *Joint {
	return cfg.parentJoint[link]
}
