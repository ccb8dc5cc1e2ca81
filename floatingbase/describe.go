package floatingbase

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"go.viam.com/rbd/kinematics"
	"go.viam.com/rbd/urdf"
	"go.viam.com/rbd/utils"
)

// String prints an overview of the system: its type and sizes, the actuated joints, the
// end-effectors and, when the system has a kinematic tree, its bodies.
func (s *System) String() string {
	sections := []string{s.summaryTable(), s.jointTable(), s.endEffectorSection()}
	if s.model != nil {
		sections = append(sections, s.bodyTable())
	}
	return strings.Join(sections, "\n")
}

func (s *System) summaryTable() string {
	t := table.NewWriter()
	t.SetTitle("System")
	t.AppendRows([]table.Row{
		{"Type", s.systemType.String()},
		{"Floating body", s.floatingBodyName},
		{"Floating joints", strings.Join(s.floatingJointNames, ", ")},
		{"System DoF", s.SystemDoF()},
		{"Floating-base DoF", s.FloatingBaseDoF()},
		{"Joint DoF", s.jointDoF},
		{"Total mass", fmt.Sprintf("%.3f", s.TotalMass())},
		{"Gravity", fmt.Sprintf("X:%.2f, Y:%.2f, Z:%.2f", s.gravity.X, s.gravity.Y, s.gravity.Z)},
	})
	return t.Render()
}

func (s *System) jointTable() string {
	t := table.NewWriter()
	t.SetTitle("Joints")
	t.AppendHeader(table.Row{"#", "Name", "Lower", "Upper", "Velocity", "Effort", "Default"})
	for _, name := range s.JointNames() {
		id := s.joints[name]
		row := table.Row{id, name}
		if limit, ok := s.limits[name]; ok {
			row = append(row,
				s.formatPosition(name, limit.Lower), s.formatPosition(name, limit.Upper),
				limit.Velocity, limit.Effort)
		} else {
			row = append(row, "", "", "", "")
		}
		var posture float64
		if id < len(s.defaultPosture) {
			posture = s.defaultPosture[id]
		}
		t.AppendRow(append(row, posture))
	}
	return t.Render()
}

// formatPosition prints a joint position in degrees, or in metres for prismatic joints.
func (s *System) formatPosition(joint string, value float64) string {
	if s.urdf != nil {
		if j, ok := s.urdf.Joint(joint); ok && j.Type == urdf.PrismaticJoint {
			return fmt.Sprintf("%.3f m", value)
		}
	}
	return fmt.Sprintf("%.1f°", utils.RadToDeg(value))
}

func (s *System) endEffectorSection() string {
	t := table.NewWriter()
	t.SetTitle("End-effectors")
	t.AppendHeader(table.Row{"#", "Name", "Foot"})
	for _, name := range s.EndEffectorNames(AllEndEffectors) {
		_, foot := s.feet[name]
		t.AppendRow(table.Row{s.endEffectors[name], name, foot})
	}
	return t.Render()
}

func (s *System) bodyTable() string {
	t := table.NewWriter()
	t.SetTitle("Bodies")
	t.AppendHeader(table.Row{"Body", "Parent", "Joint", "Mass"})
	name := func(i int) string {
		if n := s.model.BodyName(kinematics.BodyID{Index: i}); n != "" {
			return n
		}
		return fmt.Sprintf("(virtual %d)", i)
	}
	fixedOf := map[int][]kinematics.FixedBody{}
	for i := 0; i < s.model.NumFixedBodies(); i++ {
		if fixed := s.model.FixedBody(i); fixed.Name != "" {
			fixedOf[fixed.MovableParent] = append(fixedOf[fixed.MovableParent], fixed)
		}
	}

	// depth-first, children indented under their parent
	var visit func(i, depth int)
	visit = func(i, depth int) {
		if i != 0 {
			t.AppendRow(table.Row{
				strings.Repeat("  ", depth-1) + name(i), name(s.model.Lambda(i)),
				s.model.Joint(i).Type.String(), fmt.Sprintf("%.3f", s.model.Inertia(i).Mass),
			})
		}
		for _, fixed := range fixedOf[i] {
			t.AppendRow(table.Row{strings.Repeat("  ", depth) + fixed.Name, name(i), "fixed", fmt.Sprintf("%.3f", fixed.Body.Mass)})
		}
		for _, child := range s.model.Children(i) {
			visit(child, depth+1)
		}
	}
	visit(0, 0)
	return t.Render()
}
