package utils

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestSpaceDelimitedStringToFloatSlice(t *testing.T) {
	values, err := SpaceDelimitedStringToFloatSlice(" 0.1  -2 3e-1 ")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, values, test.ShouldResemble, []float64{0.1, -2, 0.3})

	values, err = SpaceDelimitedStringToFloatSlice("")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, values, test.ShouldHaveLength, 0)

	_, err = SpaceDelimitedStringToFloatSlice("1 two 3")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "1 two 3")
}

func TestParseTriple(t *testing.T) {
	triple, err := ParseTriple("1 0 0", [3]float64{})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, triple, test.ShouldResemble, [3]float64{1, 0, 0})

	triple, err = ParseTriple("  ", [3]float64{0, 0, 1})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, triple, test.ShouldResemble, [3]float64{0, 0, 1})

	_, err = ParseTriple("1 0", [3]float64{})
	test.That(t, err, test.ShouldNotBeNil)
}

func TestAngles(t *testing.T) {
	test.That(t, RadToDeg(math.Pi/2), test.ShouldAlmostEqual, 90)
	test.That(t, Float64AlmostEqual(1, 1+1e-12, DefaultEpsilon), test.ShouldBeTrue)
	test.That(t, Float64AlmostEqual(1, 1.1, DefaultEpsilon), test.ShouldBeFalse)
}
