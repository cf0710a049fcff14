package constants

// Axis identifies one of the three independently chosen scenario dimensions.
type Axis string

const (
	// AxisFertility is the birth-rate dimension (G1..G3).
	AxisFertility Axis = "G"

	// AxisLifeExpectancy is the life-expectancy dimension (L1..L3).
	AxisLifeExpectancy Axis = "L"

	// AxisMigration is the net-migration dimension (W1..W3).
	AxisMigration Axis = "W"
)

// Axes lists the scenario dimensions in code order.
var Axes = []Axis{AxisFertility, AxisLifeExpectancy, AxisMigration}

// Valid returns true if the axis is a recognized value.
func (a Axis) Valid() bool {
	switch a {
	case AxisFertility, AxisLifeExpectancy, AxisMigration:
		return true
	}
	return false
}

// String returns the string representation of the axis.
func (a Axis) String() string {
	return string(a)
}

// Title returns the German row label shown in the scenario selector.
func (a Axis) Title() string {
	switch a {
	case AxisFertility:
		return "Geburtenhäufigkeit"
	case AxisLifeExpectancy:
		return "Lebenserwartung"
	case AxisMigration:
		return "Wanderungssaldo"
	}
	return string(a)
}

// Options returns the three codes of the axis, lowest level first.
func (a Axis) Options() []string {
	if !a.Valid() {
		return nil
	}
	p := string(a)
	return []string{p + "1", p + "2", p + "3"}
}

// ValidOption reports whether code is one of the axis options.
func (a Axis) ValidOption(code string) bool {
	for _, o := range a.Options() {
		if o == code {
			return true
		}
	}
	return false
}

// LevelTitles are the column headers of the scenario selector.
var LevelTitles = []string{"niedrig", "moderat", "hoch"}
