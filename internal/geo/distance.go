package geo

import "fmt"

// LengthUnit identifies a unit of length supported by Distance conversions.
type LengthUnit int

const (
	Kilometers LengthUnit = iota
	Meters
	Miles
	NauticalMiles
	Feet
	Yards
)

// metersPer maps every unit to its size in meters. Length conversions are
// purely linear, so a single scale factor per unit is enough.
var metersPer = map[LengthUnit]float64{
	Kilometers:    1000,
	Meters:        1,
	Miles:         1609.344,
	NauticalMiles: 1852,
	Feet:          0.3048,
	Yards:         0.9144,
}

var unitSymbols = map[LengthUnit]string{
	Kilometers:    "km",
	Meters:        "m",
	Miles:         "mi",
	NauticalMiles: "nmi",
	Feet:          "ft",
	Yards:         "yd",
}

// String returns the unit symbol, e.g. "km".
func (u LengthUnit) String() string {
	if s, ok := unitSymbols[u]; ok {
		return s
	}
	return "unknown"
}

// Distance is a measurement value: a magnitude paired with its length unit.
type Distance struct {
	value float64
	unit  LengthUnit
}

// NewDistance returns a distance of the given magnitude and unit.
func NewDistance(value float64, unit LengthUnit) Distance {
	return Distance{value: value, unit: unit}
}

// Value returns the magnitude in the distance's own unit.
func (d Distance) Value() float64 { return d.value }

// Unit returns the unit the magnitude is expressed in.
func (d Distance) Unit() LengthUnit { return d.unit }

// In converts the distance to the requested unit.
func (d Distance) In(unit LengthUnit) Distance {
	meters := d.value * metersPer[d.unit]
	return Distance{value: meters / metersPer[unit], unit: unit}
}

// Kilometers is shorthand for In(Kilometers).Value().
func (d Distance) Kilometers() float64 { return d.In(Kilometers).value }

// String renders the distance with its unit symbol, e.g. "343.556 km".
func (d Distance) String() string {
	return fmt.Sprintf("%.3f %s", d.value, d.unit)
}
