// Package units converts tagged physical quantities into the fixed internal
// unit system: kcal/mol for energy, angstrom for length, kelvin for
// temperature, kilogram for mass and second for time.
//
// Conversion is stateless. Every call names its unit explicitly; there is no
// process-wide registry to configure.
package units

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/san-kum/ljsim/internal/dynamo"
)

// Dimension is the physical dimension a quantity is measured in.
type Dimension int

const (
	Energy Dimension = iota + 1
	Length
	Temperature
	Mass
	Time
)

func (d Dimension) String() string {
	switch d {
	case Energy:
		return "energy"
	case Length:
		return "length"
	case Temperature:
		return "temperature"
	case Mass:
		return "mass"
	case Time:
		return "time"
	}
	return "unknown"
}

const (
	// GasConstant in kcal/(mol·K).
	GasConstant = 0.001985875
	// DaltonKilograms is the mass of one dalton in kilograms.
	DaltonKilograms = 1.66053906660e-27
)

type unitDef struct {
	dim    Dimension
	scale  float64
	offset float64
}

// internal = value*scale + offset
var table = map[string]unitDef{
	"kcal/mol": {Energy, 1, 0},
	"kJ/mol":   {Energy, 1 / 4.184, 0},
	"J/mol":    {Energy, 1 / 4184.0, 0},
	"eV":       {Energy, 23.060547830619, 0},

	"angstrom": {Length, 1, 0},
	"Å":        {Length, 1, 0},
	"pm":       {Length, 0.01, 0},
	"nm":       {Length, 10, 0},
	"m":        {Length, 1e10, 0},

	"K":       {Temperature, 1, 0},
	"kelvin":  {Temperature, 1, 0},
	"degC":    {Temperature, 1, 273.15},
	"celsius": {Temperature, 1, 273.15},

	"kg":       {Mass, 1, 0},
	"kilogram": {Mass, 1, 0},
	"g":        {Mass, 1e-3, 0},
	"Da":       {Mass, DaltonKilograms, 0},
	"dalton":   {Mass, DaltonKilograms, 0},
	"amu":      {Mass, DaltonKilograms, 0},

	"s":  {Time, 1, 0},
	"ps": {Time, 1e-12, 0},
	"fs": {Time, 1e-15, 0},
}

var defaults = map[Dimension]string{
	Energy:      "kcal/mol",
	Length:      "angstrom",
	Temperature: "K",
	Mass:        "kg",
	Time:        "s",
}

// DefaultUnit returns the internal unit of d.
func DefaultUnit(d Dimension) string {
	return defaults[d]
}

// Quantity is a magnitude tagged with a unit. An empty Unit means the
// internal unit of whatever dimension the quantity is converted to.
type Quantity struct {
	Value float64
	Unit  string
}

// Q is shorthand for Quantity{Value: v, Unit: unit}.
func Q(v float64, unit string) Quantity {
	return Quantity{Value: v, Unit: unit}
}

func (q Quantity) String() string {
	if q.Unit == "" {
		return strconv.FormatFloat(q.Value, 'g', -1, 64)
	}
	return strconv.FormatFloat(q.Value, 'g', -1, 64) + " " + q.Unit
}

// Convert returns the magnitude of q in the internal unit of d.
func Convert(q Quantity, d Dimension) (float64, error) {
	unit := q.Unit
	if unit == "" {
		unit = DefaultUnit(d)
	}
	def, ok := table[unit]
	if !ok {
		return 0, fmt.Errorf("%w: unknown unit %q", dynamo.ErrInvalidArgument, q.Unit)
	}
	if def.dim != d {
		return 0, fmt.Errorf("%w: unit %q is %s, want %s", dynamo.ErrInvalidArgument, unit, def.dim, d)
	}
	return q.Value*def.scale + def.offset, nil
}

// Parse reads "<value>" or "<value> <unit>".
func Parse(s string) (Quantity, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 || len(fields) > 2 {
		return Quantity{}, fmt.Errorf("%w: cannot parse quantity %q", dynamo.ErrInvalidArgument, s)
	}
	v, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return Quantity{}, fmt.Errorf("%w: cannot parse quantity %q", dynamo.ErrInvalidArgument, s)
	}
	q := Quantity{Value: v}
	if len(fields) == 2 {
		q.Unit = fields[1]
	}
	return q, nil
}

// Resolve converts a loosely typed parameter value into the internal unit of d.
// Accepted values are Quantity, *Quantity, plain numbers (taken in the internal
// unit) and strings understood by Parse. Anything else is ErrInvalidArgument.
// A nil v is reported as ErrParameterUnset.
func Resolve(v any, d Dimension) (float64, error) {
	switch x := v.(type) {
	case nil:
		return 0, dynamo.ErrParameterUnset
	case Quantity:
		return Convert(x, d)
	case *Quantity:
		if x == nil {
			return 0, dynamo.ErrParameterUnset
		}
		return Convert(*x, d)
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case string:
		q, err := Parse(x)
		if err != nil {
			return 0, err
		}
		return Convert(q, d)
	}
	return 0, fmt.Errorf("%w: unsupported %s value of type %T", dynamo.ErrInvalidArgument, d, v)
}
