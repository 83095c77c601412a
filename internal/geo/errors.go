package geo

import "fmt"

// LocationError reports a latitude, longitude, or UTM band value outside its
// valid numeric range. The failed operation is never retried.
type LocationError struct {
	Field  string  // Field is the offending component: "latitude" or "longitude".
	Value  float64 // Value is the rejected number.
	Reason string  // Reason describes the violated constraint.
}

func (e *LocationError) Error() string {
	return fmt.Sprintf("invalid location: %s %v: %s", e.Field, e.Value, e.Reason)
}

// MalformedInputError reports text that does not match the expected grammar
// for a given coordinate format. It carries the offending input for diagnostics.
type MalformedInputError struct {
	Format Format // Format is the grammar that was expected.
	Input  string // Input is the offending token or segment.
	Reason string // Reason describes the violated grammar rule.
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed %s input %q: %s", e.Format, e.Input, e.Reason)
}

// ExpectationMismatchError reports structurally valid input carrying a
// semantically unsupported value, such as an SRID other than 4326 or a
// geometry type other than the one required.
type ExpectationMismatchError struct {
	Expected string // Expected is the supported value.
	Got      string // Got is the value found in the input.
}

func (e *ExpectationMismatchError) Error() string {
	return fmt.Sprintf("expected %s, got %s", e.Expected, e.Got)
}

// malformed is a shorthand constructor used by the parse functions.
func malformed(format Format, input, reason string) error {
	return &MalformedInputError{Format: format, Input: input, Reason: reason}
}
