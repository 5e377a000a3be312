package request

import (
	"errors"
	"fmt"
)

// ErrValidation matches every request validation failure via errors.Is,
// including the latitude and longitude specializations.
var ErrValidation = errors.New("invalid request parameter")

// ValidationError reports malformed or out-of-range request input.
// Field names the request parameter that was rejected.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// LatitudeError reports a bounding box whose latitudes are out of order or
// outside [-90, 90].
type LatitudeError struct {
	North float64
	South float64
}

func (e *LatitudeError) Error() string {
	return fmt.Sprintf("area: north (%v) must be >= south (%v) and both within [-90, 90]", e.North, e.South)
}

func (e *LatitudeError) Is(target error) bool { return target == ErrValidation }

// LongitudeError reports a bounding box whose longitudes are out of order or
// outside [-180, 180].
type LongitudeError struct {
	West float64
	East float64
}

func (e *LongitudeError) Error() string {
	return fmt.Sprintf("area: east (%v) must be >= west (%v) and both within [-180, 180]", e.East, e.West)
}

func (e *LongitudeError) Is(target error) bool { return target == ErrValidation }
