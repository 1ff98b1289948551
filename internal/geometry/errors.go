package geometry

import (
	"errors"
	"fmt"
)

// ErrInvalidPolygon is returned for polygons with fewer than 3 distinct vertices
// or without any enclosed area.
var ErrInvalidPolygon = errors.New("invalid polygon")

// PolygonError describes why a polygon was rejected.
// Wraps ErrInvalidPolygon for errors.Is() compatibility.
type PolygonError struct {
	Index  int // Position in the obstacle list, -1 when unknown
	Reason string
}

func (e *PolygonError) Error() string {
	if e == nil {
		return ""
	}
	if e.Index >= 0 {
		return fmt.Sprintf("%s #%d: %s", ErrInvalidPolygon.Error(), e.Index, e.Reason)
	}
	return fmt.Sprintf("%s: %s", ErrInvalidPolygon.Error(), e.Reason)
}

func (e *PolygonError) Unwrap() error { return ErrInvalidPolygon }

// WithIndex returns err annotated with the obstacle position when it is a *PolygonError.
func WithIndex(err error, index int) error {
	var pe *PolygonError
	if errors.As(err, &pe) {
		return &PolygonError{Index: index, Reason: pe.Reason}
	}
	return err
}
