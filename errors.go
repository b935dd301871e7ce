package cuboid

import (
	"fmt"

	"github.com/akmonengine/cuboid/geom"
	"github.com/pkg/errors"
)

// ErrInvalidConfig is returned when a Config cannot build a working grid
var ErrInvalidConfig = errors.New("invalid configuration")

// ErrOverlap is wrapped by every OverlapError
var ErrOverlap = errors.New("cuboids overlap")

// OverlapError reports two cuboids of a layout sharing a volume
type OverlapError struct {
	A, B *geom.Cuboid
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("%s: %s and %s", ErrOverlap, e.A, e.B)
}

func (e *OverlapError) Unwrap() error {
	return ErrOverlap
}
