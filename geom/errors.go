package geom

import "github.com/pkg/errors"

// ErrInvalidGeometry is returned when a cuboid cannot describe a volume:
// negative or non finite extents, non finite origin, malformed origin sequence
var ErrInvalidGeometry = errors.New("invalid geometry")
