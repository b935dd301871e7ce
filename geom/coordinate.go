package geom

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Coordinate represents a point in 3D space
// y is the vertical axis
type Coordinate struct {
	X, Y, Z float64
}

// NewCoordinate creates a coordinate from its three components
func NewCoordinate(x, y, z float64) Coordinate {
	return Coordinate{X: x, Y: y, Z: z}
}

// CoordinateFromVec3 converts a mgl64 vector into a coordinate
func CoordinateFromVec3(v mgl64.Vec3) Coordinate {
	return Coordinate{X: v.X(), Y: v.Y(), Z: v.Z()}
}

// Equals checks if all three components are equal
func (c Coordinate) Equals(other Coordinate) bool {
	return c.X == other.X && c.Y == other.Y && c.Z == other.Z
}

// Add returns a new coordinate translated by (dx, dy, dz)
func (c Coordinate) Add(dx, dy, dz float64) Coordinate {
	return CoordinateFromVec3(c.Vec3().Add(mgl64.Vec3{dx, dy, dz}))
}

func (c Coordinate) Vec3() mgl64.Vec3 {
	return mgl64.Vec3{c.X, c.Y, c.Z}
}

func (c Coordinate) Array() [3]float64 {
	return [3]float64{c.X, c.Y, c.Z}
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%v, %v, %v)", c.X, c.Y, c.Z)
}
