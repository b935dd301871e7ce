package geom

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// Cuboid is an axis-aligned box growing from Origin in the positive direction
// Length is the size on the x axis, Width on the z axis, Height on the y axis
type Cuboid struct {
	Origin Coordinate
	Length float64
	Width  float64
	Height float64
}

// New creates a cuboid from an origin [x, y, z] and its extents.
// No validation is done, see Validate.
func New(origin [3]float64, length, width, height float64) *Cuboid {
	return &Cuboid{
		Origin: NewCoordinate(origin[0], origin[1], origin[2]),
		Length: length,
		Width:  width,
		Height: height,
	}
}

// FromSlice creates a validated cuboid from an origin sequence [x, y, z]
func FromSlice(origin []float64, length, width, height float64) (*Cuboid, error) {
	if len(origin) != 3 {
		return nil, errors.Wrapf(ErrInvalidGeometry, "origin has %d components, expected 3", len(origin))
	}

	c := New([3]float64{origin[0], origin[1], origin[2]}, length, width, height)
	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// Validate checks that the cuboid has a finite origin and non negative, finite extents
func (c *Cuboid) Validate() error {
	for i, v := range c.Origin.Array() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Wrapf(ErrInvalidGeometry, "origin component %d is %v", i, v)
		}
	}

	extents := []struct {
		name  string
		value float64
	}{
		{"length", c.Length},
		{"width", c.Width},
		{"height", c.Height},
	}
	for _, e := range extents {
		if math.IsNaN(e.value) || math.IsInf(e.value, 0) {
			return errors.Wrapf(ErrInvalidGeometry, "%s is %v", e.name, e.value)
		}
		if e.value < 0 {
			return errors.Wrapf(ErrInvalidGeometry, "%s is negative (%v)", e.name, e.value)
		}
	}

	return nil
}

// MoveTo moves the cuboid origin to (x, y, z) in place and returns the same cuboid
func (c *Cuboid) MoveTo(x, y, z float64) *Cuboid {
	c.Origin = NewCoordinate(x, y, z)
	return c
}

// Moved returns a copy of the cuboid with its origin at (x, y, z).
// The receiver is left untouched.
func (c *Cuboid) Moved(x, y, z float64) *Cuboid {
	dup := *c
	return dup.MoveTo(x, y, z)
}

// Vertices returns the 8 corners of the cuboid, v0 being the origin:
//
//	v1 = v0 + length on x    v5 = v0 + height on y
//	v2 = v1 + width on z     v6 = v5 + length on x
//	v3 = v0 + width on z     v7 = v6 + width on z
//	v4 = v3 + height on y
func (c *Cuboid) Vertices() [8]Coordinate {
	v0 := c.Origin
	v1 := v0.Add(c.Length, 0, 0)
	v2 := v1.Add(0, 0, c.Width)
	v3 := v0.Add(0, 0, c.Width)
	v4 := v3.Add(0, c.Height, 0)
	v5 := v0.Add(0, c.Height, 0)
	v6 := v5.Add(c.Length, 0, 0)
	v7 := v6.Add(0, 0, c.Width)

	return [8]Coordinate{v0, v1, v2, v3, v4, v5, v6, v7}
}

// axes returns the spans of the cuboid on x, y and z
func (c *Cuboid) axes() (x, y, z Interval) {
	v := c.Vertices()
	// One edge per axis is enough, the box is axis aligned
	x = NewInterval(v[0].X, v[1].X)
	z = NewInterval(v[1].Z, v[2].Z)
	y = NewInterval(v[2].Y, v[7].Y)
	return x, y, z
}

// Intersects checks if two cuboids share a volume.
// Cuboids touching by a face, an edge or a vertex do not intersect.
func (c *Cuboid) Intersects(other *Cuboid) bool {
	x1, y1, z1 := c.axes()
	x2, y2, z2 := other.axes()

	return x1.Overlaps(x2) && z1.Overlaps(z2) && y1.Overlaps(y2)
}

// Bounds returns the axis-aligned bounding box of the cuboid
func (c *Cuboid) Bounds() AABB {
	x, y, z := c.axes()
	return AABB{
		Min: mgl64.Vec3{x.Min(), y.Min(), z.Min()},
		Max: mgl64.Vec3{x.Max(), y.Max(), z.Max()},
	}
}

// ContainsPoint checks if a point lies inside the cuboid or on its boundary
func (c *Cuboid) ContainsPoint(point Coordinate) bool {
	return c.Bounds().ContainsPoint(point.Vec3())
}

func (c *Cuboid) String() string {
	return fmt.Sprintf("Cuboid{origin: %s, length: %v, width: %v, height: %v}", c.Origin, c.Length, c.Width, c.Height)
}
