package cuboid

import (
	"math"
	"sort"

	"github.com/akmonengine/cuboid/geom"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const DEFAULT_WORKERS = 1

// Config tunes the broad phase and the parallelism of a Space
type Config struct {
	// Side of a grid cell, ideally close to the typical cuboid size
	CellSize float64
	// Number of hashed cells, rounded up to a power of two
	NumCells int
	Workers  int
}

func DefaultConfig() Config {
	return Config{
		CellSize: 1.0,
		NumCells: 1024,
		Workers:  DEFAULT_WORKERS,
	}
}

// Space holds a set of cuboids and answers overlap queries over them.
// It must not be modified while Detect, Query or Validate run.
type Space struct {
	Cuboids     []*geom.Cuboid
	SpatialGrid *SpatialGrid
	Workers     int

	Events Events
	Logger zerolog.Logger
}

// Validate checks that the grid can be built from the configuration
func (cfg Config) Validate() error {
	if math.IsNaN(cfg.CellSize) || math.IsInf(cfg.CellSize, 0) || cfg.CellSize <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "cell size must be a positive finite number, got %v", cfg.CellSize)
	}
	return nil
}

// NewSpace creates an empty space. An invalid cell size is replaced by the default one.
func NewSpace(cfg Config) *Space {
	if cfg.Validate() != nil {
		cfg.CellSize = DefaultConfig().CellSize
	}

	return &Space{
		SpatialGrid: NewSpatialGrid(cfg.CellSize, cfg.NumCells),
		Workers:     max(DEFAULT_WORKERS, cfg.Workers),
		Events:      NewEvents(),
		Logger:      zerolog.Nop(),
	}
}

// Add adds a cuboid to the space
func (s *Space) Add(c *geom.Cuboid) {
	s.Cuboids = append(s.Cuboids, c)
}

// Remove removes a cuboid from the space, with its overlap tracking
func (s *Space) Remove(c *geom.Cuboid) {
	k := -1
	for i, other := range s.Cuboids {
		if other == c {
			k = i
			break
		}
	}

	if k != -1 {
		last := len(s.Cuboids) - 1
		copy(s.Cuboids[k:], s.Cuboids[k+1:])
		// Release the reference kept by the backing array
		s.Cuboids[last] = nil
		s.Cuboids = s.Cuboids[:last]
	}

	s.Events.forget(c)
}

// Detect returns every overlapping pair of the space, ordered by insertion index.
// Overlap events are emitted to the subscribed listeners before it returns.
func (s *Space) Detect() []Pair {
	pairs := s.findPairs()

	s.Events.recordPairs(pairs)
	s.Events.flush()

	s.Logger.Debug().
		Int("cuboids", len(s.Cuboids)).
		Int("pairs", len(pairs)).
		Msg("overlap detection done")

	return pairs
}

func (s *Space) findPairs() []Pair {
	s.SpatialGrid.Clear()
	for i, c := range s.Cuboids {
		s.SpatialGrid.Insert(i, c)
	}
	s.SpatialGrid.SortCells()

	pairs := make([]Pair, 0)
	for p := range s.SpatialGrid.FindPairsParallel(s.Cuboids, s.Workers) {
		pairs = append(pairs, p)
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].indexA != pairs[j].indexA {
			return pairs[i].indexA < pairs[j].indexA
		}
		return pairs[i].indexB < pairs[j].indexB
	})

	return pairs
}

// Query returns the cuboids of the space, other than c itself, sharing a volume with c
func (s *Space) Query(c *geom.Cuboid) []*geom.Cuboid {
	hits := make([]bool, len(s.Cuboids))
	indices := make([]int, len(s.Cuboids))
	for i := range indices {
		indices[i] = i
	}

	task(s.Workers, indices, func(i int) {
		other := s.Cuboids[i]
		hits[i] = other != c && c.Intersects(other)
	})

	var result []*geom.Cuboid
	for i, hit := range hits {
		if hit {
			result = append(result, s.Cuboids[i])
		}
	}
	return result
}

// At returns the cuboids containing the point, boundary included
func (s *Space) At(point geom.Coordinate) []*geom.Cuboid {
	var result []*geom.Cuboid
	for _, c := range s.Cuboids {
		if c.ContainsPoint(point) {
			result = append(result, c)
		}
	}
	return result
}

// Validate checks the space as a layout: every cuboid must be a valid geometry
// and no two cuboids may share a volume. All the problems found are returned
// together as a *multierror.Error.
func (s *Space) Validate() error {
	var errs *multierror.Error

	for i, c := range s.Cuboids {
		if err := c.Validate(); err != nil {
			s.Logger.Warn().Err(err).Int("index", i).Msg("invalid cuboid")
			errs = multierror.Append(errs, errors.Wrapf(err, "cuboid %d", i))
		}
	}
	// Overlaps between undefined geometries are meaningless
	if errs != nil {
		return errs.ErrorOrNil()
	}

	for _, p := range s.findPairs() {
		errs = multierror.Append(errs, &OverlapError{A: p.A, B: p.B})
	}

	return errs.ErrorOrNil()
}
