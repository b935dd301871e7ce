package cuboid

import (
	"math"
	"sort"
	"sync"

	"github.com/akmonengine/cuboid/geom"
	"github.com/go-gl/mathgl/mgl64"
)

// ============================================================================
// Types
// ============================================================================

// CellKey is the integer coordinate of a grid cell
type CellKey struct {
	X, Y, Z int
}

// Cell holds the indices of the cuboids covering it
type Cell struct {
	indices []int
}

// Pair is two cuboids sharing a volume, A has the lower index
type Pair struct {
	A *geom.Cuboid
	B *geom.Cuboid

	indexA, indexB int
}

// SpatialGrid is a uniform hashed grid used as broad phase
type SpatialGrid struct {
	cellSize float64
	cells    []Cell
	cellMask int
}

// ============================================================================
// Constructor
// ============================================================================

// NewSpatialGrid creates a grid of cubic cells of side cellSize.
// numCells is rounded up to the next power of two.
func NewSpatialGrid(cellSize float64, numCells int) *SpatialGrid {
	numCells = nextPowerOfTwo(numCells)

	cells := make([]Cell, numCells)
	for i := range cells {
		cells[i].indices = make([]int, 0, 8)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cells:    cells,
		cellMask: numCells - 1,
	}
}

func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n++
	return n
}

// Insert adds a cuboid index to every cell its bounds cover, at most once per bucket
func (sg *SpatialGrid) Insert(index int, c *geom.Cuboid) {
	sg.forEachCell(c, func(cellIdx int) {
		indices := sg.cells[cellIdx].indices
		// Cells of one cuboid are inserted in a row, a bucket already holding
		// this index has it last
		if n := len(indices); n > 0 && indices[n-1] == index {
			return
		}
		sg.cells[cellIdx].indices = append(indices, index)
	})
}

func (sg *SpatialGrid) Clear() {
	for i := range sg.cells {
		sg.cells[i].indices = sg.cells[i].indices[:0]
	}
}

func (sg *SpatialGrid) SortCells() {
	for i := range sg.cells {
		if len(sg.cells[i].indices) > 1 {
			sort.Ints(sg.cells[i].indices)
		}
	}
}

// FindPairs returns every intersecting pair, sequentially
func (sg *SpatialGrid) FindPairs(cuboids []*geom.Cuboid) []Pair {
	pairs := make([]Pair, 0, len(cuboids)/2)
	seen := make([]bool, len(cuboids))

	for idx := range cuboids {
		clear(seen)
		sg.pairsOf(cuboids, idx, seen, func(p Pair) {
			pairs = append(pairs, p)
		})
	}

	return pairs
}

// FindPairsParallel splits the cuboids between workers and streams the
// intersecting pairs. The channel is closed once every worker is done.
func (sg *SpatialGrid) FindPairsParallel(cuboids []*geom.Cuboid, numWorkers int) <-chan Pair {
	numWorkers = max(1, numWorkers)

	var wg sync.WaitGroup
	pairsChan := make(chan Pair, numWorkers*10)

	perWorker := len(cuboids) / numWorkers
	if perWorker == 0 {
		perWorker = 1
	}

	for w := 0; w < numWorkers; w++ {
		startIdx := w * perWorker
		if startIdx >= len(cuboids) {
			break
		}
		endIdx := startIdx + perWorker
		if w == numWorkers-1 || endIdx > len(cuboids) {
			endIdx = len(cuboids)
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()

			seen := make([]bool, len(cuboids))
			for idx := start; idx < end; idx++ {
				clear(seen)
				sg.pairsOf(cuboids, idx, seen, func(p Pair) {
					pairsChan <- p
				})
			}
		}(startIdx, endIdx)
	}

	go func() {
		wg.Wait()
		close(pairsChan)
	}()

	return pairsChan
}

// pairsOf emits the pairs (idx, other) with other > idx found in the cells covered by cuboids[idx]
func (sg *SpatialGrid) pairsOf(cuboids []*geom.Cuboid, idx int, seen []bool, emit func(Pair)) {
	a := cuboids[idx]
	boundsA := a.Bounds()

	sg.forEachCell(a, func(cellIdx int) {
		for _, otherIdx := range sg.cells[cellIdx].indices {
			// Avoid (A,B) and (B,A), and the same pair found in several cells
			if otherIdx <= idx || seen[otherIdx] {
				continue
			}
			seen[otherIdx] = true

			b := cuboids[otherIdx]
			if !boundsA.Overlaps(b.Bounds()) {
				continue
			}
			if a.Intersects(b) {
				emit(Pair{A: a, B: b, indexA: idx, indexB: otherIdx})
			}
		}
	})
}

// forEachCell calls fn with the bucket of every cell covered by the bounds of c.
// When c covers more cells than there are buckets, each bucket is visited once instead.
func (sg *SpatialGrid) forEachCell(c *geom.Cuboid, fn func(cellIdx int)) {
	bounds := c.Bounds()
	minCell := sg.worldToCell(bounds.Min)
	maxCell := sg.worldToCell(bounds.Max)

	nx := float64(maxCell.X) - float64(minCell.X) + 1
	ny := float64(maxCell.Y) - float64(minCell.Y) + 1
	nz := float64(maxCell.Z) - float64(minCell.Z) + 1
	if nx*ny*nz >= float64(len(sg.cells)) {
		for i := range sg.cells {
			fn(i)
		}
		return
	}

	for dx := 0; dx < int(nx); dx++ {
		for dy := 0; dy < int(ny); dy++ {
			for dz := 0; dz < int(nz); dz++ {
				fn(sg.hashCell(CellKey{minCell.X + dx, minCell.Y + dy, minCell.Z + dz}))
			}
		}
	}
}

// worldToCell converts a world position into cell coordinates
func (sg *SpatialGrid) worldToCell(pos mgl64.Vec3) CellKey {
	return CellKey{
		X: int(math.Floor(pos.X() / sg.cellSize)),
		Y: int(math.Floor(pos.Y() / sg.cellSize)),
		Z: int(math.Floor(pos.Z() / sg.cellSize)),
	}
}

// hashCell maps a cell to an index in the cells array
func (sg *SpatialGrid) hashCell(key CellKey) int {
	h := (key.X * 73856093) ^ (key.Y * 19349663) ^ (key.Z * 83492791)
	return h & sg.cellMask
}
