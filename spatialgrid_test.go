package cuboid

import (
	"sort"
	"testing"

	"github.com/akmonengine/cuboid/geom"
	"github.com/go-gl/mathgl/mgl64"
)

func TestNextPowerOfTwo(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{-1, 1}, {0, 1}, {1, 1}, {2, 2}, {3, 4}, {16, 16}, {17, 32}, {1000, 1024},
	}

	for _, tt := range tests {
		if got := nextPowerOfTwo(tt.in); got != tt.want {
			t.Errorf("nextPowerOfTwo(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestWorldToCell(t *testing.T) {
	grid := NewSpatialGrid(1.0, 16)

	tests := []struct {
		name     string
		position mgl64.Vec3
		expected CellKey
	}{
		{"origin", mgl64.Vec3{0, 0, 0}, CellKey{0, 0, 0}},
		{"positive", mgl64.Vec3{1.5, 2.3, 3.7}, CellKey{1, 2, 3}},
		{"negative", mgl64.Vec3{-1.5, -2.3, -3.7}, CellKey{-2, -3, -4}},
		{"fractional", mgl64.Vec3{0.5, 0.5, 0.5}, CellKey{0, 0, 0}},
		{"large", mgl64.Vec3{100.7, -200.3, 50.1}, CellKey{100, -201, 50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := grid.worldToCell(tt.position)
			if result != tt.expected {
				t.Errorf("worldToCell(%v) = %v, want %v", tt.position, result, tt.expected)
			}
		})
	}
}

func TestHashCell(t *testing.T) {
	grid := NewSpatialGrid(1.0, 16) // mask = 15

	tests := []struct {
		name     string
		key      CellKey
		expected int
	}{
		{"origin", CellKey{0, 0, 0}, 0},
		{"simple", CellKey{1, 2, 3}, 6},
		{"negative", CellKey{-1, -2, -3}, 10},
		{"large", CellKey{100, 200, 300}, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := grid.hashCell(tt.key)
			if result < 0 || result >= len(grid.cells) {
				t.Errorf("hashCell(%v) = %d, out of range [0, %d)", tt.key, result, len(grid.cells))
			}
			if result != tt.expected {
				t.Errorf("hashCell(%v) = %d, want %d", tt.key, result, tt.expected)
			}
		})
	}
}

func cellContains(grid *SpatialGrid, c *geom.Cuboid, index int) bool {
	found := false
	grid.forEachCell(c, func(cellIdx int) {
		for _, idx := range grid.cells[cellIdx].indices {
			if idx == index {
				found = true
			}
		}
	})
	return found
}

func TestInsert(t *testing.T) {
	grid := NewSpatialGrid(1.0, 16)
	cuboids := []*geom.Cuboid{
		geom.New([3]float64{1, 1, 1}, 0.5, 0.5, 0.5),
		geom.New([3]float64{2, 2, 2}, 2, 2, 2),
		geom.New([3]float64{-3, -3, -3}, 0.5, 0.5, 0.5),
	}

	for i, c := range cuboids {
		grid.Insert(i, c)
	}

	for i, c := range cuboids {
		if !cellContains(grid, c, i) {
			t.Errorf("Cuboid %d not found in any cell after insertion", i)
		}
	}
}

func TestClear(t *testing.T) {
	grid := NewSpatialGrid(1.0, 16)
	grid.Insert(0, geom.New([3]float64{1, 1, 1}, 1, 1, 1))
	grid.Insert(1, geom.New([3]float64{2, 2, 2}, 1, 1, 1))

	grid.Clear()

	for _, cell := range grid.cells {
		if len(cell.indices) != 0 {
			t.Error("Cells should be empty after clear")
		}
	}
}

func TestSortCells(t *testing.T) {
	grid := NewSpatialGrid(1.0, 16)

	grid.cells[0].indices = append(grid.cells[0].indices, 5, 2, 8, 1, 9, 3)
	grid.SortCells()

	if !sort.IntsAreSorted(grid.cells[0].indices) {
		t.Error("Cell indices should be sorted")
	}
}

func findAll(grid *SpatialGrid, cuboids []*geom.Cuboid, workers int) []Pair {
	grid.Clear()
	for i, c := range cuboids {
		grid.Insert(i, c)
	}
	grid.SortCells()

	pairs := make([]Pair, 0)
	for pair := range grid.FindPairsParallel(cuboids, workers) {
		pairs = append(pairs, pair)
	}
	return pairs
}

func TestFindPairsParallelNoOverlap(t *testing.T) {
	grid := NewSpatialGrid(1.0, 16)
	cuboids := []*geom.Cuboid{
		geom.New([3]float64{0, 0, 0}, 1, 1, 1),
		geom.New([3]float64{10, 10, 10}, 1, 1, 1),
	}

	if pairs := findAll(grid, cuboids, 2); len(pairs) != 0 {
		t.Errorf("Expected 0 pairs, got %d", len(pairs))
	}
}

func TestFindPairsParallelTouching(t *testing.T) {
	grid := NewSpatialGrid(1.0, 16)
	cuboids := []*geom.Cuboid{
		geom.New([3]float64{0, 0, 0}, 5, 5, 5),
		geom.New([3]float64{5, 5, 5}, 3, 5, 4),
		geom.New([3]float64{5, 0, 0}, 5, 5, 5),
	}

	if pairs := findAll(grid, cuboids, 2); len(pairs) != 0 {
		t.Errorf("Touching cuboids should not be paired, got %d pairs", len(pairs))
	}
}

func TestFindPairsParallelWithOverlap(t *testing.T) {
	grid := NewSpatialGrid(1.0, 16)
	cuboids := []*geom.Cuboid{
		geom.New([3]float64{0, 0, 0}, 5, 5, 5),
		geom.New([3]float64{3, 2, 4}, 3, 2, 4),
	}

	pairs := findAll(grid, cuboids, 2)
	if len(pairs) != 1 {
		t.Fatalf("Expected 1 pair, got %d", len(pairs))
	}
	if pairs[0].A != cuboids[0] || pairs[0].B != cuboids[1] {
		t.Error("Pair should hold the lower index first")
	}
}

func TestFindPairsMatchesBruteForce(t *testing.T) {
	// Small grid with a few cells, collisions of hashes are frequent
	grid := NewSpatialGrid(1.5, 8)

	var cuboids []*geom.Cuboid
	for x := 0; x < 4; x++ {
		for y := 0; y < 3; y++ {
			for z := 0; z < 3; z++ {
				cuboids = append(cuboids, geom.New(
					[3]float64{float64(x) * 1.5, float64(y) * 2, float64(z)},
					float64(1+(x+y)%3),
					float64(1+z%2),
					float64(1+(y+z)%2),
				))
			}
		}
	}

	want := 0
	for i := range cuboids {
		for j := i + 1; j < len(cuboids); j++ {
			if cuboids[i].Intersects(cuboids[j]) {
				want++
			}
		}
	}

	for _, workers := range []int{1, 3, 8} {
		if pairs := findAll(grid, cuboids, workers); len(pairs) != want {
			t.Errorf("workers=%d: FindPairsParallel found %d pairs, want %d", workers, len(pairs), want)
		}
	}

	if pairs := grid.FindPairs(cuboids); len(pairs) != want {
		t.Errorf("FindPairs found %d pairs, want %d", len(pairs), want)
	}
}

func TestFindPairsParallelMoreWorkersThanCuboids(t *testing.T) {
	grid := NewSpatialGrid(1.0, 16)
	cuboids := []*geom.Cuboid{
		geom.New([3]float64{0, 0, 0}, 2, 2, 2),
		geom.New([3]float64{1, 1, 1}, 2, 2, 2),
	}

	if pairs := findAll(grid, cuboids, 16); len(pairs) != 1 {
		t.Errorf("Expected 1 pair, got %d", len(pairs))
	}
}

func TestInsertNoDuplicateIndex(t *testing.T) {
	grid := NewSpatialGrid(1.0, 16)
	// 1000 cells, more than the 16 buckets
	grid.Insert(0, geom.New([3]float64{0, 0, 0}, 9.5, 9.5, 9.5))
	// 12 cells, several of them sharing a bucket
	grid.Insert(1, geom.New([3]float64{0, 0, 0}, 1.5, 2.5, 1.5))
	grid.Insert(2, geom.New([3]float64{-3, 4, 7}, 1.5, 2.5, 1.5))

	for i, cell := range grid.cells {
		seen := make(map[int]bool)
		for _, idx := range cell.indices {
			if seen[idx] {
				t.Errorf("bucket %d holds index %d more than once: %v", i, idx, cell.indices)
			}
			seen[idx] = true
		}
	}
}

func TestForEachCellLargeCuboid(t *testing.T) {
	grid := NewSpatialGrid(1.0, 16)

	visits := make(map[int]int)
	grid.forEachCell(geom.New([3]float64{0, 0, 0}, 300, 300, 300), func(cellIdx int) {
		visits[cellIdx]++
	})

	if len(visits) != len(grid.cells) {
		t.Errorf("Expected every bucket to be visited, got %d of %d", len(visits), len(grid.cells))
	}
	for idx, n := range visits {
		if n != 1 {
			t.Errorf("bucket %d visited %d times", idx, n)
		}
	}
}

func TestFindPairsLargeCuboid(t *testing.T) {
	grid := NewSpatialGrid(1.0, 1024)
	cuboids := []*geom.Cuboid{
		geom.New([3]float64{0, 0, 0}, 2000, 2000, 2000),
		geom.New([3]float64{10, 10, 10}, 1, 1, 1),
		geom.New([3]float64{-5, -5, -5}, 1, 1, 1),
		geom.New([3]float64{1999.5, 0, 0}, 1, 1, 1),
	}

	pairs := findAll(grid, cuboids, 2)
	if len(pairs) != 2 {
		t.Fatalf("Expected 2 pairs, got %d", len(pairs))
	}
	if seq := grid.FindPairs(cuboids); len(seq) != 2 {
		t.Errorf("FindPairs found %d pairs, want 2", len(seq))
	}
}
