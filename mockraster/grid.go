package mockraster

import (
	"image"
	"image/draw"
	"math"
)

// DefaultCacheSize bounds a pattern cache created without an explicit
// capacity.
const DefaultCacheSize = 8

// CacheStats reports pattern cache effectiveness.
type CacheStats struct {
	Hits   uint64
	Misses uint64
}

// PatternCache memoizes minor-grid tiles keyed by their pixel pitch,
// which quantizes the render scale. Tiling geometry is a pure function
// of scale, so entries never need invalidation; the cache only evicts,
// oldest first, when over capacity.
//
// A PatternCache is owned by the renderers it is injected into and
// shares their single-threaded discipline.
type PatternCache struct {
	capacity int
	tiles    map[int]*image.RGBA
	order    []int
	stats    CacheStats
}

// NewPatternCache returns a cache holding up to capacity tiles.
// Non-positive capacities fall back to DefaultCacheSize.
func NewPatternCache(capacity int) *PatternCache {
	if capacity <= 0 {
		capacity = DefaultCacheSize
	}
	return &PatternCache{
		capacity: capacity,
		tiles:    make(map[int]*image.RGBA, capacity),
	}
}

// tile returns the minor-grid tile for the given pixel pitch, building
// and memoizing it on first use. hit reports whether the tile was
// already cached.
func (c *PatternCache) tile(pitch int) (img *image.RGBA, hit bool) {
	if t, ok := c.tiles[pitch]; ok {
		c.stats.Hits++
		return t, true
	}
	c.stats.Misses++

	t := newGridTile(pitch)
	if len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.tiles, oldest)
	}
	c.tiles[pitch] = t
	c.order = append(c.order, pitch)
	return t, false
}

// Stats returns the hit and miss counters.
func (c *PatternCache) Stats() CacheStats { return c.stats }

// Len reports how many tiles the cache currently holds.
func (c *PatternCache) Len() int { return len(c.tiles) }

// newGridTile builds one minor-grid cell: a transparent pitch by pitch
// square with a one-pixel line along its top and left sides, so tiling
// it over the piece produces the full minor grid.
func newGridTile(pitch int) *image.RGBA {
	t := image.NewRGBA(image.Rect(0, 0, pitch, pitch))
	for x := 0; x < pitch; x++ {
		t.Set(x, 0, gridMinorColor)
	}
	for y := 0; y < pitch; y++ {
		t.Set(0, y, gridMinorColor)
	}
	return t
}

// drawGrid tiles the minor grid over the piece rectangle and strokes
// the major inch lines on top, clipped to the rectangle. Pitches under
// two pixels would degenerate into solid fill and are skipped.
func (rd *Renderer) drawGrid(piece rect, scale float64) {
	region := image.Rect(
		int(math.Round(piece.x)), int(math.Round(piece.y)),
		int(math.Round(piece.x+piece.w)), int(math.Round(piece.y+piece.h)),
	)

	pitch := int(math.Round(minorGridInches * scale))
	switch {
	case pitch < 2:
		// degenerate tiling, skip the minor grid
	case pitch > region.Dx() || pitch > region.Dy():
		// the piece box spans less than one minor cell, so a tile
		// would be larger than the box itself; stroke the few minor
		// lines that fit directly instead of building one
		minor := minorGridInches * scale
		var segs []line
		for gx := piece.x + minor; gx < piece.x+piece.w-0.5; gx += minor {
			segs = append(segs, line{gx, piece.y, gx, piece.y + piece.h})
		}
		for gy := piece.y + minor; gy < piece.y+piece.h-0.5; gy += minor {
			segs = append(segs, line{piece.x, gy, piece.x + piece.w, gy})
		}
		rd.strokeLines(segs, gridMinorWidth, gridMinorColor)
	default:
		t, hit := rd.cache.tile(pitch)
		rd.stats.GridCacheHit = hit
		for y := region.Min.Y; y < region.Max.Y; y += pitch {
			for x := region.Min.X; x < region.Max.X; x += pitch {
				dst := image.Rect(x, y, x+pitch, y+pitch).Intersect(region)
				draw.Draw(rd.img, dst, t, image.Point{}, draw.Over)
			}
		}
	}

	major := majorGridInches * scale
	if major < 2 {
		return
	}
	var segs []line
	for gx := piece.x + major; gx < piece.x+piece.w-0.5; gx += major {
		segs = append(segs, line{gx, piece.y, gx, piece.y + piece.h})
	}
	for gy := piece.y + major; gy < piece.y+piece.h-0.5; gy += major {
		segs = append(segs, line{piece.x, gy, piece.x + piece.w, gy})
	}
	rd.strokeLines(segs, gridMajorWidth, gridMajorColor)
}
