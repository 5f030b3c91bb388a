// internal/geo/geo.go
package geo

import (
	"fmt"
	"math"
)

// Point is a lon/lat coordinate in WGS84.
type Point struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

func (p Point) Validate() error {
	if math.IsNaN(p.Lon) || math.IsInf(p.Lon, 0) || p.Lon < -180 || p.Lon > 180 {
		return fmt.Errorf("longitude out of range: %v", p.Lon)
	}
	if math.IsNaN(p.Lat) || math.IsInf(p.Lat, 0) || p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("latitude out of range: %v", p.Lat)
	}
	return nil
}

// BBox is [minLon, minLat, maxLon, maxLat].
type BBox struct {
	MinLon float64 `json:"min_lon"`
	MinLat float64 `json:"min_lat"`
	MaxLon float64 `json:"max_lon"`
	MaxLat float64 `json:"max_lat"`
}

func (b BBox) Validate() error {
	if err := (Point{Lon: b.MinLon, Lat: b.MinLat}).Validate(); err != nil {
		return err
	}
	if err := (Point{Lon: b.MaxLon, Lat: b.MaxLat}).Validate(); err != nil {
		return err
	}
	if b.MinLon >= b.MaxLon {
		return fmt.Errorf("min_lon %v must be less than max_lon %v", b.MinLon, b.MaxLon)
	}
	if b.MinLat >= b.MaxLat {
		return fmt.Errorf("min_lat %v must be less than max_lat %v", b.MinLat, b.MaxLat)
	}
	return nil
}

func (b BBox) Contains(p Point) bool {
	return p.Lon >= b.MinLon && p.Lon <= b.MaxLon && p.Lat >= b.MinLat && p.Lat <= b.MaxLat
}

func (b BBox) Intersects(o BBox) bool {
	return b.MinLon <= o.MaxLon && b.MaxLon >= o.MinLon && b.MinLat <= o.MaxLat && b.MaxLat >= o.MinLat
}

// Polygon is a closed ring of lon/lat vertices (first vertex repeated last).
type Polygon struct {
	Ring []Point `json:"ring"`
}

// FromBBox builds a rectangular footprint as a 5-vertex closed ring.
func FromBBox(b BBox) Polygon {
	return Polygon{Ring: []Point{
		{b.MinLon, b.MinLat},
		{b.MaxLon, b.MinLat},
		{b.MaxLon, b.MaxLat},
		{b.MinLon, b.MaxLat},
		{b.MinLon, b.MinLat},
	}}
}

// Validate checks the ring is closed, has at least three distinct vertices,
// and stays inside WGS84 bounds.
func (pg Polygon) Validate() error {
	if len(pg.Ring) < 4 {
		return fmt.Errorf("polygon ring needs at least 4 vertices, got %d", len(pg.Ring))
	}
	first, last := pg.Ring[0], pg.Ring[len(pg.Ring)-1]
	if first != last {
		return fmt.Errorf("polygon ring is not closed")
	}
	for i, v := range pg.Ring {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("vertex %d: %w", i, err)
		}
	}
	// Degenerate ring: all vertices collinear or identical have zero area.
	if math.Abs(pg.signedArea()) == 0 {
		return fmt.Errorf("polygon ring has zero area")
	}
	return nil
}

func (pg Polygon) signedArea() float64 {
	var a float64
	for i := 0; i < len(pg.Ring)-1; i++ {
		p, q := pg.Ring[i], pg.Ring[i+1]
		a += p.Lon*q.Lat - q.Lon*p.Lat
	}
	return a / 2
}

// BBox returns the axis-aligned bounds of the ring.
func (pg Polygon) BBox() BBox {
	b := BBox{MinLon: math.Inf(1), MinLat: math.Inf(1), MaxLon: math.Inf(-1), MaxLat: math.Inf(-1)}
	for _, v := range pg.Ring {
		b.MinLon = math.Min(b.MinLon, v.Lon)
		b.MinLat = math.Min(b.MinLat, v.Lat)
		b.MaxLon = math.Max(b.MaxLon, v.Lon)
		b.MaxLat = math.Max(b.MaxLat, v.Lat)
	}
	return b
}

// Contains reports whether the point lies inside the ring, using even-odd
// ray casting. Points on the right/top edge of a rectangular ring may be
// reported outside; callers sampling grids should avoid exact-edge points.
func (pg Polygon) Contains(p Point) bool {
	if !pg.BBox().Contains(p) {
		return false
	}
	inside := false
	for i := 0; i < len(pg.Ring)-1; i++ {
		a, b := pg.Ring[i], pg.Ring[i+1]
		if (a.Lat > p.Lat) != (b.Lat > p.Lat) {
			x := a.Lon + (p.Lat-a.Lat)/(b.Lat-a.Lat)*(b.Lon-a.Lon)
			if p.Lon < x {
				inside = !inside
			}
		}
	}
	return inside
}

// IntersectsBBox reports whether the ring and the box overlap.
func (pg Polygon) IntersectsBBox(b BBox) bool {
	if !pg.BBox().Intersects(b) {
		return false
	}
	for _, v := range pg.Ring {
		if b.Contains(v) {
			return true
		}
	}
	corners := []Point{
		{b.MinLon, b.MinLat}, {b.MaxLon, b.MinLat},
		{b.MaxLon, b.MaxLat}, {b.MinLon, b.MaxLat},
	}
	for _, c := range corners {
		if pg.Contains(c) {
			return true
		}
	}
	// Edge crossings without any contained vertex (e.g. a cross shape).
	edges := [][2]Point{
		{corners[0], corners[1]}, {corners[1], corners[2]},
		{corners[2], corners[3]}, {corners[3], corners[0]},
	}
	for i := 0; i < len(pg.Ring)-1; i++ {
		for _, e := range edges {
			if segmentsCross(pg.Ring[i], pg.Ring[i+1], e[0], e[1]) {
				return true
			}
		}
	}
	return false
}

func segmentsCross(a, b, c, d Point) bool {
	o1 := orientation(a, b, c)
	o2 := orientation(a, b, d)
	o3 := orientation(c, d, a)
	o4 := orientation(c, d, b)
	return o1*o2 < 0 && o3*o4 < 0
}

func orientation(a, b, c Point) float64 {
	return (b.Lon-a.Lon)*(c.Lat-a.Lat) - (b.Lat-a.Lat)*(c.Lon-a.Lon)
}

// GridPoints returns an n x n sample grid over the box, inclusive of the
// edges, in row-major order (south to north, west to east). n == 1 yields
// the box center.
func GridPoints(b BBox, n int) []Point {
	if n < 1 {
		n = 1
	}
	if n == 1 {
		return []Point{{Lon: (b.MinLon + b.MaxLon) / 2, Lat: (b.MinLat + b.MaxLat) / 2}}
	}
	pts := make([]Point, 0, n*n)
	for i := 0; i < n; i++ {
		lat := b.MinLat + (b.MaxLat-b.MinLat)*float64(i)/float64(n-1)
		for j := 0; j < n; j++ {
			lon := b.MinLon + (b.MaxLon-b.MinLon)*float64(j)/float64(n-1)
			pts = append(pts, Point{Lon: lon, Lat: lat})
		}
	}
	return pts
}
