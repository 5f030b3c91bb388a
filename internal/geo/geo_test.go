// internal/geo/geo_test.go
package geo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPointValidate(t *testing.T) {
	require.NoError(t, Point{Lon: -122.5, Lat: 39.5}.Validate())
	require.NoError(t, Point{Lon: 180, Lat: -90}.Validate())
	require.Error(t, Point{Lon: -181, Lat: 0}.Validate())
	require.Error(t, Point{Lon: 0, Lat: 91}.Validate())
}

func TestBBoxValidate(t *testing.T) {
	require.NoError(t, BBox{MinLon: -123, MinLat: 39, MaxLon: -122, MaxLat: 40}.Validate())

	// Inverted boxes are rejected, not silently fixed.
	require.Error(t, BBox{MinLon: -122, MinLat: 39, MaxLon: -123, MaxLat: 40}.Validate())
	require.Error(t, BBox{MinLon: -123, MinLat: 40, MaxLon: -122, MaxLat: 39}.Validate())
	require.Error(t, BBox{MinLon: -123, MinLat: 39, MaxLon: -123, MaxLat: 40}.Validate())
}

func TestPolygonValidate(t *testing.T) {
	b := BBox{MinLon: -123, MinLat: 39, MaxLon: -122, MaxLat: 40}
	require.NoError(t, FromBBox(b).Validate())

	open := Polygon{Ring: []Point{{-123, 39}, {-122, 39}, {-122, 40}, {-123, 40}}}
	require.Error(t, open.Validate())

	degenerate := Polygon{Ring: []Point{{-123, 39}, {-122, 39}, {-121, 39}, {-123, 39}}}
	require.Error(t, degenerate.Validate())

	tooFew := Polygon{Ring: []Point{{-123, 39}, {-122, 39}, {-123, 39}}}
	require.Error(t, tooFew.Validate())
}

func TestPolygonContains(t *testing.T) {
	pg := FromBBox(BBox{MinLon: -123, MinLat: 39, MaxLon: -122, MaxLat: 40})

	require.True(t, pg.Contains(Point{Lon: -122.5, Lat: 39.5}))
	require.False(t, pg.Contains(Point{Lon: -121.9, Lat: 39.5}))
	require.False(t, pg.Contains(Point{Lon: -122.5, Lat: 40.1}))

	// L-shaped ring: the notch is outside even though the bbox contains it.
	l := Polygon{Ring: []Point{
		{0, 0}, {2, 0}, {2, 1}, {1, 1}, {1, 2}, {0, 2}, {0, 0},
	}}
	require.True(t, l.Contains(Point{Lon: 0.5, Lat: 1.5}))
	require.True(t, l.Contains(Point{Lon: 1.5, Lat: 0.5}))
	require.False(t, l.Contains(Point{Lon: 1.5, Lat: 1.5}))
}

func TestPolygonIntersectsBBox(t *testing.T) {
	pg := FromBBox(BBox{MinLon: -123, MinLat: 39, MaxLon: -122, MaxLat: 40})

	require.True(t, pg.IntersectsBBox(BBox{MinLon: -122.5, MinLat: 39.5, MaxLon: -121, MaxLat: 41}))
	require.False(t, pg.IntersectsBBox(BBox{MinLon: -121, MinLat: 39, MaxLon: -120, MaxLat: 40}))

	// Box entirely inside the ring: no vertex containment either way, still
	// an overlap.
	require.True(t, pg.IntersectsBBox(BBox{MinLon: -122.8, MinLat: 39.2, MaxLon: -122.2, MaxLat: 39.8}))

	// Ring entirely inside the box.
	require.True(t, pg.IntersectsBBox(BBox{MinLon: -130, MinLat: 30, MaxLon: -110, MaxLat: 50}))

	// Cross shape: edges cross but no vertex of either lies in the other.
	tall := FromBBox(BBox{MinLon: -122.6, MinLat: 38, MaxLon: -122.4, MaxLat: 41})
	require.True(t, tall.IntersectsBBox(BBox{MinLon: -123.5, MinLat: 39.4, MaxLon: -121.5, MaxLat: 39.6}))
}

func TestGridPoints(t *testing.T) {
	b := BBox{MinLon: 0, MinLat: 0, MaxLon: 10, MaxLat: 10}

	center := GridPoints(b, 1)
	require.Len(t, center, 1)
	require.Equal(t, Point{Lon: 5, Lat: 5}, center[0])

	grid := GridPoints(b, 3)
	require.Len(t, grid, 9)
	// Row-major, south-west first, north-east last, edges inclusive.
	require.Equal(t, Point{Lon: 0, Lat: 0}, grid[0])
	require.Equal(t, Point{Lon: 5, Lat: 0}, grid[1])
	require.Equal(t, Point{Lon: 10, Lat: 10}, grid[8])
}
