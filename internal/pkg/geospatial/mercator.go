package geospatial

import (
	"math"
	"strconv"
	"strings"

	"github.com/samirrijal/c2cexplorer/internal/core/domain"
)

// EarthRadius is the sphere radius of EPSG:3857, in meters.
const EarthRadius = 6378137.0

// ProjectWebMercator projects a WGS 84 point onto spherical Web Mercator (EPSG:3857).
func ProjectWebMercator(lon, lat float64) (x, y float64) {
	lambda := toRad(lon)
	phi := toRad(lat)

	x = EarthRadius * lambda
	y = EarthRadius * math.Log(math.Tan(math.Pi/4+phi/2))
	return x, y
}

// ProjectedBBox returns the bounds as "minx,miny,maxx,maxy" in EPSG:3857.
func ProjectedBBox(b domain.Bounds) string {
	minX, minY := ProjectWebMercator(b.MinLon, b.MinLat)
	maxX, maxY := ProjectWebMercator(b.MaxLon, b.MaxLat)

	coords := []string{
		formatCoord(minX),
		formatCoord(minY),
		formatCoord(maxX),
		formatCoord(maxY),
	}
	return strings.Join(coords, ",")
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
