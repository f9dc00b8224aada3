package utils

import (
	"fmt"
)

type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Bounds struct {
	Northeast Point `json:"northeast"`
	Southwest Point `json:"southwest"`
}

type Polygon []Point

func (p Point) String() string {
	return fmt.Sprintf("%.6f,%.6f", p.Lat, p.Lng)
}

func IsValidCoordinates(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

func CalculateCenter(points []Point) Point {
	if len(points) == 0 {
		return Point{}
	}

	var totalLat, totalLng float64
	for _, point := range points {
		totalLat += point.Lat
		totalLng += point.Lng
	}

	return Point{
		Lat: totalLat / float64(len(points)),
		Lng: totalLng / float64(len(points)),
	}
}

func CalculateBounds(points []Point) *Bounds {
	if len(points) == 0 {
		return nil
	}

	minLat, maxLat := points[0].Lat, points[0].Lat
	minLng, maxLng := points[0].Lng, points[0].Lng

	for _, point := range points {
		if point.Lat < minLat {
			minLat = point.Lat
		}
		if point.Lat > maxLat {
			maxLat = point.Lat
		}
		if point.Lng < minLng {
			minLng = point.Lng
		}
		if point.Lng > maxLng {
			maxLng = point.Lng
		}
	}

	return &Bounds{
		Northeast: Point{Lat: maxLat, Lng: maxLng},
		Southwest: Point{Lat: minLat, Lng: minLng},
	}
}

// IsPointInCircle reports whether point lies within radiusMeters of center.
// A point exactly on the boundary counts as inside.
func IsPointInCircle(point Point, center Point, radiusMeters float64) bool {
	distance := CalculateDistanceMeters(center.Lat, center.Lng, point.Lat, point.Lng)
	return distance <= radiusMeters
}

// IsPointInPolygon runs a ray-casting test over the vertex list treated as a
// closed ring. Planar approximation: fine at geofence scale, degrades near the
// poles and the antimeridian. Fewer than 3 vertices is never inside.
func IsPointInPolygon(point Point, polygon Polygon) bool {
	if len(polygon) < 3 {
		return false
	}

	x, y := point.Lng, point.Lat
	inside := false

	j := len(polygon) - 1
	for i := 0; i < len(polygon); i++ {
		p1x, p1y := polygon[i].Lng, polygon[i].Lat
		p2x, p2y := polygon[j].Lng, polygon[j].Lat
		j = i

		if p1y == p2y {
			continue // horizontal edge, no crossing
		}
		if (y > p1y) == (y > p2y) {
			continue // latitude outside the edge's span
		}

		xinters := (y-p1y)/(p2y-p1y)*(p2x-p1x) + p1x
		if xinters > x {
			inside = !inside
		}
	}

	return inside
}
