package geo

import (
	"encoding/json"
	"fmt"
)

// Polygon is a set of coordinate rings. The first ring is the outer boundary;
// any further rings are holes. Rings are closed: first and last point equal.
type Polygon struct {
	Rings [][]Point
}

// geometryDoc matches the GeoJSON-style shape risk zones are stored as:
// {"coordinates": [[[lng, lat], ...], ...]}. Coordinates are lng-first.
type geometryDoc struct {
	Coordinates [][][2]float64 `json:"coordinates"`
}

// ParsePolygon decodes a polygon from its raw JSON geometry. Zone geometry may
// arrive string-encoded (JSON inside a JSON string), so one level of string
// unwrapping is tolerated before decoding the coordinate rings.
func ParsePolygon(raw []byte) (Polygon, error) {
	var encoded string
	if err := json.Unmarshal(raw, &encoded); err == nil {
		raw = []byte(encoded)
	}

	var doc geometryDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Polygon{}, fmt.Errorf("failed to decode polygon geometry: %w", err)
	}
	if len(doc.Coordinates) == 0 {
		return Polygon{}, fmt.Errorf("polygon geometry has no rings")
	}

	poly := Polygon{Rings: make([][]Point, 0, len(doc.Coordinates))}
	for i, ring := range doc.Coordinates {
		if len(ring) < 4 {
			return Polygon{}, fmt.Errorf("polygon ring %d has fewer than 4 points", i)
		}
		first, last := ring[0], ring[len(ring)-1]
		if first != last {
			return Polygon{}, fmt.Errorf("polygon ring %d is not closed", i)
		}
		points := make([]Point, len(ring))
		for j, coord := range ring {
			points[j] = Point{Lat: coord[1], Lng: coord[0]}
		}
		poly.Rings = append(poly.Rings, points)
	}
	return poly, nil
}

// Contains reports whether the point lies inside the polygon's outer ring and
// outside all of its holes.
func (p Polygon) Contains(pt Point) bool {
	if len(p.Rings) == 0 {
		return false
	}
	if !pointInRing(pt, p.Rings[0]) {
		return false
	}
	for _, hole := range p.Rings[1:] {
		if pointInRing(pt, hole) {
			return false
		}
	}
	return true
}

// pointInRing is the even-odd ray casting test.
func pointInRing(pt Point, ring []Point) bool {
	n := len(ring)
	if n < 3 {
		return false
	}
	inside := false
	x, y := pt.Lng, pt.Lat
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := ring[i].Lng, ring[i].Lat
		xj, yj := ring[j].Lng, ring[j].Lat
		if ((yi > y) != (yj > y)) && (x < (xj-xi)*(y-yi)/(yj-yi)+xi) {
			inside = !inside
		}
	}
	return inside
}
