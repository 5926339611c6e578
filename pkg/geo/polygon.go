package geo

// Polygon is a closed ring of [latitude, longitude] vertices treated as a
// flat shape in degree space.
type Polygon []Coordinates

// Valid reports whether the polygon has enough vertices to enclose an area.
func (p Polygon) Valid() bool {
	return len(p) >= 3
}

// Contains reports whether the point lies inside the polygon using ray
// casting. Points on an edge may fall either way.
func (p Polygon) Contains(point Coordinates) bool {
	if !p.Valid() {
		return false
	}

	x, y := point.Latitude(), point.Longitude()
	inside := false
	for i, j := 0, len(p)-1; i < len(p); j, i = i, i+1 {
		xi, yi := p[i].Latitude(), p[i].Longitude()
		xj, yj := p[j].Latitude(), p[j].Longitude()
		if (yi > y) != (yj > y) && x < (xj-xi)*(y-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}

// SamplePoint maps two unit draws onto the polygon's corner spans: the
// latitude interpolates between vertices 0 and 2, the longitude between
// vertices 0 and 1. This is not uniform over the polygon.
func (p Polygon) SamplePoint(r1, r2 float64) Coordinates {
	if !p.Valid() {
		return Coordinates{}
	}
	return Coordinates{
		r1*(p[2].Latitude()-p[0].Latitude()) + p[0].Latitude(),
		r2*(p[1].Longitude()-p[0].Longitude()) + p[0].Longitude(),
	}
}
