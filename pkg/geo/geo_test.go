package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance_Symmetric(t *testing.T) {
	a := Point{Lat: -8.0476, Lng: -34.8770}
	b := Point{Lat: -8.0500, Lng: -34.8800}

	assert.Equal(t, Distance(a, b), Distance(b, a))
}

func TestDistance_SamePointIsZero(t *testing.T) {
	p := Point{Lat: -8.0476, Lng: -34.8770}

	assert.Zero(t, Distance(p, p))
}

func TestDistance_OneDegreeLongitudeAtEquator(t *testing.T) {
	// One degree of longitude along the equator is ~111.19 km.
	a := Point{Lat: 0, Lng: 0}
	b := Point{Lat: 0, Lng: 1}

	d := Distance(a, b)
	assert.InEpsilon(t, 111195.0, d, 0.005)
}

func TestDistance_AlwaysNonNegative(t *testing.T) {
	points := []Point{
		{Lat: 90, Lng: 0},
		{Lat: -90, Lng: 180},
		{Lat: 0, Lng: -180},
		{Lat: -8.0476, Lng: -34.8770},
	}
	for _, a := range points {
		for _, b := range points {
			assert.GreaterOrEqual(t, Distance(a, b), 0.0)
		}
	}
}

func TestParsePolygon_Valid(t *testing.T) {
	raw := []byte(`{"coordinates": [[[0,0],[0,1],[1,1],[1,0],[0,0]]]}`)

	poly, err := ParsePolygon(raw)
	require.NoError(t, err)
	require.Len(t, poly.Rings, 1)
	assert.Len(t, poly.Rings[0], 5)
	// lng-first in the document, lat-first in the Point.
	assert.Equal(t, Point{Lat: 1, Lng: 0}, poly.Rings[0][1])
}

func TestParsePolygon_StringEncoded(t *testing.T) {
	// Geometry sometimes arrives double-encoded as a JSON string.
	raw := []byte(`"{\"coordinates\": [[[0,0],[0,1],[1,1],[1,0],[0,0]]]}"`)

	poly, err := ParsePolygon(raw)
	require.NoError(t, err)
	require.Len(t, poly.Rings, 1)
}

func TestParsePolygon_RejectsOpenRing(t *testing.T) {
	raw := []byte(`{"coordinates": [[[0,0],[0,1],[1,1],[1,0]]]}`)

	_, err := ParsePolygon(raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not closed")
}

func TestParsePolygon_RejectsEmpty(t *testing.T) {
	_, err := ParsePolygon([]byte(`{"coordinates": []}`))
	require.Error(t, err)
}

func TestPolygonContains(t *testing.T) {
	poly, err := ParsePolygon([]byte(`{"coordinates": [[[0,0],[0,10],[10,10],[10,0],[0,0]]]}`))
	require.NoError(t, err)

	assert.True(t, poly.Contains(Point{Lat: 5, Lng: 5}))
	assert.False(t, poly.Contains(Point{Lat: 15, Lng: 5}))
	assert.False(t, poly.Contains(Point{Lat: -1, Lng: -1}))
}

func TestPolygonContains_Hole(t *testing.T) {
	raw := []byte(`{"coordinates": [
		[[0,0],[0,10],[10,10],[10,0],[0,0]],
		[[4,4],[4,6],[6,6],[6,4],[4,4]]
	]}`)
	poly, err := ParsePolygon(raw)
	require.NoError(t, err)

	assert.True(t, poly.Contains(Point{Lat: 2, Lng: 2}))
	assert.False(t, poly.Contains(Point{Lat: 5, Lng: 5}), "point inside the hole")
}
