package geo

import (
	"math"
	"testing"
)

func TestHaversineZeroDistance(t *testing.T) {
	p := Point{Lat: 3.1072, Lng: 101.6791}
	if d := Haversine(p, p); d != 0 {
		t.Fatalf("distance to self = %f, want 0", d)
	}
}

func TestHaversineKnownDistances(t *testing.T) {
	center := Point{Lat: 3.1072, Lng: 101.6791}

	// ~0.55 km north of center.
	near := Point{Lat: 3.1122, Lng: 101.6791}
	d := Haversine(center, near)
	if d < 0.5 || d > 0.6 {
		t.Errorf("near point distance = %f km, want ~0.55", d)
	}

	// +0.0449 degrees latitude is ~5 km; must not land strictly inside a 5 km radius.
	far := Point{Lat: 3.1521, Lng: 101.6791}
	d = Haversine(center, far)
	if d < 4.95 || d > 5.05 {
		t.Errorf("far point distance = %f km, want ~5.0", d)
	}
}

func TestHaversineSymmetric(t *testing.T) {
	a := Point{Lat: 52.2297, Lng: 21.0122}
	b := Point{Lat: 41.8919, Lng: 12.5113}
	ab := Haversine(a, b)
	ba := Haversine(b, a)
	if math.Abs(ab-ba) > 1e-9 {
		t.Errorf("haversine not symmetric: %f vs %f", ab, ba)
	}
	// Warsaw to Rome is roughly 1315 km.
	if ab < 1300 || ab > 1330 {
		t.Errorf("Warsaw-Rome distance = %f km, want ~1315", ab)
	}
}

func TestBoundingBoxContainsRadius(t *testing.T) {
	center := Point{Lat: 3.1072, Lng: 101.6791}
	radius := 5.0
	minLat, maxLat, minLng, maxLng := BoundingBox(center, radius)

	if minLat >= center.Lat || maxLat <= center.Lat {
		t.Fatalf("latitude envelope [%f, %f] does not straddle center", minLat, maxLat)
	}
	if minLng >= center.Lng || maxLng <= center.Lng {
		t.Fatalf("longitude envelope [%f, %f] does not straddle center", minLng, maxLng)
	}

	// Points on the radius in the four cardinal directions must fall inside the box.
	probes := []Point{
		{Lat: center.Lat + radius/111.0, Lng: center.Lng},
		{Lat: center.Lat - radius/111.0, Lng: center.Lng},
		{Lat: center.Lat, Lng: center.Lng + radius/(111.0*math.Cos(center.Lat*math.Pi/180))},
		{Lat: center.Lat, Lng: center.Lng - radius/(111.0*math.Cos(center.Lat*math.Pi/180))},
	}
	for _, p := range probes {
		if p.Lat < minLat-1e-9 || p.Lat > maxLat+1e-9 || p.Lng < minLng-1e-9 || p.Lng > maxLng+1e-9 {
			t.Errorf("probe %+v outside bounding box", p)
		}
	}
}

func TestBoundingBoxNearPole(t *testing.T) {
	_, _, minLng, maxLng := BoundingBox(Point{Lat: 89.9999, Lng: 0}, 10)
	if minLng != -180 || maxLng != 180 {
		t.Errorf("polar bounding box lng = [%f, %f], want full range", minLng, maxLng)
	}
}

func TestDistanceOrderingMonotonic(t *testing.T) {
	center := Point{Lat: 3.1072, Lng: 101.6791}
	points := []Point{
		{Lat: 3.1080, Lng: 101.6791},
		{Lat: 3.1122, Lng: 101.6791},
		{Lat: 3.1300, Lng: 101.6791},
		{Lat: 3.1521, Lng: 101.6791},
	}
	prev := -1.0
	for i, p := range points {
		d := Haversine(center, p)
		if d <= prev {
			t.Fatalf("point %d distance %f not greater than previous %f", i, d, prev)
		}
		prev = d
	}
}

func TestValidLatLng(t *testing.T) {
	cases := []struct {
		lat, lng float64
		ok       bool
	}{
		{0, 0, true},
		{90, 180, true},
		{-90, -180, true},
		{90.0001, 0, false},
		{0, 180.0001, false},
		{-91, 0, false},
	}
	for _, c := range cases {
		if got := ValidLat(c.lat) && ValidLng(c.lng); got != c.ok {
			t.Errorf("ValidLat/ValidLng(%f, %f) = %v, want %v", c.lat, c.lng, got, c.ok)
		}
	}
}
