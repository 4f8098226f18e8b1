package geojson

import (
	"errors"
	"testing"

	"github.com/cheekybits/is"
	"github.com/google/go-cmp/cmp"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkt"
)

func coordsOf(g geom.T) interface{} {
	switch g := g.(type) {
	case *geom.Point:
		return g.Coords()
	case *geom.LineString:
		return g.Coords()
	case *geom.Polygon:
		return g.Coords()
	case *geom.MultiPoint:
		return g.Coords()
	case *geom.MultiLineString:
		return g.Coords()
	case *geom.MultiPolygon:
		return g.Coords()
	case *geom.GeometryCollection:
		children := make([]interface{}, 0, g.NumGeoms())
		for _, c := range g.Geoms() {
			children = append(children, coordsOf(c))
		}
		return children
	}
	return nil
}

func assertGeomEqual(t *testing.T, want, got geom.T) {
	t.Helper()

	if kindOf(want) != kindOf(got) {
		t.Fatalf("geometry kind mismatch: want %s, got %s", kindOf(want), kindOf(got))
	}
	if diff := cmp.Diff(coordsOf(want), coordsOf(got)); diff != "" {
		t.Fatalf("coordinates mismatch (-want +got):\n%s", diff)
	}
}

func mustWKT(t *testing.T, s string) geom.T {
	t.Helper()

	g, err := wkt.Unmarshal(s)
	if err != nil {
		t.Fatalf("bad fixture %q: %s", s, err)
	}
	return g
}

func TestEncodePoint(t *testing.T) {
	is := is.New(t)

	out, err := Marshal(geom.NewPoint(geom.XY).MustSetCoords(geom.Coord{15, 20}))
	is.NoErr(err)
	is.Equal(string(out), `{"type":"Point","coordinates":[15,20]}`)
}

func TestDecodePoint(t *testing.T) {
	is := is.New(t)

	g, err := Unmarshal([]byte(`{"type":"Point","coordinates":[15,20]}`))
	is.NoErr(err)

	p, ok := g.(*geom.Point)
	is.True(ok)
	is.Equal(p.X(), 15.0)
	is.Equal(p.Y(), 20.0)
}

func TestRoundTrip(t *testing.T) {
	is := is.New(t)

	fixtures := []string{
		"POINT (15 20)",
		"LINESTRING (15 15, 20 20)",
		"POLYGON ((0 0, 10 0, 10 10, 0 10, 0 0))",
		"POLYGON ((0 0, 10 0, 10 10, 0 10, 0 0), (5 5, 7 5, 7 7, 5 7, 5 5))",
		"MULTIPOINT (1 2, 3 4)",
		"MULTILINESTRING ((1 1, 2 2, 3 3), (4 4, 5 5))",
		"MULTIPOLYGON (((0 0, 1 0, 1 1, 0 0)), ((2 2, 3 2, 3 3, 2 2)))",
		"GEOMETRYCOLLECTION (POINT (10 10), POINT (30 30), LINESTRING (15 15, 20 20))",
	}

	for _, fixture := range fixtures {
		in := mustWKT(t, fixture)

		data, err := Marshal(in)
		is.NoErr(err)

		out, err := Unmarshal(data)
		if err != nil {
			t.Fatalf("%s: %s", fixture, err)
		}

		assertGeomEqual(t, in, out)
	}
}

func TestRoundTripPolygonWithHole(t *testing.T) {
	is := is.New(t)

	in := mustWKT(t, "POLYGON ((0 0, 10 0, 10 10, 0 10, 0 0), (5 5, 7 5, 7 7, 5 7, 5 5))")

	data, err := Marshal(in)
	is.NoErr(err)

	out, err := Unmarshal(data)
	is.NoErr(err)

	poly, ok := out.(*geom.Polygon)
	is.True(ok)
	is.Equal(poly.NumLinearRings(), 2)
	assertGeomEqual(t, in, out)
}

func TestRoundTripGeometryCollection(t *testing.T) {
	is := is.New(t)

	in := mustWKT(t, "GEOMETRYCOLLECTION (POINT (10 10), POINT (30 30), LINESTRING (15 15, 20 20))")

	data, err := Marshal(in)
	is.NoErr(err)

	out, err := Unmarshal(data)
	is.NoErr(err)

	gc, ok := out.(*geom.GeometryCollection)
	is.True(ok)
	is.Equal(gc.NumGeoms(), 3)
	is.Equal(kindOf(gc.Geom(0)), TypePoint)
	is.Equal(kindOf(gc.Geom(1)), TypePoint)
	is.Equal(kindOf(gc.Geom(2)), TypeLineString)
	assertGeomEqual(t, in, out)
}

func TestRoundTrip3D(t *testing.T) {
	is := is.New(t)

	in := geom.NewPoint(geom.XYZ).MustSetCoords(geom.Coord{1, 2, 3})

	data, err := Marshal(in)
	is.NoErr(err)
	is.Equal(string(data), `{"type":"Point","coordinates":[1,2,3]}`)

	out, err := Unmarshal(data)
	is.NoErr(err)
	is.Equal(out.Layout(), geom.XYZ)
	assertGeomEqual(t, in, out)
}

func TestEncodeEmptyGeometryCollection(t *testing.T) {
	is := is.New(t)

	out, err := Marshal(geom.NewGeometryCollection())
	is.NoErr(err)
	is.Equal(string(out), `{"type":"GeometryCollection","geometries":[]}`)
}

func TestEncodeNestedGeometryCollection(t *testing.T) {
	is := is.New(t)

	inner := geom.NewGeometryCollection()
	err := inner.Push(geom.NewPoint(geom.XY).MustSetCoords(geom.Coord{1, 2}))
	is.NoErr(err)

	outer := geom.NewGeometryCollection()
	err = outer.Push(inner)
	is.NoErr(err)

	data, err := Marshal(outer)
	is.NoErr(err)

	out, err := Unmarshal(data)
	is.NoErr(err)
	assertGeomEqual(t, outer, out)
}

func TestDecodeUnknownType(t *testing.T) {
	is := is.New(t)

	g, err := Unmarshal([]byte(`{"type":"NotAType","coordinates":[1,2]}`))
	is.NotNil(err)
	is.Nil(g)

	var unknown *UnknownGeometryTypeError
	is.True(errors.As(err, &unknown))
	is.Equal(unknown.Type, "NotAType")
}

func TestDecodeMissingType(t *testing.T) {
	is := is.New(t)

	g, err := Unmarshal([]byte(`{"coordinates":[1,2]}`))
	is.NotNil(err)
	is.Nil(g)

	var unknown *UnknownGeometryTypeError
	is.True(errors.As(err, &unknown))
	is.Equal(unknown.Type, "")
}

func TestDecodeMalformedJSON(t *testing.T) {
	is := is.New(t)

	g, err := Unmarshal([]byte(`{"type":`))
	is.NotNil(err)
	is.Nil(g)

	g, err = Unmarshal([]byte(`[1,2]`))
	is.NotNil(err)
	is.Nil(g)
}
