// Package geojson implements encoding and decoding of the GeoJSON text
// format for the geometry model of github.com/twpayne/go-geom.
//
// Geometries are converted between geom.T values and their GeoJSON wire
// shape. Features and FeatureCollections wrap geometries together with an
// arbitrary, caller-defined property payload, see Feature.
package geojson

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"github.com/twpayne/go-geom"
)

const (
	TypePoint              = "Point"
	TypeLineString         = "LineString"
	TypePolygon            = "Polygon"
	TypeMultiPoint         = "MultiPoint"
	TypeMultiLineString    = "MultiLineString"
	TypeMultiPolygon       = "MultiPolygon"
	TypeGeometryCollection = "GeometryCollection"
	TypeFeature            = "Feature"
	TypeFeatureCollection  = "FeatureCollection"
)

// Geometry is the wire form of a single geometry: the kind tag plus its
// shaped coordinate array, or the child geometries for a collection.
type Geometry struct {
	Type        string
	Coordinates interface{}
	Geometries  []*Geometry
}

// MarshalJSON converts the geometry into its GeoJSON representation.
// This fulfills the json.Marshaler interface.
func (g *Geometry) MarshalJSON() ([]byte, error) {
	// defining a struct here lets us define the order of the JSON elements.
	type geometry struct {
		Type        string      `json:"type"`
		Coordinates interface{} `json:"coordinates,omitempty"`
		Geometries  interface{} `json:"geometries,omitempty"`
	}

	geo := &geometry{Type: g.Type}

	if g.Type == TypeGeometryCollection {
		children := g.Geometries
		if children == nil {
			children = []*Geometry{}
		}
		geo.Geometries = children
	} else {
		geo.Coordinates = g.Coordinates
	}

	return json.Marshal(geo)
}

// A geometryCodec holds both directions for one geometry kind. The codec
// table below is built once and only read afterwards, so concurrent use
// needs no locking.
type geometryCodec struct {
	encode func(g geom.T) (*Geometry, error)
	decode func(node map[string]json.RawMessage, path string) (geom.T, error)
}

var geometryCodecs map[string]*geometryCodec

func init() {
	geometryCodecs = map[string]*geometryCodec{
		TypePoint: {
			encode: func(g geom.T) (*Geometry, error) {
				return &Geometry{Type: TypePoint, Coordinates: g.(*geom.Point).Coords()}, nil
			},
			decode: decodePoint,
		},
		TypeLineString: {
			encode: func(g geom.T) (*Geometry, error) {
				return &Geometry{Type: TypeLineString, Coordinates: g.(*geom.LineString).Coords()}, nil
			},
			decode: decodeLineString,
		},
		TypePolygon: {
			encode: func(g geom.T) (*Geometry, error) {
				return &Geometry{Type: TypePolygon, Coordinates: g.(*geom.Polygon).Coords()}, nil
			},
			decode: decodePolygon,
		},
		TypeMultiPoint: {
			encode: func(g geom.T) (*Geometry, error) {
				return &Geometry{Type: TypeMultiPoint, Coordinates: g.(*geom.MultiPoint).Coords()}, nil
			},
			decode: decodeMultiPoint,
		},
		TypeMultiLineString: {
			encode: func(g geom.T) (*Geometry, error) {
				return &Geometry{Type: TypeMultiLineString, Coordinates: g.(*geom.MultiLineString).Coords()}, nil
			},
			decode: decodeMultiLineString,
		},
		TypeMultiPolygon: {
			encode: func(g geom.T) (*Geometry, error) {
				return &Geometry{Type: TypeMultiPolygon, Coordinates: g.(*geom.MultiPolygon).Coords()}, nil
			},
			decode: decodeMultiPolygon,
		},
		TypeGeometryCollection: {
			encode: encodeGeometryCollection,
			decode: decodeGeometryCollection,
		},
	}
}

func kindOf(g geom.T) string {
	switch g.(type) {
	case *geom.Point:
		return TypePoint
	case *geom.LineString:
		return TypeLineString
	case *geom.Polygon:
		return TypePolygon
	case *geom.MultiPoint:
		return TypeMultiPoint
	case *geom.MultiLineString:
		return TypeMultiLineString
	case *geom.MultiPolygon:
		return TypeMultiPolygon
	case *geom.GeometryCollection:
		return TypeGeometryCollection
	}
	return ""
}

// Encode converts a geometry value into its wire form.
func Encode(g geom.T) (*Geometry, error) {
	if g == nil {
		return nil, &UnknownGeometryTypeError{}
	}

	codec, ok := geometryCodecs[kindOf(g)]
	if !ok {
		return nil, &UnknownGeometryTypeError{Type: fmt.Sprintf("%T", g)}
	}

	return codec.encode(g)
}

// Marshal converts a geometry value into GeoJSON text.
func Marshal(g geom.T) ([]byte, error) {
	geo, err := Encode(g)
	if err != nil {
		return nil, err
	}
	return json.Marshal(geo)
}

// Unmarshal parses GeoJSON text into a geometry value.
func Unmarshal(data []byte) (geom.T, error) {
	var node map[string]json.RawMessage
	if err := json.Unmarshal(data, &node); err != nil {
		return nil, errors.Wrap(err, "geojson: malformed JSON")
	}
	return decodeGeometryNode(node, "")
}

// decodeGeometryNode resolves the type tag against the codec table, then
// hands the full node to the matching decode routine.
func decodeGeometryNode(node map[string]json.RawMessage, path string) (geom.T, error) {
	tag := typeTag(node)
	codec, ok := geometryCodecs[tag]
	if !ok {
		return nil, &UnknownGeometryTypeError{Type: tag}
	}
	return codec.decode(node, path)
}

func decodePoint(node map[string]json.RawMessage, path string) (geom.T, error) {
	cpath := fieldPath(path, "coordinates")
	data, err := coordinatesField(node, cpath)
	if err != nil {
		return nil, err
	}

	coord, err := decodePosition(data, cpath)
	if err != nil {
		return nil, err
	}

	return newGeom(cpath)(geom.NewPoint(layoutForStride(len(coord))).SetCoords(coord))
}

func decodeLineString(node map[string]json.RawMessage, path string) (geom.T, error) {
	cpath := fieldPath(path, "coordinates")
	data, err := coordinatesField(node, cpath)
	if err != nil {
		return nil, err
	}

	coords, err := decodePositionSet(data, cpath)
	if err != nil {
		return nil, err
	}

	stride, err := lineLayout(coords, 0, cpath)
	if err != nil {
		return nil, err
	}

	return newGeom(cpath)(geom.NewLineString(layoutForStride(stride)).SetCoords(coords))
}

func decodePolygon(node map[string]json.RawMessage, path string) (geom.T, error) {
	cpath := fieldPath(path, "coordinates")
	data, err := coordinatesField(node, cpath)
	if err != nil {
		return nil, err
	}

	rings, err := decodeRingSet(data, cpath)
	if err != nil {
		return nil, err
	}

	stride, err := ringLayout(rings, 0, cpath)
	if err != nil {
		return nil, err
	}

	return newGeom(cpath)(geom.NewPolygon(layoutForStride(stride)).SetCoords(rings))
}

func decodeMultiPoint(node map[string]json.RawMessage, path string) (geom.T, error) {
	cpath := fieldPath(path, "coordinates")
	data, err := coordinatesField(node, cpath)
	if err != nil {
		return nil, err
	}

	coords, err := decodePositionSet(data, cpath)
	if err != nil {
		return nil, err
	}

	stride, err := lineLayout(coords, 0, cpath)
	if err != nil {
		return nil, err
	}

	return newGeom(cpath)(geom.NewMultiPoint(layoutForStride(stride)).SetCoords(coords))
}

func decodeMultiLineString(node map[string]json.RawMessage, path string) (geom.T, error) {
	cpath := fieldPath(path, "coordinates")
	data, err := coordinatesField(node, cpath)
	if err != nil {
		return nil, err
	}

	lines, err := decodeRingSet(data, cpath)
	if err != nil {
		return nil, err
	}

	stride, err := ringLayout(lines, 0, cpath)
	if err != nil {
		return nil, err
	}

	return newGeom(cpath)(geom.NewMultiLineString(layoutForStride(stride)).SetCoords(lines))
}

func decodeMultiPolygon(node map[string]json.RawMessage, path string) (geom.T, error) {
	cpath := fieldPath(path, "coordinates")
	data, err := coordinatesField(node, cpath)
	if err != nil {
		return nil, err
	}

	polygons, err := decodePolygonSet(data, cpath)
	if err != nil {
		return nil, err
	}

	stride, err := polygonLayout(polygons, 0, cpath)
	if err != nil {
		return nil, err
	}

	return newGeom(cpath)(geom.NewMultiPolygon(layoutForStride(stride)).SetCoords(polygons))
}

func encodeGeometryCollection(g geom.T) (*Geometry, error) {
	gc := g.(*geom.GeometryCollection)

	children := make([]*Geometry, 0, gc.NumGeoms())
	for _, child := range gc.Geoms() {
		c, err := Encode(child)
		if err != nil {
			return nil, err
		}
		children = append(children, c)
	}

	return &Geometry{Type: TypeGeometryCollection, Geometries: children}, nil
}

func decodeGeometryCollection(node map[string]json.RawMessage, path string) (geom.T, error) {
	gpath := fieldPath(path, "geometries")

	raw, ok := node["geometries"]
	if !ok || isNull(raw) {
		return nil, &MalformedCoordinatesError{Path: gpath, Reason: "not a valid set of geometries"}
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		return nil, &MalformedCoordinatesError{Path: gpath, Reason: "not a valid set of geometries"}
	}

	gc := geom.NewGeometryCollection()
	for i, element := range elements {
		var child map[string]json.RawMessage
		if err := json.Unmarshal(element, &child); err != nil {
			return nil, &MalformedCoordinatesError{Path: indexPath(gpath, i), Reason: "not a valid geometry"}
		}

		g, err := decodeGeometryNode(child, indexPath(gpath, i))
		if err != nil {
			return nil, err
		}

		if err := gc.Push(g); err != nil {
			return nil, err
		}
	}

	return gc, nil
}

// coordinatesField pulls the coordinates member out of a geometry node and
// parses it into a generic value tree.
func coordinatesField(node map[string]json.RawMessage, cpath string) (interface{}, error) {
	raw, ok := node["coordinates"]
	if !ok || isNull(raw) {
		return nil, &MalformedCoordinatesError{Path: cpath, Reason: "not defined"}
	}

	var data interface{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, errors.Wrap(err, "geojson: malformed JSON")
	}
	return data, nil
}

// newGeom maps a construction failure from go-geom onto the coordinate
// error taxonomy. After shape validation this should not trigger, it guards
// against constraints enforced deeper in the geometry library.
func newGeom(cpath string) func(g geom.T, err error) (geom.T, error) {
	return func(g geom.T, err error) (geom.T, error) {
		if err != nil {
			return nil, &MalformedCoordinatesError{Path: cpath, Reason: err.Error()}
		}
		return g, nil
	}
}

func typeTag(node map[string]json.RawMessage) string {
	raw, ok := node["type"]
	if !ok {
		return ""
	}

	var tag string
	if err := json.Unmarshal(raw, &tag); err != nil {
		return ""
	}
	return tag
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}
