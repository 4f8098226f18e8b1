package geojson

import (
	"fmt"

	"github.com/twpayne/go-geom"
)

// Coordinate arrays nest to a fixed depth per geometry kind: a Point holds a
// single position, a LineString an array of positions, a Polygon an array of
// rings, a MultiPolygon an array of polygons. The decode helpers below walk
// one level each, so the shape rules live in one place and every violation
// reports the path of the offending element.

func decodePosition(data interface{}, path string) (geom.Coord, error) {
	coords, ok := data.([]interface{})
	if !ok {
		return nil, &MalformedCoordinatesError{Path: path, Reason: "not a valid position"}
	}

	if len(coords) < 2 || len(coords) > 3 {
		return nil, &MalformedCoordinatesError{
			Path:   path,
			Reason: fmt.Sprintf("position has %d values, expected 2 or 3", len(coords)),
		}
	}

	result := make(geom.Coord, 0, len(coords))
	for i, coord := range coords {
		f, ok := coord.(float64)
		if !ok {
			return nil, &MalformedCoordinatesError{
				Path:   indexPath(path, i),
				Reason: "not a valid coordinate",
			}
		}
		result = append(result, f)
	}

	return result, nil
}

func decodePositionSet(data interface{}, path string) ([]geom.Coord, error) {
	points, ok := data.([]interface{})
	if !ok {
		return nil, &MalformedCoordinatesError{Path: path, Reason: "not a valid set of positions"}
	}

	result := make([]geom.Coord, 0, len(points))
	for i, point := range points {
		p, err := decodePosition(point, indexPath(path, i))
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}

	return result, nil
}

func decodeRingSet(data interface{}, path string) ([][]geom.Coord, error) {
	rings, ok := data.([]interface{})
	if !ok {
		return nil, &MalformedCoordinatesError{Path: path, Reason: "not a valid set of rings"}
	}

	result := make([][]geom.Coord, 0, len(rings))
	for i, ring := range rings {
		r, err := decodePositionSet(ring, indexPath(path, i))
		if err != nil {
			return nil, err
		}
		result = append(result, r)
	}

	return result, nil
}

func decodePolygonSet(data interface{}, path string) ([][][]geom.Coord, error) {
	polygons, ok := data.([]interface{})
	if !ok {
		return nil, &MalformedCoordinatesError{Path: path, Reason: "not a valid set of polygons"}
	}

	result := make([][][]geom.Coord, 0, len(polygons))
	for i, polygon := range polygons {
		p, err := decodeRingSet(polygon, indexPath(path, i))
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}

	return result, nil
}

// Positions within one geometry must share their arity: the first position
// decides between XY and XYZ, the rest have to agree. Empty coordinate
// arrays default to XY.

func positionLayout(coord geom.Coord, stride int, path string) (int, error) {
	if stride == 0 {
		return len(coord), nil
	}
	if len(coord) != stride {
		return 0, &MalformedCoordinatesError{
			Path:   path,
			Reason: fmt.Sprintf("position has %d values, expected %d", len(coord), stride),
		}
	}
	return stride, nil
}

func lineLayout(coords []geom.Coord, stride int, path string) (int, error) {
	var err error
	for i, c := range coords {
		stride, err = positionLayout(c, stride, indexPath(path, i))
		if err != nil {
			return 0, err
		}
	}
	return stride, nil
}

func ringLayout(rings [][]geom.Coord, stride int, path string) (int, error) {
	var err error
	for i, r := range rings {
		stride, err = lineLayout(r, stride, indexPath(path, i))
		if err != nil {
			return 0, err
		}
	}
	return stride, nil
}

func polygonLayout(polygons [][][]geom.Coord, stride int, path string) (int, error) {
	var err error
	for i, p := range polygons {
		stride, err = ringLayout(p, stride, indexPath(path, i))
		if err != nil {
			return 0, err
		}
	}
	return stride, nil
}

func layoutForStride(stride int) geom.Layout {
	if stride == 3 {
		return geom.XYZ
	}
	return geom.XY
}

func fieldPath(base, field string) string {
	if base == "" {
		return field
	}
	return base + "." + field
}

func indexPath(base string, i int) string {
	return fmt.Sprintf("%s[%d]", base, i)
}
