package geojson

import "fmt"

// UnknownGeometryTypeError is returned when a geometry node has no "type"
// tag, or one that is not a recognized GeoJSON geometry kind.
type UnknownGeometryTypeError struct {
	Type string
}

func (e *UnknownGeometryTypeError) Error() string {
	if e.Type == "" {
		return "geojson: geometry type property not defined"
	}
	return fmt.Sprintf("geojson: unknown geometry type: %s", e.Type)
}

// UnknownEnvelopeTypeError is returned when a top-level node has no "type"
// tag, or one that is neither "Feature" nor "FeatureCollection".
type UnknownEnvelopeTypeError struct {
	Type string
}

func (e *UnknownEnvelopeTypeError) Error() string {
	if e.Type == "" {
		return "geojson: envelope type property not defined"
	}
	return fmt.Sprintf("geojson: unknown envelope type: %s", e.Type)
}

// MalformedCoordinatesError is returned when a coordinates array does not
// match the nesting depth or tuple arity of its geometry kind. Path points
// at the offending element, e.g. "geometry.coordinates[1][0]".
type MalformedCoordinatesError struct {
	Path   string
	Reason string
}

func (e *MalformedCoordinatesError) Error() string {
	return fmt.Sprintf("geojson: malformed coordinates at %s: %s", e.Path, e.Reason)
}

// MissingFeaturesArrayError is returned when a FeatureCollection node has no
// "features" member, or one that is not an array.
type MissingFeaturesArrayError struct{}

func (e *MissingFeaturesArrayError) Error() string {
	return `geojson: "features" is missing or not an array`
}

// PropertyDecodeError wraps a failure of the caller-supplied property
// decoder.
type PropertyDecodeError struct {
	Err error
}

func (e *PropertyDecodeError) Error() string {
	return fmt.Sprintf("geojson: failed to decode feature properties: %s", e.Err.Error())
}

func (e *PropertyDecodeError) Unwrap() error {
	return e.Err
}
