package geojson

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/twpayne/go-geom"
)

// A Feature pairs one geometry with an arbitrary property payload and an
// optional identifier. Geometry and Properties may both be absent: GeoJSON
// allows unlocated features and features without properties.
type Feature[P any] struct {
	ID         interface{}
	Geometry   geom.T
	Properties *P
}

// A FeatureCollection is an ordered list of features. Order is preserved
// exactly through encode and decode, nothing is sorted or deduplicated.
type FeatureCollection[P any] struct {
	Features []*Feature[P]
}

// The two top-level envelope tags, registered once. Like the geometry codec
// table this is read-only after init, so decoding is safe to use
// concurrently.
var envelopeTypes = map[string]bool{
	TypeFeature:           true,
	TypeFeatureCollection: true,
}

// envelopeTag reads the type tag of a top-level node and checks it against
// the envelope registry before any structural parsing happens.
func envelopeTag(node map[string]json.RawMessage) (string, error) {
	tag := typeTag(node)
	if !envelopeTypes[tag] {
		return "", &UnknownEnvelopeTypeError{Type: tag}
	}
	return tag, nil
}

// featureNode fixes the emission order: type, id, geometry, properties.
// An unset id is omitted, absent geometry and properties are emitted as
// explicit nulls.
type featureNode struct {
	Type       string          `json:"type"`
	ID         interface{}     `json:"id,omitempty"`
	Geometry   *Geometry       `json:"geometry"`
	Properties json.RawMessage `json:"properties"`
}

type featureCollectionNode struct {
	Type     string            `json:"type"`
	Features []json.RawMessage `json:"features"`
}

// MarshalFeature converts a feature into GeoJSON text. The property payload
// is encoded through enc, the envelope itself never looks at it.
func MarshalFeature[P any](f *Feature[P], enc PropertyEncoder[P]) ([]byte, error) {
	node, err := encodeFeature(f, enc)
	if err != nil {
		return nil, err
	}
	return json.Marshal(node)
}

func encodeFeature[P any](f *Feature[P], enc PropertyEncoder[P]) (*featureNode, error) {
	node := &featureNode{
		Type: TypeFeature,
		ID:   f.ID,
	}

	if f.Geometry != nil {
		g, err := Encode(f.Geometry)
		if err != nil {
			return nil, err
		}
		node.Geometry = g
	}

	if f.Properties != nil {
		props, err := enc(*f.Properties)
		if err != nil {
			return nil, errors.Wrap(err, "geojson: failed to encode feature properties")
		}
		node.Properties = props
	}

	return node, nil
}

// UnmarshalFeature parses GeoJSON text into a feature, decoding the property
// payload through dec.
func UnmarshalFeature[P any](data []byte, dec PropertyDecoder[P]) (*Feature[P], error) {
	var node map[string]json.RawMessage
	if err := json.Unmarshal(data, &node); err != nil {
		return nil, errors.Wrap(err, "geojson: malformed JSON")
	}

	tag, err := envelopeTag(node)
	if err != nil {
		return nil, err
	}
	if tag != TypeFeature {
		return nil, &UnknownEnvelopeTypeError{Type: tag}
	}

	return decodeFeatureNode(node, dec, "")
}

func decodeFeatureNode[P any](node map[string]json.RawMessage, dec PropertyDecoder[P], path string) (*Feature[P], error) {
	f := &Feature[P]{}

	if raw, ok := node["id"]; ok && !isNull(raw) {
		var id interface{}
		if err := json.Unmarshal(raw, &id); err != nil {
			return nil, errors.Wrap(err, "geojson: malformed JSON")
		}
		f.ID = id
	}

	if raw, ok := node["geometry"]; ok && !isNull(raw) {
		var gnode map[string]json.RawMessage
		if err := json.Unmarshal(raw, &gnode); err != nil {
			return nil, errors.Wrap(err, "geojson: malformed JSON")
		}

		g, err := decodeGeometryNode(gnode, fieldPath(path, "geometry"))
		if err != nil {
			return nil, err
		}
		f.Geometry = g
	}

	if raw, ok := node["properties"]; ok && !isNull(raw) {
		props, err := dec(raw)
		if err != nil {
			return nil, &PropertyDecodeError{Err: err}
		}
		f.Properties = &props
	}

	return f, nil
}

// MarshalFeatureCollection converts a collection into GeoJSON text. All
// features share the same property encoder.
func MarshalFeatureCollection[P any](fc *FeatureCollection[P], enc PropertyEncoder[P]) ([]byte, error) {
	node := &featureCollectionNode{
		Type:     TypeFeatureCollection,
		Features: make([]json.RawMessage, 0, len(fc.Features)),
	}

	for i, f := range fc.Features {
		data, err := MarshalFeature(f, enc)
		if err != nil {
			return nil, errors.Wrapf(err, "feature %d", i)
		}
		node.Features = append(node.Features, data)
	}

	return json.Marshal(node)
}

// UnmarshalFeatureCollection parses GeoJSON text into a collection,
// preserving feature order. All features share the same property decoder.
func UnmarshalFeatureCollection[P any](data []byte, dec PropertyDecoder[P]) (*FeatureCollection[P], error) {
	var node map[string]json.RawMessage
	if err := json.Unmarshal(data, &node); err != nil {
		return nil, errors.Wrap(err, "geojson: malformed JSON")
	}

	tag, err := envelopeTag(node)
	if err != nil {
		return nil, err
	}
	if tag != TypeFeatureCollection {
		return nil, &UnknownEnvelopeTypeError{Type: tag}
	}

	raw, ok := node["features"]
	if !ok || isNull(raw) {
		return nil, &MissingFeaturesArrayError{}
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		return nil, &MissingFeaturesArrayError{}
	}

	fc := &FeatureCollection[P]{
		Features: make([]*Feature[P], 0, len(elements)),
	}

	for i, element := range elements {
		fpath := indexPath("features", i)

		var fnode map[string]json.RawMessage
		if err := json.Unmarshal(element, &fnode); err != nil {
			return nil, errors.Wrapf(err, "geojson: malformed JSON at %s", fpath)
		}

		if tag := typeTag(fnode); tag != TypeFeature {
			return nil, &UnknownEnvelopeTypeError{Type: tag}
		}

		f, err := decodeFeatureNode(fnode, dec, fpath)
		if err != nil {
			return nil, err
		}
		fc.Features = append(fc.Features, f)
	}

	return fc, nil
}
