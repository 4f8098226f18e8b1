package geojson

import "encoding/json"

// PropertyEncoder converts a feature property payload into its JSON node.
// The Feature envelope never inspects the payload itself: any schema can be
// carried by supplying a matching encoder/decoder pair.
type PropertyEncoder[P any] func(props P) (json.RawMessage, error)

// PropertyDecoder converts a JSON node back into a property payload.
type PropertyDecoder[P any] func(data json.RawMessage) (P, error)

// JSONPropertyEncoder returns an encoder backed by encoding/json, the right
// default for struct and map payloads.
func JSONPropertyEncoder[P any]() PropertyEncoder[P] {
	return func(props P) (json.RawMessage, error) {
		return json.Marshal(props)
	}
}

// JSONPropertyDecoder returns a decoder backed by encoding/json.
func JSONPropertyDecoder[P any]() PropertyDecoder[P] {
	return func(data json.RawMessage) (P, error) {
		var props P
		err := json.Unmarshal(data, &props)
		return props, err
	}
}
