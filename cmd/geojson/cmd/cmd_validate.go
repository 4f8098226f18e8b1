package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/rubenv/geojson"
)

type CmdValidate struct {
	global *GlobalOptions
}

func init() {
	_, err := parser.AddCommand("validate",
		"Validate GeoJSON",
		"Parse GeoJSON input and report structural errors, reads stdin when no files are given",
		&CmdValidate{global: &globalOpts})
	if err != nil {
		panic(err)
	}
}

func (cmd CmdValidate) Execute(args []string) error {
	if len(args) == 0 {
		in, err := io.ReadAll(os.Stdin)
		if err != nil {
			return err
		}
		return validate("stdin", in)
	}

	failed := 0
	for _, filename := range args {
		in, err := os.ReadFile(filename)
		if err != nil {
			return err
		}

		if err := validate(filename, in); err != nil {
			log.Error().Str("file", filename).Msg(err.Error())
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d inputs invalid", failed, len(args))
	}
	return nil
}

// validate parses the input as a geometry, a Feature or a FeatureCollection,
// depending on its type tag.
func validate(name string, data []byte) error {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}

	dec := geojson.JSONPropertyDecoder[map[string]interface{}]()

	var err error
	switch probe.Type {
	case geojson.TypeFeature:
		_, err = geojson.UnmarshalFeature(data, dec)
	case geojson.TypeFeatureCollection:
		var fc *geojson.FeatureCollection[map[string]interface{}]
		fc, err = geojson.UnmarshalFeatureCollection(data, dec)
		if err == nil {
			log.Debug().Str("file", name).Int("features", len(fc.Features)).Msg("valid")
			return nil
		}
	default:
		_, err = geojson.Unmarshal(data)
	}

	if err == nil {
		log.Debug().Str("file", name).Str("type", probe.Type).Msg("valid")
	}
	return err
}
