package cmd

import (
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/twpayne/go-geom/encoding/wkt"
	"golang.org/x/sync/errgroup"

	"github.com/rubenv/geojson"
)

type CmdConvert struct {
	global *GlobalOptions

	Output string `short:"o" long:"out" description:"Output file (stdout if empty)"`
}

func init() {
	_, err := parser.AddCommand("convert",
		"Convert geometries",
		"Convert geometries between WKT and GeoJSON, reads stdin when no files are given",
		&CmdConvert{global: &globalOpts})
	if err != nil {
		panic(err)
	}
}

func (cmd CmdConvert) Execute(args []string) error {
	results := make([][]byte, len(args))

	if len(args) == 0 {
		in, err := io.ReadAll(os.Stdin)
		if err != nil {
			return err
		}

		out, err := convert(in)
		if err != nil {
			return err
		}
		results = [][]byte{out}
	} else {
		var g errgroup.Group
		g.SetLimit(runtime.NumCPU())

		for i, filename := range args {
			i, filename := i, filename
			g.Go(func() error {
				in, err := os.ReadFile(filename)
				if err != nil {
					return err
				}

				out, err := convert(in)
				if err != nil {
					return err
				}

				log.Debug().Str("file", filename).Msg("converted")
				results[i] = out
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return err
		}
	}

	out := os.Stdout
	if cmd.Output != "" {
		f, err := os.Create(cmd.Output)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	// input order, regardless of which conversion finished first
	for _, result := range results {
		if _, err := out.Write(result); err != nil {
			return err
		}
	}

	return nil
}

// convert maps WKT input to GeoJSON and GeoJSON input to WKT, picking the
// direction from the leading character.
func convert(data []byte) ([]byte, error) {
	in := strings.TrimSpace(string(data))

	if strings.HasPrefix(in, "{") {
		g, err := geojson.Unmarshal([]byte(in))
		if err != nil {
			return nil, err
		}

		out, err := wkt.Marshal(g)
		if err != nil {
			return nil, err
		}
		return []byte(out + "\n"), nil
	}

	g, err := wkt.Unmarshal(in)
	if err != nil {
		return nil, err
	}

	out, err := geojson.Marshal(g)
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}
