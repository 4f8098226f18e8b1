package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/rubenv/geojson/cmd/geojson/cmd"
)

func main() {
	err := cmd.Run()
	if err != nil {
		log.Error().Msg(err.Error())
		os.Exit(1)
	}
}
