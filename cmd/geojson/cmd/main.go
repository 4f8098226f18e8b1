package cmd

import (
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type GlobalOptions struct {
	Verbose bool `short:"v" long:"verbose" description:"Enable debug logging"`
}

var globalOpts = GlobalOptions{}
var parser = flags.NewParser(&globalOpts, flags.HelpFlag|flags.PassDoubleDash)

func Run() error {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	parser.CommandHandler = func(command flags.Commander, args []string) error {
		if globalOpts.Verbose {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		}
		return command.Execute(args)
	}

	_, err := parser.Parse()
	if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
		parser.WriteHelp(os.Stdout)
		return nil
	}
	return err
}
