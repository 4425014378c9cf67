package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/vplan-fr/stundenplan24-wrapper/pkg/client"
	"github.com/vplan-fr/stundenplan24-wrapper/pkg/crawler"

	_ "time/tzdata"
)

func main() {
	if os.Getenv("SP24_LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	if os.Getenv("SP24_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	app := &cli.App{
		Name:        "sp24",
		Description: "Fetch, normalize & reconcile school timetables published on stundenplan24.de",

		Commands: []*cli.Command{
			client.RegisterCLI(),
			crawler.RegisterCLI(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}
